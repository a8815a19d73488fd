package msgs

import (
	"github.com/golang/protobuf/proto"
)

// PinStatesEvent reports the input signals read from the tester. Bits
// of each channel follow the read order, mode-1 in bit 0.
type PinStatesEvent struct {
	ChannelA uint32 `protobuf:"varint,1,opt,name=channel_a,json=channelA,proto3" json:"channel_a,omitempty"`
	ChannelB uint32 `protobuf:"varint,2,opt,name=channel_b,json=channelB,proto3" json:"channel_b,omitempty"`
	Raw      string `protobuf:"bytes,3,opt,name=raw,proto3" json:"raw,omitempty"`
	Changed  bool   `protobuf:"varint,4,opt,name=changed,proto3" json:"changed,omitempty"`
	// Unix time in milliseconds.
	Timestamp int64 `protobuf:"varint,5,opt,name=timestamp,proto3" json:"timestamp,omitempty"`
}

// NewMessage implements Message.
func (m *PinStatesEvent) NewMessage() Message { return &PinStatesEvent{} }

// TypeID implements Message.
func (m *PinStatesEvent) TypeID() uint32 { return PinStatesEventTypeID }

// ProtoMessage implements proto.Message.
func (m *PinStatesEvent) ProtoMessage() {}

// Reset implements proto.Message.
func (m *PinStatesEvent) Reset() { *m = PinStatesEvent{} }

// String implements proto.Message.
func (m *PinStatesEvent) String() string { return proto.CompactTextString(m) }

// HeartbeatEvent reports a heartbeat measurement. Valid is false when
// the tester rejected the measurement.
type HeartbeatEvent struct {
	ChannelA  int32  `protobuf:"varint,1,opt,name=channel_a,json=channelA,proto3" json:"channel_a,omitempty"`
	ChannelB  int32  `protobuf:"varint,2,opt,name=channel_b,json=channelB,proto3" json:"channel_b,omitempty"`
	Valid     bool   `protobuf:"varint,3,opt,name=valid,proto3" json:"valid,omitempty"`
	Error     string `protobuf:"bytes,4,opt,name=error,proto3" json:"error,omitempty"`
	Timestamp int64  `protobuf:"varint,5,opt,name=timestamp,proto3" json:"timestamp,omitempty"`
}

// NewMessage implements Message.
func (m *HeartbeatEvent) NewMessage() Message { return &HeartbeatEvent{} }

// TypeID implements Message.
func (m *HeartbeatEvent) TypeID() uint32 { return HeartbeatEventTypeID }

// ProtoMessage implements proto.Message.
func (m *HeartbeatEvent) ProtoMessage() {}

// Reset implements proto.Message.
func (m *HeartbeatEvent) Reset() { *m = HeartbeatEvent{} }

// String implements proto.Message.
func (m *HeartbeatEvent) String() string { return proto.CompactTextString(m) }

// EchoEvent carries a text sent to the tester diagnostic output.
type EchoEvent struct {
	Text      string `protobuf:"bytes,1,opt,name=text,proto3" json:"text,omitempty"`
	Timestamp int64  `protobuf:"varint,2,opt,name=timestamp,proto3" json:"timestamp,omitempty"`
}

// NewMessage implements Message.
func (m *EchoEvent) NewMessage() Message { return &EchoEvent{} }

// TypeID implements Message.
func (m *EchoEvent) TypeID() uint32 { return EchoEventTypeID }

// ProtoMessage implements proto.Message.
func (m *EchoEvent) ProtoMessage() {}

// Reset implements proto.Message.
func (m *EchoEvent) Reset() { *m = EchoEvent{} }

// String implements proto.Message.
func (m *EchoEvent) String() string { return proto.CompactTextString(m) }

// GroupTester is the type ID group of tester messages.
const GroupTester uint32 = 0x00100000

// TypeIDs
const (
	PinStatesEventTypeID uint32 = GroupTester | TypeIDKindEvent | 0x0000
	HeartbeatEventTypeID uint32 = GroupTester | TypeIDKindEvent | 0x0001
	EchoEventTypeID      uint32 = GroupTester | TypeIDKindEvent | 0x0002
)
