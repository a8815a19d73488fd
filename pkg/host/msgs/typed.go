package msgs

import (
	"errors"
	"fmt"

	"github.com/golang/protobuf/proto"
)

// TypeID masks
const (
	TypeIDMaskKind  uint32 = 0x80000000
	TypeIDMaskGroup uint32 = 0x7fff0000
	TypeIDMaskID    uint32 = 0x0000ffff
)

// Message Kinds
const (
	TypeIDKindCommand uint32 = 0x00000000
	TypeIDKindEvent   uint32 = 0x80000000
)

// Message is a message carried in a Typed envelope.
type Message interface {
	proto.Message
	NewMessage() Message
	TypeID() uint32
}

// Typed wraps an encoded message with its type ID.
type Typed struct {
	TypeId   uint32 `protobuf:"varint,1,opt,name=type_id,json=typeId,proto3" json:"type_id,omitempty"`
	Sequence uint32 `protobuf:"varint,2,opt,name=sequence,proto3" json:"sequence,omitempty"`
	Message  []byte `protobuf:"bytes,3,opt,name=message,proto3" json:"message,omitempty"`
}

// ProtoMessage implements proto.Message.
func (m *Typed) ProtoMessage() {}

// Reset implements proto.Message.
func (m *Typed) Reset() { *m = Typed{} }

// String implements proto.Message.
func (m *Typed) String() string { return proto.CompactTextString(m) }

// ErrUnknownType indicates unknown type id.
type ErrUnknownType struct {
	TypeID uint32
}

// Error implements error.
func (e *ErrUnknownType) Error() string {
	return fmt.Sprintf("unknown type: %x", e.TypeID)
}

// ErrNotMessage indicates a value which can't be put in Typed.
var ErrNotMessage = errors.New("not a typed message")

// MessageTypes maps type IDs to messages.
var MessageTypes = map[uint32]Message{
	PinStatesEventTypeID: (*PinStatesEvent)(nil),
	HeartbeatEventTypeID: (*HeartbeatEvent)(nil),
	EchoEventTypeID:      (*EchoEvent)(nil),
}

// TypedFrom encodes msg into a Typed.
func TypedFrom(msg interface{}) (*Typed, error) {
	m, ok := msg.(Message)
	if !ok {
		return nil, ErrNotMessage
	}
	data, err := proto.Marshal(m)
	if err != nil {
		return nil, err
	}
	return &Typed{TypeId: m.TypeID(), Message: data}, nil
}

// Decode decodes the enclosed message.
func (m *Typed) Decode() (Message, error) {
	msgType, ok := MessageTypes[m.TypeId]
	if !ok {
		return nil, &ErrUnknownType{TypeID: m.TypeId}
	}
	msg := msgType.NewMessage()
	if err := proto.Unmarshal(m.Message, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

// Encode encodes the Typed to bytes.
func (m *Typed) Encode() ([]byte, error) {
	return proto.Marshal(m)
}

// Kind gets message kind from type ID.
func (m *Typed) Kind() uint32 {
	return m.TypeId & TypeIDMaskKind
}

// IsEvent determines if the message is an event.
func (m *Typed) IsEvent() bool {
	return m.Kind() == TypeIDKindEvent
}

// DecodeTyped decodes bytes into Typed.
func DecodeTyped(data []byte) (*Typed, error) {
	var typed Typed
	if err := proto.Unmarshal(data, &typed); err != nil {
		return nil, err
	}
	return &typed, nil
}

// EncodeMessage encodes msg in a Typed envelope.
func EncodeMessage(msg Message) ([]byte, error) {
	typed, err := TypedFrom(msg)
	if err != nil {
		return nil, err
	}
	return typed.Encode()
}

// DecodeMessage decodes a Typed envelope and the enclosed message.
func DecodeMessage(data []byte) (Message, error) {
	typed, err := DecodeTyped(data)
	if err != nil {
		return nil, err
	}
	return typed.Decode()
}
