package msgs

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTypedEnvelope(t *testing.T) {
	testCases := []Message{
		&PinStatesEvent{ChannelA: 0x41, ChannelB: 0x42, Raw: "A10000010B01000010", Changed: true, Timestamp: 1700000000000},
		&HeartbeatEvent{ChannelA: 100, ChannelB: 99, Valid: true},
		&HeartbeatEvent{Error: "H: command rejected"},
		&EchoEvent{Text: "bench 3"},
	}
	for _, msg := range testCases {
		data, err := EncodeMessage(msg)
		require.NoError(t, err)
		typed, err := DecodeTyped(data)
		require.NoError(t, err)
		require.True(t, typed.IsEvent())
		require.Equal(t, msg.TypeID(), typed.TypeId)
		decoded, err := typed.Decode()
		require.NoError(t, err)
		require.Equal(t, msg, decoded)
	}
}

func TestTypedErrors(t *testing.T) {
	_, err := TypedFrom("text")
	require.Equal(t, ErrNotMessage, err)

	data, err := (&Typed{TypeId: 0x7f000001}).Encode()
	require.NoError(t, err)
	_, err = DecodeMessage(data)
	_, ok := err.(*ErrUnknownType)
	require.True(t, ok)
}
