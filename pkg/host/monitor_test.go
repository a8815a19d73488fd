package host

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/safety-io/pkg/host/msgs"
)

type recordSink struct {
	events []msgs.Message
}

func (s *recordSink) Publish(msg msgs.Message) error {
	s.events = append(s.events, msg)
	return nil
}

func TestMonitorPollPins(t *testing.T) {
	tester, r := newFakeTester(map[string]string{"R": "A00000000B00000000"})
	sink := &recordSink{}
	m := NewMonitor(tester, sink)
	m.Now = func() time.Time { return time.Unix(1700000000, 0) }
	ctx := context.Background()

	require.NoError(t, m.PollPins(ctx))
	require.Len(t, sink.events, 1)
	require.Equal(t, &msgs.PinStatesEvent{Raw: "A00000000B00000000", Timestamp: 1700000000000}, sink.events[0])

	r.responses["R"] = "A00000010B00000000"
	require.NoError(t, m.PollPins(ctx))
	require.Len(t, sink.events, 1)

	r.responses["R"] = "A00000001B00000001"
	require.NoError(t, m.PollPins(ctx))
	require.Len(t, sink.events, 2)
	event := sink.events[1].(*msgs.PinStatesEvent)
	require.True(t, event.Changed)
	require.Equal(t, uint32(0x80), event.ChannelA)
	require.Equal(t, uint32(0x80), event.ChannelB)
}

func TestMonitorPollHeartbeat(t *testing.T) {
	tester, r := newFakeTester(map[string]string{"H": "A00100B00099"})
	sink := &recordSink{}
	m := NewMonitor(tester, sink)
	ctx := context.Background()

	require.NoError(t, m.PollHeartbeat(ctx))
	event := sink.events[0].(*msgs.HeartbeatEvent)
	require.True(t, event.Valid)
	require.Equal(t, int32(100), event.ChannelA)
	require.Equal(t, int32(99), event.ChannelB)

	r.responses["H"] = "ERR"
	require.NoError(t, m.PollHeartbeat(ctx))
	event = sink.events[1].(*msgs.HeartbeatEvent)
	require.False(t, event.Valid)
	require.NotEmpty(t, event.Error)

	r.err = errors.New("link down")
	require.Error(t, m.PollHeartbeat(ctx))
	require.Len(t, sink.events, 2)
}

func TestMonitorEcho(t *testing.T) {
	tester, r := newFakeTester(nil)
	sink := &recordSink{}
	m := NewMonitor(tester, sink)
	require.NoError(t, m.Echo(context.Background(), "start run 7"))
	require.Equal(t, []string{"Sstart run 7"}, r.lines)
	require.Equal(t, "start run 7", sink.events[0].(*msgs.EchoEvent).Text)
}
