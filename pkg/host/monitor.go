package host

import (
	"context"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/safety-io/pkg/host/msgs"
)

// Default polling periods of a Monitor.
const (
	DefaultPollInterval      = 200 * time.Millisecond
	DefaultHeartbeatInterval = 2 * time.Second
)

// EventSink receives monitor events. mqtt.Publisher implements it.
type EventSink interface {
	Publish(msg msgs.Message) error
}

// Monitor polls a tester and reports pin states when they change, and
// the heartbeat periodically.
type Monitor struct {
	Tester            *Tester
	Sink              EventSink
	PollInterval      time.Duration
	HeartbeatInterval time.Duration

	// Now is the wall clock used for timestamps.
	Now func() time.Time

	polled bool
}

// NewMonitor creates a Monitor with default intervals.
func NewMonitor(t *Tester, sink EventSink) *Monitor {
	return &Monitor{
		Tester:            t,
		Sink:              sink,
		PollInterval:      DefaultPollInterval,
		HeartbeatInterval: DefaultHeartbeatInterval,
		Now:               time.Now,
	}
}

func (m *Monitor) timestamp() int64 {
	return m.Now().UnixNano() / int64(time.Millisecond)
}

// PollPins reads pin states and publishes them on change, or the first
// time.
func (m *Monitor) PollPins(ctx context.Context) error {
	states, changed, err := m.Tester.ReadPins(ctx)
	if err != nil {
		return err
	}
	if !changed && m.polled {
		return nil
	}
	m.polled = true
	return m.Sink.Publish(&msgs.PinStatesEvent{
		ChannelA:  states.Bits(0),
		ChannelB:  states.Bits(1),
		Raw:       states.String(),
		Changed:   changed,
		Timestamp: m.timestamp(),
	})
}

// PollHeartbeat measures and publishes the heartbeat. A rejected
// measurement is published as invalid, other errors are returned.
func (m *Monitor) PollHeartbeat(ctx context.Context) error {
	hb, err := m.Tester.Heartbeat(ctx)
	event := &msgs.HeartbeatEvent{Timestamp: m.timestamp()}
	switch {
	case err == nil:
		event.ChannelA, event.ChannelB, event.Valid = int32(hb[0]), int32(hb[1]), true
	case isRejected(err):
		event.Error = err.Error()
	default:
		return err
	}
	return m.Sink.Publish(event)
}

// Echo sends text to the tester and publishes it.
func (m *Monitor) Echo(ctx context.Context, text string) error {
	if err := m.Tester.SetEcho(ctx, text); err != nil {
		return err
	}
	return m.Sink.Publish(&msgs.EchoEvent{Text: text, Timestamp: m.timestamp()})
}

// Run implements Runnable. Poll failures are logged and polling goes on
// until ctx is done.
func (m *Monitor) Run(ctx context.Context) error {
	pollTicker := time.NewTicker(m.PollInterval)
	defer pollTicker.Stop()
	hbTicker := time.NewTicker(m.HeartbeatInterval)
	defer hbTicker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-pollTicker.C:
			if err := m.PollPins(ctx); err != nil {
				glog.Warningf("poll pins: %v", err)
			}
		case <-hbTicker.C:
			if err := m.PollHeartbeat(ctx); err != nil {
				glog.Warningf("poll heartbeat: %v", err)
			}
		}
	}
}
