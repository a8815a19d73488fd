// Package tester implements the safety I/O tester: the command dispatcher,
// the dual-channel delayed latches for e-stop and interlock, and the
// heartbeat indicator blinker, all running on an hw.Backend.
package tester

import (
	"fmt"
	"strings"
	"time"

	"github.com/robotalks/safety-io/pkg/hw"
)

// Wire responses.
const (
	RespOK  = "OK\n"
	RespErr = "ERR\n"
)

// Tester owns the whole output state of the tester. It is not safe for
// concurrent use; one control loop drives it.
type Tester struct {
	IO        hw.Backend
	EStop     *Latch
	Interlock *Latch
	Blinker   *Blinker
	Sink      Sink

	echo string
}

// New creates a Tester on the backend.
func New(io hw.Backend) *Tester {
	return &Tester{
		IO:        io,
		EStop:     NewLatch(io, GroupEStop.String(), OutEStop),
		Interlock: NewLatch(io, GroupInterlock.String(), OutInterlock),
		Blinker:   NewBlinker(io, OutTestLED.Pin, OutStatusLED.Pin),
		Sink:      LogSink{},
	}
}

// Tick advances the blinker then both latches.
func (t *Tester) Tick(now time.Duration) {
	t.Blinker.Tick(now)
	t.EStop.Tick(now)
	t.Interlock.Tick(now)
}

// Latch returns the latch of a group.
func (t *Tester) Latch(g Group) *Latch {
	if g == GroupInterlock {
		return t.Interlock
	}
	return t.EStop
}

// Echo returns the last text set by an echo command.
func (t *Tester) Echo() string {
	return t.echo
}

// Dispatch processes one line and returns the response to send, or an
// empty string when nothing should be sent.
func (t *Tester) Dispatch(line string) string {
	t.Sink.Received(line)
	var resp string
	if line != "" {
		out, err := t.Execute(line)
		if err != nil {
			resp = RespErr
		} else {
			resp = out
		}
	}
	t.Sink.Responded(line, resp)
	return resp
}

// Execute parses and runs one line, returning the successful response
// or the reason of failure. A failed command changes no output.
func (t *Tester) Execute(line string) (string, error) {
	cmd, err := Parse(line)
	if err != nil {
		return "", err
	}
	return t.Run(cmd)
}

// Run executes a parsed command.
func (t *Tester) Run(cmd Command) (string, error) {
	switch c := cmd.(type) {
	case ReadInputs:
		return t.readInputs(), nil
	case SetMode:
		t.writeDual(OutMode1, c.Mode1)
		t.writeDual(OutMode2, c.Mode2)
	case SetGroup:
		latch := t.Latch(c.Group)
		if !c.Delayed || c.Delay == 0 {
			latch.SetImmediate(c.State[0], c.State[1])
			break
		}
		second := c.First.Other()
		latch.Arm(c.First, c.State[c.First.Index()], second, c.State[second.Index()], c.Delay)
	case SetPower:
		t.IO.WritePin(OutPower.Pin, c.On)
	case MeasureHeartbeat:
		return t.measureHeartbeat()
	case SetEcho:
		t.echo = c.Text
		t.Sink.Echo(c.Text)
	case SetAll:
		t.writeDual(OutMode1, c.Mode1)
		t.writeDual(OutMode2, c.Mode2)
		t.EStop.SetImmediate(c.EStop[0], c.EStop[1])
		t.Interlock.SetImmediate(c.Interlock[0], c.Interlock[1])
		t.IO.WritePin(OutPower.Pin, c.Power)
	default:
		return "", &CommandError{Kind: ErrUnknown, Tag: cmd.Tag(), Reason: "unsupported command"}
	}
	return RespOK, nil
}

func (t *Tester) writeDual(sig DualSignal, states [2]bool) {
	t.IO.WritePin(sig[0].Pin, states[0])
	t.IO.WritePin(sig[1].Pin, states[1])
}

func (t *Tester) readInputs() string {
	var b strings.Builder
	for _, ch := range []Channel{ChannelA, ChannelB} {
		b.WriteByte(byte(ch))
		for _, sig := range ReadOrder {
			if t.IO.ReadPin(sig[ch.Index()].Pin) {
				b.WriteByte('1')
			} else {
				b.WriteByte('0')
			}
		}
	}
	b.WriteByte('\n')
	return b.String()
}

func (t *Tester) measureHeartbeat() (string, error) {
	var freqs [2]int64
	for i, pin := range InHeartbeat.Pins() {
		freq, err := Frequency(MeasurePeriod(t.IO, pin))
		if err != nil {
			return "", err
		}
		freqs[i] = freq
	}
	return fmt.Sprintf("A%05dB%05d\n", freqs[0], freqs[1]), nil
}
