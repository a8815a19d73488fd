// Package host drives a safety I/O tester from the host side.
package host

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/golang/glog"
)

// MaxDelay is the longest delay of a delayed e-stop or interlock command.
const MaxDelay = 99999 * time.Millisecond

// Requester sends one command line and returns its response line.
// link.Client implements it.
type Requester interface {
	Do(ctx context.Context, line string) (string, error)
}

// Group selects the e-stop or interlock output pair.
type Group byte

// Groups, named after their command tags.
const (
	GroupEStop     Group = 'E'
	GroupInterlock Group = 'I'
)

// Channels for delayed group commands. NoChannel sets both at once.
const (
	NoChannel byte = 0
	ChannelA  byte = 'A'
	ChannelB  byte = 'B'
)

// Outputs are the states written by SetAll.
type Outputs struct {
	// Mode bits in wire order A1 A2 B1 B2.
	Mode      [4]bool
	EStop     [2]bool
	Interlock [2]bool
	Power     bool
}

// Tester is a typed client of the tester protocol. It caches the last
// read pin states; toggles are computed against that cache, like an
// operator working from the last displayed states.
type Tester struct {
	Requester Requester

	states PinStates
	lock   sync.Mutex
}

// New creates a Tester.
func New(r Requester) *Tester {
	return &Tester{Requester: r}
}

// Raw sends a line and returns the response as is.
func (t *Tester) Raw(ctx context.Context, line string) (string, error) {
	return t.Requester.Do(ctx, line)
}

func (t *Tester) exec(ctx context.Context, line string) error {
	resp, err := t.Requester.Do(ctx, line)
	if err != nil {
		return err
	}
	switch resp {
	case "OK":
		glog.V(1).Infof("%s: OK", line)
		return nil
	case "ERR":
		return fmt.Errorf("%s: %w", line, ErrRejected)
	}
	return &ResponseError{Command: line, Response: resp, Reason: "expect OK"}
}

// ReadPins reads all input signals and reports whether anything other
// than the heartbeat changed since the last read.
func (t *Tester) ReadPins(ctx context.Context) (PinStates, bool, error) {
	resp, err := t.Requester.Do(ctx, "R")
	if err != nil {
		return PinStates{}, false, err
	}
	if resp == "ERR" {
		return PinStates{}, false, fmt.Errorf("R: %w", ErrRejected)
	}
	states, err := ParsePinStates(resp)
	if err != nil {
		return PinStates{}, false, err
	}
	t.lock.Lock()
	changed := states.ChangedFrom(t.states)
	t.states = states
	t.lock.Unlock()
	if changed {
		glog.Infof("pin states updated: %s", states)
	}
	return states, changed, nil
}

// PinStates returns the states of the last ReadPins.
func (t *Tester) PinStates() PinStates {
	t.lock.Lock()
	defer t.lock.Unlock()
	return t.states
}

// SetMode sets the mode outputs to a known mode by name.
func (t *Tester) SetMode(ctx context.Context, name string) error {
	mode, err := FindMode(name)
	if err != nil {
		return err
	}
	return t.exec(ctx, mode.command())
}

// SetModeBits sets the mode outputs, in wire order A1 A2 B1 B2.
func (t *Tester) SetModeBits(ctx context.Context, bits [4]bool) error {
	return t.exec(ctx, Mode{Bits: bits}.command())
}

// ToggleModeBit flips one mode output.
func (t *Tester) ToggleModeBit(ctx context.Context, bit ModeBit) error {
	if bit < ModeA1 || bit > ModeB2 {
		return fmt.Errorf("invalid mode bit %v", bit)
	}
	bits := ModeBits(t.PinStates())
	bits[bit] = !bits[bit]
	return t.SetModeBits(ctx, bits)
}

// GroupCommand formats an e-stop or interlock command. With first set to
// ChannelA or ChannelB, that channel is set now and the other after delay.
func GroupCommand(g Group, a, b bool, first byte, delay time.Duration) (string, error) {
	line := string(g) + bitString(a, b)
	switch first {
	case NoChannel:
		return line, nil
	case ChannelA, ChannelB:
	default:
		return "", fmt.Errorf("invalid channel %q", first)
	}
	if delay < 0 || delay > MaxDelay {
		return "", ErrInvalidDelay
	}
	return fmt.Sprintf("%s%c%05d", line, first, int64(delay/time.Millisecond)), nil
}

// SetGroup sets an e-stop or interlock pair, see GroupCommand.
func (t *Tester) SetGroup(ctx context.Context, g Group, a, b bool, first byte, delay time.Duration) error {
	line, err := GroupCommand(g, a, b, first, delay)
	if err != nil {
		return err
	}
	return t.exec(ctx, line)
}

func (t *Tester) toggleGroup(ctx context.Context, g Group, pin int, toggleA, toggleB bool, first byte, delay time.Duration) error {
	cur := t.PinStates().Pair(pin)
	a, b := cur[0] != toggleA, cur[1] != toggleB
	return t.SetGroup(ctx, g, a, b, first, delay)
}

// ToggleEStop flips the selected e-stop channels.
func (t *Tester) ToggleEStop(ctx context.Context, toggleA, toggleB bool, first byte, delay time.Duration) error {
	return t.toggleGroup(ctx, GroupEStop, PinEStop, toggleA, toggleB, first, delay)
}

// ToggleInterlock flips the selected interlock channels.
func (t *Tester) ToggleInterlock(ctx context.Context, toggleA, toggleB bool, first byte, delay time.Duration) error {
	return t.toggleGroup(ctx, GroupInterlock, PinInterlock, toggleA, toggleB, first, delay)
}

// SetPower switches the robot power output.
func (t *Tester) SetPower(ctx context.Context, on bool) error {
	return t.exec(ctx, "P"+bitString(on))
}

// TogglePower switches power off if it reads on on either channel,
// otherwise on.
func (t *Tester) TogglePower(ctx context.Context) error {
	return t.SetPower(ctx, !t.PinStates().Any(PinPower))
}

// SetAll writes every output at once.
func (t *Tester) SetAll(ctx context.Context, out Outputs) error {
	line := "A" + bitString(out.Mode[0], out.Mode[1], out.EStop[0], out.Interlock[0]) +
		"B" + bitString(out.Mode[2], out.Mode[3], out.EStop[1], out.Interlock[1]) +
		"P" + bitString(out.Power)
	return t.exec(ctx, line)
}

// Heartbeat measures the robot heartbeat on both channels.
func (t *Tester) Heartbeat(ctx context.Context) (Heartbeat, error) {
	resp, err := t.Requester.Do(ctx, "H")
	if err != nil {
		return Heartbeat{}, err
	}
	if resp == "ERR" {
		return Heartbeat{}, fmt.Errorf("H: %w", ErrRejected)
	}
	return ParseHeartbeat(resp)
}

// SetEcho sends text to the tester diagnostic output.
func (t *Tester) SetEcho(ctx context.Context, text string) error {
	return t.exec(ctx, "S"+text)
}
