package tester

import (
	"time"

	"github.com/robotalks/safety-io/pkg/hw"
)

// Transition is a state change scheduled on one channel of a Latch.
type Transition struct {
	Pending bool
	Channel Channel
	State   bool
	ArmTime time.Duration
	Delay   time.Duration
}

// Due reports whether the transition must be applied at now.
func (t Transition) Due(now time.Duration) bool {
	return t.Pending && now-t.ArmTime >= t.Delay
}

// Latch is a dual-channel output pair where the second channel may
// follow the first after a delay. At most one transition is pending;
// arming again replaces it and the replaced one never fires.
type Latch struct {
	Name string
	Pins [2]hw.Pin

	io      hw.Backend
	pending Transition
}

// NewLatch creates a Latch driving the A and B pins of sig.
func NewLatch(io hw.Backend, name string, sig DualSignal) *Latch {
	return &Latch{Name: name, Pins: sig.Pins(), io: io}
}

// Arm writes first immediately and schedules second to be written
// after delay, counted from now.
func (l *Latch) Arm(first Channel, firstState bool, second Channel, secondState bool, delay time.Duration) {
	l.io.WritePin(l.Pins[first.Index()], firstState)
	l.pending = Transition{
		Pending: true,
		Channel: second,
		State:   secondState,
		ArmTime: l.io.Now(),
		Delay:   delay,
	}
}

// SetImmediate writes both channels and drops any pending transition.
func (l *Latch) SetImmediate(stateA, stateB bool) {
	l.pending = Transition{}
	l.io.WritePin(l.Pins[0], stateA)
	l.io.WritePin(l.Pins[1], stateB)
}

// Tick applies the pending transition once its delay has elapsed.
func (l *Latch) Tick(now time.Duration) bool {
	if !l.pending.Due(now) {
		return false
	}
	t := l.pending
	l.pending = Transition{}
	l.io.WritePin(l.Pins[t.Channel.Index()], t.State)
	return true
}

// Pending returns the pending transition, if any.
func (l *Latch) Pending() (Transition, bool) {
	return l.pending, l.pending.Pending
}

// State reads back the current level of a channel.
func (l *Latch) State(ch Channel) bool {
	return l.io.ReadPin(l.Pins[ch.Index()])
}
