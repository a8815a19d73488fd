package tester

import (
	"time"

	"github.com/robotalks/safety-io/pkg/hw"
)

// BlinkInterval is the toggle period of the heartbeat indicators.
const BlinkInterval = 500 * time.Millisecond

// Blinker toggles indicator outputs at a fixed interval. Each toggle
// re-bases on the time it was observed, so lateness is not caught up.
type Blinker struct {
	Interval time.Duration
	Pins     []hw.Pin

	io         hw.Backend
	on         bool
	lastToggle time.Duration
}

// NewBlinker creates a Blinker over the indicator pins.
func NewBlinker(io hw.Backend, pins ...hw.Pin) *Blinker {
	return &Blinker{Interval: BlinkInterval, Pins: pins, io: io}
}

// Tick toggles the indicators if the interval has elapsed.
func (b *Blinker) Tick(now time.Duration) bool {
	if now-b.lastToggle < b.Interval {
		return false
	}
	b.lastToggle = now
	b.on = !b.on
	for _, pin := range b.Pins {
		b.io.WritePin(pin, b.on)
	}
	return true
}
