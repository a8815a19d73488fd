// Package sim provides a simulated I/O backend for tests and bench-less runs.
package sim

import (
	"sync"
	"time"

	"github.com/robotalks/safety-io/pkg/hw"
)

// Backend implements hw.Backend in memory.
//
// Output pins latch the last written level. Input pins read from a Source,
// from a mirrored output pin, or from a level set with SetInput, in that
// order of precedence. MeasurePulse spends the measured time on Clock, so
// with a ManualClock a blocking measurement visibly advances time.
type Backend struct {
	Clock Clock

	levels  map[hw.Pin]hw.Level
	sources map[hw.Pin]Source
	mirrors map[hw.Pin]hw.Pin
	writes  map[hw.Pin]int
	lock    sync.Mutex
}

// New creates a Backend on the given clock.
func New(clock Clock) *Backend {
	return &Backend{
		Clock:   clock,
		levels:  make(map[hw.Pin]hw.Level),
		sources: make(map[hw.Pin]Source),
		mirrors: make(map[hw.Pin]hw.Pin),
		writes:  make(map[hw.Pin]int),
	}
}

// Now implements hw.Backend.
func (b *Backend) Now() time.Duration {
	return b.Clock.Now()
}

// ReadPin implements hw.Backend.
func (b *Backend) ReadPin(pin hw.Pin) hw.Level {
	now := b.Clock.Now()
	b.lock.Lock()
	defer b.lock.Unlock()
	if src, ok := b.sources[pin]; ok {
		return src.LevelAt(now)
	}
	if out, ok := b.mirrors[pin]; ok {
		return b.levels[out]
	}
	return b.levels[pin]
}

// WritePin implements hw.Backend.
func (b *Backend) WritePin(pin hw.Pin, level hw.Level) {
	b.lock.Lock()
	b.levels[pin] = level
	b.writes[pin]++
	b.lock.Unlock()
}

// MeasurePulse implements hw.Backend.
func (b *Backend) MeasurePulse(pin hw.Pin, level hw.Level, timeout time.Duration) time.Duration {
	now := b.Clock.Now()
	b.lock.Lock()
	src, _ := b.sources[pin].(PulseSource)
	b.lock.Unlock()
	if src == nil {
		b.Clock.Sleep(timeout)
		return 0
	}
	start, width, ok := src.NextPulse(now, level)
	if !ok || start+width-now > timeout {
		b.Clock.Sleep(timeout)
		return 0
	}
	b.Clock.Sleep(start + width - now)
	return width
}

// SetInput holds an input pin at a level, removing any Source on it.
func (b *Backend) SetInput(pin hw.Pin, level hw.Level) {
	b.lock.Lock()
	delete(b.sources, pin)
	delete(b.mirrors, pin)
	b.levels[pin] = level
	b.lock.Unlock()
}

// SetSource drives an input pin from src.
func (b *Backend) SetSource(pin hw.Pin, src Source) {
	b.lock.Lock()
	b.sources[pin] = src
	b.lock.Unlock()
}

// Mirror makes input follow the level last written to output.
func (b *Backend) Mirror(input, output hw.Pin) {
	b.lock.Lock()
	b.mirrors[input] = output
	b.lock.Unlock()
}

// Writes returns how many times pin has been written.
func (b *Backend) Writes(pin hw.Pin) int {
	b.lock.Lock()
	defer b.lock.Unlock()
	return b.writes[pin]
}
