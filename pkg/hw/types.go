// Package hw defines the digital I/O primitives the tester core is built on.
package hw

import (
	"errors"
	"strconv"
	"time"
)

// Pin identifies a physical digital line on the backend.
type Pin int

// String returns the pin number.
func (p Pin) String() string {
	return "pin" + strconv.Itoa(int(p))
}

// Level is a logic level.
type Level = bool

// Logic levels.
const (
	Low  Level = false
	High Level = true
)

// Backend provides raw digital I/O and a monotonic clock.
//
// WritePin is synchronous: a ReadPin on the same output pin returns the
// written level immediately. MeasurePulse blocks until a full pulse of
// the given level has been observed, or timeout elapsed, in which case it
// returns 0. Implementations must not block longer than the timeout plus
// a bounded scheduling overhead.
type Backend interface {
	ReadPin(Pin) Level
	WritePin(Pin, Level)
	MeasurePulse(pin Pin, level Level, timeout time.Duration) time.Duration
	Now() time.Duration
}

// Direction of a pin as seen from the tester.
type Direction int

// Directions.
const (
	Output Direction = iota
	Input
)

// String implements fmt.Stringer.
func (d Direction) String() string {
	if d == Input {
		return "input"
	}
	return "output"
}

// Configurer is implemented by backends needing explicit pin mode setup.
type Configurer interface {
	ConfigurePin(Pin, Direction) error
}

var (
	// ErrUnknownPin indicates the backend has no such pin.
	ErrUnknownPin = errors.New("unknown pin")
)
