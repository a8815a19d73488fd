package sim

import (
	"time"

	"github.com/robotalks/safety-io/pkg/hw"
)

// Source drives the level of a simulated input pin.
type Source interface {
	LevelAt(t time.Duration) hw.Level
}

// PulseSource is a Source able to predict its next complete pulse.
type PulseSource interface {
	Source
	// NextPulse returns the first pulse of level starting strictly
	// after t. A pulse already in progress at t is skipped.
	NextPulse(t time.Duration, level hw.Level) (start, width time.Duration, ok bool)
}

// Constant is a Source holding one level.
type Constant hw.Level

// LevelAt implements Source.
func (c Constant) LevelAt(time.Duration) hw.Level {
	return hw.Level(c)
}

// SquareWave is a periodic Source, high during [Phase+k*Period, Phase+k*Period+High).
type SquareWave struct {
	Period time.Duration
	High   time.Duration
	Phase  time.Duration
}

// NewSquareWave creates a 50% duty wave of the given frequency in Hz.
func NewSquareWave(hz float64) *SquareWave {
	period := time.Duration(float64(time.Second) / hz)
	return &SquareWave{Period: period, High: period / 2}
}

// LevelAt implements Source.
func (w *SquareWave) LevelAt(t time.Duration) hw.Level {
	if w.Period <= 0 {
		return hw.Low
	}
	return w.offset(t) < w.High
}

// NextPulse implements PulseSource.
func (w *SquareWave) NextPulse(t time.Duration, level hw.Level) (start, width time.Duration, ok bool) {
	if w.Period <= 0 || w.High <= 0 || w.High >= w.Period {
		return 0, 0, false
	}
	edge, width := time.Duration(0), w.High
	if !level {
		edge, width = w.High, w.Period-w.High
	}
	off := w.offset(t)
	base := t - off
	start = base + edge
	if start <= t {
		start += w.Period
	}
	return start, width, true
}

func (w *SquareWave) offset(t time.Duration) time.Duration {
	off := (t - w.Phase) % w.Period
	if off < 0 {
		off += w.Period
	}
	return off
}
