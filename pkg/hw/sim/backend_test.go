package sim

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/safety-io/pkg/hw"
)

func TestSquareWave(t *testing.T) {
	w := NewSquareWave(100)
	require.Equal(t, 10*time.Millisecond, w.Period)
	require.True(t, w.LevelAt(0))
	require.True(t, w.LevelAt(4*time.Millisecond))
	require.False(t, w.LevelAt(5*time.Millisecond))
	require.True(t, w.LevelAt(20*time.Millisecond))

	testCases := []struct {
		t     time.Duration
		level hw.Level
		start time.Duration
		width time.Duration
	}{
		{0, hw.High, 10 * time.Millisecond, 5 * time.Millisecond},
		{2 * time.Millisecond, hw.High, 10 * time.Millisecond, 5 * time.Millisecond},
		{0, hw.Low, 5 * time.Millisecond, 5 * time.Millisecond},
		{5 * time.Millisecond, hw.Low, 15 * time.Millisecond, 5 * time.Millisecond},
		{7 * time.Millisecond, hw.High, 10 * time.Millisecond, 5 * time.Millisecond},
	}
	for _, tc := range testCases {
		start, width, ok := w.NextPulse(tc.t, tc.level)
		require.True(t, ok)
		require.Equal(t, tc.start, start, "at %v", tc.t)
		require.Equal(t, tc.width, width, "at %v", tc.t)
	}

	_, _, ok := (&SquareWave{Period: time.Millisecond, High: time.Millisecond}).NextPulse(0, hw.High)
	require.False(t, ok)
}

func TestBackendPins(t *testing.T) {
	clock := &ManualClock{}
	b := New(clock)
	require.False(t, b.ReadPin(3))
	b.WritePin(3, hw.High)
	require.True(t, b.ReadPin(3))
	require.Equal(t, 1, b.Writes(3))

	b.Mirror(5, 3)
	require.True(t, b.ReadPin(5))
	b.WritePin(3, hw.Low)
	require.False(t, b.ReadPin(5))

	b.SetSource(5, Constant(hw.High))
	require.True(t, b.ReadPin(5))
	b.SetInput(5, hw.Low)
	require.False(t, b.ReadPin(5))
	b.WritePin(3, hw.High)
	require.False(t, b.ReadPin(5))
}

func TestBackendMeasurePulse(t *testing.T) {
	clock := &ManualClock{}
	b := New(clock)
	b.SetSource(7, NewSquareWave(100))

	require.Equal(t, 5*time.Millisecond, b.MeasurePulse(7, hw.High, 20*time.Millisecond))
	require.Equal(t, 15*time.Millisecond, clock.Now())

	require.Equal(t, time.Duration(0), b.MeasurePulse(7, hw.High, 5*time.Millisecond))
	require.Equal(t, 20*time.Millisecond, clock.Now())

	require.Equal(t, time.Duration(0), b.MeasurePulse(8, hw.High, 20*time.Millisecond))
	require.Equal(t, 40*time.Millisecond, clock.Now())
}

func TestManualClock(t *testing.T) {
	var clock ManualClock
	clock.Sleep(time.Second)
	require.Equal(t, time.Second, clock.Now())
	clock.Set(time.Millisecond)
	require.Equal(t, time.Second, clock.Now())
	require.Equal(t, 2*time.Second, clock.Advance(time.Second))
	clock.Advance(-time.Second)
	require.Equal(t, 2*time.Second, clock.Now())
}
