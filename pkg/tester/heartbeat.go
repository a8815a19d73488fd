package tester

import (
	"time"

	"github.com/robotalks/safety-io/pkg/hw"
)

const (
	// PulseTimeout bounds each single pulse measurement, about a 50 Hz floor.
	PulseTimeout = 20 * time.Millisecond
	// HeartbeatSamples is the number of high+low pulse pairs averaged.
	HeartbeatSamples = 3
	// MaxFrequency is the largest frequency the response can carry.
	MaxFrequency = 99999

	// MaxMeasureStall is how long a heartbeat measurement may hold up the
	// loop: 2 pulses per sample, 2 channels, each bounded by PulseTimeout.
	MaxMeasureStall = 2 * 2 * HeartbeatSamples * PulseTimeout
)

// MeasurePeriod averages HeartbeatSamples full periods on pin, in
// microseconds. Pulses that time out count as 0.
func MeasurePeriod(io hw.Backend, pin hw.Pin) int64 {
	var total time.Duration
	for i := 0; i < HeartbeatSamples; i++ {
		total += io.MeasurePulse(pin, hw.High, PulseTimeout)
		total += io.MeasurePulse(pin, hw.Low, PulseTimeout)
	}
	return int64(total/time.Microsecond) / HeartbeatSamples
}

// Frequency converts a period in microseconds to Hz, truncated.
func Frequency(periodMicros int64) (int64, error) {
	if periodMicros <= 0 {
		return 0, &CommandError{Kind: ErrMeasurement, Tag: TagHeartbeat, Reason: "no heartbeat pulses"}
	}
	freq := int64(time.Second/time.Microsecond) / periodMicros
	if freq > MaxFrequency {
		return 0, &CommandError{Kind: ErrMeasurement, Tag: TagHeartbeat, Reason: "frequency out of range"}
	}
	return freq, nil
}
