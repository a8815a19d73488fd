// Package periph implements hw.Backend on real GPIO through periph.io.
package periph

import (
	"fmt"
	"sync"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"

	"github.com/robotalks/safety-io/pkg/hw"
)

// DefaultPinNameFormat maps a hw.Pin number to a periph pin name.
const DefaultPinNameFormat = "GPIO%d"

// Backend implements hw.Backend and hw.Configurer using periph.io.
type Backend struct {
	PinNameFormat string

	start   time.Time
	pins    map[hw.Pin]gpio.PinIO
	outputs map[hw.Pin]hw.Level
	lock    sync.Mutex
}

// New initializes the periph host drivers and creates a Backend.
func New() (*Backend, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("periph host init: %v", err)
	}
	return &Backend{
		PinNameFormat: DefaultPinNameFormat,
		start:         time.Now(),
		pins:          make(map[hw.Pin]gpio.PinIO),
		outputs:       make(map[hw.Pin]hw.Level),
	}, nil
}

func (b *Backend) resolve(pin hw.Pin) (gpio.PinIO, error) {
	b.lock.Lock()
	defer b.lock.Unlock()
	if p, ok := b.pins[pin]; ok {
		return p, nil
	}
	name := fmt.Sprintf(b.PinNameFormat, int(pin))
	p := gpioreg.ByName(name)
	if p == nil {
		return nil, fmt.Errorf("%s (%s): %v", pin, name, hw.ErrUnknownPin)
	}
	b.pins[pin] = p
	return p, nil
}

// ConfigurePin implements hw.Configurer. Outputs start low, inputs are
// pulled down and report both edges for pulse measurement.
func (b *Backend) ConfigurePin(pin hw.Pin, dir hw.Direction) error {
	p, err := b.resolve(pin)
	if err != nil {
		return err
	}
	if dir == hw.Output {
		if err = p.Out(gpio.Low); err == nil {
			b.lock.Lock()
			b.outputs[pin] = hw.Low
			b.lock.Unlock()
		}
	} else {
		err = p.In(gpio.PullDown, gpio.BothEdges)
	}
	if err != nil {
		return fmt.Errorf("configure %s as %s: %v", pin, dir, err)
	}
	return nil
}

// Now implements hw.Backend.
func (b *Backend) Now() time.Duration {
	return time.Since(b.start)
}

// ReadPin implements hw.Backend. Outputs read back the latched level.
func (b *Backend) ReadPin(pin hw.Pin) hw.Level {
	b.lock.Lock()
	level, isOutput := b.outputs[pin]
	b.lock.Unlock()
	if isOutput {
		return level
	}
	p, err := b.resolve(pin)
	if err != nil {
		return hw.Low
	}
	return p.Read() == gpio.High
}

// WritePin implements hw.Backend.
func (b *Backend) WritePin(pin hw.Pin, level hw.Level) {
	p, err := b.resolve(pin)
	if err != nil {
		return
	}
	if p.Out(gpio.Level(level)) == nil {
		b.lock.Lock()
		b.outputs[pin] = level
		b.lock.Unlock()
	}
}

// MeasurePulse implements hw.Backend. Like a pulseIn, a pulse already in
// progress is skipped, and the whole call is bounded by timeout.
func (b *Backend) MeasurePulse(pin hw.Pin, level hw.Level, timeout time.Duration) time.Duration {
	p, err := b.resolve(pin)
	if err != nil {
		return 0
	}
	deadline := time.Now().Add(timeout)
	want := gpio.Level(level)
	waitFor := func(l gpio.Level) bool {
		for p.Read() != l {
			remain := time.Until(deadline)
			if remain <= 0 || !p.WaitForEdge(remain) {
				return p.Read() == l
			}
		}
		return true
	}
	if !waitFor(!want) || !waitFor(want) {
		return 0
	}
	start := time.Now()
	if !waitFor(!want) {
		return 0
	}
	return time.Since(start)
}
