package tester

import (
	"github.com/robotalks/safety-io/pkg/hw"
)

// Channel selects one of the two redundant signal paths.
type Channel byte

// Channels, encoded as on the wire.
const (
	ChannelA Channel = 'A'
	ChannelB Channel = 'B'
)

// Other returns the opposite channel.
func (c Channel) Other() Channel {
	if c == ChannelA {
		return ChannelB
	}
	return ChannelA
}

// Index is 0 for A and 1 for B.
func (c Channel) Index() int {
	if c == ChannelB {
		return 1
	}
	return 0
}

// String implements fmt.Stringer.
func (c Channel) String() string {
	return string(c)
}

// Signal is a named logical line mapped to a pin.
type Signal struct {
	Name string
	Pin  hw.Pin
	Dir  hw.Direction
}

// DualSignal is a signal present on both channels.
type DualSignal [2]Signal

// Pins returns the A and B pins.
func (s DualSignal) Pins() [2]hw.Pin {
	return [2]hw.Pin{s[0].Pin, s[1].Pin}
}

func dualOut(name string, a, b hw.Pin) DualSignal {
	return DualSignal{
		{Name: name + "_a", Pin: a, Dir: hw.Output},
		{Name: name + "_b", Pin: b, Dir: hw.Output},
	}
}

func dualIn(name string, a, b hw.Pin) DualSignal {
	return DualSignal{
		{Name: name + "_a", Pin: a, Dir: hw.Input},
		{Name: name + "_b", Pin: b, Dir: hw.Input},
	}
}

// Robot-facing outputs.
var (
	OutEStop     = dualOut("estop", 2, 3)
	OutInterlock = dualOut("interlock", 4, 17)
	OutMode1     = dualOut("mode1", 27, 22)
	OutMode2     = dualOut("mode2", 10, 9)
	OutPower     = Signal{Name: "power", Pin: 11, Dir: hw.Output}
	OutTestLED   = Signal{Name: "test_led", Pin: 0, Dir: hw.Output}
	OutStatusLED = Signal{Name: "status_led", Pin: 1, Dir: hw.Output}
)

// Robot-facing inputs.
var (
	InMode1     = dualIn("mode1", 5, 6)
	InMode2     = dualIn("mode2", 13, 19)
	InEStop     = dualIn("estop", 26, 14)
	InInterlock = dualIn("interlock", 15, 18)
	InStop      = dualIn("stop", 23, 24)
	InTeach     = dualIn("teach", 25, 8)
	InHeartbeat = dualIn("heartbeat", 7, 12)
	InPower     = dualIn("power", 16, 20)
)

// ReadOrder is the order of input signals in the read response.
var ReadOrder = []DualSignal{
	InMode1,
	InMode2,
	InEStop,
	InInterlock,
	InStop,
	InTeach,
	InHeartbeat,
	InPower,
}

// Signals lists every signal of the tester.
func Signals() []Signal {
	sigs := []Signal{OutPower, OutTestLED, OutStatusLED}
	for _, dual := range []DualSignal{OutEStop, OutInterlock, OutMode1, OutMode2} {
		sigs = append(sigs, dual[0], dual[1])
	}
	for _, dual := range ReadOrder {
		sigs = append(sigs, dual[0], dual[1])
	}
	return sigs
}

// ConfigurePins sets up pin modes on backends requiring it.
func ConfigurePins(io hw.Backend) error {
	cfg, ok := io.(hw.Configurer)
	if !ok {
		return nil
	}
	for _, sig := range Signals() {
		if err := cfg.ConfigurePin(sig.Pin, sig.Dir); err != nil {
			return err
		}
	}
	return nil
}
