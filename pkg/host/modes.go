package host

import (
	"fmt"
	"strings"
)

// Mode is a named combination of the mode selector outputs, in wire
// order A1 A2 B1 B2.
type Mode struct {
	Name string
	Bits [4]bool
}

// Known modes of the robot controller.
var (
	ModeAutomatic = Mode{Name: "Automatic", Bits: [4]bool{false, true, true, false}}
	ModeStop      = Mode{Name: "Stop", Bits: [4]bool{true, false, true, false}}
	ModeManual    = Mode{Name: "Manual", Bits: [4]bool{true, false, false, true}}
	ModeMute      = Mode{Name: "Mute", Bits: [4]bool{false, true, false, true}}

	Modes = []Mode{ModeAutomatic, ModeStop, ModeManual, ModeMute}
)

// ModeBit names a mode selector output.
type ModeBit int

// Mode bits in wire order.
const (
	ModeA1 ModeBit = iota
	ModeA2
	ModeB1
	ModeB2
)

var modeBitNames = []string{"A1", "A2", "B1", "B2"}

// String implements fmt.Stringer.
func (b ModeBit) String() string {
	if b >= 0 && int(b) < len(modeBitNames) {
		return modeBitNames[b]
	}
	return fmt.Sprintf("bit(%d)", int(b))
}

// ParseModeBit finds a mode bit by name, case insensitive.
func ParseModeBit(name string) (ModeBit, error) {
	for n, bitName := range modeBitNames {
		if strings.EqualFold(name, bitName) {
			return ModeBit(n), nil
		}
	}
	return 0, fmt.Errorf("unknown mode bit %q", name)
}

// FindMode finds a mode by name, case insensitive.
func FindMode(name string) (Mode, error) {
	for _, m := range Modes {
		if strings.EqualFold(m.Name, name) {
			return m, nil
		}
	}
	return Mode{}, fmt.Errorf("unknown mode %q", name)
}

// ModeOf names the mode encoded by bits, or returns "" if it's none of
// the known modes.
func ModeOf(bits [4]bool) string {
	for _, m := range Modes {
		if m.Bits == bits {
			return m.Name
		}
	}
	return ""
}

// ModeBits extracts the mode bits, in wire order, from pin states.
func ModeBits(s PinStates) [4]bool {
	return [4]bool{s[0][PinMode1], s[0][PinMode2], s[1][PinMode1], s[1][PinMode2]}
}

func (m Mode) command() string {
	return "M" + bitString(m.Bits[:]...)
}

func bitString(bits ...bool) string {
	b := make([]byte, len(bits))
	for i, on := range bits {
		if on {
			b[i] = '1'
		} else {
			b[i] = '0'
		}
	}
	return string(b)
}
