package host

import (
	"fmt"
	"strings"
)

// Input signal indices in a read response, per channel.
const (
	PinMode1 = iota
	PinMode2
	PinEStop
	PinInterlock
	PinStop
	PinTeach
	PinHeartbeat
	PinPower

	NumPins
)

// PinNames are the names of input signals by index.
var PinNames = [NumPins]string{
	"mode1",
	"mode2",
	"estop",
	"interlock",
	"stop",
	"teach",
	"heartbeat",
	"power",
}

// PinStates is the decoded read response, indexed by channel (0 for A)
// then signal.
type PinStates [2][NumPins]bool

// Pair returns the A and B states of a signal.
func (s PinStates) Pair(pin int) [2]bool {
	return [2]bool{s[0][pin], s[1][pin]}
}

// Any tells whether a signal is set on either channel.
func (s PinStates) Any(pin int) bool {
	return s[0][pin] || s[1][pin]
}

// Bits packs the states of one channel, signal 0 in bit 0.
func (s PinStates) Bits(ch int) uint32 {
	var bits uint32
	for i, on := range s[ch] {
		if on {
			bits |= 1 << uint(i)
		}
	}
	return bits
}

// PinStatesFromBits is the reverse of Bits.
func PinStatesFromBits(a, b uint32) (s PinStates) {
	for i := 0; i < NumPins; i++ {
		s[0][i] = a&(1<<uint(i)) != 0
		s[1][i] = b&(1<<uint(i)) != 0
	}
	return
}

// String formats the states as the tester reports them.
func (s PinStates) String() string {
	var sb strings.Builder
	for ch, prefix := range []byte{'A', 'B'} {
		sb.WriteByte(prefix)
		for _, on := range s[ch] {
			if on {
				sb.WriteByte('1')
			} else {
				sb.WriteByte('0')
			}
		}
	}
	return sb.String()
}

// ChangedFrom tells whether any signal other than the heartbeat differs.
func (s PinStates) ChangedFrom(prev PinStates) bool {
	for ch := range s {
		for pin := range s[ch] {
			if pin != PinHeartbeat && s[ch][pin] != prev[ch][pin] {
				return true
			}
		}
	}
	return false
}

// ParsePinStates decodes a read response, e.g. A10000010B01000010.
func ParsePinStates(resp string) (s PinStates, err error) {
	if len(resp) != 2+2*NumPins || resp[0] != 'A' || resp[1+NumPins] != 'B' {
		return s, &ResponseError{Command: "R", Response: resp, Reason: "malformed pin states"}
	}
	for ch := 0; ch < 2; ch++ {
		for pin := 0; pin < NumPins; pin++ {
			switch resp[ch*(NumPins+1)+1+pin] {
			case '0':
			case '1':
				s[ch][pin] = true
			default:
				return PinStates{}, &ResponseError{Command: "R", Response: resp, Reason: fmt.Sprintf("invalid bit for %s", PinNames[pin])}
			}
		}
	}
	return s, nil
}

// Heartbeat is the frequency measured on both channels, in Hz.
type Heartbeat [2]int

// ParseHeartbeat decodes a heartbeat response, e.g. A00100B00100.
func ParseHeartbeat(resp string) (hb Heartbeat, err error) {
	if len(resp) != 12 || resp[0] != 'A' || resp[6] != 'B' {
		return hb, &ResponseError{Command: "H", Response: resp, Reason: "malformed heartbeat"}
	}
	for ch, digits := range []string{resp[1:6], resp[7:12]} {
		for _, c := range []byte(digits) {
			if c < '0' || c > '9' {
				return Heartbeat{}, &ResponseError{Command: "H", Response: resp, Reason: "invalid digit"}
			}
			hb[ch] = hb[ch]*10 + int(c-'0')
		}
	}
	return hb, nil
}

// String implements fmt.Stringer.
func (hb Heartbeat) String() string {
	return fmt.Sprintf("A %d Hz, B %d Hz", hb[0], hb[1])
}
