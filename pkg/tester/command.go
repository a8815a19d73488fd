package tester

import (
	"time"
)

// Command tags.
const (
	TagRead      byte = 'R'
	TagMode      byte = 'M'
	TagEStop     byte = 'E'
	TagInterlock byte = 'I'
	TagPower     byte = 'P'
	TagHeartbeat byte = 'H'
	TagEcho      byte = 'S'
	TagAll       byte = 'A'
)

// Line lengths, tag included.
const (
	lenRead         = 1
	lenMode         = 5
	lenGroup        = 3
	lenGroupDelayed = 9
	lenPower        = 2
	lenHeartbeat    = 1
	lenAll          = 12

	// MaxEchoLen is the longest accepted echo payload.
	MaxEchoLen = 31
	// MaxDelay is the longest delay expressible in a delayed group command.
	MaxDelay = 99999 * time.Millisecond
)

// Command is a parsed protocol command.
type Command interface {
	Tag() byte
}

// ReadInputs reads all robot response signals.
type ReadInputs struct{}

// SetMode sets the mode selector outputs.
type SetMode struct {
	Mode1 [2]bool
	Mode2 [2]bool
}

// Group identifies a dual-channel latch.
type Group byte

// Groups, named after their command tags.
const (
	GroupEStop     = Group(TagEStop)
	GroupInterlock = Group(TagInterlock)
)

// String implements fmt.Stringer.
func (g Group) String() string {
	switch g {
	case GroupEStop:
		return "estop"
	case GroupInterlock:
		return "interlock"
	}
	return string(g)
}

// SetGroup sets an e-stop or interlock pair. When Delayed, First is set
// now and the other channel Delay later.
type SetGroup struct {
	Group   Group
	State   [2]bool
	Delayed bool
	First   Channel
	Delay   time.Duration
}

// SetPower sets the power output.
type SetPower struct {
	On bool
}

// MeasureHeartbeat measures heartbeat frequency on both channels.
type MeasureHeartbeat struct{}

// SetEcho forwards text to the diagnostic sink.
type SetEcho struct {
	Text string
}

// SetAll sets modes, e-stops, interlocks and power in one shot.
type SetAll struct {
	Mode1     [2]bool
	Mode2     [2]bool
	EStop     [2]bool
	Interlock [2]bool
	Power     bool
}

// Tag implements Command.
func (ReadInputs) Tag() byte { return TagRead }

// Tag implements Command.
func (SetMode) Tag() byte { return TagMode }

// Tag implements Command.
func (c SetGroup) Tag() byte { return byte(c.Group) }

// Tag implements Command.
func (SetPower) Tag() byte { return TagPower }

// Tag implements Command.
func (MeasureHeartbeat) Tag() byte { return TagHeartbeat }

// Tag implements Command.
func (SetEcho) Tag() byte { return TagEcho }

// Tag implements Command.
func (SetAll) Tag() byte { return TagAll }

// Parse decodes one line, without its terminator, into a Command.
// Every command checks the exact line length before looking at payload.
func Parse(line string) (Command, error) {
	if len(line) == 0 {
		return nil, framingErr(0, "empty line")
	}
	tag := line[0]
	switch tag {
	case TagRead, TagHeartbeat:
		if len(line) != lenRead {
			return nil, framingErr(tag, "expect %d bytes, got %d", lenRead, len(line))
		}
		if tag == TagRead {
			return ReadInputs{}, nil
		}
		return MeasureHeartbeat{}, nil
	case TagMode:
		return parseMode(line)
	case TagEStop, TagInterlock:
		return parseGroup(line)
	case TagPower:
		if len(line) != lenPower {
			return nil, framingErr(tag, "expect %d bytes, got %d", lenPower, len(line))
		}
		on, err := parseBit(tag, line[1])
		if err != nil {
			return nil, err
		}
		return SetPower{On: on}, nil
	case TagEcho:
		if len(line)-1 > MaxEchoLen {
			return nil, valueErr(tag, "echo longer than %d", MaxEchoLen)
		}
		return SetEcho{Text: line[1:]}, nil
	case TagAll:
		return parseAll(line)
	}
	return nil, &CommandError{Kind: ErrUnknown, Tag: tag, Reason: "unrecognized tag"}
}

func parseBit(tag, b byte) (bool, error) {
	switch b {
	case '0':
		return false, nil
	case '1':
		return true, nil
	}
	return false, valueErr(tag, "invalid bit %q", b)
}

func parseBits(tag byte, s string, out ...*bool) error {
	for i, p := range out {
		bit, err := parseBit(tag, s[i])
		if err != nil {
			return err
		}
		*p = bit
	}
	return nil
}

func parseMode(line string) (Command, error) {
	if len(line) != lenMode {
		return nil, framingErr(TagMode, "expect %d bytes, got %d", lenMode, len(line))
	}
	var cmd SetMode
	err := parseBits(TagMode, line[1:], &cmd.Mode1[0], &cmd.Mode2[0], &cmd.Mode1[1], &cmd.Mode2[1])
	if err != nil {
		return nil, err
	}
	return cmd, nil
}

func parseGroup(line string) (Command, error) {
	tag := line[0]
	if len(line) != lenGroup && len(line) != lenGroupDelayed {
		return nil, framingErr(tag, "expect %d or %d bytes, got %d", lenGroup, lenGroupDelayed, len(line))
	}
	cmd := SetGroup{Group: Group(tag)}
	if err := parseBits(tag, line[1:], &cmd.State[0], &cmd.State[1]); err != nil {
		return nil, err
	}
	if len(line) == lenGroup {
		return cmd, nil
	}
	switch ch := Channel(line[3]); ch {
	case ChannelA, ChannelB:
		cmd.First = ch
	default:
		return nil, valueErr(tag, "invalid channel %q", line[3])
	}
	var ms int64
	for _, c := range []byte(line[4:]) {
		if c < '0' || c > '9' {
			return nil, valueErr(tag, "invalid delay digit %q", c)
		}
		ms = ms*10 + int64(c-'0')
	}
	cmd.Delayed = true
	cmd.Delay = time.Duration(ms) * time.Millisecond
	return cmd, nil
}

func parseAll(line string) (Command, error) {
	if len(line) != lenAll {
		return nil, framingErr(TagAll, "expect %d bytes, got %d", lenAll, len(line))
	}
	if line[5] != 'B' || line[10] != 'P' {
		return nil, framingErr(TagAll, "malformed tag layout %q", line)
	}
	var cmd SetAll
	err := parseBits(TagAll, line[1:5], &cmd.Mode1[0], &cmd.Mode2[0], &cmd.EStop[0], &cmd.Interlock[0])
	if err == nil {
		err = parseBits(TagAll, line[6:10], &cmd.Mode1[1], &cmd.Mode2[1], &cmd.EStop[1], &cmd.Interlock[1])
	}
	if err == nil {
		err = parseBits(TagAll, line[11:], &cmd.Power)
	}
	if err != nil {
		return nil, err
	}
	return cmd, nil
}
