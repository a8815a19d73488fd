// Package tester registers shell commands driving a safety I/O tester.
package tester

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/abiosoft/ishell"

	"github.com/robotalks/safety-io/pkg/cli/sh"
	"github.com/robotalks/safety-io/pkg/host"
)

// PinsResult is the printed result of a read.
type PinsResult struct {
	Mode     string          `json:"mode"`
	A        map[string]bool `json:"a"`
	B        map[string]bool `json:"b"`
	states   host.PinStates
}

func newPinsResult(s host.PinStates) *PinsResult {
	r := &PinsResult{
		Mode:   host.ModeOf(host.ModeBits(s)),
		A:      make(map[string]bool),
		B:      make(map[string]bool),
		states: s,
	}
	for n, name := range host.PinNames {
		r.A[name], r.B[name] = s[0][n], s[1][n]
	}
	return r
}

func (r *PinsResult) String() string {
	return fmt.Sprintf("%s mode=%s", r.states, r.Mode)
}

// HeartbeatResult is the printed result of a heartbeat measurement.
type HeartbeatResult struct {
	A int `json:"a"`
	B int `json:"b"`
}

func (r *HeartbeatResult) String() string {
	return fmt.Sprintf("A: %d Hz, B: %d Hz", r.A, r.B)
}

// channels parses a, b or ab.
func channels(arg string) (a, b bool, err error) {
	switch strings.ToLower(arg) {
	case "a":
		return true, false, nil
	case "b":
		return false, true, nil
	case "ab", "ba", "both":
		return true, true, nil
	}
	return false, false, fmt.Errorf("invalid channels %q, expect a, b or ab", arg)
}

// delayArgs parses optional FIRST(A|B) DELAY(ms).
func delayArgs(args []string) (byte, time.Duration, error) {
	if len(args) == 0 {
		return host.NoChannel, 0, nil
	}
	if len(args) < 2 {
		return 0, 0, fmt.Errorf("DELAY required")
	}
	var first byte
	switch strings.ToUpper(args[0]) {
	case "A":
		first = host.ChannelA
	case "B":
		first = host.ChannelB
	default:
		return 0, 0, fmt.Errorf("invalid FIRST %q", args[0])
	}
	ms, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid DELAY: %v", err)
	}
	return first, time.Duration(ms) * time.Millisecond, nil
}

// bits parses a string of 0 and 1.
func bits(arg string, n int) ([]bool, error) {
	if len(arg) != n {
		return nil, fmt.Errorf("expect %d bits: %q", n, arg)
	}
	out := make([]bool, n)
	for i, ch := range arg {
		switch ch {
		case '0':
		case '1':
			out[i] = true
		default:
			return nil, fmt.Errorf("invalid bit %q", ch)
		}
	}
	return out, nil
}

func onOff(arg string) (bool, error) {
	switch strings.ToLower(arg) {
	case "1", "on":
		return true, nil
	case "0", "off":
		return false, nil
	}
	return false, fmt.Errorf("expect on or off: %q", arg)
}

func toggleCmd(name, alias string, toggle func(*host.Tester, context.Context, bool, bool, byte, time.Duration) error) ishell.Cmd {
	return ishell.Cmd{
		Name:    name,
		Aliases: []string{alias},
		Help:    "a|b|ab [FIRST(A|B) DELAY(ms)], toggle channels",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			if len(c.Args) < 1 {
				c.Err(fmt.Errorf("channels required"))
				return
			}
			a, b, err := channels(c.Args[0])
			if err != nil {
				c.Err(err)
				return
			}
			first, delay, err := delayArgs(c.Args[1:])
			if err != nil {
				c.Err(err)
				return
			}
			sh.Do(c, func(ctx context.Context, t *host.Tester) (interface{}, error) {
				if _, _, err := t.ReadPins(ctx); err != nil {
					return nil, err
				}
				return nil, toggle(t, ctx, a, b, first, delay)
			})
		}),
	}
}

var (
	// ReadCmd reads input signals.
	ReadCmd = ishell.Cmd{
		Name:    "read",
		Aliases: []string{"r"},
		Help:    "",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			sh.Do(c, func(ctx context.Context, t *host.Tester) (interface{}, error) {
				states, _, err := t.ReadPins(ctx)
				if err != nil {
					return nil, err
				}
				return newPinsResult(states), nil
			})
		}),
	}

	// ModeCmd sets mode outputs.
	ModeCmd = ishell.Cmd{
		Name:    "mode",
		Aliases: []string{"m"},
		Help:    "automatic|stop|manual|mute|BITS(A1A2B1B2)",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			if len(c.Args) < 1 {
				c.Err(fmt.Errorf("MODE required"))
				return
			}
			arg := c.Args[0]
			sh.Do(c, func(ctx context.Context, t *host.Tester) (interface{}, error) {
				if _, err := host.FindMode(arg); err == nil {
					return nil, t.SetMode(ctx, arg)
				}
				b, err := bits(arg, 4)
				if err != nil {
					return nil, err
				}
				return nil, t.SetModeBits(ctx, [4]bool{b[0], b[1], b[2], b[3]})
			})
		}),
	}

	// ModeBitCmd toggles one mode output.
	ModeBitCmd = ishell.Cmd{
		Name:    "modebit",
		Aliases: []string{"mb"},
		Help:    "A1|A2|B1|B2",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			if len(c.Args) < 1 {
				c.Err(fmt.Errorf("BIT required"))
				return
			}
			bit, err := host.ParseModeBit(c.Args[0])
			if err != nil {
				c.Err(err)
				return
			}
			sh.Do(c, func(ctx context.Context, t *host.Tester) (interface{}, error) {
				if _, _, err := t.ReadPins(ctx); err != nil {
					return nil, err
				}
				return nil, t.ToggleModeBit(ctx, bit)
			})
		}),
	}

	// EStopCmd toggles e-stop outputs.
	EStopCmd = toggleCmd("estop", "e", (*host.Tester).ToggleEStop)

	// InterlockCmd toggles interlock outputs.
	InterlockCmd = toggleCmd("interlock", "i", (*host.Tester).ToggleInterlock)

	// SetGroupCmd sets e-stop or interlock outputs.
	SetGroupCmd = ishell.Cmd{
		Name:    "group",
		Aliases: []string{"g"},
		Help:    "E|I BITS(AB) [FIRST(A|B) DELAY(ms)]",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			if len(c.Args) < 2 {
				c.Err(fmt.Errorf("GROUP and BITS required"))
				return
			}
			var g host.Group
			switch strings.ToUpper(c.Args[0]) {
			case "E":
				g = host.GroupEStop
			case "I":
				g = host.GroupInterlock
			default:
				c.Err(fmt.Errorf("invalid GROUP %q", c.Args[0]))
				return
			}
			b, err := bits(c.Args[1], 2)
			if err != nil {
				c.Err(err)
				return
			}
			first, delay, err := delayArgs(c.Args[2:])
			if err != nil {
				c.Err(err)
				return
			}
			sh.Do(c, func(ctx context.Context, t *host.Tester) (interface{}, error) {
				return nil, t.SetGroup(ctx, g, b[0], b[1], first, delay)
			})
		}),
	}

	// PowerCmd switches power output.
	PowerCmd = ishell.Cmd{
		Name:    "power",
		Aliases: []string{"p"},
		Help:    "[on|off], toggle without argument",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			if len(c.Args) == 0 {
				sh.Do(c, func(ctx context.Context, t *host.Tester) (interface{}, error) {
					if _, _, err := t.ReadPins(ctx); err != nil {
						return nil, err
					}
					return nil, t.TogglePower(ctx)
				})
				return
			}
			on, err := onOff(c.Args[0])
			if err != nil {
				c.Err(err)
				return
			}
			sh.Do(c, func(ctx context.Context, t *host.Tester) (interface{}, error) {
				return nil, t.SetPower(ctx, on)
			})
		}),
	}

	// AllCmd sets every output.
	AllCmd = ishell.Cmd{
		Name:    "all",
		Aliases: []string{"a"},
		Help:    "MODE(A1A2B1B2) ESTOP(AB) INTERLOCK(AB) POWER(0|1)",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			if len(c.Args) < 4 {
				c.Err(fmt.Errorf("MODE ESTOP INTERLOCK POWER required"))
				return
			}
			var out host.Outputs
			mode, err := bits(c.Args[0], 4)
			if err == nil {
				copy(out.Mode[:], mode)
				var estop, interlock []bool
				if estop, err = bits(c.Args[1], 2); err == nil {
					copy(out.EStop[:], estop)
					if interlock, err = bits(c.Args[2], 2); err == nil {
						copy(out.Interlock[:], interlock)
						out.Power, err = onOff(c.Args[3])
					}
				}
			}
			if err != nil {
				c.Err(err)
				return
			}
			sh.Do(c, func(ctx context.Context, t *host.Tester) (interface{}, error) {
				return nil, t.SetAll(ctx, out)
			})
		}),
	}

	// HeartbeatCmd measures heartbeat frequencies.
	HeartbeatCmd = ishell.Cmd{
		Name:    "heartbeat",
		Aliases: []string{"hb"},
		Help:    "",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			sh.Do(c, func(ctx context.Context, t *host.Tester) (interface{}, error) {
				hb, err := t.Heartbeat(ctx)
				if err != nil {
					return nil, err
				}
				return &HeartbeatResult{A: hb[0], B: hb[1]}, nil
			})
		}),
	}

	// EchoCmd sends text to tester diagnostic output.
	EchoCmd = ishell.Cmd{
		Name:    "echo",
		Aliases: []string{"s"},
		Help:    "TEXT",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			text := strings.Join(c.Args, " ")
			sh.Do(c, func(ctx context.Context, t *host.Tester) (interface{}, error) {
				return nil, t.SetEcho(ctx, text)
			})
		}),
	}

	// RawCmd sends a protocol line as is.
	RawCmd = ishell.Cmd{
		Name:    "raw",
		Aliases: []string{"x"},
		Help:    "LINE",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			if len(c.Args) < 1 {
				c.Err(fmt.Errorf("LINE required"))
				return
			}
			line := strings.Join(c.Args, " ")
			sh.Do(c, func(ctx context.Context, t *host.Tester) (interface{}, error) {
				return t.Raw(ctx, line)
			})
		}),
	}
)

func init() {
	sh.AddCmds(
		&ReadCmd,
		&ModeCmd,
		&ModeBitCmd,
		&EStopCmd,
		&InterlockCmd,
		&SetGroupCmd,
		&PowerCmd,
		&AllCmd,
		&HeartbeatCmd,
		&EchoCmd,
		&RawCmd,
	)
}
