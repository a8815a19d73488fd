package tester

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/safety-io/pkg/hw"
	"github.com/robotalks/safety-io/pkg/hw/sim"
)

type recordSink struct {
	received []string
	echoes   []string
}

func (s *recordSink) Received(line string)        { s.received = append(s.received, line) }
func (s *recordSink) Responded(line, resp string) {}
func (s *recordSink) Echo(text string)            { s.echoes = append(s.echoes, text) }

type testerEnv struct {
	t      *testing.T
	clock  *sim.ManualClock
	io     *sim.Backend
	tester *Tester
	sink   *recordSink
}

func newTesterEnv(t *testing.T) *testerEnv {
	env := &testerEnv{t: t, clock: &sim.ManualClock{}, sink: &recordSink{}}
	env.io = sim.New(env.clock)
	env.tester = New(env.io)
	env.tester.Sink = env.sink
	return env
}

func (e *testerEnv) send(line, expect string) {
	require.Equalf(e.t, expect, e.tester.Dispatch(line), "response to %q", line)
}

func (e *testerEnv) at(t time.Duration) {
	e.clock.Set(t)
	e.tester.Tick(e.clock.Now())
}

func (e *testerEnv) level(pin hw.Pin) bool {
	return e.io.ReadPin(pin)
}

func (e *testerEnv) dual(sig DualSignal) [2]bool {
	return [2]bool{e.level(sig[0].Pin), e.level(sig[1].Pin)}
}

func (e *testerEnv) snapshot() map[hw.Pin]bool {
	m := make(map[hw.Pin]bool)
	for _, sig := range Signals() {
		if sig.Dir == hw.Output {
			m[sig.Pin] = e.level(sig.Pin)
		}
	}
	return m
}

func TestModeCommand(t *testing.T) {
	testCases := []struct {
		line  string
		mode1 [2]bool
		mode2 [2]bool
	}{
		{"M0000", [2]bool{false, false}, [2]bool{false, false}},
		{"M1001", [2]bool{true, false}, [2]bool{false, true}},
		{"M0110", [2]bool{false, true}, [2]bool{true, false}},
		{"M1111", [2]bool{true, true}, [2]bool{true, true}},
	}
	for _, tc := range testCases {
		t.Run(tc.line, func(t *testing.T) {
			env := newTesterEnv(t)
			env.send("R", "A00000000B00000000\n")
			env.send(tc.line, RespOK)
			require.Equal(t, tc.mode1, env.dual(OutMode1))
			require.Equal(t, tc.mode2, env.dual(OutMode2))
			env.send("R", "A00000000B00000000\n")
		})
	}
}

func TestGroupImmediate(t *testing.T) {
	env := newTesterEnv(t)
	env.send("E10", RespOK)
	require.Equal(t, [2]bool{true, false}, env.dual(OutEStop))
	env.send("E01", RespOK)
	require.Equal(t, [2]bool{false, true}, env.dual(OutEStop))
	env.send("I11", RespOK)
	require.Equal(t, [2]bool{true, true}, env.dual(OutInterlock))
	require.Equal(t, [2]bool{false, true}, env.dual(OutEStop))
	_, pending := env.tester.EStop.Pending()
	require.False(t, pending)
}

func TestGroupDelayed(t *testing.T) {
	testCases := []struct {
		name  string
		logic func(*testerEnv)
	}{
		{
			"second channel follows after delay",
			func(env *testerEnv) {
				env.send("E11A00100", RespOK)
				require.Equal(t, [2]bool{true, false}, env.dual(OutEStop))
				env.at(99 * time.Millisecond)
				require.Equal(t, [2]bool{true, false}, env.dual(OutEStop))
				env.at(100 * time.Millisecond)
				require.Equal(t, [2]bool{true, true}, env.dual(OutEStop))
				_, pending := env.tester.EStop.Pending()
				require.False(t, pending)
			},
		},
		{
			"channel B first",
			func(env *testerEnv) {
				env.send("I10B00020", RespOK)
				require.Equal(t, [2]bool{false, false}, env.dual(OutInterlock))
				env.send("I11B00020", RespOK)
				require.Equal(t, [2]bool{false, true}, env.dual(OutInterlock))
				env.at(20 * time.Millisecond)
				require.Equal(t, [2]bool{true, true}, env.dual(OutInterlock))
			},
		},
		{
			"immediate command cancels pending",
			func(env *testerEnv) {
				env.send("E11A00100", RespOK)
				env.at(50 * time.Millisecond)
				env.send("E00", RespOK)
				require.Equal(t, [2]bool{false, false}, env.dual(OutEStop))
				env.at(100 * time.Millisecond)
				env.at(200 * time.Millisecond)
				require.Equal(t, [2]bool{false, false}, env.dual(OutEStop))
			},
		},
		{
			"new delayed command replaces pending",
			func(env *testerEnv) {
				env.send("E11A00100", RespOK)
				env.at(50 * time.Millisecond)
				env.send("E00B00100", RespOK)
				env.at(100 * time.Millisecond)
				require.Equal(t, [2]bool{true, false}, env.dual(OutEStop))
				env.at(150 * time.Millisecond)
				require.Equal(t, [2]bool{false, false}, env.dual(OutEStop))
			},
		},
		{
			"zero delay is immediate",
			func(env *testerEnv) {
				env.send("E11A00000", RespOK)
				require.Equal(t, [2]bool{true, true}, env.dual(OutEStop))
				_, pending := env.tester.EStop.Pending()
				require.False(t, pending)
			},
		},
		{
			"groups are independent",
			func(env *testerEnv) {
				env.send("E11A00100", RespOK)
				env.send("I11B00050", RespOK)
				env.send("I00", RespOK)
				env.at(100 * time.Millisecond)
				require.Equal(t, [2]bool{true, true}, env.dual(OutEStop))
				require.Equal(t, [2]bool{false, false}, env.dual(OutInterlock))
			},
		},
		{
			"set all cancels pending",
			func(env *testerEnv) {
				env.send("E11A00100", RespOK)
				env.send("A0000B0000P0", RespOK)
				env.at(time.Second)
				require.Equal(t, [2]bool{false, false}, env.dual(OutEStop))
			},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			tc.logic(newTesterEnv(t))
		})
	}
}

func TestSetAll(t *testing.T) {
	env := newTesterEnv(t)
	env.send("A1001B0111P1", RespOK)
	require.Equal(t, [2]bool{true, false}, env.dual(OutMode1))
	require.Equal(t, [2]bool{false, true}, env.dual(OutMode2))
	require.Equal(t, [2]bool{false, true}, env.dual(OutEStop))
	require.Equal(t, [2]bool{true, true}, env.dual(OutInterlock))
	require.True(t, env.level(OutPower.Pin))

	before := env.snapshot()
	env.send("A1001B0111P", RespErr)
	env.send("A0000C0000P0", RespErr)
	env.send("A0000B0000X0", RespErr)
	env.send("A0000B0020P0", RespErr)
	require.Equal(t, before, env.snapshot())
}

func TestPower(t *testing.T) {
	env := newTesterEnv(t)
	env.send("P1", RespOK)
	require.True(t, env.level(OutPower.Pin))
	env.send("P0", RespOK)
	require.False(t, env.level(OutPower.Pin))
	env.send("P", RespErr)
	env.send("P10", RespErr)
	env.send("P2", RespErr)
}

func TestReadInputs(t *testing.T) {
	env := newTesterEnv(t)
	env.send("R", "A00000000B00000000\n")
	env.io.SetInput(InMode1[0].Pin, hw.High)
	env.io.SetInput(InHeartbeat[0].Pin, hw.High)
	env.io.SetInput(InMode2[1].Pin, hw.High)
	env.io.SetInput(InHeartbeat[1].Pin, hw.High)
	env.send("R", "A10000010B01000010\n")
	env.io.SetInput(InPower[1].Pin, hw.High)
	env.io.SetInput(InTeach[0].Pin, hw.High)
	env.send("R", "A10000110B01000011\n")
	env.send("R0", RespErr)
}

func TestHeartbeat(t *testing.T) {
	testCases := []struct {
		name   string
		a, b   sim.Source
		expect string
	}{
		{"100Hz", sim.NewSquareWave(100), sim.NewSquareWave(100), "A00100B00100\n"},
		{"different", sim.NewSquareWave(250), sim.NewSquareWave(125), "A00250B00125\n"},
		{"duty cycle", &sim.SquareWave{Period: 10 * time.Millisecond, High: 2 * time.Millisecond}, sim.NewSquareWave(100), "A00100B00100\n"},
		{"no pulses", sim.Constant(hw.Low), sim.NewSquareWave(100), RespErr},
		{"stuck high", sim.NewSquareWave(100), sim.Constant(hw.High), RespErr},
		{"too fast", &sim.SquareWave{Period: 8 * time.Microsecond, High: 4 * time.Microsecond}, sim.NewSquareWave(100), RespErr},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			env := newTesterEnv(t)
			env.io.SetSource(InHeartbeat[0].Pin, tc.a)
			env.io.SetSource(InHeartbeat[1].Pin, tc.b)
			start := env.clock.Now()
			env.send("H", tc.expect)
			require.True(t, env.clock.Now()-start <= MaxMeasureStall)
		})
	}
}

func TestHeartbeatStallsLatches(t *testing.T) {
	env := newTesterEnv(t)
	env.io.SetSource(InHeartbeat[0].Pin, sim.NewSquareWave(100))
	env.io.SetSource(InHeartbeat[1].Pin, sim.NewSquareWave(100))
	env.send("E11A00010", RespOK)
	env.send("H", "A00100B00100\n")
	require.Equal(t, [2]bool{true, false}, env.dual(OutEStop))
	env.tester.Tick(env.clock.Now())
	require.Equal(t, [2]bool{true, true}, env.dual(OutEStop))
}

func TestEcho(t *testing.T) {
	env := newTesterEnv(t)
	env.send("Shello bench", RespOK)
	require.Equal(t, "hello bench", env.tester.Echo())
	env.send("S"+string(make([]byte, MaxEchoLen)), RespOK)
	env.send("S0123456789012345678901234567890X", RespErr)
	env.send("S", RespOK)
	require.Equal(t, "", env.tester.Echo())
	require.Len(t, env.sink.echoes, 3)
	require.Equal(t, "hello bench", env.sink.echoes[0])
}

func TestUnknownAndEmpty(t *testing.T) {
	env := newTesterEnv(t)
	env.send("X", RespErr)
	env.send("x123", RespErr)
	env.send("", "")
	require.Equal(t, []string{"X", "x123", ""}, env.sink.received)
}

func TestBlinker(t *testing.T) {
	env := newTesterEnv(t)
	leds := func() [2]bool {
		return [2]bool{env.level(OutTestLED.Pin), env.level(OutStatusLED.Pin)}
	}
	env.at(BlinkInterval)
	require.Equal(t, [2]bool{true, true}, leds())
	env.at(BlinkInterval + 499*time.Millisecond)
	require.Equal(t, [2]bool{true, true}, leds())
	env.at(2*BlinkInterval + 120*time.Millisecond)
	require.Equal(t, [2]bool{false, false}, leds())
	env.at(3 * BlinkInterval)
	require.Equal(t, [2]bool{false, false}, leds())
	env.at(3*BlinkInterval + 120*time.Millisecond)
	require.Equal(t, [2]bool{true, true}, leds())
}

func TestSimRobot(t *testing.T) {
	env := newTesterEnv(t)
	SimRobot{HeartbeatHz: 100, Stop: true}.Attach(env.io)
	env.send("A1001B0111P1", RespOK)
	env.send("R", "A10011011B01111011\n")
	env.send("H", "A00100B00100\n")
}
