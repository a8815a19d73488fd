package host

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakeRequester struct {
	lines     []string
	responses map[string]string
	err       error
}

func (r *fakeRequester) Do(ctx context.Context, line string) (string, error) {
	r.lines = append(r.lines, line)
	if r.err != nil {
		return "", r.err
	}
	if resp, ok := r.responses[line]; ok {
		return resp, nil
	}
	return "OK", nil
}

func newFakeTester(responses map[string]string) (*Tester, *fakeRequester) {
	r := &fakeRequester{responses: responses}
	return New(r), r
}

func TestParsePinStates(t *testing.T) {
	s, err := ParsePinStates("A10000010B01000010")
	require.NoError(t, err)
	require.Equal(t, [2]bool{true, false}, s.Pair(PinMode1))
	require.Equal(t, [2]bool{false, true}, s.Pair(PinMode2))
	require.Equal(t, [2]bool{true, true}, s.Pair(PinHeartbeat))
	require.False(t, s.Any(PinPower))
	require.Equal(t, "A10000010B01000010", s.String())
	require.Equal(t, uint32(0x41), s.Bits(0))
	require.Equal(t, uint32(0x42), s.Bits(1))
	require.Equal(t, s, PinStatesFromBits(0x41, 0x42))

	for _, resp := range []string{"", "ERR", "A10000010B0100001", "A10000010C01000010", "A1000x010B01000010"} {
		_, err := ParsePinStates(resp)
		require.Error(t, err, resp)
	}
}

func TestPinStatesChanged(t *testing.T) {
	prev, _ := ParsePinStates("A00000000B00000000")
	hb, _ := ParsePinStates("A00000010B00000010")
	require.False(t, hb.ChangedFrom(prev))
	power, _ := ParsePinStates("A00000001B00000000")
	require.True(t, power.ChangedFrom(prev))
}

func TestParseHeartbeat(t *testing.T) {
	hb, err := ParseHeartbeat("A00100B01234")
	require.NoError(t, err)
	require.Equal(t, Heartbeat{100, 1234}, hb)
	for _, resp := range []string{"A00100B0123", "A00100C01234", "A0010xB01234"} {
		_, err := ParseHeartbeat(resp)
		require.Error(t, err, resp)
	}
}

func TestModes(t *testing.T) {
	tester, r := newFakeTester(nil)
	ctx := context.Background()
	for _, name := range []string{"Automatic", "stop", "MANUAL", "Mute"} {
		require.NoError(t, tester.SetMode(ctx, name))
	}
	require.Error(t, tester.SetMode(ctx, "Turbo"))
	require.Equal(t, []string{"M0110", "M1010", "M1001", "M0101"}, r.lines)
	require.Equal(t, "Manual", ModeOf(ModeManual.Bits))
	require.Equal(t, "", ModeOf([4]bool{true, true, true, true}))
}

func TestToggles(t *testing.T) {
	tester, r := newFakeTester(map[string]string{"R": "A10110001B01010000"})
	ctx := context.Background()
	_, changed, err := tester.ReadPins(ctx)
	require.NoError(t, err)
	require.True(t, changed)
	require.Equal(t, "Manual", ModeOf(ModeBits(tester.PinStates())))

	bit, err := ParseModeBit("b2")
	require.NoError(t, err)
	require.NoError(t, tester.ToggleModeBit(ctx, bit))
	require.NoError(t, tester.ToggleModeBit(ctx, ModeA2))
	require.NoError(t, tester.ToggleEStop(ctx, true, false, NoChannel, 0))
	require.NoError(t, tester.ToggleEStop(ctx, true, true, ChannelB, 100*time.Millisecond))
	require.NoError(t, tester.ToggleInterlock(ctx, false, true, ChannelA, 20*time.Millisecond))
	require.NoError(t, tester.TogglePower(ctx))
	require.Equal(t, []string{
		"R",
		"M1000",
		"M1101",
		"E00",
		"E01B00100",
		"I10A00020",
		"P0",
	}, r.lines)

	_, changed, err = tester.ReadPins(ctx)
	require.NoError(t, err)
	require.False(t, changed)
}

func TestGroupCommand(t *testing.T) {
	testCases := []struct {
		g      Group
		a, b   bool
		first  byte
		delay  time.Duration
		expect string
		err    bool
	}{
		{GroupEStop, true, false, NoChannel, time.Second, "E10", false},
		{GroupInterlock, true, true, ChannelA, 100 * time.Millisecond, "I11A00100", false},
		{GroupEStop, false, true, ChannelB, MaxDelay, "E01B99999", false},
		{GroupEStop, false, true, ChannelB, MaxDelay + time.Millisecond, "", true},
		{GroupEStop, false, true, 'C', 0, "", true},
	}
	for _, tc := range testCases {
		line, err := GroupCommand(tc.g, tc.a, tc.b, tc.first, tc.delay)
		if tc.err {
			require.Error(t, err)
			continue
		}
		require.NoError(t, err)
		require.Equal(t, tc.expect, line)
	}
}

func TestSetAllAndErrors(t *testing.T) {
	tester, r := newFakeTester(map[string]string{
		"A1001B0111P1": "OK",
		"SHello":       "ERR",
		"H":            "A00100B00100",
		"P1":           "A00100B00100",
	})
	ctx := context.Background()
	require.NoError(t, tester.SetAll(ctx, Outputs{
		Mode:      [4]bool{true, false, false, true},
		EStop:     [2]bool{false, true},
		Interlock: [2]bool{true, true},
		Power:     true,
	}))
	require.Equal(t, "A1001B0111P1", r.lines[0])

	err := tester.SetEcho(ctx, "Hello")
	require.True(t, errors.Is(err, ErrRejected))

	hb, err := tester.Heartbeat(ctx)
	require.NoError(t, err)
	require.Equal(t, Heartbeat{100, 100}, hb)

	err = tester.SetPower(ctx, true)
	_, ok := err.(*ResponseError)
	require.True(t, ok)

	r.err = errors.New("link down")
	_, _, err = tester.ReadPins(ctx)
	require.EqualError(t, err, "link down")
}
