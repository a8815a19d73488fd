package tester

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/safety-io/pkg/host"
)

func TestArgs(t *testing.T) {
	a, b, err := channels("AB")
	require.NoError(t, err)
	require.True(t, a && b)
	a, b, err = channels("b")
	require.NoError(t, err)
	require.Equal(t, [2]bool{false, true}, [2]bool{a, b})
	_, _, err = channels("c")
	require.Error(t, err)

	first, delay, err := delayArgs(nil)
	require.NoError(t, err)
	require.Equal(t, host.NoChannel, first)
	first, delay, err = delayArgs([]string{"b", "250"})
	require.NoError(t, err)
	require.Equal(t, host.ChannelB, first)
	require.Equal(t, 250*time.Millisecond, delay)
	_, _, err = delayArgs([]string{"A"})
	require.Error(t, err)
	_, _, err = delayArgs([]string{"C", "1"})
	require.Error(t, err)

	v, err := bits("1001", 4)
	require.NoError(t, err)
	require.Equal(t, []bool{true, false, false, true}, v)
	_, err = bits("10", 4)
	require.Error(t, err)
	_, err = bits("1x", 2)
	require.Error(t, err)

	on, err := onOff("ON")
	require.NoError(t, err)
	require.True(t, on)
	_, err = onOff("2")
	require.Error(t, err)
}

func TestPinsResult(t *testing.T) {
	states, err := host.ParsePinStates("A10011011B01111011")
	require.NoError(t, err)
	r := newPinsResult(states)
	require.Equal(t, host.ModeManual.Name, r.Mode)
	require.True(t, r.A["mode1"])
	require.False(t, r.A["mode2"])
	require.True(t, r.B["mode2"])
	require.True(t, r.B["power"])
}
