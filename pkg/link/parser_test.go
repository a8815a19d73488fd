package link

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParser(t *testing.T) {
	testCases := []struct {
		name  string
		in    string
		lines []string
		trunc []bool
		state LineState
	}{
		{"single", "R\n", []string{"R"}, []bool{false}, LineIdle},
		{"crlf", "E11A00100\r\n", []string{"E11A00100"}, []bool{false}, LineIdle},
		{"multiple", "M1001\nP1\nH\n", []string{"M1001", "P1", "H"}, []bool{false, false, false}, LineIdle},
		{"empty", "\n\r\n", []string{"", ""}, []bool{false, false}, LineIdle},
		{"partial", "R\nA1001", []string{"R"}, []bool{false}, LineReceiving},
		{"only inner cr kept", "S\ra\n", []string{"S\ra"}, []bool{false}, LineIdle},
		{
			"overflow",
			"S" + strings.Repeat("x", MaxLineLen) + "\nR\n",
			[]string{"S" + strings.Repeat("x", MaxLineLen-1), "R"},
			[]bool{true, false},
			LineIdle,
		},
		{"overflow pending", strings.Repeat("y", MaxLineLen+1), nil, nil, LineDiscarding},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var p Parser
			var lines []string
			var trunc []bool
			for _, pr := range p.ParseBytes([]byte(tc.in)) {
				require.True(t, pr.Complete)
				lines = append(lines, pr.Line)
				trunc = append(trunc, pr.Truncated)
			}
			require.Equal(t, tc.lines, lines)
			require.Equal(t, tc.trunc, trunc)
			require.Equal(t, tc.state, p.State())
		})
	}
}

func TestParserReset(t *testing.T) {
	var p Parser
	require.Equal(t, LineReceiving, p.Parse('A').State)
	p.Reset()
	require.Equal(t, LineIdle, p.State())
	pr := p.Parse('\n')
	require.True(t, pr.Complete)
	require.Equal(t, "", pr.Line)
}

func TestCheckLine(t *testing.T) {
	require.NoError(t, CheckLine("R"))
	require.NoError(t, CheckLine(strings.Repeat("S", MaxLineLen)))
	for _, line := range []string{"", "R\n", "R\r", strings.Repeat("S", MaxLineLen+1)} {
		err := CheckLine(line)
		require.Error(t, err)
		_, ok := err.(*LineError)
		require.True(t, ok)
	}
}

func TestIsArduinoVID(t *testing.T) {
	require.True(t, IsArduinoVID("2341"))
	require.True(t, IsArduinoVID("2a03"))
	require.True(t, IsArduinoVID("239A"))
	require.False(t, IsArduinoVID("0403"))
	require.False(t, IsArduinoVID(""))
}
