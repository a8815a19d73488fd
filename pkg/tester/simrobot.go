package tester

import (
	"github.com/robotalks/safety-io/pkg/hw"
	"github.com/robotalks/safety-io/pkg/hw/sim"
)

// SimRobot configures a simulated backend to behave like a compliant robot
// controller: every response signal with a matching command output follows
// it, stop and teach hold fixed levels, and both heartbeat inputs carry a
// square wave.
type SimRobot struct {
	HeartbeatHz float64
	Stop        bool
	Teach       bool
}

// Attach wires the robot onto b.
func (r SimRobot) Attach(b *sim.Backend) {
	for _, pair := range [][2]DualSignal{
		{InMode1, OutMode1},
		{InMode2, OutMode2},
		{InEStop, OutEStop},
		{InInterlock, OutInterlock},
	} {
		b.Mirror(pair[0][0].Pin, pair[1][0].Pin)
		b.Mirror(pair[0][1].Pin, pair[1][1].Pin)
	}
	b.Mirror(InPower[0].Pin, OutPower.Pin)
	b.Mirror(InPower[1].Pin, OutPower.Pin)
	for _, pin := range InStop.Pins() {
		b.SetInput(pin, hw.Level(r.Stop))
	}
	for _, pin := range InTeach.Pins() {
		b.SetInput(pin, hw.Level(r.Teach))
	}
	for _, pin := range InHeartbeat.Pins() {
		if r.HeartbeatHz > 0 {
			b.SetSource(pin, sim.NewSquareWave(r.HeartbeatHz))
		} else {
			b.SetInput(pin, hw.Low)
		}
	}
}
