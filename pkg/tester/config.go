package tester

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/golang/glog"

	fx "github.com/robotalks/safety-io/pkg/framework"
	"github.com/robotalks/safety-io/pkg/hw"
	"github.com/robotalks/safety-io/pkg/hw/periph"
	"github.com/robotalks/safety-io/pkg/hw/sim"
)

// Backend names.
const (
	BackendSim    = "sim"
	BackendPeriph = "periph"
)

// Config selects the I/O backend and loop timing of the tester.
type Config struct {
	Backend      string
	LoopInterval time.Duration

	// Options of the sim backend.
	SimHeartbeatHz float64
	SimStop        bool
	SimTeach       bool
}

var defaultConfig = Config{
	Backend:        BackendSim,
	LoopInterval:   fx.DefaultInterval,
	SimHeartbeatHz: 100,
	SimStop:        true,
}

func init() {
	if val := os.Getenv("SIOT_BACKEND"); val != "" {
		defaultConfig.Backend = val
	}
	if val := os.Getenv("SIOT_SIM_HEARTBEAT_HZ"); val != "" {
		if hz, err := strconv.ParseFloat(val, 64); err == nil {
			defaultConfig.SimHeartbeatHz = hz
		}
	}
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.Backend, "backend", defaultConfig.Backend, "I/O backend: sim or periph.")
	flag.DurationVar(&defaultConfig.LoopInterval, "loop-interval", defaultConfig.LoopInterval, "Control loop period.")
	flag.Float64Var(&defaultConfig.SimHeartbeatHz, "sim-heartbeat", defaultConfig.SimHeartbeatHz, "Simulated robot heartbeat (Hz), 0 for none.")
	flag.BoolVar(&defaultConfig.SimStop, "sim-stop", defaultConfig.SimStop, "Simulated robot stop inputs level.")
	flag.BoolVar(&defaultConfig.SimTeach, "sim-teach", defaultConfig.SimTeach, "Simulated robot teach-mode inputs level.")
}

// Default gets default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a Config with default configurations.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// NewBackend creates and configures the selected backend.
func (c *Config) NewBackend() (hw.Backend, error) {
	var io hw.Backend
	switch c.Backend {
	case BackendSim:
		b := sim.New(sim.NewWallClock())
		SimRobot{HeartbeatHz: c.SimHeartbeatHz, Stop: c.SimStop, Teach: c.SimTeach}.Attach(b)
		io = b
	case BackendPeriph:
		b, err := periph.New()
		if err != nil {
			return nil, err
		}
		io = b
	default:
		return nil, fmt.Errorf("unknown backend %q", c.Backend)
	}
	if err := ConfigurePins(io); err != nil {
		return nil, err
	}
	glog.Infof("backend %s ready", c.Backend)
	return io, nil
}

// NewLoop creates the Tester on a new backend and a Loop running it.
func (c *Config) NewLoop() (*fx.Loop, *Tester, error) {
	io, err := c.NewBackend()
	if err != nil {
		return nil, nil, err
	}
	t := New(io)
	loop := fx.NewLoop(io)
	loop.Interval = c.LoopInterval
	loop.Add(NewController(t))
	return loop, t, nil
}
