package mqtt

import (
	"flag"
	"os"

	"github.com/denisbrodbeck/machineid"
)

// Config provides options of the telemetry broker.
type Config struct {
	// BrokerURL is like mqtt://host:1883/topic-prefix.
	BrokerURL string
	// DeviceID names the tester in topics, defaults to one derived
	// from the machine ID.
	DeviceID string
}

var defaultConfig = Config{
	BrokerURL: "mqtt://localhost:1883/siot/",
}

func init() {
	if val := os.Getenv("SIOT_MQTT_URL"); val != "" {
		defaultConfig.BrokerURL = val
	}
	if val := os.Getenv("SIOT_DEVICE_ID"); val != "" {
		defaultConfig.DeviceID = val
	}
}

// SetupFlags sets up command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.BrokerURL, "mqtt", defaultConfig.BrokerURL, "MQTT broker URL.")
	flag.StringVar(&defaultConfig.DeviceID, "device-id", defaultConfig.DeviceID, "Device ID used in topics.")
}

// Default gets the default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a Config with default configurations.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// ID returns DeviceID or the machine derived one.
func (c *Config) ID() string {
	if c.DeviceID != "" {
		return c.DeviceID
	}
	return MachineDeviceID()
}

// NewPublisher creates a Publisher for the device.
func (c *Config) NewPublisher(port, host string, started int64) (*Publisher, error) {
	return NewPublisher(c.BrokerURL, Meta{DeviceID: c.ID(), Port: port, Host: host, Started: started})
}

// NewWatcher creates a Watcher.
func (c *Config) NewWatcher() (*Watcher, error) {
	return NewWatcher(c.BrokerURL)
}

// MachineDeviceID derives a stable device ID from the machine ID.
func MachineDeviceID() string {
	id, err := machineid.ProtectedID("safety-io")
	if err != nil {
		panic(err)
	}
	return id[:12]
}
