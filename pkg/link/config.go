package link

import (
	"flag"
	"fmt"
	"io"
	"log"
	"net/url"
	"os"
	"strconv"

	"github.com/golang/glog"
)

// PortAuto selects the first detected Arduino compatible serial port.
const PortAuto = "auto"

// PortStdio selects stdin and stdout as the stream.
const PortStdio = "-"

// Config selects the stream to the tester.
type Config struct {
	// Port is a serial device path, PortAuto or PortStdio.
	Port string
	Baud int
	// URL, when set, is a websocket URL to use instead of Port, e.g.
	// ws://host:8420/tester.
	URL string
}

var defaultConfig = Config{
	Port: PortAuto,
	Baud: DefaultBaud,
}

func init() {
	if val := os.Getenv("SIOT_PORT"); val != "" {
		defaultConfig.Port = val
	}
	if val := os.Getenv("SIOT_BAUD"); val != "" {
		if baud, err := strconv.Atoi(val); err == nil {
			defaultConfig.Baud = baud
		}
	}
	if val := os.Getenv("SIOT_URL"); val != "" {
		defaultConfig.URL = val
	}
}

// SetupFlags sets up command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.Port, "port", defaultConfig.Port, "Serial port, auto to detect, - for stdio.")
	flag.IntVar(&defaultConfig.Baud, "baud", defaultConfig.Baud, "Serial baud rate.")
	flag.StringVar(&defaultConfig.URL, "url", defaultConfig.URL, "Websocket URL of the tester, overrides -port.")
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

// Open opens the configured stream and returns it with a printable name.
func (c *Config) Open() (io.ReadWriteCloser, string, error) {
	if c.URL != "" {
		parsed, err := url.Parse(c.URL)
		if err != nil {
			return nil, "", fmt.Errorf("invalid URL: %v", err)
		}
		switch parsed.Scheme {
		case "ws", "wss":
		default:
			return nil, "", fmt.Errorf("unknown URL scheme: %q", parsed.Scheme)
		}
		conn, err := DialWebsocket(c.URL)
		return conn, c.URL, err
	}
	switch c.Port {
	case PortStdio:
		return Stdio(), "stdio", nil
	case PortAuto, "":
		port, info, err := OpenFirstSerial(c.Baud)
		if err != nil {
			return nil, "", err
		}
		glog.Infof("detected %s", info)
		return port, info.Name, nil
	}
	port, err := OpenSerial(c.Port, c.Baud)
	return port, c.Port, err
}

// MustOpen opens the stream and fails on error.
func (c *Config) MustOpen() (io.ReadWriteCloser, string) {
	stream, name, err := c.Open()
	if err != nil {
		log.Fatalln(err)
	}
	return stream, name
}
