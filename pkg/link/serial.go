package link

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"go.bug.st/serial"
	"go.bug.st/serial/enumerator"
)

const (
	// DefaultBaud is the baud rate of the tester firmware.
	DefaultBaud = 115200
	// ReadTimeout bounds a single serial read so cancellation is noticed.
	ReadTimeout = time.Second
)

// ArduinoVIDs are USB vendor IDs of common Arduino compatible boards.
var ArduinoVIDs = []string{"2341", "2A03", "1B4F", "239A"}

// PortInfo describes a detected serial port.
type PortInfo struct {
	Name         string
	VID          string
	PID          string
	SerialNumber string
	Product      string
}

// String implements fmt.Stringer.
func (p PortInfo) String() string {
	s := fmt.Sprintf("%s [%s:%s]", p.Name, p.VID, p.PID)
	if p.Product != "" {
		s += " " + p.Product
	}
	return s
}

// IsArduinoVID tells whether a hex USB vendor ID belongs to ArduinoVIDs.
func IsArduinoVID(vid string) bool {
	for _, known := range ArduinoVIDs {
		if strings.EqualFold(vid, known) {
			return true
		}
	}
	return false
}

// DetectPorts lists USB serial ports of Arduino compatible boards.
func DetectPorts() ([]PortInfo, error) {
	details, err := enumerator.GetDetailedPortsList()
	if err != nil {
		return nil, fmt.Errorf("enumerate serial ports: %v", err)
	}
	var ports []PortInfo
	for _, d := range details {
		if !d.IsUSB || !IsArduinoVID(d.VID) {
			continue
		}
		ports = append(ports, PortInfo{
			Name:         d.Name,
			VID:          strings.ToUpper(d.VID),
			PID:          strings.ToUpper(d.PID),
			SerialNumber: d.SerialNumber,
			Product:      d.Product,
		})
	}
	sort.Slice(ports, func(i, j int) bool { return ports[i].Name < ports[j].Name })
	return ports, nil
}

// OpenSerial opens a serial port in 8N1 with ReadTimeout set.
func OpenSerial(name string, baud int) (serial.Port, error) {
	if baud <= 0 {
		baud = DefaultBaud
	}
	mode := &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	port, err := serial.Open(name, mode)
	if err != nil {
		return nil, fmt.Errorf("open %s: %v", name, err)
	}
	if err = port.SetReadTimeout(ReadTimeout); err != nil {
		port.Close()
		return nil, fmt.Errorf("set read timeout on %s: %v", name, err)
	}
	return port, nil
}

// OpenFirstSerial opens the first detected Arduino compatible port.
func OpenFirstSerial(baud int) (serial.Port, PortInfo, error) {
	ports, err := DetectPorts()
	if err != nil {
		return nil, PortInfo{}, err
	}
	if len(ports) == 0 {
		return nil, PortInfo{}, ErrNoPort
	}
	port, err := OpenSerial(ports[0].Name, baud)
	return port, ports[0], err
}
