package link

import (
	"errors"
	"fmt"
)

var (
	// ErrNoReply indicates the stream ended before a response arrived.
	ErrNoReply = errors.New("no reply")
	// ErrTimeout indicates no response arrived in time.
	ErrTimeout = errors.New("response timeout")
	// ErrNoPort indicates no serial port could be found.
	ErrNoPort = errors.New("no serial port found")
)

// LineError rejects a command line that can't be sent.
type LineError struct {
	Line   string
	Reason string
}

// Error implements error.
func (e *LineError) Error() string {
	return fmt.Sprintf("invalid line %q: %s", e.Line, e.Reason)
}
