package tester

import (
	"fmt"
)

// ErrorKind classifies why a command failed. On the wire every kind is
// reported with the same ERR token.
type ErrorKind int

// Error kinds.
const (
	// ErrFraming is a wrong line length or tag layout.
	ErrFraming ErrorKind = iota + 1
	// ErrValue is a malformed payload value.
	ErrValue
	// ErrMeasurement is a heartbeat that could not be expressed.
	ErrMeasurement
	// ErrUnknown is an unrecognized command tag.
	ErrUnknown
)

var errorKindNames = map[ErrorKind]string{
	ErrFraming:     "framing",
	ErrValue:       "value",
	ErrMeasurement: "measurement",
	ErrUnknown:     "unknown command",
}

// String implements fmt.Stringer.
func (k ErrorKind) String() string {
	if name, ok := errorKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// CommandError is returned for a command that can't be parsed or executed.
type CommandError struct {
	Kind   ErrorKind
	Tag    byte
	Reason string
}

// Error implements error.
func (e *CommandError) Error() string {
	if e.Tag == 0 {
		return fmt.Sprintf("%s error: %s", e.Kind, e.Reason)
	}
	return fmt.Sprintf("%s error in %q: %s", e.Kind, e.Tag, e.Reason)
}

// KindOf extracts the ErrorKind of err, 0 if it's not a CommandError.
func KindOf(err error) ErrorKind {
	if cmdErr, ok := err.(*CommandError); ok {
		return cmdErr.Kind
	}
	return 0
}

func framingErr(tag byte, format string, args ...interface{}) error {
	return &CommandError{Kind: ErrFraming, Tag: tag, Reason: fmt.Sprintf(format, args...)}
}

func valueErr(tag byte, format string, args ...interface{}) error {
	return &CommandError{Kind: ErrValue, Tag: tag, Reason: fmt.Sprintf(format, args...)}
}
