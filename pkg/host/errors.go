package host

import (
	"errors"
	"fmt"
)

var (
	// ErrRejected indicates the tester answered ERR.
	ErrRejected = errors.New("command rejected")
	// ErrInvalidDelay indicates a delay not expressible in 5 digits of ms.
	ErrInvalidDelay = errors.New("delay out of range")
)

// ResponseError indicates an unexpected response.
type ResponseError struct {
	Command  string
	Response string
	Reason   string
}

// Error implements error.
func (e *ResponseError) Error() string {
	return fmt.Sprintf("%s: unexpected response %q: %s", e.Command, e.Response, e.Reason)
}

func isRejected(err error) bool {
	return errors.Is(err, ErrRejected)
}
