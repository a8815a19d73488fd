package link

import (
	"context"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/golang/glog"
)

// DefaultTimeout is how long Do waits for a response.
const DefaultTimeout = time.Second

// Result is the response of a command.
type Result struct {
	Err  error
	Line string
}

// Call is a command waiting for its response.
type Call struct {
	line     string
	resultCh chan Result
	next     *Call
}

// Line returns the command line sent.
func (c *Call) Line() string {
	return c.line
}

// ResultChan returns the chan to retrieve result.
func (c *Call) ResultChan() <-chan Result {
	return c.resultCh
}

// Client sends command lines and matches responses in FIFO order.
// A call given up on by Do stays queued to consume its late response.
type Client struct {
	Stream  io.ReadWriter
	Timeout time.Duration

	parser Parser
	head   *Call
	tail   *Call
	closed bool
	lock   sync.Mutex
}

// NewClient creates a Client on stream. Run must be running to receive
// responses.
func NewClient(stream io.ReadWriter) *Client {
	return &Client{Stream: stream, Timeout: DefaultTimeout}
}

// CheckLine validates a command line before sending.
func CheckLine(line string) error {
	switch {
	case line == "":
		return &LineError{Line: line, Reason: "empty line gets no response"}
	case len(line) > MaxLineLen:
		return &LineError{Line: line, Reason: "too long"}
	case strings.ContainsAny(line, "\r\n"):
		return &LineError{Line: line, Reason: "contains line terminator"}
	}
	return nil
}

// Send writes a command line and queues a Call for its response.
func (c *Client) Send(line string) *Call {
	call := &Call{line: line, resultCh: make(chan Result, 1)}
	if err := CheckLine(line); err != nil {
		call.resultCh <- Result{Err: err}
		return call
	}

	c.lock.Lock()
	defer c.lock.Unlock()
	if c.closed {
		call.resultCh <- Result{Err: ErrNoReply}
		return call
	}
	if _, err := io.WriteString(c.Stream, line+"\n"); err != nil {
		call.resultCh <- Result{Err: err}
		return call
	}
	if c.head == nil {
		c.head = call
	} else {
		c.tail.next = call
	}
	c.tail = call
	return call
}

// Do sends a command line and waits for the response line.
func (c *Client) Do(ctx context.Context, line string) (string, error) {
	call := c.Send(line)
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case r := <-call.resultCh:
		return r.Line, r.Err
	case <-timer.C:
		return "", ErrTimeout
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// Pending returns the number of calls waiting for a response.
func (c *Client) Pending() (n int) {
	c.lock.Lock()
	defer c.lock.Unlock()
	for call := c.head; call != nil; call = call.next {
		n++
	}
	return
}

// Run implements Runnable. When it returns, all pending calls and the
// ones sent afterwards fail with ErrNoReply.
func (c *Client) Run(ctx context.Context) error {
	err := readLines(ctx, c.Stream, &c.parser, c.handleLine)
	c.lock.Lock()
	head := c.head
	c.head, c.tail, c.closed = nil, nil, true
	c.lock.Unlock()
	for ; head != nil; head = head.next {
		head.resultCh <- Result{Err: ErrNoReply}
	}
	if err == io.EOF {
		err = nil
	}
	return err
}

func (c *Client) handleLine(pr ParseResult) {
	c.lock.Lock()
	call := c.head
	if call != nil {
		if c.head = call.next; c.head == nil {
			c.tail = nil
		}
		call.next = nil
	}
	c.lock.Unlock()
	if call == nil {
		glog.Warningf("unsolicited response %q", pr.Line)
		return
	}
	call.resultCh <- Result{Line: pr.Line}
}
