package link

import (
	"context"
	"io"
	"sync"

	"github.com/golang/glog"

	fx "github.com/robotalks/safety-io/pkg/framework"
)

// Port is the device end of a stream. Every received line is posted into
// the loop as a *Request, and the reply is written back on the stream.
type Port struct {
	Name   string
	Stream io.ReadWriter

	parser    Parser
	writeLock sync.Mutex
}

// Request is a line received on a Port.
type Request struct {
	port *Port
	line string
}

// NewPort creates a Port.
func NewPort(name string, stream io.ReadWriter) *Port {
	return &Port{Name: name, Stream: stream}
}

// Line returns the received line, without terminator.
func (r *Request) Line() string {
	return r.line
}

// Reply writes the response to the Port the line came from.
func (r *Request) Reply(response string) error {
	return r.port.Write(response)
}

// Port returns the Port the request came from.
func (r *Request) Port() *Port {
	return r.port
}

// Write writes a response.
func (p *Port) Write(response string) error {
	p.writeLock.Lock()
	defer p.writeLock.Unlock()
	_, err := io.WriteString(p.Stream, response)
	return err
}

// Run implements Runnable. It must run with a context from a
// framework.Loop, e.g. added by AddToLoop.
func (p *Port) Run(ctx context.Context) error {
	ctl := fx.LoopCtlFrom(ctx)
	glog.Infof("port %s open", p.Name)
	err := readLines(ctx, p.Stream, &p.parser, func(pr ParseResult) {
		if pr.Truncated {
			glog.Warningf("port %s: line longer than %d truncated", p.Name, MaxLineLen)
		}
		ctl.PostMessage(&Request{port: p, line: pr.Line})
		ctl.TriggerNext()
	})
	if err == io.EOF {
		err = nil
	}
	glog.Infof("port %s closed: %v", p.Name, err)
	return err
}

// AddToLoop implements LoopAdder.
func (p *Port) AddToLoop(loop *fx.Loop) {
	loop.AddRunnable(p)
}
