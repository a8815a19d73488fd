package tester

import (
	"strings"

	"github.com/golang/glog"
)

// Sink receives diagnostic echoes. It never affects the protocol.
type Sink interface {
	Received(line string)
	Responded(line, response string)
	Echo(text string)
}

// LogSink writes diagnostics to glog.
type LogSink struct{}

// Received implements Sink.
func (LogSink) Received(line string) {
	glog.V(1).Infof("RCV %q", line)
}

// Responded implements Sink.
func (LogSink) Responded(line, response string) {
	if response == "" {
		glog.V(1).Infof("NOR %q", line)
		return
	}
	glog.V(1).Infof("RSP %q -> %q", line, strings.TrimSuffix(response, "\n"))
}

// Echo implements Sink.
func (LogSink) Echo(text string) {
	glog.Infof("ECHO %s", text)
}
