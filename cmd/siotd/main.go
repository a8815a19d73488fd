package main

//go-build: CGO_ENABLED=0

import (
	"context"
	"flag"
	"io"

	"github.com/golang/glog"

	fx "github.com/robotalks/safety-io/pkg/framework"
	"github.com/robotalks/safety-io/pkg/link"
	"github.com/robotalks/safety-io/pkg/tester"
)

var (
	serveOn    = link.PortStdio
	listenAddr string
	baud       = link.DefaultBaud
)

func init() {
	tester.SetupFlags()
	flag.StringVar(&serveOn, "serve", serveOn, "Serial device the host talks on, - for stdio, empty for none.")
	flag.IntVar(&baud, "baud", baud, "Serial baud rate.")
	flag.StringVar(&listenAddr, "listen", listenAddr, "Websocket listen address, e.g. :8420.")
}

func main() {
	flag.Parse()
	defer glog.Flush()

	if serveOn == "" && listenAddr == "" {
		glog.Exit("nothing to serve, set -serve or -listen")
	}

	loop, _, err := tester.NewConfig().NewLoop()
	if err != nil {
		glog.Exit(err)
	}

	runner := fx.NewRunner().HandleSignals()
	ctx, cancel := context.WithCancel(runner.Context)
	defer cancel()

	if serveOn != "" {
		stream, name := openStream()
		defer stream.Close()
		port := link.NewPort(name, stream)
		// the tester stops with the host stream
		loop.AddRunnable(fx.NamedRun(name, fx.RunFunc(func(ctx context.Context) error {
			err := port.Run(ctx)
			cancel()
			return err
		})))
	}
	if listenAddr != "" {
		srv := &link.Server{Addr: listenAddr}
		if err := srv.Listen(); err != nil {
			glog.Exit(err)
		}
		loop.Add(srv)
	}

	if err := runner.GoWith(ctx, loop).Wait(); err != nil {
		glog.Exit(err)
	}
}

func openStream() (io.ReadWriteCloser, string) {
	if serveOn == link.PortStdio {
		return link.Stdio(), "stdio"
	}
	port, err := link.OpenSerial(serveOn, baud)
	if err != nil {
		glog.Exit(err)
	}
	return port, serveOn
}
