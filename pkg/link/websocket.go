package link

import (
	"context"
	"io"
	"net"
	"net/http"

	"github.com/golang/glog"
	"golang.org/x/net/websocket"

	fx "github.com/robotalks/safety-io/pkg/framework"
)

// DefaultWebsocketPath is where Server accepts connections.
const DefaultWebsocketPath = "/tester"

// Server accepts websocket connections and serves each one as a Port.
// Like Port, it must run with a context from a framework.Loop.
type Server struct {
	Addr string
	Path string

	listener net.Listener
}

// Listen binds the server address, Run will accept on it.
func (s *Server) Listen() error {
	ln, err := net.Listen("tcp", s.Addr)
	if err != nil {
		return err
	}
	s.listener = ln
	return nil
}

// ListenAddr returns the bound address after Listen.
func (s *Server) ListenAddr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Run implements Runnable.
func (s *Server) Run(ctx context.Context) error {
	if s.listener == nil {
		if err := s.Listen(); err != nil {
			return err
		}
	}
	path := s.Path
	if path == "" {
		path = DefaultWebsocketPath
	}
	mux := http.NewServeMux()
	mux.Handle(path, websocket.Handler(func(conn *websocket.Conn) {
		port := NewPort(conn.Request().RemoteAddr, conn)
		if err := port.Run(ctx); err != nil && err != context.Canceled {
			glog.Warningf("websocket %s: %v", port.Name, err)
		}
	}))
	srv := &http.Server{Handler: mux}
	glog.Infof("websocket listening on %s%s", s.listener.Addr(), path)
	err := fx.RunWithContextCancel(ctx, func() { srv.Close() }, func() error {
		return srv.Serve(s.listener)
	})
	if err == http.ErrServerClosed {
		err = nil
	}
	return err
}

// AddToLoop implements LoopAdder.
func (s *Server) AddToLoop(loop *fx.Loop) {
	loop.AddRunnable(s)
}

// DialWebsocket connects to a Server.
func DialWebsocket(url string) (io.ReadWriteCloser, error) {
	return websocket.Dial(url, "", "http://localhost/")
}
