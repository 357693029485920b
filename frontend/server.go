package frontend

import (
	"bufio"
	"context"
	"errors"
	"log"
	"net"
	"sync"
	"time"

	"github.com/icecave/webproxy/proxy"
	"github.com/icecave/webproxy/request"
	"github.com/icecave/webproxy/statuspage"
	"go.uber.org/multierr"
)

// ErrServerClosed is returned by Serve() when it is called after Close().
var ErrServerClosed = errors.New("server closed")

// Server accepts client connections and proxies exactly one request on each.
type Server struct {
	Forwarder *proxy.Forwarder
	Logger    *log.Logger

	// Sequential disables per-connection workers, so that each connection is
	// handled to completion before the next is accepted.
	Sequential bool

	// OnStateChange, if non-nil, is called each time a connection moves to a
	// new state, including the initial StateAccepted.
	OnStateChange func(conn net.Conn, state State)

	mutex     sync.Mutex
	closed    bool
	listeners map[net.Listener]struct{}
	workers   sync.WaitGroup
}

// Serve accepts connections from listener until Close() is called, handling
// each one on its own goroutine. It returns nil once the server is closed.
// Temporary accept errors are logged and retried with a growing delay.
func (svr *Server) Serve(listener net.Listener) error {
	if !svr.track(listener) {
		listener.Close()
		return ErrServerClosed
	}

	svr.logf("proxy: Listening on %s", listener.Addr())

	var delay time.Duration

	for {
		conn, err := listener.Accept()
		if err != nil {
			if svr.isClosed() {
				return nil
			}

			if ne, ok := err.(net.Error); ok && ne.Temporary() {
				delay = nextAcceptDelay(delay)
				svr.logf("proxy: Accept error: %s; retrying in %s", err, delay)
				time.Sleep(delay)
				continue
			}

			return err
		}
		delay = 0

		if !svr.startWorker() {
			conn.Close()
			return nil
		}

		if svr.Sequential {
			svr.serveConn(conn)
		} else {
			go svr.serveConn(conn)
		}
	}
}

// Close stops all listeners and waits for in-flight connections to finish.
func (svr *Server) Close() error {
	svr.mutex.Lock()
	svr.closed = true

	var err error
	for listener := range svr.listeners {
		err = multierr.Append(err, listener.Close())
	}
	svr.listeners = nil
	svr.mutex.Unlock()

	svr.workers.Wait()

	return err
}

// Handle runs a single transaction on conn and closes it, returning the
// connection's final state.
func (svr *Server) Handle(conn net.Conn) State {
	svr.transition(conn, StateAccepted)
	svr.logBanner(conn.RemoteAddr())

	logCtx := &proxy.LogContext{
		Logger:     svr.Logger,
		ClientAddr: conn.RemoteAddr().String(),
	}
	logCtx.Metrics.Start()

	svr.transition(conn, StateParsingRequest)
	req, err := request.Parse(bufio.NewReader(conn))
	if err != nil {
		logCtx.Event = proxy.EventReject
		logCtx.StatusCode = statuspage.BadRequest.StatusCode
		_, _ = statuspage.BadRequest.WriteTo(conn)
		logCtx.Log(err)
		conn.Close()
		return svr.transition(conn, StateRejected)
	}

	logCtx.Request = req
	svr.transition(conn, StateForwarding)
	err = svr.Forwarder.Forward(context.Background(), conn, req, logCtx)
	logCtx.Log(err)
	conn.Close()

	return svr.transition(conn, StateClosed)
}

func (svr *Server) transition(conn net.Conn, state State) State {
	if svr.OnStateChange != nil {
		svr.OnStateChange(conn, state)
	}
	return state
}

func (svr *Server) serveConn(conn net.Conn) {
	defer svr.workers.Done()
	svr.Handle(conn)
}

func (svr *Server) track(listener net.Listener) bool {
	svr.mutex.Lock()
	defer svr.mutex.Unlock()

	if svr.closed {
		return false
	}

	if svr.listeners == nil {
		svr.listeners = map[net.Listener]struct{}{}
	}
	svr.listeners[listener] = struct{}{}

	return true
}

// startWorker registers a worker unless the server is closed. Registration
// happens under the mutex so that it never races with Close() waiting on the
// workers.
func (svr *Server) startWorker() bool {
	svr.mutex.Lock()
	defer svr.mutex.Unlock()

	if svr.closed {
		return false
	}

	svr.workers.Add(1)
	return true
}

// nextAcceptDelay doubles the previous delay, from 5ms up to one second.
func nextAcceptDelay(prev time.Duration) time.Duration {
	if prev == 0 {
		return 5 * time.Millisecond
	}

	if next := prev * 2; next < time.Second {
		return next
	}

	return time.Second
}

func (svr *Server) isClosed() bool {
	svr.mutex.Lock()
	defer svr.mutex.Unlock()
	return svr.closed
}

func (svr *Server) logBanner(addr net.Addr) {
	host, port, err := net.SplitHostPort(addr.String())
	if err != nil {
		host, port = addr.String(), "-"
	}

	svr.logf("Accepted new connection from (%s, %s)", host, port)
}

func (svr *Server) logf(format string, v ...interface{}) {
	if svr.Logger != nil {
		svr.Logger.Printf(format, v...)
	}
}
