package proxyprotocol

import "net"

// Listener is a net.Listener that accepts connections that may begin with a
// PROXY protocol header.
type Listener struct {
	net.Listener
}

// NewListener returns a Listener that wraps l.
func NewListener(l net.Listener) *Listener {
	return &Listener{l}
}

// Accept waits for and returns the next connection to the listener.
func (l *Listener) Accept() (net.Conn, error) {
	conn, err := l.Listener.Accept()
	if err != nil {
		return nil, err
	}

	return NewConn(conn), nil
}
