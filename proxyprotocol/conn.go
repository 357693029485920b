package proxyprotocol

import (
	"bufio"
	"net"
	"sync"

	proxyproto "github.com/pires/go-proxyproto"
)

// Conn is a net.Conn that reports the client addresses carried by a PROXY
// protocol header at the start of the stream.
//
// The header is read on the first call to Read(), LocalAddr() or
// RemoteAddr(), so that accepting a connection never blocks on the client.
type Conn struct {
	net.Conn

	reader *bufio.Reader
	once   sync.Once
	header *proxyproto.Header
	err    error
}

// NewConn returns a connection that parses an optional PROXY protocol header
// from the start of conn.
func NewConn(conn net.Conn) *Conn {
	return &Conn{
		Conn:   conn,
		reader: bufio.NewReader(conn),
	}
}

// Header returns the PROXY protocol header, or nil if the connection did not
// begin with one.
func (c *Conn) Header() (*proxyproto.Header, error) {
	c.once.Do(c.readHeader)
	return c.header, c.err
}

// Read reads data from the connection, following the PROXY header.
func (c *Conn) Read(b []byte) (int, error) {
	if _, err := c.Header(); err != nil {
		return 0, err
	}
	return c.reader.Read(b)
}

// LocalAddr returns the destination address from the PROXY header, or the
// connection's own local address if there is no header.
func (c *Conn) LocalAddr() net.Addr {
	if h, _ := c.Header(); h != nil {
		return newAddr(h.TransportProtocol, h.DestinationAddress, h.DestinationPort)
	}
	return c.Conn.LocalAddr()
}

// RemoteAddr returns the source address from the PROXY header, or the
// connection's own remote address if there is no header.
func (c *Conn) RemoteAddr() net.Addr {
	if h, _ := c.Header(); h != nil {
		return newAddr(h.TransportProtocol, h.SourceAddress, h.SourcePort)
	}
	return c.Conn.RemoteAddr()
}

func (c *Conn) readHeader() {
	h, err := proxyproto.Read(c.reader)

	switch err {
	case nil:
		if h.Command == proxyproto.PROXY {
			c.header = h
		}
	case proxyproto.ErrNoProxyProtocol, proxyproto.ErrInvalidLength:
		// not a PROXY protocol connection, the stream is passed through as-is
	default:
		c.err = err
	}
}
