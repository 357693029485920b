package backend

import (
	"net"
	"strconv"

	"github.com/icecave/webproxy/name"
)

// Endpoint describes an origin HTTP server.
type Endpoint struct {
	Name name.ServerName
	Port int
}

// Address returns the "host:port" form of the endpoint, using the human
// readable form of the name.
func (ep *Endpoint) Address() string {
	return net.JoinHostPort(ep.Name.Unicode, strconv.Itoa(ep.Port))
}

// String returns the endpoint address.
func (ep *Endpoint) String() string {
	return ep.Address()
}
