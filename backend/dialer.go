package backend

import (
	"context"
	"errors"
	"net"
	"strconv"

	"github.com/icecave/webproxy/name"
	"go.uber.org/multierr"
)

// Resolver looks up the addresses of a host. It is satisfied by
// *net.Resolver.
type Resolver interface {
	LookupHost(ctx context.Context, host string) ([]string, error)
}

// NetDialer opens network connections. It is satisfied by *net.Dialer.
type NetDialer interface {
	DialContext(ctx context.Context, network, address string) (net.Conn, error)
}

// Dialer connects to origin servers, keeping name resolution failures apart
// from connection failures.
type Dialer struct {
	// Resolver is used to look up host names. If it is nil,
	// net.DefaultResolver is used.
	Resolver Resolver

	// Dialer is used to open TCP connections. If it is nil, a zero
	// net.Dialer is used.
	Dialer NetDialer
}

// Dial connects to the origin server at host and port.
//
// It returns a *DNSError if host is not a valid name or can not be resolved,
// and a *SocketError if none of the resolved addresses accept a connection.
func (d *Dialer) Dial(ctx context.Context, host string, port int) (net.Conn, *Endpoint, error) {
	serverName, err := name.TryParse(host)
	if err != nil {
		return nil, nil, &DNSError{Host: host, Err: err}
	}

	ep := &Endpoint{Name: serverName, Port: port}

	addrs, err := d.resolve(ctx, serverName)
	if err != nil {
		return nil, ep, &DNSError{Host: host, Err: err}
	}

	var errs error
	for _, addr := range addrs {
		conn, err := d.netDialer().DialContext(
			ctx,
			"tcp",
			net.JoinHostPort(addr, strconv.Itoa(port)),
		)
		if err == nil {
			return conn, ep, nil
		}
		errs = multierr.Append(errs, err)
	}

	return nil, ep, &SocketError{Address: ep.Address(), Err: errs}
}

func (d *Dialer) resolve(ctx context.Context, serverName name.ServerName) ([]string, error) {
	if serverName.IsIP() {
		return []string{serverName.Punycode}, nil
	}

	resolver := d.Resolver
	if resolver == nil {
		resolver = net.DefaultResolver
	}

	addrs, err := resolver.LookupHost(ctx, serverName.Punycode)
	if err != nil {
		return nil, err
	} else if len(addrs) == 0 {
		return nil, errors.New("no addresses found")
	}

	return addrs, nil
}

func (d *Dialer) netDialer() NetDialer {
	if d.Dialer == nil {
		return &net.Dialer{}
	}
	return d.Dialer
}
