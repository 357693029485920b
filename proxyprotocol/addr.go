package proxyprotocol

import (
	"net"

	proxyproto "github.com/pires/go-proxyproto"
)

// newAddr returns the net.Addr described by a PROXY header's address fields.
func newAddr(proto proxyproto.AddressFamilyAndProtocol, ip net.IP, port uint16) net.Addr {
	switch {
	case proto.IsUnix():
		network := "unix"
		if !proto.IsStream() {
			network = "unixgram"
		}
		return &net.UnixAddr{Net: network, Name: ip.String()}
	case proto.IsStream(), proto.IsUnspec():
		return &net.TCPAddr{IP: ip, Port: int(port)}
	default:
		return &net.UDPAddr{IP: ip, Port: int(port)}
	}
}
