package statuspage

import (
	"errors"

	"github.com/icecave/webproxy/backend"
	"github.com/icecave/webproxy/request"
)

// ForError returns the page to send to the client as a result of err.
func ForError(err error) Page {
	var (
		unsupported *request.UnsupportedMethodError
		malformed   *request.MalformedRequestError
		dnsErr      *backend.DNSError
		sockErr     *backend.SocketError
	)

	switch {
	case errors.As(err, &unsupported),
		errors.As(err, &malformed),
		errors.Is(err, request.ErrTruncatedRequest):
		return BadRequest
	case errors.As(err, &dnsErr):
		return DNSError
	case errors.As(err, &sockErr):
		return SocketError
	default:
		return ProxyError
	}
}
