package statuspage

import (
	"fmt"
	"io"
)

// Page is a fixed HTTP/1.0 response consisting of a status line and a minimal
// HTML body. The connection is expected to be closed after it is written.
type Page struct {
	StatusCode int
	Reason     string
	Text       string
}

var (
	// BadRequest is sent when the client's request can not be parsed or uses
	// a method other than GET.
	BadRequest = Page{400, "Bad Request", "Bad Request"}

	// SocketError is sent when no connection can be made to the origin server.
	SocketError = Page{500, "Proxy Error", "Socket Error"}

	// DNSError is sent when the origin server's name can not be resolved.
	DNSError = Page{500, "Proxy Error", "DNS Error"}

	// ProxyError is sent for any other failure before the origin responds.
	ProxyError = Page{500, "Proxy Error", "Proxy Error"}
)

// Bytes returns the full response.
func (p Page) Bytes() []byte {
	return []byte(fmt.Sprintf(
		"HTTP/1.0 %d %s\r\n\r\n<html><body>%s</body></html>\r\n\r\n",
		p.StatusCode,
		p.Reason,
		p.Text,
	))
}

// WriteTo writes the full response to w in a single write.
func (p Page) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(p.Bytes())
	return int64(n), err
}
