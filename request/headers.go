package request

import (
	"net/textproto"
	"strings"
)

// UserAgent is the identifying user agent sent to every origin server in place
// of the one supplied by the client.
const UserAgent = "Mozilla/5.0 (X11; Linux x86_64; rv:10.0.3) Gecko/20120305 Firefox/10.0.3"

const crlf = "\r\n"

// substitutedHeader returns the fixed header line that replaces a client
// header with the given name, if any. The name must already be canonicalized
// with textproto.CanonicalMIMEHeaderKey().
func substitutedHeader(name string) (string, bool) {
	switch name {
	case "Connection":
		return "Connection: close" + crlf, true
	case "Proxy-Connection":
		return "Proxy-Connection: close" + crlf, true
	case "User-Agent":
		return "User-Agent: " + UserAgent + crlf, true
	default:
		return "", false
	}
}

// splitHeader splits a header line (without its line terminator) into its
// canonical name and trimmed value. ok is false if the line has no colon.
func splitHeader(line string) (name, value string, ok bool) {
	i := strings.IndexByte(line, ':')
	if i <= 0 {
		return "", "", false
	}

	name = textproto.CanonicalMIMEHeaderKey(strings.TrimSpace(line[:i]))
	value = strings.TrimSpace(line[i+1:])

	return name, value, true
}
