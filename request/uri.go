package request

import (
	"strconv"
	"strings"
)

// DefaultPort is the origin port used when neither the URI nor the Host header
// names one.
const DefaultPort = 80

const schemePrefix = "http://"

// ParseURI splits a request URI into the origin host, port and path.
//
// Both absolute ("http://host:port/path") and origin-form ("/path") URIs are
// accepted. Host is empty for origin-form URIs, in which case the Host header
// is expected to supply it. Path is never empty.
func ParseURI(uri string) (host string, port int, path string, err error) {
	port = DefaultPort

	rest := uri
	if len(rest) >= len(schemePrefix) && strings.EqualFold(rest[:len(schemePrefix)], schemePrefix) {
		rest = rest[len(schemePrefix):]
	}

	authority := rest
	path = "/"

	if i := strings.IndexAny(rest, "/?"); i >= 0 {
		authority = rest[:i]
		path = rest[i:]
		if path[0] == '?' {
			path = "/" + path
		}
	}

	if authority == "" {
		return "", port, path, nil
	}

	host, port, err = splitHostPort(authority, port)
	return host, port, path, err
}

// ParseHost parses the value of a Host header. If the value carries no port,
// port is returned unchanged.
func ParseHost(value string, port int) (string, int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", port, malformed("empty host")
	}

	return splitHostPort(value, port)
}

// splitHostPort splits "host[:port]" on the first colon after the hostname.
// Bracketed IPv6 literals are unwrapped.
func splitHostPort(hostport string, port int) (string, int, error) {
	host := hostport
	portStr := ""

	if strings.HasPrefix(hostport, "[") {
		end := strings.IndexByte(hostport, ']')
		if end < 0 {
			return "", port, malformed("unterminated IPv6 literal in %q", hostport)
		}
		host = hostport[1:end]
		if rest := hostport[end+1:]; rest != "" {
			if rest[0] != ':' {
				return "", port, malformed("unexpected %q after IPv6 literal", rest)
			}
			portStr = rest[1:]
		}
	} else if i := strings.IndexByte(hostport, ':'); i >= 0 {
		host = hostport[:i]
		portStr = hostport[i+1:]
	}

	if host == "" {
		return "", port, malformed("empty host in %q", hostport)
	}

	if portStr == "" {
		return host, port, nil
	}

	p, err := strconv.Atoi(portStr)
	if err != nil || p < 1 || p > 65535 {
		return "", port, malformed("invalid port %q", portStr)
	}

	return host, p, nil
}
