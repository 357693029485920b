package request

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// MaxHeaderBytes is the largest request (request line plus headers) that Parse
// will read from a client.
const MaxHeaderBytes = 64 << 10

// Request is a client GET request, rewritten so that it can be sent to the
// origin server as-is.
type Request struct {
	// Method is the client's request method. It is always GET, in whatever case
	// the client used.
	Method string

	// Host and Port identify the origin server. A Host header takes precedence
	// over the host in an absolute request URI.
	Host string
	Port int

	// Path is the origin-form request target, including any query string.
	Path string

	// Line is the rewritten request line, "GET <path> HTTP/1.0\r\n".
	Line string

	// Header holds the rewritten header lines in the order they were received,
	// each terminated by "\r\n". The final element is always the empty line
	// "\r\n".
	Header []string
}

// Address returns the "host:port" pair of the origin server.
func (req *Request) Address() string {
	if strings.IndexByte(req.Host, ':') >= 0 {
		return fmt.Sprintf("[%s]:%d", req.Host, req.Port)
	}
	return fmt.Sprintf("%s:%d", req.Host, req.Port)
}

// Bytes returns the full rewritten request, ready to be written to the origin
// server.
func (req *Request) Bytes() []byte {
	size := len(req.Line)
	for _, line := range req.Header {
		size += len(line)
	}

	buf := make([]byte, 0, size)
	buf = append(buf, req.Line...)
	for _, line := range req.Header {
		buf = append(buf, line...)
	}

	return buf
}

// Key returns the cache key for the request. It is the full rewritten request,
// so header order is significant.
func (req *Request) Key() string {
	return string(req.Bytes())
}

// Parse reads a request from r and rewrites it for the origin server.
//
// It returns an *UnsupportedMethodError if the method is not GET,
// ErrTruncatedRequest if the stream ends before the header terminator, and a
// *MalformedRequestError if the request can not otherwise be understood.
func Parse(r *bufio.Reader) (*Request, error) {
	lr := &lineReader{r: r, remaining: MaxHeaderBytes}

	line, err := lr.readLine()
	if err != nil {
		return nil, err
	}

	fields := strings.Fields(line)
	if len(fields) < 3 {
		return nil, malformed("request line %q", line)
	}

	method, uri := fields[0], fields[1]
	if !strings.EqualFold(method, "GET") {
		return nil, &UnsupportedMethodError{Method: method}
	}

	host, port, path, err := ParseURI(uri)
	if err != nil {
		return nil, err
	}

	req := &Request{
		Method: method,
		Host:   host,
		Port:   port,
		Path:   path,
		Line:   "GET " + path + " HTTP/1.0" + crlf,
	}

	for {
		line, err := lr.readLine()
		if err != nil {
			return nil, err
		}

		if line == "" {
			req.Header = append(req.Header, crlf)
			break
		}

		if err := req.addHeader(line); err != nil {
			return nil, err
		}
	}

	if req.Host == "" {
		return nil, malformed("no host in request URI or Host header")
	}

	return req, nil
}

// addHeader appends the rewritten form of a single header line.
func (req *Request) addHeader(line string) error {
	name, value, ok := splitHeader(line)
	if !ok {
		// Not a "name: value" pair, pass it through untouched.
		req.Header = append(req.Header, line+crlf)
		return nil
	}

	if substitute, ok := substitutedHeader(name); ok {
		req.Header = append(req.Header, substitute)
		return nil
	}

	if name == "Host" {
		host, port, err := ParseHost(value, req.Port)
		if err != nil {
			return err
		}
		req.Host, req.Port = host, port
	}

	req.Header = append(req.Header, line+crlf)
	return nil
}

// lineReader reads CRLF or LF terminated lines, enforcing MaxHeaderBytes.
type lineReader struct {
	r         *bufio.Reader
	remaining int
}

// readLine returns the next line without its terminator.
func (lr *lineReader) readLine() (string, error) {
	var line []byte

	for {
		chunk, err := lr.r.ReadSlice('\n')

		lr.remaining -= len(chunk)
		if lr.remaining < 0 {
			return "", malformed("request exceeds %d bytes", MaxHeaderBytes)
		}

		line = append(line, chunk...)

		if err == bufio.ErrBufferFull {
			continue
		} else if errors.Is(err, io.EOF) {
			return "", ErrTruncatedRequest
		} else if err != nil {
			return "", err
		}

		return strings.TrimRight(string(line), crlf), nil
	}
}
