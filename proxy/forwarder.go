package proxy

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strconv"

	"github.com/icecave/webproxy/backend"
	"github.com/icecave/webproxy/cache"
	"github.com/icecave/webproxy/request"
	"github.com/icecave/webproxy/statuspage"
)

// Dialer opens connections to origin servers.
type Dialer interface {
	Dial(ctx context.Context, host string, port int) (net.Conn, *backend.Endpoint, error)
}

// Forwarder completes a proxied transaction for a parsed request, serving it
// from the cache when possible and relaying it from the origin server
// otherwise.
type Forwarder struct {
	// Dialer connects to origin servers. If it is nil, a zero backend.Dialer
	// is used.
	Dialer Dialer

	// Cache holds previously relayed responses. If it is nil, caching is
	// disabled and every request is forwarded to the origin.
	Cache *cache.Cache
}

// Forward writes the response to req to client.
//
// If the origin can not be reached, the matching fixed error page is written
// to client and the *backend.DNSError or *backend.SocketError is returned.
// Bytes already relayed to the client are never retracted.
func (f *Forwarder) Forward(
	ctx context.Context,
	client io.Writer,
	req *request.Request,
	logCtx *LogContext,
) error {
	key := req.Key()

	if f.Cache != nil {
		if value, ok := f.Cache.Get(key); ok {
			logCtx.Event = EventHit
			return f.serveCached(client, value, logCtx)
		}
	}

	logCtx.Event = EventMiss

	conn, ep, err := f.dialer().Dial(ctx, req.Host, req.Port)
	logCtx.Endpoint = ep
	if err != nil {
		logCtx.Event = EventError
		page := statuspage.ForError(err)
		logCtx.StatusCode = page.StatusCode
		_, _ = page.WriteTo(client)
		return err
	}
	defer conn.Close()

	if _, err := conn.Write(req.Bytes()); err != nil {
		logCtx.Event = EventError
		return fmt.Errorf("can not send request to '%s': %w", ep, err)
	}

	value, err := f.relay(client, conn, logCtx)
	if err != nil {
		logCtx.Event = EventError
		return err
	}

	if value != nil && f.Cache.Fits(key, value) {
		f.Cache.Put(key, value)
	}

	return nil
}

func (f *Forwarder) serveCached(client io.Writer, value []byte, logCtx *LogContext) error {
	logCtx.StatusCode = statusCode(value)
	logCtx.Metrics.FirstByteSent()

	n, err := client.Write(value)
	logCtx.Metrics.BytesOut += int64(n)
	logCtx.Metrics.LastByteSent()

	return err
}

// relay copies the origin's response to client line by line until the origin
// closes the connection.
//
// It returns the captured response if it is eligible for caching, or nil if
// caching is disabled, the origin sent nothing, or the response exceeded the
// object limit.
func (f *Forwarder) relay(client io.Writer, origin io.Reader, logCtx *LogContext) ([]byte, error) {
	var (
		reader    = bufio.NewReader(origin)
		capture   []byte
		limit     int
		cacheable = f.Cache != nil
	)

	if cacheable {
		limit = f.Cache.ObjectLimit()
	}

	for {
		line, readErr := reader.ReadSlice('\n')

		if len(line) > 0 {
			if logCtx.StatusCode == 0 && logCtx.Metrics.BytesIn == 0 {
				logCtx.StatusCode = statusCode(line)
			}
			logCtx.Metrics.BytesIn += int64(len(line))

			if !logCtx.Metrics.IsFirstByteSent() {
				logCtx.Metrics.FirstByteSent()
			}

			n, err := client.Write(line)
			logCtx.Metrics.BytesOut += int64(n)
			if err != nil {
				return nil, fmt.Errorf("can not relay response to client: %w", err)
			}

			if cacheable {
				if len(capture)+len(line) > limit {
					cacheable = false
					capture = nil
				} else {
					capture = append(capture, line...)
				}
			}
		}

		switch {
		case readErr == nil, errors.Is(readErr, bufio.ErrBufferFull):
			continue
		case errors.Is(readErr, io.EOF):
			logCtx.Metrics.LastByteSent()
			if !cacheable || len(capture) == 0 {
				return nil, nil
			}
			return capture, nil
		default:
			return nil, fmt.Errorf("can not read response from origin: %w", readErr)
		}
	}
}

func (f *Forwarder) dialer() Dialer {
	if f.Dialer == nil {
		return &backend.Dialer{}
	}
	return f.Dialer
}

// statusCode returns the status code from the HTTP status line at the start
// of response, or 0 if it can not be determined.
func statusCode(response []byte) int {
	if i := bytes.IndexByte(response, '\n'); i >= 0 {
		response = response[:i]
	}

	fields := bytes.Fields(response)
	if len(fields) < 2 || !bytes.HasPrefix(fields[0], []byte("HTTP/")) {
		return 0
	}

	code, err := strconv.Atoi(string(fields[1]))
	if err != nil {
		return 0
	}

	return code
}
