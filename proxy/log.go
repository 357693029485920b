package proxy

import (
	"bytes"
	"fmt"
	"log"
	"strconv"
	"strings"

	humanize "github.com/dustin/go-humanize"
	"github.com/icecave/webproxy/backend"
	"github.com/icecave/webproxy/request"
)

// Event describes how a transaction was resolved.
type Event string

const (
	// EventHit means the response was served from the cache.
	EventHit Event = "HIT"

	// EventMiss means the response was relayed from the origin server.
	EventMiss Event = "MISS"

	// EventReject means the client's request could not be parsed.
	EventReject Event = "REJECT"

	// EventError means the transaction failed after the request was parsed.
	EventError Event = "ERROR"
)

// LogContext holds information about a proxied transaction used for logging.
type LogContext struct {
	Logger     *log.Logger
	Event      Event
	ClientAddr string
	StatusCode int
	Request    *request.Request
	Endpoint   *backend.Endpoint
	Metrics    Metrics

	buffer bytes.Buffer
}

// Log writes a log entry for the context to the logger.
//
// The log format consists of the following space separated fields:
//
// - event type
// - client address
// - origin address
// - request line
// - http status code
// - time to first byte
// - time to last byte
// - bytes inbound
// - bytes outbound
// - message (optional)
//
// All fields are always present, except for the message which is optional. If a
// field value is unknown or not applicable, a hyphen is used in place. If a
// field value contains spaces or other special characters it is rendered as a
// double-quoted Go string. This allows log output to be parsed programatically.
func (ctx *LogContext) Log(err error) {
	if ctx.Logger == nil {
		return
	}

	// event type
	ctx.write(string(ctx.Event))

	// client address
	ctx.write(ctx.ClientAddr)

	// origin
	if ctx.Endpoint != nil {
		ctx.write(ctx.Endpoint.String())
	} else if ctx.Request != nil {
		ctx.write(ctx.Request.Address())
	} else {
		ctx.write("")
	}

	// request line
	if ctx.Request == nil {
		ctx.write("")
	} else {
		ctx.write(strings.TrimSpace(ctx.Request.Line))
	}

	// status code
	if ctx.StatusCode == 0 {
		ctx.write("")
	} else {
		ctx.write("%d", ctx.StatusCode)
	}

	// time to first byte
	if ctx.Metrics.IsFirstByteSent() {
		ctx.write(
			"f/%sms",
			humanize.FormatFloat("#,###.##", ctx.Metrics.TimeToFirstByte),
		)
	} else {
		ctx.write("")
	}

	// time to last byte
	if ctx.Metrics.IsLastByteSent() {
		ctx.write(
			"l/%sms",
			humanize.FormatFloat("#,###.##", ctx.Metrics.TimeToLastByte),
		)

		// bytes in
		ctx.write(
			"i/%s",
			humanize.FormatFloat("#,###.", float64(ctx.Metrics.BytesIn)),
		)

		// bytes out
		ctx.write(
			"o/%s",
			humanize.FormatFloat("#,###.", float64(ctx.Metrics.BytesOut)),
		)
	} else {
		ctx.write("")
		ctx.write("")
		ctx.write("")
	}

	// optional message
	if err != nil {
		ctx.write(err.Error())
	}

	ctx.Logger.Println(ctx.buffer.String())
	ctx.buffer.Reset()
}

// write is a helper function that writes to a string to a buffer, quoting the
// string if it contains whitespace or special characters.
func (ctx *LogContext) write(str string, v ...interface{}) {
	if ctx.buffer.Len() != 0 {
		ctx.buffer.WriteRune(' ')
	}

	if len(v) != 0 {
		str = fmt.Sprintf(str, v...)
	}

	if str == "" {
		ctx.buffer.WriteRune('-')
		return
	}

	if strings.ContainsAny(str, " \a\b\f\n\r\t\v\"") {
		ctx.buffer.WriteString(strconv.Quote(str))
	} else {
		ctx.buffer.WriteString(str)
	}
}
