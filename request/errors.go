package request

import (
	"errors"
	"fmt"
)

// ErrTruncatedRequest indicates that the client stream ended before the empty
// line that terminates the request headers.
var ErrTruncatedRequest = errors.New("request ended before the header terminator")

// UnsupportedMethodError indicates that the client used a method other than
// GET.
type UnsupportedMethodError struct {
	Method string
}

func (err *UnsupportedMethodError) Error() string {
	return fmt.Sprintf("%s is not supported", err.Method)
}

// MalformedRequestError indicates that the request line or a header could not
// be parsed.
type MalformedRequestError struct {
	Reason string
}

func (err *MalformedRequestError) Error() string {
	return "malformed request: " + err.Reason
}

func malformed(format string, v ...interface{}) error {
	return &MalformedRequestError{Reason: fmt.Sprintf(format, v...)}
}
