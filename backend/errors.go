package backend

import "fmt"

// DNSError indicates that the origin host name could not be resolved.
type DNSError struct {
	Host string
	Err  error
}

func (err *DNSError) Error() string {
	return fmt.Sprintf("can not resolve '%s': %s", err.Host, err.Err)
}

// Unwrap returns the underlying error.
func (err *DNSError) Unwrap() error {
	return err.Err
}

// SocketError indicates that no connection could be established to any of
// the origin server's addresses.
type SocketError struct {
	Address string
	Err     error
}

func (err *SocketError) Error() string {
	return fmt.Sprintf("can not connect to '%s': %s", err.Address, err.Err)
}

// Unwrap returns the underlying error.
func (err *SocketError) Unwrap() error {
	return err.Err
}
