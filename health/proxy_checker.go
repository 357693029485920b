package health

import (
	"bufio"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/icecave/webproxy/statuspage"
	proxyproto "github.com/pires/go-proxyproto"
)

// probeHost is used when the checker's address has no host part.
const probeHost = "localhost"

// probeRequest uses a method the proxy does not support, so that a healthy
// proxy answers with the "bad request" page without contacting any origin.
const probeRequest = "HEAD /.webproxy/health-check HTTP/1.0\r\n\r\n"

// ProxyChecker is a checker that connects to the proxy and verifies that it
// answers requests.
type ProxyChecker struct {
	// Address is the "host:port" the proxy listens on. If the host is empty,
	// "localhost" is used.
	Address string

	// Timeout bounds the whole check. Zero means no timeout.
	Timeout time.Duration

	// ProxyProtocol sends a PROXY protocol LOCAL header before the probe, for
	// proxies that expect one on every connection.
	ProxyProtocol bool
}

// Check returns information about the health of the proxy.
func (checker *ProxyChecker) Check() Status {
	host, port, err := net.SplitHostPort(checker.Address)
	if err != nil {
		return Status{false, err.Error()}
	} else if host == "" {
		host = probeHost
	}

	conn, err := net.DialTimeout("tcp", net.JoinHostPort(host, port), checker.Timeout)
	if err != nil {
		return Status{false, err.Error()}
	}
	defer conn.Close()

	if checker.Timeout > 0 {
		if err := conn.SetDeadline(time.Now().Add(checker.Timeout)); err != nil {
			return Status{false, err.Error()}
		}
	}

	if checker.ProxyProtocol {
		header := proxyproto.Header{
			Command: proxyproto.LOCAL,
			Version: 2,
		}
		if _, err := header.WriteTo(conn); err != nil {
			return Status{false, err.Error()}
		}
	}

	if _, err := conn.Write([]byte(probeRequest)); err != nil {
		return Status{false, err.Error()}
	}

	line, err := bufio.NewReader(conn).ReadString('\n')
	if err != nil {
		return Status{false, err.Error()}
	}

	expected := fmt.Sprintf(
		"HTTP/1.0 %d %s",
		statuspage.BadRequest.StatusCode,
		statuspage.BadRequest.Reason,
	)
	if got := strings.TrimRight(line, "\r\n"); got != expected {
		return Status{false, fmt.Sprintf("Unexpected response: %q.", got)}
	}

	return Status{true, "The proxy is accepting connections."}
}
