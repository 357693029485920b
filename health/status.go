package health

import "fmt"

// Status is the outcome of probing the proxy.
type Status struct {
	// IsHealthy is true if the proxy answered the probe as expected.
	IsHealthy bool

	// Message describes the outcome, or the failure that was observed.
	Message string
}

// String renders the status as a single line suitable for the healthcheck
// binary's output.
func (status Status) String() string {
	outcome := "failed"
	if status.IsHealthy {
		outcome = "passed"
	}

	return fmt.Sprintf("Health-check %s: %s", outcome, status.Message)
}
