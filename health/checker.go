package health

// Checker probes a running proxy.
type Checker interface {
	// Check probes the proxy once and reports the result. It never blocks
	// longer than the checker's own timeout.
	Check() Status
}
