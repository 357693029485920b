package frontend

// State indicates a connection's progress through its life-cycle.
type State int

const (
	// StateAccepted is the initial state of the connection.
	StateAccepted State = iota

	// StateParsingRequest means that the request is being read from the
	// client.
	StateParsingRequest

	// StateForwarding means that the request has been parsed and is being
	// served from the cache or the origin server.
	StateForwarding

	// StateClosed means that the transaction has finished and the connection
	// has been closed.
	StateClosed

	// StateRejected means that the request could not be parsed, the "bad
	// request" page has been sent and the connection has been closed.
	StateRejected
)

func (s State) String() string {
	switch s {
	case StateAccepted:
		return "accepted"
	case StateParsingRequest:
		return "parsing-request"
	case StateForwarding:
		return "forwarding"
	case StateClosed:
		return "closed"
	case StateRejected:
		return "rejected"
	default:
		return "unknown"
	}
}
