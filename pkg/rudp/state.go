package rudp

// connState is the explicit tagged state of a connection, replacing the
// source's implicit `bool connected`. Illegal API calls in illegal states
// are rejected deterministically with ErrNotConnected instead of silently
// misbehaving.
type connState int

const (
	stateClosed connState = iota
	stateSynSent
	stateSynRcvd
	stateEstablished
	stateFinSent
	stateLinger
)

func (s connState) String() string {
	switch s {
	case stateClosed:
		return "CLOSED"
	case stateSynSent:
		return "SYN_SENT"
	case stateSynRcvd:
		return "SYN_RCVD"
	case stateEstablished:
		return "ESTABLISHED"
	case stateFinSent:
		return "FIN_SENT"
	case stateLinger:
		return "LINGER"
	default:
		return "UNKNOWN"
	}
}

// role identifies which side of the handshake this endpoint played.
type role int

const (
	roleUnassigned role = iota
	roleClient
	roleServer
)
