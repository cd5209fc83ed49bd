// Package rudp implements a reliable, ordered, message-oriented transport
// on top of an unreliable datagram service: PDU framing and checksums, the
// connection handshake/data/teardown state machine, a stop-and-wait
// reliability loop, and sequence-based duplicate suppression on receive.
//
// The engine is single-threaded cooperative per Endpoint: all progress
// happens on the caller's goroutine inside Connect/Accept/Send/Receive/
// Close, there is no internal worker goroutine, and concurrent Send or
// Receive calls on the same Endpoint are not supported. The one safe
// cross-goroutine interaction is calling Close while another goroutine is
// blocked in a call on the same Endpoint: the blocked call returns a
// TransportError.
package rudp

import (
	"fmt"
	"net"
	"time"

	"github.com/rs/xid"

	"rudp-go/internal/obslog"
)

// Default timing knobs, per §4.3/§5: a short (~1s) timeout drives the
// active reliability loops; idle waits for application-driven arrivals use
// a much longer one.
const (
	DefaultRetryTimeout = time.Second
	DefaultLingerWindow = time.Second
	DefaultIdleTimeout  = 30 * time.Second
	connectAttempts     = 3
)

// DeliveryStatus is the tagged result Receive returns, replacing the
// source's magic integer returns (1, 5, -5, 0, -1).
type DeliveryStatus int

const (
	// Continue indicates more PDUs of the current send remain to be
	// delivered.
	Continue DeliveryStatus = iota
	// Terminal indicates the just-delivered PDU was the last one of the
	// peer's send operation.
	Terminal
	// PeerClosedStatus indicates the peer's FIN has been fully processed;
	// no further payload will arrive on this endpoint.
	PeerClosedStatus
)

// Options configures an Endpoint's timing knobs and observability hooks.
// The zero value is valid and uses the package defaults.
type Options struct {
	RetryTimeout time.Duration
	LingerWindow time.Duration
	IdleTimeout  time.Duration
	Logger       *obslog.Logger
}

func (o Options) withDefaults() Options {
	if o.RetryTimeout <= 0 {
		o.RetryTimeout = DefaultRetryTimeout
	}
	if o.LingerWindow <= 0 {
		o.LingerWindow = DefaultLingerWindow
	}
	if o.IdleTimeout <= 0 {
		o.IdleTimeout = DefaultIdleTimeout
	}
	if o.Logger == nil {
		o.Logger = obslog.Noop()
	}
	return o
}

// Endpoint is one side of a reliable connection: the client initiator or
// the server acceptor. All mutable state lives on the value so multiple
// endpoints coexist freely and tests can run in parallel, replacing the
// source's process-global state block.
type Endpoint struct {
	opts Options

	port port

	state      connState
	role       role
	peerAddr   *net.UDPAddr
	sessionID  string

	nextExpectedSeq int32

	events  *eventManager
	Metrics *Metrics
}

// Open creates an endpoint with no address yet bound or connected.
func Open(opts Options) (*Endpoint, error) {
	opts = opts.withDefaults()
	id := xid.New().String()
	e := &Endpoint{
		opts:      opts,
		port:      newUDPPort(),
		state:     stateClosed,
		sessionID: id,
		events:    newEventManager(),
		Metrics:   newMetrics(id),
	}
	return e, nil
}

// SessionID returns the process-unique identifier minted for this
// endpoint, used as a structured-logging field and metrics label.
func (e *Endpoint) SessionID() string { return e.sessionID }

// On registers an observer for a lifecycle event type.
func (e *Endpoint) On(t EventType, h EventHandler) { e.events.on(t, h) }

func (e *Endpoint) requireConnected(op string) error {
	if e.state != stateEstablished {
		return fmt.Errorf("%s: %w (state %s)", op, ErrNotConnected, e.state)
	}
	return nil
}

// Close releases the endpoint's resources. If the endpoint is
// ESTABLISHED, it first runs the active side of teardown (§4.4): send
// FIN, await ack, retransmitting on timeout. Close is the only operation
// safe to call from a different goroutine than the one blocked in another
// call on the same Endpoint; that blocked call then returns a
// TransportError as soon as the port closes out from under it.
func (e *Endpoint) Close() error {
	var teardownErr error
	if e.state == stateEstablished {
		e.state = stateFinSent
		teardownErr = e.closeActive()
	}

	e.state = stateClosed
	if err := e.port.close(); err != nil {
		if teardownErr != nil {
			return teardownErr
		}
		return newTransportError("close", err)
	}
	return teardownErr
}
