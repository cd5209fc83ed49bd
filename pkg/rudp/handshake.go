package rudp

import (
	"fmt"
	"net"
)

// Connect performs the client side of the handshake: CLOSED -> SYN_SENT ->
// ESTABLISHED. It sends a SYN-only PDU and awaits a SYN+ACK within one
// retry-timeout window, making up to three attempts before giving up. The
// terminal client->server ACK of a textbook three-way handshake is
// deliberately not sent (resolved Open Question, SPEC_FULL.md §3): the
// server treats delivery of its SYN+ACK as implicit confirmation.
func (e *Endpoint) Connect(addr string) error {
	if e.state != stateClosed {
		return fmt.Errorf("connect: %w (state %s)", ErrNotConnected, e.state)
	}
	if err := e.port.connectPeer(addr); err != nil {
		return newTransportError("connect", err)
	}

	e.role = roleClient
	e.state = stateSynSent
	e.nextExpectedSeq = 0

	syn := &PDU{Flags: FlagSYN, Sequence: 0}
	wire := Encode(syn)

	for attempt := 1; attempt <= connectAttempts; attempt++ {
		if err := e.port.send(wire); err != nil {
			e.state = stateClosed
			return newTransportError("connect", err)
		}
		e.Metrics.recordSent()

		reply, err := e.awaitMatching(newRetryWindow(e.opts.RetryTimeout), func(p *PDU) bool {
			return p.Flags.Has(FlagSYN) && p.Flags.Has(FlagACK)
		})
		if err == errTimeout {
			e.events.fire(Event{Type: EventHandshakeRetry, Detail: fmt.Sprintf("attempt %d", attempt)})
			continue
		}
		if err != nil {
			e.state = stateClosed
			return newTransportError("connect", err)
		}
		_ = reply
		e.state = stateEstablished
		e.events.fire(Event{Type: EventHandshakeComplete})
		return nil
	}

	e.state = stateClosed
	return fmt.Errorf("connect: %w after %d attempts", ErrHandshakeFailed, connectAttempts)
}

// Accept performs the server side of the handshake: bind to localAddr,
// wait for a SYN from any peer, lock to that peer's address, reply
// SYN+ACK, and transition to ESTABLISHED.
func (e *Endpoint) Accept(localAddr string) error {
	if e.state != stateClosed {
		return fmt.Errorf("accept: %w (state %s)", ErrNotConnected, e.state)
	}
	if err := e.port.bind(localAddr); err != nil {
		return newTransportError("accept", err)
	}

	e.role = roleServer
	e.nextExpectedSeq = 0

	for {
		data, from, err := e.port.receive(recvMaxBytes, e.opts.IdleTimeout)
		if err == errTimeout {
			continue
		}
		if err != nil {
			return newTransportError("accept", err)
		}

		pdu, err := Decode(data)
		if err != nil {
			continue // decode failure: silent drop
		}
		if !pdu.Flags.Has(FlagSYN) || pdu.Flags.Has(FlagACK) {
			continue // not a bare SYN: ignore until one arrives
		}

		udpAddr, ok := from.(*net.UDPAddr)
		if !ok {
			continue
		}
		if lp, ok := e.port.(*udpPort); ok {
			lp.lockPeer(udpAddr)
		}
		e.peerAddr = udpAddr

		synAck := &PDU{Flags: FlagSYN | FlagACK, Sequence: 0}
		if err := e.port.send(Encode(synAck)); err != nil {
			return newTransportError("accept", err)
		}
		e.Metrics.recordSent()

		e.state = stateEstablished
		e.events.fire(Event{Type: EventHandshakeComplete})
		return nil
	}
}

// awaitMatching reads PDUs until one satisfies match, the deadline
// elapses (errTimeout), or a transport error occurs. Non-matching PDUs are
// discarded: they represent retransmitted acks for already-acknowledged
// PDUs or spurious duplicates, per §4.3.
func (e *Endpoint) awaitMatching(timeout RetryWindow, match func(*PDU) bool) (*PDU, error) {
	deadline := timeout
	for {
		data, _, err := e.port.receive(recvMaxBytes, deadline.remaining())
		if err == errTimeout {
			return nil, errTimeout
		}
		if err != nil {
			return nil, err
		}

		pdu, err := Decode(data)
		if err != nil {
			e.Metrics.recordDecodeFailure(err)
			if deadline.expired() {
				return nil, errTimeout
			}
			continue
		}
		e.Metrics.recordReceived()

		if match(pdu) {
			return pdu, nil
		}
		if deadline.expired() {
			return nil, errTimeout
		}
	}
}
