package rudp

// Receive returns exactly one PDU's worth of payload per call. The caller
// reassembles the stream by concatenating successive returned buffers
// until a Terminal status is observed (or stops immediately on
// PeerClosedStatus, which carries no payload).
//
// Out-of-order/duplicate DATA PDUs and non-matching control PDUs are
// dropped silently (after acking, where applicable) and never surface to
// the caller: Receive keeps listening until it has something new to
// deliver, the peer's FIN completes teardown, or a transport error occurs.
func (e *Endpoint) Receive() ([]byte, DeliveryStatus, error) {
	if err := e.requireConnected("receive"); err != nil {
		return nil, Continue, err
	}

	for {
		data, _, err := e.port.receive(recvMaxBytes, e.opts.IdleTimeout)
		if err == errTimeout {
			continue
		}
		if err != nil {
			return nil, Continue, newTransportError("receive", err)
		}

		pdu, err := Decode(data)
		if err != nil {
			e.Metrics.recordDecodeFailure(err)
			continue
		}
		e.Metrics.recordReceived()

		if pdu.Flags.Has(FlagFIN) && !pdu.Flags.Has(FlagDATA) {
			e.events.fire(Event{Type: EventTeardownStarted})
			if err := e.lingerOnTeardown(); err != nil {
				return nil, Continue, err
			}
			e.events.fire(Event{Type: EventPeerClosed})
			return nil, PeerClosedStatus, nil
		}

		if !pdu.Flags.Has(FlagDATA) {
			// Handshake/control PDU arriving mid data-phase: not this
			// pipeline's concern, drop.
			e.Metrics.recordDropped()
			e.events.fire(Event{Type: EventPDUDropped, Sequence: pdu.Sequence, Detail: "control PDU during data phase"})
			continue
		}

		// Ack unconditionally once checksum verifies: ack-even-on-
		// duplicate is what lets the sender's retransmission loop
		// converge (§4.5 step 3).
		if err := e.sendAck(pdu); err != nil {
			return nil, Continue, err
		}

		if pdu.Sequence != e.nextExpectedSeq {
			// Duplicate of an earlier delivered PDU: the only case the
			// stop-and-wait sender can produce. Drop after acking and
			// keep listening for the next new PDU.
			e.Metrics.recordDropped()
			e.events.fire(Event{Type: EventPDUDropped, Sequence: pdu.Sequence, Detail: "duplicate"})
			e.opts.Logger.Debug("dropping duplicate seq=%d, expected=%d", pdu.Sequence, e.nextExpectedSeq)
			continue
		}

		payload := pdu.Payload
		if pdu.Flags.Has(FlagFIN) {
			e.nextExpectedSeq = 0
			return payload, Terminal, nil
		}
		e.nextExpectedSeq++
		return payload, Continue, nil
	}
}

func (e *Endpoint) sendAck(pdu *PDU) error {
	ack := ackFor(pdu)
	if err := e.port.send(Encode(ack)); err != nil {
		return newTransportError("receive", err)
	}
	e.Metrics.recordSent()
	return nil
}
