package rudp

// closeActive runs the sender side of teardown (§4.4): transmit a
// FIN-only PDU at the reserved sequence, retransmitting on timeout until
// an ACK at that sequence arrives. It reuses the same stop-and-wait
// primitive as the data path (sendUntilAcked) since the retry/await shape
// is identical; only the PDU differs.
func (e *Endpoint) closeActive() error {
	fin := &PDU{Flags: FlagFIN, Sequence: TeardownSequence}
	if err := e.sendUntilAcked(fin); err != nil {
		return err
	}
	e.events.fire(Event{Type: EventTeardownComplete})
	return nil
}

// lingerOnTeardown runs the receiver side of teardown after observing a
// FIN-only PDU: ack it, then for a linger window absorb and re-ack any
// retransmitted FINs (defending the peer against a lost first ack). Each
// fresh FIN extends the window; silence for a full window ends it.
func (e *Endpoint) lingerOnTeardown() error {
	finAck := &PDU{Flags: FlagACK | FlagFIN, Sequence: TeardownSequence}
	if err := e.port.send(Encode(finAck)); err != nil {
		return newTransportError("teardown", err)
	}
	e.Metrics.recordSent()
	e.state = stateLinger

	window := newRetryWindow(e.opts.LingerWindow)
	for {
		data, _, err := e.port.receive(recvMaxBytes, window.remaining())
		if err == errTimeout {
			break
		}
		if err != nil {
			return newTransportError("teardown", err)
		}

		pdu, err := Decode(data)
		if err != nil {
			e.Metrics.recordDecodeFailure(err)
			if window.expired() {
				break
			}
			continue
		}
		e.Metrics.recordReceived()

		if pdu.Flags.Has(FlagFIN) && !pdu.Flags.Has(FlagDATA) {
			if err := e.port.send(Encode(finAck)); err != nil {
				return newTransportError("teardown", err)
			}
			e.Metrics.recordSent()
			window = newRetryWindow(e.opts.LingerWindow)
			continue
		}
		// Anything else during linger is irrelevant post-close traffic.
		e.Metrics.recordDropped()
		e.events.fire(Event{Type: EventPDUDropped, Sequence: pdu.Sequence, Detail: "post-close traffic during linger"})
		if window.expired() {
			break
		}
	}

	e.state = stateClosed
	return nil
}
