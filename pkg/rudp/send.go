package rudp

import "fmt"

// Send transmits buf reliably to the peer: it fragments buf into
// MAX_PAYLOAD-sized DATA PDUs numbered 0..N-1, sets FIN on the PDU
// carrying the last byte of buf (end-of-send, not end-of-connection), and
// for each PDU repeats {transmit, await_ack} until acked or a transport
// error occurs. There is no hard attempt cap on the data path: the loop
// terminates only on ack or fatal transport error (§4.3).
//
// Send returns only after every PDU of buf is acknowledged or a fatal
// error occurs: partial sends are impossible (§7).
func (e *Endpoint) Send(buf []byte) (int, error) {
	if err := e.requireConnected("send"); err != nil {
		return 0, err
	}

	if len(buf) == 0 {
		return 0, nil
	}

	total := 0
	seq := int32(0)
	for offset := 0; offset < len(buf); {
		end := offset + MaxPayload
		if end > len(buf) {
			end = len(buf)
		}
		chunk := buf[offset:end]
		isLast := end == len(buf)

		flags := FlagDATA
		if isLast {
			flags |= FlagFIN
		}
		pdu := &PDU{Flags: flags, Sequence: seq, Payload: chunk}

		if err := e.sendUntilAcked(pdu); err != nil {
			return total, err
		}

		total += len(chunk)
		offset = end
		seq++
	}

	return total, nil
}

// sendUntilAcked drives the per-PDU stop-and-wait loop: transmit, then
// await an ACK matching this PDU's sequence within one retry-timeout
// window, retransmitting on timeout without limit.
func (e *Endpoint) sendUntilAcked(pdu *PDU) error {
	wire := Encode(pdu)
	attempt := 0
	for {
		if err := e.port.send(wire); err != nil {
			return newTransportError("send", err)
		}
		e.Metrics.recordSent()
		if attempt == 0 {
			e.events.fire(Event{Type: EventPDUSent, Sequence: pdu.Sequence})
			e.opts.Logger.Debug("sent seq=%d flags=%s len=%d", pdu.Sequence, pdu.Flags, len(pdu.Payload))
		} else {
			e.Metrics.recordRetransmitted()
			e.events.fire(Event{Type: EventPDURetransmitted, Sequence: pdu.Sequence, Detail: fmt.Sprintf("attempt %d", attempt+1)})
			e.opts.Logger.Warn("retransmitting seq=%d (attempt %d)", pdu.Sequence, attempt+1)
		}
		attempt++

		_, err := e.awaitMatching(newRetryWindow(e.opts.RetryTimeout), func(p *PDU) bool {
			return p.Flags.Has(FlagACK) && p.Sequence == pdu.Sequence
		})
		if err == errTimeout {
			continue
		}
		if err != nil {
			return newTransportError("send", err)
		}

		e.Metrics.recordAckReceived()
		e.events.fire(Event{Type: EventAckReceived, Sequence: pdu.Sequence})
		return nil
	}
}
