package rudp

import (
	"net"
	"sync"
	"time"
)

// memPort is an in-memory port used by the scenario tests in §8 of
// SPEC_FULL.md: it connects two endpoints through buffered channels
// instead of real UDP sockets, with an optional drop filter, so loss and
// duplication can be injected deterministically instead of relying on
// flaky real-socket timing.
type memPort struct {
	in   chan []byte
	out  chan []byte
	peer net.Addr

	mu   sync.Mutex
	drop func(b []byte) bool
}

func newMemPortPair() (*memPort, *memPort) {
	ab := make(chan []byte, 256)
	ba := make(chan []byte, 256)
	a := &memPort{out: ab, in: ba, peer: &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 40001}}
	b := &memPort{out: ba, in: ab, peer: &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 40002}}
	return a, b
}

func (p *memPort) bind(addr string) error       { return nil }
func (p *memPort) connectPeer(addr string) error { return nil }
func (p *memPort) localAddr() net.Addr          { return p.peer }
func (p *memPort) close() error                 { return nil }

func (p *memPort) send(b []byte) error {
	p.mu.Lock()
	drop := p.drop
	p.mu.Unlock()

	if drop != nil && drop(b) {
		return nil
	}
	cp := make([]byte, len(b))
	copy(cp, b)
	p.out <- cp
	return nil
}

func (p *memPort) receive(maxBytes int, timeout time.Duration) ([]byte, net.Addr, error) {
	select {
	case b := <-p.in:
		return b, p.peer, nil
	case <-time.After(timeout):
		return nil, nil, errTimeout
	}
}

// setDrop installs a predicate invoked on every outgoing datagram; it
// returns true to silently swallow that datagram instead of delivering
// it, simulating loss on the wire.
func (p *memPort) setDrop(f func([]byte) bool) {
	p.mu.Lock()
	p.drop = f
	p.mu.Unlock()
}

// newTestPair builds two ESTABLISHED endpoints wired together by a
// memPort pair, bypassing the handshake so scenario tests can focus on
// the data and teardown phases. Handshake itself is covered separately by
// TestHandshakeEstablishesConnection.
func newTestPair(opts Options) (*Endpoint, *Endpoint) {
	pa, pb := newMemPortPair()
	opts = opts.withDefaults()

	client := &Endpoint{
		opts: opts, port: pa, state: stateEstablished, role: roleClient,
		sessionID: "test-client", events: newEventManager(), Metrics: newMetrics("test-client"),
	}
	server := &Endpoint{
		opts: opts, port: pb, state: stateEstablished, role: roleServer,
		sessionID: "test-server", events: newEventManager(), Metrics: newMetrics("test-server"),
	}
	return client, server
}
