package rudp

import (
	"errors"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics is a prometheus.Collector exposing per-endpoint transport
// counters, built the way go-tcpinfo's pkg/exporter builds its
// TCPInfoCollector: an explicit Describe/Collect pair over internally
// tracked counters, registered by the caller on whatever registry they
// like. The engine never starts its own HTTP server or registers itself
// globally — ownership of the registry stays with the caller, matching the
// "no global tables" resource policy (§5).
type Metrics struct {
	sessionID string

	pdusSent          uint64
	pdusRetransmitted uint64
	pdusReceived      uint64
	pdusDropped       uint64
	checksumFailures  uint64
	acksReceived      uint64

	descSent          *prometheus.Desc
	descRetransmitted *prometheus.Desc
	descReceived      *prometheus.Desc
	descDropped       *prometheus.Desc
	descChecksumFail  *prometheus.Desc
	descAcksReceived  *prometheus.Desc
}

// newMetrics builds a Metrics collector labeled with the endpoint's session
// ID so that concurrent endpoints (parallel tests, multiple CLI runs)
// remain distinguishable once registered on a shared registry.
func newMetrics(sessionID string) *Metrics {
	constLabels := prometheus.Labels{"session": sessionID}
	return &Metrics{
		sessionID: sessionID,
		descSent: prometheus.NewDesc(
			"rudp_pdus_sent_total", "PDUs transmitted, including retransmissions.", nil, constLabels),
		descRetransmitted: prometheus.NewDesc(
			"rudp_pdus_retransmitted_total", "PDUs retransmitted after an ack timeout.", nil, constLabels),
		descReceived: prometheus.NewDesc(
			"rudp_pdus_received_total", "PDUs received and successfully decoded.", nil, constLabels),
		descDropped: prometheus.NewDesc(
			"rudp_pdus_dropped_total", "PDUs dropped: decode failure, out-of-order, or duplicate.", nil, constLabels),
		descChecksumFail: prometheus.NewDesc(
			"rudp_checksum_failures_total", "PDUs dropped specifically for checksum mismatch.", nil, constLabels),
		descAcksReceived: prometheus.NewDesc(
			"rudp_acks_received_total", "ACK PDUs received by the reliability engine.", nil, constLabels),
	}
}

func (m *Metrics) Describe(ch chan<- *prometheus.Desc) {
	ch <- m.descSent
	ch <- m.descRetransmitted
	ch <- m.descReceived
	ch <- m.descDropped
	ch <- m.descChecksumFail
	ch <- m.descAcksReceived
}

func (m *Metrics) Collect(ch chan<- prometheus.Metric) {
	ch <- prometheus.MustNewConstMetric(m.descSent, prometheus.CounterValue, float64(atomic.LoadUint64(&m.pdusSent)))
	ch <- prometheus.MustNewConstMetric(m.descRetransmitted, prometheus.CounterValue, float64(atomic.LoadUint64(&m.pdusRetransmitted)))
	ch <- prometheus.MustNewConstMetric(m.descReceived, prometheus.CounterValue, float64(atomic.LoadUint64(&m.pdusReceived)))
	ch <- prometheus.MustNewConstMetric(m.descDropped, prometheus.CounterValue, float64(atomic.LoadUint64(&m.pdusDropped)))
	ch <- prometheus.MustNewConstMetric(m.descChecksumFail, prometheus.CounterValue, float64(atomic.LoadUint64(&m.checksumFailures)))
	ch <- prometheus.MustNewConstMetric(m.descAcksReceived, prometheus.CounterValue, float64(atomic.LoadUint64(&m.acksReceived)))
}

// recordDecodeFailure accounts a dropped PDU, additionally breaking out
// checksum mismatches into their own counter when that's what Decode
// reported.
func (m *Metrics) recordDecodeFailure(err error) {
	m.recordDropped()
	if errors.Is(err, errChecksumMismatch) {
		m.recordChecksumFail()
	}
}

func (m *Metrics) recordSent()          { atomic.AddUint64(&m.pdusSent, 1) }
func (m *Metrics) recordRetransmitted() { atomic.AddUint64(&m.pdusRetransmitted, 1) }
func (m *Metrics) recordReceived()      { atomic.AddUint64(&m.pdusReceived, 1) }
func (m *Metrics) recordDropped()       { atomic.AddUint64(&m.pdusDropped, 1) }
func (m *Metrics) recordChecksumFail()  { atomic.AddUint64(&m.checksumFailures, 1) }
func (m *Metrics) recordAckReceived()   { atomic.AddUint64(&m.acksReceived, 1) }
