// Package metrics provides Prometheus instrumentation for the signal
// client: connection state, send/queue traffic, reconnect attempts, and
// dispatch failures. All record methods are nil-safe so the client
// works without metrics wired.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the client's Prometheus collectors.
type Metrics struct {
	connState        prometheus.Gauge
	queueDepth       prometheus.Gauge
	sentTotal        prometheus.Counter
	queuedTotal      prometheus.Counter
	droppedTotal     prometheus.Counter
	reconnectsTotal  prometheus.Counter
	parseErrorsTotal prometheus.Counter
	unknownTotal     prometheus.Counter
	panicsTotal      prometheus.Counter
}

// New registers the client collectors with reg. A nil reg uses the
// default registerer.
func New(namespace string, reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		connState: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "connection_state",
			Help:      "Connection state (0=disconnected, 1=connecting, 2=connected, 3=closing).",
		}),
		queueDepth: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "outbound_queue_depth",
			Help:      "Envelopes buffered while disconnected.",
		}),
		sentTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "envelopes_sent_total",
			Help:      "Envelopes handed to the transport.",
		}),
		queuedTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "envelopes_queued_total",
			Help:      "Envelopes buffered for later delivery.",
		}),
		droppedTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "envelopes_dropped_total",
			Help:      "Envelopes dropped by the queue overflow policy.",
		}),
		reconnectsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reconnect_attempts_total",
			Help:      "Scheduled reconnection attempts.",
		}),
		parseErrorsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "parse_errors_total",
			Help:      "Inbound frames that failed to parse.",
		}),
		unknownTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "unknown_kinds_total",
			Help:      "Inbound envelopes with no registered route.",
		}),
		panicsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "callback_panics_total",
			Help:      "Subscriber callbacks that panicked.",
		}),
	}
}

// SetState records the connection state as its numeric value.
func (m *Metrics) SetState(state int) {
	if m == nil {
		return
	}
	m.connState.Set(float64(state))
}

// SetQueueDepth records the outbound queue length.
func (m *Metrics) SetQueueDepth(n int) {
	if m == nil {
		return
	}
	m.queueDepth.Set(float64(n))
}

// IncSent counts one envelope handed to the transport.
func (m *Metrics) IncSent() {
	if m == nil {
		return
	}
	m.sentTotal.Inc()
}

// IncQueued counts one envelope buffered for later delivery.
func (m *Metrics) IncQueued() {
	if m == nil {
		return
	}
	m.queuedTotal.Inc()
}

// IncDropped counts one envelope dropped by the overflow policy.
func (m *Metrics) IncDropped() {
	if m == nil {
		return
	}
	m.droppedTotal.Inc()
}

// IncReconnect counts one scheduled reconnection attempt.
func (m *Metrics) IncReconnect() {
	if m == nil {
		return
	}
	m.reconnectsTotal.Inc()
}

// IncParseError counts one unparseable inbound frame.
func (m *Metrics) IncParseError() {
	if m == nil {
		return
	}
	m.parseErrorsTotal.Inc()
}

// IncUnknownKind counts one inbound envelope with no registered route.
func (m *Metrics) IncUnknownKind() {
	if m == nil {
		return
	}
	m.unknownTotal.Inc()
}

// IncCallbackPanic counts one subscriber callback panic.
func (m *Metrics) IncCallbackPanic() {
	if m == nil {
		return
	}
	m.panicsTotal.Inc()
}
