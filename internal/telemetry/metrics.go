package telemetry

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Inbound outcomes.
const (
	OutcomeApplied = "applied"
	OutcomeIgnored = "ignored"
	OutcomeInvalid = "invalid"
)

// Outbound outcomes.
const (
	OutcomeSent    = "sent"
	OutcomeDropped = "dropped"
	OutcomeFailed  = "failed"
)

// Metrics counts what the client ingests and emits. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	registry    *prometheus.Registry
	inbound     *prometheus.CounterVec
	outbound    *prometheus.CounterVec
	connections *prometheus.CounterVec
	anomalies   *prometheus.CounterVec
}

// NewMetrics registers the client counters on a private registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		inbound: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cribbage",
			Subsystem: "client",
			Name:      "inbound_messages_total",
			Help:      "Messages received from the authority by kind and outcome.",
		}, []string{"kind", "outcome"}),
		outbound: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cribbage",
			Subsystem: "client",
			Name:      "outbound_commands_total",
			Help:      "Commands emitted to the authority by kind and outcome.",
		}, []string{"kind", "outcome"}),
		connections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cribbage",
			Subsystem: "client",
			Name:      "connection_transitions_total",
			Help:      "Session connection state transitions.",
		}, []string{"state"}),
		anomalies: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cribbage",
			Subsystem: "client",
			Name:      "projection_anomalies_total",
			Help:      "Projections computed without the state they needed.",
		}, []string{"reason"}),
	}
	m.registry.MustRegister(m.inbound, m.outbound, m.connections, m.anomalies)
	return m
}

func (m *Metrics) ObserveInbound(kind, outcome string) {
	if m == nil {
		return
	}
	m.inbound.WithLabelValues(kind, outcome).Inc()
}

func (m *Metrics) ObserveOutbound(kind, outcome string) {
	if m == nil {
		return
	}
	m.outbound.WithLabelValues(kind, outcome).Inc()
}

func (m *Metrics) ObserveConnection(state string) {
	if m == nil {
		return
	}
	m.connections.WithLabelValues(state).Inc()
}

func (m *Metrics) ObserveAnomaly(reason string) {
	if m == nil {
		return
	}
	m.anomalies.WithLabelValues(reason).Inc()
}

// Inbound exposes the inbound counter, mainly for tests.
func (m *Metrics) Inbound() *prometheus.CounterVec {
	return m.inbound
}

// Outbound exposes the outbound counter, mainly for tests.
func (m *Metrics) Outbound() *prometheus.CounterVec {
	return m.outbound
}

// Anomalies exposes the projection anomaly counter, mainly for tests.
func (m *Metrics) Anomalies() *prometheus.CounterVec {
	return m.anomalies
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
