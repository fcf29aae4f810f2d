package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics instruments the op stream. A nil *Metrics records nothing.
type Metrics struct {
	clients prometheus.Gauge
	events  *prometheus.CounterVec
	sent    prometheus.Counter
	dropped prometheus.Counter
}

// NewMetrics registers server metrics on reg under namespace.
func NewMetrics(reg prometheus.Registerer, namespace string) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		clients: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "server",
			Name:      "clients",
			Help:      "Number of connected op stream clients.",
		}),
		events: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "server",
			Name:      "events_total",
			Help:      "Client events by outcome.",
		}, []string{"result"}),
		sent: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "server",
			Name:      "messages_sent_total",
			Help:      "Messages queued to clients.",
		}),
		dropped: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "server",
			Name:      "clients_dropped_total",
			Help:      "Clients disconnected for falling behind.",
		}),
	}
}

func (m *Metrics) setClients(n int) {
	if m == nil {
		return
	}
	m.clients.Set(float64(n))
}

func (m *Metrics) event(result string) {
	if m == nil {
		return
	}
	m.events.WithLabelValues(result).Inc()
}

func (m *Metrics) messageSent() {
	if m == nil {
		return
	}
	m.sent.Inc()
}

func (m *Metrics) clientDropped() {
	if m == nil {
		return
	}
	m.dropped.Inc()
}
