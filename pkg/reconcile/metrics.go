package reconcile

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsConfig configures engine metrics.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "retain").
	Namespace string

	// Subsystem is the metrics subsystem (default: "reconcile").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for render duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures engine metrics.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "retain",
		Subsystem: "reconcile",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics records engine activity. A nil *Metrics records nothing.
type Metrics struct {
	ops            *prometheus.CounterVec
	renderDuration prometheus.Histogram
	renderErrors   prometheus.Counter
	discarded      prometheus.Counter
	tasks          *prometheus.CounterVec
	bindings       prometheus.Gauge
}

// NewMetrics registers the engine metrics.
func NewMetrics(opts ...MetricsOption) *Metrics {
	cfg := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	factory := promauto.With(cfg.Registry)

	return &Metrics{
		ops: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "ops_total",
			Help:        "Tree positions reconciled, by decision.",
			ConstLabels: cfg.ConstLabels,
		}, []string{"op"}),
		renderDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "render_duration_seconds",
			Help:        "Duration of render passes.",
			ConstLabels: cfg.ConstLabels,
			Buckets:     cfg.Buckets,
		}),
		renderErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "render_errors_total",
			Help:        "Render passes aborted by an error.",
			ConstLabels: cfg.ConstLabels,
		}),
		discarded: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "discarded_nodes_total",
			Help:        "Nodes torn down after leaving the tree.",
			ConstLabels: cfg.ConstLabels,
		}),
		tasks: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "tasks_total",
			Help:        "Deferred tasks drained, by status.",
			ConstLabels: cfg.ConstLabels,
		}, []string{"status"}),
		bindings: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "listener_bindings",
			Help:        "Handles with live listener bindings.",
			ConstLabels: cfg.ConstLabels,
		}),
	}
}

func (m *Metrics) observeOp(op Op) {
	if m == nil {
		return
	}
	m.ops.WithLabelValues(op.String()).Inc()
}

func (m *Metrics) observeRender(d time.Duration, err error) {
	if m == nil {
		return
	}
	m.renderDuration.Observe(d.Seconds())
	if err != nil {
		m.renderErrors.Inc()
	}
}

func (m *Metrics) observeDiscard(n int) {
	if m == nil {
		return
	}
	m.discarded.Add(float64(n))
}

func (m *Metrics) observeDrain(s DrainStats) {
	if m == nil {
		return
	}
	m.tasks.WithLabelValues("ran").Add(float64(s.Ran))
	m.tasks.WithLabelValues("skipped").Add(float64(s.Skipped))
	m.tasks.WithLabelValues("failed").Add(float64(s.Failed))
}

func (m *Metrics) bindingsInc() {
	if m != nil {
		m.bindings.Inc()
	}
}

func (m *Metrics) bindingsDec() {
	if m != nil {
		m.bindings.Dec()
	}
}
