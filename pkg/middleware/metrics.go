package middleware

import (
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/vango-dev/tablesync/internal/errors"
	"github.com/vango-dev/tablesync/pkg/table"
)

// MetricsConfig configures the Prometheus metrics middleware.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "tablesync").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for event duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus metrics middleware.
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

// defaultMetricsConfig returns the default metrics configuration.
func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "tablesync",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// metrics holds the Prometheus metrics of the table runtime.
type metrics struct {
	eventsTotal    *prometheus.CounterVec
	eventDuration  *prometheus.HistogramVec
	eventErrors    *prometheus.CounterVec
	patchesSent    prometheus.Counter
	historyUpdates *prometheus.CounterVec
	activeSessions prometheus.Gauge
	handshakes     *prometheus.CounterVec
	wsErrors       *prometheus.CounterVec

	gatherer prometheus.Gatherer
}

// globalMetrics is the singleton metrics instance.
// Created on first call to Prometheus().
var (
	globalMetrics   *metrics
	globalMetricsMu sync.Mutex
)

// initMetrics initializes the Prometheus metrics.
func initMetrics(config MetricsConfig) *metrics {
	factory := promauto.With(config.Registry)

	gatherer := prometheus.DefaultGatherer
	if g, ok := config.Registry.(prometheus.Gatherer); ok {
		gatherer = g
	}

	return &metrics{
		gatherer: gatherer,

		eventsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "events_total",
			Help:        "Total number of table events processed",
			ConstLabels: config.ConstLabels,
		}, []string{"table", "action", "status"}),

		eventDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "event_duration_seconds",
			Help:        "Event processing duration in seconds, fetch and render included",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"table", "action"}),

		eventErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "event_errors_total",
			Help:        "Total number of event processing errors",
			ConstLabels: config.ConstLabels,
		}, []string{"table", "action", "error_type"}),

		patchesSent: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "patches_sent_total",
			Help:        "Total number of patches sent to clients",
			ConstLabels: config.ConstLabels,
		}),

		historyUpdates: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "history_updates_total",
			Help:        "Total number of URL updates by history mode",
			ConstLabels: config.ConstLabels,
		}, []string{"mode"}),

		activeSessions: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "active_sessions",
			Help:        "Number of active WebSocket sessions",
			ConstLabels: config.ConstLabels,
		}),

		handshakes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "handshakes_total",
			Help:        "Total handshakes by status",
			ConstLabels: config.ConstLabels,
		}, []string{"status"}),

		wsErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "websocket_errors_total",
			Help:        "Total WebSocket errors by type",
			ConstLabels: config.ConstLabels,
		}, []string{"type"}),
	}
}

// Prometheus creates middleware that collects Prometheus metrics for table
// events. Events routed to table.ActionIgnored are not recorded.
//
// Metrics collected:
//   - tablesync_events_total: Counter of events by table, action and status
//   - tablesync_event_duration_seconds: Histogram of event processing duration
//   - tablesync_event_errors_total: Counter of event errors by error type
//   - tablesync_patches_sent_total: Counter of patches produced
//   - tablesync_history_updates_total: Counter of URL updates (RecordHistoryUpdate)
//   - tablesync_active_sessions: Gauge of active sessions (session hooks)
//   - tablesync_handshakes_total: Counter of handshakes by status
//   - tablesync_websocket_errors_total: Counter of WebSocket errors
//
// Example:
//
//	tbl, err := table.New(cfg, columns, fetcher, renderer, history,
//	    table.WithMiddleware(middleware.Prometheus(middleware.WithNamespace("myapp"))),
//	)
//
//	// Expose metrics endpoint
//	r.Handle("/metrics", promhttp.HandlerFor(middleware.Gatherer(), promhttp.HandlerOpts{}))
func Prometheus(opts ...MetricsOption) table.Middleware {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}

	// Initialize metrics once
	globalMetricsMu.Lock()
	if globalMetrics == nil {
		globalMetrics = initMetrics(config)
	}
	m := globalMetrics
	globalMetricsMu.Unlock()

	return table.MiddlewareFunc(func(ctx *table.Ctx, next func() error) error {
		action := ctx.Action()
		if action == table.ActionIgnored {
			return next()
		}
		tableID := ctx.TableID()

		start := time.Now()
		err := next()
		m.eventDuration.WithLabelValues(tableID, action).Observe(time.Since(start).Seconds())
		m.patchesSent.Add(float64(ctx.PatchCount()))

		status := "success"
		if err != nil {
			status = "error"
			m.eventErrors.WithLabelValues(tableID, action, categorizeError(err)).Inc()
		}
		m.eventsTotal.WithLabelValues(tableID, action, status).Inc()

		return err
	})
}

// categorizeError returns a category for the error type.
// This prevents high-cardinality labels from error messages.
func categorizeError(err error) string {
	switch errors.CodeOf(err) {
	case "E300":
		return "fetch"
	case "E301":
		return "render"
	}

	errStr := strings.ToLower(err.Error())
	switch {
	case strings.Contains(errStr, "timeout"), strings.Contains(errStr, "deadline exceeded"):
		return "timeout"
	case strings.Contains(errStr, "canceled"):
		return "canceled"
	case strings.Contains(errStr, "not found"):
		return "not_found"
	case strings.Contains(errStr, "validation"):
		return "validation"
	case strings.Contains(errStr, "websocket"):
		return "websocket"
	default:
		return "internal"
	}
}

// =============================================================================
// Metrics Recording Functions
// =============================================================================

// RecordPatches records patches sent outside of table event handling, such
// as history patches queued by a session.
func RecordPatches(count int) {
	if m := current(); m != nil {
		m.patchesSent.Add(float64(count))
	}
}

// RecordHistoryUpdate records one URL update with the given history mode.
func RecordHistoryUpdate(mode string) {
	if m := current(); m != nil {
		m.historyUpdates.WithLabelValues(mode).Inc()
	}
}

// RecordSessionCreate records a new session.
func RecordSessionCreate() {
	if m := current(); m != nil {
		m.activeSessions.Inc()
	}
}

// RecordSessionDestroy records a closed session.
func RecordSessionDestroy() {
	if m := current(); m != nil {
		m.activeSessions.Dec()
	}
}

// RecordHandshake records a handshake outcome such as "ok" or "unknown_table".
func RecordHandshake(status string) {
	if m := current(); m != nil {
		m.handshakes.WithLabelValues(status).Inc()
	}
}

// RecordWebSocketError records a WebSocket error.
func RecordWebSocketError(errorType string) {
	if m := current(); m != nil {
		m.wsErrors.WithLabelValues(errorType).Inc()
	}
}

// Gatherer returns the registry the metrics were registered with, or
// prometheus.DefaultGatherer when Prometheus has not been called or its
// registry cannot be gathered.
func Gatherer() prometheus.Gatherer {
	if m := current(); m != nil {
		return m.gatherer
	}
	return prometheus.DefaultGatherer
}

func current() *metrics {
	globalMetricsMu.Lock()
	defer globalMetricsMu.Unlock()
	return globalMetrics
}

// =============================================================================
// Metrics Collector
// =============================================================================

// Collector exposes the metrics for custom registrations and tests.
type Collector struct {
	eventsTotal    *prometheus.CounterVec
	eventDuration  *prometheus.HistogramVec
	eventErrors    *prometheus.CounterVec
	patchesSent    prometheus.Counter
	historyUpdates *prometheus.CounterVec
	activeSessions prometheus.Gauge
	handshakes     *prometheus.CounterVec
	wsErrors       *prometheus.CounterVec
}

// GetMetrics returns the global metrics collector.
// Returns nil if Prometheus middleware has not been initialized.
func GetMetrics() *Collector {
	m := current()
	if m == nil {
		return nil
	}
	return &Collector{
		eventsTotal:    m.eventsTotal,
		eventDuration:  m.eventDuration,
		eventErrors:    m.eventErrors,
		patchesSent:    m.patchesSent,
		historyUpdates: m.historyUpdates,
		activeSessions: m.activeSessions,
		handshakes:     m.handshakes,
		wsErrors:       m.wsErrors,
	}
}
