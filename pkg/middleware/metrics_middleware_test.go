package middleware

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/vango-dev/tablesync/pkg/tabletest"
)

func resetGlobalMetricsForTest() {
	globalMetricsMu.Lock()
	globalMetrics = nil
	globalMetricsMu.Unlock()
}

func metricCounterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatalf("counter Write() error: %v", err)
	}
	if m.Counter == nil {
		t.Fatal("expected counter metric to have Counter field")
	}
	return m.GetCounter().GetValue()
}

func metricGaugeValue(t *testing.T, g prometheus.Gauge) float64 {
	t.Helper()
	var m dto.Metric
	if err := g.Write(&m); err != nil {
		t.Fatalf("gauge Write() error: %v", err)
	}
	if m.Gauge == nil {
		t.Fatal("expected gauge metric to have Gauge field")
	}
	return m.GetGauge().GetValue()
}

func metricHistogramCount(t *testing.T, o prometheus.Observer) uint64 {
	t.Helper()
	metric, ok := o.(prometheus.Metric)
	if !ok {
		t.Fatalf("observer %T does not implement prometheus.Metric", o)
	}
	var m dto.Metric
	if err := metric.Write(&m); err != nil {
		t.Fatalf("histogram Write() error: %v", err)
	}
	if m.Histogram == nil {
		t.Fatal("expected histogram metric to have Histogram field")
	}
	return m.GetHistogram().GetSampleCount()
}

func TestPrometheusMiddleware_RecordsSuccessAndError(t *testing.T) {
	t.Run("success increments success counter and duration", func(t *testing.T) {
		resetGlobalMetricsForTest()
		reg := prometheus.NewRegistry()

		tbl := newTestTable(t, nil, Prometheus(WithRegistry(reg)))
		patches, err := tbl.HandleEvent(context.Background(), tabletest.Click(nameHeader))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		c := GetMetrics()
		if c == nil {
			t.Fatal("expected GetMetrics to return collector after initialization")
		}
		if got := metricCounterValue(t, c.eventsTotal.WithLabelValues("people", "sort", "success")); got != 1 {
			t.Fatalf("events_total(success)=%v, want 1", got)
		}
		if got := metricCounterValue(t, c.eventsTotal.WithLabelValues("people", "sort", "error")); got != 0 {
			t.Fatalf("events_total(error)=%v, want 0", got)
		}
		if got := metricHistogramCount(t, c.eventDuration.WithLabelValues("people", "sort")); got == 0 {
			t.Fatal("expected event_duration_seconds histogram to have sample count > 0")
		}
		if got := metricCounterValue(t, c.patchesSent); got != float64(len(patches)) {
			t.Fatalf("patches_sent_total=%v, want %d", got, len(patches))
		}
	})

	t.Run("fetch error increments error counter and categorizes", func(t *testing.T) {
		resetGlobalMetricsForTest()
		reg := prometheus.NewRegistry()

		fetcher := tabletest.FailingFetcher{Err: errors.New("db down")}
		tbl := newTestTable(t, fetcher, Prometheus(WithRegistry(reg)))
		if _, err := tbl.HandleEvent(context.Background(), tabletest.Click(nameHeader)); err == nil {
			t.Fatal("expected error to propagate")
		}

		c := GetMetrics()
		if got := metricCounterValue(t, c.eventsTotal.WithLabelValues("people", "sort", "error")); got != 1 {
			t.Fatalf("events_total(error)=%v, want 1", got)
		}
		if got := metricCounterValue(t, c.eventErrors.WithLabelValues("people", "sort", "fetch")); got != 1 {
			t.Fatalf("event_errors_total(fetch)=%v, want 1", got)
		}
	})
}

func TestPrometheusMiddleware_SkipsIgnoredEvents(t *testing.T) {
	resetGlobalMetricsForTest()
	reg := prometheus.NewRegistry()

	tbl := newTestTable(t, nil, Prometheus(WithRegistry(reg)))
	if _, err := tbl.HandleEvent(context.Background(), tabletest.Click("elsewhere")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	c := GetMetrics()
	if got := metricCounterValue(t, c.eventsTotal.WithLabelValues("people", "ignored", "success")); got != 0 {
		t.Fatalf("events_total(ignored)=%v, want 0", got)
	}
}

func TestMetricsRecordFunctions_WithInitializedMetrics(t *testing.T) {
	resetGlobalMetricsForTest()
	reg := prometheus.NewRegistry()

	_ = Prometheus(WithRegistry(reg)) // initialize global metrics
	c := GetMetrics()
	if c == nil {
		t.Fatal("expected GetMetrics to return collector after initialization")
	}

	RecordPatches(5)
	RecordHistoryUpdate("push")
	RecordHistoryUpdate("push")
	RecordSessionCreate()
	RecordSessionCreate()
	RecordSessionDestroy()
	RecordHandshake("unknown_table")
	RecordWebSocketError("close")

	if got := metricCounterValue(t, c.patchesSent); got != 5 {
		t.Fatalf("patches_sent_total=%v, want 5", got)
	}
	if got := metricCounterValue(t, c.historyUpdates.WithLabelValues("push")); got != 2 {
		t.Fatalf("history_updates_total(push)=%v, want 2", got)
	}
	if got := metricGaugeValue(t, c.activeSessions); got != 1 {
		t.Fatalf("active_sessions=%v, want 1", got)
	}
	if got := metricCounterValue(t, c.handshakes.WithLabelValues("unknown_table")); got != 1 {
		t.Fatalf("handshakes_total(unknown_table)=%v, want 1", got)
	}
	if got := metricCounterValue(t, c.wsErrors.WithLabelValues("close")); got != 1 {
		t.Fatalf("websocket_errors_total(close)=%v, want 1", got)
	}
}

func TestGatherer(t *testing.T) {
	resetGlobalMetricsForTest()
	if Gatherer() != prometheus.DefaultGatherer {
		t.Fatal("Gatherer() before initialization should be the default gatherer")
	}

	reg := prometheus.NewRegistry()
	_ = Prometheus(WithRegistry(reg))
	if Gatherer() != reg {
		t.Fatal("Gatherer() should return the configured registry")
	}

	RecordHandshake("ok")
	families, err := Gatherer().Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}
	found := false
	for _, mf := range families {
		if mf.GetName() == "tablesync_handshakes_total" {
			found = true
		}
	}
	if !found {
		t.Fatal("tablesync_handshakes_total not gathered from the configured registry")
	}
}
