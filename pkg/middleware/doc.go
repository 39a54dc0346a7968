// Package middleware provides observability middleware for tables.
//
// This package includes:
//   - OpenTelemetry tracing middleware
//   - Prometheus metrics middleware and session recording functions
//
// # OpenTelemetry Middleware
//
// The OpenTelemetry middleware opens a span per table event, named after the
// routed action (tablesync.sort, tablesync.search.submit, ...). The span
// context replaces ctx.StdContext(), so the Fetcher and Renderer inherit
// the trace:
//
//	table.WithMiddleware(middleware.OpenTelemetry(
//	    middleware.WithTracerName("people"),
//	    middleware.WithIncludeQuery(true),
//	))
//
// # Prometheus Metrics
//
// The Prometheus middleware collects per table and action:
//   - tablesync_events_total: Total events processed by status
//   - tablesync_event_duration_seconds: Event processing duration histogram
//   - tablesync_event_errors_total: Errors by category (fetch, render, timeout, ...)
//   - tablesync_patches_sent_total: Total patches sent to clients
//
// Session-level metrics are recorded by the server through RecordSessionCreate,
// RecordHandshake and friends. Expose them with promhttp:
//
//	r.Handle("/metrics", promhttp.HandlerFor(middleware.Gatherer(), promhttp.HandlerOpts{}))
package middleware
