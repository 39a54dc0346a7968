package middleware

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/tablesync/pkg/table"
)

// Default tracer name for tablesync servers.
const defaultTracerName = "tablesync"

// OTelConfig configures the OpenTelemetry middleware.
type OTelConfig struct {
	// TracerName is the name of the tracer (default: "tablesync").
	TracerName string

	// IncludeQuery records the resulting sort and global search term on the
	// span. Search terms may contain sensitive input; disabled by default.
	IncludeQuery bool

	// Filter determines which events to trace.
	// Return true to trace the event, false to skip.
	// If nil, every event except ignored ones is traced.
	Filter func(ctx *table.Ctx) bool

	// AttributeExtractor extracts custom attributes from the context.
	// Called for each traced event.
	AttributeExtractor func(ctx *table.Ctx) []attribute.KeyValue

	// tracer is the resolved tracer instance.
	tracer trace.Tracer
}

// OTelOption configures the OpenTelemetry middleware.
type OTelOption func(*OTelConfig)

// WithTracerName sets the tracer name.
func WithTracerName(name string) OTelOption {
	return func(c *OTelConfig) {
		c.TracerName = name
	}
}

// WithIncludeQuery enables recording the sort and search term on spans.
func WithIncludeQuery(include bool) OTelOption {
	return func(c *OTelConfig) {
		c.IncludeQuery = include
	}
}

// WithEventFilter sets a filter function for events.
func WithEventFilter(filter func(ctx *table.Ctx) bool) OTelOption {
	return func(c *OTelConfig) {
		c.Filter = filter
	}
}

// WithAttributeExtractor sets a custom attribute extractor.
func WithAttributeExtractor(extractor func(ctx *table.Ctx) []attribute.KeyValue) OTelOption {
	return func(c *OTelConfig) {
		c.AttributeExtractor = extractor
	}
}

// defaultOTelConfig returns the default OpenTelemetry configuration.
func defaultOTelConfig() OTelConfig {
	return OTelConfig{
		TracerName: defaultTracerName,
		Filter: func(ctx *table.Ctx) bool {
			return ctx.Action() != table.ActionIgnored
		},
	}
}

// OpenTelemetry creates middleware that traces every table event.
//
// The middleware:
//   - Creates a span per event named after the routed action
//   - Injects the span context into ctx.StdContext() so the Fetcher and
//     Renderer inherit the trace
//   - Records errors and sets span status
//   - Records patch count as a span attribute
//
// Example:
//
//	tbl, err := table.New(cfg, columns, fetcher, renderer, history,
//	    table.WithMiddleware(middleware.OpenTelemetry(middleware.WithTracerName("people"))),
//	)
//
// The tracer uses the global OpenTelemetry tracer provider. Configure it
// in your main() before starting the server:
//
//	tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter))
//	otel.SetTracerProvider(tp)
func OpenTelemetry(opts ...OTelOption) table.Middleware {
	config := defaultOTelConfig()
	for _, opt := range opts {
		opt(&config)
	}

	// Resolve tracer from global provider
	config.tracer = otel.Tracer(config.TracerName)

	return table.MiddlewareFunc(func(ctx *table.Ctx, next func() error) error {
		if config.Filter != nil && !config.Filter(ctx) {
			return next()
		}

		attrs := []attribute.KeyValue{
			attribute.String("tablesync.table", ctx.TableID()),
			attribute.String("tablesync.action", ctx.Action()),
		}
		if id := ctx.SessionID(); id != "" {
			attrs = append(attrs, attribute.String("tablesync.session_id", id))
		}
		if event := ctx.Event(); event != nil {
			attrs = append(attrs,
				attribute.String("tablesync.event_type", event.Type.String()),
				attribute.String("tablesync.event_target", event.HID),
			)
		}
		if config.AttributeExtractor != nil {
			attrs = append(attrs, config.AttributeExtractor(ctx)...)
		}

		spanCtx, span := config.tracer.Start(
			ctx.StdContext(),
			formatSpanName(ctx),
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(attrs...),
			trace.WithTimestamp(time.Now()),
		)
		defer span.End()

		ctx.SetValue(spanContextKey{}, spanCtx)
		ctx.SetStdContext(spanCtx)

		err := next()

		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetStatus(codes.Ok, "")
		}

		span.SetAttributes(attribute.Int("tablesync.patch_count", ctx.PatchCount()))
		if config.IncludeQuery {
			q := ctx.Query()
			span.SetAttributes(
				attribute.String("tablesync.sort", q.Sort.String()),
				attribute.String("tablesync.global", q.Global),
				attribute.Bool("tablesync.match_all", q.MatchAll),
			)
		}

		return err
	})
}

// spanContextKey is the key for storing the span context in Ctx values.
type spanContextKey struct{}

// SpanFromContext retrieves the current trace span from the context.
// Returns nil if no span is available.
func SpanFromContext(ctx *table.Ctx) trace.Span {
	if spanCtx, ok := ctx.Value(spanContextKey{}).(context.Context); ok {
		return trace.SpanFromContext(spanCtx)
	}
	return nil
}

// formatSpanName creates a span name from the context.
func formatSpanName(ctx *table.Ctx) string {
	return "tablesync." + ctx.Action()
}

// TraceContext returns the trace context from the Ctx for propagation.
// Use this to propagate trace context to external services.
func TraceContext(ctx *table.Ctx) context.Context {
	if spanCtx, ok := ctx.Value(spanContextKey{}).(context.Context); ok {
		return spanCtx
	}
	return ctx.StdContext()
}
