package httpapi

import (
	"context"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var apiTracer = otel.Tracer("fantasy-cycling/internal/interfaces/httpapi")

// startHandlerSpan opens a child span of the otelhttp server span. Routes
// excluded from tracing carry no parent and get the no-op span from ctx.
func startHandlerSpan(r *http.Request, handler string) (context.Context, trace.Span) {
	ctx := r.Context()
	if !trace.SpanFromContext(ctx).SpanContext().IsValid() {
		return ctx, trace.SpanFromContext(ctx)
	}
	return apiTracer.Start(ctx, "httpapi.Handler."+handler, trace.WithAttributes(routeAttributes(r)...))
}

func routeAttributes(r *http.Request) []attribute.KeyValue {
	var attrs []attribute.KeyValue
	if key := r.PathValue("raceKey"); key != "" {
		attrs = append(attrs, attribute.String("race.key", key))
	}
	if name := r.PathValue("name"); name != "" {
		attrs = append(attrs, attribute.String("rider.name", name))
	}
	return attrs
}

func markSpanError(ctx context.Context, err error) {
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
