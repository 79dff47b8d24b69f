package observability

import (
	"errors"
	"testing"
	"time"

	otellog "go.opentelemetry.io/otel/log"
	"go.uber.org/zap/zapcore"
)

func TestSkipMirroredLog(t *testing.T) {
	if !skipMirroredLog("http request", []any{"http_path", "/healthz"}) {
		t.Fatalf("expected health check log to be skipped")
	}
	if !skipMirroredLog("http request", []any{"status", 200, "http_path", "/metrics"}) {
		t.Fatalf("expected metrics scrape log to be skipped")
	}
	if skipMirroredLog("http request", []any{"http_path", "/v1/races/TDF_FEMMES_2025/riders"}) {
		t.Fatalf("did not expect api request log to be skipped")
	}
	if skipMirroredLog("pipeline stage completed", []any{"http_path", "/healthz"}) {
		t.Fatalf("did not expect non-request event to be skipped")
	}
}

func TestLogAttributes(t *testing.T) {
	attrs := logAttributes([]any{"race_key", "TDF_FEMMES_2025", "matched", 42, 7, "orphan", "stage"})
	if len(attrs) != 4 {
		t.Fatalf("expected 4 attributes, got %d", len(attrs))
	}
	if attrs[0].Key != "race_key" || attrs[0].Value.AsString() != "TDF_FEMMES_2025" {
		t.Fatalf("unexpected race_key attribute")
	}
	if attrs[1].Key != "matched" || attrs[1].Value.AsInt64() != 42 {
		t.Fatalf("unexpected matched attribute")
	}
	if attrs[2].Key != "arg_2" || attrs[2].Value.AsString() != "orphan" {
		t.Fatalf("unexpected positional attribute: %s", attrs[2].Key)
	}
	if attrs[3].Key != "stage" || attrs[3].Value.Kind() != otellog.KindEmpty {
		t.Fatalf("unexpected trailing attribute")
	}
}

func TestLogValue(t *testing.T) {
	tests := []struct {
		name  string
		value any
		kind  otellog.Kind
	}{
		{name: "quality buckets", value: map[string]int{"high": 3, "low": 1}, kind: otellog.KindMap},
		{name: "warnings", value: []string{"a", "b"}, kind: otellog.KindSlice},
		{name: "duration in ms", value: 1500 * time.Millisecond, kind: otellog.KindFloat64},
		{name: "error", value: errors.New("boom"), kind: otellog.KindString},
		{name: "float", value: 0.75, kind: otellog.KindFloat64},
		{name: "nil", value: nil, kind: otellog.KindEmpty},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := logValue(tc.value, 0).Kind(); got != tc.kind {
				t.Fatalf("expected kind %s, got %s", tc.kind, got)
			}
		})
	}
}

func TestToOTelSeverity(t *testing.T) {
	if toOTelSeverity(zapcore.WarnLevel) != otellog.SeverityWarn {
		t.Fatalf("unexpected warn severity")
	}
	if toOTelSeverity(zapcore.ErrorLevel) != otellog.SeverityError {
		t.Fatalf("unexpected error severity")
	}
}
