package observability

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/riskibarqy/fantasy-cycling/internal/platform/logging"
	otellog "go.opentelemetry.io/otel/log"
	otelglobal "go.opentelemetry.io/otel/log/global"
	"go.uber.org/zap/zapcore"
)

const (
	logMirrorScope   = "fantasy-cycling/internal/platform/logging"
	maxLogValueDepth = 3
)

// Request logs for these paths are noise in the log backend.
var unmirroredPaths = map[string]struct{}{
	"/healthz": {},
	"/metrics": {},
}

func newLogMirror(serviceVersion string) logging.MirrorFunc {
	otelLogger := otelglobal.Logger(logMirrorScope, otellog.WithInstrumentationVersion(serviceVersion))

	return func(ctx context.Context, level logging.Level, msg string, args ...any) {
		if skipMirroredLog(msg, args) {
			return
		}
		severity := toOTelSeverity(level)
		if !otelLogger.Enabled(ctx, otellog.EnabledParameters{Severity: severity, EventName: msg}) {
			return
		}

		now := time.Now().UTC()
		var record otellog.Record
		record.SetTimestamp(now)
		record.SetObservedTimestamp(now)
		record.SetSeverity(severity)
		record.SetSeverityText(strings.ToUpper(level.String()))
		record.SetEventName(msg)
		record.SetBody(otellog.StringValue(msg))
		if attrs := logAttributes(args); len(attrs) > 0 {
			record.AddAttributes(attrs...)
		}

		otelLogger.Emit(ctx, record)
	}
}

func skipMirroredLog(msg string, args []any) bool {
	if msg != "http request" {
		return false
	}
	for i := 0; i+1 < len(args); i += 2 {
		if key, ok := args[i].(string); ok && key == "http_path" {
			path, _ := args[i+1].(string)
			_, skip := unmirroredPaths[path]
			return skip
		}
	}
	return false
}

func logAttributes(args []any) []otellog.KeyValue {
	attrs := make([]otellog.KeyValue, 0, (len(args)+1)/2)
	for i := 0; i < len(args); i += 2 {
		key, ok := args[i].(string)
		if !ok || strings.TrimSpace(key) == "" {
			key = fmt.Sprintf("arg_%d", i/2)
		}
		if i+1 >= len(args) {
			attrs = append(attrs, otellog.Empty(key))
			continue
		}
		attrs = append(attrs, otellog.KeyValue{Key: key, Value: logValue(args[i+1], 0)})
	}
	return attrs
}

func toOTelSeverity(level zapcore.Level) otellog.Severity {
	switch {
	case level <= zapcore.DebugLevel:
		return otellog.SeverityDebug
	case level == zapcore.InfoLevel:
		return otellog.SeverityInfo
	case level == zapcore.WarnLevel:
		return otellog.SeverityWarn
	case level >= zapcore.DPanicLevel:
		return otellog.SeverityFatal
	default:
		return otellog.SeverityError
	}
}

func logValue(value any, depth int) otellog.Value {
	if value == nil {
		return otellog.Value{}
	}
	if depth >= maxLogValueDepth {
		return otellog.StringValue(fmt.Sprint(value))
	}

	switch v := value.(type) {
	case string:
		return otellog.StringValue(v)
	case bool:
		return otellog.BoolValue(v)
	case int:
		return otellog.IntValue(v)
	case int64:
		return otellog.Int64Value(v)
	case int32:
		return otellog.Int64Value(int64(v))
	case float64:
		return otellog.Float64Value(v)
	case float32:
		return otellog.Float64Value(float64(v))
	case time.Time:
		return otellog.StringValue(v.UTC().Format(time.RFC3339Nano))
	case time.Duration:
		return otellog.Float64Value(float64(v) / float64(time.Millisecond))
	case error:
		return otellog.StringValue(v.Error())
	case []string:
		items := make([]otellog.Value, 0, len(v))
		for _, item := range v {
			items = append(items, otellog.StringValue(item))
		}
		return otellog.SliceValue(items...)
	case map[string]int:
		keys := make([]string, 0, len(v))
		for key := range v {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		kvs := make([]otellog.KeyValue, 0, len(keys))
		for _, key := range keys {
			kvs = append(kvs, otellog.Int(key, v[key]))
		}
		return otellog.MapValue(kvs...)
	case map[string]any:
		keys := make([]string, 0, len(v))
		for key := range v {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		kvs := make([]otellog.KeyValue, 0, len(keys))
		for _, key := range keys {
			kvs = append(kvs, otellog.KeyValue{Key: key, Value: logValue(v[key], depth+1)})
		}
		return otellog.MapValue(kvs...)
	case fmt.Stringer:
		return otellog.StringValue(v.String())
	default:
		return otellog.StringValue(fmt.Sprint(value))
	}
}
