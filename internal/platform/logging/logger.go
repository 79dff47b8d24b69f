// Package logging is the structured logger used across the service. Records
// are JSON, arguments are key/value pairs, and the *Context variants attach
// the active trace and span ids.
package logging

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Level = zapcore.Level

const (
	LevelDebug = zapcore.DebugLevel
	LevelInfo  = zapcore.InfoLevel
	LevelWarn  = zapcore.WarnLevel
	LevelError = zapcore.ErrorLevel
)

// MirrorFunc receives every record that passes the level check, in addition
// to the zap core. It forwards logs to OpenTelemetry.
type MirrorFunc func(ctx context.Context, level Level, msg string, args ...any)

type Logger struct {
	core *zap.Logger
}

var (
	defaultLogger atomic.Pointer[Logger]
	mirror        atomic.Pointer[MirrorFunc]
)

func init() {
	defaultLogger.Store(NewNop())
}

var jsonEncoderConfig = zapcore.EncoderConfig{
	TimeKey:        "time",
	LevelKey:       "level",
	CallerKey:      "caller",
	MessageKey:     "msg",
	StacktraceKey:  "stacktrace",
	LineEnding:     zapcore.DefaultLineEnding,
	EncodeLevel:    zapcore.CapitalLevelEncoder,
	EncodeTime:     zapcore.RFC3339NanoTimeEncoder,
	EncodeDuration: zapcore.MillisDurationEncoder,
	EncodeCaller:   zapcore.ShortCallerEncoder,
}

// NewJSON writes JSON records at or above level to stdout.
func NewJSON(level Level) *Logger {
	return New(zapcore.Lock(os.Stdout), level)
}

// New writes JSON records at or above level to w. Error records carry a
// stack trace.
func New(w io.Writer, level Level) *Logger {
	core := zapcore.NewCore(zapcore.NewJSONEncoder(jsonEncoderConfig), zapcore.AddSync(w), level)
	return newLogger(zap.New(core, zap.AddCaller(), zap.AddCallerSkip(2), zap.AddStacktrace(zapcore.ErrorLevel)))
}

func NewNop() *Logger {
	return newLogger(zap.NewNop())
}

func newLogger(z *zap.Logger) *Logger {
	return &Logger{core: z}
}

// ParseLevel accepts debug, info, warn/warning and error.
func ParseLevel(raw string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "debug":
		return LevelDebug, nil
	case "", "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	default:
		return LevelInfo, fmt.Errorf("unsupported log level %q", raw)
	}
}

// SetMirror installs fn as the process-wide log mirror. nil disables it.
func SetMirror(fn MirrorFunc) {
	if fn == nil {
		mirror.Store(nil)
		return
	}
	mirror.Store(&fn)
}

func Default() *Logger {
	if logger := defaultLogger.Load(); logger != nil {
		return logger
	}
	return NewNop()
}

func SetDefault(logger *Logger) {
	if logger == nil {
		logger = NewNop()
	}
	defaultLogger.Store(logger)
}

func (l *Logger) Sync() error {
	if l == nil {
		return nil
	}
	// stdout returns EINVAL on sync under some terminals; ignore it there.
	if err := l.core.Sync(); err != nil && !strings.Contains(err.Error(), "invalid argument") {
		return err
	}
	return nil
}

// With returns a child logger that adds args to every record.
func (l *Logger) With(args ...any) *Logger {
	if l == nil {
		return NewNop()
	}
	return newLogger(l.core.With(fields(args)...))
}

func (l *Logger) Debug(msg string, args ...any) { l.write(nil, LevelDebug, msg, args) }
func (l *Logger) Info(msg string, args ...any)  { l.write(nil, LevelInfo, msg, args) }
func (l *Logger) Warn(msg string, args ...any)  { l.write(nil, LevelWarn, msg, args) }
func (l *Logger) Error(msg string, args ...any) { l.write(nil, LevelError, msg, args) }

func (l *Logger) DebugContext(ctx context.Context, msg string, args ...any) {
	l.write(ctx, LevelDebug, msg, args)
}

func (l *Logger) InfoContext(ctx context.Context, msg string, args ...any) {
	l.write(ctx, LevelInfo, msg, args)
}

func (l *Logger) WarnContext(ctx context.Context, msg string, args ...any) {
	l.write(ctx, LevelWarn, msg, args)
}

func (l *Logger) ErrorContext(ctx context.Context, msg string, args ...any) {
	l.write(ctx, LevelError, msg, args)
}

// write is always two frames below the caller, matching AddCallerSkip(2).
func (l *Logger) write(ctx context.Context, level Level, msg string, args []any) {
	if l == nil {
		l = Default()
	}
	ce := l.core.Check(level, msg)
	if ce == nil {
		return
	}
	ce.Write(append(fields(args), traceFields(ctx)...)...)

	if fn := mirror.Load(); fn != nil {
		if ctx == nil {
			ctx = context.Background()
		}
		(*fn)(ctx, level, msg, args...)
	}
}

func traceFields(ctx context.Context) []zap.Field {
	if ctx == nil {
		return nil
	}
	spanCtx := trace.SpanContextFromContext(ctx)
	if !spanCtx.IsValid() {
		return nil
	}
	return []zap.Field{
		zap.String("trace_id", spanCtx.TraceID().String()),
		zap.String("span_id", spanCtx.SpanID().String()),
	}
}

// fields pairs args into zap fields. A non-string key becomes "arg" and a
// dangling key gets a null value.
func fields(args []any) []zap.Field {
	if len(args) == 0 {
		return nil
	}

	out := make([]zap.Field, 0, (len(args)+1)/2)
	for i := 0; i < len(args); i += 2 {
		key, ok := args[i].(string)
		if !ok || key == "" {
			key = "arg"
		}
		if i+1 >= len(args) {
			out = append(out, zap.Any(key, nil))
			break
		}

		switch value := args[i+1].(type) {
		case error:
			out = append(out, zap.NamedError(key, value))
		case time.Duration:
			out = append(out, zap.Duration(key, value))
		default:
			out = append(out, zap.Any(key, value))
		}
	}
	return out
}
