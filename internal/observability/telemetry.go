package observability

import (
	"context"
	"errors"
	"net/http"
	"net/http/pprof"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/grafana/pyroscope-go"
	"github.com/uptrace/uptrace-go/uptrace"

	"github.com/riskibarqy/fantasy-cycling/internal/config"
	"github.com/riskibarqy/fantasy-cycling/internal/platform/logging"
)

const pprofReadHeaderTimeout = 5 * time.Second

type stopFunc struct {
	name string
	fn   func(context.Context) error
}

// Telemetry owns the optional tracing, profiling and pprof backends enabled
// by Config. Backends are stopped in reverse start order.
type Telemetry struct {
	logger *logging.Logger
	stops  []stopFunc
}

// Start brings up every enabled backend. When one fails to start, the ones
// already running are stopped before the error is returned.
func Start(ctx context.Context, cfg config.Config, logger *logging.Logger) (*Telemetry, error) {
	if logger == nil {
		logger = logging.Default()
	}
	t := &Telemetry{logger: logger}

	starters := []func(config.Config) error{t.startUptrace, t.startPyroscope, t.startPprof}
	for _, start := range starters {
		if err := start(cfg); err != nil {
			return nil, crerr.CombineErrors(err, t.Shutdown(ctx))
		}
	}
	return t, nil
}

// Shutdown flushes and stops every running backend, returning all failures.
func (t *Telemetry) Shutdown(ctx context.Context) error {
	if t == nil {
		return nil
	}
	var errs error
	for i := len(t.stops) - 1; i >= 0; i-- {
		stop := t.stops[i]
		if err := stop.fn(ctx); err != nil {
			errs = crerr.CombineErrors(errs, crerr.Wrapf(err, "stop %s", stop.name))
			continue
		}
		t.logger.Info("telemetry backend stopped", "backend", stop.name)
	}
	t.stops = nil
	return errs
}

// Backends lists the running backends in start order.
func (t *Telemetry) Backends() []string {
	names := make([]string, 0, len(t.stops))
	for _, stop := range t.stops {
		names = append(names, stop.name)
	}
	return names
}

func (t *Telemetry) register(name string, fn func(context.Context) error) {
	t.stops = append(t.stops, stopFunc{name: name, fn: fn})
}

// startUptrace installs the global OpenTelemetry providers and, when
// UPTRACE_LOGS_ENABLED, mirrors log records as OTel logs.
func (t *Telemetry) startUptrace(cfg config.Config) error {
	logging.SetMirror(nil)
	if !cfg.UptraceEnabled || cfg.UptraceDSN == "" {
		t.logger.Info("uptrace disabled", "enabled", cfg.UptraceEnabled, "dsn_set", cfg.UptraceDSN != "")
		return nil
	}

	uptrace.ConfigureOpentelemetry(
		uptrace.WithDSN(cfg.UptraceDSN),
		uptrace.WithServiceName(cfg.ServiceName),
		uptrace.WithServiceVersion(cfg.ServiceVersion),
		uptrace.WithDeploymentEnvironment(cfg.AppEnv),
		uptrace.WithLoggingEnabled(cfg.UptraceLogsEnabled),
	)
	if cfg.UptraceLogsEnabled {
		logging.SetMirror(newLogMirror(cfg.ServiceVersion))
	}
	t.register("uptrace", func(ctx context.Context) error {
		logging.SetMirror(nil)
		return uptrace.Shutdown(ctx)
	})

	t.logger.Info("uptrace enabled", "service_name", cfg.ServiceName, "logs_enabled", cfg.UptraceLogsEnabled)
	return nil
}

func (t *Telemetry) startPyroscope(cfg config.Config) error {
	if !cfg.PyroscopeEnabled {
		t.logger.Info("pyroscope disabled")
		return nil
	}

	profiler, err := pyroscope.Start(pyroscope.Config{
		ApplicationName:   cfg.PyroscopeAppName,
		ServerAddress:     cfg.PyroscopeServerAddress,
		AuthToken:         cfg.PyroscopeAuthToken,
		BasicAuthUser:     cfg.PyroscopeBasicAuthUser,
		BasicAuthPassword: cfg.PyroscopeBasicAuthPassword,
		UploadRate:        cfg.PyroscopeUploadRate,
		Tags:              profileTags(cfg),
		ProfileTypes: []pyroscope.ProfileType{
			pyroscope.ProfileCPU,
			pyroscope.ProfileAllocSpace,
			pyroscope.ProfileInuseSpace,
			pyroscope.ProfileGoroutines,
			pyroscope.ProfileMutexCount,
		},
	})
	if err != nil {
		return crerr.Wrap(err, "start pyroscope")
	}
	t.register("pyroscope", func(context.Context) error { return profiler.Stop() })

	t.logger.Info("pyroscope enabled", "application", cfg.PyroscopeAppName)
	return nil
}

// startPprof serves net/http/pprof on PPROF_ADDR, away from the public API.
func (t *Telemetry) startPprof(cfg config.Config) error {
	if !cfg.PprofEnabled {
		return nil
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	srv := &http.Server{Addr: cfg.PprofAddr, Handler: mux, ReadHeaderTimeout: pprofReadHeaderTimeout}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			t.logger.Error("pprof server failed", "addr", cfg.PprofAddr, "error", err)
		}
	}()
	t.register("pprof", srv.Shutdown)

	t.logger.Info("pprof server starting", "addr", cfg.PprofAddr)
	return nil
}

// profileTags labels profiles with the race the deployment refreshes so
// matching hot spots can be compared across races.
func profileTags(cfg config.Config) map[string]string {
	tags := map[string]string{
		"env":     cfg.AppEnv,
		"service": cfg.ServiceName,
	}
	if cfg.RaceKey != "" {
		tags["race"] = cfg.RaceKey
	}
	return tags
}
