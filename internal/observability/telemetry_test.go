package observability

import (
	"testing"

	"github.com/riskibarqy/fantasy-cycling/internal/config"
	"github.com/riskibarqy/fantasy-cycling/internal/platform/logging"
)

func TestStart_AllDisabled(t *testing.T) {
	cfg := config.Config{
		ServiceName:    "fantasy-cycling-api",
		ServiceVersion: "dev",
		AppEnv:         config.EnvDev,
		UptraceEnabled: true,
	}

	telemetry, err := Start(t.Context(), cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("start telemetry: %v", err)
	}
	if got := telemetry.Backends(); len(got) != 0 {
		t.Fatalf("expected no backends without a dsn, got %v", got)
	}
	if err := telemetry.Shutdown(t.Context()); err != nil {
		t.Fatalf("shutdown telemetry: %v", err)
	}
}

func TestStart_PprofServer(t *testing.T) {
	cfg := config.Config{PprofEnabled: true, PprofAddr: "127.0.0.1:0"}

	telemetry, err := Start(t.Context(), cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("start telemetry: %v", err)
	}
	if got := telemetry.Backends(); len(got) != 1 || got[0] != "pprof" {
		t.Fatalf("expected pprof backend, got %v", got)
	}
	if err := telemetry.Shutdown(t.Context()); err != nil {
		t.Fatalf("shutdown telemetry: %v", err)
	}
	if got := telemetry.Backends(); len(got) != 0 {
		t.Fatalf("expected backends cleared after shutdown, got %v", got)
	}
}

func TestProfileTags(t *testing.T) {
	tags := profileTags(config.Config{AppEnv: config.EnvProd, ServiceName: "api"})
	if _, ok := tags["race"]; ok {
		t.Fatalf("expected no race tag without a race key, got %v", tags)
	}

	tags = profileTags(config.Config{AppEnv: config.EnvProd, ServiceName: "api", RaceKey: "TDF_FEMMES_2025"})
	if tags["race"] != "TDF_FEMMES_2025" || tags["env"] != config.EnvProd {
		t.Fatalf("unexpected tags %v", tags)
	}
}
