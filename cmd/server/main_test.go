package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	metricsinmem "petlens/internal/adapter/metrics/inmemory"
	"petlens/internal/app/aggregate"
	"petlens/internal/app/roster"
	"petlens/internal/config"
)

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("PETLENS_ADDR", " :9090 ")
	t.Setenv("PETLENS_DB_DSN", "")
	t.Setenv("PETLENS_NEAR_CAP_WITHIN", "12")

	cfg := config.MustLoad("")
	applyEnvOverrides(cfg)

	if cfg.Server.Addr != ":9090" {
		t.Fatalf("addr=%q want %q", cfg.Server.Addr, ":9090")
	}
	if cfg.Database.DSN != "" {
		t.Fatalf("empty env must keep the configured dsn, got %q", cfg.Database.DSN)
	}
	if cfg.Engine.NearCapWithin != 12 {
		t.Fatalf("near cap within=%d want 12", cfg.Engine.NearCapWithin)
	}
}

func TestIntEnv_FallsBackOnGarbage(t *testing.T) {
	t.Setenv("PETLENS_TEST_INT", "many")
	if got := intEnv("PETLENS_TEST_INT", 7); got != 7 {
		t.Fatalf("intEnv()=%d want 7", got)
	}
}

func TestLogLevelEnv(t *testing.T) {
	t.Setenv("PETLENS_LOG_LEVEL", "debug")
	if got := logLevelEnv("PETLENS_LOG_LEVEL", slog.LevelInfo); got != slog.LevelDebug {
		t.Fatalf("logLevelEnv()=%v want debug", got)
	}
	t.Setenv("PETLENS_LOG_LEVEL", "loud")
	if got := logLevelEnv("PETLENS_LOG_LEVEL", slog.LevelInfo); got != slog.LevelInfo {
		t.Fatalf("logLevelEnv()=%v want info", got)
	}
}

func TestSeedFromDump_ServesRoster(t *testing.T) {
	cfg := config.MustLoad("")
	st, err := buildStores(context.Background(), cfg)
	if err != nil {
		t.Fatalf("build stores: %v", err)
	}
	if st.kind != "memory" {
		t.Fatalf("expected memory store without dsn, got %q", st.kind)
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h, err := buildHandler(cfg, st, metricsinmem.NewRecorder(), logger)
	if err != nil {
		t.Fatalf("build handler: %v", err)
	}

	path := filepath.Join(t.TempDir(), "roster.json")
	dump := `{"pets":[{"id":"p1","species":"Bee","strength":90,"xp":0,"abilities":["GoldGranter"]}],
"crops":[{"slot":1,"species":"Carrot","scale":1}]}`
	if err := os.WriteFile(path, []byte(dump), 0o644); err != nil {
		t.Fatalf("write dump: %v", err)
	}
	if err := seedFromDump(context.Background(), h.IngestUC, path); err != nil {
		t.Fatalf("seed: %v", err)
	}

	resp, err := h.RosterUC.Execute(context.Background(), roster.Request{})
	if err != nil {
		t.Fatalf("roster: %v", err)
	}
	if len(resp.Report.Pets) != 1 || resp.Report.ValuationStatus() != aggregate.ValuationOK {
		t.Fatalf("expected one valued pet, got pets=%d valuation=%s", len(resp.Report.Pets), resp.Report.ValuationStatus())
	}
	coins := resp.Report.Pets[0].Totals.CoinsPerHour
	if coins == nil || *coins <= 0 {
		t.Fatalf("gold granter should be priced from the seeded garden, got %v", coins)
	}
}
