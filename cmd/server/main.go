package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/cloudwego/hertz/pkg/app/server"

	gardenbridge "petlens/internal/adapter/garden"
	httpadapter "petlens/internal/adapter/http"
	metricsinmem "petlens/internal/adapter/metrics/inmemory"
	filerepo "petlens/internal/adapter/repo/file"
	gormrepo "petlens/internal/adapter/repo/gorm"
	"petlens/internal/adapter/repo/memory"
	"petlens/internal/app/aggregate"
	"petlens/internal/app/ingest"
	"petlens/internal/app/ports"
	"petlens/internal/app/roster"
	"petlens/internal/app/valuation"
	"petlens/internal/config"
	"petlens/internal/domain/ability"
	"petlens/internal/domain/species"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevelEnv("PETLENS_LOG_LEVEL", slog.LevelInfo),
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load(strings.TrimSpace(os.Getenv("PETLENS_CONFIG")))
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}
	applyEnvOverrides(cfg)

	st, err := buildStores(context.Background(), cfg)
	if err != nil {
		slog.Error("build stores", "error", err)
		os.Exit(1)
	}
	kpi := metricsinmem.NewRecorder()
	h, err := buildHandler(cfg, st, kpi, logger)
	if err != nil {
		slog.Error("build handler", "error", err)
		os.Exit(1)
	}

	if path := strings.TrimSpace(os.Getenv("PETLENS_SEED_FILE")); path != "" {
		if err := seedFromDump(context.Background(), h.IngestUC, path); err != nil {
			slog.Error("seed roster", "path", path, "error", err)
			os.Exit(1)
		}
	}

	s := server.Default(server.WithHostPorts(cfg.Server.Addr))
	h.RegisterRoutes(s)

	slog.Info("petlens server listening",
		"addr", cfg.Server.Addr,
		"store", st.kind,
		"valuation", cfg.Valuation.Enabled,
	)
	s.Spin()
}

type stores struct {
	kind   string
	tx     ports.TxManager
	pets   ports.PetSnapshotStore
	garden ports.GardenStore
}

// buildStores uses postgres when a DSN is configured and an in-process store
// otherwise.
func buildStores(ctx context.Context, cfg *config.Config) (stores, error) {
	dsn := strings.TrimSpace(cfg.Database.DSN)
	if dsn == "" {
		store := memory.NewStore()
		return stores{
			kind:   "memory",
			tx:     memory.NewTxManager(store),
			pets:   memory.NewPetSnapshotRepo(store),
			garden: memory.NewGardenRepo(store),
		}, nil
	}

	db, err := gormrepo.OpenPostgres(dsn)
	if err != nil {
		return stores{}, err
	}
	if err := gormrepo.ApplyMigrations(ctx, db, gormrepo.Migrations()); err != nil {
		return stores{}, fmt.Errorf("apply migrations: %w", err)
	}
	return stores{
		kind:   "postgres",
		tx:     gormrepo.NewTxManager(db),
		pets:   gormrepo.NewPetSnapshotRepo(db),
		garden: gormrepo.NewGardenRepo(db),
	}, nil
}

func buildHandler(cfg *config.Config, st stores, kpi *metricsinmem.Recorder, logger *slog.Logger) (httpadapter.Handler, error) {
	opts, err := cfg.EngineOptions()
	if err != nil {
		return httpadapter.Handler{}, err
	}

	var cache *valuation.Cache
	if cfg.Valuation.Enabled {
		cache = valuation.NewCache(valuation.Config{
			Bridge:  gardenbridge.NewValuator(gardenbridge.Config{Garden: st.garden}),
			TTL:     cfg.Valuation.TTL,
			Metrics: kpi,
		})
	}

	engine := aggregate.Engine{
		Abilities: ability.MustLoadCatalog(),
		Species:   species.MustLoadDefault(),
		Valuation: cache,
		Options:   opts,
	}
	return httpadapter.Handler{
		RosterUC: roster.UseCase{
			Pets:    st.pets,
			Engine:  engine,
			Metrics: kpi,
			Logger:  logger,
		},
		IngestUC: ingest.UseCase{
			TxManager:   st.tx,
			Pets:        st.pets,
			Garden:      st.garden,
			Valuation:   cache,
			Metrics:     kpi,
			MaxStrength: cfg.Engine.MaxLevel,
		},
		KPI:           kpi,
		Logger:        logger,
		CORSOrigin:    cfg.Server.CORSAllowOrigin,
		NearCapWithin: cfg.Engine.NearCapWithin,
	}, nil
}

func seedFromDump(ctx context.Context, uc ingest.UseCase, path string) error {
	dump, err := filerepo.FromPath(path).Load(ctx)
	if err != nil {
		return err
	}
	resp, err := uc.Execute(ctx, ingest.Request{Pets: dump.Pets, Crops: dump.Crops})
	if err != nil {
		return err
	}
	slog.Info("roster seeded", "pets", resp.Pets, "crops", resp.Crops)
	return nil
}

func applyEnvOverrides(cfg *config.Config) {
	if addr := strings.TrimSpace(os.Getenv("PETLENS_ADDR")); addr != "" {
		cfg.Server.Addr = addr
	}
	if dsn := strings.TrimSpace(os.Getenv("PETLENS_DB_DSN")); dsn != "" {
		cfg.Database.DSN = dsn
	}
	cfg.Engine.NearCapWithin = intEnv("PETLENS_NEAR_CAP_WITHIN", cfg.Engine.NearCapWithin)
}

func intEnv(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func logLevelEnv(key string, fallback slog.Level) slog.Level {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(v)); err != nil {
		return fallback
	}
	return level
}
