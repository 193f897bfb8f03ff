// Package main provides the delve daemon: it loads dungeon and loot content,
// connects to PostgreSQL, and runs the run-resolution worker until signalled.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/delve/internal/config"
	"github.com/cory-johannsen/delve/internal/game/dungeon"
	"github.com/cory-johannsen/delve/internal/game/encounter"
	"github.com/cory-johannsen/delve/internal/game/loot"
	"github.com/cory-johannsen/delve/internal/game/run"
	"github.com/cory-johannsen/delve/internal/observability"
	"github.com/cory-johannsen/delve/internal/scripting"
	"github.com/cory-johannsen/delve/internal/server"
	"github.com/cory-johannsen/delve/internal/storage/postgres"
	"github.com/cory-johannsen/delve/internal/worker"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	// Load dungeon content
	contentStart := time.Now()
	dungeons, err := dungeon.LoadFromDir(cfg.Content.DungeonsDir)
	if err != nil {
		logger.Fatal("loading dungeons", zap.Error(err))
	}
	rooms := 0
	for _, d := range dungeons {
		rooms += d.RoomCount()
	}
	logger.Info("dungeons loaded",
		zap.Int("dungeons", len(dungeons)),
		zap.Int("rooms", rooms),
		zap.Duration("elapsed", time.Since(contentStart)),
	)

	// Load loot tables
	tables, err := loot.LoadTables(cfg.Content.LootDir)
	if err != nil {
		logger.Fatal("loading loot tables", zap.Error(err))
	}
	lootGen, err := loot.NewGenerator(tables)
	if err != nil {
		logger.Fatal("building loot generator", zap.Error(err))
	}
	logger.Info("loot tables loaded", zap.Int("tables", len(tables)))

	// Narrative pools, optionally extended by Lua scripts
	narrator := encounter.NewNarrator()
	if cfg.Content.ScriptsDir != "" {
		scriptMgr := scripting.NewManager(narrator, logger)
		if err := scriptMgr.LoadDir(cfg.Content.ScriptsDir, cfg.Content.ScriptInstructionLimit); err != nil {
			logger.Fatal("loading narrative scripts", zap.Error(err))
		}
	}

	// Connect to PostgreSQL
	dbStart := time.Now()
	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.Fatal("connecting to database", zap.Error(err))
	}
	logger.Info("database connected",
		zap.String("host", cfg.Database.Host),
		zap.Duration("elapsed", time.Since(dbStart)),
	)

	runRepo := postgres.NewRunRepository(pool.DB())
	charRepo := postgres.NewCharacterRepository(pool.DB())

	orchestrator := run.NewOrchestrator(encounter.NewResolver(narrator), lootGen, nil)
	runWorker := worker.New(cfg.Worker, runRepo, charRepo, dungeons, orchestrator, logger)

	// Stop order is the reverse of add order: the worker drains before the
	// pool closes.
	lc := server.NewLifecycle(logger)
	lc.Add("database", &server.FuncService{
		StartFn: func() error { return nil },
		StopFn:  pool.Close,
	})
	lc.Add("run-worker", runWorker)

	logger.Info("delve daemon ready",
		zap.Duration("startup", time.Since(start)),
	)

	if err := lc.Run(ctx); err != nil {
		logger.Fatal("lifecycle error", zap.Error(err))
	}
}
