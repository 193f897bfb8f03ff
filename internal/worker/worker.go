// Package worker implements the run-resolution worker: it polls the run
// queue, resolves claimed runs with their stored seed, and persists the
// outcome.
package worker

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/cory-johannsen/delve/internal/config"
	"github.com/cory-johannsen/delve/internal/game/character"
	"github.com/cory-johannsen/delve/internal/game/dice"
	"github.com/cory-johannsen/delve/internal/game/dungeon"
	"github.com/cory-johannsen/delve/internal/game/run"
)

// Store is the run queue persistence surface the worker drives.
type Store interface {
	// ClaimPending atomically claims up to limit unresolved runs.
	ClaimPending(ctx context.Context, limit int) ([]*run.Run, error)
	// SaveResolution persists a resolved run and its completion summary.
	SaveResolution(ctx context.Context, r *run.Run, completion run.CompletionResult) error
	// ReleaseClaim returns a claimed run to the queue for retry.
	ReleaseClaim(ctx context.Context, id string) error
}

// PartySource loads the characters attempting a run.
type PartySource interface {
	GetParty(ctx context.Context, ids []string) ([]*character.Character, error)
}

// Worker polls the run queue on a fixed interval and resolves claimed runs
// concurrently. Each run is resolved with a source seeded from its stored
// seed, so any worker produces the same outcome for the same run.
type Worker struct {
	cfg          config.WorkerConfig
	store        Store
	parties      PartySource
	dungeons     map[string]*dungeon.Dungeon
	orchestrator *run.Orchestrator
	logger       *zap.Logger

	stopOnce sync.Once
	stop     chan struct{}
	cancel   context.CancelFunc
}

// New creates a Worker resolving runs against the given dungeon content.
//
// Precondition: store, parties, orchestrator, and logger must be non-nil;
// dungeons should be validated content.
func New(
	cfg config.WorkerConfig,
	store Store,
	parties PartySource,
	dungeons []*dungeon.Dungeon,
	orchestrator *run.Orchestrator,
	logger *zap.Logger,
) *Worker {
	index := make(map[string]*dungeon.Dungeon, len(dungeons))
	for _, d := range dungeons {
		index[d.Name] = d
	}
	return &Worker{
		cfg:          cfg,
		store:        store,
		parties:      parties,
		dungeons:     index,
		orchestrator: orchestrator,
		logger:       logger,
		stop:         make(chan struct{}),
	}
}

// Start polls the queue until Stop is called. It blocks, satisfying the
// lifecycle Service interface.
//
// Postcondition: Returns nil after Stop; in-flight resolutions finish first.
func (w *Worker) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	w.cancel = cancel
	defer cancel()

	ticker := time.NewTicker(w.cfg.PollInterval)
	defer ticker.Stop()

	w.logger.Info("run worker started",
		zap.Duration("poll_interval", w.cfg.PollInterval),
		zap.Int("concurrency", w.cfg.Concurrency),
		zap.Int("claim_batch", w.cfg.ClaimBatch),
	)

	for {
		select {
		case <-w.stop:
			return nil
		case <-ticker.C:
			if err := w.poll(ctx); err != nil {
				w.logger.Warn("poll failed", zap.Error(err))
			}
		}
	}
}

// Stop signals the poll loop to exit. Safe to call more than once.
func (w *Worker) Stop() {
	w.stopOnce.Do(func() {
		close(w.stop)
		if w.cancel != nil {
			w.cancel()
		}
	})
}

// poll claims one batch of pending runs and resolves them concurrently.
func (w *Worker) poll(ctx context.Context) error {
	claimed, err := w.store.ClaimPending(ctx, w.cfg.ClaimBatch)
	if err != nil {
		return err
	}
	if len(claimed) == 0 {
		return nil
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(w.cfg.Concurrency)
	for _, r := range claimed {
		r := r
		g.Go(func() error {
			w.resolveRun(ctx, r)
			return nil
		})
	}
	return g.Wait()
}

// resolveRun resolves one claimed run. Errors release the claim so another
// poll can retry once the underlying problem is fixed.
func (w *Worker) resolveRun(ctx context.Context, r *run.Run) {
	log := w.logger.With(
		zap.String("run_id", r.ID),
		zap.String("dungeon", r.DungeonName),
	)

	d, ok := w.dungeons[r.DungeonName]
	if !ok {
		log.Error("dungeon not in loaded content, releasing claim")
		w.release(ctx, r.ID, log)
		return
	}

	party, err := w.parties.GetParty(ctx, r.PartyIDs)
	if err != nil {
		log.Error("loading party failed, releasing claim", zap.Error(err))
		w.release(ctx, r.ID, log)
		return
	}

	src := dice.NewSeededSource(r.Seed)
	completion := w.orchestrator.Resolve(r, party, d, src)

	if err := w.store.SaveResolution(ctx, r, completion); err != nil {
		log.Error("saving resolution failed, releasing claim", zap.Error(err))
		w.release(ctx, r.ID, log)
		return
	}

	log.Info("run resolved",
		zap.Bool("success", completion.Success),
		zap.Int("rooms_cleared", completion.RoomsCleared),
		zap.Int("rooms_total", completion.RoomsTotal),
		zap.Int("experience", completion.TotalExperience),
		zap.Int("gold", completion.TotalGold),
		zap.Int("loot_items", len(completion.Loot)),
	)
}

func (w *Worker) release(ctx context.Context, id string, log *zap.Logger) {
	if err := w.store.ReleaseClaim(ctx, id); err != nil {
		log.Error("releasing claim failed", zap.Error(err))
	}
}
