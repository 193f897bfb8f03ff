package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/delve/internal/game/encounter"
	"github.com/cory-johannsen/delve/internal/game/loot"
	"github.com/cory-johannsen/delve/internal/game/run"
)

// ErrRunNotFound is returned when a run lookup yields no results.
var ErrRunNotFound = errors.New("run not found")

// ErrCompletionNotFound is returned when a run has no stored completion.
var ErrCompletionNotFound = errors.New("completion not found")

// RunRepository persists dungeon runs and their completion summaries.
// In-progress unresolved runs form the work queue: workers claim rows with
// ClaimPending and report back with SaveResolution or ReleaseClaim.
type RunRepository struct {
	db *pgxpool.Pool
}

// NewRunRepository creates a RunRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewRunRepository(db *pgxpool.Pool) *RunRepository {
	return &RunRepository{db: db}
}

const runColumns = `id, dungeon_name, seed, status, resolved, cooperative,
	       participants, party_ids, room_index, current_health, max_health,
	       experience, gold, results, feed, started_at, completed_at`

func scanRun(row pgx.Row) (*run.Run, error) {
	var r run.Run
	var status string
	var resultsJSON, feedJSON []byte
	var completedAt *time.Time
	err := row.Scan(
		&r.ID, &r.DungeonName, &r.Seed, &status, &r.Resolved, &r.Cooperative,
		&r.Participants, &r.PartyIDs, &r.RoomIndex, &r.CurrentHealth, &r.MaxHealth,
		&r.Experience, &r.Gold, &resultsJSON, &feedJSON, &r.StartedAt, &completedAt,
	)
	if err != nil {
		return nil, err
	}
	r.Status = run.Status(status)
	if completedAt != nil {
		r.CompletedAt = *completedAt
	}
	if len(resultsJSON) > 0 {
		if err := json.Unmarshal(resultsJSON, &r.Results); err != nil {
			return nil, fmt.Errorf("decoding run results: %w", err)
		}
	}
	if len(feedJSON) > 0 {
		if err := json.Unmarshal(feedJSON, &r.Feed); err != nil {
			return nil, fmt.Errorf("decoding run feed: %w", err)
		}
	}
	return &r, nil
}

func runJSON(r *run.Run) (resultsJSON, feedJSON []byte, err error) {
	results := r.Results
	if results == nil {
		results = []encounter.RoomResult{}
	}
	feed := r.Feed
	if feed == nil {
		feed = []run.FeedEntry{}
	}
	resultsJSON, err = json.Marshal(results)
	if err != nil {
		return nil, nil, fmt.Errorf("encoding run results: %w", err)
	}
	feedJSON, err = json.Marshal(feed)
	if err != nil {
		return nil, nil, fmt.Errorf("encoding run feed: %w", err)
	}
	return resultsJSON, feedJSON, nil
}

// Create inserts a freshly started run.
//
// Precondition: r must come from run.New; r.ID must be unused.
// Postcondition: The run is visible to ClaimPending once committed.
func (repo *RunRepository) Create(ctx context.Context, r *run.Run) error {
	resultsJSON, feedJSON, err := runJSON(r)
	if err != nil {
		return err
	}

	_, err = repo.db.Exec(ctx, `
		INSERT INTO dungeon_runs
			(id, dungeon_name, seed, status, resolved, cooperative,
			 participants, party_ids, room_index, current_health, max_health,
			 experience, gold, results, feed, started_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)`,
		r.ID, r.DungeonName, r.Seed, string(r.Status), r.Resolved, r.Cooperative,
		r.Participants, r.PartyIDs, r.RoomIndex, r.CurrentHealth, r.MaxHealth,
		r.Experience, r.Gold, resultsJSON, feedJSON, r.StartedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting run: %w", err)
	}
	return nil
}

// GetByID retrieves a run by its ID.
//
// Postcondition: Returns the run or ErrRunNotFound.
func (repo *RunRepository) GetByID(ctx context.Context, id string) (*run.Run, error) {
	row := repo.db.QueryRow(ctx,
		`SELECT `+runColumns+` FROM dungeon_runs WHERE id = $1`, id)
	r, err := scanRun(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRunNotFound
		}
		return nil, fmt.Errorf("querying run: %w", err)
	}
	return r, nil
}

// ClaimPending atomically claims up to limit unresolved in-progress runs,
// oldest first. Skip-locked selection lets multiple workers poll the same
// table without contention; claimed rows stay invisible to other workers
// until released or resolved.
//
// Precondition: limit must be >= 1.
// Postcondition: Returned runs have their claim recorded.
func (repo *RunRepository) ClaimPending(ctx context.Context, limit int) ([]*run.Run, error) {
	rows, err := repo.db.Query(ctx, `
		WITH pending AS (
			SELECT id FROM dungeon_runs
			WHERE status = 'in_progress' AND resolved = FALSE AND claimed_at IS NULL
			ORDER BY started_at ASC
			LIMIT $1
			FOR UPDATE SKIP LOCKED
		)
		UPDATE dungeon_runs SET claimed_at = NOW()
		FROM pending
		WHERE dungeon_runs.id = pending.id
		RETURNING `+runColumnsQualified,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("claiming runs: %w", err)
	}
	defer rows.Close()

	var claimed []*run.Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning claimed run: %w", err)
		}
		claimed = append(claimed, r)
	}
	return claimed, rows.Err()
}

const runColumnsQualified = `dungeon_runs.id, dungeon_runs.dungeon_name,
	       dungeon_runs.seed, dungeon_runs.status, dungeon_runs.resolved,
	       dungeon_runs.cooperative, dungeon_runs.participants,
	       dungeon_runs.party_ids, dungeon_runs.room_index,
	       dungeon_runs.current_health, dungeon_runs.max_health,
	       dungeon_runs.experience, dungeon_runs.gold, dungeon_runs.results,
	       dungeon_runs.feed, dungeon_runs.started_at, dungeon_runs.completed_at`

// ReleaseClaim clears a run's claim so another worker can retry it.
//
// Postcondition: Returns ErrRunNotFound if the run does not exist.
func (repo *RunRepository) ReleaseClaim(ctx context.Context, id string) error {
	tag, err := repo.db.Exec(ctx,
		`UPDATE dungeon_runs SET claimed_at = NULL WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("releasing claim: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrRunNotFound
	}
	return nil
}

// SaveResolution persists a resolved run's terminal state and its completion
// summary in one transaction. The completion insert ignores conflicts, so a
// re-resolved run never overwrites the first stored summary.
//
// Precondition: r.Status must be terminal and r.Resolved true.
func (repo *RunRepository) SaveResolution(ctx context.Context, r *run.Run, completion run.CompletionResult) error {
	resultsJSON, feedJSON, err := runJSON(r)
	if err != nil {
		return err
	}
	lootItems := completion.Loot
	if lootItems == nil {
		lootItems = []loot.Item{}
	}
	lootJSON, err := json.Marshal(lootItems)
	if err != nil {
		return fmt.Errorf("encoding completion loot: %w", err)
	}

	tx, err := repo.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var completedAt *time.Time
	if !r.CompletedAt.IsZero() {
		completedAt = &r.CompletedAt
	}

	tag, err := tx.Exec(ctx, `
		UPDATE dungeon_runs
		SET status = $2, resolved = $3, room_index = $4,
		    current_health = $5, experience = $6, gold = $7,
		    results = $8, feed = $9, completed_at = $10
		WHERE id = $1`,
		r.ID, string(r.Status), r.Resolved, r.RoomIndex,
		r.CurrentHealth, r.Experience, r.Gold,
		resultsJSON, feedJSON, completedAt,
	)
	if err != nil {
		return fmt.Errorf("updating run: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrRunNotFound
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO run_completions
			(run_id, success, total_experience, total_gold,
			 rooms_cleared, rooms_total, remaining_health, max_health,
			 cooperative, bond_experience, loot)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		ON CONFLICT (run_id) DO NOTHING`,
		r.ID, completion.Success, completion.TotalExperience, completion.TotalGold,
		completion.RoomsCleared, completion.RoomsTotal, completion.RemainingHealth,
		completion.MaxHealth, completion.Cooperative, completion.BondExperience,
		lootJSON,
	)
	if err != nil {
		return fmt.Errorf("inserting completion: %w", err)
	}

	return tx.Commit(ctx)
}

// GetCompletion retrieves the stored completion summary for a run.
//
// Postcondition: Returns the CompletionResult or ErrCompletionNotFound.
func (repo *RunRepository) GetCompletion(ctx context.Context, runID string) (run.CompletionResult, error) {
	var c run.CompletionResult
	var lootJSON, resultsJSON []byte
	err := repo.db.QueryRow(ctx, `
		SELECT rc.success, r.dungeon_name, rc.total_experience, rc.total_gold,
		       rc.rooms_cleared, rc.rooms_total, rc.remaining_health, rc.max_health,
		       rc.cooperative, rc.bond_experience, rc.loot, r.results
		FROM run_completions rc
		JOIN dungeon_runs r ON r.id = rc.run_id
		WHERE rc.run_id = $1`,
		runID,
	).Scan(
		&c.Success, &c.DungeonName, &c.TotalExperience, &c.TotalGold,
		&c.RoomsCleared, &c.RoomsTotal, &c.RemainingHealth, &c.MaxHealth,
		&c.Cooperative, &c.BondExperience, &lootJSON, &resultsJSON,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return run.CompletionResult{}, ErrCompletionNotFound
		}
		return run.CompletionResult{}, fmt.Errorf("querying completion: %w", err)
	}
	if len(lootJSON) > 0 {
		if err := json.Unmarshal(lootJSON, &c.Loot); err != nil {
			return run.CompletionResult{}, fmt.Errorf("decoding completion loot: %w", err)
		}
	}
	if len(resultsJSON) > 0 {
		if err := json.Unmarshal(resultsJSON, &c.Results); err != nil {
			return run.CompletionResult{}, fmt.Errorf("decoding completion results: %w", err)
		}
	}
	return c, nil
}
