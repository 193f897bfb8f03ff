package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/delve/internal/game/character"
	"github.com/cory-johannsen/delve/internal/game/dungeon"
	"github.com/cory-johannsen/delve/internal/game/encounter"
	"github.com/cory-johannsen/delve/internal/game/loot"
	"github.com/cory-johannsen/delve/internal/game/ruleset"
	"github.com/cory-johannsen/delve/internal/game/run"
	"github.com/cory-johannsen/delve/internal/game/stats"
	"github.com/cory-johannsen/delve/internal/storage/postgres"
	"github.com/cory-johannsen/delve/internal/testutil"
)

func setupRunRepos(t *testing.T) (*postgres.RunRepository, *postgres.CharacterRepository, int64) {
	t.Helper()
	pool := testutil.NewPool(t)
	acctRepo := postgres.NewAccountRepository(pool)
	acct, err := acctRepo.Create(context.Background(), uniqueName("user"), "password123")
	require.NoError(t, err)
	return postgres.NewRunRepository(pool), postgres.NewCharacterRepository(pool), acct.ID
}

func testDungeon() *dungeon.Dungeon {
	return &dungeon.Dungeon{
		Name:           "Sunken Crypt",
		Tier:           dungeon.TierNormal,
		Loot:           dungeon.LootUncommon,
		BaseExperience: 200,
		BaseGold:       100,
		Rooms: []dungeon.Room{
			{Name: "Antechamber", PrimaryStat: stats.Strength, Encounter: dungeon.EncounterCombat, Difficulty: 40},
			{Name: "Flooded Vault", PrimaryStat: stats.Dexterity, Encounter: dungeon.EncounterTreasure, Difficulty: 45},
		},
	}
}

func startRun(t *testing.T, runRepo *postgres.RunRepository, charRepo *postgres.CharacterRepository, accountID int64) *run.Run {
	t.Helper()
	ctx := context.Background()

	member, err := charRepo.Create(ctx, makeTestCharacter(accountID, uniqueName("Hero"), ruleset.ClassWarrior))
	require.NoError(t, err)

	r := run.New(testDungeon(), []*character.Character{member}, false, nil, 4242, time.Now().UTC())
	require.NoError(t, runRepo.Create(ctx, r))
	return r
}

func TestRunRepository_CreateAndGet(t *testing.T) {
	runRepo, charRepo, accountID := setupRunRepos(t)
	ctx := context.Background()

	r := startRun(t, runRepo, charRepo, accountID)

	fetched, err := runRepo.GetByID(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, r.ID, fetched.ID)
	assert.Equal(t, "Sunken Crypt", fetched.DungeonName)
	assert.Equal(t, int64(4242), fetched.Seed)
	assert.Equal(t, run.StatusInProgress, fetched.Status)
	assert.False(t, fetched.Resolved)
	assert.Equal(t, r.PartyIDs, fetched.PartyIDs)
	assert.Equal(t, r.Participants, fetched.Participants)
	assert.Equal(t, r.MaxHealth, fetched.CurrentHealth)
	assert.Empty(t, fetched.Results)
	assert.Empty(t, fetched.Feed)
}

func TestRunRepository_GetByID_NotFound(t *testing.T) {
	runRepo, _, _ := setupRunRepos(t)
	_, err := runRepo.GetByID(context.Background(), "00000000-0000-0000-0000-000000000000")
	require.Error(t, err)
	assert.ErrorIs(t, err, postgres.ErrRunNotFound)
}

func TestRunRepository_ClaimPending(t *testing.T) {
	runRepo, charRepo, accountID := setupRunRepos(t)
	ctx := context.Background()

	r1 := startRun(t, runRepo, charRepo, accountID)
	r2 := startRun(t, runRepo, charRepo, accountID)

	claimed, err := runRepo.ClaimPending(ctx, 10)
	require.NoError(t, err)
	require.Len(t, claimed, 2)

	ids := []string{claimed[0].ID, claimed[1].ID}
	assert.Contains(t, ids, r1.ID)
	assert.Contains(t, ids, r2.ID)

	// A second poll sees nothing: both rows are claimed.
	again, err := runRepo.ClaimPending(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, again)
}

func TestRunRepository_ClaimPending_RespectsLimit(t *testing.T) {
	runRepo, charRepo, accountID := setupRunRepos(t)
	ctx := context.Background()

	startRun(t, runRepo, charRepo, accountID)
	startRun(t, runRepo, charRepo, accountID)
	startRun(t, runRepo, charRepo, accountID)

	claimed, err := runRepo.ClaimPending(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, claimed, 2)

	rest, err := runRepo.ClaimPending(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, rest, 1)
}

func TestRunRepository_ReleaseClaim(t *testing.T) {
	runRepo, charRepo, accountID := setupRunRepos(t)
	ctx := context.Background()

	r := startRun(t, runRepo, charRepo, accountID)

	claimed, err := runRepo.ClaimPending(ctx, 1)
	require.NoError(t, err)
	require.Len(t, claimed, 1)

	require.NoError(t, runRepo.ReleaseClaim(ctx, r.ID))

	reclaimed, err := runRepo.ClaimPending(ctx, 1)
	require.NoError(t, err)
	require.Len(t, reclaimed, 1)
	assert.Equal(t, r.ID, reclaimed[0].ID)
}

func TestRunRepository_SaveResolutionAndGetCompletion(t *testing.T) {
	runRepo, charRepo, accountID := setupRunRepos(t)
	ctx := context.Background()

	r := startRun(t, runRepo, charRepo, accountID)

	r.Status = run.StatusCompleted
	r.Resolved = true
	r.RoomIndex = 2
	r.CurrentHealth = 18
	r.Experience = 250
	r.Gold = 125
	r.CompletedAt = time.Now().UTC()
	r.Results = []encounter.RoomResult{
		{RoomIndex: 0, RoomName: "Antechamber", Success: true, Experience: 125, Gold: 62},
		{RoomIndex: 1, RoomName: "Flooded Vault", Success: true, Experience: 125, Gold: 63, LootDropped: true},
	}
	r.Feed = []run.FeedEntry{
		{At: r.CompletedAt, Kind: run.FeedFinal, Message: "The Sunken Crypt is conquered."},
	}

	completion := run.CompletionResult{
		Success:         true,
		DungeonName:     r.DungeonName,
		TotalExperience: 250,
		TotalGold:       125,
		RoomsCleared:    2,
		RoomsTotal:      2,
		RemainingHealth: 18,
		MaxHealth:       r.MaxHealth,
		Loot: []loot.Item{
			{ItemDefID: "crypt_blade", InstanceID: "11111111-2222-3333-4444-555555555555", Quantity: 1, OwnerID: r.PartyIDs[0]},
		},
		Results: r.Results,
	}

	require.NoError(t, runRepo.SaveResolution(ctx, r, completion))

	fetched, err := runRepo.GetByID(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, run.StatusCompleted, fetched.Status)
	assert.True(t, fetched.Resolved)
	assert.Equal(t, 2, fetched.RoomIndex)
	assert.Len(t, fetched.Results, 2)
	assert.Len(t, fetched.Feed, 1)
	assert.False(t, fetched.CompletedAt.IsZero())

	stored, err := runRepo.GetCompletion(ctx, r.ID)
	require.NoError(t, err)
	assert.True(t, stored.Success)
	assert.Equal(t, "Sunken Crypt", stored.DungeonName)
	assert.Equal(t, 250, stored.TotalExperience)
	assert.Equal(t, 125, stored.TotalGold)
	assert.Equal(t, 2, stored.RoomsCleared)
	require.Len(t, stored.Loot, 1)
	assert.Equal(t, "crypt_blade", stored.Loot[0].ItemDefID)
	assert.Len(t, stored.Results, 2)
}

func TestRunRepository_SaveResolution_CompletionInsertIsIdempotent(t *testing.T) {
	runRepo, charRepo, accountID := setupRunRepos(t)
	ctx := context.Background()

	r := startRun(t, runRepo, charRepo, accountID)
	r.Status = run.StatusFailed
	r.Resolved = true
	r.CurrentHealth = 0
	r.CompletedAt = time.Now().UTC()

	first := run.CompletionResult{Success: false, DungeonName: r.DungeonName, RoomsTotal: 2, MaxHealth: r.MaxHealth}
	require.NoError(t, runRepo.SaveResolution(ctx, r, first))

	// A duplicate resolution report must not overwrite the stored summary.
	second := first
	second.TotalGold = 999
	require.NoError(t, runRepo.SaveResolution(ctx, r, second))

	stored, err := runRepo.GetCompletion(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, stored.TotalGold)
}

func TestRunRepository_GetCompletion_NotFound(t *testing.T) {
	runRepo, charRepo, accountID := setupRunRepos(t)
	r := startRun(t, runRepo, charRepo, accountID)

	_, err := runRepo.GetCompletion(context.Background(), r.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, postgres.ErrCompletionNotFound)
}
