package dungeon_test

import (
	"testing"

	"github.com/cory-johannsen/delve/internal/game/dungeon"
	"github.com/cory-johannsen/delve/internal/game/stats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validDungeon() *dungeon.Dungeon {
	return &dungeon.Dungeon{
		Name:           "Sunken Crypt",
		Tier:           dungeon.TierNormal,
		BaseExperience: 100,
		BaseGold:       50,
		Loot:           dungeon.LootUncommon,
		Rooms: []dungeon.Room{
			{
				Name:            "Entry Hall",
				PrimaryStat:     stats.Strength,
				Encounter:       dungeon.EncounterCombat,
				Difficulty:      40,
				BonusLootChance: 0.1,
			},
			{
				Name:        "Crypt Lord's Throne",
				PrimaryStat: stats.Strength,
				Encounter:   dungeon.EncounterBoss,
				Difficulty:  80,
				Boss:        true,
				Tactics: []dungeon.Tactic{
					{Name: "Charge", PrimaryStat: stats.Strength, PowerModifier: 1.2, RiskModifier: 1.5},
				},
			},
		},
	}
}

func TestDungeon_Validate_Valid(t *testing.T) {
	assert.NoError(t, validDungeon().Validate())
}

func TestDungeon_Validate_Errors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*dungeon.Dungeon)
		wantMsg string
	}{
		{"empty name", func(d *dungeon.Dungeon) { d.Name = "" }, "name must not be empty"},
		{"no rooms", func(d *dungeon.Dungeon) { d.Rooms = nil }, "at least one room"},
		{"bad tier", func(d *dungeon.Dungeon) { d.Tier = "impossible" }, "difficulty tier"},
		{"bad loot tier", func(d *dungeon.Dungeon) { d.Loot = "mythic" }, "loot tier"},
		{"negative experience", func(d *dungeon.Dungeon) { d.BaseExperience = -1 }, "base experience"},
		{"zero room difficulty", func(d *dungeon.Dungeon) { d.Rooms[0].Difficulty = 0 }, "difficulty must be > 0"},
		{"bad room stat", func(d *dungeon.Dungeon) { d.Rooms[0].PrimaryStat = "grit" }, "primary stat"},
		{"bad encounter", func(d *dungeon.Dungeon) { d.Rooms[0].Encounter = "dance" }, "encounter type"},
		{"loot chance above one", func(d *dungeon.Dungeon) { d.Rooms[0].BonusLootChance = 1.5 }, "bonus loot chance"},
		{"tactic zero power", func(d *dungeon.Dungeon) { d.Rooms[1].Tactics[0].PowerModifier = 0 }, "power modifier"},
		{"tactic negative risk", func(d *dungeon.Dungeon) { d.Rooms[1].Tactics[0].RiskModifier = -1 }, "risk modifier"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			d := validDungeon()
			tc.mutate(d)
			err := d.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantMsg)
		})
	}
}

func TestDifficultyTier_RewardMultiplier(t *testing.T) {
	assert.Equal(t, 1.0, dungeon.TierEasy.RewardMultiplier())
	assert.Equal(t, 1.25, dungeon.TierNormal.RewardMultiplier())
	assert.Equal(t, 1.5, dungeon.TierHard.RewardMultiplier())
	assert.Equal(t, 2.0, dungeon.TierNightmare.RewardMultiplier())
	assert.Equal(t, 1.0, dungeon.DifficultyTier("unknown").RewardMultiplier(),
		"unknown tiers fall back to the neutral multiplier")
}

func TestDefaultTactic(t *testing.T) {
	tac := dungeon.DefaultTactic(stats.Wisdom)
	assert.Equal(t, "Direct Approach", tac.Name)
	assert.Equal(t, stats.Wisdom, tac.PrimaryStat)
	assert.Equal(t, 1.0, tac.PowerModifier)
	assert.Equal(t, 1.0, tac.RiskModifier)
}
