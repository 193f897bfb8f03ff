package encounter_test

import (
	"testing"

	"github.com/cory-johannsen/delve/internal/game/character"
	"github.com/cory-johannsen/delve/internal/game/dungeon"
	"github.com/cory-johannsen/delve/internal/game/encounter"
	"github.com/cory-johannsen/delve/internal/game/ruleset"
	"github.com/cory-johannsen/delve/internal/game/stats"
	"github.com/stretchr/testify/assert"
)

func TestChooseTactic_NoTacticsSynthesizesDefault(t *testing.T) {
	room := dungeon.Room{
		Name:        "Bare Hall",
		PrimaryStat: stats.Charisma,
		Encounter:   dungeon.EncounterPuzzle,
		Difficulty:  10,
	}
	tac := encounter.ChooseTactic([]*character.Character{member(ruleset.ClassNone, 10)}, room)
	assert.Equal(t, "Direct Approach", tac.Name)
	assert.Equal(t, stats.Charisma, tac.PrimaryStat, "the default tests the room's primary stat")
	assert.Equal(t, 1.0, tac.PowerModifier)
}

func TestChooseTactic_MaximizesPowerTimesModifier(t *testing.T) {
	m := member(ruleset.ClassNone, 0)
	m.Stats.Strength = 40
	m.Stats.Wisdom = 10
	party := []*character.Character{m}

	room := dungeon.Room{
		Name:        "Guard Post",
		PrimaryStat: stats.Strength,
		Encounter:   dungeon.EncounterCombat,
		Difficulty:  50,
		Tactics: []dungeon.Tactic{
			{Name: "Sneak", PrimaryStat: stats.Wisdom, PowerModifier: 2.0, RiskModifier: 1},  // 20
			{Name: "Charge", PrimaryStat: stats.Strength, PowerModifier: 1.2, RiskModifier: 2}, // 48
			{Name: "Talk", PrimaryStat: stats.Charisma, PowerModifier: 3.0, RiskModifier: 1},  // 0
		},
	}

	assert.Equal(t, "Charge", encounter.ChooseTactic(party, room).Name)
}

func TestChooseTactic_FirstTacticWinsTies(t *testing.T) {
	party := []*character.Character{member(ruleset.ClassNone, 30)}
	room := dungeon.Room{
		Name:        "Fork",
		PrimaryStat: stats.Strength,
		Encounter:   dungeon.EncounterTrap,
		Difficulty:  50,
		Tactics: []dungeon.Tactic{
			{Name: "Left", PrimaryStat: stats.Strength, PowerModifier: 1.0, RiskModifier: 1},
			{Name: "Right", PrimaryStat: stats.Dexterity, PowerModifier: 1.0, RiskModifier: 1},
		},
	}
	assert.Equal(t, "Left", encounter.ChooseTactic(party, room).Name,
		"equal scores keep the first tactic")
}

// TestChooseTactic_IgnoresRisk: the optimizer is a myopic power maximizer;
// a high-risk tactic with more power beats a safe tactic.
func TestChooseTactic_IgnoresRisk(t *testing.T) {
	party := []*character.Character{member(ruleset.ClassNone, 30)}
	room := dungeon.Room{
		Name:        "Ledge",
		PrimaryStat: stats.Dexterity,
		Encounter:   dungeon.EncounterTrap,
		Difficulty:  40,
		Tactics: []dungeon.Tactic{
			{Name: "Rope Bridge", PrimaryStat: stats.Dexterity, PowerModifier: 1.0, RiskModifier: 0.5},
			{Name: "Leap", PrimaryStat: stats.Dexterity, PowerModifier: 1.4, RiskModifier: 3.0},
		},
	}
	assert.Equal(t, "Leap", encounter.ChooseTactic(party, room).Name)
}

func TestChooseTactic_ClassBonusInfluencesChoice(t *testing.T) {
	// A mage party facing a puzzle: wisdom power is boosted 50%, so a
	// wisdom tactic outscores a nominally stronger charisma tactic.
	m := member(ruleset.ClassMage, 20)
	room := dungeon.Room{
		Name:        "Rune Door",
		PrimaryStat: stats.Wisdom,
		Encounter:   dungeon.EncounterPuzzle,
		Difficulty:  30,
		Tactics: []dungeon.Tactic{
			{Name: "Recite", PrimaryStat: stats.Charisma, PowerModifier: 1.3, RiskModifier: 1},
			{Name: "Decipher", PrimaryStat: stats.Wisdom, PowerModifier: 1.0, RiskModifier: 1},
		},
	}
	// The mage bonus applies to any aggregated stat in a puzzle room:
	// Recite scores (20*1.5)*1.3 = 39, Decipher (20*1.5)*1.0 = 30.
	assert.Equal(t, "Recite", encounter.ChooseTactic([]*character.Character{m}, room).Name)
}
