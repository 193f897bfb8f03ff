package encounter_test

import (
	"strings"
	"testing"

	"github.com/cory-johannsen/delve/internal/game/dice"
	"github.com/cory-johannsen/delve/internal/game/dungeon"
	"github.com/cory-johannsen/delve/internal/game/encounter"
	"github.com/cory-johannsen/delve/internal/game/stats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNarrator_Line_FillsTacticPlaceholder(t *testing.T) {
	n := encounter.NewNarrator()
	tac := &dungeon.Tactic{Name: "Pincer Move", PrimaryStat: stats.Strength, PowerModifier: 1, RiskModifier: 1}

	src := dice.NewSeededSource(1)
	for i := 0; i < 20; i++ {
		line := n.Line(dungeon.EncounterCombat, tac, true, src)
		require.NotEmpty(t, line)
		assert.NotContains(t, line, "{tactic}", "placeholder must be substituted")
	}
}

func TestNarrator_Line_GenericPoolWhenNoTactic(t *testing.T) {
	n := encounter.NewNarrator()
	src := &stubSource{ints: []int{0}}

	success := n.Line(dungeon.EncounterBoss, nil, true, src)
	assert.Equal(t, "The party prevails and presses deeper into the dark.", success)

	failure := n.Line(dungeon.EncounterBoss, nil, false, src)
	assert.Equal(t, "The room exacts its toll; the party staggers onward.", failure)
}

func TestNarrator_Line_CoversAllEncounterTypes(t *testing.T) {
	n := encounter.NewNarrator()
	tac := &dungeon.Tactic{Name: "Plan B", PrimaryStat: stats.Luck, PowerModifier: 1, RiskModifier: 1}
	src := dice.NewSeededSource(7)

	for _, enc := range dungeon.EncounterTypes {
		assert.NotEmpty(t, n.Line(enc, tac, true, src), "success pool for %s", enc)
		assert.NotEmpty(t, n.Line(enc, tac, false, src), "failure pool for %s", enc)
	}
}

func TestNarrator_Add_ExtendsPool(t *testing.T) {
	n := encounter.NewNarrator()
	n.Add(dungeon.EncounterTrap, true, "The {tactic} would make a locksmith weep.")

	tac := &dungeon.Tactic{Name: "Lockpick Dance", PrimaryStat: stats.Dexterity, PowerModifier: 1, RiskModifier: 1}
	found := false
	src := dice.NewSeededSource(3)
	for i := 0; i < 200 && !found; i++ {
		line := n.Line(dungeon.EncounterTrap, tac, true, src)
		if strings.Contains(line, "locksmith") {
			found = true
		}
	}
	assert.True(t, found, "added lines must be drawable")
}

func TestNarrator_Add_IgnoresEmptyAndUnknown(t *testing.T) {
	n := encounter.NewNarrator()
	assert.NotPanics(t, func() {
		n.Add(dungeon.EncounterCombat, true, "")
		n.Add(dungeon.EncounterType("dance"), false, "never stored")
	})
}
