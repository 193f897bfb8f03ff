package character_test

import (
	"testing"

	"github.com/cory-johannsen/delve/internal/game/character"
	"github.com/cory-johannsen/delve/internal/game/ruleset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestBuildPartnerProxy_NilSummary(t *testing.T) {
	assert.Nil(t, character.BuildPartnerProxy(nil), "no cached partner data means no proxy")
}

func TestBuildPartnerProxy_EvenSplitWithRemainderToKeyStat(t *testing.T) {
	proxy := character.BuildPartnerProxy(&character.PartnerSummary{
		PartnerID:       "partner-42",
		Name:            "Mira",
		Level:           7,
		Class:           ruleset.ClassMage,
		TotalStatPoints: 53, // 53 / 5 = 10 each, remainder 3
	})
	require.NotNil(t, proxy)

	assert.Equal(t, "partner-42", proxy.ID, "proxy carries the cached partner identifier")
	assert.Equal(t, "Mira", proxy.Name)
	assert.Equal(t, 7, proxy.Level)
	assert.Equal(t, ruleset.ClassMage, proxy.Class)

	// 10 base everywhere; wisdom gets remainder 3 + fixed bonus 3.
	assert.Equal(t, 10, proxy.Stats.Strength)
	assert.Equal(t, 16, proxy.Stats.Wisdom)
	assert.Equal(t, 10, proxy.Stats.Charisma)
	assert.Equal(t, 10, proxy.Stats.Dexterity)
	assert.Equal(t, 10, proxy.Stats.Luck)
}

func TestBuildPartnerProxy_ClasslessUsesStrength(t *testing.T) {
	proxy := character.BuildPartnerProxy(&character.PartnerSummary{
		PartnerID:       "partner-7",
		Name:            "Drab",
		Level:           1,
		TotalStatPoints: 25,
	})
	require.NotNil(t, proxy)
	assert.Equal(t, 8, proxy.Stats.Strength, "classless remainder and bonus land on strength")
	assert.Equal(t, 5, proxy.Stats.Wisdom)
}

func TestBuildPartnerProxy_NegativeTotalFloored(t *testing.T) {
	proxy := character.BuildPartnerProxy(&character.PartnerSummary{
		PartnerID:       "partner-9",
		Name:            "Glitch",
		TotalStatPoints: -40,
	})
	require.NotNil(t, proxy)
	assert.Equal(t, 3, proxy.Stats.Total(), "negative totals floor at zero before the fixed bonus")
}

// TestBuildPartnerProxy_TotalConserved_Property: the proxy's stat total is
// always the cached total plus the fixed key-stat bonus.
func TestBuildPartnerProxy_TotalConserved_Property(t *testing.T) {
	classes := append([]ruleset.Class{ruleset.ClassNone}, ruleset.Classes...)
	rapid.Check(t, func(rt *rapid.T) {
		total := rapid.IntRange(0, 500).Draw(rt, "total")
		class := classes[rapid.IntRange(0, len(classes)-1).Draw(rt, "class")]

		proxy := character.BuildPartnerProxy(&character.PartnerSummary{
			PartnerID:       "p",
			Name:            "P",
			Level:           rapid.IntRange(1, 50).Draw(rt, "level"),
			Class:           class,
			TotalStatPoints: total,
		})
		require.NotNil(rt, proxy)
		assert.Equal(rt, total+3, proxy.Stats.Total(),
			"stat total must be conserved up to the fixed key-stat bonus")
	})
}

func TestNew_AppliesKeyStatBoost(t *testing.T) {
	c := character.New("Brand", ruleset.ClassWarrior)
	assert.Equal(t, 12, c.Stats.Strength)
	assert.Equal(t, 10, c.Stats.Wisdom)
	assert.Equal(t, 1, c.Level)
	assert.Equal(t, character.MaxHealthForLevel(1), c.MaxHealth)
}

func TestMaxHealthForLevel_FloorsAtLevelOne(t *testing.T) {
	assert.Equal(t, 35, character.MaxHealthForLevel(0),
		"levels below 1 are treated as level 1")
	assert.Equal(t, 80, character.MaxHealthForLevel(10))
}
