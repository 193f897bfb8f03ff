// Package encounter implements the core resolution engine: power
// aggregation, the success model, the tactic optimizer, and the room
// resolver. Everything here is synchronous, performs no I/O, and draws
// randomness only through an injected dice.Source.
package encounter

import (
	"github.com/cory-johannsen/delve/internal/game/character"
	"github.com/cory-johannsen/delve/internal/game/dungeon"
	"github.com/cory-johannsen/delve/internal/game/ruleset"
	"github.com/cory-johannsen/delve/internal/game/stats"
)

// PartyPower aggregates the party's combat effectiveness against a target
// stat for a given encounter type. Each member contributes their effective
// stat value plus a class bonus when their class favours this encounter
// type (warriors additionally favour any boss room). If any member's class
// grants a party-wide multiplier it is applied once to the total, not per
// member; with several such members only the strongest multiplier counts.
//
// Deterministic: no randomness is drawn.
//
// Postcondition: Returns >= 0; an empty party yields 0.
func PartyPower(party []*character.Character, stat stats.Name, enc dungeon.EncounterType, boss bool) int {
	var total float64
	var partyMult float64

	for _, member := range party {
		if member == nil {
			continue
		}
		v := member.Stats.Value(stat)
		if v < 0 {
			v = 0
		}
		contribution := float64(v)

		mods := ruleset.ModifiersFor(member.Class)
		if mods.BonusMultiplier > 0 && (mods.BonusEncounter == enc || (mods.BossAffinity && boss)) {
			contribution += float64(v) * mods.BonusMultiplier
		}
		if mods.PartyMultiplier > partyMult {
			partyMult = mods.PartyMultiplier
		}

		total += contribution
	}

	total += total * partyMult
	if total < 0 {
		return 0
	}
	return int(total)
}

// PartyLootBonus returns the highest class loot-drop bonus present in the
// party, or 0 if none.
//
// Postcondition: Returns a value in [0, 1).
func PartyLootBonus(party []*character.Character) float64 {
	var best float64
	for _, member := range party {
		if member == nil {
			continue
		}
		if b := ruleset.ModifiersFor(member.Class).LootBonus; b > best {
			best = b
		}
	}
	return best
}

// PartyDamageReduction returns the highest class damage-reduction fraction
// present in the party, or 0 if none.
//
// Postcondition: Returns a value in [0, 1).
func PartyDamageReduction(party []*character.Character) float64 {
	var best float64
	for _, member := range party {
		if member == nil {
			continue
		}
		if r := ruleset.ModifiersFor(member.Class).DamageReduction; r > best {
			best = r
		}
	}
	return best
}

// MaxPartyLuck returns the highest luck value across the party, or 0 for an
// empty party.
//
// Postcondition: Returns >= 0.
func MaxPartyLuck(party []*character.Character) int {
	var best int
	for _, member := range party {
		if member == nil {
			continue
		}
		if l := member.Stats.Luck; l > best {
			best = l
		}
	}
	return best
}
