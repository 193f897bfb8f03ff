package encounter

import (
	"github.com/cory-johannsen/delve/internal/game/character"
	"github.com/cory-johannsen/delve/internal/game/dungeon"
)

// Success chance is always clamped to this band: no room is ever a
// guaranteed win or a guaranteed loss.
const (
	ChanceFloor   = 0.05
	ChanceCeiling = 0.95
)

// Failure damage bounds, applied before the tactic risk modifier.
const (
	MinDamage = 5.0
	MaxDamage = 25.0
)

// ScaledDifficulty adjusts a room's base difficulty for party size:
// base * (1 + 0.5 * (size - 1)). The sub-linear growth makes cooperative
// play strictly favourable over solo play at equal total power.
//
// Postcondition: Returns >= 1 (degenerate base difficulty and party size
// are clamped before use).
func ScaledDifficulty(baseDifficulty, partySize int) float64 {
	if baseDifficulty < 1 {
		baseDifficulty = 1
	}
	if partySize < 1 {
		partySize = 1
	}
	return float64(baseDifficulty) * (1 + 0.5*float64(partySize-1))
}

// EffectivePower computes the party's power against room under tactic:
// the aggregate over the tactic's primary stat (or the room's when tactic
// is nil), scaled by the tactic's power modifier.
//
// Postcondition: Returns >= 0.
func EffectivePower(party []*character.Character, room dungeon.Room, tactic *dungeon.Tactic) float64 {
	stat := room.PrimaryStat
	modifier := 1.0
	if tactic != nil {
		stat = tactic.PrimaryStat
		if tactic.PowerModifier > 0 {
			modifier = tactic.PowerModifier
		}
	}
	return float64(PartyPower(party, stat, room.Encounter, room.Boss)) * modifier
}

// SuccessChance converts effective power and scaled difficulty into a
// success probability, clamped to [ChanceFloor, ChanceCeiling].
//
// Postcondition: Returns a value in [0.05, 0.95] for any inputs, including
// an empty party (which clamps to the floor).
func SuccessChance(party []*character.Character, room dungeon.Room, tactic *dungeon.Tactic) float64 {
	scaled := ScaledDifficulty(room.Difficulty, len(party))
	chance := EffectivePower(party, room, tactic) / scaled
	return clampChance(chance)
}

func clampChance(chance float64) float64 {
	if chance < ChanceFloor {
		return ChanceFloor
	}
	if chance > ChanceCeiling {
		return ChanceCeiling
	}
	return chance
}
