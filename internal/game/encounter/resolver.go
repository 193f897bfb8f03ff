package encounter

import (
	"math"

	"github.com/cory-johannsen/delve/internal/game/character"
	"github.com/cory-johannsen/delve/internal/game/dice"
	"github.com/cory-johannsen/delve/internal/game/dungeon"
)

// riskRewardThreshold is the power modifier above which a tactic earns the
// extra reward multiplier, rewarding the riskier choice.
const riskRewardThreshold = 1.1

// consolationFraction of the room's base reward is granted as experience
// even on failure.
const consolationFraction = 0.02

// RoomResult is the immutable outcome record for one resolved room.
type RoomResult struct {
	// RoomIndex is the room's position in the dungeon sequence.
	RoomIndex int
	// RoomName is the room's display name.
	RoomName string
	// Success reports whether the party cleared the room.
	Success bool
	// Power is the party's effective power for the attempt.
	Power int
	// RequiredPower is the party-size-scaled difficulty.
	RequiredPower int
	// Experience earned from this room.
	Experience int
	// Gold earned from this room.
	Gold int
	// HealthLost is the damage taken (0 on success).
	HealthLost int
	// LootDropped reports whether the bonus loot draw succeeded.
	LootDropped bool
	// Narrative is the feed line describing the outcome.
	Narrative string
	// TacticName is the name of the tactic used, empty if none.
	TacticName string
}

// Resolver resolves single rooms. It holds only the narrator; all per-room
// state arrives as arguments, so one Resolver serves any number of runs.
type Resolver struct {
	narrator *Narrator
}

// NewResolver creates a Resolver using narrator for feed lines.
// A nil narrator gets the built-in pools.
func NewResolver(narrator *Narrator) *Resolver {
	if narrator == nil {
		narrator = NewNarrator()
	}
	return &Resolver{narrator: narrator}
}

// ResolveRoom resolves the room at roomIndex in d for the given party and
// tactic, drawing outcomes from src.
//
// Draw order is fixed for reproducibility: (1) the uniform outcome draw,
// success iff draw <= chance; (2) on success only, the Bernoulli bonus-loot
// draw; (3) the narrative line selection. Everything else is deterministic.
//
// On success, experience and gold are the dungeon's per-room base scaled by
// the difficulty tier, doubled for boss rooms, with an extra bonus for
// tactics whose power modifier exceeds 1.1. On failure, damage is the
// power deficit clamped to [5, 25], scaled by the tactic's risk modifier
// and reduced by the party's best damage-reduction class; a small
// consolation experience is still granted.
//
// Precondition: roomIndex must be in [0, d.RoomCount()); src must be
// non-nil. tactic may be nil (no tactic chosen).
// Postcondition: Returns a fully populated RoomResult with
// Experience, Gold, HealthLost >= 0.
func (r *Resolver) ResolveRoom(
	party []*character.Character,
	d *dungeon.Dungeon,
	roomIndex int,
	tactic *dungeon.Tactic,
	src dice.Source,
) RoomResult {
	room := d.Rooms[roomIndex]

	scaled := ScaledDifficulty(room.Difficulty, len(party))
	effective := EffectivePower(party, room, tactic)
	chance := clampChance(effective / scaled)

	success := src.Float64() <= chance

	result := RoomResult{
		RoomIndex:     roomIndex,
		RoomName:      room.Name,
		Success:       success,
		Power:         int(effective),
		RequiredPower: int(scaled),
	}
	if tactic != nil {
		result.TacticName = tactic.Name
	}

	perRoomExp := perRoomBase(d.BaseExperience, d.RoomCount(), d.Tier)
	perRoomGold := perRoomBase(d.BaseGold, d.RoomCount(), d.Tier)

	if success {
		exp, gold := perRoomExp, perRoomGold
		if room.Boss {
			exp *= 2
			gold *= 2
		}
		if tactic != nil && tactic.PowerModifier > riskRewardThreshold {
			bonus := 1 + (tactic.PowerModifier-1)*0.5
			exp *= bonus
			gold *= bonus
		}
		result.Experience = int(math.Round(exp))
		result.Gold = int(math.Round(gold))

		lootChance := room.BonusLootChance + PartyLootBonus(party)
		if lootChance > 1 {
			lootChance = 1
		}
		result.LootDropped = src.Float64() < lootChance
	} else {
		damage := scaled - effective
		if damage < MinDamage {
			damage = MinDamage
		}
		if damage > MaxDamage {
			damage = MaxDamage
		}
		if tactic != nil && tactic.RiskModifier > 0 {
			damage *= tactic.RiskModifier
		}
		damage *= 1 - PartyDamageReduction(party)
		result.HealthLost = int(math.Round(damage))

		result.Experience = int(math.Round(perRoomExp * consolationFraction))
	}

	result.Narrative = r.narrator.Line(room.Encounter, tactic, success, src)
	return result
}

// perRoomBase divides a dungeon reward pool across its rooms and applies
// the difficulty tier multiplier.
func perRoomBase(pool, roomCount int, tier dungeon.DifficultyTier) float64 {
	if roomCount < 1 {
		roomCount = 1
	}
	return float64(pool) / float64(roomCount) * tier.RewardMultiplier()
}
