// Package dungeon provides the dungeon content model: rooms, tactics,
// encounter types, and difficulty/loot tiers.
package dungeon

import (
	"fmt"
	"strings"

	"github.com/cory-johannsen/delve/internal/game/stats"
)

// EncounterType classifies the challenge a room presents.
type EncounterType string

// The closed set of encounter types.
const (
	EncounterCombat   EncounterType = "combat"
	EncounterPuzzle   EncounterType = "puzzle"
	EncounterTrap     EncounterType = "trap"
	EncounterTreasure EncounterType = "treasure"
	EncounterBoss     EncounterType = "boss"
)

// EncounterTypes contains all valid encounter types.
var EncounterTypes = []EncounterType{
	EncounterCombat, EncounterPuzzle, EncounterTrap, EncounterTreasure, EncounterBoss,
}

// Valid reports whether e is one of the closed encounter types.
func (e EncounterType) Valid() bool {
	for _, t := range EncounterTypes {
		if e == t {
			return true
		}
	}
	return false
}

// DifficultyTier scales the reward pools of an entire dungeon.
type DifficultyTier string

const (
	TierEasy      DifficultyTier = "easy"
	TierNormal    DifficultyTier = "normal"
	TierHard      DifficultyTier = "hard"
	TierNightmare DifficultyTier = "nightmare"
)

// RewardMultiplier returns the experience/gold multiplier for the tier.
//
// Postcondition: Returns a value >= 1.0; unknown tiers fall back to 1.0.
func (t DifficultyTier) RewardMultiplier() float64 {
	switch t {
	case TierEasy:
		return 1.0
	case TierNormal:
		return 1.25
	case TierHard:
		return 1.5
	case TierNightmare:
		return 2.0
	default:
		return 1.0
	}
}

// Valid reports whether t is one of the four difficulty tiers.
func (t DifficultyTier) Valid() bool {
	switch t {
	case TierEasy, TierNormal, TierHard, TierNightmare:
		return true
	}
	return false
}

// LootTier selects which loot table a completed dungeon draws from.
type LootTier string

const (
	LootCommon   LootTier = "common"
	LootUncommon LootTier = "uncommon"
	LootRare     LootTier = "rare"
	LootEpic     LootTier = "epic"
)

// Valid reports whether t is one of the four loot tiers.
func (t LootTier) Valid() bool {
	switch t {
	case LootCommon, LootUncommon, LootRare, LootEpic:
		return true
	}
	return false
}

// Tactic is a selectable approach to a single room. It overrides which stat
// counts toward success and scales both power and failure damage.
type Tactic struct {
	// Name is the short display name, e.g. "Charge".
	Name string
	// Description explains the approach to the player.
	Description string
	// Icon is the client-side icon identifier.
	Icon string
	// PrimaryStat is the attribute this tactic tests instead of the room's.
	PrimaryStat stats.Name
	// PowerModifier scales party power for this room. Must be > 0.
	PowerModifier float64
	// RiskModifier scales damage taken on failure. Must be > 0.
	RiskModifier float64
}

// DefaultTactic synthesizes the neutral "Direct Approach" tactic for a room
// that defines no tactics of its own.
//
// Postcondition: The returned tactic uses primaryStat with modifiers of 1.0.
func DefaultTactic(primaryStat stats.Name) Tactic {
	return Tactic{
		Name:          "Direct Approach",
		Description:   "Face the room head-on with no particular plan.",
		Icon:          "sword",
		PrimaryStat:   primaryStat,
		PowerModifier: 1.0,
		RiskModifier:  1.0,
	}
}

// Room is one discrete encounter in a dungeon. Immutable once loaded.
type Room struct {
	// Name is the display name of the room.
	Name string
	// PrimaryStat is the attribute tested when no tactic overrides it.
	PrimaryStat stats.Name
	// Encounter classifies the challenge for class bonuses and narrative.
	Encounter EncounterType
	// Difficulty is the base difficulty rating. Must be > 0.
	Difficulty int
	// Boss marks the room as a boss encounter (doubled rewards on success).
	Boss bool
	// BonusLootChance is the base probability of a bonus loot drop in [0, 1].
	BonusLootChance float64
	// Tactics lists the approaches available for this room. May be empty.
	Tactics []Tactic
}

// Dungeon is an ordered sequence of rooms with shared reward pools.
// Immutable for the duration of a run.
type Dungeon struct {
	// Name uniquely identifies the dungeon.
	Name string
	// Rooms is the ordered encounter sequence. Must be non-empty.
	Rooms []Room
	// Tier scales the reward pools.
	Tier DifficultyTier
	// BaseExperience is the experience pool divided across rooms.
	BaseExperience int
	// BaseGold is the gold pool divided across rooms.
	BaseGold int
	// Loot selects the loot table used on successful completion.
	Loot LootTier
}

// RoomCount returns the number of rooms in the dungeon.
func (d *Dungeon) RoomCount() int {
	return len(d.Rooms)
}

// Validate checks that the dungeon definition satisfies all content invariants.
//
// Postcondition: Returns nil iff every room and tactic constraint holds.
func (d *Dungeon) Validate() error {
	var errs []string

	if d.Name == "" {
		errs = append(errs, "dungeon name must not be empty")
	}
	if len(d.Rooms) == 0 {
		errs = append(errs, "dungeon must contain at least one room")
	}
	if !d.Tier.Valid() {
		errs = append(errs, fmt.Sprintf("difficulty tier %q is not one of [easy, normal, hard, nightmare]", d.Tier))
	}
	if !d.Loot.Valid() {
		errs = append(errs, fmt.Sprintf("loot tier %q is not one of [common, uncommon, rare, epic]", d.Loot))
	}
	if d.BaseExperience < 0 {
		errs = append(errs, fmt.Sprintf("base experience must be >= 0, got %d", d.BaseExperience))
	}
	if d.BaseGold < 0 {
		errs = append(errs, fmt.Sprintf("base gold must be >= 0, got %d", d.BaseGold))
	}

	for i := range d.Rooms {
		if err := d.Rooms[i].Validate(); err != nil {
			errs = append(errs, fmt.Sprintf("room[%d]: %v", i, err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("dungeon %q: %s", d.Name, strings.Join(errs, "; "))
	}
	return nil
}

// Validate checks a single room's content invariants.
//
// Postcondition: Returns nil iff the room and all its tactics are valid.
func (r *Room) Validate() error {
	var errs []string

	if r.Name == "" {
		errs = append(errs, "room name must not be empty")
	}
	if !r.PrimaryStat.Valid() {
		errs = append(errs, fmt.Sprintf("primary stat %q is not a valid attribute", r.PrimaryStat))
	}
	if !r.Encounter.Valid() {
		errs = append(errs, fmt.Sprintf("encounter type %q is not valid", r.Encounter))
	}
	if r.Difficulty <= 0 {
		errs = append(errs, fmt.Sprintf("difficulty must be > 0, got %d", r.Difficulty))
	}
	if r.BonusLootChance < 0 || r.BonusLootChance > 1 {
		errs = append(errs, fmt.Sprintf("bonus loot chance must be in [0, 1], got %g", r.BonusLootChance))
	}
	for i, tac := range r.Tactics {
		if tac.Name == "" {
			errs = append(errs, fmt.Sprintf("tactic[%d] name must not be empty", i))
		}
		if !tac.PrimaryStat.Valid() {
			errs = append(errs, fmt.Sprintf("tactic[%d] primary stat %q is not valid", i, tac.PrimaryStat))
		}
		if tac.PowerModifier <= 0 {
			errs = append(errs, fmt.Sprintf("tactic[%d] power modifier must be > 0, got %g", i, tac.PowerModifier))
		}
		if tac.RiskModifier <= 0 {
			errs = append(errs, fmt.Sprintf("tactic[%d] risk modifier must be > 0, got %g", i, tac.RiskModifier))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}
