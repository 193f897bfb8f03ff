// Package ruleset defines the closed class set and the per-class modifier
// table used by the encounter engine.
package ruleset

import (
	"github.com/cory-johannsen/delve/internal/game/dungeon"
	"github.com/cory-johannsen/delve/internal/game/stats"
)

// Class identifies one of the playable classes. The zero value ClassNone
// means the character has no class and receives no modifiers.
type Class string

const (
	ClassNone    Class = ""
	ClassWarrior Class = "warrior"
	ClassMage    Class = "mage"
	ClassRanger  Class = "ranger"
	ClassRogue   Class = "rogue"
	ClassBard    Class = "bard"
)

// Classes contains every playable class, excluding ClassNone.
var Classes = []Class{ClassWarrior, ClassMage, ClassRanger, ClassRogue, ClassBard}

// Valid reports whether c is ClassNone or one of the playable classes.
func (c Class) Valid() bool {
	if c == ClassNone {
		return true
	}
	for _, cl := range Classes {
		if c == cl {
			return true
		}
	}
	return false
}

// Modifiers holds every numeric effect a class contributes to encounter
// resolution. Zero-valued fields mean the class has no effect of that kind.
type Modifiers struct {
	// KeyStat is the class's primary-stat affinity.
	KeyStat stats.Name
	// BonusEncounter is the encounter type the class excels at.
	BonusEncounter dungeon.EncounterType
	// BonusMultiplier is the fraction of the member's stat value added as
	// extra power when the room matches BonusEncounter (or a boss room for
	// classes with BossAffinity).
	BonusMultiplier float64
	// BossAffinity extends BonusMultiplier to any boss room regardless of
	// its encounter type.
	BossAffinity bool
	// PartyMultiplier is a party-wide power fraction added once to the
	// aggregated total, not per member.
	PartyMultiplier float64
	// DamageReduction is the flat fraction removed from failure damage when
	// a member of this class is in the party.
	DamageReduction float64
	// LootBonus is the flat addition to a room's bonus-loot chance.
	LootBonus float64
}

// classTable resolves class behaviour through data lookup rather than
// interface dispatch, keeping the set closed and exhaustively testable.
var classTable = map[Class]Modifiers{
	ClassWarrior: {
		KeyStat:         stats.Strength,
		BonusEncounter:  dungeon.EncounterCombat,
		BonusMultiplier: 0.5,
		BossAffinity:    true,
	},
	ClassMage: {
		KeyStat:         stats.Wisdom,
		BonusEncounter:  dungeon.EncounterPuzzle,
		BonusMultiplier: 0.5,
	},
	ClassRanger: {
		KeyStat:         stats.Dexterity,
		BonusEncounter:  dungeon.EncounterTrap,
		BonusMultiplier: 0.3,
		DamageReduction: 0.25,
	},
	ClassRogue: {
		KeyStat:         stats.Dexterity,
		BonusEncounter:  dungeon.EncounterTreasure,
		BonusMultiplier: 0.4,
		LootBonus:       0.1,
	},
	ClassBard: {
		KeyStat:         stats.Charisma,
		BonusEncounter:  dungeon.EncounterCombat,
		BonusMultiplier: 0.2,
		PartyMultiplier: 0.15,
	},
}

// ModifiersFor returns the modifier set for c.
//
// Postcondition: Returns the zero Modifiers for ClassNone or any unknown
// class, so callers never need a nil check.
func ModifiersFor(c Class) Modifiers {
	return classTable[c]
}

// KeyStat returns the class's primary-stat affinity, or stats.Strength for
// ClassNone and unknown classes.
func (c Class) KeyStat() stats.Name {
	m, ok := classTable[c]
	if !ok || m.KeyStat == "" {
		return stats.Strength
	}
	return m.KeyStat
}
