// Package character defines the character domain model and the partner
// proxy builder for cooperative runs.
package character

import (
	"time"

	"github.com/cory-johannsen/delve/internal/game/ruleset"
	"github.com/cory-johannsen/delve/internal/game/stats"
)

// Character is a party member as seen by the encounter engine.
//
// Stats holds fully-resolved effective values (base + equipment deltas),
// computed by the character data source; the engine never recomputes
// equipment effects. AccountID and persistence timestamps are set by the
// storage layer; zero values indicate an unsaved character.
type Character struct {
	ID        string
	AccountID int64

	Name  string
	Class ruleset.Class
	Level int

	Stats     stats.Block
	MaxHealth int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// baseHealth and healthPerLevel define the health curve shared by new
// characters and synthesized partner proxies.
const (
	baseHealth     = 30
	healthPerLevel = 5
)

// MaxHealthForLevel returns the maximum health for a character of the given
// level.
//
// Postcondition: Returns >= baseHealth + healthPerLevel (level is floored at 1).
func MaxHealthForLevel(level int) int {
	if level < 1 {
		level = 1
	}
	return baseHealth + healthPerLevel*level
}

// New constructs a level-1 character with all attributes at 10 and a +2
// boost to the class key ability.
//
// Precondition: name must be non-empty; class must be valid (ClassNone allowed).
// Postcondition: Returns a Character ready for persistence.
func New(name string, class ruleset.Class) *Character {
	b := stats.Block{Strength: 10, Wisdom: 10, Charisma: 10, Dexterity: 10, Luck: 10}
	if class != ruleset.ClassNone {
		b = b.Add(class.KeyStat(), 2)
	}
	return &Character{
		Name:      name,
		Class:     class,
		Level:     1,
		Stats:     b,
		MaxHealth: MaxHealthForLevel(1),
	}
}
