// Package stats defines the five-attribute stat block shared by characters,
// dungeon rooms, and tactics.
package stats

import "fmt"

// Name identifies one of the five character attributes.
type Name string

const (
	Strength  Name = "strength"
	Wisdom    Name = "wisdom"
	Charisma  Name = "charisma"
	Dexterity Name = "dexterity"
	Luck      Name = "luck"
)

// Names returns all five attribute names in canonical order.
func Names() []Name {
	return []Name{Strength, Wisdom, Charisma, Dexterity, Luck}
}

// Valid reports whether n is one of the five attribute names.
func (n Name) Valid() bool {
	switch n {
	case Strength, Wisdom, Charisma, Dexterity, Luck:
		return true
	}
	return false
}

// Block holds the five attribute values for a character.
//
// A Block is always passed by value. The engine receives fully-resolved
// effective values (base + equipment deltas) and never recomputes them.
type Block struct {
	Strength  int `yaml:"strength"`
	Wisdom    int `yaml:"wisdom"`
	Charisma  int `yaml:"charisma"`
	Dexterity int `yaml:"dexterity"`
	Luck      int `yaml:"luck"`
}

// Value returns the attribute value for name.
//
// Precondition: name must be a valid attribute name. Panics with
// "stats: unknown attribute" otherwise.
func (b Block) Value(name Name) int {
	switch name {
	case Strength:
		return b.Strength
	case Wisdom:
		return b.Wisdom
	case Charisma:
		return b.Charisma
	case Dexterity:
		return b.Dexterity
	case Luck:
		return b.Luck
	}
	panic(fmt.Sprintf("stats: unknown attribute %q", name))
}

// WithValue returns a copy of b with the named attribute set to v.
//
// Precondition: name must be a valid attribute name. Panics otherwise.
func (b Block) WithValue(name Name, v int) Block {
	switch name {
	case Strength:
		b.Strength = v
	case Wisdom:
		b.Wisdom = v
	case Charisma:
		b.Charisma = v
	case Dexterity:
		b.Dexterity = v
	case Luck:
		b.Luck = v
	default:
		panic(fmt.Sprintf("stats: unknown attribute %q", name))
	}
	return b
}

// Add returns a copy of b with the named attribute increased by delta.
//
// Precondition: name must be a valid attribute name.
func (b Block) Add(name Name, delta int) Block {
	return b.WithValue(name, b.Value(name)+delta)
}

// Total returns the sum of all five attribute values.
func (b Block) Total() int {
	return b.Strength + b.Wisdom + b.Charisma + b.Dexterity + b.Luck
}

// Clamped returns a copy of b with every negative attribute raised to zero.
//
// Postcondition: every attribute of the result is >= 0.
func (b Block) Clamped() Block {
	for _, n := range Names() {
		if b.Value(n) < 0 {
			b = b.WithValue(n, 0)
		}
	}
	return b
}
