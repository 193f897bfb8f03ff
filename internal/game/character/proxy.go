package character

import (
	"github.com/cory-johannsen/delve/internal/game/ruleset"
	"github.com/cory-johannsen/delve/internal/game/stats"
)

// PartnerSummary is the cached slice of a cooperative partner's character:
// enough to synthesize a stand-in without loading their full record.
type PartnerSummary struct {
	// PartnerID is the partner's character identifier.
	PartnerID string
	// Name is the partner's display name.
	Name string
	// Level is the partner's character level.
	Level int
	// Class is the partner's class (ClassNone if unknown or classless).
	Class ruleset.Class
	// TotalStatPoints is the sum of the partner's five effective attributes.
	TotalStatPoints int
}

// keyStatProxyBonus is the extra weight given to the proxy's key stat so a
// synthesized partner leans toward its class's strength.
const keyStatProxyBonus = 3

// BuildPartnerProxy synthesizes a full Character from cached partner data.
// Total stat points are divided evenly across the five attributes; the
// remainder plus a small fixed bonus goes to the class key stat (strength
// for classless partners). The proxy carries the partner's identifier so it
// is distinguishable from a persisted character.
//
// Postcondition: Returns nil iff summary is nil. The returned character's
// Stats.Total() == summary.TotalStatPoints + keyStatProxyBonus (negative
// totals are floored at zero before splitting).
func BuildPartnerProxy(summary *PartnerSummary) *Character {
	if summary == nil {
		return nil
	}

	total := summary.TotalStatPoints
	if total < 0 {
		total = 0
	}
	names := stats.Names()
	per := total / len(names)
	remainder := total % len(names)

	var b stats.Block
	for _, n := range names {
		b = b.WithValue(n, per)
	}
	b = b.Add(summary.Class.KeyStat(), remainder+keyStatProxyBonus)

	return &Character{
		ID:        summary.PartnerID,
		Name:      summary.Name,
		Class:     summary.Class,
		Level:     summary.Level,
		Stats:     b,
		MaxHealth: MaxHealthForLevel(summary.Level),
	}
}
