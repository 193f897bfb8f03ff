package encounter

import (
	"strings"

	"github.com/cory-johannsen/delve/internal/game/dice"
	"github.com/cory-johannsen/delve/internal/game/dungeon"
)

// linePool holds the success/failure narrative candidates for one encounter
// type. Lines may contain the "{tactic}" placeholder, replaced with the
// chosen tactic's name.
type linePool struct {
	success []string
	failure []string
}

// Narrator selects narrative feed lines for resolved rooms. Pools are keyed
// by encounter type; rooms resolved without a tactic fall back to a generic
// pool. Scripts may append extra lines at startup via Add.
//
// Not safe for concurrent mutation; build and extend a Narrator before
// handing it to resolvers.
type Narrator struct {
	pools   map[dungeon.EncounterType]*linePool
	generic *linePool
}

// NewNarrator returns a Narrator preloaded with the built-in line pools.
//
// Postcondition: Every encounter type has at least one success and one
// failure line.
func NewNarrator() *Narrator {
	return &Narrator{
		pools: map[dungeon.EncounterType]*linePool{
			dungeon.EncounterCombat: {
				success: []string{
					"Steel flashes as the party executes {tactic}, cutting the enemy down.",
					"The {tactic} breaks the enemy line; the room falls silent.",
					"Blades and fury: {tactic} carries the day.",
				},
				failure: []string{
					"The {tactic} falters and the party retreats, bloodied.",
					"The enemy weathers the {tactic} and answers with savage blows.",
				},
			},
			dungeon.EncounterPuzzle: {
				success: []string{
					"Patient minds unravel the mechanism; {tactic} proves exactly right.",
					"A click, a whirr — the {tactic} springs the ancient lock open.",
				},
				failure: []string{
					"The {tactic} jams the mechanism; gears grind and something bites back.",
					"Wrong lever. The room punishes the party's {tactic} without mercy.",
				},
			},
			dungeon.EncounterTrap: {
				success: []string{
					"With {tactic}, the party threads the trapped floor untouched.",
					"Pressure plates sigh harmlessly as the {tactic} guides every step.",
				},
				failure: []string{
					"A plate sinks underfoot; the {tactic} was a half-step too slow.",
					"Darts hiss from the walls, finding gaps the {tactic} left open.",
				},
			},
			dungeon.EncounterTreasure: {
				success: []string{
					"The vault yields to {tactic}; coin and relics spill into waiting hands.",
					"Deft work — the {tactic} lifts the prize clean of its wardings.",
				},
				failure: []string{
					"The ward flares mid-{tactic}, scorching greedy fingers.",
					"The chest was bait. The {tactic} buys the party a painful lesson.",
				},
			},
			dungeon.EncounterBoss: {
				success: []string{
					"The tyrant of this hall falls at last; {tactic} ends the reign.",
					"A final roar, then stillness. The {tactic} was enough, barely.",
				},
				failure: []string{
					"The boss shrugs off the {tactic} and scatters the party like leaves.",
					"Too strong, too fast; the {tactic} buys only a desperate retreat.",
				},
			},
		},
		generic: &linePool{
			success: []string{
				"The party prevails and presses deeper into the dark.",
				"Against the odds, the room is cleared.",
			},
			failure: []string{
				"The room exacts its toll; the party staggers onward.",
				"A hard lesson, paid in blood.",
			},
		},
	}
}

// Add appends a narrative line to the pool for enc. Unknown encounter
// types are ignored; empty lines are ignored.
func (n *Narrator) Add(enc dungeon.EncounterType, success bool, line string) {
	if line == "" {
		return
	}
	p, ok := n.pools[enc]
	if !ok {
		return
	}
	if success {
		p.success = append(p.success, line)
	} else {
		p.failure = append(p.failure, line)
	}
}

// Line selects a narrative line for a resolved room. When tactic is nil the
// generic pool is used; otherwise the encounter-type pool is used and the
// "{tactic}" placeholder is filled with the tactic's name.
//
// Precondition: src must be non-nil.
// Postcondition: Returns a non-empty line.
func (n *Narrator) Line(enc dungeon.EncounterType, tactic *dungeon.Tactic, success bool, src dice.Source) string {
	p := n.generic
	if tactic != nil {
		if typed, ok := n.pools[enc]; ok {
			p = typed
		}
	}

	candidates := p.failure
	if success {
		candidates = p.success
	}
	line := candidates[src.Intn(len(candidates))]

	if tactic != nil {
		line = strings.ReplaceAll(line, "{tactic}", tactic.Name)
	}
	return line
}
