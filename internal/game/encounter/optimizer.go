package encounter

import (
	"github.com/cory-johannsen/delve/internal/game/character"
	"github.com/cory-johannsen/delve/internal/game/dungeon"
)

// ChooseTactic performs the greedy tactic selection for auto-runs: for each
// available tactic it scores the party's aggregated power over the tactic's
// primary stat times the tactic's power modifier, and returns the tactic
// with the highest score. The first tactic wins ties. Rooms with no tactics
// get the synthesized neutral default.
//
// The optimizer deliberately ignores risk modifiers and downstream reward
// bonuses: it is a myopic single-step maximizer, not an expected-value
// search.
//
// Deterministic: no randomness is drawn.
func ChooseTactic(party []*character.Character, room dungeon.Room) dungeon.Tactic {
	if len(room.Tactics) == 0 {
		return dungeon.DefaultTactic(room.PrimaryStat)
	}

	best := room.Tactics[0]
	bestScore := tacticScore(party, room, best)
	for _, tac := range room.Tactics[1:] {
		if score := tacticScore(party, room, tac); score > bestScore {
			best = tac
			bestScore = score
		}
	}
	return best
}

func tacticScore(party []*character.Character, room dungeon.Room, tac dungeon.Tactic) float64 {
	power := PartyPower(party, tac.PrimaryStat, room.Encounter, room.Boss)
	modifier := tac.PowerModifier
	if modifier <= 0 {
		modifier = 1.0
	}
	return float64(power) * modifier
}
