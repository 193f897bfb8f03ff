package run

import (
	"fmt"
	"time"

	"github.com/cory-johannsen/delve/internal/game/character"
	"github.com/cory-johannsen/delve/internal/game/dice"
	"github.com/cory-johannsen/delve/internal/game/dungeon"
	"github.com/cory-johannsen/delve/internal/game/encounter"
	"github.com/cory-johannsen/delve/internal/game/loot"
)

// LootGenerator is the external loot collaborator. Implementations must be
// callable with result slices of any size, including empty, and must be
// deterministic given a seeded source.
type LootGenerator interface {
	Generate(
		tier dungeon.LootTier,
		luck int,
		results []encounter.RoomResult,
		difficulty dungeon.DifficultyTier,
		classBonus float64,
		src dice.Source,
	) []loot.Item
}

// coopFlavor is the fixed phrase pool for cooperative flavor feed entries.
// Cosmetic only; these never change run state.
var coopFlavor = []string{
	"%s shouts encouragement over the din.",
	"%s keeps a torch high so nobody loses the path.",
	"%s cracks a joke that steadies everyone's nerves.",
	"%s covers the rear, eyes on the shadows.",
}

// completionSeedSalt separates the completion-assembly draw stream from the
// room-resolution stream, so idempotent re-entry regenerates identical loot
// regardless of how far the caller's source has advanced.
const completionSeedSalt = 0x4c4f4f54 // "LOOT"

// Orchestrator drives full dungeon runs: tactic selection, room resolution,
// state mutation, feed generation, and completion assembly.
//
// An Orchestrator is stateless across runs and safe to share, but a single
// Run instance must not be handed to more than one Resolve call
// concurrently; the Resolved flag is the sole guard.
type Orchestrator struct {
	resolver *encounter.Resolver
	lootGen  LootGenerator
	now      func() time.Time
}

// NewOrchestrator creates an Orchestrator.
//
// resolver may be nil (a default Resolver with built-in narrative pools is
// used). lootGen may be nil (successful runs then award no loot). now may
// be nil (time.Now is used); tests inject a fixed clock.
func NewOrchestrator(resolver *encounter.Resolver, lootGen LootGenerator, now func() time.Time) *Orchestrator {
	if resolver == nil {
		resolver = encounter.NewResolver(nil)
	}
	if now == nil {
		now = time.Now
	}
	return &Orchestrator{resolver: resolver, lootGen: lootGen, now: now}
}

// Resolve simulates every remaining room of d for r, mutating r in place,
// and returns the completion result.
//
// If r is already resolved, simulation is skipped entirely and the
// completion result is assembled from r's existing state (idempotent
// re-entry). Otherwise r is marked resolved before the first draw, rooms
// are resolved in order, and iteration stops early on a party wipe.
//
// Precondition: d must be the dungeon r was created for; src must be
// non-nil. party is read-only for the duration of the call.
// Postcondition: r.Status is terminal; r.CurrentHealth >= 0; r.RoomIndex
// never decreases; len(r.Results) is unchanged by repeated calls.
func (o *Orchestrator) Resolve(r *Run, party []*character.Character, d *dungeon.Dungeon, src dice.Source) CompletionResult {
	if r.Resolved {
		return o.assembleCompletion(r, party, d)
	}
	r.Resolved = true

	for i := r.RoomIndex; i < d.RoomCount(); i++ {
		if r.CurrentHealth <= 0 {
			break
		}
		room := d.Rooms[i]

		tactic := encounter.ChooseTactic(party, room)
		r.appendFeed(o.now(), FeedEntered, fmt.Sprintf("The party enters %s.", room.Name))
		r.appendFeed(o.now(), FeedTactic, fmt.Sprintf("Tactic chosen: %s.", tactic.Name))

		res := o.resolver.ResolveRoom(party, d, i, &tactic, src)
		r.Results = append(r.Results, res)
		r.Experience += res.Experience
		r.Gold += res.Gold
		r.CurrentHealth -= res.HealthLost
		if r.CurrentHealth < 0 {
			r.CurrentHealth = 0
		}
		r.RoomIndex = i + 1

		r.appendFeed(o.now(), FeedOutcome, res.Narrative)
		if res.LootDropped {
			r.appendFeed(o.now(), FeedLoot, fmt.Sprintf("Something glitters in the rubble of %s.", room.Name))
		}

		if r.Cooperative && len(r.Participants) > 1 {
			name := r.Participants[src.Intn(len(r.Participants))]
			phrase := coopFlavor[src.Intn(len(coopFlavor))]
			r.appendFeed(o.now(), FeedFlavor, fmt.Sprintf(phrase, name))
		}

		if r.CurrentHealth == 0 {
			r.Status = StatusFailed
			r.CompletedAt = o.now()
			r.appendFeed(r.CompletedAt, FeedFinal,
				fmt.Sprintf("The party falls in %s. %s remains unconquered.", room.Name, r.DungeonName))
			break
		}
	}

	if r.CurrentHealth > 0 {
		r.Status = StatusCompleted
		r.CompletedAt = o.now()
		r.appendFeed(r.CompletedAt, FeedFinal,
			fmt.Sprintf("%s lies conquered. The party emerges into daylight.", r.DungeonName))
	}

	return o.assembleCompletion(r, party, d)
}

// assembleCompletion builds the immutable summary from a terminal run. On
// success it invokes the loot generator with a source derived from the
// run's seed, so repeated assembly of the same run yields the same items
// (instance IDs aside), and assigns ownership of every item to the first
// party member. Cooperative successes earn the flat bond bonus.
func (o *Orchestrator) assembleCompletion(r *Run, party []*character.Character, d *dungeon.Dungeon) CompletionResult {
	success := r.Status == StatusCompleted

	result := CompletionResult{
		Success:         success,
		DungeonName:     r.DungeonName,
		TotalExperience: r.Experience,
		TotalGold:       r.Gold,
		RoomsCleared:    r.RoomsCleared(),
		RoomsTotal:      d.RoomCount(),
		RemainingHealth: r.CurrentHealth,
		MaxHealth:       r.MaxHealth,
		Results:         r.Results,
		Cooperative:     r.Cooperative,
	}

	if success && o.lootGen != nil {
		lootSrc := dice.NewSeededSource(r.Seed ^ completionSeedSalt)
		items := o.lootGen.Generate(
			d.Loot,
			encounter.MaxPartyLuck(party),
			r.Results,
			d.Tier,
			encounter.PartyLootBonus(party),
			lootSrc,
		)
		if len(party) > 0 && party[0] != nil {
			for i := range items {
				items[i].OwnerID = party[0].ID
			}
		}
		result.Loot = items
	}

	if success && r.Cooperative {
		result.BondExperience = BondExperienceBonus
	}

	return result
}

// BondExperienceBonus is the flat experience bonus awarded on successful
// cooperative runs.
const BondExperienceBonus = 25
