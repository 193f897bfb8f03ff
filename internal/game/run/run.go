// Package run implements the dungeon run state machine: run state, the
// narrative feed, orchestration across rooms, and completion assembly.
package run

import (
	"time"

	"github.com/google/uuid"

	"github.com/cory-johannsen/delve/internal/game/character"
	"github.com/cory-johannsen/delve/internal/game/dungeon"
	"github.com/cory-johannsen/delve/internal/game/encounter"
	"github.com/cory-johannsen/delve/internal/game/loot"
)

// Status is the run lifecycle state. Terminal statuses never revert.
type Status string

const (
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// Terminal reports whether s is a terminal status.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// FeedKind classifies a narrative feed entry.
type FeedKind string

const (
	FeedEntered FeedKind = "entered"
	FeedTactic  FeedKind = "tactic"
	FeedOutcome FeedKind = "outcome"
	FeedLoot    FeedKind = "loot"
	FeedFlavor  FeedKind = "flavor"
	FeedFinal   FeedKind = "final"
)

// FeedEntry is one line of the append-only narrative feed.
type FeedEntry struct {
	At      time.Time
	Kind    FeedKind
	Message string
}

// Run is the mutable simulation state for one dungeon attempt. It is
// created in progress, mutated only by the Orchestrator, and becomes
// immutable once Status reaches a terminal state.
//
// Invariants: CurrentHealth is never negative; RoomIndex only increases;
// a Run is simulated at most once (the Resolved flag short-circuits
// re-entry to completion assembly).
type Run struct {
	ID          string
	DungeonName string

	// Seed drives every random draw of this run's resolution, so a
	// re-resolved run replays identically.
	Seed int64

	RoomIndex     int
	CurrentHealth int
	MaxHealth     int
	Experience    int
	Gold          int

	Results []encounter.RoomResult
	Status  Status

	// Resolved guards against double processing: it is set before any
	// randomness is drawn, so a second concurrent resolution of the same
	// instance takes the idempotent completion path.
	Resolved bool

	Feed []FeedEntry

	Cooperative  bool
	Participants []string

	// PartyIDs records the character IDs attempting this run, so a
	// persisted run can reload its party for resolution.
	PartyIDs []string

	StartedAt   time.Time
	CompletedAt time.Time
}

// New creates an in-progress Run for party attempting d.
//
// The party's maximum health values pool into a single run health bar.
// participants lists display names for the feed; when nil, the party
// members' names are used.
//
// Precondition: d must be validated; party should be non-empty (an empty
// party is tolerated and will simply fail rooms at the floor chance).
// Postcondition: Status == StatusInProgress, Resolved == false,
// CurrentHealth == MaxHealth >= 1.
func New(d *dungeon.Dungeon, party []*character.Character, cooperative bool, participants []string, seed int64, now time.Time) *Run {
	maxHealth := 0
	for _, m := range party {
		if m != nil {
			maxHealth += m.MaxHealth
		}
	}
	if maxHealth < 1 {
		maxHealth = 1
	}

	if participants == nil {
		for _, m := range party {
			if m != nil {
				participants = append(participants, m.Name)
			}
		}
	}

	var partyIDs []string
	for _, m := range party {
		if m != nil {
			partyIDs = append(partyIDs, m.ID)
		}
	}

	return &Run{
		ID:            uuid.New().String(),
		DungeonName:   d.Name,
		Seed:          seed,
		CurrentHealth: maxHealth,
		MaxHealth:     maxHealth,
		Status:        StatusInProgress,
		Cooperative:   cooperative,
		Participants:  participants,
		PartyIDs:      partyIDs,
		StartedAt:     now,
	}
}

// appendFeed adds one entry to the narrative feed.
func (r *Run) appendFeed(at time.Time, kind FeedKind, message string) {
	r.Feed = append(r.Feed, FeedEntry{At: at, Kind: kind, Message: message})
}

// RoomsCleared returns the number of successfully resolved rooms.
func (r *Run) RoomsCleared() int {
	cleared := 0
	for _, res := range r.Results {
		if res.Success {
			cleared++
		}
	}
	return cleared
}

// CompletionResult is the immutable summary of a finished run.
type CompletionResult struct {
	Success         bool
	DungeonName     string
	TotalExperience int
	TotalGold       int
	RoomsCleared    int
	RoomsTotal      int
	RemainingHealth int
	MaxHealth       int
	Loot            []loot.Item
	Results         []encounter.RoomResult
	Cooperative     bool
	BondExperience  int
}
