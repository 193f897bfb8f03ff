package loot

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/cory-johannsen/delve/internal/game/dice"
	"github.com/cory-johannsen/delve/internal/game/dungeon"
	"github.com/cory-johannsen/delve/internal/game/encounter"
)

// Item is a single generated item instance.
//
// InstanceID is identity, minted fresh on every generation; it is the only
// field outside the deterministic contract of Generate.
type Item struct {
	ItemDefID  string
	InstanceID string
	Quantity   int
	OwnerID    string
}

// luckChanceStep is the per-point-of-luck addition to every drop chance.
const luckChanceStep = 0.002

// Generator rolls completion loot from tier tables.
type Generator struct {
	tables map[dungeon.LootTier]*Table
}

// NewGenerator builds a Generator from validated tables.
//
// Precondition: every table must have passed Validate().
// Postcondition: Returns an error if two tables share a tier.
func NewGenerator(tables []*Table) (*Generator, error) {
	byTier := make(map[dungeon.LootTier]*Table, len(tables))
	for _, t := range tables {
		if _, dup := byTier[t.Tier]; dup {
			return nil, fmt.Errorf("duplicate loot table for tier %q", t.Tier)
		}
		byTier[t.Tier] = t
	}
	return &Generator{tables: byTier}, nil
}

// Generate rolls loot for a successful run: one pass over the tier table
// with chances raised by luck, the difficulty tier, and the party's class
// loot bonus, plus one guaranteed draw for every room whose bonus-loot roll
// hit during the run.
//
// Item selection and quantities are fully determined by src; only the
// minted InstanceIDs differ between identically seeded invocations. Safe to
// call with an empty results slice and with tiers that have no table
// (yields no items).
//
// Precondition: src must be non-nil; luck must be >= 0.
// Postcondition: Every returned item has Quantity >= 1 and a non-empty
// InstanceID; OwnerID is left empty for the caller to assign.
func (g *Generator) Generate(
	tier dungeon.LootTier,
	luck int,
	results []encounter.RoomResult,
	difficulty dungeon.DifficultyTier,
	classBonus float64,
	src dice.Source,
) []Item {
	table, ok := g.tables[tier]
	if !ok || len(table.Items) == 0 {
		return nil
	}

	chanceBoost := float64(luck)*luckChanceStep + classBonus + (difficulty.RewardMultiplier()-1)*0.1

	var items []Item
	for _, drop := range table.Items {
		chance := drop.Chance + chanceBoost
		if chance > 1 {
			chance = 1
		}
		if src.Float64() < chance {
			items = append(items, mintItem(drop, src))
		}
	}

	// Bonus-loot rooms each guarantee one extra draw from the table.
	for _, res := range results {
		if !res.LootDropped {
			continue
		}
		drop := table.Items[src.Intn(len(table.Items))]
		items = append(items, mintItem(drop, src))
	}

	return items
}

func mintItem(drop ItemDrop, src dice.Source) Item {
	qty := drop.MinQty
	if spread := drop.MaxQty - drop.MinQty; spread > 0 {
		qty += src.Intn(spread + 1)
	}
	return Item{
		ItemDefID:  drop.ItemID,
		InstanceID: uuid.New().String(),
		Quantity:   qty,
	}
}
