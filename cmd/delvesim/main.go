// Package main provides an offline run simulator: it resolves one dungeon
// run for a synthetic party and prints the narrative feed and completion
// summary. Useful for balancing content without a database.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/cory-johannsen/delve/internal/game/character"
	"github.com/cory-johannsen/delve/internal/game/dice"
	"github.com/cory-johannsen/delve/internal/game/dungeon"
	"github.com/cory-johannsen/delve/internal/game/encounter"
	"github.com/cory-johannsen/delve/internal/game/loot"
	"github.com/cory-johannsen/delve/internal/game/run"
	"github.com/cory-johannsen/delve/internal/game/ruleset"
)

func main() {
	dungeonPath := flag.String("dungeon", "", "path to a dungeon YAML file (required)")
	lootDir := flag.String("loot", "", "directory of loot table YAML files; empty = no loot")
	classes := flag.String("party", "warrior", "comma-separated party classes")
	level := flag.Int("level", 1, "party member level")
	seed := flag.Int64("seed", time.Now().UnixNano(), "run seed; rerun with the same seed to replay")
	coop := flag.Bool("coop", false, "treat the run as cooperative")
	flag.Parse()

	if *dungeonPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	d, err := dungeon.LoadFromFile(*dungeonPath)
	if err != nil {
		log.Fatalf("loading dungeon: %v", err)
	}

	party, err := buildParty(*classes, *level)
	if err != nil {
		log.Fatalf("building party: %v", err)
	}

	var lootGen run.LootGenerator
	if *lootDir != "" {
		tables, err := loot.LoadTables(*lootDir)
		if err != nil {
			log.Fatalf("loading loot tables: %v", err)
		}
		gen, err := loot.NewGenerator(tables)
		if err != nil {
			log.Fatalf("building loot generator: %v", err)
		}
		lootGen = gen
	}

	r := run.New(d, party, *coop, nil, *seed, time.Now())
	orchestrator := run.NewOrchestrator(encounter.NewResolver(nil), lootGen, nil)
	completion := orchestrator.Resolve(r, party, d, dice.NewSeededSource(*seed))

	fmt.Printf("== %s (seed %d) ==\n\n", d.Name, *seed)
	for _, entry := range r.Feed {
		fmt.Printf("[%-7s] %s\n", entry.Kind, entry.Message)
	}

	fmt.Println()
	outcome := "FAILED"
	if completion.Success {
		outcome = "COMPLETED"
	}
	fmt.Printf("%s: %d/%d rooms cleared\n", outcome, completion.RoomsCleared, completion.RoomsTotal)
	fmt.Printf("health   %d/%d\n", completion.RemainingHealth, completion.MaxHealth)
	fmt.Printf("exp      %d", completion.TotalExperience)
	if completion.BondExperience > 0 {
		fmt.Printf(" (+%d bond)", completion.BondExperience)
	}
	fmt.Println()
	fmt.Printf("gold     %d\n", completion.TotalGold)
	for _, item := range completion.Loot {
		fmt.Printf("loot     %s x%d\n", item.ItemDefID, item.Quantity)
	}
}

// buildParty creates one synthetic character per class name, leveled with
// the same stat curve new characters get.
func buildParty(classList string, level int) ([]*character.Character, error) {
	var party []*character.Character
	for i, name := range strings.Split(classList, ",") {
		class := ruleset.Class(strings.TrimSpace(name))
		if !class.Valid() || class == ruleset.ClassNone {
			return nil, fmt.Errorf("unknown class %q", name)
		}

		c := character.New(fmt.Sprintf("Sim%d", i+1), class)
		for lvl := 1; lvl < level; lvl++ {
			c.Level++
			c.Stats = c.Stats.Add(class.KeyStat(), 1)
			c.MaxHealth = character.MaxHealthForLevel(c.Level)
		}
		c.Stats = c.Stats.Clamped()
		party = append(party, c)
	}
	if len(party) == 0 {
		return nil, fmt.Errorf("party must not be empty")
	}
	return party, nil
}
