// Package loot provides tiered loot tables and the completion loot
// generator invoked when a dungeon run succeeds.
package loot

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/delve/internal/game/dungeon"
)

// ItemDrop defines a single item entry in a loot table with a drop chance.
type ItemDrop struct {
	ItemID string  `yaml:"item"`
	Chance float64 `yaml:"chance"`
	MinQty int     `yaml:"min_qty"`
	MaxQty int     `yaml:"max_qty"`
}

// Table defines the possible drops for one loot tier.
type Table struct {
	Tier  dungeon.LootTier `yaml:"tier"`
	Items []ItemDrop       `yaml:"items"`
}

// yamlTableFile is the top-level YAML structure for loot table files.
type yamlTableFile struct {
	Table Table `yaml:"table"`
}

// Validate checks that the loot table satisfies its invariants.
//
// Precondition: t must not be nil.
// Postcondition: Returns nil iff all item constraints hold; an empty item
// list is valid.
func (t *Table) Validate() error {
	var errs []string
	if !t.Tier.Valid() {
		errs = append(errs, fmt.Sprintf("tier %q is not one of [common, uncommon, rare, epic]", t.Tier))
	}
	for i, item := range t.Items {
		if item.ItemID == "" {
			errs = append(errs, fmt.Sprintf("item[%d] must have a non-empty item id", i))
		}
		if item.Chance <= 0 || item.Chance > 1.0 {
			errs = append(errs, fmt.Sprintf("item[%d] chance must be in (0, 1.0], got %g", i, item.Chance))
		}
		if item.MinQty < 1 {
			errs = append(errs, fmt.Sprintf("item[%d] min_qty must be >= 1, got %d", i, item.MinQty))
		}
		if item.MinQty > item.MaxQty {
			errs = append(errs, fmt.Sprintf("item[%d] min_qty (%d) must be <= max_qty (%d)", i, item.MinQty, item.MaxQty))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("loot table: %s", strings.Join(errs, "; "))
	}
	return nil
}

// LoadTableFromBytes parses and validates a loot table from YAML bytes.
//
// Postcondition: Returns a validated Table or a non-nil error.
func LoadTableFromBytes(data []byte) (*Table, error) {
	var file yamlTableFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing loot table YAML: %w", err)
	}
	t := file.Table
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return &t, nil
}

// LoadTables loads all .yaml files in dir as loot tables, sorted by file name.
//
// Precondition: dir must be a readable directory path.
// Postcondition: Returns all validated tables or the first error encountered.
func LoadTables(dir string) ([]*Table, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading loot table directory %s: %w", dir, err)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	sort.Strings(paths)

	tables := make([]*Table, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading loot table %s: %w", path, err)
		}
		t, err := LoadTableFromBytes(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		tables = append(tables, t)
	}
	return tables, nil
}
