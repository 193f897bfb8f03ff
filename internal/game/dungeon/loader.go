package dungeon

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/delve/internal/game/stats"
)

// yamlDungeonFile is the top-level YAML structure for dungeon files.
type yamlDungeonFile struct {
	Dungeon yamlDungeon `yaml:"dungeon"`
}

// yamlDungeon is the YAML representation of a dungeon.
type yamlDungeon struct {
	Name           string     `yaml:"name"`
	Tier           string     `yaml:"tier"`
	BaseExperience int        `yaml:"base_experience"`
	BaseGold       int        `yaml:"base_gold"`
	Loot           string     `yaml:"loot"`
	Rooms          []yamlRoom `yaml:"rooms"`
}

// yamlRoom is the YAML representation of a room.
type yamlRoom struct {
	Name            string       `yaml:"name"`
	PrimaryStat     string       `yaml:"primary_stat"`
	Encounter       string       `yaml:"encounter"`
	Difficulty      int          `yaml:"difficulty"`
	Boss            bool         `yaml:"boss"`
	BonusLootChance float64      `yaml:"bonus_loot_chance"`
	Tactics         []yamlTactic `yaml:"tactics"`
}

// yamlTactic is the YAML representation of a tactic.
type yamlTactic struct {
	Name          string  `yaml:"name"`
	Description   string  `yaml:"description"`
	Icon          string  `yaml:"icon"`
	PrimaryStat   string  `yaml:"primary_stat"`
	PowerModifier float64 `yaml:"power_modifier"`
	RiskModifier  float64 `yaml:"risk_modifier"`
}

// LoadFromFile reads and validates a single dungeon YAML file.
//
// Precondition: path must point to a valid YAML dungeon file.
// Postcondition: Returns a validated Dungeon or a non-nil error.
func LoadFromFile(path string) (*Dungeon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading dungeon file %s: %w", path, err)
	}
	d, err := LoadFromBytes(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}

// LoadFromBytes parses and validates a dungeon from YAML bytes.
//
// Precondition: data must be valid YAML conforming to the dungeon schema.
// Postcondition: Returns a validated Dungeon or a non-nil error.
func LoadFromBytes(data []byte) (*Dungeon, error) {
	var file yamlDungeonFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing dungeon YAML: %w", err)
	}

	d := convertYAMLDungeon(file.Dungeon)
	if err := d.Validate(); err != nil {
		return nil, fmt.Errorf("validating dungeon: %w", err)
	}
	return d, nil
}

// LoadFromDir loads all .yaml files in dir as dungeons, sorted by file name.
//
// Precondition: dir must be a readable directory path.
// Postcondition: Returns all validated dungeons or the first error encountered.
func LoadFromDir(dir string) ([]*Dungeon, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading dungeon directory %s: %w", dir, err)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	sort.Strings(paths)

	dungeons := make([]*Dungeon, 0, len(paths))
	for _, path := range paths {
		d, err := LoadFromFile(path)
		if err != nil {
			return nil, err
		}
		dungeons = append(dungeons, d)
	}
	return dungeons, nil
}

func convertYAMLDungeon(y yamlDungeon) *Dungeon {
	d := &Dungeon{
		Name:           y.Name,
		Tier:           DifficultyTier(y.Tier),
		BaseExperience: y.BaseExperience,
		BaseGold:       y.BaseGold,
		Loot:           LootTier(y.Loot),
		Rooms:          make([]Room, 0, len(y.Rooms)),
	}
	for _, yr := range y.Rooms {
		d.Rooms = append(d.Rooms, convertYAMLRoom(yr))
	}
	return d
}

func convertYAMLRoom(y yamlRoom) Room {
	r := Room{
		Name:            y.Name,
		PrimaryStat:     stats.Name(y.PrimaryStat),
		Encounter:       EncounterType(y.Encounter),
		Difficulty:      y.Difficulty,
		Boss:            y.Boss,
		BonusLootChance: y.BonusLootChance,
		Tactics:         make([]Tactic, 0, len(y.Tactics)),
	}
	for _, yt := range y.Tactics {
		t := Tactic{
			Name:          yt.Name,
			Description:   yt.Description,
			Icon:          yt.Icon,
			PrimaryStat:   stats.Name(yt.PrimaryStat),
			PowerModifier: yt.PowerModifier,
			RiskModifier:  yt.RiskModifier,
		}
		// Tactics may omit modifiers; missing values mean neutral.
		if t.PowerModifier == 0 {
			t.PowerModifier = 1.0
		}
		if t.RiskModifier == 0 {
			t.RiskModifier = 1.0
		}
		if t.PrimaryStat == "" {
			t.PrimaryStat = r.PrimaryStat
		}
		r.Tactics = append(r.Tactics, t)
	}
	return r
}
