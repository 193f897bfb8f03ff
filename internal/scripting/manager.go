package scripting

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/delve/internal/game/dungeon"
	"github.com/cory-johannsen/delve/internal/game/encounter"
)

// Manager loads narrative extension scripts into a Narrator. Each script runs
// once in a sandboxed VM with a `narrative` table exposing:
//
//	narrative.add(encounter_type, outcome, line)
//
// where encounter_type is one of "combat", "puzzle", "trap", "treasure",
// "boss", outcome is "success" or "failure", and line is the narrative text
// (the "{tactic}" placeholder is supported).
type Manager struct {
	narrator *encounter.Narrator
	logger   *zap.Logger
}

// NewManager creates a Manager appending to the given narrator.
//
// Precondition: narrator and logger must be non-nil.
func NewManager(narrator *encounter.Narrator, logger *zap.Logger) *Manager {
	return &Manager{
		narrator: narrator,
		logger:   logger,
	}
}

// LoadDir executes every *.lua file in scriptDir in lexicographic order,
// each in its own sandboxed VM limited to instLimit opcodes.
//
// Precondition: scriptDir must be a readable directory.
// Postcondition: Narrative lines registered by the scripts are appended to
// the narrator; returns error on the first Lua load failure.
func (m *Manager) LoadDir(scriptDir string, instLimit int) error {
	entries, err := os.ReadDir(scriptDir)
	if err != nil {
		return fmt.Errorf("scripting: reading script dir %q: %w", scriptDir, err)
	}

	var luaFiles []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".lua" {
			luaFiles = append(luaFiles, filepath.Join(scriptDir, e.Name()))
		}
	}
	sort.Strings(luaFiles)

	for _, path := range luaFiles {
		if err := m.loadFile(path, instLimit); err != nil {
			return err
		}
		m.logger.Info("narrative script loaded",
			zap.String("path", path),
		)
	}
	return nil
}

func (m *Manager) loadFile(path string, instLimit int) error {
	L, cancel := NewSandboxedState(instLimit)
	defer cancel()
	defer L.Close()

	m.registerNarrativeModule(L, path)

	if err := L.DoFile(path); err != nil {
		return fmt.Errorf("scripting: loading %q: %w", path, err)
	}
	return nil
}

// registerNarrativeModule defines the `narrative` table in L. Lines with an
// unknown encounter type or outcome are logged at Warn level and skipped;
// content mistakes never abort startup.
func (m *Manager) registerNarrativeModule(L *lua.LState, path string) {
	narrative := L.NewTable()
	L.SetField(narrative, "add", L.NewFunction(func(L *lua.LState) int {
		encName := L.CheckString(1)
		outcome := L.CheckString(2)
		line := L.CheckString(3)

		enc := dungeon.EncounterType(encName)
		if !enc.Valid() {
			m.logger.Warn("narrative script: unknown encounter type",
				zap.String("path", path),
				zap.String("encounter_type", encName),
			)
			return 0
		}

		var success bool
		switch outcome {
		case "success":
			success = true
		case "failure":
			success = false
		default:
			m.logger.Warn("narrative script: unknown outcome",
				zap.String("path", path),
				zap.String("outcome", outcome),
			)
			return 0
		}

		m.narrator.Add(enc, success, line)
		return 0
	}))
	L.SetGlobal("narrative", narrative)
}
