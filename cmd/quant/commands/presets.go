package commands

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/wonny/quantcore/internal/strategyconfig"
)

// loadPresetFile loads a preset YAML, prints its advisory warnings, and
// records a run snapshot so the run is tied to an exact config hash
func loadPresetFile(path string) (*strategyconfig.File, error) {
	f, raw, err := strategyconfig.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load strategies: %w", err)
	}

	for _, w := range strategyconfig.Warn(f) {
		fmt.Printf("⚠️  [%s] %s\n", w.Code, w.Message)
	}

	snapshot, err := strategyconfig.NewRunSnapshot(f, raw, filepath.Base(path))
	if err != nil {
		return nil, fmt.Errorf("snapshot strategies: %w", err)
	}
	fmt.Printf("📋 Presets: %s (config %s)\n", path, snapshot.ConfigHash[:12])

	return f, nil
}

// presetNames lists the preset names in a file, for error messages
func presetNames(f *strategyconfig.File) string {
	strategies := f.Strategies()
	names := make([]string, len(strategies))
	for i, s := range strategies {
		names[i] = s.Name
	}
	return strings.Join(names, ", ")
}
