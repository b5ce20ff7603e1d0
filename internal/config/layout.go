// Package config provides YAML-based board layout loading for the toolkit.
// A layout declares the grids, blocked cells, starting items and conflict
// strategy of a session; the engine itself never reads files.
package config

import (
	"fmt"

	"github.com/vcaparica/gridforge/internal/grid"
)

// Layout is the YAML schema for one board layout.
type Layout struct {
	Name        string       `yaml:"name"`
	Description string       `yaml:"description"`
	Strategy    string       `yaml:"strategy"`
	Grids       []LayoutGrid `yaml:"grids"`
	Items       []LayoutItem `yaml:"items"`
	Focus       string       `yaml:"focus"`
}

// LayoutGrid declares one grid. Blocked cells are listed as "column,row"
// keys, matching the engine's cell key codec.
type LayoutGrid struct {
	ID      string          `yaml:"id"`
	Config  grid.GridConfig `yaml:",inline"`
	Blocked []string        `yaml:"blocked"`
}

// LayoutItem declares one starting item and its capabilities.
type LayoutItem struct {
	ID        string `yaml:"id"`
	Label     string `yaml:"label"`
	Grid      string `yaml:"grid"`
	At        string `yaml:"at"`
	CanMove   bool   `yaml:"can_move"`
	CanRemove bool   `yaml:"can_remove"`
	CanTap    bool   `yaml:"can_tap"`
	FaceDown  bool   `yaml:"face_down"`
}

// Validate checks a layout for the mistakes a hand-written YAML file tends to
// contain. It never touches an engine.
func (l Layout) Validate() error {
	if l.Name == "" {
		return fmt.Errorf("config: layout has no name")
	}
	if len(l.Grids) == 0 {
		return fmt.Errorf("config: layout %q declares no grids", l.Name)
	}
	if l.Strategy != "" && grid.StrategyByName(l.Strategy) == nil {
		return fmt.Errorf("config: layout %q has unknown strategy %q", l.Name, l.Strategy)
	}

	gridCfgs := make(map[string]grid.GridConfig, len(l.Grids))
	for _, g := range l.Grids {
		if g.ID == "" {
			return fmt.Errorf("config: layout %q has a grid with no id", l.Name)
		}
		if _, dup := gridCfgs[g.ID]; dup {
			return fmt.Errorf("config: layout %q declares grid %q twice", l.Name, g.ID)
		}
		if g.Config.Columns < 1 || g.Config.Rows < 1 {
			return fmt.Errorf("config: grid %q has invalid dimensions %dx%d", g.ID, g.Config.Columns, g.Config.Rows)
		}
		if g.Config.Label == "" {
			return fmt.Errorf("config: grid %q has no label", g.ID)
		}
		gridCfgs[g.ID] = g.Config
		for _, key := range g.Blocked {
			at, err := grid.ParseKey(key)
			if err != nil {
				return fmt.Errorf("config: grid %q blocked cell %q: %w", g.ID, key, err)
			}
			if !at.InBounds(g.Config) {
				return fmt.Errorf("config: grid %q blocked cell %s is out of bounds", g.ID, key)
			}
		}
	}

	itemIDs := make(map[string]struct{}, len(l.Items))
	for _, it := range l.Items {
		if it.ID == "" || it.Label == "" {
			return fmt.Errorf("config: layout %q has an item without id or label", l.Name)
		}
		if _, dup := itemIDs[it.ID]; dup {
			return fmt.Errorf("config: layout %q declares item %q twice", l.Name, it.ID)
		}
		itemIDs[it.ID] = struct{}{}
		cfg, exists := gridCfgs[it.Grid]
		if !exists {
			return fmt.Errorf("config: item %q references unknown grid %q", it.ID, it.Grid)
		}
		at, err := grid.ParseKey(it.At)
		if err != nil {
			return fmt.Errorf("config: item %q position %q: %w", it.ID, it.At, err)
		}
		if !at.InBounds(cfg) {
			return fmt.Errorf("config: item %q position %s is out of bounds on %q", it.ID, it.At, it.Grid)
		}
	}

	if l.Focus != "" {
		if _, exists := gridCfgs[l.Focus]; !exists {
			return fmt.Errorf("config: layout %q focuses unknown grid %q", l.Name, l.Focus)
		}
	}
	return nil
}
