// Package layouts provides a global registry of board layouts. Built-in
// layouts register themselves in init(), so commands discover them without
// hardcoded names; user layout files join through Register at startup.
package layouts

import (
	"fmt"
	"sort"
	"sync"

	"github.com/vcaparica/gridforge/internal/config"
	"github.com/vcaparica/gridforge/internal/grid"
)

// Factory produces a layout definition. Factories run on every Build so a
// file-backed layout picks up edits without restarting.
type Factory func() (config.Layout, error)

// Info contains metadata about a registered layout.
type Info struct {
	Name        string
	Description string
}

var (
	factories    = make(map[string]Factory)
	descriptions = make(map[string]string)
	mu           sync.RWMutex
)

func init() {
	for _, name := range config.BuiltinLayouts() {
		name := name
		Register(name, func() (config.Layout, error) {
			return config.LoadLayout(name, "")
		})
	}
}

// Register adds a layout factory to the registry.
// Panics if a layout with the same name is already registered.
func Register(name string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[name]; exists {
		panic(fmt.Sprintf("layouts: layout %q already registered", name))
	}
	factories[name] = f

	// Resolve the description once so List never hits the filesystem.
	if l, err := f(); err == nil {
		descriptions[name] = l.Description
	}
}

// List returns information about all registered layouts, sorted by name.
func List() []Info {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]Info, 0, len(factories))
	for name := range factories {
		result = append(result, Info{Name: name, Description: descriptions[name]})
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})
	return result
}

// Exists checks whether a layout name is registered.
func Exists(name string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, exists := factories[name]
	return exists
}

// Session couples a built engine with the layout that produced it.
type Session struct {
	Layout config.Layout
	Engine *grid.Engine
}

// BuildOptions tunes engine construction.
type BuildOptions struct {
	// Strategy overrides the layout's declared conflict strategy.
	Strategy grid.ConflictStrategy
}

// Build instantiates an engine from a registered layout: grids registered
// and rendered, blocked cells marked, starting items placed and initial
// focus set.
func Build(name string, opts BuildOptions) (*Session, error) {
	mu.RLock()
	f, exists := factories[name]
	mu.RUnlock()
	if !exists {
		return nil, fmt.Errorf("layouts: unknown layout %q", name)
	}
	l, err := f()
	if err != nil {
		return nil, fmt.Errorf("layouts: cannot load layout %q: %w", name, err)
	}
	return BuildFrom(l, opts)
}

// BuildFrom instantiates an engine from an already-loaded layout, e.g. one
// read from a user-supplied file.
func BuildFrom(l config.Layout, opts BuildOptions) (*Session, error) {
	if err := l.Validate(); err != nil {
		return nil, err
	}

	strategy := opts.Strategy
	if strategy == nil && l.Strategy != "" {
		strategy = grid.StrategyByName(l.Strategy)
	}
	e := grid.New(grid.Options{Strategy: strategy})

	for _, g := range l.Grids {
		e.RegisterGrid(g.ID, g.Config)
		e.SetGridRendered(g.ID, true)
		for _, key := range g.Blocked {
			at, err := grid.ParseKey(key)
			if err != nil {
				return nil, err
			}
			if r := e.SetCellBlocked(g.ID, at, true); !r.OK {
				return nil, fmt.Errorf("layouts: cannot block %s on %q: %w", key, g.ID, r.Err)
			}
		}
	}

	for _, li := range l.Items {
		at, err := grid.ParseKey(li.At)
		if err != nil {
			return nil, err
		}
		it := grid.Item{
			ID:        li.ID,
			Label:     li.Label,
			CanMove:   li.CanMove,
			CanRemove: li.CanRemove,
			CanTap:    li.CanTap,
			FaceDown:  li.FaceDown,
		}
		if r := e.AddItem(it, li.Grid, at); !r.OK {
			return nil, fmt.Errorf("layouts: cannot place %q at %s on %q: %w", li.ID, li.At, li.Grid, r.Err)
		}
	}

	if l.Focus != "" {
		e.SetFocusedGrid(l.Focus)
	}
	return &Session{Layout: l, Engine: e}, nil
}
