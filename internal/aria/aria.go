// Package aria derives ARIA attribute sets from engine snapshots. Builders
// are pure functions over snapshot values, so any render layer (HTML shell,
// TUI semantics dump, test harness) gets the same attributes for the same
// state.
package aria

import (
	"strconv"

	"github.com/vcaparica/gridforge/internal/grid"
)

// Attrs is a flat attribute set ready to splat onto an element.
type Attrs map[string]string

// Grid builds the container attributes. Two-dimensional grids use the grid
// role with row/column counts; one-row trays read better to screen readers as
// a listbox.
func Grid(st grid.GridState) Attrs {
	a := Attrs{"aria-label": st.Config.Label}
	if st.Config.Description != "" {
		a["aria-description"] = st.Config.Description
	}
	if oneDimensional(st.Config) {
		a["role"] = "listbox"
		a["aria-orientation"] = "horizontal"
		return a
	}
	a["role"] = "grid"
	a["aria-rowcount"] = strconv.Itoa(st.Config.Rows)
	a["aria-colcount"] = strconv.Itoa(st.Config.Columns)
	return a
}

// oneDimensional honors a declared grid type for role choice, falling back
// to the row count only when the type is unset.
func oneDimensional(cfg grid.GridConfig) bool {
	switch cfg.Type {
	case grid.Grid1D:
		return true
	case grid.Grid2D:
		return false
	}
	return cfg.OneDimensional()
}

// CellState carries the per-cell flags the builder cannot read from the
// snapshot alone.
type CellState struct {
	Focused  bool
	Selected bool
}

// Cell builds one cell's attributes. Blocked cells surface as disabled, and
// the tabindex implements roving focus: only the focused cell is tabbable.
func Cell(st grid.GridState, at grid.Coord, s CellState) Attrs {
	a := Attrs{
		"aria-colindex": strconv.Itoa(at.Column),
	}
	if oneDimensional(st.Config) {
		a["role"] = "option"
	} else {
		a["role"] = "gridcell"
		a["aria-rowindex"] = strconv.Itoa(at.Row)
	}
	if c, exists := st.Cells[at.Key()]; exists {
		if c.Blocked {
			a["aria-disabled"] = "true"
		}
		if c.DropTarget {
			a["aria-dropeffect"] = "move"
		}
	}
	if s.Selected {
		a["aria-selected"] = "true"
	}
	if s.Focused {
		a["tabindex"] = "0"
	} else {
		a["tabindex"] = "-1"
	}
	return a
}

// Item builds an item's attributes. The accessible name folds in the tap
// label and the face-down state, so a rotated or hidden item always announces
// as such.
func Item(it grid.Item, grabbed bool) Attrs {
	label := it.Label
	if it.TapAngle != 0 {
		label = grid.TappedLabel(it.Label, it.TapAngle)
	}
	if it.FaceDown {
		label += ", face down"
	}
	a := Attrs{
		"role":       "img",
		"aria-label": label,
	}
	if grabbed {
		a["aria-grabbed"] = "true"
	}
	if !it.CanMove {
		a["aria-readonly"] = "true"
	}
	return a
}
