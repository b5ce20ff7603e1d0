package aria

import (
	"testing"

	"github.com/vcaparica/gridforge/internal/grid"
)

func TestGridAttrs(t *testing.T) {
	tests := []struct {
		name string
		cfg  grid.GridConfig
		want Attrs
	}{
		{
			name: "two dimensional board",
			cfg:  grid.GridConfig{Columns: 4, Rows: 3, Label: "Board"},
			want: Attrs{"role": "grid", "aria-label": "Board", "aria-rowcount": "3", "aria-colcount": "4"},
		},
		{
			name: "one row tray reads as listbox",
			cfg:  grid.GridConfig{Columns: 6, Rows: 1, Type: grid.Grid1D, Label: "Hand"},
			want: Attrs{"role": "listbox", "aria-label": "Hand", "aria-orientation": "horizontal"},
		},
		{
			name: "declared type wins over row count",
			cfg:  grid.GridConfig{Columns: 6, Rows: 1, Type: grid.Grid2D, Label: "Strip"},
			want: Attrs{"role": "grid", "aria-label": "Strip", "aria-rowcount": "1", "aria-colcount": "6"},
		},
		{
			name: "unset type falls back to row count",
			cfg:  grid.GridConfig{Columns: 6, Rows: 1, Label: "Hand"},
			want: Attrs{"role": "listbox", "aria-label": "Hand", "aria-orientation": "horizontal"},
		},
		{
			name: "description carried through",
			cfg:  grid.GridConfig{Columns: 2, Rows: 2, Label: "Pile", Description: "discard pile"},
			want: Attrs{"role": "grid", "aria-label": "Pile", "aria-description": "discard pile", "aria-rowcount": "2", "aria-colcount": "2"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Grid(grid.GridState{Config: tt.cfg})
			assertAttrs(t, got, tt.want)
		})
	}
}

func TestCellAttrs(t *testing.T) {
	st := grid.GridState{
		Config: grid.GridConfig{Columns: 3, Rows: 3, Label: "Board"},
		Cells: map[string]grid.Cell{
			"2,2": {Coord: grid.C(2, 2), Blocked: true},
			"3,1": {Coord: grid.C(3, 1), DropTarget: true},
		},
	}

	t.Run("plain cell", func(t *testing.T) {
		got := Cell(st, grid.C(1, 1), CellState{})
		assertAttrs(t, got, Attrs{
			"role": "gridcell", "aria-rowindex": "1", "aria-colindex": "1", "tabindex": "-1",
		})
	})
	t.Run("blocked cell is disabled", func(t *testing.T) {
		got := Cell(st, grid.C(2, 2), CellState{})
		if got["aria-disabled"] != "true" {
			t.Errorf("aria-disabled = %q, want true", got["aria-disabled"])
		}
	})
	t.Run("drop target", func(t *testing.T) {
		got := Cell(st, grid.C(3, 1), CellState{})
		if got["aria-dropeffect"] != "move" {
			t.Errorf("aria-dropeffect = %q, want move", got["aria-dropeffect"])
		}
	})
	t.Run("focused cell is the tab stop", func(t *testing.T) {
		got := Cell(st, grid.C(1, 1), CellState{Focused: true, Selected: true})
		if got["tabindex"] != "0" {
			t.Errorf("tabindex = %q, want 0", got["tabindex"])
		}
		if got["aria-selected"] != "true" {
			t.Errorf("aria-selected = %q, want true", got["aria-selected"])
		}
	})
	t.Run("one dimensional cell is an option without rowindex", func(t *testing.T) {
		tray := grid.GridState{Config: grid.GridConfig{Columns: 6, Rows: 1, Type: grid.Grid1D, Label: "Hand"}}
		got := Cell(tray, grid.C(4, 1), CellState{})
		if got["role"] != "option" {
			t.Errorf("role = %q, want option", got["role"])
		}
		if _, present := got["aria-rowindex"]; present {
			t.Error("one dimensional cell should not carry aria-rowindex")
		}
	})
}

func TestItemAttrs(t *testing.T) {
	tests := []struct {
		name      string
		item      grid.Item
		grabbed   bool
		wantLabel string
	}{
		{"upright", grid.Item{Label: "Ace of Spades", CanMove: true}, false, "Ace of Spades"},
		{"tapped", grid.Item{Label: "Llanowar Elves", TapAngle: 90, CanMove: true}, false, "Llanowar Elves, tapped"},
		{"face down", grid.Item{Label: "Morph", FaceDown: true, CanMove: true}, false, "Morph, face down"},
		{"tapped and face down", grid.Item{Label: "Trap", TapAngle: 180, FaceDown: true, CanMove: true}, false, "Trap, inverted, face down"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Item(tt.item, tt.grabbed)
			if got["aria-label"] != tt.wantLabel {
				t.Errorf("aria-label = %q, want %q", got["aria-label"], tt.wantLabel)
			}
		})
	}

	t.Run("grabbed flag", func(t *testing.T) {
		got := Item(grid.Item{Label: "Pawn", CanMove: true}, true)
		if got["aria-grabbed"] != "true" {
			t.Errorf("aria-grabbed = %q, want true", got["aria-grabbed"])
		}
	})
	t.Run("immovable item is readonly", func(t *testing.T) {
		got := Item(grid.Item{Label: "Anchor"}, false)
		if got["aria-readonly"] != "true" {
			t.Errorf("aria-readonly = %q, want true", got["aria-readonly"])
		}
	})
}

func assertAttrs(t *testing.T, got, want Attrs) {
	t.Helper()
	if len(got) != len(want) {
		t.Errorf("got %d attributes %v, want %d %v", len(got), got, len(want), want)
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("attr %q = %q, want %q", k, got[k], v)
		}
	}
}
