package announce

import (
	"testing"

	"github.com/vcaparica/gridforge/internal/grid"
)

func TestDefaultCatalogCoversEveryMessage(t *testing.T) {
	c := DefaultCatalog()
	ids := []string{
		"itemPlaced", "itemGrabbed", "itemMoved", "itemMovedDisplaced",
		"itemDropped", "itemRemoved", "itemTapped", "itemFlippedDown",
		"itemFlippedUp", "itemTransferred", "grabCancelled", "moveBlocked",
		"focusMoved", "focusMovedGrid", "stackSelectionChanged",
		"gridRegistered", "gridUnregistered", "gridShown", "gridHidden",
	}
	for _, id := range ids {
		if _, exists := c.Messages[id]; !exists {
			t.Errorf("default catalog is missing %q", id)
		}
	}
}

func TestRender(t *testing.T) {
	c := Catalog{Messages: map[string]string{
		"greet":   "{item} at column {column}",
		"static":  "nothing here",
		"unknown": "value is {missing}",
	}}

	tests := []struct {
		name string
		id   string
		vars Vars
		want string
	}{
		{"interpolation", "greet", Vars{"item": "Pawn", "column": "3"}, "Pawn at column 3"},
		{"no vars", "static", nil, "nothing here"},
		{"missing id", "nope", Vars{"item": "x"}, ""},
		{"unknown placeholder stays verbatim", "unknown", Vars{"item": "x"}, "value is {missing}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.Render(tt.id, tt.vars); got != tt.want {
				t.Errorf("Render(%q) = %q, want %q", tt.id, got, tt.want)
			}
		})
	}
}

func TestMergeKeepsDefaultsForOmittedIDs(t *testing.T) {
	base := Catalog{Messages: map[string]string{"a": "base a", "b": "base b"}}
	overlay := Catalog{Messages: map[string]string{"b": "user b"}}
	merged := Merge(base, overlay)
	if merged.Messages["a"] != "base a" {
		t.Errorf("a = %q, want default kept", merged.Messages["a"])
	}
	if merged.Messages["b"] != "user b" {
		t.Errorf("b = %q, want user override", merged.Messages["b"])
	}
}

func newAnnouncedEngine(t *testing.T) (*grid.Engine, *[]string) {
	t.Helper()
	e := grid.New(grid.Options{})
	e.RegisterGrid("board", grid.GridConfig{Columns: 4, Rows: 4, Label: "Battlefield", AllowStacking: true})
	e.SetGridRendered("board", true)

	var heard []string
	a := New(e, DefaultCatalog(), func(msg string) { heard = append(heard, msg) })
	t.Cleanup(a.Close)
	return e, &heard
}

func lastOf(t *testing.T, heard []string) string {
	t.Helper()
	if len(heard) == 0 {
		t.Fatal("no announcements recorded")
	}
	return heard[len(heard)-1]
}

func TestAnnouncerRendersEngineEvents(t *testing.T) {
	e, heard := newAnnouncedEngine(t)

	e.AddItem(grid.Item{ID: "elf", Label: "Llanowar Elves", CanMove: true, CanTap: true}, "board", grid.C(1, 1))
	if got, want := lastOf(t, *heard), "Llanowar Elves placed on Battlefield at column 1, row 1"; got != want {
		t.Errorf("placed = %q, want %q", got, want)
	}

	e.Grab("elf")
	if got, want := lastOf(t, *heard), "Llanowar Elves grabbed. Use arrow keys to move, Enter to drop, Escape to cancel"; got != want {
		t.Errorf("grabbed = %q, want %q", got, want)
	}

	e.MoveGrabbed(grid.Right)
	if got, want := lastOf(t, *heard), "Llanowar Elves moved to column 2, row 1"; got != want {
		t.Errorf("moved = %q, want %q", got, want)
	}

	e.MoveGrabbed(grid.Up)
	if got, want := lastOf(t, *heard), "Edge of grid"; got != want {
		t.Errorf("blocked = %q, want %q", got, want)
	}

	e.Drop()
	if got, want := lastOf(t, *heard), "Llanowar Elves dropped at column 2, row 1"; got != want {
		t.Errorf("dropped = %q, want %q", got, want)
	}

	e.TapClockwise("elf")
	e.TapClockwise("elf")
	if got, want := lastOf(t, *heard), "Llanowar Elves tapped"; got != want {
		t.Errorf("tapped = %q, want %q", got, want)
	}

	e.FlipItem("elf")
	if got, want := lastOf(t, *heard), "Llanowar Elves turned face down"; got != want {
		t.Errorf("flipped = %q, want %q", got, want)
	}
}

func TestAnnouncerStackSelectionPosition(t *testing.T) {
	e, heard := newAnnouncedEngine(t)
	for _, id := range []string{"one", "two", "three"} {
		e.AddItem(grid.Item{ID: id, Label: id, CanMove: true}, "board", grid.C(2, 2))
	}
	e.SetFocusedGrid("board")
	e.SetFocusedCell(grid.C(2, 2))

	// First "next" selects the occupant just under the top: position 2 of 3.
	e.CycleStackSelection(grid.CycleNext)
	if got, want := lastOf(t, *heard), "two, 2 of 3 in stack"; got != want {
		t.Errorf("selection = %q, want %q", got, want)
	}
}

func TestAnnouncerFocusAcrossGrids(t *testing.T) {
	e, heard := newAnnouncedEngine(t)
	e.RegisterGrid("hand", grid.GridConfig{Columns: 5, Rows: 1, Type: grid.Grid1D, Label: "Hand"})
	e.SetGridRendered("hand", true)

	e.SetFocusedGrid("board")
	if got, want := lastOf(t, *heard), "Battlefield. Column 1, row 1"; got != want {
		t.Errorf("grid focus = %q, want %q", got, want)
	}
	e.MoveFocus(grid.Right)
	if got, want := lastOf(t, *heard), "Column 2, row 1"; got != want {
		t.Errorf("cell focus = %q, want %q", got, want)
	}
	e.SetFocusedGrid("hand")
	if got, want := lastOf(t, *heard), "Hand. Column 2, row 1"; got != want {
		t.Errorf("grid switch = %q, want %q", got, want)
	}
}

func TestAnnouncerCloseStopsDelivery(t *testing.T) {
	e := grid.New(grid.Options{})
	e.RegisterGrid("board", grid.GridConfig{Columns: 2, Rows: 2, Label: "Board"})
	e.SetGridRendered("board", true)

	var heard []string
	a := New(e, DefaultCatalog(), func(msg string) { heard = append(heard, msg) })
	e.AddItem(grid.Item{ID: "a", Label: "a"}, "board", grid.C(1, 1))
	before := len(heard)
	a.Close()
	e.AddItem(grid.Item{ID: "b", Label: "b"}, "board", grid.C(2, 2))
	if len(heard) != before {
		t.Errorf("heard %d announcements after Close, want %d", len(heard), before)
	}
	if a.Last() == "" {
		t.Error("Last() empty, want the final pre-close announcement retained")
	}
}
