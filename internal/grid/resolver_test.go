package grid

import "testing"

// resolverFixture builds an engine used purely as the resolver's read-only
// view: a 5x5 board with a mover at (1,1) and occupants stacked at (3,1).
func resolverFixture(t *testing.T, occupantCount int) (*Engine, Item, Cell, []Item) {
	t.Helper()
	e := New(Options{Strategy: Stack{}})
	e.RegisterGrid("board", GridConfig{Columns: 5, Rows: 5, Label: "Board", AllowStacking: true})
	if r := e.AddItem(Item{ID: "mover", Label: "mover", CanMove: true}, "board", C(1, 1)); !r.OK {
		t.Fatalf("AddItem(mover) failed: %v", r.Err)
	}
	for i := 0; i < occupantCount; i++ {
		id := string(rune('a' + i))
		if r := e.AddItem(Item{ID: id, Label: id, CanMove: true}, "board", C(3, 1)); !r.OK {
			t.Fatalf("AddItem(%s) failed: %v", id, r.Err)
		}
	}
	mover, _ := e.GetItem("mover")
	cell, _ := e.CellAt("board", C(3, 1))
	return e, mover, cell, e.GetItemsAt("board", C(3, 1))
}

func TestResolveSwapDisplacesTopToMoverCell(t *testing.T) {
	e, mover, cell, occupants := resolverFixture(t, 2)
	res := Resolve(Swap{}, mover, cell, occupants, GridConfig{Columns: 5, Rows: 5}, e, nil)

	if res.Action != ActionSwap {
		t.Fatalf("action = %q, want swap", res.Action)
	}
	if len(res.Displaced) != 1 {
		t.Fatalf("displaced %d items, want 1", len(res.Displaced))
	}
	d := res.Displaced[0]
	if d.ItemID != "b" {
		t.Errorf("displaced %q, want top-of-stack \"b\"", d.ItemID)
	}
	if !d.To.Equal(C(1, 1)) {
		t.Errorf("displaced to %v, want mover's cell %v", d.To, C(1, 1))
	}
}

func TestResolvePush(t *testing.T) {
	right := Right

	t.Run("no direction blocks", func(t *testing.T) {
		e, mover, cell, occupants := resolverFixture(t, 1)
		res := Resolve(Push{}, mover, cell, occupants, GridConfig{Columns: 5, Rows: 5}, e, nil)
		if res.Action != ActionBlock {
			t.Errorf("action = %q, want block", res.Action)
		}
	})

	t.Run("free destination displaces all occupants one step", func(t *testing.T) {
		e, mover, cell, occupants := resolverFixture(t, 2)
		res := Resolve(Push{}, mover, cell, occupants, GridConfig{Columns: 5, Rows: 5}, e, &right)
		if res.Action != ActionDisplace {
			t.Fatalf("action = %q, want displace", res.Action)
		}
		if len(res.Displaced) != 2 {
			t.Fatalf("displaced %d items, want 2", len(res.Displaced))
		}
		for _, d := range res.Displaced {
			if !d.To.Equal(C(4, 1)) {
				t.Errorf("occupant %s pushed to %v, want %v", d.ItemID, d.To, C(4, 1))
			}
		}
	})

	t.Run("occupied destination blocks instead of chaining", func(t *testing.T) {
		e, mover, cell, occupants := resolverFixture(t, 1)
		if r := e.AddItem(Item{ID: "wall", Label: "wall"}, "board", C(4, 1)); !r.OK {
			t.Fatalf("AddItem(wall) failed: %v", r.Err)
		}
		res := Resolve(Push{}, mover, cell, occupants, GridConfig{Columns: 5, Rows: 5}, e, &right)
		if res.Action != ActionBlock {
			t.Errorf("action = %q, want block (push never cascades)", res.Action)
		}
	})

	t.Run("edge of grid blocks", func(t *testing.T) {
		e, mover, cell, occupants := resolverFixture(t, 1)
		res := Resolve(Push{}, mover, cell, occupants, GridConfig{Columns: 3, Rows: 1}, e, &right)
		if res.Action != ActionBlock {
			t.Errorf("action = %q, want block", res.Action)
		}
	})
}

func TestResolveStack(t *testing.T) {
	t.Run("under the cap stacks", func(t *testing.T) {
		e, mover, cell, occupants := resolverFixture(t, 2)
		res := Resolve(Stack{}, mover, cell, occupants, GridConfig{Columns: 5, Rows: 5, MaxStackSize: 3}, e, nil)
		if res.Action != ActionStack {
			t.Errorf("action = %q, want stack", res.Action)
		}
		if res.Displaced != nil {
			t.Errorf("stack resolution displaced items: %v", res.Displaced)
		}
	})

	t.Run("at the cap blocks", func(t *testing.T) {
		e, mover, cell, occupants := resolverFixture(t, 3)
		res := Resolve(Stack{}, mover, cell, occupants, GridConfig{Columns: 5, Rows: 5, MaxStackSize: 3}, e, nil)
		if res.Action != ActionBlock {
			t.Errorf("action = %q, want block", res.Action)
		}
	})
}

func TestResolveBlock(t *testing.T) {
	e, mover, cell, occupants := resolverFixture(t, 1)
	res := Resolve(Block{}, mover, cell, occupants, GridConfig{Columns: 5, Rows: 5}, e, nil)
	if res.Action != ActionBlock {
		t.Errorf("action = %q, want block", res.Action)
	}
	if res.Message != "Cell is occupied" {
		t.Errorf("message = %q, want %q", res.Message, "Cell is occupied")
	}
}

func TestResolveReplaceMarker(t *testing.T) {
	e, mover, cell, occupants := resolverFixture(t, 2)
	res := Resolve(Replace{}, mover, cell, occupants, GridConfig{Columns: 5, Rows: 5}, e, nil)
	if res.Action != ActionAllow {
		t.Fatalf("action = %q, want allow", res.Action)
	}
	// The defined-but-empty slice distinguishes replace from a plain allow.
	if res.Displaced == nil {
		t.Error("replace resolution must carry a non-nil empty Displaced slice")
	}
	if len(res.Displaced) != 0 {
		t.Errorf("replace resolution displaced %d items, want 0", len(res.Displaced))
	}
}

func TestResolveCustomHasFullAuthority(t *testing.T) {
	e, mover, cell, occupants := resolverFixture(t, 1)
	called := false
	custom := Custom{Fn: func(m Item, target Cell, occ []Item, view View) Resolution {
		called = true
		if m.ID != mover.ID {
			t.Errorf("custom fn received mover %q, want %q", m.ID, mover.ID)
		}
		if len(occ) != 1 {
			t.Errorf("custom fn received %d occupants, want 1", len(occ))
		}
		return Resolution{Action: ActionStack, Message: "house rules"}
	}}
	res := Resolve(custom, mover, cell, occupants, GridConfig{Columns: 5, Rows: 5}, e, nil)
	if !called {
		t.Fatal("custom resolver was not invoked")
	}
	if res.Action != ActionStack || res.Message != "house rules" {
		t.Errorf("resolution = %+v, resolver did not defer to custom fn", res)
	}
}

func TestStrategyByName(t *testing.T) {
	tests := []struct {
		name string
		want ConflictStrategy
	}{
		{"swap", Swap{}},
		{"push", Push{}},
		{"stack", Stack{}},
		{"block", Block{}},
		{"replace", Replace{}},
		{"bogus", nil},
	}
	for _, tt := range tests {
		if got := StrategyByName(tt.name); got != tt.want {
			t.Errorf("StrategyByName(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}
