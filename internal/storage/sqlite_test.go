package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/vcaparica/gridforge/internal/grid"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreSaveAndRetrieve(t *testing.T) {
	store := openTestStore(t)

	records := []SessionRecord{
		{Layout: "cardtable", Strategy: "stack", Moves: 12, Blocked: 3, Taps: 4, DurationSecs: 90},
		{Layout: "cardtable", Strategy: "swap", Moves: 7, Transfers: 2, DurationSecs: 45},
		{Layout: "inventory", Strategy: "swap", Moves: 20, Flips: 1, DurationSecs: 120},
	}
	for _, rec := range records {
		if _, err := store.SaveSession(rec); err != nil {
			t.Fatalf("SaveSession() failed: %v", err)
		}
	}

	recent, err := store.RecentSessions(10)
	if err != nil {
		t.Fatalf("RecentSessions() failed: %v", err)
	}
	if len(recent) != 3 {
		t.Fatalf("Expected 3 sessions, got %d", len(recent))
	}
	// Most recent insert first.
	if recent[0].Layout != "inventory" || recent[0].Moves != 20 {
		t.Errorf("Unexpected first record: %+v", recent[0])
	}

	cardtable, err := store.LayoutSessions("cardtable", 10)
	if err != nil {
		t.Fatalf("LayoutSessions() failed: %v", err)
	}
	if len(cardtable) != 2 {
		t.Errorf("Expected 2 cardtable sessions, got %d", len(cardtable))
	}
	for _, rec := range cardtable {
		if rec.Layout != "cardtable" {
			t.Errorf("LayoutSessions returned %q record", rec.Layout)
		}
	}
}

func TestStoreRecentSessionsLimit(t *testing.T) {
	store := openTestStore(t)

	for i := 0; i < 5; i++ {
		store.SaveSession(SessionRecord{Layout: "cardtable", Strategy: "block", Moves: i})
	}

	recent, err := store.RecentSessions(3)
	if err != nil {
		t.Fatalf("RecentSessions() failed: %v", err)
	}
	if len(recent) != 3 {
		t.Errorf("Expected 3 sessions with limit, got %d", len(recent))
	}
	if recent[0].Moves != 4 {
		t.Errorf("Expected newest session first, got moves=%d", recent[0].Moves)
	}
}

func TestStoreLayoutStats(t *testing.T) {
	store := openTestStore(t)

	stats, err := store.GetLayoutStats("cardtable")
	if err != nil {
		t.Fatalf("GetLayoutStats() failed: %v", err)
	}
	if stats.SessionsCount != 0 {
		t.Errorf("Expected 0 sessions for fresh layout, got %d", stats.SessionsCount)
	}

	store.SaveSession(SessionRecord{Layout: "cardtable", Strategy: "stack", Moves: 10, DurationSecs: 60})
	store.SaveSession(SessionRecord{Layout: "cardtable", Strategy: "stack", Moves: 30, DurationSecs: 120})
	store.SaveSession(SessionRecord{Layout: "inventory", Strategy: "swap", Moves: 99, DurationSecs: 10})

	stats, err = store.GetLayoutStats("cardtable")
	if err != nil {
		t.Fatalf("GetLayoutStats() failed: %v", err)
	}
	if stats.SessionsCount != 2 {
		t.Errorf("Expected 2 sessions, got %d", stats.SessionsCount)
	}
	if stats.TotalMoves != 40 {
		t.Errorf("Expected 40 total moves, got %d", stats.TotalMoves)
	}
	if stats.AvgDuration != 90 {
		t.Errorf("Expected avg duration 90, got %f", stats.AvgDuration)
	}
}

func TestStoreClearSessions(t *testing.T) {
	store := openTestStore(t)

	store.SaveSession(SessionRecord{Layout: "cardtable", Strategy: "stack"})
	store.SaveSession(SessionRecord{Layout: "cardtable", Strategy: "stack"})
	store.SaveSession(SessionRecord{Layout: "inventory", Strategy: "swap"})

	if err := store.ClearSessions("cardtable"); err != nil {
		t.Fatalf("ClearSessions() failed: %v", err)
	}

	cardtable, _ := store.LayoutSessions("cardtable", 10)
	if len(cardtable) != 0 {
		t.Errorf("Expected 0 cardtable sessions after clear, got %d", len(cardtable))
	}
	inventory, _ := store.LayoutSessions("inventory", 10)
	if len(inventory) != 1 {
		t.Errorf("Inventory sessions should not be affected by clearing cardtable")
	}
}

func TestStoreNestedPath(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "subdir", "deep", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() with nested path failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created in nested directory")
	}
}

func TestTallyCountsEvents(t *testing.T) {
	e := grid.New(grid.Options{})
	e.RegisterGrid("board", grid.GridConfig{Columns: 3, Rows: 3, Label: "Board"})
	e.SetGridRendered("board", true)
	e.AddItem(grid.Item{ID: "x", Label: "X", CanMove: true, CanTap: true}, "board", grid.C(1, 1))

	tally := NewTally(e)
	e.Grab("x")
	e.MoveGrabbed(grid.Right) // moved
	e.MoveGrabbed(grid.Up)    // blocked at the edge
	e.Drop()
	e.TapClockwise("x")
	e.FlipItem("x")
	e.TransferItem("x", "board", grid.C(3, 3))

	rec := tally.Record("cardtable", "block")
	if rec.Moves != 1 || rec.Blocked != 1 || rec.Taps != 1 || rec.Flips != 1 || rec.Transfers != 1 {
		t.Errorf("tally = %+v, want one of each event kind", rec)
	}
	if rec.Layout != "cardtable" || rec.Strategy != "block" {
		t.Errorf("tally labels = %q/%q", rec.Layout, rec.Strategy)
	}

	// Record unsubscribes: further events must not count.
	e.TapClockwise("x")
	rec2 := tally.Record("cardtable", "block")
	if rec2.Taps != 1 {
		t.Errorf("taps after Record = %d, want unchanged 1", rec2.Taps)
	}
}
