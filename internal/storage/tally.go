package storage

import (
	"time"

	"github.com/vcaparica/gridforge/internal/grid"
)

// Tally counts interaction events over a session so the caller can persist
// a SessionRecord when the session ends.
type Tally struct {
	start time.Time
	off   func()

	moves     int
	blocked   int
	transfers int
	taps      int
	flips     int
}

// NewTally subscribes a counter to the engine's event stream.
func NewTally(e *grid.Engine) *Tally {
	t := &Tally{start: time.Now()}
	t.off = e.OnAny(func(ev grid.Event) {
		switch ev.Type() {
		case grid.EventItemMoved:
			t.moves++
		case grid.EventMoveBlocked:
			t.blocked++
		case grid.EventItemTransferred:
			t.transfers++
		case grid.EventItemTapped:
			t.taps++
		case grid.EventItemFlipped:
			t.flips++
		}
	})
	return t
}

// Record stops counting and returns the session summary.
func (t *Tally) Record(layout, strategy string) SessionRecord {
	if t.off != nil {
		t.off()
		t.off = nil
	}
	return SessionRecord{
		Layout:       layout,
		Strategy:     strategy,
		Moves:        t.moves,
		Blocked:      t.blocked,
		Transfers:    t.transfers,
		Taps:         t.taps,
		Flips:        t.flips,
		DurationSecs: int(time.Since(t.start).Seconds()),
	}
}
