package announce

import (
	"strconv"

	"github.com/vcaparica/gridforge/internal/grid"
)

// Announcer turns the engine's event stream into one announcement string per
// event. It is a passive consumer: it subscribes through the public event
// surface and queries only the read-only snapshot getters.
type Announcer struct {
	engine  *grid.Engine
	catalog Catalog
	sink    func(string)
	off     func()
	last    string
}

// New subscribes an announcer to every engine event. The sink receives each
// rendered announcement; a nil sink still records Last for pull-based
// consumers like a status line. Call Close to unsubscribe.
func New(e *grid.Engine, c Catalog, sink func(string)) *Announcer {
	a := &Announcer{engine: e, catalog: c, sink: sink}
	a.off = e.OnAny(func(ev grid.Event) {
		msg := a.render(ev)
		if msg == "" {
			return
		}
		a.last = msg
		if a.sink != nil {
			a.sink(msg)
		}
	})
	return a
}

// Last returns the most recent announcement.
func (a *Announcer) Last() string { return a.last }

// Close unsubscribes from the engine.
func (a *Announcer) Close() {
	if a.off != nil {
		a.off()
		a.off = nil
	}
}

func (a *Announcer) render(ev grid.Event) string {
	switch e := ev.(type) {
	case grid.ItemPlaced:
		return a.catalog.Render("itemPlaced", Vars{
			"item":   e.Item.Label,
			"grid":   a.gridLabel(e.GridID),
			"column": strconv.Itoa(e.At.Column),
			"row":    strconv.Itoa(e.At.Row),
		})
	case grid.ItemGrabbed:
		return a.catalog.Render("itemGrabbed", Vars{"item": e.Item.Label})
	case grid.ItemMoved:
		vars := Vars{
			"item":   e.Item.Label,
			"column": strconv.Itoa(e.To.Column),
			"row":    strconv.Itoa(e.To.Row),
		}
		if len(e.Displaced) > 0 {
			vars["count"] = strconv.Itoa(len(e.Displaced))
			return a.catalog.Render("itemMovedDisplaced", vars)
		}
		return a.catalog.Render("itemMoved", vars)
	case grid.ItemDropped:
		return a.catalog.Render("itemDropped", Vars{
			"item":   e.Item.Label,
			"column": strconv.Itoa(e.At.Column),
			"row":    strconv.Itoa(e.At.Row),
		})
	case grid.ItemRemoved:
		return a.catalog.Render("itemRemoved", Vars{
			"item": e.Item.Label,
			"grid": a.gridLabel(e.GridID),
		})
	case grid.ItemTapped:
		return a.catalog.Render("itemTapped", Vars{
			"item":  e.Item.Label,
			"angle": e.NewAngle.Label(),
		})
	case grid.ItemFlipped:
		id := "itemFlippedUp"
		if e.FaceDown {
			id = "itemFlippedDown"
		}
		return a.catalog.Render(id, Vars{"item": e.Item.Label})
	case grid.ItemTransferred:
		return a.catalog.Render("itemTransferred", Vars{
			"item":   e.Item.Label,
			"grid":   a.gridLabel(e.ToGrid),
			"column": strconv.Itoa(e.To.Column),
			"row":    strconv.Itoa(e.To.Row),
		})
	case grid.GrabCancelled:
		return a.catalog.Render("grabCancelled", Vars{
			"item":   e.Item.Label,
			"column": strconv.Itoa(e.At.Column),
			"row":    strconv.Itoa(e.At.Row),
		})
	case grid.MoveBlocked:
		return a.catalog.Render("moveBlocked", Vars{"message": e.Message})
	case grid.FocusMoved:
		if e.To == nil {
			return ""
		}
		vars := Vars{
			"column": strconv.Itoa(e.To.Column),
			"row":    strconv.Itoa(e.To.Row),
		}
		if e.ToGrid != e.FromGrid {
			vars["grid"] = a.gridLabel(e.ToGrid)
			return a.catalog.Render("focusMovedGrid", vars)
		}
		return a.catalog.Render("focusMoved", vars)
	case grid.StackSelectionChanged:
		count := len(a.engine.GetItemsAt(e.GridID, e.At))
		// Screen-reader position counts from the top of the stack.
		position := count - e.SelectedIndex
		return a.catalog.Render("stackSelectionChanged", Vars{
			"item":     e.Item.Label,
			"position": strconv.Itoa(position),
			"count":    strconv.Itoa(count),
		})
	case grid.GridRegistered:
		return a.catalog.Render("gridRegistered", Vars{"grid": e.Config.Label})
	case grid.GridUnregistered:
		return a.catalog.Render("gridUnregistered", Vars{"grid": e.GridID})
	case grid.GridRenderStateChanged:
		id := "gridHidden"
		if e.Rendered {
			id = "gridShown"
		}
		return a.catalog.Render(id, Vars{"grid": a.gridLabel(e.GridID)})
	default:
		return ""
	}
}

func (a *Announcer) gridLabel(id string) string {
	if st, exists := a.engine.GetGrid(id); exists && st.Config.Label != "" {
		return st.Config.Label
	}
	return id
}
