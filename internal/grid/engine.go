package grid

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

// Engine owns all mutable grid, cell and item state and every state
// transition. It is single-threaded and synchronous: each operation runs to
// completion, mutating state before emitting its event(s), so synchronous
// subscribers always observe committed state. Expected refusals come back as
// failed Results; precondition violations (duplicate or unknown registry ids,
// focus calls with no grids) panic.
type Engine struct {
	strategy ConflictStrategy
	grids    map[string]*gridRecord
	items    map[string]*Item
	bus      *bus

	focusedGridID string
	focusedCell   *Coord
	// lastFocus remembers each grid's last focused cell so tabbing away and
	// back restores the position. Entries are always in that grid's bounds.
	lastFocus map[string]Coord

	grabbedItemID          string
	grabbedFromGrid        string
	grabbedFrom            Coord
	activeDropTargetGridID string

	// grabProbe is the last blocked-cell target of a directed grabbed move.
	// It lets key-repeat traverse a run of blocked cells one call at a
	// time: each blocked call reports moveBlocked and advances the probe,
	// and the first free cell receives the item.
	grabProbe *Coord

	selectedStackIndex *int

	now func() time.Time
}

// Options configures a new Engine.
type Options struct {
	// Strategy decides occupied-cell moves. Defaults to Block.
	Strategy ConflictStrategy
	// Now supplies event timestamps. Defaults to time.Now. Injectable for
	// deterministic tests.
	Now func() time.Time
}

// New creates an empty engine in navigation mode.
func New(opts Options) *Engine {
	if opts.Strategy == nil {
		opts.Strategy = Block{}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Engine{
		strategy:  opts.Strategy,
		grids:     make(map[string]*gridRecord),
		items:     make(map[string]*Item),
		bus:       newBus(),
		lastFocus: make(map[string]Coord),
		now:       opts.Now,
	}
}

// On subscribes a handler to one event type and returns its unsubscribe
// closure.
func (e *Engine) On(t EventType, h Handler) func() {
	return e.bus.on(t, h)
}

// OnAny subscribes a handler to every event type.
func (e *Engine) OnAny(h Handler) func() {
	return e.bus.onAny(h)
}

func (e *Engine) stamp() stamp {
	return stamp{At: e.now()}
}

func (e *Engine) emit(ev Event) {
	e.bus.emit(ev)
}

// Mode reports the interaction mode, derived from whether an item is grabbed.
func (e *Engine) Mode() Mode {
	if e.grabbedItemID != "" {
		return ModeGrabbing
	}
	return ModeNavigation
}

// --- grid registry ---

// RegisterGrid adds a grid to the registry. A registration collision or a
// non-positive dimension is a programmer error and panics. New grids start
// not rendered.
func (e *Engine) RegisterGrid(id string, cfg GridConfig) Result {
	if _, exists := e.grids[id]; exists {
		panic(fmt.Sprintf("grid: grid %q already registered", id))
	}
	if cfg.Columns < 1 || cfg.Rows < 1 {
		panic(fmt.Sprintf("grid: grid %q has invalid dimensions %dx%d", id, cfg.Columns, cfg.Rows))
	}
	if cfg.Type == "" {
		if cfg.OneDimensional() {
			cfg.Type = Grid1D
		} else {
			cfg.Type = Grid2D
		}
	}
	e.grids[id] = &gridRecord{
		id:      id,
		cfg:     cfg,
		cells:   make(map[string]*Cell),
		itemIDs: make(map[string]struct{}),
	}
	ev := GridRegistered{stamp: e.stamp(), GridID: id, Config: cfg}
	e.emit(ev)
	return ok(ev)
}

// UnregisterGrid removes a grid and destroys every item it owns. Panics if
// the grid is unknown. An active grab sourced from this grid is cancelled in
// place, and focus pointing at it is cleared.
func (e *Engine) UnregisterGrid(id string) Result {
	g, exists := e.grids[id]
	if !exists {
		panic(fmt.Sprintf("grid: grid %q is not registered", id))
	}

	for itemID := range g.itemIDs {
		if itemID == e.grabbedItemID {
			e.clearGrab()
		}
		delete(e.items, itemID)
	}
	if e.grabbedFromGrid == id {
		e.clearGrab()
	}
	delete(e.grids, id)
	delete(e.lastFocus, id)

	if e.focusedGridID == id {
		from := e.focusedCell
		e.focusedGridID = ""
		e.focusedCell = nil
		e.selectedStackIndex = nil
		e.emit(FocusMoved{stamp: e.stamp(), FromGrid: id, From: from})
	}

	ev := GridUnregistered{stamp: e.stamp(), GridID: id}
	e.emit(ev)
	return ok(ev)
}

// SetGridRendered toggles whether a UI surface currently exists for the grid.
// The flag gates grabbing from the grid and focus following items into it; it
// never gates transfers or ownership. Panics if the grid is unknown.
func (e *Engine) SetGridRendered(id string, rendered bool) Result {
	g := e.mustGrid(id)
	g.rendered = rendered
	ev := GridRenderStateChanged{stamp: e.stamp(), GridID: id, Rendered: rendered}
	e.emit(ev)
	return ok(ev)
}

// SetCellBlocked marks a cell permanently non-enterable, or clears the mark.
// Blocking is board setup, not user interaction, so it sits outside the
// interaction event stream. Panics if the grid is unknown.
func (e *Engine) SetCellBlocked(gridID string, at Coord, blocked bool) Result {
	g := e.mustGrid(gridID)
	if !at.InBounds(g.cfg) {
		return fail(ErrOutOfBounds)
	}
	if blocked {
		g.ensureCell(at).Blocked = true
	} else if c := g.cellAt(at); c != nil {
		c.Blocked = false
		g.dropCellIfEmpty(at)
	}
	return Result{OK: true}
}

// SetDropTarget sets the transient UI hint on a cell. The engine never reads
// it; it exists for renderers. Panics if the grid is unknown.
func (e *Engine) SetDropTarget(gridID string, at Coord, on bool) Result {
	g := e.mustGrid(gridID)
	if !at.InBounds(g.cfg) {
		return fail(ErrOutOfBounds)
	}
	if on {
		g.ensureCell(at).DropTarget = true
	} else if c := g.cellAt(at); c != nil {
		c.DropTarget = false
		g.dropCellIfEmpty(at)
	}
	return Result{OK: true}
}

func (e *Engine) mustGrid(id string) *gridRecord {
	g, exists := e.grids[id]
	if !exists {
		panic(fmt.Sprintf("grid: grid %q is not registered", id))
	}
	return g
}

// --- item lifecycle ---

// AddItem places a new item on a grid. The tap angle is forced to 0
// regardless of the caller-supplied value.
func (e *Engine) AddItem(it Item, gridID string, at Coord) Result {
	g, exists := e.grids[gridID]
	if !exists {
		return fail(ErrUnknownGrid)
	}
	if it.ID == "" || it.Label == "" {
		return fail(ErrInvalidItem)
	}
	if _, dup := e.items[it.ID]; dup {
		return fail(ErrDuplicateItem)
	}
	if !at.InBounds(g.cfg) {
		return fail(ErrOutOfBounds)
	}
	if err := e.checkTarget(g, at); err != nil {
		return fail(err)
	}

	it.TapAngle = 0
	it.GridID = gridID
	it.Coord = at
	stored := it
	e.items[it.ID] = &stored
	c := g.ensureCell(at)
	c.ItemIDs = append(c.ItemIDs, it.ID)
	g.itemIDs[it.ID] = struct{}{}

	ev := ItemPlaced{stamp: e.stamp(), Item: it, GridID: gridID, At: at}
	e.emit(ev)
	return ok(ev)
}

// checkTarget validates a destination cell the way AddItem does: blocked
// cells, stacking permission and the stack cap.
func (e *Engine) checkTarget(g *gridRecord, at Coord) error {
	c := g.cellAt(at)
	if c == nil {
		return nil
	}
	if c.Blocked {
		return ErrCellBlocked
	}
	if len(c.ItemIDs) > 0 {
		if !g.cfg.AllowStacking {
			return ErrStackingOff
		}
		if g.cfg.MaxStackSize > 0 && len(c.ItemIDs) >= g.cfg.MaxStackSize {
			return ErrStackLimit
		}
	}
	return nil
}

// RemoveItem destroys an item. If the item is currently grabbed the grab is
// silently cancelled first.
func (e *Engine) RemoveItem(id string) Result {
	it, exists := e.items[id]
	if !exists {
		return fail(ErrUnknownItem)
	}
	if !it.CanRemove {
		return fail(ErrCannotRemove)
	}
	if e.grabbedItemID == id {
		e.clearGrab()
	}
	snapshot := *it
	e.deleteItem(it)
	ev := ItemRemoved{stamp: e.stamp(), Item: snapshot, GridID: snapshot.GridID, At: snapshot.Coord}
	e.emit(ev)
	return ok(ev)
}

// deleteItem unlinks an item from its cell and grid and drops it from the
// registry. Both sides of the ownership invariant update together.
func (e *Engine) deleteItem(it *Item) {
	if g, exists := e.grids[it.GridID]; exists {
		if c := g.cellAt(it.Coord); c != nil {
			c.ItemIDs = removeID(c.ItemIDs, it.ID)
			g.dropCellIfEmpty(it.Coord)
		}
		delete(g.itemIDs, it.ID)
	}
	delete(e.items, it.ID)
}

// relocate moves an item between cells, and between grids when they differ,
// keeping cell membership and the per-grid ownership index in step.
func (e *Engine) relocate(it *Item, to *gridRecord, at Coord) {
	if from, exists := e.grids[it.GridID]; exists {
		if c := from.cellAt(it.Coord); c != nil {
			c.ItemIDs = removeID(c.ItemIDs, it.ID)
			from.dropCellIfEmpty(it.Coord)
		}
		if from != to {
			delete(from.itemIDs, it.ID)
		}
	}
	to.itemIDs[it.ID] = struct{}{}
	to.ensureCell(at).ItemIDs = append(to.ensureCell(at).ItemIDs, it.ID)
	it.GridID = to.id
	it.Coord = at
}

func removeID(ids []string, id string) []string {
	for i, v := range ids {
		if v == id {
			return append(ids[:i:i], ids[i+1:]...)
		}
	}
	return ids
}

// --- grab state machine ---

// Grab picks up an item, entering grabbing mode. The item's owning grid must
// be rendered; items on off-screen grids cannot be picked up.
func (e *Engine) Grab(id string) Result {
	if e.grabbedItemID != "" {
		return fail(ErrAlreadyGrabbed)
	}
	it, exists := e.items[id]
	if !exists {
		return fail(ErrUnknownItem)
	}
	if !it.CanMove {
		return fail(ErrCannotMove)
	}
	g := e.grids[it.GridID]
	if g == nil || !g.rendered {
		return fail(ErrGridNotRendered)
	}

	e.grabbedItemID = id
	e.grabbedFromGrid = it.GridID
	e.grabbedFrom = it.Coord
	e.activeDropTargetGridID = it.GridID
	e.clearStackSelectionFor(id)

	ev := ItemGrabbed{stamp: e.stamp(), Item: *it, GridID: it.GridID, From: it.Coord}
	e.emit(ev)
	return ok(ev)
}

// clearStackSelectionFor drops the stack selection when the selected occupant
// itself is the item being grabbed.
func (e *Engine) clearStackSelectionFor(id string) {
	if e.selectedStackIndex == nil || e.focusedCell == nil {
		return
	}
	occupants := e.occupantIDs(e.focusedGridID, *e.focusedCell)
	idx := *e.selectedStackIndex
	if idx >= 0 && idx < len(occupants) && occupants[idx] == id {
		e.selectedStackIndex = nil
	}
}

func (e *Engine) occupantIDs(gridID string, at Coord) []string {
	g, exists := e.grids[gridID]
	if !exists {
		return nil
	}
	c := g.cellAt(at)
	if c == nil {
		return nil
	}
	return c.ItemIDs
}

// MoveGrabbed moves the grabbed item one cell in the given direction within
// its current grid. A single call targets only the immediately adjacent cell;
// traversing a run of blocked cells takes repeated calls, each of which
// reports moveBlocked on its own before the first free cell receives the item.
func (e *Engine) MoveGrabbed(d Direction) MoveResult {
	it, g, res := e.grabbedItemAndGrid()
	if !res.OK {
		return MoveResult{Result: res}
	}
	base := it.Coord
	if e.grabProbe != nil {
		base = *e.grabProbe
	}
	target := base.Step(d)
	mr := e.moveGrabbedInto(it, g, target, &d)
	switch {
	case mr.OK:
		e.grabProbe = nil
	case errors.Is(mr.Err, ErrCellBlocked):
		probe := target
		e.grabProbe = &probe
	case errors.Is(mr.Err, ErrCellOccupied):
		e.grabProbe = nil
	}
	return mr
}

// MoveGrabbedTo moves the grabbed item to an arbitrary cell of an arbitrary
// grid. No direction reaches the resolver, so the push strategy always blocks
// here. Moving into a non-rendered grid succeeds, but focus stays behind.
func (e *Engine) MoveGrabbedTo(gridID string, at Coord) MoveResult {
	it, _, res := e.grabbedItemAndGrid()
	if !res.OK {
		return MoveResult{Result: res}
	}
	g, exists := e.grids[gridID]
	if !exists {
		return failMove(ErrUnknownGrid)
	}
	e.grabProbe = nil
	return e.moveGrabbedInto(it, g, at, nil)
}

func (e *Engine) grabbedItemAndGrid() (*Item, *gridRecord, Result) {
	if e.grabbedItemID == "" {
		return nil, nil, fail(ErrNothingGrabbed)
	}
	it, exists := e.items[e.grabbedItemID]
	if !exists {
		return nil, nil, fail(ErrUnknownItem)
	}
	g, exists := e.grids[it.GridID]
	if !exists {
		return nil, nil, fail(ErrUnknownGrid)
	}
	return it, g, Result{OK: true}
}

// moveGrabbedInto validates the target cell, consults the resolver when it is
// occupied, applies the resolution and moves the item.
func (e *Engine) moveGrabbedInto(it *Item, g *gridRecord, target Coord, dir *Direction) MoveResult {
	if it.GridID == g.id && target.Equal(it.Coord) {
		// Re-targeting the cell the item already occupies is a no-op.
		return MoveResult{Result: Result{OK: true}, ToGrid: g.id, To: target}
	}
	if !target.InBounds(g.cfg) {
		return e.blockMove(it, g, target, BlockedOutOfBounds, "Edge of grid", ErrOutOfBounds)
	}
	cell := g.cellAt(target)
	if cell != nil && cell.Blocked {
		return e.blockMove(it, g, target, BlockedCell, "Cell is blocked", ErrCellBlocked)
	}

	from := it.Coord
	fromGrid := it.GridID
	var displaced []Displacement

	if cell != nil && len(cell.ItemIDs) > 0 {
		res := Resolve(e.strategy, *it, cell.clone(), e.GetItemsAt(g.id, target), g.cfg, e, dir)
		var mr MoveResult
		displaced, mr = e.applyResolution(it, g, target, cell, res)
		if !mr.OK && mr.Err != nil {
			return mr
		}
	}

	e.relocate(it, g, target)
	e.activeDropTargetGridID = g.id
	e.selectedStackIndex = nil

	ev := ItemMoved{
		stamp:     e.stamp(),
		Item:      *it,
		FromGrid:  fromGrid,
		ToGrid:    g.id,
		From:      from,
		To:        target,
		Displaced: displaced,
	}
	e.emit(ev)
	e.followFocus(fromGrid, from, g, target)

	return MoveResult{Result: ok(ev), ToGrid: g.id, To: target, Displaced: displaced}
}

// blockMove emits the moveBlocked event and returns the matching failed
// result, the one case that is simultaneously a failed Result and an event.
func (e *Engine) blockMove(it *Item, g *gridRecord, target Coord, reason BlockReason, msg string, err error) MoveResult {
	e.emit(MoveBlocked{
		stamp:   e.stamp(),
		ItemID:  it.ID,
		GridID:  g.id,
		Target:  target,
		Reason:  reason,
		Message: msg,
	})
	return failMove(err)
}

// applyResolution carries out a resolver decision against the target cell.
// It returns the displacements performed; a failed MoveResult means the move
// must abort.
func (e *Engine) applyResolution(it *Item, g *gridRecord, target Coord, cell *Cell, res Resolution) ([]Displacement, MoveResult) {
	switch res.Action {
	case ActionBlock:
		msg := res.Message
		if msg == "" {
			msg = "Cell is occupied"
		}
		err := fmt.Errorf("%s: %w", msg, ErrCellOccupied)
		return nil, e.blockMove(it, g, target, BlockedOccupied, msg, err)

	case ActionStack:
		return nil, MoveResult{Result: Result{OK: true}}

	case ActionAllow:
		if res.Displaced == nil {
			// Plain allow: the mover simply joins the cell.
			return nil, MoveResult{Result: Result{OK: true}}
		}
		// The defined-but-empty Displaced slice is the replace signal:
		// every current occupant is removed outright before the mover
		// takes the cell.
		for _, occID := range append([]string(nil), cell.ItemIDs...) {
			occ, exists := e.items[occID]
			if !exists {
				continue
			}
			snapshot := *occ
			e.deleteItem(occ)
			e.emit(ItemRemoved{stamp: e.stamp(), Item: snapshot, GridID: snapshot.GridID, At: snapshot.Coord})
		}
		return nil, MoveResult{Result: Result{OK: true}}

	case ActionSwap, ActionDisplace:
		performed := make([]Displacement, 0, len(res.Displaced))
		for _, d := range res.Displaced {
			occ, exists := e.items[d.ItemID]
			if !exists {
				continue
			}
			destGrid := g
			if d.ToGrid != "" && d.ToGrid != g.id {
				if dg, found := e.grids[d.ToGrid]; found {
					destGrid = dg
				}
			}
			fromGrid := occ.GridID
			from := occ.Coord
			e.relocate(occ, destGrid, d.To)
			e.emit(ItemMoved{
				stamp:    e.stamp(),
				Item:     *occ,
				FromGrid: fromGrid,
				ToGrid:   destGrid.id,
				From:     from,
				To:       d.To,
			})
			performed = append(performed, Displacement{ItemID: d.ItemID, To: d.To, ToGrid: destGrid.id})
		}
		return performed, MoveResult{Result: Result{OK: true}}

	default:
		err := fmt.Errorf("unrecognized resolution action %q: %w", res.Action, ErrCellOccupied)
		return nil, e.blockMove(it, g, target, BlockedOccupied, "Cell is occupied", err)
	}
}

// followFocus moves the logical focus along with the item it was tracking.
// Focus never follows onto a non-rendered grid; off-screen moves must not
// orphan keyboard focus.
func (e *Engine) followFocus(fromGrid string, from Coord, to *gridRecord, at Coord) {
	if e.focusedGridID != fromGrid || e.focusedCell == nil || !e.focusedCell.Equal(from) {
		return
	}
	if !to.rendered {
		return
	}
	e.setFocus(to.id, at)
}

// Drop releases the grabbed item where it currently sits and returns to
// navigation mode.
func (e *Engine) Drop() Result {
	if e.grabbedItemID == "" {
		return fail(ErrNothingGrabbed)
	}
	it := e.items[e.grabbedItemID]
	e.clearGrab()
	ev := ItemDropped{stamp: e.stamp(), Item: *it, GridID: it.GridID, At: it.Coord}
	e.emit(ev)
	return ok(ev)
}

// CancelGrab abandons the grab, returning the item to its pre-grab grid and
// coordinates and undoing any cross-grid move made while grabbing. Focus that
// was tracking the item is restored to the original cell.
func (e *Engine) CancelGrab() Result {
	if e.grabbedItemID == "" {
		return fail(ErrNothingGrabbed)
	}
	it := e.items[e.grabbedItemID]
	origGrid, origCoord := e.grabbedFromGrid, e.grabbedFrom

	tracking := e.focusedGridID == it.GridID &&
		e.focusedCell != nil && e.focusedCell.Equal(it.Coord)

	if g, exists := e.grids[origGrid]; exists {
		e.relocate(it, g, origCoord)
		if tracking && g.rendered {
			e.setFocus(origGrid, origCoord)
		}
	}
	e.clearGrab()

	ev := GrabCancelled{stamp: e.stamp(), Item: *it, GridID: it.GridID, At: it.Coord}
	e.emit(ev)
	return ok(ev)
}

func (e *Engine) clearGrab() {
	e.grabbedItemID = ""
	e.grabProbe = nil
	e.grabbedFromGrid = ""
	e.grabbedFrom = Coord{}
	e.activeDropTargetGridID = ""
}

// TransferItem relocates an item directly, without grab mediation or a mode
// change. The destination is validated like an AddItem target. Same-grid
// calls still emit itemTransferred; transfer is its own operation, not the
// cross-grid case of a grabbed move.
func (e *Engine) TransferItem(id, toGridID string, at Coord) Result {
	it, exists := e.items[id]
	if !exists {
		return fail(ErrUnknownItem)
	}
	g, found := e.grids[toGridID]
	if !found {
		return fail(ErrUnknownGrid)
	}
	if !at.InBounds(g.cfg) {
		return fail(ErrOutOfBounds)
	}
	if err := e.checkTarget(g, at); err != nil {
		return fail(err)
	}

	fromGrid := it.GridID
	from := it.Coord
	e.relocate(it, g, at)

	ev := ItemTransferred{
		stamp:    e.stamp(),
		Item:     *it,
		FromGrid: fromGrid,
		ToGrid:   toGridID,
		From:     from,
		To:       at,
	}
	e.emit(ev)
	return ok(ev)
}

// --- tap and flip ---

// TapClockwise rotates an item one 45° step clockwise.
func (e *Engine) TapClockwise(id string) Result {
	return e.tap(id, func(a TapAngle) TapAngle { return a.Clockwise() })
}

// TapCounterClockwise rotates an item one 45° step counterclockwise.
func (e *Engine) TapCounterClockwise(id string) Result {
	return e.tap(id, func(a TapAngle) TapAngle { return a.CounterClockwise() })
}

func (e *Engine) tap(id string, step func(TapAngle) TapAngle) Result {
	it, exists := e.items[id]
	if !exists {
		return fail(ErrUnknownItem)
	}
	if !it.CanTap {
		return fail(ErrCannotTap)
	}
	prev := it.TapAngle
	it.TapAngle = step(prev)
	ev := ItemTapped{stamp: e.stamp(), Item: *it, PreviousAngle: prev, NewAngle: it.TapAngle}
	e.emit(ev)
	return ok(ev)
}

// SetTapAngle sets an item's rotation to one of the eight cycle positions.
func (e *Engine) SetTapAngle(id string, a TapAngle) Result {
	it, exists := e.items[id]
	if !exists {
		return fail(ErrUnknownItem)
	}
	if !it.CanTap {
		return fail(ErrCannotTap)
	}
	if !ValidTapAngle(a) {
		return fail(ErrInvalidTapAngle)
	}
	prev := it.TapAngle
	it.TapAngle = a
	ev := ItemTapped{stamp: e.stamp(), Item: *it, PreviousAngle: prev, NewAngle: a}
	e.emit(ev)
	return ok(ev)
}

// FlipItem toggles an item face down or face up. Flipping has no capability
// gate: any item may be flipped.
func (e *Engine) FlipItem(id string) Result {
	it, exists := e.items[id]
	if !exists {
		return fail(ErrUnknownItem)
	}
	it.FaceDown = !it.FaceDown
	ev := ItemFlipped{stamp: e.stamp(), Item: *it, FaceDown: it.FaceDown}
	e.emit(ev)
	return ok(ev)
}

// --- logical focus ---

// SetFocusedGrid points the logical keyboard focus at a grid. Each grid
// remembers its own last focused cell, so the position survives tabbing away
// and back; a grid receiving focus for the first time starts at (1,1). The
// focused cell is therefore always within the focused grid's bounds. Panics
// if the grid is unknown.
func (e *Engine) SetFocusedGrid(id string) Result {
	e.mustGrid(id)
	fromGrid := e.focusedGridID
	from := copyCoord(e.focusedCell)
	e.focusedGridID = id
	cell := Coord{Column: 1, Row: 1}
	if last, ok := e.lastFocus[id]; ok {
		cell = last
	}
	e.focusedCell = &cell
	e.lastFocus[id] = cell
	e.selectedStackIndex = nil
	to := copyCoord(e.focusedCell)
	ev := FocusMoved{stamp: e.stamp(), FromGrid: fromGrid, ToGrid: id, From: from, To: to}
	e.emit(ev)
	return ok(ev)
}

// SetFocusedCell moves the focused cell within the focused grid. Calling it
// with no grid focused is a programmer error and panics; an out-of-bounds
// cell is an expected refusal.
func (e *Engine) SetFocusedCell(at Coord) Result {
	if e.focusedGridID == "" {
		panic("grid: no grid focused")
	}
	g := e.mustGrid(e.focusedGridID)
	if !at.InBounds(g.cfg) {
		return fail(ErrOutOfBounds)
	}
	ev := e.setFocus(e.focusedGridID, at)
	return ok(ev)
}

// MoveFocus shifts the focused cell one step. At a grid boundary it returns
// nil and mutates nothing: focus never wraps.
func (e *Engine) MoveFocus(d Direction) *Coord {
	if len(e.grids) == 0 {
		panic("grid: no grids registered")
	}
	if e.focusedGridID == "" || e.focusedCell == nil {
		return nil
	}
	g := e.mustGrid(e.focusedGridID)
	target := e.focusedCell.Step(d)
	if !target.InBounds(g.cfg) {
		return nil
	}
	e.setFocus(e.focusedGridID, target)
	out := target
	return &out
}

// setFocus commits a focus change and emits focusMoved. Any focus move
// clears the stack selection.
func (e *Engine) setFocus(gridID string, at Coord) FocusMoved {
	fromGrid := e.focusedGridID
	from := copyCoord(e.focusedCell)
	e.focusedGridID = gridID
	moved := at
	e.focusedCell = &moved
	e.lastFocus[gridID] = at
	e.selectedStackIndex = nil
	to := copyCoord(e.focusedCell)
	ev := FocusMoved{stamp: e.stamp(), FromGrid: fromGrid, ToGrid: gridID, From: from, To: to}
	e.emit(ev)
	return ev
}

func copyCoord(c *Coord) *Coord {
	if c == nil {
		return nil
	}
	out := *c
	return &out
}

// CycleStackSelection changes which occupant of the focused cell is the
// operation target. Cycling starts from the top of the stack: the first
// "next" selects the second-from-top occupant and continues downward,
// wrapping past the bottom; the first "previous" selects the bottom.
func (e *Engine) CycleStackSelection(d CycleDirection) Result {
	if e.focusedGridID == "" || e.focusedCell == nil {
		return fail(ErrNoFocus)
	}
	occupants := e.occupantIDs(e.focusedGridID, *e.focusedCell)
	n := len(occupants)
	if n < 2 {
		return fail(ErrNoStack)
	}

	current := n - 1 // implicit selection is the top of the stack
	if e.selectedStackIndex != nil && *e.selectedStackIndex < n {
		current = *e.selectedStackIndex
	}
	var next int
	if d == CycleNext {
		next = (current - 1 + n) % n
	} else {
		next = (current + 1) % n
	}
	e.selectedStackIndex = &next

	it := e.items[occupants[next]]
	ev := StackSelectionChanged{
		stamp:         e.stamp(),
		GridID:        e.focusedGridID,
		At:            *e.focusedCell,
		SelectedIndex: next,
		Item:          *it,
	}
	e.emit(ev)
	return ok(ev)
}

// --- read-only queries ---

// GetGrid returns a snapshot of one grid.
func (e *Engine) GetGrid(id string) (GridState, bool) {
	g, exists := e.grids[id]
	if !exists {
		return GridState{}, false
	}
	return g.snapshot(), true
}

// GetItem returns a snapshot copy of one item.
func (e *Engine) GetItem(id string) (Item, bool) {
	it, exists := e.items[id]
	if !exists {
		return Item{}, false
	}
	return *it, true
}

// GetItemsAt returns the occupants of a cell in stack order, bottom first.
// Absent cells yield an empty slice; no cell object is materialized.
func (e *Engine) GetItemsAt(gridID string, at Coord) []Item {
	ids := e.occupantIDs(gridID, at)
	items := make([]Item, 0, len(ids))
	for _, id := range ids {
		if it, exists := e.items[id]; exists {
			items = append(items, *it)
		}
	}
	return items
}

// GetItemsInGrid returns every item a grid owns, ordered by id.
func (e *Engine) GetItemsInGrid(gridID string) []Item {
	g, exists := e.grids[gridID]
	if !exists {
		return nil
	}
	ids := make([]string, 0, len(g.itemIDs))
	for id := range g.itemIDs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	items := make([]Item, 0, len(ids))
	for _, id := range ids {
		items = append(items, *e.items[id])
	}
	return items
}

// CellAt returns a snapshot of one cell; ok is false if the cell has never
// been touched (sparse absence, equivalent to empty and unblocked).
func (e *Engine) CellAt(gridID string, at Coord) (Cell, bool) {
	g, exists := e.grids[gridID]
	if !exists {
		return Cell{}, false
	}
	c := g.cellAt(at)
	if c == nil {
		return Cell{}, false
	}
	return c.clone(), true
}

// GridIDs lists registered grids in sorted order.
func (e *Engine) GridIDs() []string {
	ids := make([]string, 0, len(e.grids))
	for id := range e.grids {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// FocusedGrid reports the grid the logical focus points at, if any.
func (e *Engine) FocusedGrid() string { return e.focusedGridID }

// FocusedCell reports the focused cell, or nil if none.
func (e *Engine) FocusedCell() *Coord { return copyCoord(e.focusedCell) }

// GrabbedItem reports the id of the grabbed item, or empty in navigation mode.
func (e *Engine) GrabbedItem() string { return e.grabbedItemID }

// GrabOrigin reports where the current grab started.
func (e *Engine) GrabOrigin() (gridID string, at Coord) {
	return e.grabbedFromGrid, e.grabbedFrom
}

// ActiveDropTarget reports which grid a drop would currently land on.
func (e *Engine) ActiveDropTarget() string { return e.activeDropTargetGridID }

// SelectedStackIndex reports the stack selection of the focused cell, or nil.
func (e *Engine) SelectedStackIndex() *int {
	if e.selectedStackIndex == nil {
		return nil
	}
	out := *e.selectedStackIndex
	return &out
}
