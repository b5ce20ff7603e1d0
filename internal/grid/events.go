package grid

import "time"

// EventType tags every engine event. The set is closed: consumers can key
// handler maps and message catalogs on these values.
type EventType string

const (
	EventItemPlaced            EventType = "itemPlaced"
	EventItemGrabbed           EventType = "itemGrabbed"
	EventItemMoved             EventType = "itemMoved"
	EventItemDropped           EventType = "itemDropped"
	EventItemRemoved           EventType = "itemRemoved"
	EventItemTapped            EventType = "itemTapped"
	EventItemFlipped           EventType = "itemFlipped"
	EventItemTransferred       EventType = "itemTransferred"
	EventGrabCancelled         EventType = "grabCancelled"
	EventMoveBlocked           EventType = "moveBlocked"
	EventFocusMoved            EventType = "focusMoved"
	EventStackSelectionChanged EventType = "stackSelectionChanged"
	EventGridRegistered        EventType = "gridRegistered"
	EventGridUnregistered      EventType = "gridUnregistered"
	EventGridRenderStateChanged EventType = "gridRenderStateChanged"
)

// Event is the interface satisfied by every engine event. Handlers receive
// fully committed state: within one operation, mutation always happens before
// the event is emitted.
type Event interface {
	Type() EventType
	When() time.Time
}

// stamp carries the emission timestamp shared by all event types.
type stamp struct {
	At time.Time `json:"at"`
}

func (s stamp) When() time.Time { return s.At }

// Displacement records one item relocated as part of a conflict resolution.
type Displacement struct {
	ItemID string `json:"itemId"`
	To     Coord  `json:"to"`
	// ToGrid names the destination grid; empty means the same grid the
	// conflict occurred in.
	ToGrid string `json:"toGrid,omitempty"`
}

// ItemPlaced is emitted when AddItem succeeds.
type ItemPlaced struct {
	stamp
	Item   Item   `json:"item"`
	GridID string `json:"gridId"`
	At     Coord  `json:"coord"`
}

func (ItemPlaced) Type() EventType { return EventItemPlaced }

// ItemGrabbed is emitted when an item is picked up and the engine enters
// grabbing mode.
type ItemGrabbed struct {
	stamp
	Item   Item   `json:"item"`
	GridID string `json:"gridId"`
	From   Coord  `json:"from"`
}

func (ItemGrabbed) Type() EventType { return EventItemGrabbed }

// ItemMoved is emitted for every relocation during a grab, including items
// displaced by a conflict resolution.
type ItemMoved struct {
	stamp
	Item      Item           `json:"item"`
	FromGrid  string         `json:"fromGrid"`
	ToGrid    string         `json:"toGrid"`
	From      Coord          `json:"from"`
	To        Coord          `json:"to"`
	Displaced []Displacement `json:"displaced,omitempty"`
}

func (ItemMoved) Type() EventType { return EventItemMoved }

// ItemDropped is emitted when a grab ends with the item staying where the
// last move placed it.
type ItemDropped struct {
	stamp
	Item   Item   `json:"item"`
	GridID string `json:"gridId"`
	At     Coord  `json:"coord"`
}

func (ItemDropped) Type() EventType { return EventItemDropped }

// ItemRemoved is emitted when an item is destroyed, including occupants
// cleared by the replace strategy and items owned by an unregistered grid.
type ItemRemoved struct {
	stamp
	Item   Item   `json:"item"`
	GridID string `json:"gridId"`
	At     Coord  `json:"coord"`
}

func (ItemRemoved) Type() EventType { return EventItemRemoved }

// ItemTapped carries both angles so consumers infer the rotation direction
// from the pair rather than a stored direction field.
type ItemTapped struct {
	stamp
	Item          Item     `json:"item"`
	PreviousAngle TapAngle `json:"previousTapAngle"`
	NewAngle      TapAngle `json:"newTapAngle"`
}

func (ItemTapped) Type() EventType { return EventItemTapped }

// ItemFlipped is emitted when an item's face-down state toggles.
type ItemFlipped struct {
	stamp
	Item     Item `json:"item"`
	FaceDown bool `json:"faceDown"`
}

func (ItemFlipped) Type() EventType { return EventItemFlipped }

// ItemTransferred is emitted for direct, non-grab relocations. Same-grid
// transfers use this event type too; transfer is a distinct operation from a
// grabbed move, not merely its cross-grid case.
type ItemTransferred struct {
	stamp
	Item     Item   `json:"item"`
	FromGrid string `json:"fromGrid"`
	ToGrid   string `json:"toGrid"`
	From     Coord  `json:"from"`
	To       Coord  `json:"to"`
}

func (ItemTransferred) Type() EventType { return EventItemTransferred }

// GrabCancelled is emitted when a grab is abandoned and the item returns to
// its pre-grab grid and coordinates.
type GrabCancelled struct {
	stamp
	Item   Item   `json:"item"`
	GridID string `json:"gridId"`
	At     Coord  `json:"coord"`
}

func (GrabCancelled) Type() EventType { return EventGrabCancelled }

// BlockReason classifies why a move was refused.
type BlockReason string

const (
	BlockedOutOfBounds BlockReason = "out_of_bounds"
	BlockedCell        BlockReason = "blocked_cell"
	BlockedOccupied    BlockReason = "occupied"
)

// MoveBlocked is both a failed Result and a fired event, so passive listeners
// can react to refused attempts the direct caller already saw synchronously.
type MoveBlocked struct {
	stamp
	ItemID  string      `json:"itemId"`
	GridID  string      `json:"gridId"`
	Target  Coord       `json:"target"`
	Reason  BlockReason `json:"reason"`
	Message string      `json:"message"`
}

func (MoveBlocked) Type() EventType { return EventMoveBlocked }

// FocusMoved reports every change of the logical keyboard focus, whether from
// explicit navigation or focus following a grabbed item.
type FocusMoved struct {
	stamp
	FromGrid string `json:"fromGrid"`
	ToGrid   string `json:"toGrid"`
	From     *Coord `json:"from,omitempty"`
	To       *Coord `json:"to,omitempty"`
}

func (FocusMoved) Type() EventType { return EventFocusMoved }

// StackSelectionChanged reports which occupant of the focused cell is the
// current operation target.
type StackSelectionChanged struct {
	stamp
	GridID        string `json:"gridId"`
	At            Coord  `json:"coord"`
	SelectedIndex int    `json:"selectedStackIndex"`
	Item          Item   `json:"item"`
}

func (StackSelectionChanged) Type() EventType { return EventStackSelectionChanged }

// GridRegistered is emitted when a new grid joins the registry.
type GridRegistered struct {
	stamp
	GridID string     `json:"gridId"`
	Config GridConfig `json:"config"`
}

func (GridRegistered) Type() EventType { return EventGridRegistered }

// GridUnregistered is emitted after a grid and all items it owned are gone.
type GridUnregistered struct {
	stamp
	GridID string `json:"gridId"`
}

func (GridUnregistered) Type() EventType { return EventGridUnregistered }

// GridRenderStateChanged reports toggles of the rendered flag that gates
// grabbing and focus-follow.
type GridRenderStateChanged struct {
	stamp
	GridID   string `json:"gridId"`
	Rendered bool   `json:"rendered"`
}

func (GridRenderStateChanged) Type() EventType { return EventGridRenderStateChanged }

// Handler receives engine events synchronously, in registration order.
type Handler func(Event)

// bus is an in-process publish-subscribe map over the closed event-type set.
// Handlers run synchronously in registration order.
type bus struct {
	next   int
	byType map[EventType][]subscription
	any    []subscription
}

type subscription struct {
	id int
	h  Handler
}

func newBus() *bus {
	return &bus{byType: make(map[EventType][]subscription)}
}

// on registers a handler for one event type and returns its removal closure.
func (b *bus) on(t EventType, h Handler) func() {
	b.next++
	id := b.next
	b.byType[t] = append(b.byType[t], subscription{id: id, h: h})
	return func() {
		b.byType[t] = removeSub(b.byType[t], id)
	}
}

// onAny registers a handler for every event type.
func (b *bus) onAny(h Handler) func() {
	b.next++
	id := b.next
	b.any = append(b.any, subscription{id: id, h: h})
	return func() {
		b.any = removeSub(b.any, id)
	}
}

func removeSub(subs []subscription, id int) []subscription {
	for i, s := range subs {
		if s.id == id {
			return append(subs[:i:i], subs[i+1:]...)
		}
	}
	return subs
}

// emit delivers an event to subscribers.
func (b *bus) emit(ev Event) {
	for _, s := range b.byType[ev.Type()] {
		s.h(ev)
	}
	for _, s := range b.any {
		s.h(ev)
	}
}
