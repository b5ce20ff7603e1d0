package grid

import "errors"

// Expected-failure errors are everyday outcomes of user interaction (bumping
// a grid edge, tapping an untappable item). They come back inside a failed
// Result and are never raised; callers handle them without recovering panics.
// Programmer errors (duplicate grid registration, focusing an unknown grid)
// panic instead, since the caller violated a precondition it could have
// checked.
var (
	ErrUnknownGrid     = errors.New("unknown grid")
	ErrUnknownItem     = errors.New("unknown item")
	ErrInvalidItem     = errors.New("item requires an id and a label")
	ErrDuplicateItem   = errors.New("item id already exists")
	ErrOutOfBounds     = errors.New("coordinates out of bounds")
	ErrCellBlocked     = errors.New("cell is blocked")
	ErrCellOccupied    = errors.New("cell is occupied")
	ErrStackLimit      = errors.New("stack is at maximum size")
	ErrStackingOff     = errors.New("grid does not allow stacking")
	ErrCannotMove      = errors.New("item cannot be moved")
	ErrCannotRemove    = errors.New("item cannot be removed")
	ErrCannotTap       = errors.New("item cannot be tapped")
	ErrInvalidTapAngle = errors.New("invalid tap angle")
	ErrAlreadyGrabbed  = errors.New("another item is already grabbed")
	ErrNothingGrabbed  = errors.New("no item is grabbed")
	ErrGridNotRendered = errors.New("grid is not rendered")
	ErrNoStack         = errors.New("focused cell does not hold a stack")
	ErrNoFocus         = errors.New("no cell is focused")
)

// Result reports the outcome of an engine operation. OK is false only for
// expected refusals; Err then carries the reason. Event is the event emitted
// for a successful mutation.
type Result struct {
	OK    bool
	Err   error
	Event Event
}

func ok(ev Event) Result {
	return Result{OK: true, Event: ev}
}

func fail(err error) Result {
	return Result{Err: err}
}

// MoveResult extends Result for grabbed moves with the destination and the
// item/destination pairs displaced by the conflict resolution, so the UI and
// announcer can describe them.
type MoveResult struct {
	Result
	ToGrid    string
	To        Coord
	Displaced []Displacement
}

func failMove(err error) MoveResult {
	return MoveResult{Result: fail(err)}
}
