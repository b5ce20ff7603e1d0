package grid

// ConflictStrategy is the pluggable policy deciding what happens when a move
// targets an occupied cell. The built-in strategies form a closed set; Custom
// is the escape hatch for caller-supplied policy.
type ConflictStrategy interface {
	conflictStrategy()
}

// Swap displaces the top-of-stack occupant to the mover's current position.
type Swap struct{}

// Push moves all occupants one cell further in the mover's direction, never
// cascading: if the push destination is out of bounds, blocked or occupied,
// the move blocks instead.
type Push struct{}

// Stack places the mover on top of the occupants, subject to the grid's
// maximum stack size.
type Stack struct{}

// Block refuses every move into an occupied cell.
type Block struct{}

// Replace removes all current occupants before the mover takes the cell.
type Replace struct{}

// CustomFunc decides a conflict with full authority; the resolver defers
// entirely to its return value.
type CustomFunc func(mover Item, target Cell, occupants []Item, view View) Resolution

// Custom wraps a caller-supplied resolution function.
type Custom struct {
	Fn CustomFunc
}

func (Swap) conflictStrategy()    {}
func (Push) conflictStrategy()    {}
func (Stack) conflictStrategy()   {}
func (Block) conflictStrategy()   {}
func (Replace) conflictStrategy() {}
func (Custom) conflictStrategy()  {}

// StrategyByName maps a configuration string to a built-in strategy.
// Returns nil for unknown names.
func StrategyByName(name string) ConflictStrategy {
	switch name {
	case "swap":
		return Swap{}
	case "push":
		return Push{}
	case "stack":
		return Stack{}
	case "block":
		return Block{}
	case "replace":
		return Replace{}
	default:
		return nil
	}
}

// ResolutionAction is the declarative verdict of a conflict resolution.
type ResolutionAction string

const (
	ActionAllow    ResolutionAction = "allow"
	ActionBlock    ResolutionAction = "block"
	ActionSwap     ResolutionAction = "swap"
	ActionDisplace ResolutionAction = "displace"
	ActionStack    ResolutionAction = "stack"
)

// Resolution describes what the engine must do about an occupied-cell move
// without mutating anything itself. For ActionAllow a nil Displaced slice is
// a plain move, while a non-nil (possibly empty) slice is the replace signal:
// the engine removes every current occupant before placing the mover.
type Resolution struct {
	Action    ResolutionAction
	Displaced []Displacement
	Message   string
}

// Resolve decides the outcome of moving mover onto an occupied target cell.
// It is only consulted when the cell has at least one occupant; empty cells
// always accept a move. dir is the mover's travel direction when known
// (single-step grabbed moves); direct placements pass nil, so Push blocks.
func Resolve(strategy ConflictStrategy, mover Item, target Cell, occupants []Item, cfg GridConfig, view View, dir *Direction) Resolution {
	switch s := strategy.(type) {
	case Swap:
		top := occupants[len(occupants)-1]
		return Resolution{
			Action: ActionSwap,
			Displaced: []Displacement{{
				ItemID: top.ID,
				To:     mover.Coord,
				ToGrid: mover.GridID,
			}},
		}

	case Push:
		if dir == nil {
			return Resolution{Action: ActionBlock, Message: "Cannot push without a direction"}
		}
		dest := target.Coord.Step(*dir)
		if !dest.InBounds(cfg) {
			return Resolution{Action: ActionBlock, Message: "Cannot push beyond the grid edge"}
		}
		// A directed move never crosses grids, so the push destination is
		// in the mover's current grid.
		if cell, exists := view.CellAt(mover.GridID, dest); exists {
			if cell.Blocked || len(cell.ItemIDs) > 0 {
				return Resolution{Action: ActionBlock, Message: "Cannot push into an occupied cell"}
			}
		}
		displaced := make([]Displacement, 0, len(occupants))
		for _, occ := range occupants {
			displaced = append(displaced, Displacement{ItemID: occ.ID, To: dest})
		}
		return Resolution{Action: ActionDisplace, Displaced: displaced}

	case Stack:
		if cfg.MaxStackSize > 0 && len(occupants) >= cfg.MaxStackSize {
			return Resolution{Action: ActionBlock, Message: "Stack is full"}
		}
		return Resolution{Action: ActionStack}

	case Block:
		return Resolution{Action: ActionBlock, Message: "Cell is occupied"}

	case Replace:
		return Resolution{Action: ActionAllow, Displaced: []Displacement{}}

	case Custom:
		return s.Fn(mover, target, occupants, view)

	default:
		return Resolution{Action: ActionBlock, Message: "Cell is occupied"}
	}
}
