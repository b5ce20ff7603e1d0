package grid

// GridType is an informational hint used by accessibility consumers to pick
// an ARIA role. Dimensionality is authoritative from GridConfig.Rows, not
// from this field.
type GridType string

const (
	Grid1D GridType = "1d"
	Grid2D GridType = "2d"
)

// GridConfig describes the shape and behaviour of one logical play surface.
type GridConfig struct {
	Columns       int      `yaml:"columns"`
	Rows          int      `yaml:"rows"`
	Type          GridType `yaml:"type"`
	Label         string   `yaml:"label"`
	Description   string   `yaml:"description"`
	AllowStacking bool     `yaml:"allow_stacking"`
	// MaxStackSize caps the number of items per cell when stacking is
	// allowed. Zero means unlimited.
	MaxStackSize int `yaml:"max_stack_size"`
}

// OneDimensional reports whether the grid is logically one-dimensional.
func (c GridConfig) OneDimensional() bool {
	return c.Rows == 1
}

// Cell is the occupancy state at one coordinate. Cells are sparse: a cell
// exists only once it has held an item or been explicitly blocked, and an
// absent cell is equivalent to an empty, unblocked one.
type Cell struct {
	Coord Coord `json:"coord"`
	// ItemIDs is in insertion/stack order; the last element is the top
	// of the stack.
	ItemIDs    []string       `json:"itemIds"`
	DropTarget bool           `json:"dropTarget"`
	Blocked    bool           `json:"blocked"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

// clone returns a copy safe to hand to external consumers.
func (c *Cell) clone() Cell {
	out := *c
	out.ItemIDs = append([]string(nil), c.ItemIDs...)
	return out
}

// Item is a discrete movable object. An item always belongs to exactly one
// grid; its GridID and Coord mirror exactly one cell's membership.
type Item struct {
	ID    string `json:"id" yaml:"id"`
	Label string `json:"label" yaml:"label"`
	Coord Coord  `json:"coord" yaml:"-"`
	// GridID names the owning grid. Managed by the engine.
	GridID    string         `json:"gridId" yaml:"-"`
	TapAngle  TapAngle       `json:"tapAngle" yaml:"-"`
	CanMove   bool           `json:"canMove" yaml:"can_move"`
	CanRemove bool           `json:"canRemove" yaml:"can_remove"`
	CanTap    bool           `json:"canTap" yaml:"can_tap"`
	FaceDown  bool           `json:"faceDown" yaml:"face_down"`
	ZIndex    int            `json:"zIndex,omitempty" yaml:"z_index"`
	Metadata  map[string]any `json:"metadata,omitempty" yaml:"metadata"`
}

// GridState is a read-only snapshot of one registered grid.
type GridState struct {
	ID       string          `json:"id"`
	Config   GridConfig      `json:"config"`
	Rendered bool            `json:"rendered"`
	ItemIDs  []string        `json:"itemIds"`
	Cells    map[string]Cell `json:"cells"`
}

// gridRecord is the engine-internal mutable representation of a grid.
type gridRecord struct {
	id       string
	cfg      GridConfig
	rendered bool
	cells    map[string]*Cell
	itemIDs  map[string]struct{}
}

// cellAt returns the cell for the coordinate, or nil if it has never been
// touched (sparse absence).
func (g *gridRecord) cellAt(at Coord) *Cell {
	return g.cells[at.Key()]
}

// ensureCell returns the cell for the coordinate, creating it if absent.
func (g *gridRecord) ensureCell(at Coord) *Cell {
	key := at.Key()
	if c, ok := g.cells[key]; ok {
		return c
	}
	c := &Cell{Coord: at}
	g.cells[key] = c
	return c
}

// dropCellIfEmpty removes a cell from the sparse map once nothing pins it.
// Blocked cells and cells carrying metadata stay defined.
func (g *gridRecord) dropCellIfEmpty(at Coord) {
	key := at.Key()
	c, ok := g.cells[key]
	if !ok {
		return
	}
	if len(c.ItemIDs) == 0 && !c.Blocked && len(c.Metadata) == 0 {
		delete(g.cells, key)
	}
}

func (g *gridRecord) snapshot() GridState {
	st := GridState{
		ID:       g.id,
		Config:   g.cfg,
		Rendered: g.rendered,
		ItemIDs:  make([]string, 0, len(g.itemIDs)),
		Cells:    make(map[string]Cell, len(g.cells)),
	}
	for id := range g.itemIDs {
		st.ItemIDs = append(st.ItemIDs, id)
	}
	for key, c := range g.cells {
		st.Cells[key] = c.clone()
	}
	return st
}

// Mode is the engine's interaction state, derived from whether an item is
// currently grabbed.
type Mode int

const (
	ModeNavigation Mode = iota
	ModeGrabbing
)

// String returns the mode name used in announcements and ARIA attributes.
func (m Mode) String() string {
	if m == ModeGrabbing {
		return "grabbing"
	}
	return "navigation"
}

// CycleDirection selects the direction of stack-selection cycling.
type CycleDirection int

const (
	CycleNext CycleDirection = iota
	CyclePrevious
)

// View is the side-effect-free query surface the movement resolver and
// external consumers (announcers, ARIA builders) read from.
type View interface {
	GetGrid(id string) (GridState, bool)
	GetItem(id string) (Item, bool)
	GetItemsAt(gridID string, at Coord) []Item
	GetItemsInGrid(gridID string) []Item
	CellAt(gridID string, at Coord) (Cell, bool)
}
