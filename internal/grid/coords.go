// Package grid implements the headless spatial-grid interaction engine.
// It owns all grid, cell and item state and exposes synchronous operations
// for placing, grabbing, moving, stacking, tapping, flipping and transferring
// items, emitting a typed event for every mutation. The package contains no
// rendering or input dependencies so it stays usable by non-visual consumers
// such as tests or server-side simulations.
package grid

import "fmt"

// Coord is a 1-based (column, row) position within a grid.
type Coord struct {
	Column int `json:"column"`
	Row    int `json:"row"`
}

// C is a convenience constructor for Coord.
func C(column, row int) Coord {
	return Coord{Column: column, Row: row}
}

// Key returns the canonical map key "column,row" for this coordinate.
func (c Coord) Key() string {
	return fmt.Sprintf("%d,%d", c.Column, c.Row)
}

// ParseKey is the inverse of Key.
func ParseKey(key string) (Coord, error) {
	var c Coord
	if _, err := fmt.Sscanf(key, "%d,%d", &c.Column, &c.Row); err != nil {
		return Coord{}, fmt.Errorf("grid: invalid coordinate key %q", key)
	}
	return c, nil
}

// String returns a human-oriented representation such as "column 3, row 2".
func (c Coord) String() string {
	return fmt.Sprintf("column %d, row %d", c.Column, c.Row)
}

// Equal reports whether two coordinates are the same position.
func (c Coord) Equal(other Coord) bool {
	return c.Column == other.Column && c.Row == other.Row
}

// Manhattan returns |Δcolumn| + |Δrow| between two coordinates.
func (c Coord) Manhattan(other Coord) int {
	dc := c.Column - other.Column
	dr := c.Row - other.Row
	if dc < 0 {
		dc = -dc
	}
	if dr < 0 {
		dr = -dr
	}
	return dc + dr
}

// Direction is one of the four cardinal movement directions.
type Direction int

const (
	Up Direction = iota
	Down
	Left
	Right
)

// String returns a lowercase name for the direction.
func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return "unknown"
	}
}

// Delta returns the (column, row) offset for one step in this direction.
// Row 1 is the top row, so Up decreases the row.
func (d Direction) Delta() (dc, dr int) {
	switch d {
	case Up:
		return 0, -1
	case Down:
		return 0, 1
	case Left:
		return -1, 0
	case Right:
		return 1, 0
	default:
		return 0, 0
	}
}

// Step returns the adjacent coordinate one step in the given direction.
// The result is not clamped or validated; callers check InBounds separately.
func (c Coord) Step(d Direction) Coord {
	dc, dr := d.Delta()
	return Coord{Column: c.Column + dc, Row: c.Row + dr}
}

// InBounds reports whether the coordinate lies within a grid of the given config.
func (c Coord) InBounds(cfg GridConfig) bool {
	return c.Column >= 1 && c.Column <= cfg.Columns && c.Row >= 1 && c.Row <= cfg.Rows
}

// AllCoords enumerates every coordinate of the config row-major:
// row 1 first, columns ascending within each row.
func AllCoords(cfg GridConfig) []Coord {
	coords := make([]Coord, 0, cfg.Columns*cfg.Rows)
	for row := 1; row <= cfg.Rows; row++ {
		for column := 1; column <= cfg.Columns; column++ {
			coords = append(coords, Coord{Column: column, Row: row})
		}
	}
	return coords
}
