package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vcaparica/gridforge/internal/grid"
)

var (
	titleStyle        = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	focusedTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14")).Underline(true)
	gridBoxStyle      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	focusedBoxStyle   = gridBoxStyle.BorderForeground(lipgloss.Color("14"))

	cellStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	itemStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	blockedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	cursorStyle   = lipgloss.NewStyle().Reverse(true)
	grabbedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("13")).Bold(true)
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
)

// cellWidth is the fixed rune width of one rendered cell.
const cellWidth = 4

// renderSession draws every rendered grid side by side. Non-rendered grids
// are skipped, matching the engine's notion of what is on screen.
func renderSession(e *grid.Engine, width int) string {
	boxes := make([]string, 0, 2)
	for _, id := range e.GridIDs() {
		st, exists := e.GetGrid(id)
		if !exists || !st.Rendered {
			continue
		}
		boxes = append(boxes, renderGrid(e, st))
	}
	if len(boxes) == 0 {
		return "No grids on screen"
	}
	row := lipgloss.JoinHorizontal(lipgloss.Top, boxes...)
	if width > 0 && lipgloss.Width(row) > width {
		row = lipgloss.JoinVertical(lipgloss.Left, boxes...)
	}
	return row
}

// renderGrid draws one grid as a titled box of fixed-width cells.
func renderGrid(e *grid.Engine, st grid.GridState) string {
	focused := e.FocusedGrid() == st.ID
	focusCell := e.FocusedCell()
	grabbedID := e.GrabbedItem()
	selected := e.SelectedStackIndex()

	var sb strings.Builder
	for row := 1; row <= st.Config.Rows; row++ {
		if row > 1 {
			sb.WriteRune('\n')
		}
		for col := 1; col <= st.Config.Columns; col++ {
			at := grid.C(col, row)
			isCursor := focused && focusCell != nil && focusCell.Equal(at)
			sb.WriteString(renderCell(e, st, at, isCursor, grabbedID, selected))
		}
	}

	title := titleStyle
	box := gridBoxStyle
	if focused {
		title = focusedTitleStyle
		box = focusedBoxStyle
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		title.Render(st.Config.Label),
		box.Render(sb.String()),
	)
}

// renderCell draws one cell as a fixed-width token: the top occupant's
// initial (or face-down marker) with a stack count, a blocked mark, or an
// empty dot.
func renderCell(e *grid.Engine, st grid.GridState, at grid.Coord, isCursor bool, grabbedID string, selected *int) string {
	text := "·"
	style := cellStyle

	if c, exists := st.Cells[at.Key()]; exists && c.Blocked {
		text = "▓▓"
		style = blockedStyle
	} else {
		occupants := e.GetItemsAt(st.ID, at)
		if len(occupants) > 0 {
			shown := occupants[len(occupants)-1]
			style = itemStyle
			if isCursor && selected != nil && *selected < len(occupants) {
				shown = occupants[*selected]
				style = selectedStyle
			}
			text = itemGlyph(shown)
			if shown.ID == grabbedID {
				style = grabbedStyle
			}
			if len(occupants) > 1 {
				text += fmt.Sprintf("%d", len(occupants))
			}
		}
	}

	padded := pad(text, cellWidth)
	if isCursor {
		return cursorStyle.Render(padded)
	}
	return style.Render(padded)
}

// itemGlyph picks the short representation of an item: its label initial,
// a degree mark when tapped, a block for face-down ones.
func itemGlyph(it grid.Item) string {
	if it.FaceDown {
		return "▒"
	}
	glyph := "?"
	for _, r := range it.Label {
		glyph = strings.ToUpper(string(r))
		break
	}
	if it.TapAngle != 0 {
		glyph += "°"
	}
	return glyph
}

func pad(s string, width int) string {
	w := lipgloss.Width(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}

// refusalText maps engine refusals to status-line phrasing.
func refusalText(err error) string {
	switch {
	case errors.Is(err, grid.ErrOutOfBounds):
		return "Edge of grid"
	case errors.Is(err, grid.ErrCellBlocked):
		return "Cell is blocked"
	case errors.Is(err, grid.ErrCellOccupied):
		return "Cell is occupied"
	case errors.Is(err, grid.ErrStackLimit):
		return "Stack is full"
	case errors.Is(err, grid.ErrStackingOff):
		return "No stacking on this grid"
	case errors.Is(err, grid.ErrCannotMove):
		return "That item cannot be moved"
	case errors.Is(err, grid.ErrCannotTap):
		return "That item cannot be tapped"
	case errors.Is(err, grid.ErrCannotRemove):
		return "That item cannot be removed"
	case errors.Is(err, grid.ErrAlreadyGrabbed):
		return "Already carrying an item"
	case errors.Is(err, grid.ErrNothingGrabbed):
		return "Nothing is grabbed"
	case errors.Is(err, grid.ErrGridNotRendered):
		return "That grid is not on screen"
	case errors.Is(err, grid.ErrNoStack):
		return "No stack under the cursor"
	case errors.Is(err, grid.ErrNoFocus):
		return "Nothing is focused"
	default:
		return err.Error()
	}
}
