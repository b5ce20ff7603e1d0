package tui

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/vcaparica/gridforge/internal/grid"
)

// KeyMap defines the key bindings for the grid session. The same arrow keys
// move focus in navigation mode and move the grabbed item in grabbing mode;
// help output switches with the mode.
type KeyMap struct {
	Up        key.Binding
	Down      key.Binding
	Left      key.Binding
	Right     key.Binding
	GrabDrop  key.Binding
	Cancel    key.Binding
	Tap       key.Binding
	TapBack   key.Binding
	Flip      key.Binding
	NextGrid  key.Binding
	StackUp   key.Binding
	StackDown key.Binding
	Help      key.Binding
	Quit      key.Binding
}

// DefaultKeyMap returns default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "left"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "right"),
		),
		GrabDrop: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "grab/drop"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel move"),
		),
		Tap: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "tap"),
		),
		TapBack: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "untap"),
		),
		Flip: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "flip"),
		),
		NextGrid: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next grid"),
		),
		StackUp: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "stack up"),
		),
		StackDown: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "stack down"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// modeKeyMap adapts the help output to the current interaction mode.
type modeKeyMap struct {
	keys KeyMap
	mode grid.Mode
}

// ShortHelp returns key bindings for the short help view.
func (m modeKeyMap) ShortHelp() []key.Binding {
	if m.mode == grid.ModeGrabbing {
		return []key.Binding{m.keys.Up, m.keys.GrabDrop, m.keys.Cancel, m.keys.Quit}
	}
	return []key.Binding{m.keys.Up, m.keys.GrabDrop, m.keys.Tap, m.keys.Help, m.keys.Quit}
}

// FullHelp returns key bindings for the full help view.
func (m modeKeyMap) FullHelp() [][]key.Binding {
	if m.mode == grid.ModeGrabbing {
		return [][]key.Binding{
			{m.keys.Up, m.keys.Down, m.keys.Left, m.keys.Right},
			{m.keys.GrabDrop, m.keys.Cancel},
			{m.keys.Quit},
		}
	}
	return [][]key.Binding{
		{m.keys.Up, m.keys.Down, m.keys.Left, m.keys.Right, m.keys.NextGrid},
		{m.keys.GrabDrop, m.keys.Tap, m.keys.TapBack, m.keys.Flip},
		{m.keys.StackUp, m.keys.StackDown, m.keys.Help, m.keys.Quit},
	}
}
