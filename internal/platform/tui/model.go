package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vcaparica/gridforge/internal/announce"
	"github.com/vcaparica/gridforge/internal/grid"
	"github.com/vcaparica/gridforge/internal/layouts"
	"github.com/vcaparica/gridforge/internal/storage"
)

// Model is the Bubble Tea model for an interactive grid session. It is a
// pure consumer of the engine: every key press becomes one public engine
// operation and the view re-reads engine snapshots.
type Model struct {
	session   *layouts.Session
	engine    *grid.Engine
	store     *storage.Store
	tally     *storage.Tally
	announcer *announce.Announcer

	keys   KeyMap
	help   help.Model
	width  int
	height int

	status   string // transient refusal text, cleared on the next key
	quitting bool
}

// NewModel creates a session model over a built layout. store may be nil;
// the session summary is then simply not persisted.
func NewModel(s *layouts.Session, catalog announce.Catalog, store *storage.Store) Model {
	return Model{
		session:   s,
		engine:    s.Engine,
		store:     store,
		tally:     storage.NewTally(s.Engine),
		announcer: announce.New(s.Engine, catalog, nil),
		keys:      DefaultKeyMap(),
		help:      help.New(),
	}
}

// Init implements tea.Model. The engine is synchronous, so there is no tick
// loop; the model only reacts to input.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil
	}
	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.status = ""

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.finishSession()
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, m.keys.Up):
		return m.move(grid.Up), nil
	case key.Matches(msg, m.keys.Down):
		return m.move(grid.Down), nil
	case key.Matches(msg, m.keys.Left):
		return m.move(grid.Left), nil
	case key.Matches(msg, m.keys.Right):
		return m.move(grid.Right), nil

	case key.Matches(msg, m.keys.GrabDrop):
		return m.grabOrDrop(), nil

	case key.Matches(msg, m.keys.Cancel):
		if m.engine.Mode() == grid.ModeGrabbing {
			m.report(m.engine.CancelGrab())
		}
		return m, nil

	case key.Matches(msg, m.keys.Tap):
		if id := m.targetItem(); id != "" {
			m.report(m.engine.TapClockwise(id))
		}
		return m, nil
	case key.Matches(msg, m.keys.TapBack):
		if id := m.targetItem(); id != "" {
			m.report(m.engine.TapCounterClockwise(id))
		}
		return m, nil
	case key.Matches(msg, m.keys.Flip):
		if id := m.targetItem(); id != "" {
			m.report(m.engine.FlipItem(id))
		}
		return m, nil

	case key.Matches(msg, m.keys.NextGrid):
		if m.engine.Mode() == grid.ModeNavigation {
			m.focusNextGrid()
		}
		return m, nil

	case key.Matches(msg, m.keys.StackUp):
		m.report(m.engine.CycleStackSelection(grid.CyclePrevious))
		return m, nil
	case key.Matches(msg, m.keys.StackDown):
		m.report(m.engine.CycleStackSelection(grid.CycleNext))
		return m, nil
	}

	return m, nil
}

// move routes a direction key: in grabbing mode it moves the grabbed item,
// otherwise it moves the focus cursor.
func (m *Model) move(d grid.Direction) Model {
	if m.engine.Mode() == grid.ModeGrabbing {
		mr := m.engine.MoveGrabbed(d)
		if !mr.OK && mr.Err != nil {
			// The announcer already carries the blocked message; nothing
			// extra to surface.
			return *m
		}
		return *m
	}
	if m.engine.FocusedGrid() == "" {
		m.focusNextGrid()
		return *m
	}
	m.engine.MoveFocus(d)
	return *m
}

// grabOrDrop toggles grabbing for the focus target.
func (m *Model) grabOrDrop() Model {
	if m.engine.Mode() == grid.ModeGrabbing {
		m.report(m.engine.Drop())
		return *m
	}
	id := m.targetItem()
	if id == "" {
		m.status = "Nothing to grab here"
		return *m
	}
	m.report(m.engine.Grab(id))
	return *m
}

// targetItem resolves the item the next item-scoped operation acts on: the
// grabbed item while grabbing, otherwise the stack selection of the focused
// cell, defaulting to the top occupant.
func (m *Model) targetItem() string {
	if id := m.engine.GrabbedItem(); id != "" {
		return id
	}
	focusCell := m.engine.FocusedCell()
	gridID := m.engine.FocusedGrid()
	if gridID == "" || focusCell == nil {
		return ""
	}
	occupants := m.engine.GetItemsAt(gridID, *focusCell)
	if len(occupants) == 0 {
		return ""
	}
	if sel := m.engine.SelectedStackIndex(); sel != nil && *sel < len(occupants) {
		return occupants[*sel].ID
	}
	return occupants[len(occupants)-1].ID
}

// focusNextGrid cycles keyboard focus through the registered grids.
func (m *Model) focusNextGrid() {
	ids := m.engine.GridIDs()
	if len(ids) == 0 {
		return
	}
	current := m.engine.FocusedGrid()
	next := ids[0]
	for i, id := range ids {
		if id == current {
			next = ids[(i+1)%len(ids)]
			break
		}
	}
	m.engine.SetFocusedGrid(next)
}

// report keeps expected refusals visible on the status line. Successful
// operations speak through the announcer instead.
func (m *Model) report(r grid.Result) {
	if !r.OK && r.Err != nil {
		m.status = refusalText(r.Err)
	}
}

// finishSession persists the interaction tally, best effort.
func (m *Model) finishSession() {
	m.announcer.Close()
	if m.store == nil {
		return
	}
	rec := m.tally.Record(m.session.Layout.Name, m.session.Layout.Strategy)
	//nolint:errcheck // Best-effort save, quitting regardless
	m.store.SaveSession(rec)
}

// View renders the current state.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	status := m.status
	if status == "" {
		status = m.announcer.Last()
	}
	board := renderSession(m.engine, m.width)
	helpView := m.help.View(modeKeyMap{keys: m.keys, mode: m.engine.Mode()})
	return board + "\n" + statusStyle.Render(status) + "\n" + helpView
}

// Run starts the Bubble Tea program for a local terminal session.
func Run(s *layouts.Session, catalog announce.Catalog, store *storage.Store) error {
	p := tea.NewProgram(
		NewModel(s, catalog, store),
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}
