// Package history implements the conversion history tab.
package history

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/r-ledesma/cambio/internal/app"
	"github.com/r-ledesma/cambio/internal/models"
)

// KeyMap defines keybindings for the history tab.
type KeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Refresh key.Binding
	Chart   key.Binding
}

// DefaultKeyMap returns the default history tab keybindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "previous entry")),
		Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "next entry")),
		Refresh: key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "reload history")),
		Chart:   key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "toggle chart")),
	}
}

// Model is the history tab model.
type Model struct {
	state  *app.State
	keymap KeyMap

	cursor    int
	showChart bool

	width  int
	height int
}

// New creates a new history tab.
func New(state *app.State) *Model {
	return &Model{
		state:     state,
		keymap:    DefaultKeyMap(),
		showChart: true,
	}
}

// Init initializes the tab.
func (m *Model) Init() tea.Cmd {
	return nil
}

// SetSize sets the available size for the tab.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// ShortHelp returns key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	return []key.Binding{m.keymap.Up, m.keymap.Down, m.keymap.Chart, m.keymap.Refresh}
}

// FullHelp returns key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{m.ShortHelp()}
}

// Update handles messages for the history tab.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case app.HistoryLoadedMsg:
		m.clampCursor()
		return m, nil
	}

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (app.Tab, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case key.Matches(msg, m.keymap.Down):
		if m.cursor < len(m.displayRecords())-1 {
			m.cursor++
		}
		return m, nil

	case key.Matches(msg, m.keymap.Chart):
		m.showChart = !m.showChart
		return m, nil

	case key.Matches(msg, m.keymap.Refresh):
		return m, func() tea.Msg { return app.RefreshMsg{Resource: "history"} }
	}

	return m, nil
}

func (m *Model) clampCursor() {
	if n := len(m.displayRecords()); m.cursor >= n {
		m.cursor = max(n-1, 0)
	}
}

// displayRecords returns the history most recent first. The store keeps
// records in file order, oldest first.
func (m *Model) displayRecords() []models.ConversionRecord {
	records := m.state.GetRecords()
	out := make([]models.ConversionRecord, len(records))
	for i, r := range records {
		out[len(records)-1-i] = r
	}
	return out
}
