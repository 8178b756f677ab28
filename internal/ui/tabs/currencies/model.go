// Package currencies implements the supported-currencies tab.
package currencies

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/r-ledesma/cambio/internal/app"
	"github.com/r-ledesma/cambio/internal/models"
)

// KeyMap defines keybindings for the currencies tab.
type KeyMap struct {
	Filter      key.Binding
	ClearFilter key.Binding
	Refresh     key.Binding
	Up          key.Binding
	Down        key.Binding
	PageUp      key.Binding
	PageDown    key.Binding
}

// DefaultKeyMap returns the default currencies tab keybindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Filter:      key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filter")),
		ClearFilter: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "clear filter")),
		Refresh:     key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "refetch currencies")),
		Up:          key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "scroll up")),
		Down:        key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "scroll down")),
		PageUp:      key.NewBinding(key.WithKeys("pgup", "b"), key.WithHelp("pgup", "page up")),
		PageDown:    key.NewBinding(key.WithKeys("pgdown", "f"), key.WithHelp("pgdn", "page down")),
	}
}

// Model is the currencies tab model.
type Model struct {
	state  *app.State
	keymap KeyMap

	viewport  viewport.Model
	filter    textinput.Model
	filtering bool

	width  int
	height int
	ready  bool
}

// New creates a new currencies tab.
func New(state *app.State) *Model {
	filter := textinput.New()
	filter.Placeholder = "type to filter..."
	filter.Prompt = "/ "
	filter.CharLimit = 40
	filter.Width = 30

	return &Model{
		state:  state,
		keymap: DefaultKeyMap(),
		filter: filter,
	}
}

// Init initializes the tab.
func (m *Model) Init() tea.Cmd {
	return nil
}

// CapturesInput reports whether the filter input has focus.
func (m *Model) CapturesInput() bool {
	return m.filtering
}

// SetSize sets the available size for the tab.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height

	viewportHeight := max(height-4, 3)

	if !m.ready {
		m.viewport = viewport.New(width, viewportHeight)
		m.ready = true
	} else {
		m.viewport.Width = width
		m.viewport.Height = viewportHeight
	}

	m.refreshContent()
}

// ShortHelp returns key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	return []key.Binding{m.keymap.Filter, m.keymap.Refresh, m.keymap.Up, m.keymap.Down}
}

// FullHelp returns key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{m.ShortHelp()}
}

// Update handles messages for the currencies tab.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case app.SymbolsLoadedMsg:
		m.refreshContent()
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *Model) handleKey(msg tea.KeyMsg) (app.Tab, tea.Cmd) {
	if m.filtering {
		switch {
		case key.Matches(msg, m.keymap.ClearFilter):
			m.filtering = false
			m.filter.Blur()
			m.filter.SetValue("")
			m.refreshContent()
			return m, nil
		case msg.Type == tea.KeyEnter:
			m.filtering = false
			m.filter.Blur()
			return m, nil
		}

		var cmd tea.Cmd
		m.filter, cmd = m.filter.Update(msg)
		m.refreshContent()
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keymap.Filter):
		m.filtering = true
		return m, m.filter.Focus()

	case key.Matches(msg, m.keymap.ClearFilter):
		if m.filter.Value() != "" {
			m.filter.SetValue("")
			m.refreshContent()
		}
		return m, nil

	case key.Matches(msg, m.keymap.Refresh):
		return m, func() tea.Msg { return app.RefreshMsg{Resource: "symbols"} }
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// visibleSymbols returns the symbols matching the current filter.
func (m *Model) visibleSymbols() []models.Symbol {
	symbols := m.state.GetSymbols()
	query := strings.ToLower(strings.TrimSpace(m.filter.Value()))
	if query == "" {
		return symbols
	}

	var matched []models.Symbol
	for _, s := range symbols {
		if strings.Contains(strings.ToLower(s.Code), query) ||
			strings.Contains(strings.ToLower(s.Description), query) {
			matched = append(matched, s)
		}
	}
	return matched
}
