// Package convert implements the conversion form tab.
package convert

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/r-ledesma/cambio/internal/app"
	"github.com/r-ledesma/cambio/internal/ui/components"
	"github.com/r-ledesma/cambio/internal/ui/styles"
)

const (
	fieldFrom = iota
	fieldTo
	fieldAmount
	fieldCount
)

// KeyMap defines keybindings for the convert tab.
type KeyMap struct {
	NextField key.Binding
	PrevField key.Binding
	Submit    key.Binding
	Edit      key.Binding
	Cancel    key.Binding
	Swap      key.Binding
}

// DefaultKeyMap returns the default convert tab keybindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		NextField: key.NewBinding(key.WithKeys("tab", "down"), key.WithHelp("tab", "next field")),
		PrevField: key.NewBinding(key.WithKeys("shift+tab", "up"), key.WithHelp("shift+tab", "prev field")),
		Submit:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "convert")),
		Edit:      key.NewBinding(key.WithKeys("e", "enter", "i"), key.WithHelp("e", "edit form")),
		Cancel:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "leave form")),
		Swap:      key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "swap currencies")),
	}
}

// Model is the convert tab model.
type Model struct {
	state    *app.State
	commands *app.Commands
	keymap   KeyMap

	inputs     []textinput.Model
	focusIndex int
	editing    bool

	spinner    components.LoadingSpinner
	converting bool
	errMsg     string

	width  int
	height int
}

// New creates a new convert tab.
func New(state *app.State, commands *app.Commands) *Model {
	inputs := make([]textinput.Model, fieldCount)

	from := textinput.New()
	from.Placeholder = "USD"
	from.Prompt = ""
	from.CharLimit = 3
	from.Width = 8
	inputs[fieldFrom] = from

	to := textinput.New()
	to.Placeholder = "EUR"
	to.Prompt = ""
	to.CharLimit = 3
	to.Width = 8
	inputs[fieldTo] = to

	amount := textinput.New()
	amount.Placeholder = "100.00"
	amount.Prompt = ""
	amount.CharLimit = 20
	amount.Width = 14
	inputs[fieldAmount] = amount

	return &Model{
		state:    state,
		commands: commands,
		keymap:   DefaultKeyMap(),
		inputs:   inputs,
		spinner:  components.NewSpinner("Converting..."),
	}
}

// Init initializes the tab.
func (m *Model) Init() tea.Cmd {
	return m.spinner.Tick()
}

// CapturesInput reports whether a form field currently has focus.
func (m *Model) CapturesInput() bool {
	return m.editing
}

// SetSize sets the available size for the tab.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// ShortHelp returns key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	if m.editing {
		return []key.Binding{m.keymap.NextField, m.keymap.Submit, m.keymap.Swap, m.keymap.Cancel}
	}
	return []key.Binding{m.keymap.Edit}
}

// FullHelp returns key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{m.ShortHelp()}
}

// Update handles messages for the convert tab.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case app.ConvertResultMsg:
		m.converting = false
		if msg.Err != nil {
			m.errMsg = msg.Err.Error()
		} else {
			m.errMsg = ""
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, m.updateFocusedInput(msg)
}

func (m *Model) handleKey(msg tea.KeyMsg) (app.Tab, tea.Cmd) {
	if !m.editing {
		if key.Matches(msg, m.keymap.Edit) {
			m.startEditing()
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keymap.Cancel):
		m.stopEditing()
		return m, nil

	case key.Matches(msg, m.keymap.Swap):
		from := m.inputs[fieldFrom].Value()
		m.inputs[fieldFrom].SetValue(m.inputs[fieldTo].Value())
		m.inputs[fieldTo].SetValue(from)
		return m, nil

	case key.Matches(msg, m.keymap.Submit):
		if m.focusIndex == fieldAmount {
			return m, m.submit()
		}
		m.setFocus(m.focusIndex + 1)
		return m, nil

	case key.Matches(msg, m.keymap.NextField):
		m.setFocus((m.focusIndex + 1) % fieldCount)
		return m, nil

	case key.Matches(msg, m.keymap.PrevField):
		m.setFocus((m.focusIndex - 1 + fieldCount) % fieldCount)
		return m, nil
	}

	return m, m.updateFocusedInput(msg)
}

func (m *Model) startEditing() {
	m.editing = true
	m.setFocus(fieldFrom)
}

func (m *Model) stopEditing() {
	m.editing = false
	for i := range m.inputs {
		m.inputs[i].Blur()
	}
}

func (m *Model) setFocus(index int) {
	m.focusIndex = index
	for i := range m.inputs {
		if i == index {
			m.inputs[i].Focus()
			m.inputs[i].PromptStyle = styles.FocusedStyle
			m.inputs[i].TextStyle = styles.FocusedStyle
		} else {
			m.inputs[i].Blur()
			m.inputs[i].PromptStyle = styles.BlurredStyle
			m.inputs[i].TextStyle = styles.BlurredStyle
		}
	}
}

func (m *Model) updateFocusedInput(msg tea.Msg) tea.Cmd {
	if !m.editing {
		return nil
	}
	var cmd tea.Cmd
	m.inputs[m.focusIndex], cmd = m.inputs[m.focusIndex].Update(msg)
	return cmd
}

func (m *Model) submit() tea.Cmd {
	from := m.inputs[fieldFrom].Value()
	to := m.inputs[fieldTo].Value()
	amount := m.inputs[fieldAmount].Value()

	if from == "" || to == "" || amount == "" {
		m.errMsg = "all fields are required"
		return nil
	}

	m.converting = true
	m.errMsg = ""
	m.state.SetLoading("convert", true)

	return m.commands.Convert(from, to, amount)
}
