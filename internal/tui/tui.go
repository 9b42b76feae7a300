// Package tui hosts the widget in a terminal with Bubble Tea. The text
// input stands in for the DOM input; enter submits the DOM form.
package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/todowidget/internal/app"
	"github.com/idilsaglam/todowidget/internal/dom"
	"github.com/idilsaglam/todowidget/internal/ui"
)

type keyMap struct {
	Submit key.Binding
	Quit   key.Binding
}

func (k keyMap) ShortHelp() []key.Binding  { return []key.Binding{k.Submit, k.Quit} }
func (k keyMap) FullHelp() [][]key.Binding { return [][]key.Binding{k.ShortHelp()} }

func defaultKeys() keyMap {
	return keyMap{
		Submit: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "add todo")),
		Quit:   key.NewBinding(key.WithKeys("esc", "ctrl+c"), key.WithHelp("esc", "quit")),
	}
}

// Model is the Bubble Tea model around one App.
type Model struct {
	app   *app.App
	input textinput.Model
	keys  keyMap
	help  help.Model
	err   error
}

// New returns a model bound to a. a must already be started.
func New(a *app.App) Model {
	ti := textinput.New()
	ti.Prompt = ""
	ti.Placeholder = "New todo..."
	ti.CharLimit = 0
	ti.Focus()

	h := help.New()
	h.Styles.ShortKey = ui.Current().Muted
	h.Styles.ShortDesc = ui.Current().Muted

	return Model{app: a, input: ti, keys: defaultKeys(), help: h}
}

// Run starts the program on the alternate screen and blocks until quit.
func Run(a *app.App, opts ...tea.ProgramOption) error {
	opts = append([]tea.ProgramOption{tea.WithAltScreen()}, opts...)
	_, err := tea.NewProgram(New(a), opts...).Run()
	return err
}

func (m Model) Init() tea.Cmd { return textinput.Blink }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Submit):
			m.err = m.app.Submit(m.input.Value())
			// The rebuilt form has a fresh input; mirror it.
			m.input.SetValue(m.domInputValue())
			m.input.CursorEnd()
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	field := m.input.View()
	var lines []string
	m.app.Inspect(func(mount *dom.Element) {
		lines = ui.MountLines(mount, &field)
	})
	if m.err != nil {
		lines = append(lines, "", ui.Current().Error.Render(m.err.Error()))
	}
	lines = append(lines, "", m.help.View(m.keys))
	return ui.Panel(lines)
}

func (m Model) domInputValue() string {
	v := ""
	m.app.Inspect(func(mount *dom.Element) {
		if in := mount.QuerySelector("input"); in != nil {
			v = in.Value()
		}
	})
	return v
}
