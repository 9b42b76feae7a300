package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/todowidget/internal/app"
	"github.com/idilsaglam/todowidget/internal/dom"
	"github.com/idilsaglam/todowidget/internal/model"
	"github.com/idilsaglam/todowidget/internal/store"
	"github.com/idilsaglam/todowidget/internal/ui"
)

func newModel(t *testing.T) (Model, *app.App) {
	t.Helper()
	ui.SetTheme("mono")
	t.Cleanup(func() { ui.SetTheme("classic") })

	a, err := app.New(dom.NewDocument("t"), store.New(model.NewAppState()), app.WithFrontend("tui"))
	require.NoError(t, err)
	require.NoError(t, a.Start())
	t.Cleanup(a.Close)
	return New(a), a
}

func typeText(m Model, s string) Model {
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
	return next.(Model)
}

func press(m Model, k tea.KeyType) (Model, tea.Cmd) {
	next, cmd := m.Update(tea.KeyMsg{Type: k})
	return next.(Model), cmd
}

func TestEnterSubmitsInputValue(t *testing.T) {
	m, a := newModel(t)

	m = typeText(m, "buy milk")
	m, _ = press(m, tea.KeyEnter)
	m = typeText(m, "walk dog")
	m, _ = press(m, tea.KeyEnter)

	assert.Equal(t, []string{"walk dog", "buy milk"}, a.State().Todos)
	assert.NoError(t, m.err)
	assert.Equal(t, "", m.input.Value(), "mirrors the rebuilt DOM input")

	view := m.View()
	assert.Contains(t, view, "Todos   Total 2")
	assert.Contains(t, view, "- walk dog")
	assert.Contains(t, view, "- buy milk")
	assert.Less(t, strings.Index(view, "walk dog"), strings.Index(view, "buy milk"))
}

func TestEnterWithEmptyInput(t *testing.T) {
	m, a := newModel(t)
	m, _ = press(m, tea.KeyEnter)
	assert.Equal(t, []string{""}, a.State().Todos)
	assert.Contains(t, m.View(), "Total 1")
}

func TestLongInputIsKeptWhole(t *testing.T) {
	m, a := newModel(t)
	long := strings.Repeat("ab", 150)

	m = typeText(m, long)
	_, _ = press(m, tea.KeyEnter)
	require.Len(t, a.State().Todos, 1)
	assert.Equal(t, long, a.State().Todos[0])
}

func TestQuit(t *testing.T) {
	m, _ := newModel(t)
	_, cmd := press(m, tea.KeyCtrlC)
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	_, cmd = press(m, tea.KeyEsc)
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestEmptyView(t *testing.T) {
	m, _ := newModel(t)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 60, Height: 20})
	view := next.(Model).View()
	assert.Contains(t, view, "no items")
	assert.Contains(t, view, "(add todo)")
	assert.Contains(t, view, "quit")
}
