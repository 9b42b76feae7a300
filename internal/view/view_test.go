package view

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/todowidget/internal/dom"
	"github.com/idilsaglam/todowidget/internal/model"
	"github.com/idilsaglam/todowidget/internal/store"
)

func newComponents(t *testing.T, opts Options, todos ...string) (*Components, *store.Store) {
	t.Helper()
	st := store.New(model.AppState{Todos: todos})
	return New(dom.NewDocument("test"), st, opts), st
}

func TestButton(t *testing.T) {
	c, _ := newComponents(t, Options{})
	b, err := c.Button()
	require.NoError(t, err)
	assert.Equal(t, "<button>add todo</button>", b.OuterHTML())
}

func TestInputIsEmpty(t *testing.T) {
	c, _ := newComponents(t, Options{})
	in, err := c.Input()
	require.NoError(t, err)
	assert.Equal(t, "input", in.Tag())
	assert.Equal(t, "", in.Value())
}

func TestFormHoldsInputThenButton(t *testing.T) {
	c, _ := newComponents(t, Options{})
	form, err := c.Form()
	require.NoError(t, err)
	kids := form.Children()
	require.Len(t, kids, 2)
	assert.Equal(t, "input", kids[0].Tag())
	assert.Equal(t, "button", kids[1].Tag())
}

func TestFormSubmitReadsInputAtSubmitTime(t *testing.T) {
	c, st := newComponents(t, Options{})
	form, err := c.Form()
	require.NoError(t, err)
	input := form.Children()[0]

	input.SetValue("first draft")
	input.SetValue("buy milk")
	ok := form.Dispatch(dom.NewEvent("submit"))

	assert.False(t, ok, "default navigation is prevented")
	assert.Equal(t, []string{"buy milk"}, st.Get().Todos)
	assert.Equal(t, "buy milk", input.Value(), "input is not cleared")

	input.SetValue("walk dog")
	form.Dispatch(dom.NewEvent("submit"))
	assert.Equal(t, []string{"walk dog", "buy milk"}, st.Get().Todos)
	assert.Empty(t, st.Get().CompletedTodos)
}

func TestFormSubmitEmptyValue(t *testing.T) {
	c, st := newComponents(t, Options{})
	form, err := c.Form()
	require.NoError(t, err)
	form.Dispatch(dom.NewEvent("submit"))
	assert.Equal(t, []string{""}, st.Get().Todos)
}

func TestListKeepsStoreOrder(t *testing.T) {
	c, _ := newComponents(t, Options{}, "walk dog", "buy milk")
	ul, err := c.List()
	require.NoError(t, err)
	assert.Equal(t, "<ul><li>walk dog</li><li>buy milk</li></ul>", ul.OuterHTML())
}

func TestListEmpty(t *testing.T) {
	c, _ := newComponents(t, Options{})
	ul, err := c.List()
	require.NoError(t, err)
	assert.Equal(t, "<ul></ul>", ul.OuterHTML())
}

func TestListItemEscapesByDefault(t *testing.T) {
	c, _ := newComponents(t, Options{})
	li, err := c.ListItem("<b>x</b>")
	require.NoError(t, err)
	assert.Equal(t, "<li>&lt;b&gt;x&lt;/b&gt;</li>", li.OuterHTML())
}

func TestListItemUnsafeHTMLInterpretsMarkup(t *testing.T) {
	c, _ := newComponents(t, Options{UnsafeHTML: true})
	li, err := c.ListItem("<b>x</b>")
	require.NoError(t, err)
	assert.Equal(t, "<li><b>x</b></li>", li.OuterHTML())
}

func TestListItemEmpty(t *testing.T) {
	for _, unsafe := range []bool{false, true} {
		c, _ := newComponents(t, Options{UnsafeHTML: unsafe})
		li, err := c.ListItem("")
		require.NoError(t, err)
		assert.Equal(t, "<li></li>", li.OuterHTML())
	}
}
