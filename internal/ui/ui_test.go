package ui

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/todowidget/internal/dom"
)

func mount(t *testing.T, value string, todos ...string) *dom.Element {
	t.Helper()
	doc := dom.NewDocument("t")
	app := doc.GetElementByID("app")
	form, err := doc.CreateElement("form")
	require.NoError(t, err)
	in, err := doc.CreateElement("input")
	require.NoError(t, err)
	in.SetValue(value)
	btn, err := doc.CreateElement("button", "add todo")
	require.NoError(t, err)
	dom.RenderElement(in, form)
	dom.RenderElement(btn, form)
	ul, err := doc.CreateElement("ul")
	require.NoError(t, err)
	for _, td := range todos {
		li, err := doc.CreateElement("li")
		require.NoError(t, err)
		li.SetTextContent(td)
		dom.RenderElement(li, ul)
	}
	dom.RenderElement(form, app)
	dom.RenderElement(ul, app)
	return app
}

func TestMountLines(t *testing.T) {
	SetTheme("mono")
	t.Cleanup(func() { SetTheme("classic") })

	lines := MountLines(mount(t, "draft", "walk dog", "buy milk"), nil)
	assert.Equal(t, []string{
		"Todos   Total 2",
		"",
		"[ draft ]  (add todo)",
		"",
		"- walk dog",
		"- buy milk",
	}, lines)
}

func TestMountLinesOverrideAndEmpty(t *testing.T) {
	SetTheme("mono")
	t.Cleanup(func() { SetTheme("classic") })

	live := "typing"
	lines := MountLines(mount(t, ""), &live)
	assert.Contains(t, lines, "[ typing ]  (add todo)")
	assert.Contains(t, lines, "no items")
}

func TestMountTextIsFramed(t *testing.T) {
	SetTheme("mono")
	t.Cleanup(func() { SetTheme("classic") })

	out := MountText(mount(t, "", "x"))
	assert.Contains(t, out, "+")
	assert.Contains(t, out, "| - x")
}

func TestThemeFallback(t *testing.T) {
	SetTheme("does-not-exist")
	assert.Equal(t, "classic", Current().Name)
	SetTheme("NEON")
	assert.Equal(t, "neon", Current().Name)
	SetTheme("classic")
}

func TestOKAndFail(t *testing.T) {
	SetTheme("mono")
	t.Cleanup(func() { SetTheme("classic") })

	var out bytes.Buffer
	OK(&out, "added")
	Fail(&out, "nope")
	assert.Equal(t, "ok added\nerror: nope\n", out.String())
}
