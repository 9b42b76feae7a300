package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/todowidget/internal/config"
	"github.com/idilsaglam/todowidget/internal/logging"
	"github.com/idilsaglam/todowidget/internal/model"
	"github.com/idilsaglam/todowidget/internal/ui"
)

// isolate keeps config discovery away from the real home and working dir.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, ".config"))
	for _, k := range []string{"PORT", "TODO_ADDR", "TODO_TITLE", "TODO_THEME", "TODO_LOG_LEVEL", "TODO_LOG_FORMAT", "TODO_UNSAFE_HTML"} {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Cleanup(func() { ui.SetTheme("classic") })
	return dir
}

func run(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := Run(args, Options{Stdout: &stdout, Stderr: &stderr})
	return code, stdout.String(), stderr.String()
}

func TestRenderJSON(t *testing.T) {
	isolate(t)
	code, out, _ := run(t, "render", "--format", "json", "buy milk", "walk dog")
	require.Equal(t, 0, code)

	var st model.AppState
	require.NoError(t, json.Unmarshal([]byte(out), &st))
	assert.Equal(t, []string{"walk dog", "buy milk"}, st.Todos)
	assert.Equal(t, []string{}, st.CompletedTodos)
}

func TestRenderMount(t *testing.T) {
	isolate(t)
	code, out, _ := run(t, "render", "-f", "mount", "<b>x</b>", "")
	require.Equal(t, 0, code)
	assert.Equal(t,
		`<form method="post"><input type="text" name="todo"/><button>add todo</button></form><ul><li></li><li>&lt;b&gt;x&lt;/b&gt;</li></ul>`+"\n",
		out)
}

func TestRenderUnsafeHTML(t *testing.T) {
	isolate(t)
	code, out, _ := run(t, "render", "-f", "mount", "--unsafe-html", "<b>x</b>")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "<li><b>x</b></li>")
}

func TestRenderHTMLUsesConfigTitle(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "todo.toml"), []byte(`title = "groceries"`), 0o644))

	code, out, _ := run(t, "render")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "<title>groceries</title>")
	assert.Contains(t, out, `<div id="app"><form method="post">`)
}

func TestRenderText(t *testing.T) {
	isolate(t)
	code, out, _ := run(t, "render", "--theme", "mono", "-f", "text", "a", "b")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "Todos   Total 2")
	assert.Contains(t, out, "- b")
	assert.Contains(t, out, "- a")
}

func TestUsageErrors(t *testing.T) {
	isolate(t)
	tests := []struct {
		name string
		args []string
	}{
		{name: "no args", args: nil},
		{name: "unknown subcommand", args: []string{"frobnicate"}},
		{name: "unknown flag", args: []string{"render", "--nope"}},
		{name: "bad format", args: []string{"render", "-f", "xml"}},
		{name: "args to version", args: []string{"version", "extra"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, stderr := run(t, tt.args...)
			assert.Equal(t, 2, code, stderr)
			assert.Contains(t, stderr, "todo help")
		})
	}
}

func TestConfigErrorExitsOne(t *testing.T) {
	isolate(t)
	code, _, stderr := run(t, "render", "--theme", "rainbow")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "unknown theme")
}

func TestVersion(t *testing.T) {
	isolate(t)
	code, out, _ := run(t, "version")
	assert.Equal(t, 0, code)
	assert.Equal(t, "todo dev (none)\n", out)
}

func TestVersionIgnoresBrokenConfig(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "todo.toml"), []byte("title = "), 0o644))

	code, _, stderr := run(t, "render")
	require.Equal(t, 1, code, "the file really is broken")
	assert.Contains(t, stderr, "config")

	code, out, stderr := run(t, "version")
	assert.Equal(t, 0, code, stderr)
	assert.Equal(t, "todo dev (none)\n", out)
}

func TestServeStopsCleanly(t *testing.T) {
	isolate(t)
	ui.SetTheme("mono")
	cfg := config.Default()
	cfg.Addr = "127.0.0.1:0"

	var stdout bytes.Buffer
	e := &env{opts: Options{Stdout: &stdout, Stderr: io.Discard}, cfg: cfg, logger: logging.Discard()}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.NoError(t, e.serve(ctx))
	assert.Equal(t, "ok server stopped\n", stdout.String())
}
