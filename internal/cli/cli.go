// Package cli wires configuration, logging and the frontends into the
// todo command.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/idilsaglam/todowidget/internal/app"
	"github.com/idilsaglam/todowidget/internal/config"
	"github.com/idilsaglam/todowidget/internal/dom"
	"github.com/idilsaglam/todowidget/internal/logging"
	"github.com/idilsaglam/todowidget/internal/metrics"
	"github.com/idilsaglam/todowidget/internal/model"
	"github.com/idilsaglam/todowidget/internal/store"
	"github.com/idilsaglam/todowidget/internal/ui"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
)

// Options tune where the command writes.
type Options struct {
	Stdout io.Writer
	Stderr io.Writer
}

// usageError marks errors that should exit with status 2.
type usageError struct{ err error }

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

// env is what every subcommand gets after the root has loaded config.
type env struct {
	opts   Options
	cfg    *config.Config
	logger *log.Logger
}

// Run executes the command line and returns an exit code (0 ok, 1 error, 2 usage).
func Run(args []string, opts Options) int {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}

	root := newRootCmd(opts)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	if err == nil {
		return 0
	}

	ui.Fail(opts.Stderr, err.Error())
	var ue usageError
	if errors.As(err, &ue) || strings.HasPrefix(err.Error(), "unknown command") {
		fmt.Fprintln(opts.Stderr, ui.Current().Muted.Render("Hint: run `todo help` to see usage"))
		return 2
	}
	return 1
}

func newRootCmd(opts Options) *cobra.Command {
	e := &env{opts: opts}

	root := &cobra.Command{
		Use:   "todo",
		Short: "A tiny todo widget: one store, one render loop",
		Long: `todo hosts a minimal todo-list widget.

The widget keeps its todos in memory and rebuilds its form and list
every time one is added. Serve it to a browser, drive it from the
terminal, or render it once from the command line.`,
		Example: `  todo serve --addr :8080
  todo tui
  todo render "buy milk" "walk dog" --format text`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return e.load(cmd)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			_ = cmd.Help()
			return usageError{errors.New("missing subcommand")}
		},
	}
	root.SetOut(opts.Stdout)
	root.SetErr(opts.Stderr)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError{err}
	})
	config.RegisterFlags(root.PersistentFlags())

	root.AddCommand(
		serveCmd(e),
		tuiCmd(e),
		renderCmd(e),
		versionCmd(e),
	)
	return root
}

func (e *env) load(cmd *cobra.Command) error {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	e.cfg = cfg
	ui.SetTheme(cfg.Theme)
	e.logger = logging.NewFromConfig(e.opts.Stderr, cfg.Log.Level, cfg.Log.Format)
	for _, f := range cfg.Files {
		e.logger.Debug("config file applied", "path", f)
	}
	return nil
}

// newApp builds a started widget on doc for the named frontend.
func (e *env) newApp(doc *dom.Document, frontend string, logger *log.Logger, m *metrics.Metrics) (*app.App, error) {
	a, err := app.New(doc, store.New(model.NewAppState()),
		app.WithLogger(logger),
		app.WithMetrics(m),
		app.WithUnsafeHTML(e.cfg.UnsafeHTML),
		app.WithFrontend(frontend),
	)
	if err != nil {
		return nil, err
	}
	if err := a.Start(); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

func versionCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		// version must work even when the config files are broken.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(e.opts.Stdout, "todo %s (%s)\n", version, commit)
		},
	}
}
