package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/todowidget/internal/dom"
	"github.com/idilsaglam/todowidget/internal/ui"
)

var renderFormats = []string{"html", "mount", "text", "json"}

func renderCmd(e *env) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "render [todo...]",
		Short: "Submit each todo in order, then print the result",
		Long: `Start a fresh widget, submit every argument through its form in the
order given, then print the result once.

Formats:
  html   the whole document
  mount  the inner HTML of #app
  text   the widget drawn for a terminal
  json   the store state`,
		Example: `  todo render "buy milk" "walk dog"
  todo render "" --format json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !validFormat(format) {
				return usageError{fmt.Errorf("unknown format %q (want %s)", format, strings.Join(renderFormats, ", "))}
			}
			return e.render(args, format)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "html", "output format: "+strings.Join(renderFormats, ", "))
	return cmd
}

func validFormat(f string) bool {
	for _, v := range renderFormats {
		if f == v {
			return true
		}
	}
	return false
}

func (e *env) render(todos []string, format string) error {
	a, err := e.newApp(dom.NewDocument(e.cfg.Title), "cli", e.logger, nil)
	if err != nil {
		return err
	}
	defer a.Close()

	for _, td := range todos {
		if err := a.Submit(td); err != nil {
			return fmt.Errorf("submit %q: %w", td, err)
		}
	}

	out := e.opts.Stdout
	switch format {
	case "html":
		if err := a.WriteHTML(out); err != nil {
			return err
		}
		fmt.Fprintln(out)
	case "mount":
		fmt.Fprintln(out, a.MountHTML())
	case "text":
		a.Inspect(func(mount *dom.Element) {
			fmt.Fprintln(out, ui.MountText(mount))
		})
	case "json":
		b, err := json.MarshalIndent(a.State(), "", "  ")
		if err != nil {
			return fmt.Errorf("json marshal: %w", err)
		}
		fmt.Fprintln(out, string(b))
	}
	return nil
}
