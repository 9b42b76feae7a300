package cli

import (
	"github.com/spf13/cobra"

	"github.com/idilsaglam/todowidget/internal/dom"
	"github.com/idilsaglam/todowidget/internal/logging"
	"github.com/idilsaglam/todowidget/internal/tui"
)

func tuiCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run the widget in the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// Log lines would tear the alternate screen.
			a, err := e.newApp(dom.NewDocument(e.cfg.Title), "tui", logging.Discard(), nil)
			if err != nil {
				return err
			}
			defer a.Close()
			return tui.Run(a)
		},
	}
}
