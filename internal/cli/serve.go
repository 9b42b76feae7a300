package cli

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/idilsaglam/todowidget/internal/dom"
	"github.com/idilsaglam/todowidget/internal/metrics"
	"github.com/idilsaglam/todowidget/internal/ui"
	"github.com/idilsaglam/todowidget/internal/web"
)

// renderBuckets span 50µs to about 0.8s; a full rebuild of a short list
// finishes well under the default 5ms floor.
var renderBuckets = prometheus.ExponentialBuckets(0.00005, 4, 8)

func serveCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the widget over HTTP",
		Long: `Serve the widget to browsers.

GET / returns the page, a plain form POST adds a todo, /ws pushes every
re-render to open tabs, /api exposes the state as JSON and /metrics
exposes Prometheus metrics.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return e.serve(ctx)
		},
	}
}

func (e *env) serve(ctx context.Context) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	doc := dom.NewDocument(e.cfg.Title)
	if err := web.AttachLiveScript(doc); err != nil {
		return err
	}
	m := metrics.New(metrics.WithRegistry(reg), metrics.WithBuckets(renderBuckets))
	a, err := e.newApp(doc, "web", e.logger, m)
	if err != nil {
		return err
	}
	defer a.Close()

	srv, err := web.New(a, web.Options{Logger: e.logger, Gatherer: reg})
	if err != nil {
		return err
	}
	if err := srv.ListenAndServe(ctx, e.cfg.Addr); err != nil {
		return err
	}
	ui.OK(e.opts.Stdout, "server stopped")
	return nil
}
