package cli

import (
	"context"
	"fmt"
	"net"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/matzehuels/uniquepaths/pkg/observability"
	"github.com/matzehuels/uniquepaths/pkg/pipeline"
	"github.com/matzehuels/uniquepaths/pkg/server"
)

// serveCommand creates the serve command, which runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var addr, dataDir string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Serve the counting pipeline over HTTP:

  POST /v1/count?start=<node>&end=<node>   edge list or JSON graph body
  GET  /v1/runs, /v1/runs/{id}             run reports
  GET  /healthz, /metrics                  health and Prometheus metrics

Cache and report store backends come from the [cache] and [store] sections
of --config.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := *c.config
			if cmd.Flags().Changed("addr") {
				cfg.Server.Addr = addr
			}
			if cmd.Flags().Changed("data-dir") {
				cfg.Server.DataDir = dataDir
			}
			return c.runServe(cmd.Context(), &cfg)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default :8080)")
	cmd.Flags().StringVar(&dataDir, "data-dir", "", "directory of graphs addressable with ?graph=<name>")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, cfg *pipeline.Config) error {
	ch, err := cfg.OpenCache()
	if err != nil {
		return fmt.Errorf("open cache: %w", err)
	}
	runner := pipeline.NewRunner(ch, cfg.Keyer(), c.Logger)
	defer runner.Close()

	st, err := cfg.OpenStore(ctx)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	runner.Store = st

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	hooks := observability.NewPrometheusHooks(reg)
	observability.SetPipelineHooks(hooks)
	observability.SetCacheHooks(hooks)
	defer observability.Reset()

	srv, err := server.New(server.Options{
		Config:   cfg,
		Runner:   runner,
		Logger:   c.Logger,
		Hooks:    hooks,
		Gatherer: reg,
	})
	if err != nil {
		return err
	}

	c.Logger.Info("starting server",
		"cache", cfg.Cache.Backend,
		"store", cfg.Store.Backend,
		"data_dir", cfg.Server.DataDir)
	printInfo("Listening on %s", StyleLink.Render("http://localhost"+displayAddr(cfg.Server.Addr)))
	return srv.ListenAndServe(ctx)
}

// displayAddr reduces a listen address to its port, e.g. ":8080".
func displayAddr(addr string) string {
	_, port, err := net.SplitHostPort(addr)
	if err != nil {
		return addr
	}
	return ":" + port
}
