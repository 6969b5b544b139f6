package cli

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/matzehuels/etchgrid/internal/metrics"
	"github.com/matzehuels/etchgrid/internal/server"
	"github.com/matzehuels/etchgrid/pkg/session"
	"github.com/matzehuels/etchgrid/pkg/sketch"
)

type serveOpts struct {
	addr    string
	noCache bool
}

// serveCommand runs the browser front end.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the drawing page over HTTP",
		Example: `  etchgrid serve
  etchgrid serve --addr :9000 --store redis`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (default from config)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "render every export fresh")

	return cmd
}

func (c *CLI) runServe(cmd *cobra.Command, opts serveOpts) error {
	ctx := cmd.Context()

	addr := c.cfg.Server.Addr
	if opts.addr != "" {
		addr = opts.addr
	}

	st, err := c.openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m, err := metrics.New(reg)
	if err != nil {
		return err
	}
	m.Install()

	sessions := session.NewStore(c.cfg.Server.SessionTTL.Duration, func() *sketch.Controller {
		return c.newController()
	})

	srv := server.New(server.Config{
		Addr:     addr,
		Sessions: sessions,
		Store:    st,
		Cache:    c.newCache(opts.noCache),
		Logger:   c.Logger,
		Gatherer: reg,
	})
	c.Logger.Info("starting server", "store", st.Backend(), "session_ttl", c.cfg.Server.SessionTTL.Duration)
	return srv.ListenAndServe(ctx)
}
