package cli

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/matzehuels/flowgraph/internal/server"
	"github.com/matzehuels/flowgraph/pkg/observability"
)

func (c *CLI) serveCommand() *cobra.Command {
	var addr string
	var noCache bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve flows over HTTP for a browser-side diagram surface",
		Long: `Serve the flow editing API. Flows are held in memory and addressed by
UUID under /flows. Prometheus metrics are exposed on /metrics.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = c.Config.Server.Addr
			}

			reg := prometheus.NewRegistry()
			reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
			hooks := observability.NewPrometheusHooks(reg)
			observability.SetEditorHooks(hooks)
			observability.SetHTTPHooks(hooks)
			defer observability.Reset()

			logger := loggerFromContext(cmd.Context())
			artifacts := openCache(logger, noCache)
			defer artifacts.Close()

			srv := server.New(c.Config, logger, reg)
			srv.SetCache(artifacts)
			return srv.ListenAndServe(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "do not cache rendered diagrams")
	return cmd
}
