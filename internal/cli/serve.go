package cli

import (
	"context"
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/matzehuels/jeweler/internal/server"
)

// serveCommand creates the serve command, which runs the HTTP binding.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve enumeration over HTTP",
		Long: `Serve enumeration over HTTP with Prometheus metrics at /metrics.

  curl -s localhost:8080/v1/enumerate -d '{"counts":[3,2,1]}'
  curl -sN localhost:8080/v1/enumerate/stream -d '{"counts":[8,8],"mode":"lyndon"}'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = c.Config.Server.Addr
			}
			runner, store, err := c.newRunner(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer c.closeStore(store)

			reg := prometheus.NewRegistry()
			reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
			server.NewMetrics(reg).Register()

			srv := server.New(runner, c.Logger, server.Config{
				MaxResults:     c.Config.Server.MaxResults,
				RequestTimeout: c.Config.Server.RequestTimeout,
				Gatherer:       reg,
			})
			err = srv.ListenAndServe(cmd.Context(), addr)
			if errors.Is(err, context.Canceled) || errors.Is(err, http.ErrServerClosed) {
				printSuccess("Server stopped")
				return nil
			}
			return err
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")

	return cmd
}
