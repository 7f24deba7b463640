package cli

import (
	"github.com/spf13/cobra"

	"github.com/openkraft/codereview/internal/adapters/inbound/httpapi"
)

func newServeCmd(g *globals) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP JSON API",
		Long:  "Serve GET /api/status, POST /api/review and POST /api/scan-security until interrupted.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svcs, cfg, err := g.services()
			if err != nil {
				return err
			}
			if addr == "" {
				addr = cfg.Server.Addr
			}
			return httpapi.NewServer(svcs, version, g.logger.Named("http")).ListenAndServe(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (defaults to server.addr from config)")
	return cmd
}
