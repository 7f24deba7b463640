package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/openkraft/codereview/internal/adapters/outbound/report"
	"github.com/openkraft/codereview/internal/adapters/outbound/tui"
)

func newStatusCmd(g *globals) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show service health and external tool availability",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svcs, _, err := g.services()
			if err != nil {
				return err
			}
			st := svcs.Status.Status()
			if jsonOutput {
				return report.WriteJSON(cmd.OutOrStdout(), st)
			}
			fmt.Fprint(cmd.OutOrStdout(), tui.RenderStatus(st))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output status as JSON")
	return cmd
}
