package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/openkraft/codereview/internal/adapters/outbound/tui"
	"github.com/openkraft/codereview/internal/domain"
)

func newWatchCmd(g *globals) *cobra.Command {
	var (
		prefs     prefFlags
		runOnSave bool
	)

	cmd := &cobra.Command{
		Use:   "watch [dir]",
		Short: "Review files as they are saved",
		Long:  "Watch a directory tree and review each supported file when it is written. Stop with Ctrl-C.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			svcs, _, err := g.services()
			if err != nil {
				return err
			}

			p := prefs.preferences()
			p.RunOnSave = runOnSave

			w := cmd.OutOrStdout()
			r := tui.NewRenderer(isTTY(w))
			fmt.Fprintf(cmd.ErrOrStderr(), "watching %s\n", dir)
			return svcs.Watch.Watch(cmd.Context(), dir, p, func(rev domain.FileReview) {
				if rev.Err != "" {
					fmt.Fprintf(w, "%s: %s\n\n", rev.Path, rev.Err)
					return
				}
				fmt.Fprint(w, r.RenderReview(rev.Path, rev.Language, rev.Diagnostics))
			})
		},
	}

	prefs.register(cmd)
	cmd.Flags().BoolVar(&runOnSave, "run-on-save", true, "Review files when they are saved")

	return cmd
}
