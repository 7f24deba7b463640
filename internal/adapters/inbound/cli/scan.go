package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/openkraft/codereview/internal/adapters/outbound/report"
	"github.com/openkraft/codereview/internal/adapters/outbound/tui"
	"github.com/openkraft/codereview/internal/domain"
)

func newScanCmd(g *globals) *cobra.Command {
	var (
		prefs prefFlags
		out   outputFlags
		lang  string
	)

	cmd := &cobra.Command{
		Use:   "scan [paths...]",
		Short: "Run the security scanners over source files",
		Long: `Run bandit (Python) or semgrep (JavaScript, TypeScript) over files or
directories. When a scanner is not installed, a built-in pattern scan is used.
Scan failures never fail the command.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			svcs, _, err := g.services()
			if err != nil {
				return err
			}

			var scans []domain.FileScan
			if len(args) == 1 && args[0] == stdinPath {
				if lang == "" {
					return fmt.Errorf("--lang is required when reading from stdin")
				}
				code, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("reading stdin: %w", err)
				}
				rep, _ := svcs.Scan.Scan(cmd.Context(), domain.ReviewRequest{
					FilePath:    stdinPath,
					Language:    domain.Language(lang),
					Code:        string(code),
					Preferences: prefs.preferences(),
				})
				scans = []domain.FileScan{{Path: stdinPath, Language: domain.Language(lang), Report: rep}}
			} else {
				if len(args) == 0 {
					args = []string{"."}
				}
				if scans, err = svcs.Files.ScanFiles(cmd.Context(), args, prefs.preferences()); err != nil {
					return fmt.Errorf("scan failed: %w", err)
				}
			}

			w := cmd.OutOrStdout()
			if out.json {
				return report.WriteJSON(w, scans)
			}
			r := tui.NewRenderer(isTTY(w))
			for _, s := range scans {
				if s.Err != "" {
					fmt.Fprintf(w, "%s: %s\n\n", s.Path, s.Err)
					continue
				}
				fmt.Fprint(w, r.RenderScan(s.Path, s.Report))
			}
			return nil
		},
	}

	prefs.register(cmd)
	out.register(cmd, false)
	cmd.Flags().StringVar(&lang, "lang", "", `Language of stdin source when the path is "-"`)

	return cmd
}
