package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/openkraft/codereview/internal/adapters/outbound/toolrun"
	"github.com/openkraft/codereview/internal/application"
	"github.com/openkraft/codereview/internal/bootstrap"
	"github.com/openkraft/codereview/internal/domain"
)

var (
	version = "dev"
	commit  = "none"
)

// runnerOverride replaces the subprocess runner in tests.
var runnerOverride toolrun.Runner

// globals holds state shared by every subcommand.
type globals struct {
	verbose   bool
	configDir string
	jobs      int
	logger    *zap.Logger
}

func newRootCmd() *cobra.Command {
	g := &globals{}

	cmd := &cobra.Command{
		Use:   "codereview",
		Short: "Aggregate linters, security scanners and heuristics into one review",
		Long: `codereview runs built-in heuristics and external analysis tools (flake8, bandit,
eslint, semgrep) over Python, JavaScript and TypeScript sources and reports one
normalized list of diagnostics. Missing tools degrade to built-in fallbacks.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			config := zap.NewProductionConfig()
			if g.verbose {
				config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
			}
			logger, err := config.Build()
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			g.logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if g.logger != nil {
				_ = g.logger.Sync()
			}
		},
	}

	cmd.PersistentFlags().BoolVarP(&g.verbose, "verbose", "v", false, "Enable debug logging")
	cmd.PersistentFlags().StringVar(&g.configDir, "config-dir", ".", "Directory containing .codereview.yaml")
	cmd.PersistentFlags().IntVarP(&g.jobs, "jobs", "j", 0, "Files processed concurrently (0 = number of CPUs)")

	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newReviewCmd(g))
	cmd.AddCommand(newScanCmd(g))
	cmd.AddCommand(newStatusCmd(g))
	cmd.AddCommand(newWatchCmd(g))
	cmd.AddCommand(newServeCmd(g))
	cmd.AddCommand(newMCPCmd(g))
	return cmd
}

// services loads the config and wires the application services.
func (g *globals) services() (*application.Services, domain.Config, error) {
	return bootstrap.Load(bootstrap.Options{
		Dir:     g.configDir,
		Version: version,
		Jobs:    g.jobs,
		Logger:  g.logger,
		Runner:  runnerOverride,
	})
}

// NewRootCmdForTest returns the root command for testing.
func NewRootCmdForTest() *cobra.Command {
	return newRootCmd()
}

// Execute runs the root command. SIGINT and SIGTERM cancel the command's
// context, which stops long-running commands cleanly.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return newRootCmd().ExecuteContext(ctx)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show codereview version",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "codereview %s (%s)\n", version, commit)
			return nil
		},
	}
}
