package cli

import (
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	mcpadapter "github.com/openkraft/codereview/internal/adapters/inbound/mcp"
)

func newMCPCmd(g *globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "MCP server commands",
		Long:  "Commands for running the code review MCP (Model Context Protocol) server.",
	}
	cmd.AddCommand(newMCPServeCmd(g))
	return cmd
}

func newMCPServeCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the code review MCP server (stdio)",
		Long:  "Start the MCP server using stdio transport. This lets AI coding assistants review code, run security scans and query tool status.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svcs, _, err := g.services()
			if err != nil {
				return err
			}
			return server.ServeStdio(mcpadapter.NewCodeReviewMCPServer(svcs, version))
		},
	}
}
