package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/openkraft/codereview/internal/application"
)

// NewCodeReviewMCPServer creates an MCP server exposing the review, security
// scan and status operations as tools and the status report as a resource.
func NewCodeReviewMCPServer(svcs *application.Services, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"codereview",
		version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
	)

	registerTools(s, svcs)
	registerResources(s, svcs)

	return s
}
