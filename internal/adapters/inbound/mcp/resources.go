package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/openkraft/codereview/internal/application"
)

const statusURI = "codereview://status"

// registerResources registers all code review MCP resources on the given server.
func registerResources(s *server.MCPServer, svcs *application.Services) {
	s.AddResource(
		mcplib.NewResource(
			statusURI,
			"Service Status",
			mcplib.WithResourceDescription("Health, enabled features and external tool availability"),
			mcplib.WithMIMEType("application/json"),
		),
		handleStatusResource(svcs.Status),
	)
}

func handleStatusResource(svc *application.StatusService) server.ResourceHandlerFunc {
	return func(_ context.Context, _ mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
		data, err := json.MarshalIndent(svc.Status(), "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshaling status: %w", err)
		}

		return []mcplib.ResourceContents{
			mcplib.TextResourceContents{
				URI:      statusURI,
				MIMEType: "application/json",
				Text:     string(data),
			},
		}, nil
	}
}
