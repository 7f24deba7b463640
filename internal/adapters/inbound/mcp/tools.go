package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/openkraft/codereview/internal/application"
	"github.com/openkraft/codereview/internal/domain"
)

// registerTools registers all code review MCP tools on the given server.
func registerTools(s *server.MCPServer, svcs *application.Services) {
	s.AddTool(
		mcplib.NewTool("codereview_review",
			mcplib.WithDescription("Review source code and return normalized diagnostics (style, correctness, security) as JSON"),
			mcplib.WithString("code", mcplib.Required(), mcplib.Description("Source text to review")),
			mcplib.WithString("language", mcplib.Required(), mcplib.Description("Language: python, javascript or typescript")),
			mcplib.WithString("file_path", mcplib.Description("Label for the source; not read from disk")),
			mcplib.WithBoolean("enable_security", mcplib.Description("Run the security linter (default: true)")),
			mcplib.WithBoolean("enable_llm", mcplib.Description("Attach LLM explanations to the top findings")),
			mcplib.WithBoolean("llm_review", mcplib.Description("Append a whole-file LLM review")),
		),
		handleReview(svcs.Review),
	)

	s.AddTool(
		mcplib.NewTool("codereview_scan_security",
			mcplib.WithDescription("Run the security scanner over source code and return findings with a severity summary"),
			mcplib.WithString("code", mcplib.Required(), mcplib.Description("Source text to scan")),
			mcplib.WithString("language", mcplib.Required(), mcplib.Description("Language: python, javascript or typescript")),
			mcplib.WithString("file_path", mcplib.Description("Label for the source; not read from disk")),
		),
		handleScanSecurity(svcs.Scan),
	)

	s.AddTool(
		mcplib.NewTool("codereview_status",
			mcplib.WithDescription("Returns service health, enabled features and external tool availability"),
		),
		handleStatus(svcs.Status),
	)
}

// parseRequest builds a review request from tool arguments.
func parseRequest(request mcplib.CallToolRequest) (domain.ReviewRequest, error) {
	code, err := request.RequireString("code")
	if err != nil {
		return domain.ReviewRequest{}, err
	}
	lang, err := request.RequireString("language")
	if err != nil {
		return domain.ReviewRequest{}, err
	}

	args := request.GetArguments()
	path, _ := args["file_path"].(string)
	req := domain.NewReviewRequest(path, domain.Language(lang), code)
	if v, ok := args["enable_security"].(bool); ok {
		req.Preferences.EnableSecurity = v
	}
	if v, ok := args["enable_llm"].(bool); ok {
		req.Preferences.EnableLLM = v
	}
	if v, ok := args["llm_review"].(bool); ok {
		req.Preferences.LLMReview = v
	}
	return req, nil
}

func handleReview(svc *application.ReviewService) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		req, err := parseRequest(request)
		if err != nil {
			return errorResult(err.Error()), nil
		}
		diags, err := svc.Review(ctx, req)
		if err != nil {
			var reviewErr *domain.ReviewError
			if errors.As(err, &reviewErr) {
				err = reviewErr.Err
			}
			return errorResult(fmt.Sprintf("Review failed: %v", err)), nil
		}
		return jsonResult(diags)
	}
}

func handleScanSecurity(svc *application.ScanService) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		req, err := parseRequest(request)
		if err != nil {
			return errorResult(err.Error()), nil
		}
		report, err := svc.Scan(ctx, req)
		if err != nil {
			return errorResult(fmt.Sprintf("Security scan failed: %v", err)), nil
		}
		return jsonResult(report)
	}
}

func handleStatus(svc *application.StatusService) server.ToolHandlerFunc {
	return func(_ context.Context, _ mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		return jsonResult(svc.Status())
	}
}

// jsonResult marshals v to JSON and returns it as a text content result.
func jsonResult(v any) (*mcplib.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling result: %w", err)
	}
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(string(data))},
	}, nil
}

// errorResult returns a tool result that indicates an error occurred.
func errorResult(msg string) *mcplib.CallToolResult {
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(msg)},
		IsError: true,
	}
}
