package mcp

import (
	"context"
	"testing"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openkraft/codereview/internal/application"
	"github.com/openkraft/codereview/internal/domain"
)

func TestStatusResource(t *testing.T) {
	svc := application.NewStatusService("1.0.0", domain.LLMConfig{APIKey: "k"}, nil)

	contents, err := handleStatusResource(svc)(context.Background(), mcplib.ReadResourceRequest{})
	require.NoError(t, err)
	require.Len(t, contents, 1)

	text, ok := contents[0].(mcplib.TextResourceContents)
	require.True(t, ok)
	assert.Equal(t, statusURI, text.URI)
	assert.Equal(t, "application/json", text.MIMEType)
	assert.Contains(t, text.Text, `"status": "healthy"`)
	assert.Contains(t, text.Text, `"llmEnabled": true`)
}
