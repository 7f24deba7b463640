package llm

import (
	"context"
	"fmt"

	"fortio.org/safecast"
	"google.golang.org/genai"

	"github.com/openkraft/codereview/internal/domain"
)

// Gemini completes prompts through the Google GenAI SDK.
type Gemini struct {
	client *genai.Client
	model  string
}

// NewGemini creates a Gemini completer backed by the Gemini API.
func NewGemini(apiKey, model string) (*Gemini, error) {
	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating GenAI client: %w", err)
	}
	return &Gemini{client: client, model: model}, nil
}

func (g *Gemini) Name() string { return domain.ProviderGemini }

func (g *Gemini) Complete(ctx context.Context, req domain.CompletionRequest) (string, error) {
	maxTokens, err := safecast.Conv[int32](req.MaxTokens)
	if err != nil {
		return "", fmt.Errorf("max tokens: %w", err)
	}

	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(req.SystemPrompt, genai.RoleUser),
		MaxOutputTokens:   maxTokens,
		Temperature:       genai.Ptr(float32(req.Temperature)),
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(req.UserPrompt), cfg)
	if err != nil {
		return "", fmt.Errorf("generating content: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("empty text content in API response")
	}
	return text, nil
}
