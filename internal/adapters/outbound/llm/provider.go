package llm

import (
	"fmt"

	"github.com/openkraft/codereview/internal/domain"
)

// DefaultModels is the model used per provider when none is configured.
var DefaultModels = map[string]string{
	domain.ProviderOpenAI: "gpt-3.5-turbo",
	domain.ProviderGemini: "gemini-2.0-flash",
}

// New creates a completer for the configured provider. It fails when no
// credential is present.
func New(cfg domain.LLMConfig) (domain.Completer, error) {
	if !cfg.Configured() {
		return nil, fmt.Errorf("no API key configured for provider %q", cfg.Provider)
	}

	provider := cfg.Provider
	if provider == "" {
		provider = domain.ProviderOpenAI
	}
	model := cfg.Model
	if model == "" {
		model = DefaultModels[provider]
	}

	switch provider {
	case domain.ProviderOpenAI:
		return NewOpenAI(cfg.APIKey, model, cfg.BaseURL), nil
	case domain.ProviderGemini:
		return NewGemini(cfg.APIKey, model)
	default:
		return nil, fmt.Errorf("unknown provider: %s", provider)
	}
}
