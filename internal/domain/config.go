package domain

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Adapter ids used as keys under `tools:` in the config file.
const (
	ToolFlake8     = "flake8"
	ToolBandit     = "bandit"
	ToolESLint     = "eslint"
	ToolBanditScan = "bandit-scan"
	ToolSemgrep    = "semgrep"
)

// LLM providers.
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// ValidTools enumerates all adapter ids.
var ValidTools = []string{ToolFlake8, ToolBandit, ToolESLint, ToolBanditScan, ToolSemgrep}

// ValidProviders enumerates all LLM providers.
var ValidProviders = []string{ProviderOpenAI, ProviderGemini}

// ToolConfig configures one external tool adapter.
type ToolConfig struct {
	Binary  string        `yaml:"binary"  json:"binary,omitempty"`
	Timeout time.Duration `yaml:"timeout" json:"timeout,omitempty"`
}

// LLMConfig configures the optional enhancement stage. An empty Model selects
// the provider's default. APIKey is only ever read from the environment.
type LLMConfig struct {
	Provider string `yaml:"provider" json:"provider,omitempty"`
	Model    string `yaml:"model"    json:"model,omitempty"`
	BaseURL  string `yaml:"base_url" json:"base_url,omitempty"`
	APIKey   string `yaml:"-"        json:"-"`
}

// Configured reports whether a credential is present.
func (c LLMConfig) Configured() bool { return c.APIKey != "" }

// ServerConfig configures the HTTP transport.
type ServerConfig struct {
	Addr string `yaml:"addr" json:"addr,omitempty"`
}

// Config holds the service configuration loaded from .codereview.yaml.
type Config struct {
	Tools  map[string]ToolConfig `yaml:"tools"  json:"tools,omitempty"`
	LLM    LLMConfig             `yaml:"llm"    json:"llm"`
	Server ServerConfig          `yaml:"server" json:"server"`
}

// DefaultConfig returns the built-in tool binaries and timeouts.
func DefaultConfig() Config {
	return Config{
		Tools: map[string]ToolConfig{
			ToolFlake8:     {Binary: "flake8", Timeout: 10 * time.Second},
			ToolBandit:     {Binary: "bandit", Timeout: 10 * time.Second},
			ToolESLint:     {Binary: "npx", Timeout: 15 * time.Second},
			ToolBanditScan: {Binary: "bandit", Timeout: 15 * time.Second},
			ToolSemgrep:    {Binary: "semgrep", Timeout: 30 * time.Second},
		},
		LLM:    LLMConfig{Provider: ProviderOpenAI},
		Server: ServerConfig{Addr: "127.0.0.1:8000"},
	}
}

// Tool returns the configuration for the adapter id, falling back to the
// built-in default for any zero field.
func (c Config) Tool(name string) ToolConfig {
	def := DefaultConfig().Tools[name]
	tc, ok := c.Tools[name]
	if !ok {
		return def
	}
	if tc.Binary == "" {
		tc.Binary = def.Binary
	}
	if tc.Timeout == 0 {
		tc.Timeout = def.Timeout
	}
	return tc
}

// Validate checks the config for invalid values and returns a descriptive error.
func (c Config) Validate() error {
	names := make([]string, 0, len(c.Tools))
	for name := range c.Tools {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if !contains(ValidTools, name) {
			return fmt.Errorf("unknown tool %q (valid: %s)", name, strings.Join(ValidTools, ", "))
		}
		if c.Tools[name].Timeout < 0 {
			return fmt.Errorf("tools.%s.timeout must not be negative", name)
		}
	}

	if c.LLM.Provider != "" && !contains(ValidProviders, c.LLM.Provider) {
		return fmt.Errorf("unknown llm provider %q (valid: %s)", c.LLM.Provider, strings.Join(ValidProviders, ", "))
	}

	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
