package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/openkraft/codereview/internal/domain"
)

// FileName is the config file looked up in the project directory.
const FileName = ".codereview.yaml"

// YAMLLoader implements domain.ConfigLoader by reading .codereview.yaml and
// overlaying environment variables.
type YAMLLoader struct{}

// New creates a YAMLLoader.
func New() *YAMLLoader { return &YAMLLoader{} }

// Load reads .codereview.yaml from dir. A missing file yields the defaults.
// Environment variables (CODEREVIEW_*, OPENAI_API_KEY, GEMINI_API_KEY) are
// applied last.
func (l *YAMLLoader) Load(dir string) (domain.Config, error) {
	cfg := domain.DefaultConfig()

	data, err := os.ReadFile(filepath.Join(dir, FileName))
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return domain.Config{}, err
	default:
		var file domain.Config
		if err := yaml.Unmarshal(data, &file); err != nil {
			return domain.Config{}, fmt.Errorf("parsing %s: %w", FileName, err)
		}
		// Validate before merging to catch typos in the user's raw input.
		if err := file.Validate(); err != nil {
			return domain.Config{}, fmt.Errorf("invalid %s: %w", FileName, err)
		}
		cfg = mergeConfig(cfg, file)
	}

	cfg, err = overlayEnv(cfg)
	if err != nil {
		return domain.Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return domain.Config{}, fmt.Errorf("invalid environment: %w", err)
	}
	return cfg, nil
}

// mergeConfig overlays explicit values on top of base. Non-zero values win,
// field by field.
func mergeConfig(base, override domain.Config) domain.Config {
	result := base
	result.Tools = make(map[string]domain.ToolConfig, len(base.Tools))
	for name, tc := range base.Tools {
		result.Tools[name] = tc
	}

	for name, tc := range override.Tools {
		merged := result.Tools[name]
		if tc.Binary != "" {
			merged.Binary = tc.Binary
		}
		if tc.Timeout != 0 {
			merged.Timeout = tc.Timeout
		}
		result.Tools[name] = merged
	}

	if override.LLM.Provider != "" {
		result.LLM.Provider = override.LLM.Provider
	}
	if override.LLM.Model != "" {
		result.LLM.Model = override.LLM.Model
	}
	if override.LLM.BaseURL != "" {
		result.LLM.BaseURL = override.LLM.BaseURL
	}
	if override.Server.Addr != "" {
		result.Server.Addr = override.Server.Addr
	}

	return result
}

// providerKeyEnv is the conventional credential variable per provider.
var providerKeyEnv = map[string]string{
	domain.ProviderOpenAI: "OPENAI_API_KEY",
	domain.ProviderGemini: "GEMINI_API_KEY",
}

func overlayEnv(cfg domain.Config) (domain.Config, error) {
	v := viper.New()
	v.SetEnvPrefix("CODEREVIEW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if s := v.GetString("llm.provider"); s != "" {
		cfg.LLM.Provider = s
	}
	if s := v.GetString("llm.model"); s != "" {
		cfg.LLM.Model = s
	}
	if s := v.GetString("llm.base_url"); s != "" {
		cfg.LLM.BaseURL = s
	}
	if s := v.GetString("server.addr"); s != "" {
		cfg.Server.Addr = s
	}

	for _, name := range domain.ValidTools {
		tc := cfg.Tool(name)
		if s := v.GetString("tools." + name + ".binary"); s != "" {
			tc.Binary = s
		}
		if s := v.GetString("tools." + name + ".timeout"); s != "" {
			d := v.GetDuration("tools." + name + ".timeout")
			if d <= 0 {
				return domain.Config{}, fmt.Errorf("invalid duration %q for tools.%s.timeout", s, name)
			}
			tc.Timeout = d
		}
		cfg.Tools[name] = tc
	}

	// The explicit variable wins over the provider's conventional one.
	keyEnv := []string{"llm.api_key", "CODEREVIEW_LLM_API_KEY"}
	if name, ok := providerKeyEnv[cfg.LLM.Provider]; ok {
		keyEnv = append(keyEnv, name)
	}
	if err := v.BindEnv(keyEnv...); err != nil {
		return domain.Config{}, fmt.Errorf("binding api key: %w", err)
	}
	cfg.LLM.APIKey = v.GetString("llm.api_key")

	return cfg, nil
}
