package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	appconfig "github.com/openkraft/codereview/internal/adapters/outbound/config"
	"github.com/openkraft/codereview/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".codereview.yaml"), []byte(content), 0644))
}

// clearEnv blanks every variable the loader reads so the host environment
// cannot leak into assertions.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"OPENAI_API_KEY", "GEMINI_API_KEY", "CODEREVIEW_LLM_API_KEY",
		"CODEREVIEW_LLM_PROVIDER", "CODEREVIEW_LLM_MODEL", "CODEREVIEW_LLM_BASE_URL",
		"CODEREVIEW_SERVER_ADDR",
	} {
		t.Setenv(k, "")
	}
	for _, name := range domain.ValidTools {
		t.Setenv("CODEREVIEW_TOOLS_"+envName(name)+"_BINARY", "")
		t.Setenv("CODEREVIEW_TOOLS_"+envName(name)+"_TIMEOUT", "")
	}
}

func envName(tool string) string {
	out := []byte(tool)
	for i, c := range out {
		switch {
		case c == '-':
			out[i] = '_'
		case c >= 'a' && c <= 'z':
			out[i] = c - 'a' + 'A'
		}
	}
	return string(out)
}

func TestYAMLLoader_MissingFileReturnsDefaults(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	cfg, err := appconfig.New().Load(dir)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultConfig(), cfg)
}

func TestYAMLLoader_ValidYAML(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	writeConfig(t, dir, `
tools:
  semgrep:
    timeout: 45s
  flake8:
    binary: /usr/local/bin/flake8
llm:
  provider: gemini
  model: gemini-1.5-pro
server:
  addr: ":9000"
`)

	cfg, err := appconfig.New().Load(dir)
	require.NoError(t, err)

	assert.Equal(t, 45*time.Second, cfg.Tools["semgrep"].Timeout)
	assert.Equal(t, "semgrep", cfg.Tools["semgrep"].Binary)
	assert.Equal(t, "/usr/local/bin/flake8", cfg.Tools["flake8"].Binary)
	assert.Equal(t, 10*time.Second, cfg.Tools["flake8"].Timeout)
	assert.Equal(t, 15*time.Second, cfg.Tools["eslint"].Timeout)
	assert.Equal(t, "gemini", cfg.LLM.Provider)
	assert.Equal(t, "gemini-1.5-pro", cfg.LLM.Model)
	assert.Equal(t, ":9000", cfg.Server.Addr)
}

func TestYAMLLoader_InvalidYAML(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	writeConfig(t, dir, `{{{invalid yaml`)

	_, err := appconfig.New().Load(dir)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "parsing .codereview.yaml")
}

func TestYAMLLoader_UnknownToolRejected(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	writeConfig(t, dir, `
tools:
  pylint:
    binary: pylint
`)

	_, err := appconfig.New().Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid .codereview.yaml")
	assert.Contains(t, err.Error(), "pylint")
}

func TestYAMLLoader_UnknownProviderRejected(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	writeConfig(t, dir, "llm:\n  provider: watson\n")

	_, err := appconfig.New().Load(dir)
	assert.Error(t, err)
}

func TestYAMLLoader_EmptyFileReturnsDefaults(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	writeConfig(t, dir, "")

	cfg, err := appconfig.New().Load(dir)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultConfig(), cfg)
}

func TestYAMLLoader_OpenAIKeyFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("GEMINI_API_KEY", "g-test")

	cfg, err := appconfig.New().Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "sk-test", cfg.LLM.APIKey)
	assert.True(t, cfg.LLM.Configured())
}

func TestYAMLLoader_GeminiKeyFollowsProvider(t *testing.T) {
	clearEnv(t)
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("GEMINI_API_KEY", "g-test")
	dir := t.TempDir()
	writeConfig(t, dir, "llm:\n  provider: gemini\n")

	cfg, err := appconfig.New().Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "g-test", cfg.LLM.APIKey)
}

func TestYAMLLoader_ExplicitKeyWins(t *testing.T) {
	clearEnv(t)
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("CODEREVIEW_LLM_API_KEY", "explicit")

	cfg, err := appconfig.New().Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "explicit", cfg.LLM.APIKey)
}

func TestYAMLLoader_NoKeyMeansUnconfigured(t *testing.T) {
	clearEnv(t)

	cfg, err := appconfig.New().Load(t.TempDir())
	require.NoError(t, err)
	assert.False(t, cfg.LLM.Configured())
}

func TestYAMLLoader_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("CODEREVIEW_TOOLS_BANDIT_SCAN_TIMEOUT", "5s")
	t.Setenv("CODEREVIEW_TOOLS_ESLINT_BINARY", "/opt/node/bin/npx")
	t.Setenv("CODEREVIEW_SERVER_ADDR", "0.0.0.0:8080")
	dir := t.TempDir()
	writeConfig(t, dir, `
tools:
  bandit-scan:
    timeout: 20s
server:
  addr: ":9000"
`)

	cfg, err := appconfig.New().Load(dir)
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, cfg.Tools["bandit-scan"].Timeout)
	assert.Equal(t, "/opt/node/bin/npx", cfg.Tools["eslint"].Binary)
	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Addr)
}

func TestYAMLLoader_BadEnvDuration(t *testing.T) {
	clearEnv(t)
	t.Setenv("CODEREVIEW_TOOLS_FLAKE8_TIMEOUT", "soon")

	_, err := appconfig.New().Load(t.TempDir())
	assert.Error(t, err)
}
