package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeYAML(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "papergen.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// clearEnv pins every variable Load reads so the developer's shell does not
// leak into the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		EnvConfigPath,
		"PAPERGEN_LLM_PROVIDER", "PAPERGEN_LLM_TIMEOUT", "PAPERGEN_TEMPERATURE", "PAPERGEN_MAX_TOKENS",
		"OPENROUTER_API_KEY", "OPENROUTER_MODEL", "OPENROUTER_BASE_URL",
		"OPENAI_API_KEY", "OPENAI_MODEL", "OPENAI_BASE_URL",
		"ANTHROPIC_API_KEY", "ANTHROPIC_MODEL",
		"GEMINI_API_KEY", "GEMINI_MODEL",
		"PAPERGEN_HOST", "PAPERGEN_PORT", "PAPERGEN_SESSION_TTL", "PAPERGEN_MAX_UPLOAD_MB",
		"PAPERGEN_READ_TIMEOUT", "PAPERGEN_WRITE_TIMEOUT", "PAPERGEN_IDLE_TIMEOUT", "PAPERGEN_SHUTDOWN_TIMEOUT",
		"PAPERGEN_DB", "PAPERGEN_LOG_MODE", "PAPERGEN_LOG_LEVEL", "PAPERGEN_FONT_DIR",
	} {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "openrouter", cfg.LLM.Provider)
	assert.Equal(t, "qwen/qwen-2.5-7b-instruct", cfg.LLM.OpenRouter.Model)
	assert.Equal(t, "https://openrouter.ai/api/v1", cfg.LLM.OpenRouter.BaseURL)
	assert.Equal(t, 700, cfg.LLM.MaxTokens)
	assert.InDelta(t, 0.3, cfg.LLM.Temperature, 1e-9)
	assert.Equal(t, 60*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, "127.0.0.1:5000", cfg.Server.Addr())
	assert.Equal(t, time.Hour, cfg.Server.SessionTTL)
	assert.Equal(t, int64(16<<20), cfg.Server.MaxUploadBytes())
	assert.Equal(t, "dev", cfg.Log.Mode)
	assert.Empty(t, cfg.Store.Path)
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("OPENROUTER_API_KEY", "sk-or-test")
	t.Setenv("OPENROUTER_MODEL", "meta-llama/llama-3-8b-instruct")
	t.Setenv("PAPERGEN_PORT", "9090")
	t.Setenv("PAPERGEN_SESSION_TTL", "30m")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "sk-or-test", cfg.LLM.OpenRouter.APIKey)
	assert.Equal(t, "meta-llama/llama-3-8b-instruct", cfg.LLM.OpenRouter.Model)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 30*time.Minute, cfg.Server.SessionTTL)
	require.NoError(t, cfg.ValidateLLM())
}

func TestLoad_YAML(t *testing.T) {
	clearEnv(t)
	path := writeYAML(t, `
llm:
  provider: mock
  max_tokens: 500
  temperature: 0.5
server:
  host: "0.0.0.0"
  port: 8081
  session_ttl: "2h"
store:
  path: "/tmp/papers.db"
log:
  mode: prod
  level: debug
render:
  font_dir: "/usr/share/fonts/liberation"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "mock", cfg.LLM.Provider)
	assert.Equal(t, 500, cfg.LLM.MaxTokens)
	assert.Equal(t, "0.0.0.0:8081", cfg.Server.Addr())
	assert.Equal(t, 2*time.Hour, cfg.Server.SessionTTL)
	assert.Equal(t, "/tmp/papers.db", cfg.Store.Path)
	assert.Equal(t, "prod", cfg.Log.Mode)
	assert.Equal(t, "/usr/share/fonts/liberation", cfg.Render.FontDir)
	// Unset keys still get their defaults.
	assert.Equal(t, "qwen/qwen-2.5-7b-instruct", cfg.LLM.OpenRouter.Model)

	gen := cfg.GeneratorConfig()
	assert.Equal(t, 500, gen.MaxTokens)
	assert.InDelta(t, 0.5, gen.Temperature, 1e-9)
}

func TestLoad_EnvBeatsYAML(t *testing.T) {
	clearEnv(t)
	path := writeYAML(t, "server:\n  port: 8081\n")
	t.Setenv("PAPERGEN_PORT", "7070")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Server.Port)
}

func TestLoad_PathFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvConfigPath, writeYAML(t, "log:\n  level: warn\n"))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	clearEnv(t)
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nope.yaml")
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"zero max tokens", map[string]string{"PAPERGEN_MAX_TOKENS": "0"}, "max_tokens"},
		{"temperature too high", map[string]string{"PAPERGEN_TEMPERATURE": "3"}, "temperature"},
		{"port out of range", map[string]string{"PAPERGEN_PORT": "70000"}, "server.port"},
		{"zero session ttl", map[string]string{"PAPERGEN_SESSION_TTL": "0s"}, "session_ttl"},
		{"bad log mode", map[string]string{"PAPERGEN_LOG_MODE": "loud"}, "log.mode"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load("")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadDotenv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	env := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(env, []byte("OPENROUTER_API_KEY=from-dotenv\nPAPERGEN_PORT=6000\n"), 0o644))
	t.Setenv("PAPERGEN_PORT", "6500")

	require.NoError(t, loadDotenv(env, filepath.Join(dir, "missing.env")))
	t.Cleanup(func() { os.Unsetenv("OPENROUTER_API_KEY") })

	assert.Equal(t, "from-dotenv", os.Getenv("OPENROUTER_API_KEY"))
	// Already-set variables win over the file.
	assert.Equal(t, "6500", os.Getenv("PAPERGEN_PORT"))
}

func TestValidateLLM(t *testing.T) {
	clearEnv(t)
	cfg, err := Load("")
	require.NoError(t, err)

	err = cfg.ValidateLLM()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OPENROUTER_API_KEY")

	cfg.LLM.Provider = " Mock "
	assert.NoError(t, cfg.ValidateLLM())
	assert.Equal(t, "mock", cfg.LLMConfig().Provider)
}

func TestLLMConfigMapping(t *testing.T) {
	cfg := &Config{LLM: LLMConfig{
		Provider:   "openai",
		Timeout:    5 * time.Second,
		OpenAI:     OpenAIConfig{APIKey: "k", Model: "gpt-4o", BaseURL: "http://local"},
		OpenRouter: OpenRouterConfig{Model: "m"},
	}}
	lc := cfg.LLMConfig()
	assert.Equal(t, "openai", lc.Provider)
	assert.Equal(t, 5*time.Second, lc.Timeout)
	assert.Equal(t, "http://local", lc.OpenAI.BaseURL)
	assert.Equal(t, "m", lc.OpenRouter.Model)
	assert.NoError(t, lc.Validate())
}
