// Package config loads papergen settings from an optional YAML file, a .env
// file and the process environment.
package config

import (
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/abhisek/papergen/internal/llm"
	"github.com/abhisek/papergen/internal/questiongen"
)

// Config is the root application configuration.
type Config struct {
	LLM    LLMConfig    `yaml:"llm"`
	Server ServerConfig `yaml:"server"`
	Store  StoreConfig  `yaml:"store"`
	Log    LogConfig    `yaml:"log"`
	Render RenderConfig `yaml:"render"`
}

// LLMConfig selects the generation backend and its call parameters.
type LLMConfig struct {
	Provider    string        `yaml:"provider"    env:"PAPERGEN_LLM_PROVIDER" env-default:"openrouter"`
	Timeout     time.Duration `yaml:"timeout"     env:"PAPERGEN_LLM_TIMEOUT"  env-default:"60s"`
	Temperature float64       `yaml:"temperature" env:"PAPERGEN_TEMPERATURE"  env-default:"0.3"`
	MaxTokens   int           `yaml:"max_tokens"  env:"PAPERGEN_MAX_TOKENS"   env-default:"700"`

	OpenRouter OpenRouterConfig `yaml:"openrouter"`
	OpenAI     OpenAIConfig     `yaml:"openai"`
	Anthropic  AnthropicConfig  `yaml:"anthropic"`
	Gemini     GeminiConfig     `yaml:"gemini"`
}

type OpenRouterConfig struct {
	APIKey  string `yaml:"api_key"  env:"OPENROUTER_API_KEY"`
	Model   string `yaml:"model"    env:"OPENROUTER_MODEL"    env-default:"qwen/qwen-2.5-7b-instruct"`
	BaseURL string `yaml:"base_url" env:"OPENROUTER_BASE_URL" env-default:"https://openrouter.ai/api/v1"`
}

type OpenAIConfig struct {
	APIKey  string `yaml:"api_key"  env:"OPENAI_API_KEY"`
	Model   string `yaml:"model"    env:"OPENAI_MODEL"    env-default:"gpt-4o-mini"`
	BaseURL string `yaml:"base_url" env:"OPENAI_BASE_URL"`
}

type AnthropicConfig struct {
	APIKey string `yaml:"api_key" env:"ANTHROPIC_API_KEY"`
	Model  string `yaml:"model"   env:"ANTHROPIC_MODEL"   env-default:"claude-haiku"`
}

type GeminiConfig struct {
	APIKey string `yaml:"api_key" env:"GEMINI_API_KEY"`
	Model  string `yaml:"model"   env:"GEMINI_MODEL"   env-default:"gemini-flash"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"PAPERGEN_HOST"             env-default:"127.0.0.1"`
	Port            int           `yaml:"port"             env:"PAPERGEN_PORT"             env-default:"5000"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"PAPERGEN_READ_TIMEOUT"     env-default:"30s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"PAPERGEN_WRITE_TIMEOUT"    env-default:"120s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"PAPERGEN_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"PAPERGEN_SHUTDOWN_TIMEOUT" env-default:"10s"`
	SessionTTL      time.Duration `yaml:"session_ttl"      env:"PAPERGEN_SESSION_TTL"      env-default:"1h"`
	MaxUploadMB     int           `yaml:"max_upload_mb"    env:"PAPERGEN_MAX_UPLOAD_MB"    env-default:"16"`
}

// StoreConfig locates the event database. An empty path means the XDG
// default chosen by the store package.
type StoreConfig struct {
	Path string `yaml:"path" env:"PAPERGEN_DB"`
}

type LogConfig struct {
	Mode  string `yaml:"mode"  env:"PAPERGEN_LOG_MODE"  env-default:"dev"`
	Level string `yaml:"level" env:"PAPERGEN_LOG_LEVEL" env-default:"info"`
}

// RenderConfig points the PDF renderer at optional TTF fonts.
type RenderConfig struct {
	FontDir string `yaml:"font_dir" env:"PAPERGEN_FONT_DIR"`
}

// Addr is the host:port the HTTP server listens on.
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// MaxUploadBytes is the multipart body limit in bytes.
func (s ServerConfig) MaxUploadBytes() int64 {
	return int64(s.MaxUploadMB) << 20
}

// LLMConfig maps the loaded settings onto the provider factory's config.
func (c *Config) LLMConfig() llm.Config {
	return llm.Config{
		Provider: strings.ToLower(strings.TrimSpace(c.LLM.Provider)),
		OpenRouter: llm.OpenRouterConfig{
			APIKey:  c.LLM.OpenRouter.APIKey,
			Model:   c.LLM.OpenRouter.Model,
			BaseURL: c.LLM.OpenRouter.BaseURL,
		},
		OpenAI: llm.OpenAIConfig{
			APIKey:  c.LLM.OpenAI.APIKey,
			Model:   c.LLM.OpenAI.Model,
			BaseURL: c.LLM.OpenAI.BaseURL,
		},
		Anthropic: llm.AnthropicConfig{
			APIKey: c.LLM.Anthropic.APIKey,
			Model:  c.LLM.Anthropic.Model,
		},
		Gemini: llm.GeminiConfig{
			APIKey: c.LLM.Gemini.APIKey,
			Model:  c.LLM.Gemini.Model,
		},
		Timeout: c.LLM.Timeout,
	}
}

// GeneratorConfig returns the per-call generation parameters.
func (c *Config) GeneratorConfig() questiongen.Config {
	return questiongen.Config{
		MaxTokens:   c.LLM.MaxTokens,
		Temperature: c.LLM.Temperature,
	}
}

// Validate checks everything except provider credentials, which only the
// commands that call the model need. See ValidateLLM.
func (c *Config) Validate() error {
	if c.LLM.MaxTokens <= 0 {
		return fmt.Errorf("llm.max_tokens must be > 0 (got %d)", c.LLM.MaxTokens)
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		return fmt.Errorf("llm.temperature must be within [0, 2] (got %v)", c.LLM.Temperature)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be within 1-65535 (got %d)", c.Server.Port)
	}
	if c.Server.SessionTTL <= 0 {
		return fmt.Errorf("server.session_ttl must be positive (got %s)", c.Server.SessionTTL)
	}
	if c.Server.MaxUploadMB <= 0 {
		return fmt.Errorf("server.max_upload_mb must be > 0 (got %d)", c.Server.MaxUploadMB)
	}
	switch strings.ToLower(c.Log.Mode) {
	case "dev", "development", "prod", "production":
	default:
		return fmt.Errorf("log.mode must be dev or prod (got %q)", c.Log.Mode)
	}
	return nil
}

// ValidateLLM checks that the selected provider is usable.
func (c *Config) ValidateLLM() error {
	if err := c.LLMConfig().Validate(); err != nil {
		return fmt.Errorf("llm: %w", err)
	}
	return nil
}
