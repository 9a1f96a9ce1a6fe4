package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

// Config holds the configuration for the HR assistant service.
// Environment variables are parsed from the HRDESK_ prefix.
type Config struct {
	// HTTP Configuration
	HTTPPort int `envconfig:"HTTP_PORT" default:"8080"`

	// Storage
	DBDriver    string `envconfig:"DB_DRIVER" default:"sqlite"`
	SQLitePath  string `envconfig:"SQLITE_PATH" default:"data/hrdesk.db"`
	PostgresDSN string `envconfig:"POSTGRES_DSN" default:""`

	// Language model
	LLMProvider string  `envconfig:"LLM_PROVIDER" default:"openai"`
	LLMAPIKey   string  `envconfig:"LLM_API_KEY" default:""`
	LLMModel    string  `envconfig:"LLM_MODEL" default:""`
	LLMBaseURL  string  `envconfig:"LLM_BASE_URL" default:""`
	MaxTokens   int     `envconfig:"LLM_MAX_TOKENS" default:"2048"`
	Temperature float64 `envconfig:"LLM_TEMPERATURE" default:"0"`

	// Session memory
	MaxContextLength int `envconfig:"MAX_CONTEXT_LENGTH" default:"10"`
	CleanupAgeDays   int `envconfig:"CLEANUP_AGE_DAYS" default:"30"`

	// Agent loop
	MaxToolCalls int `envconfig:"MAX_TOOL_CALLS" default:"8"`

	// Policy search (vector index)
	WeaviateURL   string `envconfig:"WEAVIATE_URL" default:""`
	EmbedProvider string `envconfig:"EMBED_PROVIDER" default:"ollama"`
	EmbedModel    string `envconfig:"EMBED_MODEL" default:"mxbai-embed-large"`
	OllamaURL     string `envconfig:"OLLAMA_URL" default:"http://localhost:11434"`
}

// ResolveDefaults validates enum-like fields and fills derived values.
func (c *Config) ResolveDefaults() error {
	allowedDB := map[string]bool{"sqlite": true, "postgres": true}
	if !allowedDB[c.DBDriver] {
		return fmt.Errorf("unsupported DB_DRIVER: %s", c.DBDriver)
	}
	if c.DBDriver == "postgres" && c.PostgresDSN == "" {
		return fmt.Errorf("DB_DRIVER=postgres requires POSTGRES_DSN")
	}

	allowedLLM := map[string]bool{"openai": true, "anthropic": true, "openrouter": true, "local": true}
	if !allowedLLM[c.LLMProvider] {
		return fmt.Errorf("unsupported LLM_PROVIDER: %s", c.LLMProvider)
	}

	if c.MaxContextLength <= 0 {
		return fmt.Errorf("MAX_CONTEXT_LENGTH must be positive")
	}
	return nil
}

// New creates a Config by parsing HRDESK_-prefixed environment variables.
func New() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("HRDESK", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}
	if err := cfg.ResolveDefaults(); err != nil {
		return nil, err
	}

	log.Info().
		Str("db_driver", cfg.DBDriver).
		Str("llm_provider", cfg.LLMProvider).
		Int("port", cfg.HTTPPort).
		Int("max_context_length", cfg.MaxContextLength).
		Str("weaviate_url", cfg.WeaviateURL).
		Msg("Configuration loaded")

	return &cfg, nil
}

// NewForTesting returns a config suitable for unit tests: sqlite in a temp
// path, no external providers.
func NewForTesting() *Config {
	return &Config{
		HTTPPort:         8080,
		DBDriver:         "sqlite",
		SQLitePath:       "",
		LLMProvider:      "openai",
		MaxTokens:        256,
		MaxContextLength: 10,
		CleanupAgeDays:   30,
		MaxToolCalls:     8,
		EmbedProvider:    "ollama",
		EmbedModel:       "mxbai-embed-large",
		OllamaURL:        "http://localhost:11434",
	}
}

// GetHTTPAddr returns the HTTP server address.
func (c *Config) GetHTTPAddr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}
