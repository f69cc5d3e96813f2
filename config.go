package hatch

import (
	"errors"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// ErrMissingAPIKey is returned when the OpenRouter key is absent from the
// environment. Configuration errors fail fast and are never retried.
var ErrMissingAPIKey = errors.New("OPENROUTER_API_KEY is not set")

const defaultCostBaseURL = "https://openrouter.ai/api/v1"

// Config carries the environment-derived settings for outbound API calls.
type Config struct {
	OpenRouterKey string
	GeminiKey     string        // optional, only needed by the genai generator
	CostBaseURL   string        // generation-stats endpoint base
	HTTPTimeout   time.Duration // per-request timeout
}

// LoadConfig reads configuration from the environment, loading a .env file
// first when one exists. A missing OpenRouter key is a hard error.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load() // absent .env is fine, real env may carry the keys

	cfg := &Config{
		OpenRouterKey: os.Getenv("OPENROUTER_API_KEY"),
		GeminiKey:     os.Getenv("GEMINI_API_KEY"),
		CostBaseURL:   os.Getenv("OPENROUTER_BASE_URL"),
		HTTPTimeout:   30 * time.Second,
	}
	if cfg.OpenRouterKey == "" {
		return nil, ErrMissingAPIKey
	}
	if cfg.CostBaseURL == "" {
		cfg.CostBaseURL = defaultCostBaseURL
	}
	if v := os.Getenv("HATCH_HTTP_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.HTTPTimeout = d
		}
	}
	return cfg, nil
}
