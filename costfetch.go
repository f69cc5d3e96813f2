package hatch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

// Retry defaults for the generation-stats fetch. The stats endpoint lags the
// generation itself, so the first attempt often 404s.
const (
	defaultFetchAttempts     = 3
	defaultFetchInitialDelay = 200 * time.Millisecond
	fetchBackoffFactor       = 1.5
)

// FetchStatus tags a CostFetchResult.
type FetchStatus string

const (
	FetchSuccess FetchStatus = "success"
	FetchError   FetchStatus = "error"
)

// CostFetchResult is the tagged outcome of a cost fetch. Transient upstream
// failures surface here after retry exhaustion, never as a panic.
type CostFetchResult struct {
	Status  FetchStatus     `json:"status"`
	Cost    *GenerationCost `json:"cost,omitempty"`
	Message string          `json:"message,omitempty"`
}

// generationStatsResponse mirrors the OpenRouter generation endpoint shape.
type generationStatsResponse struct {
	Data struct {
		ID                     string  `json:"id"`
		Model                  string  `json:"model"`
		TotalCost              float64 `json:"total_cost"`
		CacheDiscount          float64 `json:"cache_discount"`
		NativeTokensPrompt     int     `json:"native_tokens_prompt"`
		NativeTokensCompletion int     `json:"native_tokens_completion"`
		NumMediaCompletion     int     `json:"num_media_completion"`
		GenerationTimeMS       int     `json:"generation_time"`
	} `json:"data"`
}

// CostClient fetches actual generation costs from the provider's stats
// endpoint, authenticated with the configured bearer key.
type CostClient struct {
	cfg  *Config
	http *http.Client
	log  *slog.Logger
}

// NewCostClient builds a client from config. A nil logger falls back to
// slog.Default().
func NewCostClient(cfg *Config, log *slog.Logger) (*CostClient, error) {
	if cfg == nil || cfg.OpenRouterKey == "" {
		return nil, ErrMissingAPIKey
	}
	if log == nil {
		log = slog.Default()
	}
	return &CostClient{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.HTTPTimeout},
		log:  log,
	}, nil
}

// FetchGenerationCost performs a single fetch of the stats for one
// generation id.
func (c *CostClient) FetchGenerationCost(ctx context.Context, generationID string) (*GenerationCost, error) {
	endpoint := fmt.Sprintf("%s/generation?id=%s", c.cfg.CostBaseURL, url.QueryEscape(generationID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build stats request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.OpenRouterKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch generation stats: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("generation stats returned %d: %s", resp.StatusCode, string(body))
	}

	var stats generationStatsResponse
	if err := json.NewDecoder(resp.Body).Decode(&stats); err != nil {
		return nil, fmt.Errorf("decode generation stats: %w", err)
	}

	cost := &GenerationCost{
		GenerationID:     generationID,
		ModelID:          stats.Data.Model,
		TotalCost:        stats.Data.TotalCost,
		PromptTokens:     stats.Data.NativeTokensPrompt,
		CompletionTokens: stats.Data.NativeTokensCompletion,
		ImageTokens:      stats.Data.NumMediaCompletion,
		Duration:         time.Duration(stats.Data.GenerationTimeMS) * time.Millisecond,
		CacheDiscount:    stats.Data.CacheDiscount,
		FetchedAt:        time.Now(),
	}
	c.log.Debug("fetched generation cost", "generation", generationID, "model", cost.ModelID, "cost", cost.TotalCost)
	return cost, nil
}

// FetchOption tunes the retry behaviour of FetchGenerationCostWithRetry.
type FetchOption func(*fetchConfig)

type fetchConfig struct {
	attempts     int
	initialDelay time.Duration
}

// WithFetchAttempts sets the maximum number of attempts.
func WithFetchAttempts(n int) FetchOption {
	return func(c *fetchConfig) { c.attempts = n }
}

// WithFetchDelay sets the delay before the first retry.
func WithFetchDelay(d time.Duration) FetchOption {
	return func(c *fetchConfig) { c.initialDelay = d }
}

// FetchGenerationCostWithRetry fetches with bounded exponential backoff and
// returns a tagged result instead of an error, so callers at the UI boundary
// never see an exception-shaped failure.
func (c *CostClient) FetchGenerationCostWithRetry(ctx context.Context, generationID string, opts ...FetchOption) CostFetchResult {
	cfg := fetchConfig{attempts: defaultFetchAttempts, initialDelay: defaultFetchInitialDelay}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.attempts < 1 {
		cfg.attempts = 1
	}

	var cost *GenerationCost
	err := retryable(func() error {
		var ferr error
		cost, ferr = c.FetchGenerationCost(ctx, generationID)
		return ferr
	}, cfg.attempts-1, cfg.initialDelay, c.log)
	if err != nil {
		return CostFetchResult{Status: FetchError, Message: err.Error()}
	}
	return CostFetchResult{Status: FetchSuccess, Cost: cost}
}

// retryable executes a call with exponential backoff. max is the number of
// retries after the first attempt.
func retryable(call func() error, max int, backoff time.Duration, log *slog.Logger) error {
	if max == 0 {
		return call() // no retry
	}

	delay := backoff
	for i := 0; i <= max; i++ {
		if err := call(); err != nil {
			if i == max {
				log.Debug("final attempt failed", "attempt", i+1, "error", err)
				return err
			}
			log.Debug("attempt failed, retrying", "attempt", i+1, "error", err, "delay", delay)
			time.Sleep(delay)
			delay = time.Duration(float64(delay) * fetchBackoffFactor)
			continue
		}
		if i > 0 {
			log.Debug("attempt succeeded", "attempt", i+1)
		}
		return nil
	}
	return nil
}
