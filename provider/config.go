package provider

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/randalmurphal/tagkit/model"
)

// Config holds configuration for creating a completion gateway.
type Config struct {
	// Provider is the name of the gateway to use.
	// Required. Values: "openai"
	Provider string `json:"provider" yaml:"provider" toml:"provider"`

	// BaseURL overrides the service endpoint. Optional.
	BaseURL string `json:"base_url,omitempty" yaml:"base_url" toml:"base_url"`

	// APIKey authenticates requests. Empty means the gateway reads its own
	// well-known environment variable.
	APIKey string `json:"api_key,omitempty" yaml:"api_key" toml:"api_key"`

	// TierModels maps each quality tier (by index) to a model name.
	// Must have exactly one entry per tier.
	TierModels []string `json:"tier_models" yaml:"tier_models" toml:"tier_models"`

	// Timeout bounds a single HTTP attempt. 0 uses the default.
	Timeout time.Duration `json:"timeout,omitempty" yaml:"timeout" toml:"timeout" jsonschema:"type=string"`

	// MaxRetries is the number of transport-level retries after the first attempt.
	MaxRetries int `json:"max_retries" yaml:"max_retries" toml:"max_retries"`

	// RetryBackoff is the initial delay between retries; it doubles per retry.
	RetryBackoff time.Duration `json:"retry_backoff,omitempty" yaml:"retry_backoff" toml:"retry_backoff" jsonschema:"type=string"`

	// MaxRetryWait caps the wait before a retry. A Retry-After longer than
	// this ends the call with the rate-limit error. 0 means Timeout.
	MaxRetryWait time.Duration `json:"max_retry_wait,omitempty" yaml:"max_retry_wait" toml:"max_retry_wait" jsonschema:"type=string"`

	// RequestsPerSecond throttles outbound calls client-side. 0 disables throttling.
	RequestsPerSecond float64 `json:"requests_per_second,omitempty" yaml:"requests_per_second" toml:"requests_per_second"`

	// Burst is the token bucket size for throttling. Defaults to 1.
	Burst int `json:"burst,omitempty" yaml:"burst" toml:"burst"`
}

// DefaultTierModels are the model names used for each tier when none are configured.
var DefaultTierModels = []string{
	"babbage-002",
	"davinci-002",
	"gpt-3.5-turbo-instruct",
	"gpt-3.5-turbo-instruct-0914",
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Provider:     "openai",
		TierModels:   append([]string(nil), DefaultTierModels...),
		Timeout:      30 * time.Second,
		MaxRetries:   2,
		RetryBackoff: 500 * time.Millisecond,
		Burst:        1,
	}
}

// LoadFromEnv populates config fields from environment variables.
// Environment variables use the TAGKIT_ prefix and take precedence over existing values.
//
// Supported variables:
//   - TAGKIT_PROVIDER: Provider name
//   - TAGKIT_BASE_URL: Service endpoint
//   - TAGKIT_API_KEY: API key
//   - TAGKIT_TIER_MODELS: Comma-separated model names, one per tier
//   - TAGKIT_TIMEOUT: Per-attempt timeout (e.g., "30s")
//   - TAGKIT_MAX_RETRIES: Transport retries
//   - TAGKIT_MAX_RETRY_WAIT: Longest wait before a retry (e.g., "10s")
//   - TAGKIT_REQUESTS_PER_SECOND: Client-side rate limit
func (c *Config) LoadFromEnv() {
	if v := os.Getenv("TAGKIT_PROVIDER"); v != "" {
		c.Provider = v
	}
	if v := os.Getenv("TAGKIT_BASE_URL"); v != "" {
		c.BaseURL = v
	}
	if v := os.Getenv("TAGKIT_API_KEY"); v != "" {
		c.APIKey = v
	}
	if v := os.Getenv("TAGKIT_TIER_MODELS"); v != "" {
		models := strings.Split(v, ",")
		for i := range models {
			models[i] = strings.TrimSpace(models[i])
		}
		c.TierModels = models
	}
	if v := os.Getenv("TAGKIT_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Timeout = d
		}
	}
	if v := os.Getenv("TAGKIT_MAX_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxRetries = n
		}
	}
	if v := os.Getenv("TAGKIT_MAX_RETRY_WAIT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.MaxRetryWait = d
		}
	}
	if v := os.Getenv("TAGKIT_REQUESTS_PER_SECOND"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.RequestsPerSecond = f
		}
	}
}

// FromEnv creates a Config from environment variables with defaults.
func FromEnv() Config {
	cfg := DefaultConfig()
	cfg.LoadFromEnv()
	return cfg
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Provider == "" {
		return fmt.Errorf("provider is required")
	}
	if len(c.TierModels) != model.NumTiers {
		return fmt.Errorf("tier_models must have %d entries, got %d", model.NumTiers, len(c.TierModels))
	}
	for i, m := range c.TierModels {
		if strings.TrimSpace(m) == "" {
			return fmt.Errorf("tier_models[%d] (%s) is empty", i, model.Tier(i))
		}
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must be >= 0, got %v", c.Timeout)
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("max_retries must be >= 0, got %d", c.MaxRetries)
	}
	if c.RetryBackoff < 0 {
		return fmt.Errorf("retry_backoff must be >= 0, got %v", c.RetryBackoff)
	}
	if c.MaxRetryWait < 0 {
		return fmt.Errorf("max_retry_wait must be >= 0, got %v", c.MaxRetryWait)
	}
	if c.RequestsPerSecond < 0 {
		return fmt.Errorf("requests_per_second must be >= 0, got %g", c.RequestsPerSecond)
	}
	if c.Burst < 0 {
		return fmt.Errorf("burst must be >= 0, got %d", c.Burst)
	}
	return nil
}

// ModelFor returns the model name configured for tier, or "" if tier is out of range.
func (c Config) ModelFor(tier model.Tier) string {
	if !tier.Valid() || int(tier) >= len(c.TierModels) {
		return ""
	}
	return c.TierModels[tier]
}

// WithProvider returns a copy of the config with the specified provider.
func (c Config) WithProvider(provider string) Config {
	c.Provider = provider
	return c
}

// WithBaseURL returns a copy of the config with the specified endpoint.
func (c Config) WithBaseURL(url string) Config {
	c.BaseURL = url
	return c
}

// WithTierModels returns a copy of the config with the specified tier models.
func (c Config) WithTierModels(models ...string) Config {
	c.TierModels = append([]string(nil), models...)
	return c
}
