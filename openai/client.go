package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/randalmurphal/tagkit/model"
	"github.com/randalmurphal/tagkit/provider"
	"github.com/randalmurphal/tagkit/tokens"
	"github.com/randalmurphal/tagkit/truncate"
)

const (
	// Name is the registry name of this gateway.
	Name = "openai"

	// DefaultBaseURL is the public OpenAI API root.
	DefaultBaseURL = "https://api.openai.com/v1"

	// APIKeyEnv is read when the config carries no API key.
	APIKeyEnv = "OPENAI_API_KEY"

	maxResponseBytes = 4 << 20
	maxErrorBody     = 512
)

// Client is a completions gateway. Safe for concurrent use.
type Client struct {
	cfg        provider.Config
	endpoint   string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithLogger sets the logger used for retry diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New creates a Client from cfg.
func New(cfg provider.Config, opts ...Option) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", provider.ErrInvalidRequest, err)
	}

	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = os.Getenv(APIKeyEnv)
	}
	if apiKey == "" {
		return nil, fmt.Errorf("%w: set api_key or %s", provider.ErrCredentialsNotFound, APIKeyEnv)
	}

	base := cfg.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = provider.DefaultConfig().Timeout
	}
	cfg.Timeout = timeout
	if cfg.MaxRetryWait == 0 {
		cfg.MaxRetryWait = timeout
	}

	c := &Client{
		cfg:        cfg,
		endpoint:   strings.TrimRight(base, "/") + "/completions",
		apiKey:     apiKey,
		httpClient: &http.Client{},
		logger:     slog.Default(),
	}
	if cfg.RequestsPerSecond > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Name implements provider.Gateway.
func (c *Client) Name() string { return Name }

// Close releases idle connections.
func (c *Client) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

type completionRequest struct {
	Model            string   `json:"model"`
	Prompt           string   `json:"prompt"`
	MaxTokens        int      `json:"max_tokens"`
	Temperature      float64  `json:"temperature"`
	TopP             float64  `json:"top_p"`
	FrequencyPenalty float64  `json:"frequency_penalty"`
	PresencePenalty  float64  `json:"presence_penalty"`
	Stop             []string `json:"stop,omitempty"`
}

type completionResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Text         string `json:"text"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// Complete implements provider.Gateway.
func (c *Client) Complete(ctx context.Context, prompt string, opts provider.Options, tier model.Tier) (*provider.Completion, error) {
	name := c.cfg.ModelFor(tier)
	if name == "" {
		return nil, c.fail(fmt.Errorf("%w: no model configured for tier %d", provider.ErrInvalidRequest, tier), false)
	}
	if !tokens.Fits(name, prompt, opts.MaxTokens) {
		return nil, c.fail(fmt.Errorf("%w: prompt of ~%d tokens plus %d completion tokens exceeds %s context window of %d",
			provider.ErrInvalidRequest, tokens.Estimate(prompt), opts.MaxTokens, name, tokens.ContextWindow(name)), false)
	}
	body, err := json.Marshal(completionRequest{
		Model:            name,
		Prompt:           prompt,
		MaxTokens:        opts.MaxTokens,
		Temperature:      opts.Temperature,
		TopP:             opts.TopP,
		FrequencyPenalty: opts.FrequencyPenalty,
		PresencePenalty:  opts.PresencePenalty,
		Stop:             opts.Stop,
	})
	if err != nil {
		return nil, c.fail(fmt.Errorf("%w: encode request: %w", provider.ErrInvalidRequest, err), false)
	}

	start := time.Now()
	var lastErr error
	var retryAfter time.Duration
	for attempt := 0; attempt <= c.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			wait := c.backoff(attempt, retryAfter)
			c.logger.Debug("retrying completion",
				slog.String("model", name),
				slog.Int("attempt", attempt),
				slog.Duration("wait", wait),
				slog.Any("error", lastErr))
			t := time.NewTimer(wait)
			select {
			case <-ctx.Done():
				t.Stop()
				return nil, c.fail(ctx.Err(), false)
			case <-t.C:
			}
		}

		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return nil, c.fail(fmt.Errorf("%w: %w", provider.ErrTransport, err), false)
			}
		}

		var completion *provider.Completion
		completion, retryAfter, lastErr = c.do(ctx, name, prompt, body)
		if lastErr == nil {
			completion.Duration = time.Since(start)
			return completion, nil
		}
		if !provider.IsRetryable(lastErr) || ctx.Err() != nil {
			return nil, lastErr
		}
		if retryAfter > c.cfg.MaxRetryWait {
			c.logger.Warn("server asked to retry later than allowed, giving up",
				slog.String("model", name),
				slog.Duration("retry_after", retryAfter),
				slog.Duration("max_retry_wait", c.cfg.MaxRetryWait))
			return nil, lastErr
		}
	}
	return nil, lastErr
}

// do performs one HTTP attempt.
func (c *Client) do(ctx context.Context, name, prompt string, body []byte) (*provider.Completion, time.Duration, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(attemptCtx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, 0, c.fail(fmt.Errorf("%w: %w", provider.ErrInvalidRequest, err), false)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		switch {
		case ctx.Err() != nil:
			return nil, 0, c.fail(ctx.Err(), false)
		case errors.Is(err, context.DeadlineExceeded):
			return nil, 0, c.fail(fmt.Errorf("%w: %w: after %v", provider.ErrTransport, provider.ErrTimeout, c.cfg.Timeout), true)
		default:
			return nil, 0, c.fail(fmt.Errorf("%w: %w", provider.ErrTransport, err), true)
		}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		if ctx.Err() != nil {
			return nil, 0, c.fail(ctx.Err(), false)
		}
		return nil, 0, c.fail(fmt.Errorf("%w: read body: %w", provider.ErrTransport, err), true)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail := fmt.Errorf("HTTP %d: %s", resp.StatusCode, truncate.ToLength(string(data), maxErrorBody))
		switch {
		case resp.StatusCode == http.StatusTooManyRequests:
			return nil, parseRetryAfter(resp.Header.Get("Retry-After")),
				c.fail(fmt.Errorf("%w: %w: %w", provider.ErrTransport, provider.ErrRateLimited, detail), true)
		case resp.StatusCode >= 500:
			return nil, 0, c.fail(fmt.Errorf("%w: %w: %w", provider.ErrTransport, provider.ErrUnavailable, detail), true)
		default:
			return nil, 0, c.fail(fmt.Errorf("%w: %w: %w", provider.ErrTransport, provider.ErrInvalidRequest, detail), false)
		}
	}

	var decoded completionResponse
	if err := json.Unmarshal(data, &decoded); err != nil {
		return nil, 0, c.fail(fmt.Errorf("%w: decode: %w", provider.ErrMalformedResponse, err), false)
	}
	if len(decoded.Choices) == 0 && decoded.Error != nil {
		return nil, 0, c.fail(fmt.Errorf("%w: service error %s: %s", provider.ErrMalformedResponse,
			decoded.Error.Type, decoded.Error.Message), false)
	}
	if len(decoded.Choices) == 0 {
		return nil, 0, c.fail(fmt.Errorf("%w: no choices in %s", provider.ErrMalformedResponse,
			truncate.ToLength(string(data), maxErrorBody)), false)
	}

	completion := &provider.Completion{
		Model: decoded.Model,
		Usage: provider.TokenUsage{
			PromptTokens:     decoded.Usage.PromptTokens,
			CompletionTokens: decoded.Usage.CompletionTokens,
			TotalTokens:      decoded.Usage.TotalTokens,
		},
	}
	if completion.Model == "" {
		completion.Model = name
	}
	// Some compatible servers omit usage.
	if completion.Usage.TotalTokens == 0 {
		in, out := tokens.Estimate(prompt), tokens.Estimate(decoded.Choices[0].Text)
		completion.Usage = provider.TokenUsage{PromptTokens: in, CompletionTokens: out, TotalTokens: in + out}
	}
	for _, ch := range decoded.Choices {
		completion.Choices = append(completion.Choices, provider.Choice{Text: ch.Text, FinishReason: ch.FinishReason})
	}
	return completion, 0, nil
}

func (c *Client) fail(err error, retryable bool) error {
	return provider.NewError(Name, "complete", err, retryable)
}

// backoff returns the wait before retry number attempt (1-based), never
// more than MaxRetryWait.
func (c *Client) backoff(attempt int, retryAfter time.Duration) time.Duration {
	wait := retryAfter
	if wait <= 0 {
		wait = c.cfg.RetryBackoff << (attempt - 1)
	}
	if c.cfg.MaxRetryWait > 0 && (wait > c.cfg.MaxRetryWait || wait < 0) {
		wait = c.cfg.MaxRetryWait
	}
	return wait
}

func parseRetryAfter(v string) time.Duration {
	if secs, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	return 0
}
