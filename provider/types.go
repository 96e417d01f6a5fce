package provider

import (
	"fmt"
	"time"
)

// Options are the generation parameters sent with every completion.
type Options struct {
	// MaxTokens limits the response length.
	MaxTokens int `json:"max_tokens" yaml:"max_tokens" toml:"max_tokens"`

	// Temperature controls response randomness.
	Temperature float64 `json:"temperature" yaml:"temperature" toml:"temperature"`

	// TopP is the nucleus sampling mass.
	TopP float64 `json:"top_p" yaml:"top_p" toml:"top_p"`

	// FrequencyPenalty penalizes tokens by how often they already appeared.
	FrequencyPenalty float64 `json:"frequency_penalty" yaml:"frequency_penalty" toml:"frequency_penalty"`

	// PresencePenalty penalizes tokens that appeared at all.
	PresencePenalty float64 `json:"presence_penalty" yaml:"presence_penalty" toml:"presence_penalty"`

	// Stop sequences end generation early. Optional.
	Stop []string `json:"stop,omitempty" yaml:"stop,omitempty" toml:"stop,omitempty"`
}

// Validate checks that the options are within the ranges completion services accept.
func (o Options) Validate() error {
	if o.MaxTokens <= 0 {
		return fmt.Errorf("max_tokens must be > 0, got %d", o.MaxTokens)
	}
	if o.Temperature < 0 || o.Temperature > 2 {
		return fmt.Errorf("temperature must be in [0, 2], got %g", o.Temperature)
	}
	if o.TopP < 0 || o.TopP > 1 {
		return fmt.Errorf("top_p must be in [0, 1], got %g", o.TopP)
	}
	if o.FrequencyPenalty < -2 || o.FrequencyPenalty > 2 {
		return fmt.Errorf("frequency_penalty must be in [-2, 2], got %g", o.FrequencyPenalty)
	}
	if o.PresencePenalty < -2 || o.PresencePenalty > 2 {
		return fmt.Errorf("presence_penalty must be in [-2, 2], got %g", o.PresencePenalty)
	}
	return nil
}

// Completion is the decoded output of a completion call.
type Completion struct {
	// Choices are the generated alternatives. The engine reads only the first.
	Choices []Choice `json:"choices"`

	// Usage tracks token consumption for this request.
	Usage TokenUsage `json:"usage"`

	// Model is the actual model used.
	Model string `json:"model,omitempty"`

	// Duration is the time taken for the completion, retries included.
	Duration time.Duration `json:"duration,omitempty"`
}

// Choice is one generated alternative.
type Choice struct {
	Text         string `json:"text"`
	FinishReason string `json:"finish_reason,omitempty"`
}

// Text returns the first choice's text.
// Returns ErrMalformedResponse if the completion is nil or has no choices.
func (c *Completion) Text() (string, error) {
	if c == nil || len(c.Choices) == 0 {
		return "", ErrMalformedResponse
	}
	return c.Choices[0].Text, nil
}

// TokenUsage tracks token consumption.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Add combines token usage from another TokenUsage.
func (u *TokenUsage) Add(other TokenUsage) {
	u.PromptTokens += other.PromptTokens
	u.CompletionTokens += other.CompletionTokens
	u.TotalTokens += other.TotalTokens
}
