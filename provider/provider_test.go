package provider

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/randalmurphal/tagkit/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompletionText(t *testing.T) {
	t.Run("first choice", func(t *testing.T) {
		c := &Completion{Choices: []Choice{{Text: "a, b"}, {Text: "ignored"}}}
		text, err := c.Text()
		require.NoError(t, err)
		assert.Equal(t, "a, b", text)
	})

	t.Run("empty text is valid", func(t *testing.T) {
		c := &Completion{Choices: []Choice{{Text: ""}}}
		text, err := c.Text()
		require.NoError(t, err)
		assert.Empty(t, text)
	})

	t.Run("no choices is malformed", func(t *testing.T) {
		_, err := (&Completion{}).Text()
		assert.True(t, IsMalformed(err))
	})

	t.Run("nil completion is malformed", func(t *testing.T) {
		var c *Completion
		_, err := c.Text()
		assert.True(t, IsMalformed(err))
	})
}

func TestOptionsValidate(t *testing.T) {
	base := Options{MaxTokens: 60, Temperature: 0.3, TopP: 0, FrequencyPenalty: 0.8, PresencePenalty: 0.1}
	require.NoError(t, base.Validate())

	tests := []struct {
		name   string
		mutate func(*Options)
	}{
		{"zero max tokens", func(o *Options) { o.MaxTokens = 0 }},
		{"temperature too high", func(o *Options) { o.Temperature = 2.5 }},
		{"negative top_p", func(o *Options) { o.TopP = -0.1 }},
		{"frequency penalty out of range", func(o *Options) { o.FrequencyPenalty = 3 }},
		{"presence penalty out of range", func(o *Options) { o.PresencePenalty = -3 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := base
			tt.mutate(&o)
			assert.Error(t, o.Validate())
		})
	}
}

func TestTokenUsageAdd(t *testing.T) {
	u := TokenUsage{PromptTokens: 10, CompletionTokens: 5, TotalTokens: 15}
	u.Add(TokenUsage{PromptTokens: 1, CompletionTokens: 2, TotalTokens: 3})
	assert.Equal(t, TokenUsage{PromptTokens: 11, CompletionTokens: 7, TotalTokens: 18}, u)
}

func TestErrorClassification(t *testing.T) {
	retryable := NewError("openai", "complete", fmt.Errorf("%w: status 503", ErrTransport), true)
	permanent := NewError("openai", "complete", fmt.Errorf("%w: status 400", ErrTransport), false)
	malformed := NewError("openai", "complete", ErrMalformedResponse, false)

	assert.Equal(t, "openai complete: completion transport failure: status 503", retryable.Error())
	assert.Equal(t, "complete: boom", NewError("", "complete", errors.New("boom"), false).Error())

	assert.True(t, IsRetryable(retryable))
	assert.False(t, IsRetryable(permanent))
	assert.True(t, IsRetryable(fmt.Errorf("wrapped: %w", ErrRateLimited)))
	assert.False(t, IsRetryable(errors.New("plain")))

	assert.True(t, IsTransport(retryable))
	assert.True(t, IsTransport(context.Canceled))
	assert.False(t, IsTransport(malformed))
	assert.False(t, IsTransport(nil))
	assert.True(t, IsMalformed(malformed))

	assert.True(t, IsCanceled(NewError("mock", "complete", context.DeadlineExceeded, false)))
	assert.False(t, IsCanceled(retryable))
}

func TestGatewayFunc(t *testing.T) {
	var gotTier model.Tier
	gw := GatewayFunc(func(ctx context.Context, prompt string, opts Options, tier model.Tier) (*Completion, error) {
		gotTier = tier
		return &Completion{Choices: []Choice{{Text: prompt}}}, nil
	})

	c, err := gw.Complete(context.Background(), "echo", Options{}, model.TierStrong)
	require.NoError(t, err)
	text, _ := c.Text()
	assert.Equal(t, "echo", text)
	assert.Equal(t, model.TierStrong, gotTier)
	assert.Equal(t, "func", gw.Name())
}
