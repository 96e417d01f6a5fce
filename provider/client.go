// Package provider defines the completion gateway contract used by the tag
// extraction engine.
//
// A Gateway turns a prompt, generation options, and a quality tier into a
// Completion. The engine is agnostic to transport; concrete gateways (see the
// openai package) register themselves by name.
//
// # Usage
//
// Create a gateway using the registry:
//
//	gw, err := provider.New("openai", provider.Config{
//	    APIKey:     os.Getenv("OPENAI_API_KEY"),
//	    TierModels: []string{"babbage-002", "davinci-002", "gpt-3.5-turbo-instruct", "gpt-3.5-turbo-instruct"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	c, err := gw.Complete(ctx, prompt, provider.Options{MaxTokens: 60}, model.TierDefault)
//	if err != nil {
//	    // transport failure; see IsRetryable / IsMalformed
//	}
//	text, err := c.Text() // ErrMalformedResponse when no choice was returned
//
// # Result Shape
//
// Complete either fails with an error wrapping ErrTransport (unreachable,
// timeout, non-success status, exhausted retries) or ErrMalformedResponse
// (undecodable envelope), or returns a Completion. A Completion without
// choices is itself malformed; Completion.Text reports that case so callers
// never index into Choices directly.
package provider

import (
	"context"

	"github.com/randalmurphal/tagkit/model"
)

// Gateway is the outbound completion service.
// Implementations must be safe for concurrent use.
type Gateway interface {
	// Complete sends a prompt to the model configured for tier.
	// The context controls cancellation and timeouts.
	Complete(ctx context.Context, prompt string, opts Options, tier model.Tier) (*Completion, error)

	// Name returns the gateway name (e.g., "openai").
	Name() string
}

// GatewayFunc adapts a function to the Gateway interface.
type GatewayFunc func(ctx context.Context, prompt string, opts Options, tier model.Tier) (*Completion, error)

// Complete implements Gateway.
func (f GatewayFunc) Complete(ctx context.Context, prompt string, opts Options, tier model.Tier) (*Completion, error) {
	return f(ctx, prompt, opts, tier)
}

// Name implements Gateway.
func (f GatewayFunc) Name() string { return "func" }
