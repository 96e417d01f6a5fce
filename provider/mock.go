package provider

import (
	"context"
	"sync"

	"github.com/randalmurphal/tagkit/model"
	"github.com/randalmurphal/tagkit/tokens"
)

// Call records one Complete invocation on a MockGateway.
type Call struct {
	Prompt  string
	Options Options
	Tier    model.Tier
}

type mockReply struct {
	text       string
	err        error
	completion *Completion
}

// MockGateway is a test double for Gateway.
// Replies are scripted per tier; each call consumes the next reply for its
// tier and repeats the last one once exhausted. Tiers without a script
// return an empty completion.
type MockGateway struct {
	mu           sync.Mutex
	replies      map[model.Tier][]mockReply
	next         map[model.Tier]int
	completeFunc func(ctx context.Context, prompt string, opts Options, tier model.Tier) (*Completion, error)

	// Calls tracks all requests for assertions.
	Calls []Call
}

// NewMockGateway creates a mock with no scripted replies.
func NewMockGateway() *MockGateway {
	return &MockGateway{
		replies: make(map[model.Tier][]mockReply),
		next:    make(map[model.Tier]int),
	}
}

// On scripts completion texts for tier, returned in order.
func (m *MockGateway) On(tier model.Tier, texts ...string) *MockGateway {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, text := range texts {
		m.replies[tier] = append(m.replies[tier], mockReply{text: text})
	}
	return m
}

// OnError scripts an error reply for tier.
func (m *MockGateway) OnError(tier model.Tier, err error) *MockGateway {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.replies[tier] = append(m.replies[tier], mockReply{err: err})
	return m
}

// OnCompletion scripts a raw completion envelope for tier, e.g. one without choices.
func (m *MockGateway) OnCompletion(tier model.Tier, c *Completion) *MockGateway {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.replies[tier] = append(m.replies[tier], mockReply{completion: c})
	return m
}

// WithCompleteFunc sets a custom handler for Complete calls.
// This takes precedence over scripted replies.
func (m *MockGateway) WithCompleteFunc(fn func(ctx context.Context, prompt string, opts Options, tier model.Tier) (*Completion, error)) *MockGateway {
	m.completeFunc = fn
	return m
}

// Name implements Gateway.
func (m *MockGateway) Name() string { return "mock" }

// Complete implements Gateway.
func (m *MockGateway) Complete(ctx context.Context, prompt string, opts Options, tier model.Tier) (*Completion, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, Call{Prompt: prompt, Options: opts, Tier: tier})
	fn := m.completeFunc
	var reply mockReply
	if script := m.replies[tier]; len(script) > 0 {
		idx := m.next[tier]
		if idx >= len(script) {
			idx = len(script) - 1
		} else {
			m.next[tier] = idx + 1
		}
		reply = script[idx]
	}
	m.mu.Unlock()

	select {
	case <-ctx.Done():
		return nil, NewError("mock", "complete", ctx.Err(), false)
	default:
	}

	if fn != nil {
		return fn(ctx, prompt, opts, tier)
	}
	if reply.err != nil {
		return nil, reply.err
	}
	if reply.completion != nil {
		return reply.completion, nil
	}
	return &Completion{
		Choices: []Choice{{Text: reply.text, FinishReason: "stop"}},
		Usage:   estimateUsage(prompt, reply.text),
		Model:   "mock-" + tier.String(),
	}, nil
}

// CallCount returns the number of Complete calls made.
func (m *MockGateway) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// TiersCalled returns the tier of every call in order.
func (m *MockGateway) TiersCalled() []model.Tier {
	m.mu.Lock()
	defer m.mu.Unlock()
	tiers := make([]model.Tier, len(m.Calls))
	for i, c := range m.Calls {
		tiers[i] = c.Tier
	}
	return tiers
}

// LastCall returns the most recent call, or nil if none.
func (m *MockGateway) LastCall() *Call {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Calls) == 0 {
		return nil
	}
	c := m.Calls[len(m.Calls)-1]
	return &c
}

// Reset clears recorded calls and rewinds every script.
func (m *MockGateway) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = nil
	m.next = make(map[model.Tier]int)
}

func estimateUsage(prompt, text string) TokenUsage {
	in, out := tokens.Estimate(prompt), tokens.Estimate(text)
	return TokenUsage{PromptTokens: in, CompletionTokens: out, TotalTokens: in + out}
}
