// Package tagkit extracts short topical tags from free-form documents using a
// text-completion model offered at several quality tiers.
//
// The cheapest tier that produces a plausible tag list wins. When a
// completion looks degenerate (a candidate that is too long to be a tag, or
// an echo of one of the few-shot exemplars) the whole attempt is discarded
// and the prompt is re-sent one tier up. Near the top of the ladder the same
// defects are filtered instead of escalated.
//
// Packages:
//
//   - tagging: the extraction engine, quality gate, normalizer and hypernyms
//   - prompt: few-shot prompt construction on a {{variable}} template engine
//   - parser: splitting completions into candidate tags
//   - truncate: preparing document text for the prompt
//   - provider: the completion gateway contract, registry and mock
//   - openai: an HTTP gateway for OpenAI-compatible /completions endpoints
//   - model: quality tiers, escalation traces and usage accounting
//   - tokens: token estimates and context window checks
//   - config: YAML/TOML configuration with hot reload and JSON Schema
//
// # Quick Start
//
//	import (
//	    "github.com/randalmurphal/tagkit/provider"
//	    "github.com/randalmurphal/tagkit/tagging"
//	    _ "github.com/randalmurphal/tagkit/openai"
//	)
//
//	gw, err := provider.FromConfig(provider.FromEnv())
//	ex, err := tagging.New(gw, tagging.DefaultConfig())
//	tags := ex.ExtractTags(ctx, "Market report", body)
//	categories := ex.Hypernyms(ctx, tags)
//
// The command in cmd/tagkit wraps the same engine.
package tagkit
