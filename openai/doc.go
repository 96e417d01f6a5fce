// Package openai implements provider.Gateway against an OpenAI-compatible
// legacy completions endpoint (POST {base}/completions).
//
// Importing the package registers the "openai" gateway:
//
//	import _ "github.com/randalmurphal/tagkit/openai"
//
//	gw, err := provider.FromConfig(provider.DefaultConfig())
//
// Each quality tier maps to one model name through provider.Config.TierModels.
// Transient failures (network errors, HTTP 429 and 5xx, per-attempt timeouts)
// are retried up to MaxRetries times with doubling backoff; a Retry-After
// header on 429 overrides the backoff. The API key comes from the config or,
// when empty, from OPENAI_API_KEY.
package openai
