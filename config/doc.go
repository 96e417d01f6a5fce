// Package config loads tagkit's file configuration.
//
// A config file groups the gateway settings and the tagging engine settings:
//
//	gateway:
//	  provider: openai
//	  tier_models: [babbage-002, davinci-002, gpt-3.5-turbo-instruct, gpt-3.5-turbo-instruct-0914]
//	  timeout: 30s
//	tagging:
//	  max_words: 3
//	  start_tier: 1
//
// YAML (.yaml, .yml) and TOML (.toml) are supported. Unset fields keep their
// defaults, TAGKIT_* environment variables override gateway fields, and the
// result is validated before it is returned.
//
// A Watcher reloads the file when it changes and keeps serving the last valid
// version when an edit does not parse or validate.
package config
