package openai

import "github.com/randalmurphal/tagkit/provider"

func init() {
	provider.Register(Name, func(cfg provider.Config) (provider.Gateway, error) {
		return New(cfg)
	})
}
