package tagging

import (
	"errors"
	"fmt"
	"strings"

	"github.com/randalmurphal/tagkit/model"
	"github.com/randalmurphal/tagkit/provider"
	"github.com/randalmurphal/tagkit/truncate"
)

// DefaultExemplars are deliberately implausible tags: their reappearance in
// a completion means the model is echoing the prompt.
var DefaultExemplars = []string{
	"Quantum Origami",
	"Medieval Beekeeping",
	"Lunar Cartography",
	"Glacier Jazz",
}

// DefaultExampleText is the sample document shown with DefaultExemplars.
const DefaultExampleText = "Monks in a remote abbey fold paper models of entangled particles, " +
	"keep bees under moonlit skies, and chart the far side of the moon while " +
	"a quartet improvises on instruments carved from glacial ice."

// Config configures an Extractor.
type Config struct {
	// Exemplars are the few-shot tags embedded in every prompt. Required.
	Exemplars []string `json:"exemplars" yaml:"exemplars" toml:"exemplars"`

	// ExampleText is the sample document the exemplars describe. Required.
	ExampleText string `json:"example_text" yaml:"example_text" toml:"example_text"`

	// Delimiter separates tags in prompts and completions. Default ",".
	Delimiter string `json:"delimiter" yaml:"delimiter" toml:"delimiter"`

	// MaxChars is the character budget for the prepared document body.
	MaxChars int `json:"max_chars" yaml:"max_chars" toml:"max_chars"`

	// MaxWords is the longest plausible tag, in words. Longer candidates
	// signal a degenerate completion.
	MaxWords int `json:"max_words" yaml:"max_words" toml:"max_words"`

	// WordCountCeiling is the tier from which over-long candidates are
	// dropped instead of escalating.
	WordCountCeiling model.Tier `json:"word_count_ceiling" yaml:"word_count_ceiling" toml:"word_count_ceiling"`

	// ExemplarCeiling is the tier from which exemplar candidates are dropped
	// instead of escalating.
	ExemplarCeiling model.Tier `json:"exemplar_ceiling" yaml:"exemplar_ceiling" toml:"exemplar_ceiling"`

	// StartTier is the tier ExtractTags starts at.
	StartTier model.Tier `json:"start_tier" yaml:"start_tier" toml:"start_tier"`

	// Generation holds the fixed generation parameters for tag completions.
	Generation provider.Options `json:"generation" yaml:"generation" toml:"generation"`

	// TagTemplate overrides the built-in tag prompt. Optional.
	TagTemplate string `json:"tag_template,omitempty" yaml:"tag_template" toml:"tag_template"`

	// Hypernym configures broader-category lookups.
	Hypernym HypernymConfig `json:"hypernym" yaml:"hypernym" toml:"hypernym"`
}

// HypernymConfig configures hypernym computation.
type HypernymConfig struct {
	// Tier is the quality tier used for hypernym completions.
	Tier model.Tier `json:"tier" yaml:"tier" toml:"tier"`

	// Generation holds the generation parameters for hypernym completions.
	Generation provider.Options `json:"generation" yaml:"generation" toml:"generation"`

	// MaxWords bounds an acceptable hypernym's length for the default acceptance policy.
	MaxWords int `json:"max_words" yaml:"max_words" toml:"max_words"`

	// Concurrency bounds simultaneous hypernym completions per batch.
	Concurrency int `json:"concurrency" yaml:"concurrency" toml:"concurrency"`

	// Template overrides the built-in hypernym prompt. Optional.
	Template string `json:"template,omitempty" yaml:"template" toml:"template"`
}

// DefaultConfig returns the default engine configuration.
func DefaultConfig() Config {
	return Config{
		Exemplars:        append([]string(nil), DefaultExemplars...),
		ExampleText:      DefaultExampleText,
		Delimiter:        ",",
		MaxChars:         truncate.DefaultBudget,
		MaxWords:         3,
		WordCountCeiling: model.TierStrong,
		ExemplarCeiling:  model.TierMax,
		StartTier:        model.TierDefault,
		Generation: provider.Options{
			MaxTokens:        60,
			Temperature:      0.3,
			TopP:             0,
			FrequencyPenalty: 0.8,
			PresencePenalty:  0.1,
		},
		Hypernym: HypernymConfig{
			Tier: model.TierDefault,
			Generation: provider.Options{
				MaxTokens:        10,
				Temperature:      0.2,
				TopP:             0,
				FrequencyPenalty: 0.5,
				PresencePenalty:  0,
				Stop:             []string{"\n"},
			},
			MaxWords:    3,
			Concurrency: 4,
		},
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	var errs []error
	if len(c.Exemplars) == 0 {
		errs = append(errs, errors.New("exemplars: at least one is required"))
	}
	for i, ex := range c.Exemplars {
		if strings.TrimSpace(ex) == "" {
			errs = append(errs, fmt.Errorf("exemplars[%d] is empty", i))
		}
		if c.Delimiter != "" && strings.Contains(ex, c.Delimiter) {
			errs = append(errs, fmt.Errorf("exemplars[%d] %q contains the delimiter %q", i, ex, c.Delimiter))
		}
	}
	if strings.TrimSpace(c.ExampleText) == "" {
		errs = append(errs, errors.New("example_text is required"))
	}
	if c.MaxChars <= 0 {
		errs = append(errs, fmt.Errorf("max_chars must be > 0, got %d", c.MaxChars))
	}
	if c.MaxWords <= 0 {
		errs = append(errs, fmt.Errorf("max_words must be > 0, got %d", c.MaxWords))
	}
	for _, f := range []struct {
		name string
		tier model.Tier
	}{
		{"word_count_ceiling", c.WordCountCeiling},
		{"exemplar_ceiling", c.ExemplarCeiling},
		{"start_tier", c.StartTier},
		{"hypernym.tier", c.Hypernym.Tier},
	} {
		if !f.tier.Valid() {
			errs = append(errs, fmt.Errorf("%s must be between 0 and %d, got %d", f.name, model.NumTiers-1, f.tier))
		}
	}
	if err := c.Generation.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("generation: %w", err))
	}
	if err := c.Hypernym.Generation.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("hypernym.generation: %w", err))
	}
	if c.Hypernym.MaxWords <= 0 {
		errs = append(errs, fmt.Errorf("hypernym.max_words must be > 0, got %d", c.Hypernym.MaxWords))
	}
	if c.Hypernym.Concurrency <= 0 {
		errs = append(errs, fmt.Errorf("hypernym.concurrency must be > 0, got %d", c.Hypernym.Concurrency))
	}
	return errors.Join(errs...)
}

// WithExemplars returns a copy of the config with the given exemplars.
func (c Config) WithExemplars(exemplars ...string) Config {
	c.Exemplars = append([]string(nil), exemplars...)
	return c
}

// WithStartTier returns a copy of the config with the given start tier.
func (c Config) WithStartTier(tier model.Tier) Config {
	c.StartTier = tier
	return c
}
