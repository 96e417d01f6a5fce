package prompt

import (
	"errors"
	"fmt"
	"strings"
	"text/template"
)

// DefaultTagTemplate is the few-shot tag extraction prompt. The completion is
// expected to continue after the final "Tags:" with a delimited list.
const DefaultTagTemplate = `Extract a short list of topical tags for each text. Tags are one to three words, separated by "{{delimiter}}".

Text: {{example_text}}
Tags: {{exemplars}}

{{#if title}}Title: {{title}}
{{/if}}Text: {{text}}
Tags:`

// DefaultHypernymTemplate asks for one broader category for a single tag.
const DefaultHypernymTemplate = `Give one broader category that each term belongs to.

Term: Refrigerator
Category: Appliance

Term: Labrador Retriever
Category: Dog breed

Term: {{tag}}
Category:`

// Config configures a Builder.
type Config struct {
	// Exemplars are the few-shot tags shown after ExampleText. Required.
	Exemplars []string

	// ExampleText is the sample document the exemplars were "extracted" from. Required.
	ExampleText string

	// Delimiter separates tags in the exemplar line and in the expected completion.
	// Defaults to ",".
	Delimiter string

	// TagTemplate overrides DefaultTagTemplate. It must reference {{text}} and {{exemplars}}.
	TagTemplate string

	// HypernymTemplate overrides DefaultHypernymTemplate. It must reference {{tag}}.
	HypernymTemplate string
}

// Builder renders tag and hypernym prompts. It is immutable after
// construction and safe for concurrent use.
type Builder struct {
	tagTmpl      *template.Template
	hypernymTmpl *template.Template
	exemplars    string
	exampleText  string
	delimiter    string
}

// NewBuilder compiles the configured templates.
func NewBuilder(cfg Config) (*Builder, error) {
	if len(cfg.Exemplars) == 0 {
		return nil, errors.New("at least one exemplar is required")
	}
	if strings.TrimSpace(cfg.ExampleText) == "" {
		return nil, errors.New("example text is required")
	}
	delimiter := cfg.Delimiter
	if delimiter == "" {
		delimiter = ","
	}
	tagSrc := cfg.TagTemplate
	if tagSrc == "" {
		tagSrc = DefaultTagTemplate
	}
	hypSrc := cfg.HypernymTemplate
	if hypSrc == "" {
		hypSrc = DefaultHypernymTemplate
	}
	if err := ValidateVariables(tagSrc, "text", "exemplars"); err != nil {
		return nil, fmt.Errorf("tag template: %w", err)
	}
	if err := ValidateVariables(hypSrc, "tag"); err != nil {
		return nil, fmt.Errorf("hypernym template: %w", err)
	}

	engine := NewEngine()
	tagTmpl, err := engine.Compile(tagSrc)
	if err != nil {
		return nil, fmt.Errorf("tag template: %w", err)
	}
	hypTmpl, err := engine.Compile(hypSrc)
	if err != nil {
		return nil, fmt.Errorf("hypernym template: %w", err)
	}

	return &Builder{
		tagTmpl:      tagTmpl,
		hypernymTmpl: hypTmpl,
		exemplars:    JoinTags(cfg.Exemplars, delimiter),
		exampleText:  cfg.ExampleText,
		delimiter:    delimiter,
	}, nil
}

// Tags renders the tag extraction prompt for an already prepared document body.
func (b *Builder) Tags(title, text string) (string, error) {
	return execute(b.tagTmpl, map[string]any{
		"delimiter":    b.delimiter,
		"example_text": b.exampleText,
		"exemplars":    b.exemplars,
		"title":        strings.TrimSpace(title),
		"text":         text,
	})
}

// Hypernym renders the hypernym prompt for one tag.
func (b *Builder) Hypernym(tag string) (string, error) {
	return execute(b.hypernymTmpl, map[string]any{
		"tag": strings.TrimSpace(tag),
	})
}

// Delimiter returns the delimiter the prompt asks the model to use.
func (b *Builder) Delimiter() string {
	return b.delimiter
}

// JoinTags joins tags with the delimiter followed by a space, the way the
// model is expected to write them.
func JoinTags(tags []string, delimiter string) string {
	sep := delimiter
	if strings.TrimSpace(delimiter) != "" {
		sep = delimiter + " "
	}
	return strings.Join(tags, sep)
}
