package prompt

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() Config {
	return Config{
		Exemplars:   []string{"Quantum Origami", "Lunar Beekeeping", "Glacier Jazz"},
		ExampleText: "A folded-paper model of a qubit was played to bees on the moon.",
	}
}

func TestEngineRender(t *testing.T) {
	e := NewEngine()

	tests := []struct {
		name     string
		template string
		vars     map[string]any
		want     string
	}{
		{"simple variable", "Hello {{name}}", map[string]any{"name": "World"}, "Hello World"},
		{"if true", "{{#if x}}yes{{/if}}", map[string]any{"x": "set"}, "yes"},
		{"if empty", "{{#if x}}yes{{/if}}", map[string]any{"x": ""}, ""},
		{"go syntax passes through", "{{trim .name}}", map[string]any{"name": "  pad  "}, "pad"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := e.Render(tt.template, tt.vars)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEngineRender_Errors(t *testing.T) {
	e := NewEngine()

	_, err := e.Render("", nil)
	assert.True(t, errors.Is(err, ErrEmpty))

	_, err = e.Render("{{#if x}}unterminated", map[string]any{"x": true})
	assert.True(t, errors.Is(err, ErrParse))

	_, err = e.Render("{{missing}}", map[string]any{})
	assert.True(t, errors.Is(err, ErrExecute))
}

func TestVariables(t *testing.T) {
	got := Variables("{{#if title}}{{title}}{{/if}} {{text}} {{text}} {{else}}")
	assert.Equal(t, []string{"title", "text"}, got)

	assert.NoError(t, ValidateVariables("{{a}} {{b}}", "a", "b"))
	err := ValidateVariables("{{a}}", "a", "b")
	assert.True(t, errors.Is(err, ErrVariable))
	assert.Contains(t, err.Error(), "b")
}

func TestBuilderTags(t *testing.T) {
	b, err := NewBuilder(testConfig())
	require.NoError(t, err)

	p, err := b.Tags("Fridge Reviews", "The new refrigerator keeps vegetables fresh.")
	require.NoError(t, err)

	assert.Contains(t, p, "Tags: Quantum Origami, Lunar Beekeeping, Glacier Jazz\n")
	assert.Contains(t, p, "Title: Fridge Reviews\nText: The new refrigerator keeps vegetables fresh.\nTags:")
	assert.True(t, strings.HasSuffix(p, "Tags:"))
	assert.Contains(t, p, `separated by ","`)
}

func TestBuilderTags_NoTitle(t *testing.T) {
	b, err := NewBuilder(testConfig())
	require.NoError(t, err)

	p, err := b.Tags("   ", "body")
	require.NoError(t, err)
	assert.NotContains(t, p, "Title:")
	assert.True(t, strings.HasSuffix(p, "Text: body\nTags:"))
}

func TestBuilderTags_PipeDelimiter(t *testing.T) {
	cfg := testConfig()
	cfg.Delimiter = "|"
	b, err := NewBuilder(cfg)
	require.NoError(t, err)

	p, err := b.Tags("", "body")
	require.NoError(t, err)
	assert.Contains(t, p, "Quantum Origami| Lunar Beekeeping| Glacier Jazz")
	assert.Equal(t, "|", b.Delimiter())
}

func TestBuilderHypernym(t *testing.T) {
	b, err := NewBuilder(testConfig())
	require.NoError(t, err)

	p, err := b.Hypernym(" Espresso Machine ")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(p, "Term: Espresso Machine\nCategory:"))
}

func TestNewBuilder_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"no exemplars", func(c *Config) { c.Exemplars = nil }},
		{"no example text", func(c *Config) { c.ExampleText = " " }},
		{"tag template without text", func(c *Config) { c.TagTemplate = "{{exemplars}}" }},
		{"hypernym template without tag", func(c *Config) { c.HypernymTemplate = "Category:" }},
		{"unparseable template", func(c *Config) { c.TagTemplate = "{{text}} {{exemplars}} {{#if x}}" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.mutate(&cfg)
			_, err := NewBuilder(cfg)
			assert.Error(t, err)
		})
	}
}

func TestJoinTags(t *testing.T) {
	assert.Equal(t, "a, b", JoinTags([]string{"a", "b"}, ","))
	assert.Equal(t, "a\tb", JoinTags([]string{"a", "b"}, "\t"))
	assert.Equal(t, "", JoinTags(nil, ","))
}
