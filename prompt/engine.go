package prompt

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"text/template"
)

// Sentinel errors for template operations.
var (
	// ErrEmpty is returned when the template string is empty.
	ErrEmpty = errors.New("template is empty")

	// ErrParse is returned when the template fails to parse.
	ErrParse = errors.New("template parse error")

	// ErrExecute is returned when template execution fails.
	ErrExecute = errors.New("template execution error")

	// ErrVariable is returned when a required variable is missing.
	ErrVariable = errors.New("required variable missing")
)

var (
	ifPattern  = regexp.MustCompile(`\{\{#if\s+(\w+)\}\}`)
	varPattern = regexp.MustCompile(`\{\{([a-zA-Z_]\w*)\}\}`)
)

// goTemplateKeywords are Go template reserved words that should not be
// converted to variable references.
var goTemplateKeywords = map[string]bool{
	"else": true,
	"end":  true,
	"if":   true,
}

// Engine renders prompt templates with variable substitution.
type Engine struct {
	funcs template.FuncMap
}

// NewEngine creates a new template engine with default helper functions.
func NewEngine() *Engine {
	return &Engine{
		funcs: template.FuncMap{
			"trim":  strings.TrimSpace,
			"join":  strings.Join,
			"lower": strings.ToLower,
		},
	}
}

// Compile parses a template once so it can be executed many times.
func (e *Engine) Compile(templateStr string) (*template.Template, error) {
	if templateStr == "" {
		return nil, ErrEmpty
	}
	tmpl, err := template.New("prompt").Funcs(e.funcs).Option("missingkey=error").Parse(convertSyntax(templateStr))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}
	return tmpl, nil
}

// Render executes the template with the given variables.
func (e *Engine) Render(templateStr string, variables map[string]any) (string, error) {
	tmpl, err := e.Compile(templateStr)
	if err != nil {
		return "", err
	}
	return execute(tmpl, variables)
}

// Variables returns the variable names referenced by a template, in order of
// first appearance.
func Variables(templateStr string) []string {
	seen := make(map[string]bool)
	var names []string
	add := func(name string) {
		if !seen[name] && !goTemplateKeywords[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	for _, m := range ifPattern.FindAllStringSubmatch(templateStr, -1) {
		add(m[1])
	}
	for _, m := range varPattern.FindAllStringSubmatch(templateStr, -1) {
		add(m[1])
	}
	return names
}

// ValidateVariables checks that all required variables are referenced by the template.
// Returns an error wrapping ErrVariable naming the first one missing.
func ValidateVariables(templateStr string, required ...string) error {
	have := make(map[string]bool)
	for _, name := range Variables(templateStr) {
		have[name] = true
	}
	for _, name := range required {
		if !have[name] {
			return fmt.Errorf("%w: %s", ErrVariable, name)
		}
	}
	return nil
}

func execute(tmpl *template.Template, variables map[string]any) (string, error) {
	var buf strings.Builder
	if err := tmpl.Execute(&buf, variables); err != nil {
		return "", fmt.Errorf("%w: %w", ErrExecute, err)
	}
	return buf.String(), nil
}

// convertSyntax converts Handlebars-like syntax to Go template syntax.
func convertSyntax(input string) string {
	result := ifPattern.ReplaceAllString(input, "{{if .$1}}")
	result = strings.ReplaceAll(result, "{{/if}}", "{{end}}")

	return varPattern.ReplaceAllStringFunc(result, func(match string) string {
		name := match[2 : len(match)-2]
		if goTemplateKeywords[name] {
			return match
		}
		return "{{." + name + "}}"
	})
}
