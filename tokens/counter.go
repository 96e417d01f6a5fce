package tokens

import (
	"unicode/utf8"
)

// DefaultCharsPerToken is the default character-to-token ratio.
const DefaultCharsPerToken = 4.0

// Counter estimates token counts for text.
type Counter interface {
	Count(text string) int
}

// EstimatingCounter uses a fixed character-to-token ratio.
type EstimatingCounter struct {
	CharsPerToken float64
}

// NewEstimatingCounter returns a counter with ratio charsPerToken, or
// DefaultCharsPerToken when charsPerToken <= 0.
func NewEstimatingCounter(charsPerToken float64) *EstimatingCounter {
	if charsPerToken <= 0 {
		charsPerToken = DefaultCharsPerToken
	}
	return &EstimatingCounter{CharsPerToken: charsPerToken}
}

// Count estimates the tokens in text, rounding to nearest. Runes are
// counted, not bytes.
func (c *EstimatingCounter) Count(text string) int {
	return int(float64(utf8.RuneCountInString(text))/c.CharsPerToken + 0.5)
}

var defaultCounter = NewEstimatingCounter(DefaultCharsPerToken)

// Estimate counts tokens in text with the default ratio.
func Estimate(text string) int {
	return defaultCounter.Count(text)
}

// ContextWindows holds context window sizes of the default completion models.
var ContextWindows = map[string]int{
	"babbage-002":                 16384,
	"davinci-002":                 16384,
	"gpt-3.5-turbo-instruct":      4096,
	"gpt-3.5-turbo-instruct-0914": 4096,
}

// DefaultContextWindow applies to models missing from ContextWindows.
const DefaultContextWindow = 4096

// ContextWindow returns the context window of model.
func ContextWindow(model string) int {
	if n, ok := ContextWindows[model]; ok {
		return n
	}
	return DefaultContextWindow
}

// Fits reports whether prompt plus maxTokens of completion fits model's
// context window.
func Fits(model, prompt string, maxTokens int) bool {
	return Estimate(prompt)+maxTokens <= ContextWindow(model)
}
