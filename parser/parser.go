package parser

import (
	"strings"
	"unicode"

	"github.com/randalmurphal/tagkit/truncate"
)

// DefaultDelimiter separates tags in completions.
const DefaultDelimiter = ","

// Parser extracts candidates from completion text.
type Parser struct {
	delimiter string
}

// NewParser creates a parser for the given delimiter. An empty delimiter
// uses DefaultDelimiter.
func NewParser(delimiter string) *Parser {
	if delimiter == "" {
		delimiter = DefaultDelimiter
	}
	return &Parser{delimiter: delimiter}
}

// Delimiter returns the delimiter the parser splits on.
func (p *Parser) Delimiter() string {
	return p.delimiter
}

// Candidates splits raw on the delimiter and trims each fragment. Empty
// fragments and fragments containing a line break are discarded. The result
// preserves completion order.
func (p *Parser) Candidates(raw string) []string {
	fragments := strings.Split(raw, p.delimiter)
	candidates := make([]string, 0, len(fragments))
	for _, f := range fragments {
		f = strings.TrimSpace(f)
		if f == "" || truncate.HasLineBreak(f) {
			continue
		}
		candidates = append(candidates, f)
	}
	return candidates
}

// Phrase extracts a short answer phrase from raw: the first non-empty line,
// without a repeated "Category:" label, surrounding quotes, or trailing
// punctuation. Returns "" when nothing usable remains.
func (p *Parser) Phrase(raw string) string {
	var line string
	for _, l := range strings.FieldsFunc(raw, truncate.IsLineBreak) {
		if l = strings.TrimSpace(l); l != "" {
			line = l
			break
		}
	}
	if label, rest, ok := strings.Cut(line, ":"); ok && strings.EqualFold(strings.TrimSpace(label), "category") {
		line = strings.TrimSpace(rest)
	}
	// A delimited answer means the model listed several categories; keep the first.
	if first, _, ok := strings.Cut(line, p.delimiter); ok {
		line = first
	}
	line = strings.Trim(line, "\"'`“”‘’ ")
	line = strings.TrimRightFunc(line, func(r rune) bool {
		return unicode.IsPunct(r) || unicode.IsSpace(r)
	})
	return strings.TrimSpace(line)
}

// WordCount returns the number of whitespace-delimited words in s.
func WordCount(s string) int {
	return len(strings.Fields(s))
}

// Candidates is a convenience function using a parser for delimiter.
func Candidates(raw, delimiter string) []string {
	return NewParser(delimiter).Candidates(raw)
}
