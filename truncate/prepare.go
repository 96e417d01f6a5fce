package truncate

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// DefaultBudget is the default character budget for prepared document text.
const DefaultBudget = 1600

// LineBreakChars lists every character treated as a line break.
const LineBreakChars = "\r\n\v\f\u2028\u2029\u0085"

var (
	lineBreaks = regexp.MustCompile(`[` + regexp.QuoteMeta(LineBreakChars) + `]+`)
	wordTokens = regexp.MustCompile(`\s+|\S+`)
)

// Prepare strips line breaks from text and truncates it to at most budget
// runes on a whitespace boundary.
func Prepare(text string, budget int) string {
	return ToWordBoundary(StripLineBreaks(text), budget)
}

// IsLineBreak reports whether r is one of LineBreakChars.
func IsLineBreak(r rune) bool {
	return strings.ContainsRune(LineBreakChars, r)
}

// HasLineBreak reports whether s contains any of LineBreakChars.
func HasLineBreak(s string) bool {
	return strings.ContainsAny(s, LineBreakChars)
}

// StripLineBreaks deletes every line-break character, including the Unicode
// line and paragraph separators. Text on either side of a break is joined
// as is.
func StripLineBreaks(text string) string {
	if text == "" {
		return ""
	}
	return lineBreaks.ReplaceAllString(text, "")
}

// ToWordBoundary returns the longest prefix of text made of whole
// word/whitespace tokens whose length does not exceed budget runes, trimmed of
// surrounding whitespace. A first word longer than the budget yields "".
func ToWordBoundary(text string, budget int) string {
	if budget <= 0 || text == "" {
		return ""
	}
	if utf8.RuneCountInString(text) <= budget {
		return strings.TrimSpace(text)
	}

	var sb strings.Builder
	used := 0
	for _, tok := range wordTokens.FindAllString(text, -1) {
		n := utf8.RuneCountInString(tok)
		if used+n > budget {
			break
		}
		sb.WriteString(tok)
		used += n
	}
	return strings.TrimSpace(sb.String())
}
