package tagging

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
)

// Cleanup strips leading marker characters (anything that is not a letter or
// digit, e.g. "#" or "~"), collapses internal whitespace, and trims.
func Cleanup(tag string) string {
	tag = strings.TrimLeftFunc(tag, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	return strings.Join(strings.Fields(tag), " ")
}

// Dedupe removes case-insensitive duplicates, keeping first occurrences in order.
func Dedupe(tags []string) []string {
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		k := foldKey(t)
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, t)
	}
	return out
}

// CollapseNumericRuns keeps only the first tag of each consecutive run whose
// members share a base and carry increasing trailing integers, e.g.
// "Covid 19", "Covid 20", "Covid 21" -> "Covid 19". A tag collapses when its
// base matches the previous kept tag's base and its number is greater.
func CollapseNumericRuns(tags []string) []string {
	out := make([]string, 0, len(tags))
	var (
		prevBase string
		prevNum  uint64
		prevOK   bool
	)
	for _, t := range tags {
		base, num, ok := splitTrailingNumber(t)
		if ok && prevOK && base == prevBase && num > prevNum {
			continue
		}
		out = append(out, t)
		prevBase, prevNum, prevOK = base, num, ok
	}
	return out
}

// splitTrailingNumber splits "Covid 19" into ("covid", 19, true). The base is
// case-folded; tags without a trailing integer or with an empty base report false.
func splitTrailingNumber(tag string) (string, uint64, bool) {
	end := len(tag)
	start := end
	for start > 0 && tag[start-1] >= '0' && tag[start-1] <= '9' {
		start--
	}
	if start == end {
		return "", 0, false
	}
	base := strings.TrimSpace(tag[:start])
	if base == "" {
		return "", 0, false
	}
	num, err := strconv.ParseUint(tag[start:end], 10, 64)
	if err != nil {
		return "", 0, false
	}
	return foldKey(base), num, true
}

// Normalizer turns kept candidates into final tags.
type Normalizer struct {
	gate *Gate
}

// NewNormalizer creates a normalizer that also purges exemplars known to gate.
func NewNormalizer(gate *Gate) *Normalizer {
	return &Normalizer{gate: gate}
}

// Normalize cleans up each tag, drops empty tags and exemplars, removes
// duplicates, and collapses consecutive numeric runs. Order is preserved and
// the operation is idempotent.
func (n *Normalizer) Normalize(tags []string) []string {
	cleaned := make([]string, 0, len(tags))
	for _, t := range tags {
		t = Cleanup(t)
		if t == "" {
			continue
		}
		if n.gate != nil && n.gate.IsExemplar(t) {
			continue
		}
		cleaned = append(cleaned, t)
	}
	return CollapseNumericRuns(Dedupe(cleaned))
}

// foldKey is the comparison key for tags: Unicode case folding over
// whitespace-normalized text.
func foldKey(s string) string {
	return cases.Fold().String(strings.Join(strings.Fields(s), " "))
}
