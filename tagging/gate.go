package tagging

import (
	"github.com/randalmurphal/tagkit/model"
	"github.com/randalmurphal/tagkit/parser"
)

// Verdict is the QualityGate's disposition for one candidate.
type Verdict int

// Verdicts.
const (
	Keep Verdict = iota
	Drop
	Escalate
)

// String returns the verdict name.
func (v Verdict) String() string {
	switch v {
	case Keep:
		return "keep"
	case Drop:
		return "drop"
	case Escalate:
		return "escalate"
	default:
		return "unknown"
	}
}

// Rule names the quality rule behind a verdict.
type Rule string

// Quality rules.
const (
	RuleNone      Rule = ""
	RuleWordCount Rule = "word_count"
	RuleExemplar  Rule = "exemplar"
)

// Decision is a verdict plus the rule that produced it.
type Decision struct {
	Verdict Verdict
	Rule    Rule
}

// Gate decides whether a candidate is trustworthy at a given tier.
// It is immutable and safe for concurrent use.
type Gate struct {
	exemplars        map[string]bool
	maxWords         int
	wordCountCeiling model.Tier
	exemplarCeiling  model.Tier
}

// NewGate builds a gate from cfg.
func NewGate(cfg Config) *Gate {
	return &Gate{
		exemplars:        foldSet(cfg.Exemplars),
		maxWords:         cfg.MaxWords,
		wordCountCeiling: cfg.WordCountCeiling,
		exemplarCeiling:  cfg.ExemplarCeiling,
	}
}

// Judge evaluates one candidate at tier. Rules apply in order: an over-long
// candidate escalates below the word-count ceiling and is dropped from it on;
// an exemplar escalates below the exemplar ceiling and is dropped from it on.
func (g *Gate) Judge(candidate string, tier model.Tier) Decision {
	cleaned := Cleanup(candidate)

	if parser.WordCount(cleaned) > g.maxWords {
		if tier.Below(g.wordCountCeiling) {
			return Decision{Verdict: Escalate, Rule: RuleWordCount}
		}
		return Decision{Verdict: Drop, Rule: RuleWordCount}
	}

	if g.IsExemplar(cleaned) {
		if tier.Below(g.exemplarCeiling) {
			return Decision{Verdict: Escalate, Rule: RuleExemplar}
		}
		return Decision{Verdict: Drop, Rule: RuleExemplar}
	}

	return Decision{Verdict: Keep}
}

// IsExemplar reports whether s matches an exemplar after cleanup, ignoring case.
func (g *Gate) IsExemplar(s string) bool {
	return g.exemplars[foldKey(Cleanup(s))]
}

func foldSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, it := range items {
		if k := foldKey(Cleanup(it)); k != "" {
			set[k] = true
		}
	}
	return set
}
