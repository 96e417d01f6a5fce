package model

import (
	"fmt"
	"strconv"
	"strings"
)

// Tier is a completion model quality level. Higher tiers are more capable
// and more expensive.
type Tier int

// Tier constants in ascending order of capability.
const (
	TierFast Tier = iota
	TierDefault
	TierStrong
	TierMax
)

// NumTiers is the number of defined tiers.
const NumTiers = int(TierMax) + 1

// String returns the tier name.
func (t Tier) String() string {
	switch t {
	case TierFast:
		return "fast"
	case TierDefault:
		return "default"
	case TierStrong:
		return "strong"
	case TierMax:
		return "max"
	default:
		return "unknown"
	}
}

// Valid reports whether t is one of the defined tiers.
func (t Tier) Valid() bool {
	return t >= TierFast && t <= TierMax
}

// Next returns the tier above t. Returns (t, false) at TierMax or for an
// invalid tier.
func (t Tier) Next() (Tier, bool) {
	if !t.Valid() || t == TierMax {
		return t, false
	}
	return t + 1, true
}

// Below reports whether t is strictly below ceiling.
func (t Tier) Below(ceiling Tier) bool {
	return t < ceiling
}

// ParseTier accepts either a tier name ("fast", "default", "strong", "max")
// or its ordinal ("0".."3").
func ParseTier(s string) (Tier, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	switch s {
	case "fast":
		return TierFast, nil
	case "default":
		return TierDefault, nil
	case "strong":
		return TierStrong, nil
	case "max":
		return TierMax, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || !Tier(n).Valid() {
		return 0, fmt.Errorf("invalid tier %q: want one of fast, default, strong, max or 0-%d", s, NumTiers-1)
	}
	return Tier(n), nil
}

// Tiers returns all tiers in ascending order.
func Tiers() []Tier {
	return []Tier{TierFast, TierDefault, TierStrong, TierMax}
}
