package model

import (
	"sync"
)

// Usage tracks token usage for a tier.
type Usage struct {
	InputTokens  int
	OutputTokens int
	Requests     int
}

// Add adds the given usage to this usage.
func (u *Usage) Add(other Usage) {
	u.InputTokens += other.InputTokens
	u.OutputTokens += other.OutputTokens
	u.Requests += other.Requests
}

// TotalTokens returns the total tokens used.
func (u *Usage) TotalTokens() int {
	return u.InputTokens + u.OutputTokens
}

// Pricing holds per-million-token pricing for a tier.
type Pricing struct {
	InputPerMillion  float64 `json:"input_per_million" yaml:"input_per_million" toml:"input_per_million"`
	OutputPerMillion float64 `json:"output_per_million" yaml:"output_per_million" toml:"output_per_million"`
}

// Cost returns the estimated cost of the given usage.
func (p Pricing) Cost(u Usage) float64 {
	return float64(u.InputTokens)/1_000_000*p.InputPerMillion +
		float64(u.OutputTokens)/1_000_000*p.OutputPerMillion
}

// DefaultPricing is a rough price ladder for the default tier models.
// Higher tiers are an order of magnitude more expensive than the tier below.
var DefaultPricing = map[Tier]Pricing{
	TierFast:    {InputPerMillion: 0.4, OutputPerMillion: 0.4},
	TierDefault: {InputPerMillion: 0.5, OutputPerMillion: 0.5},
	TierStrong:  {InputPerMillion: 2.0, OutputPerMillion: 2.0},
	TierMax:     {InputPerMillion: 20.0, OutputPerMillion: 20.0},
}

// CostTracker tracks token usage and estimated costs across tiers.
// It is safe for concurrent use.
type CostTracker struct {
	mu      sync.RWMutex
	pricing map[Tier]Pricing
	totals  map[Tier]Usage
}

// NewCostTracker creates a new cost tracker. A nil pricing map uses DefaultPricing.
func NewCostTracker(pricing map[Tier]Pricing) *CostTracker {
	if pricing == nil {
		pricing = DefaultPricing
	}
	return &CostTracker{
		pricing: pricing,
		totals:  make(map[Tier]Usage),
	}
}

// Record adds a usage record for the given tier.
func (t *CostTracker) Record(tier Tier, input, output int) {
	t.RecordUsage(tier, Usage{InputTokens: input, OutputTokens: output, Requests: 1})
}

// RecordUsage adds a usage record for the given tier.
func (t *CostTracker) RecordUsage(tier Tier, usage Usage) {
	t.mu.Lock()
	defer t.mu.Unlock()

	u := t.totals[tier]
	u.Add(usage)
	t.totals[tier] = u
}

// Usage returns the usage for a specific tier.
func (t *CostTracker) Usage(tier Tier) Usage {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.totals[tier]
}

// Summary returns a copy of all usage totals.
func (t *CostTracker) Summary() map[Tier]Usage {
	t.mu.RLock()
	defer t.mu.RUnlock()

	result := make(map[Tier]Usage, len(t.totals))
	for k, v := range t.totals {
		result[k] = v
	}
	return result
}

// TotalUsage returns aggregated usage across all tiers.
func (t *CostTracker) TotalUsage() Usage {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var total Usage
	for _, u := range t.totals {
		total.Add(u)
	}
	return total
}

// EstimatedCost calculates the estimated cost based on the tracker's pricing.
func (t *CostTracker) EstimatedCost() float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var total float64
	for tier, usage := range t.totals {
		if prices, ok := t.pricing[tier]; ok {
			total += prices.Cost(usage)
		}
	}
	return total
}

// EstimatedCostByTier returns the estimated cost for each tier.
func (t *CostTracker) EstimatedCostByTier() map[Tier]float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()

	result := make(map[Tier]float64, len(t.totals))
	for tier, usage := range t.totals {
		if prices, ok := t.pricing[tier]; ok {
			result[tier] = prices.Cost(usage)
		}
	}
	return result
}

// Reset clears all tracked usage.
func (t *CostTracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.totals = make(map[Tier]Usage)
}
