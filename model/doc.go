// Package model provides quality tiers, escalation traces, and per-tier cost tracking.
//
// Tiers are ordinals from the cheapest model variant (TierFast) to the most
// capable one (TierMax). A tier is a value; escalating yields a new tier.
//
// # Tiers
//
//	t := model.TierDefault
//	next, ok := t.Next() // TierStrong, true
//
// # Escalation Trace
//
// EscalationState records every attempt of one extraction so callers can see
// which tiers were tried and why they were abandoned:
//
//	state := model.NewEscalationState(model.TierDefault)
//	state.Record(model.Attempt{Tier: state.Current, Outcome: model.OutcomeEscalated, Rule: "exemplar"})
//	state.Escalate()
//
// # Cost Tracking
//
//	tracker := model.NewCostTracker(model.DefaultPricing)
//	tracker.Record(model.TierStrong, 1000, 50)  // input, output tokens
//	cost := tracker.EstimatedCost()
package model
