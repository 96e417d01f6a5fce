package tagging

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/randalmurphal/tagkit/model"
	"github.com/randalmurphal/tagkit/parser"
	"github.com/randalmurphal/tagkit/prompt"
	"github.com/randalmurphal/tagkit/provider"
	"github.com/randalmurphal/tagkit/truncate"
)

// rawPreviewLen bounds how much raw completion text goes into a log record.
const rawPreviewLen = 500

// Document is the caller's input.
type Document struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// Result is the outcome of one extraction, with its attempt trace.
type Result struct {
	RunID     string          `json:"run_id"`
	Tags      []string        `json:"tags"`
	FinalTier model.Tier      `json:"final_tier"`
	Attempts  []model.Attempt `json:"attempts"`
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Extractor) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithCostTracker records per-tier token usage of every completion.
func WithCostTracker(tracker *model.CostTracker) Option {
	return func(e *Extractor) {
		e.tracker = tracker
	}
}

// WithAcceptFunc sets the hypernym acceptance policy.
func WithAcceptFunc(fn AcceptFunc) Option {
	return func(e *Extractor) {
		if fn != nil {
			e.accept = fn
		}
	}
}

// Extractor extracts tags from documents, escalating across quality tiers
// when a completion looks degenerate. It holds no mutable state besides the
// optional cost tracker and is safe for concurrent use.
type Extractor struct {
	gateway    provider.Gateway
	cfg        Config
	builder    *prompt.Builder
	parser     *parser.Parser
	gate       *Gate
	normalizer *Normalizer
	accept     AcceptFunc
	tracker    *model.CostTracker
	logger     *slog.Logger
}

// New creates an Extractor calling gw with configuration cfg.
func New(gw provider.Gateway, cfg Config, opts ...Option) (*Extractor, error) {
	if gw == nil {
		return nil, fmt.Errorf("gateway is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	builder, err := prompt.NewBuilder(prompt.Config{
		Exemplars:        cfg.Exemplars,
		ExampleText:      cfg.ExampleText,
		Delimiter:        cfg.Delimiter,
		TagTemplate:      cfg.TagTemplate,
		HypernymTemplate: cfg.Hypernym.Template,
	})
	if err != nil {
		return nil, fmt.Errorf("build prompts: %w", err)
	}

	gate := NewGate(cfg)
	e := &Extractor{
		gateway:    gw,
		cfg:        cfg,
		builder:    builder,
		parser:     parser.NewParser(builder.Delimiter()),
		gate:       gate,
		normalizer: NewNormalizer(gate),
		logger:     slog.Default(),
	}
	e.accept = DefaultAccept(cfg.Hypernym.MaxWords, gate)
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Config returns the extractor's configuration.
func (e *Extractor) Config() Config {
	return e.cfg
}

// ExtractTags extracts tags starting at the configured start tier.
func (e *Extractor) ExtractTags(ctx context.Context, title, body string) []string {
	return e.Extract(ctx, Document{Title: title, Body: body}, e.cfg.StartTier)
}

// Extract extracts tags starting at tier start. It never fails: transport
// problems and exhausted escalation yield an empty (non-nil) slice.
func (e *Extractor) Extract(ctx context.Context, doc Document, start model.Tier) []string {
	return e.ExtractWithTrace(ctx, doc, start).Tags
}

// ExtractWithTrace is Extract plus the run ID and every tier attempt.
//
// Each tier attempt is independent: when a candidate triggers escalation the
// whole attempt is discarded and the prompt is re-sent at the next tier.
func (e *Extractor) ExtractWithTrace(ctx context.Context, doc Document, start model.Tier) Result {
	runID := uuid.NewString()
	log := e.logger.With(slog.String("run_id", runID))

	if !start.Valid() {
		clamped := max(model.TierFast, min(start, model.TierMax))
		log.Warn("start tier out of range, clamping",
			slog.Int("requested", int(start)),
			slog.String("tier", clamped.String()))
		start = clamped
	}
	state := model.NewEscalationState(start)
	result := Result{RunID: runID, Tags: []string{}, FinalTier: start}

	text := truncate.Prepare(doc.Body, e.cfg.MaxChars)
	if text == "" {
		state.Record(model.Attempt{Tier: start, Outcome: model.OutcomeEmptyInput})
		result.Attempts = state.Attempts
		return result
	}

	p, err := e.builder.Tags(doc.Title, text)
	if err != nil {
		log.Error("render tag prompt", slog.Any("error", err))
		result.Attempts = state.Attempts
		return result
	}

	for {
		tier := state.Current
		kept, attempt := e.attempt(ctx, log, p, tier)
		state.Record(attempt)
		result.FinalTier = tier

		if attempt.Outcome != model.OutcomeEscalated {
			if attempt.Outcome == model.OutcomeAccepted {
				result.Tags = e.normalizer.Normalize(kept)
			}
			break
		}
		if !state.Escalate() {
			break
		}
	}

	result.Attempts = state.Attempts
	return result
}

// attempt runs one tier: complete, parse, and judge every candidate until
// the first escalation.
func (e *Extractor) attempt(ctx context.Context, log *slog.Logger, p string, tier model.Tier) ([]string, model.Attempt) {
	attempt := model.Attempt{Tier: tier}
	log = log.With(slog.String("tier", tier.String()))

	completion, err := e.gateway.Complete(ctx, p, e.cfg.Generation, tier)
	if err != nil {
		attempt.Outcome = outcomeFor(err)
		log.Error("tag completion failed",
			slog.String("gateway", e.gateway.Name()),
			slog.String("outcome", string(attempt.Outcome)),
			slog.Any("error", err))
		return nil, attempt
	}
	e.record(tier, completion)

	raw, err := completion.Text()
	if err != nil {
		attempt.Outcome = model.OutcomeMalformed
		log.Error("tag completion has no choices",
			slog.String("gateway", e.gateway.Name()),
			slog.String("model", completion.Model))
		return nil, attempt
	}

	candidates := e.parser.Candidates(raw)
	kept := make([]string, 0, len(candidates))
	for _, c := range candidates {
		d := e.gate.Judge(c, tier)
		switch d.Verdict {
		case Escalate:
			attempt.Outcome = model.OutcomeEscalated
			attempt.Rule = string(d.Rule)
			attempt.Candidate = c
			log.Warn("degenerate completion, escalating",
				slog.String("rule", string(d.Rule)),
				slog.String("candidate", c),
				slog.String("raw", truncate.ToLength(raw, rawPreviewLen)))
			return nil, attempt
		case Drop:
			attempt.Dropped++
			log.Warn("dropping candidate at ceiling",
				slog.String("rule", string(d.Rule)),
				slog.String("candidate", c),
				slog.String("raw", truncate.ToLength(raw, rawPreviewLen)))
		default:
			kept = append(kept, c)
		}
	}

	attempt.Outcome = model.OutcomeAccepted
	attempt.Kept = len(kept)
	log.Debug("tag completion accepted",
		slog.Int("kept", attempt.Kept),
		slog.Int("dropped", attempt.Dropped))
	return kept, attempt
}

func (e *Extractor) record(tier model.Tier, c *provider.Completion) {
	if e.tracker == nil || c == nil {
		return
	}
	e.tracker.Record(tier, c.Usage.PromptTokens, c.Usage.CompletionTokens)
}

func outcomeFor(err error) model.Outcome {
	if provider.IsMalformed(err) {
		return model.OutcomeMalformed
	}
	return model.OutcomeTransportFailure
}
