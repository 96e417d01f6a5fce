package tagging

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/randalmurphal/tagkit/parser"
	"github.com/randalmurphal/tagkit/truncate"
)

// AcceptFunc decides whether hypernym is a plausible broader category for tag.
type AcceptFunc func(tag, hypernym string) bool

// DefaultAccept accepts non-empty hypernyms of at most maxWords words that
// are neither the tag itself (ignoring case) nor an exemplar known to gate.
func DefaultAccept(maxWords int, gate *Gate) AcceptFunc {
	return func(tag, hypernym string) bool {
		if hypernym == "" || parser.WordCount(hypernym) > maxWords {
			return false
		}
		if foldKey(hypernym) == foldKey(tag) {
			return false
		}
		return gate == nil || !gate.IsExemplar(hypernym)
	}
}

// Hypernyms returns one broader-category label per tag, in input order.
// Entries that cannot be resolved are "". Tags are looked up concurrently and
// independently, so one failure never affects its siblings.
func (e *Extractor) Hypernyms(ctx context.Context, tags []string) []string {
	out := make([]string, len(tags))
	if len(tags) == 0 {
		return out
	}

	var g errgroup.Group
	g.SetLimit(e.cfg.Hypernym.Concurrency)
	for i, tag := range tags {
		i, tag := i, tag
		g.Go(func() error {
			out[i] = e.Hypernym(ctx, tag)
			return nil
		})
	}
	_ = g.Wait()
	return out
}

// Hypernym returns a broader-category label for one tag, or "".
func (e *Extractor) Hypernym(ctx context.Context, tag string) string {
	tag = Cleanup(tag)
	if tag == "" {
		return ""
	}
	tier := e.cfg.Hypernym.Tier
	log := e.logger.With(slog.String("tag", tag), slog.String("tier", tier.String()))

	p, err := e.builder.Hypernym(tag)
	if err != nil {
		log.Error("render hypernym prompt", slog.Any("error", err))
		return ""
	}

	completion, err := e.gateway.Complete(ctx, p, e.cfg.Hypernym.Generation, tier)
	if err != nil {
		log.Error("hypernym completion failed",
			slog.String("gateway", e.gateway.Name()),
			slog.Any("error", err))
		return ""
	}
	e.record(tier, completion)

	raw, err := completion.Text()
	if err != nil {
		log.Error("hypernym completion has no choices", slog.String("gateway", e.gateway.Name()))
		return ""
	}

	hypernym := e.parser.Phrase(raw)
	if !e.accept(tag, hypernym) {
		log.Info("hypernym rejected",
			slog.String("hypernym", hypernym),
			slog.String("raw", truncate.ToLength(raw, rawPreviewLen)))
		return ""
	}
	return hypernym
}
