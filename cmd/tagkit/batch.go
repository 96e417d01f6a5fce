package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/randalmurphal/tagkit/config"
	"github.com/randalmurphal/tagkit/model"
	"github.com/randalmurphal/tagkit/provider"
	"github.com/randalmurphal/tagkit/tagging"
)

const maxLineBytes = 4 << 20

// batchInput is one JSON line read by the batch command.
type batchInput struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Body  string `json:"body"`
}

// batchOutput is one JSON line written by the batch command.
type batchOutput struct {
	ID        string     `json:"id"`
	Tags      []string   `json:"tags"`
	Hypernyms []string   `json:"hypernyms,omitempty"`
	FinalTier model.Tier `json:"final_tier"`
	RunID     string     `json:"run_id,omitempty"`
	Error     string     `json:"error,omitempty"`
}

type batchOptions struct {
	concurrency int
	hypernyms   bool
	watch       bool
}

func newBatchCmd(a *app) *cobra.Command {
	var opts batchOptions
	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Tag a stream of JSON-lines documents",
		Long: `Reads {"id","title","body"} objects, one per line, from standard input and writes
one {"id","tags",...} object per document. Documents are processed concurrently,
so output order may differ from input order.

With --watch the config file is watched and tagging settings are reloaded
between documents. Gateway settings apply at startup only.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.concurrency <= 0 {
				return fmt.Errorf("--concurrency must be > 0")
			}
			if opts.watch && a.configPath == "" {
				return fmt.Errorf("--watch requires --config")
			}
			return a.runBatch(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), opts)
		},
	}
	cmd.Flags().IntVarP(&opts.concurrency, "concurrency", "n", 4, "Documents processed in parallel")
	cmd.Flags().BoolVar(&opts.hypernyms, "hypernyms", false, "Also compute a hypernym per tag")
	cmd.Flags().BoolVar(&opts.watch, "watch", false, "Reload tagging settings when the config file changes")
	return cmd
}

func (a *app) runBatch(ctx context.Context, in io.Reader, out io.Writer, opts batchOptions) error {
	gw, err := a.gateway()
	if err != nil {
		return err
	}
	defer a.release(gw)
	tracker := model.NewCostTracker(nil)
	defer a.logUsage(tracker)

	var current atomic.Pointer[tagging.Extractor]
	ex, err := a.extractor(gw, a.file.Tagging, tracker)
	if err != nil {
		return err
	}
	current.Store(ex)

	if opts.watch {
		stop, err := a.watchConfig(ctx, gw, tracker, &current)
		if err != nil {
			return err
		}
		defer stop()
	}

	var mu sync.Mutex
	enc := json.NewEncoder(out)
	emit := func(o batchOutput) error {
		mu.Lock()
		defer mu.Unlock()
		return enc.Encode(o)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.concurrency)

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	var emitErr error
	line := 0
	for scanner.Scan() {
		line++
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}
		var doc batchInput
		if err := json.Unmarshal(raw, &doc); err != nil {
			a.logger.Warn("skipping invalid input line", slog.Int("line", line), slog.Any("error", err))
			if emitErr = emit(batchOutput{ID: fmt.Sprintf("line:%d", line), Tags: []string{}, Error: "invalid json"}); emitErr != nil {
				break
			}
			continue
		}
		if doc.ID == "" {
			doc.ID = fmt.Sprintf("line:%d", line)
		}
		if gctx.Err() != nil {
			break
		}

		ex := current.Load()
		g.Go(func() error {
			res := ex.ExtractWithTrace(gctx, tagging.Document{Title: doc.Title, Body: doc.Body}, ex.Config().StartTier)
			o := batchOutput{ID: doc.ID, Tags: res.Tags, FinalTier: res.FinalTier, RunID: res.RunID}
			if opts.hypernyms && len(res.Tags) > 0 {
				o.Hypernyms = ex.Hypernyms(gctx, res.Tags)
			}
			return emit(o)
		})
	}
	werr := g.Wait()
	if err := scanner.Err(); err != nil {
		return errors.Join(fmt.Errorf("read input: %w", err), emitErr, werr)
	}
	return errors.Join(emitErr, werr)
}

// watchConfig swaps in a new extractor whenever the config file changes.
// The returned stop func ends the watcher and waits for it.
func (a *app) watchConfig(ctx context.Context, gw provider.Gateway, tracker *model.CostTracker, current *atomic.Pointer[tagging.Extractor]) (func(), error) {
	w, err := config.NewWatcher(a.configPath,
		config.WithWatchLogger(a.logger),
		config.WithOnChange(func(f config.File) {
			ex, err := a.extractor(gw, f.Tagging, tracker)
			if err != nil {
				a.logger.Warn("keeping previous tagging settings", slog.Any("error", err))
				return
			}
			current.Store(ex)
		}))
	if err != nil {
		return nil, err
	}

	wctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := w.Run(wctx); err != nil {
			a.logger.Warn("config watcher stopped", slog.Any("error", err))
		}
	}()
	return func() {
		cancel()
		<-done
	}, nil
}
