package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/tagkit/config"
	"github.com/randalmurphal/tagkit/model"
	"github.com/randalmurphal/tagkit/provider"
	"github.com/randalmurphal/tagkit/tagging"
)

// app carries state shared by all subcommands.
type app struct {
	configPath string
	logFormat  string
	logLevel   string

	// newGateway builds the completion gateway; replaced in tests.
	newGateway func(provider.Config) (provider.Gateway, error)

	logger *slog.Logger
	file   config.File
}

func newApp() *app {
	return &app{newGateway: provider.FromConfig}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "tagkit",
		Short:         "Extract topical tags from documents",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger(cmd.ErrOrStderr(), a.logFormat, a.logLevel)
			if err != nil {
				return err
			}
			a.logger = logger

			if cmd.Name() == "schema" {
				return nil
			}
			f, err := config.Load(a.configPath)
			if err != nil {
				return err
			}
			a.file = f
			return nil
		},
	}

	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "Config file (.yaml, .yml or .toml)")
	root.PersistentFlags().StringVar(&a.logFormat, "log-format", "text", "Log format: text or json")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "warn", "Log level: debug, info, warn or error")

	root.AddCommand(newExtractCmd(a))
	root.AddCommand(newHypernymsCmd(a))
	root.AddCommand(newBatchCmd(a))
	root.AddCommand(newSchemaCmd())
	return root
}

// extractor builds an engine for cfg on top of gw.
func (a *app) extractor(gw provider.Gateway, cfg tagging.Config, tracker *model.CostTracker) (*tagging.Extractor, error) {
	return tagging.New(gw, cfg,
		tagging.WithLogger(a.logger),
		tagging.WithCostTracker(tracker))
}

func (a *app) gateway() (provider.Gateway, error) {
	gw, err := a.newGateway(a.file.Gateway)
	if err != nil {
		return nil, fmt.Errorf("create %s gateway: %w", a.file.Gateway.Provider, err)
	}
	return gw, nil
}

// release closes gw when it holds resources.
func (a *app) release(gw provider.Gateway) {
	c, ok := gw.(io.Closer)
	if !ok {
		return
	}
	if err := c.Close(); err != nil {
		a.logger.Warn("close gateway", slog.Any("error", err))
	}
}

func (a *app) logUsage(tracker *model.CostTracker) {
	total := tracker.TotalUsage()
	a.logger.Info("usage",
		slog.Int("requests", total.Requests),
		slog.Int("input_tokens", total.InputTokens),
		slog.Int("output_tokens", total.OutputTokens),
		slog.Float64("estimated_cost_usd", tracker.EstimatedCost()))
}

func newLogger(w io.Writer, format, level string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid --log-level %q", level)
	}
	opts := &slog.HandlerOptions{Level: lvl}
	switch strings.ToLower(format) {
	case "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("invalid --log-format %q: want text or json", format)
	}
}
