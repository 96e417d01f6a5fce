package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/tagkit/model"
	"github.com/randalmurphal/tagkit/tagging"
)

func newExtractCmd(a *app) *cobra.Command {
	var (
		title string
		file  string
		tier  string
		trace bool
	)
	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Extract tags from one document",
		Long: `Reads a document body from --file or standard input and prints one tag per line.
With --trace the full result, including every tier attempt, is printed as JSON.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			start := a.file.Tagging.StartTier
			if tier != "" {
				t, err := model.ParseTier(tier)
				if err != nil {
					return err
				}
				start = t
			}

			body, err := readBody(cmd.InOrStdin(), file)
			if err != nil {
				return err
			}

			gw, err := a.gateway()
			if err != nil {
				return err
			}
			defer a.release(gw)
			tracker := model.NewCostTracker(nil)
			ex, err := a.extractor(gw, a.file.Tagging, tracker)
			if err != nil {
				return err
			}

			res := ex.ExtractWithTrace(cmd.Context(), tagging.Document{Title: title, Body: body}, start)
			a.logUsage(tracker)

			out := cmd.OutOrStdout()
			if trace {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(res)
			}
			for _, tag := range res.Tags {
				fmt.Fprintln(out, tag)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&title, "title", "t", "", "Document title")
	cmd.Flags().StringVarP(&file, "file", "f", "", "Read the body from this file instead of stdin")
	cmd.Flags().StringVar(&tier, "tier", "", "Start tier: fast, default, strong, max or 0-3 (default from config)")
	cmd.Flags().BoolVar(&trace, "trace", false, "Print the result with its attempt trace as JSON")
	return cmd
}

func readBody(stdin io.Reader, path string) (string, error) {
	if path != "" && path != "-" {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("read document: %w", err)
		}
		return string(data), nil
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return string(data), nil
}
