package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/tagkit/model"
)

func newHypernymsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "hypernyms TAG...",
		Short: "Print a broader category for each tag",
		Long:  "Prints one tab-separated line per tag: the tag and its hypernym, empty when none was accepted.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
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

			hypernyms := ex.Hypernyms(cmd.Context(), args)
			a.logUsage(tracker)
			for i, tag := range args {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", tag, hypernyms[i])
			}
			return nil
		},
	}
}
