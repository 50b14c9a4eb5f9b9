package main

import (
	"github.com/spf13/cobra"

	"github.com/JaimeStill/quill/internal/comparisons"
)

func newCompareCmd(a *app) *cobra.Command {
	var baselinePath, followupPath, outPath string

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare a followup analysis against a baseline",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			analyses, err := readEach(cmd.Context(), []string{baselinePath, followupPath}, readAnalysis)
			if err != nil {
				return err
			}
			baseline, followup := analyses[0], analyses[1]

			result, err := comparisons.New(a.runtime(), a.logger).Compare(
				cmd.Context(),
				comparisons.CompareRequest{Baseline: baseline, Followup: followup},
			)
			if err != nil {
				return err
			}

			return writeJSON(cmd, outPath, result)
		},
	}

	cmd.Flags().StringVar(&baselinePath, "baseline", "", "earlier analysis or run JSON")
	cmd.Flags().StringVar(&followupPath, "followup", "", "later analysis or run JSON")
	cmd.Flags().StringVar(&outPath, "out", "", "write the comparison to this file instead of stdout")
	cmd.MarkFlagRequired("baseline")
	cmd.MarkFlagRequired("followup")

	return cmd
}
