package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/JaimeStill/quill/internal/evaluations"
)

func newFilterCmd(a *app) *cobra.Command {
	var exportPath, outPath string

	cmd := &cobra.Command{
		Use:   "filter",
		Short: "Apply the local writing-task heuristic to an export",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			msgs, err := readExport(exportPath)
			if err != nil {
				return err
			}

			sys := evaluations.New(a.runtime(), a.logger)
			result, err := sys.Filter(cmd.Context(), evaluations.EvaluateRequest{Messages: msgs})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.ErrOrStderr(), "kept %d of %d messages across %d conversations\n",
				result.Kept, result.Input, result.Range.Conversations)

			return writeJSON(cmd, outPath, result)
		},
	}

	cmd.Flags().StringVar(&exportPath, "export", "", "chat export file (conversations.json)")
	cmd.Flags().StringVar(&outPath, "out", "", "write JSON to this file instead of stdout")
	cmd.MarkFlagRequired("export")

	return cmd
}

func newEvaluateCmd(a *app) *cobra.Command {
	var (
		exportPath, outPath string
		maxMessages         int
	)

	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Score the writing in an export and summarize recurring issues",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			msgs, err := readExport(exportPath)
			if err != nil {
				return err
			}

			sys := evaluations.New(a.runtime(), a.logger)
			run, err := sys.Evaluate(
				cmd.Context(),
				evaluations.EvaluateRequest{Messages: msgs, MaxMessages: maxMessages},
				progress(cmd),
			)
			if err != nil {
				return err
			}

			s := run.Analysis.Summary
			fmt.Fprintf(cmd.ErrOrStderr(), "evaluated %d messages: grammar %.2f, punctuation %.2f, tone %.2f\n",
				run.Counts.Evaluated, s.AvgGrammarScore, s.AvgPunctuationScore, s.AvgToneScore)

			return writeJSON(cmd, outPath, run)
		},
	}

	cmd.Flags().StringVar(&exportPath, "export", "", "chat export file (conversations.json)")
	cmd.Flags().StringVar(&outPath, "out", "", "write the run to this file instead of stdout")
	cmd.Flags().IntVar(&maxMessages, "max", 0, "evaluate at most this many recent messages (default from config)")
	cmd.MarkFlagRequired("export")

	return cmd
}
