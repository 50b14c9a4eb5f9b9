package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/JaimeStill/quill/internal/practice"
	"github.com/JaimeStill/quill/internal/workflow"
)

// readAnalysis accepts either a bare Analysis or a Run holding one.
func readAnalysis(path string) (*workflow.Analysis, error) {
	run, err := readJSON[workflow.Run](path)
	if err != nil {
		return nil, err
	}
	if run.Analysis != nil {
		return run.Analysis, nil
	}

	analysis, err := readJSON[workflow.Analysis](path)
	if err != nil {
		return nil, err
	}
	return &analysis, nil
}

func newPracticeCmd(a *app) *cobra.Command {
	var (
		analysisPath, outPath string
		difficulty            string
		session               int
		priorPaths            []string
	)

	cmd := &cobra.Command{
		Use:   "practice",
		Short: "Generate a practice session from an analysis",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			analysis, err := readAnalysis(analysisPath)
			if err != nil {
				return err
			}

			prior, err := readEach(cmd.Context(), priorPaths, readJSON[workflow.PracticeSession])
			if err != nil {
				return err
			}

			req := practice.SessionRequest{
				Analysis:      analysis,
				SessionNumber: session,
				Difficulty:    difficulty,
				PriorSessions: prior,
			}

			s, err := practice.New(a.runtime(), a.logger).NewSession(cmd.Context(), req)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.ErrOrStderr(), "session %d: %d questions on %v\n", s.SessionNumber, len(s.Questions), s.Focus)
			return writeJSON(cmd, outPath, s)
		},
	}

	cmd.Flags().StringVar(&analysisPath, "analysis", "", "analysis or run JSON from evaluate")
	cmd.Flags().IntVar(&session, "session", 1, "session number")
	cmd.Flags().StringVar(&difficulty, "difficulty", "", "beginner, intermediate, or advanced (default from config)")
	cmd.Flags().StringSliceVar(&priorPaths, "prior", nil, "earlier session files whose questions must not repeat")
	cmd.Flags().StringVar(&outPath, "out", "", "write the session to this file instead of stdout")
	cmd.MarkFlagRequired("analysis")

	return cmd
}

func newGradeCmd(a *app) *cobra.Command {
	var sessionPath, outPath string

	cmd := &cobra.Command{
		Use:   "grade",
		Short: "Grade a practice session with filled-in user_answers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			session, err := readJSON[workflow.PracticeSession](sessionPath)
			if err != nil {
				return err
			}

			graded, err := practice.New(a.runtime(), a.logger).Grade(cmd.Context(), &session)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.ErrOrStderr(), "score: %.0f%%\n", *graded.Score*100)
			return writeJSON(cmd, outPath, graded)
		},
	}

	cmd.Flags().StringVar(&sessionPath, "session", "", "practice session JSON")
	cmd.Flags().StringVar(&outPath, "out", "", "write the graded session to this file instead of stdout")
	cmd.MarkFlagRequired("session")

	return cmd
}
