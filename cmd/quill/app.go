package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/JaimeStill/quill/internal/config"
	"github.com/JaimeStill/quill/internal/infrastructure"
	"github.com/JaimeStill/quill/internal/messages"
	"github.com/JaimeStill/quill/internal/workflow"
)

// app holds state shared by every subcommand: configuration, the
// infrastructure bound to the command's context, and output streams.
type app struct {
	configPath string
	verbose    bool

	cfg    *config.Config
	infra  *infrastructure.Infrastructure
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "quill",
		Short:         "Evaluate writing from chat history and practice the weak spots",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			return a.teardown()
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", config.BaseConfigFile, "path to config.toml")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "log at debug level")

	root.AddCommand(
		newFilterCmd(a),
		newEvaluateCmd(a),
		newPracticeCmd(a),
		newGradeCmd(a),
		newCompareCmd(a),
		newOpenAPICmd(a),
	)

	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.LoadFile(a.configPath)
	if err != nil {
		return err
	}

	level := slog.LevelWarn
	if a.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	infra, err := infrastructure.NewFromContext(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	if err := infra.Start(); err != nil {
		return err
	}
	infra.Lifecycle.WaitForStartup()

	a.cfg = cfg
	a.infra = infra
	a.logger = logger.With("module", "cli")
	return nil
}

func (a *app) teardown() error {
	if a.infra == nil {
		return nil
	}
	return a.infra.Lifecycle.Shutdown(a.cfg.ShutdownTimeoutDuration())
}

func (a *app) runtime() *workflow.Runtime {
	return a.infra.Runtime(a.logger)
}

// progress writes pipeline status lines to stderr so stdout stays JSON.
func progress(cmd *cobra.Command) workflow.Progress {
	return func(status string) {
		fmt.Fprintln(cmd.ErrOrStderr(), status)
	}
}

func readExport(path string) ([]messages.Message, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return messages.ParseExport(f)
}

func readJSON[T any](path string) (T, error) {
	var v T

	f, err := os.Open(path)
	if err != nil {
		return v, err
	}
	defer f.Close()

	if err := json.NewDecoder(f).Decode(&v); err != nil {
		return v, fmt.Errorf("decode %s: %w", path, err)
	}
	return v, nil
}

// readEach loads every path with read, concurrently, and returns the
// results in path order. The first failure cancels reads not yet started.
func readEach[T any](ctx context.Context, paths []string, read func(string) (T, error)) ([]T, error) {
	out := make([]T, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			v, err := read(path)
			if err != nil {
				return err
			}
			out[i] = v
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// writeJSON writes v as indented JSON to path, or to stdout when path is empty.
func writeJSON(cmd *cobra.Command, path string, v any) error {
	var w io.Writer = cmd.OutOrStdout()

	if path != "" {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
