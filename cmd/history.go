package main

import (
	"context"
	"fmt"

	"spotlike/internal/formatter"
	"spotlike/internal/shared"

	"github.com/urfave/cli/v3"
)

// History lists recorded library actions, newest first.
func (r *Runner) History(ctx context.Context, cmd *cli.Command) error {
	if r.history == nil {
		return fmt.Errorf("%w: history database unavailable, run 'spotlike setup database'", shared.ErrServiceUnavailable)
	}

	limit := cmd.Int("limit")

	entries, err := r.history.List(limit)
	if err != nil {
		return fmt.Errorf("failed to list history: %w", err)
	}

	if cmd.Bool("csv") {
		data, err := formatter.HistoryToCSV(entries)
		if err != nil {
			return fmt.Errorf("failed to render history: %w", err)
		}
		if _, err := r.output.Write(data); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}

	if len(entries) == 0 {
		return r.writePlain("No recorded actions yet\n")
	}

	if _, err := r.output.Write(formatter.HistoryToText(entries)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
