package main

import (
	"context"
	"fmt"

	"spotlike/internal/shared"
	"spotlike/internal/tasks"
	"spotlike/internal/ui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"
)

// UI launches the interactive now-playing view.
func (r *Runner) UI(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireClient(); err != nil {
		return err
	}

	// Authenticate before the view owns the terminal; the interactive flow
	// needs the prompt.
	if err := r.authMgr.EnsureAuthenticated(ctx); err != nil {
		return err
	}

	// Redirect logs to file to avoid interfering with the view's rendering
	fileLogger, err := shared.NewFileLogger("./tmp/spotlike-ui.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	poller := tasks.NewPoller(r.client, r.authMgr, r.config.Poller.Interval(), r.config.Poller.RatePerSecond, fileLogger)
	updates := poller.Run(ctx)

	model := ui.NewModel(ctx, r.engine, updates)
	p := tea.NewProgram(model)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running interactive view: %w", err)
	}

	return nil
}
