package main

import (
	"context"
	"os/signal"
	"syscall"

	"spotlike/internal/tasks"

	"github.com/urfave/cli/v3"
)

// Run watches playback and logs now-playing transitions until interrupted.
// This is the headless surface for callers that want events without a
// terminal view.
func (r *Runner) Run(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireClient(); err != nil {
		return err
	}

	if err := r.authMgr.EnsureAuthenticated(ctx); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	poller := tasks.NewPoller(r.client, r.authMgr, r.config.Poller.Interval(), r.config.Poller.RatePerSecond, r.logger)
	updates := poller.Run(ctx)

	r.writePlain("→ Watching playback (Ctrl+C to stop)...\n")

	for update := range updates {
		if update.Err != nil {
			r.logger.Warn("now-playing poll failed", "error", update.Err)
			continue
		}
		if update.Track == nil {
			r.writePlain("⏹ Playback stopped\n")
			continue
		}
		r.writePlain("♪ %s - %s\n", update.Track.Name, update.Track.Artist)
	}

	r.writePlain("✓ Stopped\n")
	return nil
}
