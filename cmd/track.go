package main

import (
	"context"
	"errors"

	"spotlike/internal/formatter"
	"spotlike/internal/shared"
	"spotlike/internal/tasks"

	"github.com/urfave/cli/v3"
)

// TrackCurrent shows the currently playing track.
func (r *Runner) TrackCurrent(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireClient(); err != nil {
		return err
	}

	track, err := r.engine.CurrentTrack(ctx)
	if err != nil {
		if errors.Is(err, shared.ErrNoCurrentTrack) {
			return r.writePlain("Nothing playing\n")
		}
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(track, cmd.Bool("pretty"))
	}

	r.writePlain("♪ %s\n", formatter.FormatTrack(track))
	r.writePlain("  ID:  %s\n", track.ID)
	r.writePlain("  URI: %s\n", track.URI)
	return nil
}

// TrackLike adds the currently playing track to the library, verified.
func (r *Runner) TrackLike(ctx context.Context, cmd *cli.Command) error {
	return r.runAction(ctx, cmd, tasks.ActionLike)
}

// TrackUnlike removes the currently playing track from the library, verified.
func (r *Runner) TrackUnlike(ctx context.Context, cmd *cli.Command) error {
	return r.runAction(ctx, cmd, tasks.ActionUnlike)
}

// TrackSave saves the currently playing track, verified.
func (r *Runner) TrackSave(ctx context.Context, cmd *cli.Command) error {
	return r.runAction(ctx, cmd, tasks.ActionSave)
}

// runAction dispatches a verified library mutation and renders its outcome.
// A verification timeout still prints the partial outcome before the error
// propagates, since the write may land after the budget ran out.
func (r *Runner) runAction(ctx context.Context, cmd *cli.Command, action string) error {
	if err := r.requireClient(); err != nil {
		return err
	}

	var result *tasks.ActionResult
	var err error
	switch action {
	case tasks.ActionUnlike:
		result, err = r.engine.UnlikeCurrent(ctx)
	case tasks.ActionSave:
		result, err = r.engine.SaveCurrent(ctx)
	default:
		result, err = r.engine.LikeCurrent(ctx)
	}

	if errors.Is(err, shared.ErrNoCurrentTrack) {
		return r.writePlain("Nothing playing, no track to %s\n", action)
	}

	if result != nil && cmd.Bool("json") {
		if writeErr := r.writeJSON(result, cmd.Bool("pretty")); writeErr != nil {
			return writeErr
		}
		return err
	}

	if err != nil {
		if result != nil && errors.Is(err, shared.ErrVerificationTimeout) {
			r.writePlain("⚠ %s %q by %s: %s\n", result.Action, result.Track.Name, result.Track.Artist, formatter.FormatOutcome(result.Outcome))
		}
		return err
	}

	return r.writePlain("✓ %s %q by %s: %s\n", result.Action, result.Track.Name, result.Track.Artist, formatter.FormatOutcome(result.Outcome))
}
