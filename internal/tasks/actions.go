package tasks

import (
	"context"
	"fmt"

	"spotlike/internal/auth"
	"spotlike/internal/repositories"
	"spotlike/internal/services"
	"spotlike/internal/shared"
	"spotlike/internal/verify"

	"github.com/charmbracelet/log"
)

// Action names recorded in the history and reported to callers.
const (
	ActionLike   = "like"
	ActionUnlike = "unlike"
	ActionSave   = "save"
)

// ActionResult is returned to the caller for notification display: the track
// that was acted on plus the verification outcome.
type ActionResult struct {
	Track   services.Track
	Action  string
	Outcome verify.Outcome
}

// HistoryRecorder records completed actions. Satisfied by
// [repositories.HistoryRepository]; nil disables recording.
type HistoryRecorder interface {
	Create(entry *repositories.HistoryEntry) error
}

// ActionEngine performs verified library mutations on the currently playing
// track. All remote calls go through the auth manager's session lock, so at
// most one mutation is in flight at a time.
type ActionEngine struct {
	client  services.LibraryClient
	auth    *auth.Manager
	policy  verify.Policy
	history HistoryRecorder
	logger  *log.Logger
}

// NewActionEngine creates an ActionEngine. history may be nil.
func NewActionEngine(client services.LibraryClient, authMgr *auth.Manager, policy verify.Policy, history HistoryRecorder, logger *log.Logger) *ActionEngine {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &ActionEngine{
		client:  client,
		auth:    authMgr,
		policy:  policy,
		history: history,
		logger:  logger,
	}
}

// CurrentTrack returns the currently playing track with a normalized ID.
func (e *ActionEngine) CurrentTrack(ctx context.Context) (*services.Track, error) {
	var track *services.Track
	err := e.auth.WithSession(ctx, func(ctx context.Context) error {
		playing, err := e.client.CurrentlyPlaying(ctx)
		if err != nil {
			return err
		}

		id, err := services.ParseTrackID(playing.ID)
		if err != nil {
			return err
		}
		playing.ID = id

		track = playing
		return nil
	})
	if err != nil {
		return nil, err
	}
	return track, nil
}

// LikeCurrent adds the currently playing track to the library and verifies
// the change converged.
func (e *ActionEngine) LikeCurrent(ctx context.Context) (*ActionResult, error) {
	return e.setMembership(ctx, true, ActionLike)
}

// UnlikeCurrent removes the currently playing track from the library and
// verifies the change converged.
func (e *ActionEngine) UnlikeCurrent(ctx context.Context) (*ActionResult, error) {
	return e.setMembership(ctx, false, ActionUnlike)
}

// SaveCurrent is the "save" alias for adding the currently playing track.
// The desired state stays a plain membership bool underneath, so the alias
// costs nothing if the provider ever distinguishes the two.
func (e *ActionEngine) SaveCurrent(ctx context.Context) (*ActionResult, error) {
	return e.setMembership(ctx, true, ActionSave)
}

// setMembership resolves the current track, issues the membership write, then
// polls the membership read until the remote state converges.
func (e *ActionEngine) setMembership(ctx context.Context, desired bool, action string) (*ActionResult, error) {
	result := &ActionResult{Action: action}

	err := e.auth.WithSession(ctx, func(ctx context.Context) error {
		playing, err := e.client.CurrentlyPlaying(ctx)
		if err != nil {
			return err
		}

		id, err := services.ParseTrackID(playing.ID)
		if err != nil {
			return err
		}
		playing.ID = id
		result.Track = *playing

		e.logger.Info("applying library change",
			"action", action, "track", playing.Name, "artist", playing.Artist, "id", id)

		write := func(ctx context.Context) error {
			if desired {
				return e.client.SaveTracks(ctx, id)
			}
			return e.client.RemoveSavedTracks(ctx, id)
		}
		read := func(ctx context.Context) (bool, error) {
			contained, err := e.client.ContainsSavedTracks(ctx, id)
			if err != nil {
				return false, err
			}
			return contained[0], nil
		}

		if err := write(ctx); err != nil {
			return fmt.Errorf("library write failed: %w", err)
		}

		e.logger.Info("write accepted, starting verification", "action", action)

		outcome, err := verify.Converge(ctx, desired, write, read, e.policy, e.logger)
		result.Outcome = outcome
		if err != nil {
			return err
		}
		return nil
	})

	if result.Track.ID != "" {
		e.record(result)
	}
	if err != nil {
		return nil, err
	}

	if !result.Outcome.Converged {
		return result, fmt.Errorf("%w: %s of %q after %d attempts",
			shared.ErrVerificationTimeout, action, result.Track.Name, result.Outcome.Attempts)
	}

	return result, nil
}

// record persists the action outcome, best effort.
func (e *ActionEngine) record(result *ActionResult) {
	if e.history == nil {
		return
	}

	entry := &repositories.HistoryEntry{
		TrackID:   result.Track.ID,
		TrackName: result.Track.Name,
		Artist:    result.Track.Artist,
		Action:    result.Action,
		Converged: result.Outcome.Converged,
		Attempts:  result.Outcome.Attempts,
		Elapsed:   result.Outcome.Elapsed,
	}
	if err := e.history.Create(entry); err != nil {
		e.logger.Warn("failed to record action history", "error", err)
	}
}
