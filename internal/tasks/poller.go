package tasks

import (
	"context"
	"errors"
	"time"

	"spotlike/internal/auth"
	"spotlike/internal/services"
	"spotlike/internal/shared"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"
)

// NowPlayingUpdate is emitted whenever the playing track changes. Track is
// nil when playback stopped; Err carries a sampling failure.
type NowPlayingUpdate struct {
	Track *services.Track
	Err   error
}

// Poller samples the currently playing track on an interval and emits change
// events. Samples serialize on the session lock with user-triggered actions,
// and a rate limiter caps the request rate even when ticks pile up after a
// machine resumes from sleep.
type Poller struct {
	client   services.LibraryClient
	auth     *auth.Manager
	interval time.Duration
	limiter  *rate.Limiter
	logger   *log.Logger
}

// NewPoller creates a Poller. A non-positive interval defaults to 2 seconds;
// a non-positive rate defaults to 1 request per second.
func NewPoller(client services.LibraryClient, authMgr *auth.Manager, interval time.Duration, perSecond float64, logger *log.Logger) *Poller {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	if perSecond <= 0 {
		perSecond = 1
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Poller{
		client:   client,
		auth:     authMgr,
		interval: interval,
		limiter:  rate.NewLimiter(rate.Limit(perSecond), 1),
		logger:   logger,
	}
}

// Run starts sampling until ctx is cancelled. The returned channel is closed
// when the poller stops; consecutive samples of the same track are deduplicated.
func (p *Poller) Run(ctx context.Context) <-chan NowPlayingUpdate {
	updates := make(chan NowPlayingUpdate, 1)

	go func() {
		defer close(updates)

		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()

		var lastID string
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}

			if !p.limiter.Allow() {
				continue
			}

			track, err := p.sample(ctx)
			switch {
			case err == nil:
				if track.ID == lastID {
					continue
				}
				lastID = track.ID
				p.logger.Info("now playing", "track", track.Name, "artist", track.Artist)
				emit(ctx, updates, NowPlayingUpdate{Track: track})
			case errors.Is(err, shared.ErrNoCurrentTrack):
				if lastID == "" {
					continue
				}
				lastID = ""
				p.logger.Info("playback stopped")
				emit(ctx, updates, NowPlayingUpdate{})
			case ctx.Err() != nil:
				return
			default:
				p.logger.Warn("now-playing sample failed", "error", err)
				emit(ctx, updates, NowPlayingUpdate{Err: err})
			}
		}
	}()

	return updates
}

// sample reads the currently playing track under the session lock.
func (p *Poller) sample(ctx context.Context) (*services.Track, error) {
	var track *services.Track
	err := p.auth.WithSession(ctx, func(ctx context.Context) error {
		playing, err := p.client.CurrentlyPlaying(ctx)
		if err != nil {
			return err
		}
		track = playing
		return nil
	})
	return track, err
}

func emit(ctx context.Context, ch chan<- NowPlayingUpdate, update NowPlayingUpdate) {
	select {
	case ch <- update:
	case <-ctx.Done():
	}
}
