// package services defines interfaces for interacting with the streaming provider's HTTP API
package services

import (
	"context"

	"golang.org/x/oauth2"
)

// Track represents the currently playing track with its canonical identifier.
type Track struct {
	ID     string // Canonical 22-character track identifier
	Name   string
	Artist string
	Album  string
	URI    string
}

// LibraryClient defines the authenticated library operations consumed by the
// action engine and the now-playing poller.
type LibraryClient interface {
	// CurrentlyPlaying returns the track currently playing on the user's
	// active device, or shared.ErrNoCurrentTrack when nothing is playing.
	CurrentlyPlaying(ctx context.Context) (*Track, error)

	// SaveTracks adds the given track IDs to the user's library.
	SaveTracks(ctx context.Context, ids ...string) error

	// RemoveSavedTracks removes the given track IDs from the user's library.
	RemoveSavedTracks(ctx context.Context, ids ...string) error

	// ContainsSavedTracks reports library membership for each given track ID,
	// in order.
	ContainsSavedTracks(ctx context.Context, ids ...string) ([]bool, error)
}

// SessionClient defines the token lifecycle operations driven by the auth package.
type SessionClient interface {
	// GetAuthURL returns the OAuth2 authorization URL for user login.
	GetAuthURL(state string) string

	// Exchange trades an authorization code for a token pair.
	Exchange(ctx context.Context, code string) (*oauth2.Token, error)

	// Refresh obtains a fresh token pair using the refresh token.
	Refresh(ctx context.Context, tok *oauth2.Token) (*oauth2.Token, error)

	// Probe makes a lightweight authenticated call to test the installed token.
	Probe(ctx context.Context) error

	// SetToken installs a token into the live client.
	SetToken(tok *oauth2.Token)
}

// Client combines the library and session capabilities of a single provider.
type Client interface {
	LibraryClient
	SessionClient

	// Name returns the name of the provider (e.g., "Spotify")
	Name() string
}
