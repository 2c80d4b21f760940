// Spotify API implementation of [Client]
//
// Spotify API response types based on https://developer.spotify.com/documentation/web-api/reference/
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"spotlike/internal/shared"

	"golang.org/x/oauth2"
)

const (
	spotifyAuthURL  = "https://accounts.spotify.com/authorize"
	spotifyTokenURL = "https://accounts.spotify.com/api/token"
	spotifyBaseURL  = "https://api.spotify.com/v1"
)

// SpotifyUser represents a Spotify user profile.
type SpotifyUser struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Product     string `json:"product"` // premium, free, etc.
}

// SpotifyArtist represents a Spotify artist.
type SpotifyArtist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URI  string `json:"uri"`
}

// SpotifyAlbum represents a Spotify album.
type SpotifyAlbum struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URI  string `json:"uri"`
}

// SpotifyTrack represents a Spotify track.
type SpotifyTrack struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Artists    []SpotifyArtist `json:"artists"`
	Album      SpotifyAlbum    `json:"album"`
	DurationMS int             `json:"duration_ms"`
	URI        string          `json:"uri"`
}

// SpotifyCurrentlyPlaying represents the playback state response.
type SpotifyCurrentlyPlaying struct {
	Item       *SpotifyTrack `json:"item"`
	IsPlaying  bool          `json:"is_playing"`
	ProgressMS int           `json:"progress_ms"`
}

// SpotifyService implements the [Client] interface for Spotify API interactions.
// Uses [oauth2] for authentication and provides methods for playback and saved-track operations.
type SpotifyService struct {
	config     *oauth2.Config
	httpClient *http.Client

	mu    sync.Mutex
	token *oauth2.Token
}

// NewSpotifyService creates a new Spotify service with the given OAuth2 credentials.
func NewSpotifyService(credentials map[string]string) (*SpotifyService, error) {
	clientID, ok := credentials["client_id"]
	if !ok || clientID == "" {
		return nil, fmt.Errorf("%w: missing client_id", shared.ErrMissingCredentials)
	}

	clientSecret, ok := credentials["client_secret"]
	if !ok || clientSecret == "" {
		return nil, fmt.Errorf("%w: missing client_secret", shared.ErrMissingCredentials)
	}

	redirectURI, ok := credentials["redirect_uri"]
	if !ok || redirectURI == "" {
		redirectURI = "http://127.0.0.1:8888/callback"
	}

	config := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURI,
		Scopes: []string{
			"user-read-currently-playing",
			"user-read-playback-state",
			"user-library-modify",
			"user-library-read",
			"user-read-private",
		},
		Endpoint: oauth2.Endpoint{
			AuthURL:  spotifyAuthURL,
			TokenURL: spotifyTokenURL,
		},
	}

	return &SpotifyService{
		config:     config,
		httpClient: http.DefaultClient,
	}, nil
}

func (s *SpotifyService) Name() string {
	return "Spotify"
}

// GetAuthURL returns the OAuth2 authorization URL for user login.
func (s *SpotifyService) GetAuthURL(state string) string {
	return s.config.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

// SetToken installs a token into the live client.
//
// Loading a token from disk and installing it here are distinct steps; the
// auth package owns the ordering.
func (s *SpotifyService) SetToken(tok *oauth2.Token) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = tok
}

// Token returns the currently installed token, or nil.
func (s *SpotifyService) Token() *oauth2.Token {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// Exchange trades an authorization code for a token pair.
func (s *SpotifyService) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	token, err := s.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange auth code: %w", err)
	}
	return token, nil
}

// Refresh obtains a fresh token pair using the refresh token carried by tok.
func (s *SpotifyService) Refresh(ctx context.Context, tok *oauth2.Token) (*oauth2.Token, error) {
	if tok == nil || tok.RefreshToken == "" {
		return nil, shared.ErrNoRefreshToken
	}

	// Force a refresh regardless of the token's own expiry bookkeeping.
	stale := &oauth2.Token{RefreshToken: tok.RefreshToken}
	fresh, err := s.config.TokenSource(ctx, stale).Token()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrRefreshFailed, err)
	}

	// Spotify omits the refresh token from refresh responses; carry it forward.
	if fresh.RefreshToken == "" {
		fresh.RefreshToken = tok.RefreshToken
	}

	return fresh, nil
}

// Probe makes a lightweight authenticated call to test the installed token.
func (s *SpotifyService) Probe(ctx context.Context) error {
	_, err := s.CurrentUser(ctx)
	return err
}

// CurrentUser retrieves the current authenticated user's profile.
func (s *SpotifyService) CurrentUser(ctx context.Context) (*SpotifyUser, error) {
	var user SpotifyUser
	if err := s.doRequest(ctx, http.MethodGet, "/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// CurrentlyPlaying returns the track currently playing on the user's active device.
func (s *SpotifyService) CurrentlyPlaying(ctx context.Context) (*Track, error) {
	var playing SpotifyCurrentlyPlaying
	if err := s.doRequest(ctx, http.MethodGet, "/me/player/currently-playing", nil, &playing); err != nil {
		return nil, err
	}

	// A 204 leaves the response empty; a playing episode leaves item null.
	if playing.Item == nil || playing.Item.ID == "" {
		return nil, shared.ErrNoCurrentTrack
	}

	track := &Track{
		ID:   playing.Item.ID,
		Name: playing.Item.Name,
		URI:  fmt.Sprintf("spotify:track:%s", playing.Item.ID),
	}
	if len(playing.Item.Artists) > 0 {
		track.Artist = playing.Item.Artists[0].Name
	}
	if playing.Item.Album.Name != "" {
		track.Album = playing.Item.Album.Name
	}

	return track, nil
}

// SaveTracks adds the given track IDs to the user's library.
func (s *SpotifyService) SaveTracks(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return fmt.Errorf("%w: no track IDs provided", shared.ErrMissingArgument)
	}
	body := map[string][]string{"ids": ids}
	return s.doRequest(ctx, http.MethodPut, "/me/tracks", body, nil)
}

// RemoveSavedTracks removes the given track IDs from the user's library.
func (s *SpotifyService) RemoveSavedTracks(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return fmt.Errorf("%w: no track IDs provided", shared.ErrMissingArgument)
	}
	body := map[string][]string{"ids": ids}
	return s.doRequest(ctx, http.MethodDelete, "/me/tracks", body, nil)
}

// ContainsSavedTracks reports library membership for each given track ID, in order.
func (s *SpotifyService) ContainsSavedTracks(ctx context.Context, ids ...string) ([]bool, error) {
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: no track IDs provided", shared.ErrMissingArgument)
	}
	if len(ids) > 50 {
		return nil, fmt.Errorf("%w: maximum 50 track IDs allowed", shared.ErrInvalidArgument)
	}

	endpoint := fmt.Sprintf("/me/tracks/contains?ids=%s", url.QueryEscape(strings.Join(ids, ",")))

	var contained []bool
	if err := s.doRequest(ctx, http.MethodGet, endpoint, nil, &contained); err != nil {
		return nil, err
	}

	if len(contained) != len(ids) {
		return nil, fmt.Errorf("%w: expected %d membership flags, got %d", shared.ErrAPIRequest, len(ids), len(contained))
	}

	return contained, nil
}

// doRequest performs an authenticated HTTP request to the Spotify API.
func (s *SpotifyService) doRequest(ctx context.Context, method, endpoint string, body any, result any) error {
	tok := s.Token()
	if tok == nil {
		return fmt.Errorf("%w: no token installed", shared.ErrNotAuthenticated)
	}

	apiURL := spotifyBaseURL + endpoint

	var reqBody *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, apiURL, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+tok.AccessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return fmt.Errorf("%w: status %d", shared.ErrTokenExpired, resp.StatusCode)
	case resp.StatusCode == http.StatusNoContent:
		return nil
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return fmt.Errorf("%w: status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}
