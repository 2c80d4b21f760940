// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"

	"spotlike/internal/services"
	"spotlike/internal/shared"

	"golang.org/x/oauth2"
)

// MockLibraryClient is a scriptable test double for [services.Client].
//
// Reads pop results off ContainsResults in order, repeating the final value
// once the script is exhausted. Write and read calls are counted so tests can
// assert on corrective re-issues.
type MockLibraryClient struct {
	mu sync.Mutex

	Playing    *services.Track
	PlayingErr error

	ContainsResults []bool
	ContainsErrs    []error
	ReadCalls       int

	SaveErr    error
	SaveCalls  int
	RemoveErr  error
	RmCalls    int
	ExchangeTk *oauth2.Token
	ExchErr    error
	RefreshTk  *oauth2.Token
	RefreshErr error
	ProbeErr   error

	token *oauth2.Token
}

func (m *MockLibraryClient) CurrentlyPlaying(ctx context.Context) (*services.Track, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.PlayingErr != nil {
		return nil, m.PlayingErr
	}
	if m.Playing == nil {
		return nil, shared.ErrNoCurrentTrack
	}
	track := *m.Playing
	return &track, nil
}

// SetPlaying swaps the scripted playback state, safe against a concurrent
// poller.
func (m *MockLibraryClient) SetPlaying(track *services.Track) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Playing = track
}

func (m *MockLibraryClient) SaveTracks(ctx context.Context, ids ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SaveCalls++
	return m.SaveErr
}

func (m *MockLibraryClient) RemoveSavedTracks(ctx context.Context, ids ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RmCalls++
	return m.RemoveErr
}

func (m *MockLibraryClient) ContainsSavedTracks(ctx context.Context, ids ...string) ([]bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.ReadCalls
	m.ReadCalls++

	if i < len(m.ContainsErrs) && m.ContainsErrs[i] != nil {
		return nil, m.ContainsErrs[i]
	}

	if len(m.ContainsResults) == 0 {
		return []bool{false}, nil
	}
	if i >= len(m.ContainsResults) {
		i = len(m.ContainsResults) - 1
	}
	return []bool{m.ContainsResults[i]}, nil
}

func (m *MockLibraryClient) GetAuthURL(state string) string {
	return "https://accounts.example.com/authorize?state=" + state
}

func (m *MockLibraryClient) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	return m.ExchangeTk, m.ExchErr
}

func (m *MockLibraryClient) Refresh(ctx context.Context, tok *oauth2.Token) (*oauth2.Token, error) {
	return m.RefreshTk, m.RefreshErr
}

func (m *MockLibraryClient) Probe(ctx context.Context) error {
	return m.ProbeErr
}

func (m *MockLibraryClient) SetToken(tok *oauth2.Token) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = tok
}

func (m *MockLibraryClient) InstalledToken() *oauth2.Token {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token
}

func (m *MockLibraryClient) Name() string { return "mock" }

// MockPrompter is a test double for the interactive authentication boundary.
type MockPrompter struct {
	ShownURL    string
	RedirectURL string
	AwaitErr    error
}

func (p *MockPrompter) ShowAuthURL(url string) error {
	p.ShownURL = url
	return nil
}

func (p *MockPrompter) AwaitRedirectURL(ctx context.Context) (string, error) {
	if p.AwaitErr != nil {
		return "", p.AwaitErr
	}
	return p.RedirectURL, nil
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
