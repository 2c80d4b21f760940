package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"spotlike/internal/services"
	"spotlike/internal/shared"

	"github.com/charmbracelet/log"
	"golang.org/x/oauth2"
)

// Prompter is the interactive authentication boundary. The caller owns the
// presentation (terminal prompt, browser launch); the manager only produces an
// authorization URL and consumes a pasted-back redirect URL.
type Prompter interface {
	// ShowAuthURL presents the authorization URL to the user.
	ShowAuthURL(url string) error

	// AwaitRedirectURL blocks until the user provides the redirect URL they
	// landed on after approving access.
	AwaitRedirectURL(ctx context.Context) (string, error)
}

// Manager owns the authenticated session and its token lifecycle.
//
// All authenticated remote calls must go through [Manager.WithSession], which
// holds the session lock for the duration of the call, including the validity
// check immediately preceding it. The interactive flow never blocks the
// session lock while waiting on user input.
type Manager struct {
	mu      sync.Mutex // guards session across validity check + API call
	session *Session

	cache    *TokenCache
	client   services.SessionClient
	prompter Prompter
	logger   *log.Logger

	authMu sync.Mutex // single-flight guard for the interactive flow
}

// NewManager creates a Manager bound to the given client, token cache, and
// interactive prompter.
func NewManager(client services.SessionClient, cache *TokenCache, prompter Prompter, logger *log.Logger) *Manager {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Manager{
		session:  NewSession(client),
		cache:    cache,
		client:   client,
		prompter: prompter,
		logger:   logger,
	}
}

// Token returns the session's current token, or nil when unauthenticated.
func (m *Manager) Token() *oauth2.Token {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session.Token()
}

// EnsureAuthenticated establishes a usable session: cached token if one
// validates, refresh if it expired, interactive authorization otherwise.
func (m *Manager) EnsureAuthenticated(ctx context.Context) error {
	m.mu.Lock()
	if m.session.Valid() && m.session.Complete() {
		m.mu.Unlock()
		return nil
	}

	ok, err := m.tryCachedTokenLocked(ctx)
	m.mu.Unlock()
	if err != nil {
		return err
	}
	if ok {
		return nil
	}

	return m.authenticateInteractive(ctx)
}

// tryCachedTokenLocked attempts to establish the session from the persisted
// record. Returns (false, nil) when the interactive flow is required. Callers
// must hold m.mu.
func (m *Manager) tryCachedTokenLocked(ctx context.Context) (bool, error) {
	tok, err := m.cache.Load()
	if err != nil {
		if errors.Is(err, shared.ErrCorruptTokenCache) {
			m.logger.Warn("token cache is corrupt, re-authenticating", "error", err)
			return false, nil
		}
		return false, err
	}
	if tok == nil {
		m.logger.Info("no cached token found")
		return false, nil
	}

	if tok.AccessToken == "" || tok.RefreshToken == "" {
		m.logger.Warn("cached token is incomplete, re-authenticating")
		return false, nil
	}

	m.session.Install(tok)

	if !m.session.Valid() {
		m.logger.Info("cached token expired, refreshing")
		return m.refreshLocked(ctx)
	}

	if err := m.client.Probe(ctx); err != nil {
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		m.logger.Warn("cached token rejected, attempting refresh", "error", err)
		return m.refreshLocked(ctx)
	}

	m.logger.Info("cached token is valid")
	return true, nil
}

// refreshLocked refreshes the session's token and persists the result.
// Returns (false, nil) when refresh fails and the interactive flow is
// required. Callers must hold m.mu.
func (m *Manager) refreshLocked(ctx context.Context) (bool, error) {
	fresh, err := m.client.Refresh(ctx, m.session.Token())
	if err != nil {
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		m.logger.Warn("token refresh failed", "error", err)
		return false, nil
	}

	m.session.Install(fresh)
	if err := m.cache.Save(fresh); err != nil {
		return false, fmt.Errorf("failed to persist refreshed token: %w", err)
	}

	m.logger.Info("token refreshed")
	return true, nil
}

// WithSession runs fn with exclusive access to the authenticated session,
// refreshing the token first when it has expired. A refresh failure surfaces
// as [shared.ErrAuthFailed]; the next action re-runs the authentication path.
func (m *Manager) WithSession(ctx context.Context, fn func(ctx context.Context) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.session.Token() == nil {
		return shared.ErrNotAuthenticated
	}

	if !m.session.Valid() {
		ok, err := m.refreshLocked(ctx)
		if err != nil {
			return err
		}
		if !ok {
			m.session.Install(nil)
			return fmt.Errorf("%w: token expired and refresh failed", shared.ErrAuthFailed)
		}
	}

	return fn(ctx)
}

// ForceReauthenticate clears the persisted record and re-runs the interactive
// flow regardless of the current session state.
func (m *Manager) ForceReauthenticate(ctx context.Context) error {
	m.mu.Lock()
	m.session.Install(nil)
	m.mu.Unlock()

	if err := m.cache.Clear(); err != nil {
		return err
	}
	m.logger.Info("cleared token cache, forcing fresh authentication")

	return m.authenticateInteractive(ctx)
}

// authenticateInteractive drives the authorization-code flow: present the
// authorization URL, await the pasted redirect URL, exchange the code, persist
// the grant. Only one interactive flow may be in progress at a time; re-entrant
// attempts fail with [shared.ErrAuthInProgress].
func (m *Manager) authenticateInteractive(ctx context.Context) error {
	if !m.authMu.TryLock() {
		return shared.ErrAuthInProgress
	}
	defer m.authMu.Unlock()

	// Drop any stale record so a crash mid-flow cannot resurrect it.
	if err := m.cache.Clear(); err != nil {
		m.logger.Warn("failed to clear token cache", "error", err)
	}

	state, err := shared.GenerateState()
	if err != nil {
		return err
	}

	if err := m.prompter.ShowAuthURL(m.client.GetAuthURL(state)); err != nil {
		return fmt.Errorf("failed to present authorization URL: %w", err)
	}

	// Blocks on user input; the session lock is deliberately not held here so
	// concurrent read-only callers are not stalled behind the prompt.
	raw, err := m.prompter.AwaitRedirectURL(ctx)
	if err != nil {
		return err
	}

	code, err := ParseRedirectURL(raw)
	if err != nil {
		return err
	}

	tok, err := m.client.Exchange(ctx, code)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
	}

	if tok.RefreshToken == "" {
		return shared.ErrIncompleteGrant
	}

	if err := m.cache.Save(tok); err != nil {
		return fmt.Errorf("failed to persist token: %w", err)
	}

	m.mu.Lock()
	m.session.Install(tok)
	m.mu.Unlock()

	m.logger.Info("authentication successful, token cached")
	return nil
}
