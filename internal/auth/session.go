package auth

import (
	"time"

	"spotlike/internal/services"

	"golang.org/x/oauth2"
)

// expiryLeeway is how early a token is treated as expired so it is refreshed
// before an in-flight call can race its actual expiry.
const expiryLeeway = 30 * time.Second

// Session is the live in-memory authenticated handle wrapping the current
// token and the client it is installed into. It is owned exclusively by
// [Manager] and never persisted; only its token is.
type Session struct {
	client services.SessionClient
	token  *oauth2.Token
}

// NewSession creates an unauthenticated session bound to the given client.
func NewSession(client services.SessionClient) *Session {
	return &Session{client: client}
}

// Install replaces the session's token and installs it into the live client.
//
// Loading a token from disk and installing it into the active session are
// deliberately distinct steps.
func (s *Session) Install(tok *oauth2.Token) {
	s.token = tok
	s.client.SetToken(tok)
}

// Token returns the currently installed token, or nil.
func (s *Session) Token() *oauth2.Token {
	return s.token
}

// Valid reports whether the installed token is structurally usable and not
// within the expiry leeway.
func (s *Session) Valid() bool {
	if s.token == nil || s.token.AccessToken == "" {
		return false
	}
	if s.token.Expiry.IsZero() {
		return true
	}
	return time.Now().Add(expiryLeeway).Before(s.token.Expiry)
}

// Complete reports whether the installed token can outlive its access token,
// i.e. carries a refresh token.
func (s *Session) Complete() bool {
	return s.token != nil && s.token.AccessToken != "" && s.token.RefreshToken != ""
}
