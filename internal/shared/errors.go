package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")

	// Authentication errors
	ErrAuthFailed           = fmt.Errorf("authentication failed")
	ErrNotAuthenticated     = fmt.Errorf("not authenticated")
	ErrTokenExpired         = fmt.Errorf("access token expired")
	ErrRefreshFailed        = fmt.Errorf("token refresh failed")
	ErrNoRefreshToken       = fmt.Errorf("no refresh token available")
	ErrIncompleteGrant      = fmt.Errorf("authorization grant missing refresh token")
	ErrMissingAuthCode      = fmt.Errorf("no authorization code in redirect URL")
	ErrMalformedRedirectURL = fmt.Errorf("malformed redirect URL")
	ErrAuthInProgress       = fmt.Errorf("interactive authentication already in progress")
	ErrCorruptTokenCache    = fmt.Errorf("corrupt token cache")
	ErrTimeout              = fmt.Errorf("operation timed out")

	// API and service errors
	ErrAPIRequest          = fmt.Errorf("API request failed")
	ErrServiceUnavailable  = fmt.Errorf("service unavailable")
	ErrNoCurrentTrack      = fmt.Errorf("no track currently playing")
	ErrInvalidTrackID      = fmt.Errorf("invalid track identifier")
	ErrVerificationTimeout = fmt.Errorf("library change not verified within attempt budget")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)
