package auth

import (
	"fmt"
	"net/url"

	"spotlike/internal/shared"
)

// ParseRedirectURL extracts the authorization code from a redirect URL pasted
// back by the user after approving the consent screen.
//
// Returns [shared.ErrMalformedRedirectURL] when the input does not parse as an
// absolute URL, and [shared.ErrMissingAuthCode] when the URL carries no "code"
// query parameter.
func ParseRedirectURL(raw string) (string, error) {
	if raw == "" {
		return "", fmt.Errorf("%w: empty input", shared.ErrMalformedRedirectURL)
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %v", shared.ErrMalformedRedirectURL, err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return "", fmt.Errorf("%w: %q is not an absolute URL", shared.ErrMalformedRedirectURL, raw)
	}

	code := parsed.Query().Get("code")
	if code == "" {
		return "", fmt.Errorf("%w: make sure the complete URL was copied from the browser", shared.ErrMissingAuthCode)
	}

	return code, nil
}
