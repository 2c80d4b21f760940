package auth

import (
	"errors"
	"testing"

	"spotlike/internal/shared"
)

func TestParseRedirectURL(t *testing.T) {
	t.Run("Extracts Code", func(t *testing.T) {
		code, err := ParseRedirectURL("http://127.0.0.1:8888/callback?code=AQC123&state=xyz")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if code != "AQC123" {
			t.Errorf("expected code AQC123, got %q", code)
		}
	})

	t.Run("Extracts Code From Remote Redirect", func(t *testing.T) {
		code, err := ParseRedirectURL("https://example.com/callback?state=xyz&code=AQC456")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if code != "AQC456" {
			t.Errorf("expected code AQC456, got %q", code)
		}
	})

	t.Run("Malformed Input", func(t *testing.T) {
		cases := []struct {
			name string
			raw  string
		}{
			{"empty", ""},
			{"not a URL", "://missing-scheme"},
			{"relative path", "/callback?code=AQC123"},
			{"bare words", "code=AQC123"},
		}

		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				if _, err := ParseRedirectURL(tc.raw); !errors.Is(err, shared.ErrMalformedRedirectURL) {
					t.Errorf("expected ErrMalformedRedirectURL, got %v", err)
				}
			})
		}
	})

	t.Run("Missing Code", func(t *testing.T) {
		cases := []struct {
			name string
			raw  string
		}{
			{"no query", "http://127.0.0.1:8888/callback"},
			{"state only", "http://127.0.0.1:8888/callback?state=xyz"},
			{"empty code", "http://127.0.0.1:8888/callback?code=&state=xyz"},
			{"denied consent", "http://127.0.0.1:8888/callback?error=access_denied&state=xyz"},
		}

		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				if _, err := ParseRedirectURL(tc.raw); !errors.Is(err, shared.ErrMissingAuthCode) {
					t.Errorf("expected ErrMissingAuthCode, got %v", err)
				}
			})
		}
	})
}
