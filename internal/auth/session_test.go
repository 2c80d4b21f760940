package auth

import (
	"testing"
	"time"

	tu "spotlike/internal/testing"

	"golang.org/x/oauth2"
)

func TestSession(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		cases := []struct {
			name  string
			token *oauth2.Token
			want  bool
		}{
			{"nil token", nil, false},
			{"empty access token", &oauth2.Token{RefreshToken: "r"}, false},
			{"no expiry", &oauth2.Token{AccessToken: "a"}, true},
			{"well before expiry", &oauth2.Token{AccessToken: "a", Expiry: time.Now().Add(time.Hour)}, true},
			{"past expiry", &oauth2.Token{AccessToken: "a", Expiry: time.Now().Add(-time.Minute)}, false},
			{"inside expiry leeway", &oauth2.Token{AccessToken: "a", Expiry: time.Now().Add(expiryLeeway / 2)}, false},
		}

		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				session := NewSession(&tu.MockLibraryClient{})
				session.Install(tc.token)
				if got := session.Valid(); got != tc.want {
					t.Errorf("expected Valid() = %v, got %v", tc.want, got)
				}
			})
		}
	})

	t.Run("Complete", func(t *testing.T) {
		session := NewSession(&tu.MockLibraryClient{})

		session.Install(&oauth2.Token{AccessToken: "a"})
		if session.Complete() {
			t.Error("expected token without refresh token to be incomplete")
		}

		session.Install(&oauth2.Token{AccessToken: "a", RefreshToken: "r"})
		if !session.Complete() {
			t.Error("expected token with refresh token to be complete")
		}
	})

	t.Run("Install Propagates To Client", func(t *testing.T) {
		client := &tu.MockLibraryClient{}
		session := NewSession(client)

		tok := &oauth2.Token{AccessToken: "a"}
		session.Install(tok)
		if client.InstalledToken() != tok {
			t.Error("expected token installed into client")
		}

		session.Install(nil)
		if client.InstalledToken() != nil {
			t.Error("expected nil install to clear client token")
		}
	})
}
