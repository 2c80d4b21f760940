package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestOAuthHandler(t *testing.T) {
	newServer := func(t *testing.T, state string) (*OAuthHandler, *httptest.Server) {
		t.Helper()
		handler := NewOAuthHandler(state)
		router := NewBasicRouter()
		router.Handler(handler)

		srv := httptest.NewServer(router)
		t.Cleanup(srv.Close)
		return handler, srv
	}

	receiveResult := func(t *testing.T, handler *OAuthHandler) OAuthResult {
		t.Helper()
		select {
		case result := <-handler.Result():
			return result
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for OAuth result")
		}
		return OAuthResult{}
	}

	t.Run("Captures Redirect URL", func(t *testing.T) {
		handler, srv := newServer(t, "expected_state")

		resp, err := http.Get(srv.URL + "/callback?code=ABC123&state=expected_state")
		if err != nil {
			t.Fatalf("callback request failed: %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			t.Errorf("expected 200, got %d", resp.StatusCode)
		}

		result := receiveResult(t, handler)
		if result.Error() != nil {
			t.Fatalf("expected no error, got %v", result.Error())
		}
		if !strings.Contains(result.RedirectURL, "code=ABC123") {
			t.Errorf("expected code in redirect URL, got %q", result.RedirectURL)
		}
		if !strings.Contains(result.RedirectURL, "state=expected_state") {
			t.Errorf("expected state in redirect URL, got %q", result.RedirectURL)
		}
		if !strings.HasPrefix(result.RedirectURL, "http://") {
			t.Errorf("expected absolute redirect URL, got %q", result.RedirectURL)
		}
	})

	t.Run("Rejects State Mismatch", func(t *testing.T) {
		handler, srv := newServer(t, "expected_state")

		resp, err := http.Get(srv.URL + "/callback?code=ABC123&state=forged")
		if err != nil {
			t.Fatalf("callback request failed: %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", resp.StatusCode)
		}
		if result := receiveResult(t, handler); result.Error() == nil {
			t.Error("expected state mismatch error")
		}
	})

	t.Run("Reports Denied Consent", func(t *testing.T) {
		handler, srv := newServer(t, "expected_state")

		resp, err := http.Get(srv.URL + "/callback?error=access_denied&state=expected_state")
		if err != nil {
			t.Fatalf("callback request failed: %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", resp.StatusCode)
		}

		result := receiveResult(t, handler)
		if result.Error() == nil || !strings.Contains(result.Error().Error(), "access_denied") {
			t.Errorf("expected access_denied error, got %v", result.Error())
		}
	})

	t.Run("Handles Callback Once", func(t *testing.T) {
		_, srv := newServer(t, "expected_state")

		first, err := http.Get(srv.URL + "/callback?code=ABC123&state=expected_state")
		if err != nil {
			t.Fatalf("first callback failed: %v", err)
		}
		first.Body.Close()

		second, err := http.Get(srv.URL + "/callback?code=XYZ789&state=expected_state")
		if err != nil {
			t.Fatalf("second callback failed: %v", err)
		}
		defer second.Body.Close()

		if second.StatusCode != http.StatusBadRequest {
			t.Errorf("expected repeated callback to be rejected, got %d", second.StatusCode)
		}
	})
}
