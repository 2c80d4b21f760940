package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"spotlike/internal/server"
	"spotlike/internal/shared"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"
)

// authorizeTimeout bounds how long login waits for the user to approve access.
const authorizeTimeout = 2 * time.Minute

// terminalPrompter drives the interactive authorization step from the
// terminal. It opens the browser on the authorization URL and collects the
// redirect URL either from a loopback callback server or, when the configured
// redirect URI is not local, from a line the user pastes back.
type terminalPrompter struct {
	config *shared.Config
	logger *log.Logger
	output io.Writer
	input  io.Reader

	mu    sync.Mutex
	state string // parsed from the auth URL, validated by the callback server
}

func newTerminalPrompter(config *shared.Config, logger *log.Logger, output io.Writer, input io.Reader) *terminalPrompter {
	return &terminalPrompter{config: config, logger: logger, output: output, input: input}
}

// ShowAuthURL opens the browser on the authorization URL, printing it as a
// fallback when the browser cannot be launched.
func (p *terminalPrompter) ShowAuthURL(authURL string) error {
	if u, err := url.Parse(authURL); err == nil {
		p.mu.Lock()
		p.state = u.Query().Get("state")
		p.mu.Unlock()
	}

	fmt.Fprint(p.output, "→ Opening browser for Spotify authorization...\n")
	if err := shared.OpenBrowser(authURL); err != nil {
		p.logger.Warnf("failed to open browser automatically %v", err)
		fmt.Fprint(p.output, "⚠ Could not open browser automatically.\n")
		fmt.Fprintf(p.output, "Please open this URL in your browser:\n%s\n\n", authURL)
	}
	return nil
}

// AwaitRedirectURL blocks until the authorization redirect lands, on the
// loopback callback server when the configured redirect URI is local and on a
// pasted line otherwise.
func (p *terminalPrompter) AwaitRedirectURL(ctx context.Context) (string, error) {
	if isLoopbackRedirect(p.config.Credentials.Spotify.RedirectURI) {
		return p.awaitCallback(ctx)
	}
	return p.awaitPaste(ctx)
}

func (p *terminalPrompter) awaitCallback(ctx context.Context) (string, error) {
	p.mu.Lock()
	state := p.state
	p.mu.Unlock()

	handler := server.NewOAuthHandler(state)
	router := server.NewBasicRouter()
	router.Handler(handler)

	serverAddr := fmt.Sprintf("%s:%d", p.config.Server.Host, p.config.Server.Port)
	httpServer := &http.Server{
		Addr:    serverAddr,
		Handler: router,
	}

	serverErrors := make(chan error, 1)
	go func() {
		p.logger.Infof("starting OAuth callback server at %v", serverAddr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			p.logger.Warn("error shutting down callback server", "error", err)
		}
	}()

	fmt.Fprint(p.output, "→ Waiting for authorization (2 minute timeout)...\n")

	timeout := time.NewTimer(authorizeTimeout)
	defer timeout.Stop()

	select {
	case result := <-handler.Result():
		if result.Error() != nil {
			return "", fmt.Errorf("%w: %v", shared.ErrAuthFailed, result.Error())
		}
		return result.RedirectURL, nil
	case err := <-serverErrors:
		return "", fmt.Errorf("callback server error: %w", err)
	case <-ctx.Done():
		return "", ctx.Err()
	case <-timeout.C:
		return "", fmt.Errorf("%w: authorization timed out after 2 minutes", shared.ErrTimeout)
	}
}

func (p *terminalPrompter) awaitPaste(ctx context.Context) (string, error) {
	fmt.Fprint(p.output, "→ After approving access, paste the URL you were redirected to:\n> ")

	type lineResult struct {
		line string
		err  error
	}
	lines := make(chan lineResult, 1)
	go func() {
		line, err := bufio.NewReader(p.input).ReadString('\n')
		lines <- lineResult{line: line, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case result := <-lines:
		line := strings.TrimSpace(result.line)
		if result.err != nil && line == "" {
			return "", fmt.Errorf("failed to read redirect URL: %w", result.err)
		}
		return line, nil
	}
}

// isLoopbackRedirect reports whether the redirect URI points at this machine,
// which means the callback server can receive it directly.
func isLoopbackRedirect(redirectURI string) bool {
	u, err := url.Parse(redirectURI)
	if err != nil {
		return false
	}
	switch u.Hostname() {
	case "127.0.0.1", "localhost", "::1":
		return true
	}
	return false
}

// AuthLogin establishes an authenticated session, running the interactive
// authorization flow when no usable cached token exists.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireClient(); err != nil {
		return err
	}

	if cmd.Bool("fresh") {
		r.logger.Info("fresh login requested, discarding cached token")
		if err := r.authMgr.ForceReauthenticate(ctx); err != nil {
			return err
		}
	} else if err := r.authMgr.EnsureAuthenticated(ctx); err != nil {
		return err
	}

	r.writePlainln("✓ Authorization successful")
	r.writePlain("✓ Token cached at %s\n", r.cache.Path())
	return nil
}

// AuthStatus reports on the cached token record without touching the network.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	r.writePlainHeader("Session status")

	token, err := r.cache.Load()
	if err != nil {
		r.writePlain("✗ Token cache at %s is unreadable: %v\n", r.cache.Path(), err)
		r.writePlain("Run 'spotlike auth login --fresh' to reauthorize.\n")
		return nil
	}
	if token == nil {
		r.writePlain("✗ No token cached\n")
		r.writePlain("Run 'spotlike auth login' to authorize.\n")
		return nil
	}

	r.writePlain("✓ Token cached at %s\n", r.cache.Path())
	if token.RefreshToken != "" {
		r.writePlain("Refresh token: present\n")
	} else {
		r.writePlain("Refresh token: missing, reauthorization will be required\n")
	}

	if token.Expiry.IsZero() {
		r.writePlain("Expiry: none recorded\n")
		return nil
	}
	if remaining := time.Until(token.Expiry); remaining > 0 {
		r.writePlain("Expiry: %s (in %s)\n", token.Expiry.Local().Format(time.RFC1123), remaining.Round(time.Second))
	} else {
		r.writePlain("Expiry: %s (expired, will refresh on next use)\n", token.Expiry.Local().Format(time.RFC1123))
	}
	return nil
}

// AuthLogout removes the cached token record.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	if err := r.cache.Clear(); err != nil {
		return fmt.Errorf("failed to clear token cache: %w", err)
	}
	return r.writePlain("✓ Cached credentials removed\n")
}
