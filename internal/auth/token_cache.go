// Package auth owns the OAuth2 session lifecycle: loading and persisting the
// token record, validating it against the remote service, refreshing it when
// expired, and driving the interactive authorization-code flow when no usable
// token exists.
package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"spotlike/internal/shared"

	"golang.org/x/oauth2"
)

const (
	cacheDirName  = "spotlike"
	tokenFileName = "token.json"
)

// TokenCache handles persistent storage of the OAuth token record.
//
// The record is overwritten wholesale on every refresh or exchange, never
// partially updated.
type TokenCache struct {
	path string
}

// DefaultTokenCache returns a TokenCache at the per-user default location,
// <user cache dir>/spotlike/token.json.
func DefaultTokenCache() (*TokenCache, error) {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get user cache dir: %w", err)
	}

	return NewTokenCache(filepath.Join(cacheDir, cacheDirName, tokenFileName)), nil
}

// NewTokenCache creates a TokenCache with a custom path.
func NewTokenCache(path string) *TokenCache {
	return &TokenCache{path: path}
}

// Path returns the file path where the token record is stored.
func (c *TokenCache) Path() string {
	return c.path
}

// Load reads the cached token record from disk.
//
// A missing file returns (nil, nil). A present but unparsable file returns
// [shared.ErrCorruptTokenCache].
func (c *TokenCache) Load() (*oauth2.Token, error) {
	data, err := os.ReadFile(c.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read token cache: %w", err)
	}

	var token oauth2.Token
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrCorruptTokenCache, err)
	}

	return &token, nil
}

// Save atomically writes the token record to disk, creating the parent
// directory if needed.
func (c *TokenCache) Save(token *oauth2.Token) error {
	if token == nil {
		return fmt.Errorf("%w: cannot save nil token", shared.ErrInvalidArgument)
	}

	dir := filepath.Dir(c.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	data, err := json.MarshalIndent(token, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode token: %w", err)
	}

	// Write to a temp file in the same directory, then rename over the record
	// so a crash mid-write cannot leave a partial file behind.
	tmp, err := os.CreateTemp(dir, tokenFileName+".*")
	if err != nil {
		return fmt.Errorf("failed to create temp token file: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write token file: %w", err)
	}
	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to set token file mode: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to close token file: %w", err)
	}

	if err := os.Rename(tmp.Name(), c.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to replace token file: %w", err)
	}

	return nil
}

// Clear removes the cached token record. Clearing an already-absent record is
// success, not an error.
func (c *TokenCache) Clear() error {
	err := os.Remove(c.path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove token cache: %w", err)
	}
	return nil
}
