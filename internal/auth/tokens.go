package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/naveenspark/legends/pkg/domain"
)

// SessionFile persists the live session between runs.
type SessionFile struct {
	path string
}

// NewSessionFile returns a SessionFile at path. An empty path disables
// persistence.
func NewSessionFile(path string) *SessionFile {
	return &SessionFile{path: path}
}

// Path returns the backing file path.
func (f *SessionFile) Path() string { return f.path }

// Load returns the stored session, or nil when none is stored.
func (f *SessionFile) Load() (*domain.Session, error) {
	if f == nil || f.path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("auth.SessionFile.Load: %w", err)
	}
	var s domain.Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("auth.SessionFile.Load: decode: %w", err)
	}
	if s.AccessToken == "" {
		return nil, nil
	}
	return &s, nil
}

// Save writes s with owner-only permissions.
func (f *SessionFile) Save(s *domain.Session) error {
	if f == nil || f.path == "" || s == nil {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("auth.SessionFile.Save: create dir: %w", err)
	}
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("auth.SessionFile.Save: encode: %w", err)
	}
	if err := os.WriteFile(f.path, data, 0o600); err != nil {
		return fmt.Errorf("auth.SessionFile.Save: %w", err)
	}
	return nil
}

// Remove deletes the stored session. Removing a missing file is not an error.
func (f *SessionFile) Remove() error {
	if f == nil || f.path == "" {
		return nil
	}
	if err := os.Remove(f.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("auth.SessionFile.Remove: %w", err)
	}
	return nil
}

// tokenExpiry reads the exp claim of an access token without verifying its
// signature; the provider verifies tokens, this only schedules refreshes.
func tokenExpiry(accessToken string) (time.Time, bool) {
	if accessToken == "" {
		return time.Time{}, false
	}
	tok, _, err := jwt.NewParser().ParseUnverified(accessToken, jwt.MapClaims{})
	if err != nil {
		return time.Time{}, false
	}
	exp, err := tok.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

// expiresAt prefers the token's own exp claim over the provider's
// expires_at field.
func expiresAt(s *domain.Session) time.Time {
	if exp, ok := tokenExpiry(s.AccessToken); ok {
		return exp
	}
	return s.ExpiresAt
}
