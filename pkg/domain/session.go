package domain

import "time"

// Identity is an authenticated principal as reported by the identity provider.
type Identity struct {
	ID           string         `json:"id"`
	Email        string         `json:"email"`
	Audience     string         `json:"aud,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	AppMetadata  map[string]any `json:"app_metadata"`
	UserMetadata map[string]any `json:"user_metadata"`
}

// ShortID returns the first eight characters of the identifier, for display.
func (i Identity) ShortID() string {
	if len(i.ID) <= 8 {
		return i.ID
	}
	return i.ID[:8]
}

// Handle returns the local part of the email address.
func (i Identity) Handle() string {
	for n := 0; n < len(i.Email); n++ {
		if i.Email[n] == '@' {
			return i.Email[:n]
		}
	}
	return i.Email
}

// Session pairs an Identity with the provider's token metadata.
// A Session always carries its User; there is no session without an identity.
type Session struct {
	AccessToken  string    `json:"access_token,omitempty"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	TokenType    string    `json:"token_type,omitempty"`
	ExpiresAt    time.Time `json:"expires_at"`
	User         Identity  `json:"user"`
}

// Expired reports whether the session's access token has passed its expiry.
// A zero ExpiresAt never expires.
func (s Session) Expired(now time.Time) bool {
	if s.ExpiresAt.IsZero() {
		return false
	}
	return !now.Before(s.ExpiresAt)
}
