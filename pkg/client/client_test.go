package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestSignInWithPassword(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/v1/token" || r.URL.Query().Get("grant_type") != "password" {
			http.NotFound(w, r)
			return
		}
		if r.Header.Get("apikey") != "anon-key" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"message": "missing apikey"}) //nolint:errcheck
			return
		}
		if r.Header.Get("X-Request-Id") == "" {
			t.Error("expected X-Request-Id header")
		}
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body) //nolint:errcheck
		if body["email"] != "ada@example.com" || body["password"] != "secret" {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]string{"error": "invalid_grant", "error_description": "Invalid login credentials"}) //nolint:errcheck
			return
		}
		fmt.Fprint(w, `{"access_token":"at","token_type":"bearer","expires_at":1893456000,"refresh_token":"rt","user":{"id":"u-1","email":"ada@example.com","aud":"authenticated"}}`) //nolint:errcheck
	}))
	defer srv.Close()

	c := New(srv.URL, "anon-key")
	s, err := c.SignInWithPassword(context.Background(), "ada@example.com", "secret")
	if err != nil {
		t.Fatalf("SignInWithPassword() error: %v", err)
	}
	if s.AccessToken != "at" || s.RefreshToken != "rt" {
		t.Errorf("tokens = %q/%q, want at/rt", s.AccessToken, s.RefreshToken)
	}
	if s.User.ID != "u-1" || s.User.Email != "ada@example.com" {
		t.Errorf("user = %+v", s.User)
	}
	if want := time.Unix(1893456000, 0); !s.ExpiresAt.Equal(want) {
		t.Errorf("ExpiresAt = %v, want %v", s.ExpiresAt, want)
	}
}

func TestSignInWithPassword_ProviderErrorPassesThrough(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "invalid_grant", "error_description": "Invalid login credentials"}) //nolint:errcheck
	}))
	defer srv.Close()

	c := New(srv.URL, "anon-key")
	_, err := c.SignInWithPassword(context.Background(), "ada@example.com", "wrong")
	if err == nil {
		t.Fatal("expected error for bad credentials")
	}
	if !IsStatus(err, http.StatusBadRequest) {
		t.Errorf("IsStatus(err, 400) = false for %v", err)
	}
	if got := Message(err); got != "Invalid login credentials" {
		t.Errorf("Message() = %q, want %q", got, "Invalid login credentials")
	}
}

func TestSignUp_UserOnly(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/v1/signup" {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, `{"id":"u-2","email":"new@example.com","aud":"authenticated"}`) //nolint:errcheck
	}))
	defer srv.Close()

	c := New(srv.URL, "k")
	user, sess, err := c.SignUp(context.Background(), "new@example.com", "pw")
	if err != nil {
		t.Fatalf("SignUp() error: %v", err)
	}
	if sess != nil {
		t.Errorf("expected nil session for unconfirmed signup, got %+v", sess)
	}
	if user.ID != "u-2" || user.Email != "new@example.com" {
		t.Errorf("user = %+v", user)
	}
}

func TestSignUp_WithSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"access_token":"at","expires_in":3600,"refresh_token":"rt","user":{"id":"u-3","email":"auto@example.com"}}`) //nolint:errcheck
	}))
	defer srv.Close()

	c := New(srv.URL, "k")
	user, sess, err := c.SignUp(context.Background(), "auto@example.com", "pw")
	if err != nil {
		t.Fatalf("SignUp() error: %v", err)
	}
	if sess == nil || sess.AccessToken != "at" {
		t.Fatalf("expected session with access token, got %+v", sess)
	}
	if user.ID != "u-3" {
		t.Errorf("user.ID = %q, want u-3", user.ID)
	}
	if sess.ExpiresAt.IsZero() {
		t.Error("expected ExpiresAt derived from expires_in")
	}
}

func TestSignOut_SendsBearer(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/v1/logout" || r.Method != http.MethodPost {
			http.NotFound(w, r)
			return
		}
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := New(srv.URL, "k")
	if err := c.SignOut(context.Background(), "user-token"); err != nil {
		t.Fatalf("SignOut() error: %v", err)
	}
	if gotAuth != "Bearer user-token" {
		t.Errorf("Authorization = %q, want %q", gotAuth, "Bearer user-token")
	}
}

func TestRecover_RedirectTo(t *testing.T) {
	var gotRedirect, gotEmail string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotRedirect = r.URL.Query().Get("redirect_to")
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body) //nolint:errcheck
		gotEmail = body["email"]
		w.Write([]byte("{}")) //nolint:errcheck
	}))
	defer srv.Close()

	c := New(srv.URL, "k")
	if err := c.Recover(context.Background(), "ada@example.com", "http://localhost:5173/reset-password"); err != nil {
		t.Fatalf("Recover() error: %v", err)
	}
	if gotRedirect != "http://localhost:5173/reset-password" {
		t.Errorf("redirect_to = %q", gotRedirect)
	}
	if gotEmail != "ada@example.com" {
		t.Errorf("email = %q", gotEmail)
	}
}

func TestGetUser_Unauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"msg": "invalid JWT"}) //nolint:errcheck
	}))
	defer srv.Close()

	c := New(srv.URL, "k")
	_, err := c.GetUser(context.Background(), "stale")
	if err == nil {
		t.Fatal("expected error for unauthorized request")
	}
	if got := err.Error(); !strings.Contains(got, "HTTP 401") {
		t.Errorf("error = %q, want it to contain 'HTTP 401'", got)
	}
	if !IsStatus(err, 401) {
		t.Error("IsStatus(err, 401) = false")
	}
}

func TestRefreshSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("grant_type") != "refresh_token" {
			http.NotFound(w, r)
			return
		}
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body) //nolint:errcheck
		if body["refresh_token"] != "rt-old" {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]string{"error_description": "Invalid Refresh Token"}) //nolint:errcheck
			return
		}
		fmt.Fprint(w, `{"access_token":"at-new","refresh_token":"rt-new","expires_in":60,"user":{"id":"u-1"}}`) //nolint:errcheck
	}))
	defer srv.Close()

	c := New(srv.URL, "k")
	s, err := c.RefreshSession(context.Background(), "rt-old")
	if err != nil {
		t.Fatalf("RefreshSession() error: %v", err)
	}
	if s.AccessToken != "at-new" || s.RefreshToken != "rt-new" {
		t.Errorf("tokens = %q/%q", s.AccessToken, s.RefreshToken)
	}

	_, err = c.RefreshSession(context.Background(), "bogus")
	if got := Message(err); got != "Invalid Refresh Token" {
		t.Errorf("Message() = %q, want %q", got, "Invalid Refresh Token")
	}
}

func TestNewHTTPError_FallsBackToBody(t *testing.T) {
	e := newHTTPError(502, []byte("bad gateway"))
	if e.Message != "bad gateway" {
		t.Errorf("Message = %q, want %q", e.Message, "bad gateway")
	}
}

func TestMessage_NonHTTPError(t *testing.T) {
	if got := Message(errors.New("dial tcp: refused")); got != "dial tcp: refused" {
		t.Errorf("Message() = %q", got)
	}
	if got := Message(nil); got != "" {
		t.Errorf("Message(nil) = %q, want empty", got)
	}
}

func TestTrailingSlashTrimmed(t *testing.T) {
	c := New("https://example.test/", "k")
	if c.baseURL != "https://example.test" {
		t.Errorf("baseURL = %q", c.baseURL)
	}
}
