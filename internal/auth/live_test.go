package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/naveenspark/legends/pkg/client"
	"github.com/naveenspark/legends/pkg/domain"
)

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "u-1",
		"exp": exp.Unix(),
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return tok
}

// gotrue is a minimal identity provider for LiveService tests.
type gotrue struct {
	t           *testing.T
	token       string
	refreshes   atomic.Int32
	logouts     atomic.Int32
	failRefresh bool

	signInToken string // returned by password sign-in when set
	logoutAuth  atomic.Value

	// gate, when set, holds /user and refresh requests until closed.
	gate    chan struct{}
	entered chan string
}

func (g *gotrue) hold(what string) {
	if g.gate == nil {
		return
	}
	select {
	case g.entered <- what:
	default:
	}
	<-g.gate
}

func (g *gotrue) lastLogout() string {
	v, _ := g.logoutAuth.Load().(string)
	return v
}

func (g *gotrue) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.URL.Path == "/auth/v1/token" && r.URL.Query().Get("grant_type") == "password":
		tok := g.token
		if g.signInToken != "" {
			tok = g.signInToken
		}
		fmt.Fprintf(w, `{"access_token":%q,"refresh_token":"rt-1","user":{"id":"u-1","email":"ada@example.com"}}`, tok) //nolint:errcheck
	case r.URL.Path == "/auth/v1/token" && r.URL.Query().Get("grant_type") == "refresh_token":
		g.refreshes.Add(1)
		g.hold("refresh")
		if g.failRefresh {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]string{"error_description": "Invalid Refresh Token"}) //nolint:errcheck
			return
		}
		fresh := signedToken(g.t, time.Now().Add(3*time.Hour))
		fmt.Fprintf(w, `{"access_token":%q,"refresh_token":"rt-2","user":{"id":"u-1","email":"ada@example.com"}}`, fresh) //nolint:errcheck
	case r.URL.Path == "/auth/v1/user":
		g.hold("user")
		if r.Header.Get("Authorization") != "Bearer "+g.token {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"msg": "invalid JWT"}) //nolint:errcheck
			return
		}
		fmt.Fprint(w, `{"id":"u-1","email":"ada@example.com"}`) //nolint:errcheck
	case r.URL.Path == "/auth/v1/logout":
		g.logouts.Add(1)
		g.logoutAuth.Store(r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusNoContent)
	default:
		http.NotFound(w, r)
	}
}

func newLiveFixture(t *testing.T, g *gotrue, opts ...LiveOption) (*LiveService, *SessionFile, func()) {
	t.Helper()
	srv := httptest.NewServer(g)
	file := NewSessionFile(filepath.Join(t.TempDir(), "session.json"))
	api := client.New(srv.URL, "anon", client.WithHTTPClient(srv.Client()))
	l := NewLiveService(api, nil, append([]LiveOption{WithSessionFile(file)}, opts...)...)
	return l, file, func() {
		l.Close() //nolint:errcheck
		srv.Close()
	}
}

func TestLiveService_SignInPersists(t *testing.T) {
	g := &gotrue{t: t, token: signedToken(t, time.Now().Add(time.Hour))}
	l, file, cleanup := newLiveFixture(t, g)
	defer cleanup()

	s, err := l.SignIn(context.Background(), "ada@example.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", s.User.Email)

	stored, err := file.Load()
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, g.token, stored.AccessToken)
}

func TestLiveService_InitialSessionRestores(t *testing.T) {
	g := &gotrue{t: t, token: signedToken(t, time.Now().Add(time.Hour))}
	l, file, cleanup := newLiveFixture(t, g)
	defer cleanup()
	require.NoError(t, file.Save(&domain.Session{AccessToken: g.token, RefreshToken: "rt-1"}))

	s, err := l.InitialSession(context.Background())
	require.NoError(t, err)
	require.NotNil(t, s)
	assert.Equal(t, "ada@example.com", s.User.Email)
	assert.Zero(t, g.refreshes.Load())
}

func TestLiveService_InitialSessionNone(t *testing.T) {
	g := &gotrue{t: t}
	l, _, cleanup := newLiveFixture(t, g)
	defer cleanup()

	s, err := l.InitialSession(context.Background())
	require.NoError(t, err)
	assert.Nil(t, s)
}

func TestLiveService_InitialSessionExpiredRefreshes(t *testing.T) {
	g := &gotrue{t: t, token: "unused"}
	l, file, cleanup := newLiveFixture(t, g)
	defer cleanup()
	expired := signedToken(t, time.Now().Add(-time.Minute))
	require.NoError(t, file.Save(&domain.Session{AccessToken: expired, RefreshToken: "rt-1"}))

	s, err := l.InitialSession(context.Background())
	require.NoError(t, err)
	require.NotNil(t, s)
	assert.Equal(t, "rt-2", s.RefreshToken)
	assert.EqualValues(t, 1, g.refreshes.Load())
}

func TestLiveService_InitialSessionRejectedIsForgotten(t *testing.T) {
	g := &gotrue{t: t, token: "current"}
	l, file, cleanup := newLiveFixture(t, g)
	defer cleanup()
	require.NoError(t, file.Save(&domain.Session{AccessToken: "revoked"}))

	s, err := l.InitialSession(context.Background())
	require.Error(t, err)
	assert.Nil(t, s)
	assert.True(t, client.IsStatus(err, http.StatusUnauthorized))

	stored, err := file.Load()
	require.NoError(t, err)
	assert.Nil(t, stored)
}

func TestLiveService_SignOutRemovesFile(t *testing.T) {
	g := &gotrue{t: t, token: signedToken(t, time.Now().Add(time.Hour))}
	l, file, cleanup := newLiveFixture(t, g)
	defer cleanup()

	_, err := l.SignIn(context.Background(), "ada@example.com", "pw")
	require.NoError(t, err)
	require.NoError(t, l.SignOut(context.Background()))

	assert.EqualValues(t, 1, g.logouts.Load())
	stored, err := file.Load()
	require.NoError(t, err)
	assert.Nil(t, stored)
}

func TestLiveService_RefreshPushesEvent(t *testing.T) {
	g := &gotrue{t: t, token: signedToken(t, time.Now().Add(time.Hour))}
	l, _, cleanup := newLiveFixture(t, g, WithRefreshMargin(2*time.Hour))
	defer cleanup()

	events := make(chan ChangeEvent, 4)
	sub := l.Subscribe(func(e ChangeEvent, _ *domain.Session) {
		select {
		case events <- e:
		default:
		}
	})
	defer sub.Unsubscribe()

	_, err := l.SignIn(context.Background(), "ada@example.com", "pw")
	require.NoError(t, err)

	select {
	case e := <-events:
		assert.Equal(t, EventTokenRefreshed, e)
	case <-time.After(2 * time.Second):
		t.Fatal("no refresh event")
	}
}

func TestLiveService_FailedRefreshSignsOut(t *testing.T) {
	g := &gotrue{t: t, token: signedToken(t, time.Now().Add(time.Hour)), failRefresh: true}
	l, file, cleanup := newLiveFixture(t, g, WithRefreshMargin(2*time.Hour))
	defer cleanup()

	events := make(chan ChangeEvent, 4)
	l.Subscribe(func(e ChangeEvent, s *domain.Session) {
		assert.Nil(t, s)
		select {
		case events <- e:
		default:
		}
	})

	_, err := l.SignIn(context.Background(), "ada@example.com", "pw")
	require.NoError(t, err)

	select {
	case e := <-events:
		assert.Equal(t, EventSignedOut, e)
	case <-time.After(2 * time.Second):
		t.Fatal("no sign-out event")
	}
	stored, err := file.Load()
	require.NoError(t, err)
	assert.Nil(t, stored)
}

func TestLiveService_CloseStopsRefresh(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	g := &gotrue{t: t, token: signedToken(t, time.Now().Add(time.Hour))}
	l, _, cleanup := newLiveFixture(t, g)

	_, err := l.SignIn(context.Background(), "ada@example.com", "pw")
	require.NoError(t, err)
	require.NoError(t, l.Close())
	require.NoError(t, l.Close())
	cleanup()

	assert.Zero(t, g.refreshes.Load())
}

func gated(g *gotrue) *gotrue {
	g.gate = make(chan struct{})
	g.entered = make(chan string, 1)
	return g
}

func TestLiveService_SignInDuringLookupWins(t *testing.T) {
	stale := signedToken(t, time.Now().Add(time.Hour))
	fresh := signedToken(t, time.Now().Add(90*time.Minute))
	g := gated(&gotrue{t: t, token: stale, signInToken: fresh})
	l, file, cleanup := newLiveFixture(t, g)
	defer cleanup()
	require.NoError(t, file.Save(&domain.Session{AccessToken: stale, RefreshToken: "rt-0"}))

	ctx := context.Background()
	p := NewProvider(l)
	started := make(chan struct{})
	go func() {
		p.Start(ctx)
		close(started)
	}()
	require.Equal(t, "user", <-g.entered)

	require.NoError(t, p.SignIn(ctx, "ada@example.com", "pw"))
	close(g.gate)
	<-started

	snap := p.Snapshot()
	require.NotNil(t, snap.Session)
	assert.Equal(t, fresh, snap.Session.AccessToken)

	stored, err := file.Load()
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, fresh, stored.AccessToken, "the stored session must not overwrite the newer sign-in")

	p.SignOut(ctx)
	assert.Equal(t, "Bearer "+fresh, g.lastLogout())
}

func TestLiveService_RejectedLookupKeepsNewerSignIn(t *testing.T) {
	fresh := signedToken(t, time.Now().Add(time.Hour))
	g := gated(&gotrue{t: t, token: "current", signInToken: fresh})
	l, file, cleanup := newLiveFixture(t, g)
	defer cleanup()
	require.NoError(t, file.Save(&domain.Session{AccessToken: "revoked"}))

	ctx := context.Background()
	done := make(chan error, 1)
	go func() {
		_, err := l.InitialSession(ctx)
		done <- err
	}()
	require.Equal(t, "user", <-g.entered)

	_, err := l.SignIn(ctx, "ada@example.com", "pw")
	require.NoError(t, err)
	close(g.gate)
	require.Error(t, <-done)

	stored, err := file.Load()
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, fresh, stored.AccessToken)
}

func TestLiveService_RefreshAfterSignOutIsDiscarded(t *testing.T) {
	g := gated(&gotrue{t: t, token: signedToken(t, time.Now().Add(time.Hour))})
	l, file, cleanup := newLiveFixture(t, g)
	defer cleanup()

	events := make(chan ChangeEvent, 4)
	sub := l.Subscribe(func(e ChangeEvent, _ *domain.Session) {
		select {
		case events <- e:
		default:
		}
	})
	defer sub.Unsubscribe()

	ctx := context.Background()
	_, err := l.SignIn(ctx, "ada@example.com", "pw")
	require.NoError(t, err)

	refreshed := make(chan struct{})
	go func() {
		l.refresh()
		close(refreshed)
	}()
	require.Equal(t, "refresh", <-g.entered)

	require.NoError(t, l.SignOut(ctx))
	close(g.gate)
	<-refreshed

	select {
	case e := <-events:
		t.Fatalf("unexpected %s after sign-out", e)
	default:
	}
	stored, err := file.Load()
	require.NoError(t, err)
	assert.Nil(t, stored)

	l.mu.Lock()
	defer l.mu.Unlock()
	assert.Nil(t, l.current)
	assert.Nil(t, l.timer)
}

func TestLiveService_ExplicitCallsPushNothing(t *testing.T) {
	g := &gotrue{t: t, token: signedToken(t, time.Now().Add(time.Hour))}
	l, _, cleanup := newLiveFixture(t, g)
	defer cleanup()

	var pushed atomic.Int32
	sub := l.Subscribe(func(ChangeEvent, *domain.Session) { pushed.Add(1) })
	defer sub.Unsubscribe()

	ctx := context.Background()
	_, err := l.SignIn(ctx, "ada@example.com", "pw")
	require.NoError(t, err)
	require.NoError(t, l.SignOut(ctx))
	assert.Zero(t, pushed.Load())
}

func TestSubscription_UnsubscribeTwice(t *testing.T) {
	g := &gotrue{t: t}
	l, _, cleanup := newLiveFixture(t, g)
	defer cleanup()

	var calls atomic.Int32
	sub := l.Subscribe(func(ChangeEvent, *domain.Session) { calls.Add(1) })
	other := l.Subscribe(func(ChangeEvent, *domain.Session) {})
	defer other.Unsubscribe()

	sub.Unsubscribe()
	sub.Unsubscribe()
	l.subs.emit(EventSignedOut, nil)

	assert.Zero(t, calls.Load())
	assert.Equal(t, 1, l.subs.count())

	demo := NewDemoService(nil).Subscribe(func(ChangeEvent, *domain.Session) {})
	demo.Unsubscribe()
	demo.Unsubscribe()
}
