package auth

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/naveenspark/legends/internal/logging"
	"github.com/naveenspark/legends/pkg/client"
	"github.com/naveenspark/legends/pkg/domain"
)

// identityAPI is the subset of *client.Client the live service uses.
type identityAPI interface {
	SignInWithPassword(ctx context.Context, email, password string) (*domain.Session, error)
	RefreshSession(ctx context.Context, refreshToken string) (*domain.Session, error)
	SignUp(ctx context.Context, email, password string) (*domain.Identity, *domain.Session, error)
	SignOut(ctx context.Context, accessToken string) error
	Recover(ctx context.Context, email, redirectTo string) error
	GetUser(ctx context.Context, accessToken string) (*domain.Identity, error)
}

var _ identityAPI = (*client.Client)(nil)

const refreshTimeout = 15 * time.Second

// LiveService talks to a real identity provider. It persists the session to
// disk and refreshes the access token shortly before it expires, pushing
// TOKEN_REFRESHED or SIGNED_OUT to subscribers.
type LiveService struct {
	api    identityAPI
	file   *SessionFile
	margin time.Duration
	now    func() time.Time
	log    *zap.Logger
	subs   subscribers

	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	current  *domain.Session
	gen      uint64 // bumped by every adopt and drop
	timer    *time.Timer
	closed   bool
	inflight sync.WaitGroup
}

// LiveOption configures a LiveService.
type LiveOption func(*LiveService)

// WithSessionFile persists sessions to f.
func WithSessionFile(f *SessionFile) LiveOption {
	return func(l *LiveService) { l.file = f }
}

// WithRefreshMargin sets how long before expiry tokens are refreshed.
func WithRefreshMargin(d time.Duration) LiveOption {
	return func(l *LiveService) {
		if d >= 0 {
			l.margin = d
		}
	}
}

// WithLiveClock overrides the clock used for expiry checks.
func WithLiveClock(now func() time.Time) LiveOption {
	return func(l *LiveService) { l.now = now }
}

// NewLiveService returns a Service backed by api.
func NewLiveService(api identityAPI, log *zap.Logger, opts ...LiveOption) *LiveService {
	ctx, cancel := context.WithCancel(context.Background())
	l := &LiveService{
		api:    api,
		margin: time.Minute,
		now:    time.Now,
		log:    logging.OrNop(log),
		ctx:    ctx,
		cancel: cancel,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *LiveService) Mode() Mode { return ModeLive }

// SignIn exchanges credentials for a session and persists it.
func (l *LiveService) SignIn(ctx context.Context, email, password string) (*domain.Session, error) {
	s, err := l.api.SignInWithPassword(ctx, email, password)
	if err != nil {
		return nil, err
	}
	l.adopt(s)
	return cloneSession(s), nil
}

// SignUp registers an account and returns its identity. Any session the
// provider hands back is not kept.
func (l *LiveService) SignUp(ctx context.Context, email, password string) (*domain.Identity, error) {
	user, _, err := l.api.SignUp(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// SignOut revokes the session at the provider and forgets it locally. The
// local session is dropped even when the provider call fails; that failure
// is still returned.
func (l *LiveService) SignOut(ctx context.Context) error {
	l.mu.Lock()
	var token string
	if l.current != nil {
		token = l.current.AccessToken
	}
	l.mu.Unlock()

	var err error
	if token != "" {
		err = l.api.SignOut(ctx, token)
	}
	l.drop()
	return err
}

func (l *LiveService) ResetPassword(ctx context.Context, email, redirectTo string) error {
	return l.api.Recover(ctx, email, redirectTo)
}

// InitialSession restores the persisted session. A stored session whose
// access token has expired is refreshed; otherwise the token is checked
// against the provider. A session the provider rejects is forgotten.
func (l *LiveService) InitialSession(ctx context.Context) (*domain.Session, error) {
	gen := l.generation()
	stored, err := l.file.Load()
	if err != nil {
		return nil, err
	}
	if stored == nil {
		return nil, nil
	}

	var restored *domain.Session
	if exp := expiresAt(stored); !exp.IsZero() && !l.now().Before(exp) {
		restored, err = l.api.RefreshSession(ctx, stored.RefreshToken)
	} else {
		var user *domain.Identity
		user, err = l.api.GetUser(ctx, stored.AccessToken)
		if err == nil {
			restored = cloneSession(stored)
			restored.User = *user
		}
	}
	if err != nil {
		if rejected(err) && l.dropIf(gen) {
			l.log.Info("stored session rejected, discarding", zap.Error(err))
		}
		return nil, fmt.Errorf("auth.LiveService.InitialSession: %w", err)
	}

	// A sign-in or sign-out while the lookup ran is newer than the file.
	if !l.adoptIf(restored, gen) {
		l.log.Debug("stored session superseded during lookup")
		return nil, nil
	}
	return cloneSession(restored), nil
}

func (l *LiveService) Subscribe(fn ChangeFunc) Subscription {
	return l.subs.add(fn)
}

// Close stops the refresh timer and waits for an in-flight refresh.
func (l *LiveService) Close() error {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return nil
	}
	l.closed = true
	if l.timer != nil {
		l.timer.Stop()
		l.timer = nil
	}
	l.mu.Unlock()

	l.cancel()
	l.inflight.Wait()
	return nil
}

func (l *LiveService) generation() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.gen
}

// adopt makes s the current session, persists it and schedules its refresh.
func (l *LiveService) adopt(s *domain.Session) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.adoptLocked(s)
}

// adoptIf adopts s only if nothing was adopted or dropped since gen.
func (l *LiveService) adoptIf(s *domain.Session, gen uint64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.gen != gen {
		return false
	}
	l.adoptLocked(s)
	return true
}

func (l *LiveService) adoptLocked(s *domain.Session) {
	l.gen++
	if err := l.file.Save(s); err != nil {
		l.log.Warn("persist session", zap.Error(err))
	}
	l.current = cloneSession(s)
	l.scheduleLocked(s)
}

// drop forgets the current session.
func (l *LiveService) drop() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.dropLocked()
}

// dropIf drops the session only if nothing was adopted or dropped since gen.
func (l *LiveService) dropIf(gen uint64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.gen != gen {
		return false
	}
	l.dropLocked()
	return true
}

func (l *LiveService) dropLocked() {
	l.gen++
	l.current = nil
	if l.timer != nil {
		l.timer.Stop()
		l.timer = nil
	}
	if err := l.file.Remove(); err != nil {
		l.log.Warn("remove session file", zap.Error(err))
	}
}

func (l *LiveService) scheduleLocked(s *domain.Session) {
	if l.timer != nil {
		l.timer.Stop()
		l.timer = nil
	}
	if l.closed || s.RefreshToken == "" {
		return
	}
	exp := expiresAt(s)
	if exp.IsZero() {
		return
	}
	wait := exp.Sub(l.now()) - l.margin
	if wait < 0 {
		wait = 0
	}
	l.log.Debug("token refresh scheduled", zap.Duration("in", wait))
	l.timer = time.AfterFunc(wait, l.refresh)
}

func (l *LiveService) refresh() {
	l.mu.Lock()
	if l.closed || l.current == nil {
		l.mu.Unlock()
		return
	}
	l.inflight.Add(1)
	defer l.inflight.Done()
	refreshToken, gen := l.current.RefreshToken, l.gen
	l.mu.Unlock()

	ctx, cancel := context.WithTimeout(l.ctx, refreshTimeout)
	defer cancel()

	s, err := l.api.RefreshSession(ctx, refreshToken)
	if l.ctx.Err() != nil {
		return
	}
	if err != nil {
		if !l.dropIf(gen) {
			return
		}
		l.log.Warn("token refresh failed, signing out", zap.Error(err))
		l.subs.emit(EventSignedOut, nil)
		return
	}
	if !l.adoptIf(s, gen) {
		l.log.Debug("refreshed session superseded, discarding")
		return
	}
	l.log.Debug("token refreshed", zap.String("user", s.User.ShortID()))
	l.subs.emit(EventTokenRefreshed, s)
}

// rejected reports whether err means the provider refused the credentials
// rather than being unreachable.
func rejected(err error) bool {
	return client.IsStatus(err, http.StatusBadRequest) ||
		client.IsStatus(err, http.StatusUnauthorized) ||
		client.IsStatus(err, http.StatusForbidden)
}
