package auth

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/naveenspark/legends/internal/config"
	"github.com/naveenspark/legends/internal/logging"
	"github.com/naveenspark/legends/pkg/client"
	"github.com/naveenspark/legends/pkg/domain"
)

// NewService picks the Service for cfg: the demo service when no real
// provider is configured, the live one otherwise.
func NewService(cfg config.Config, log *zap.Logger) Service {
	log = logging.OrNop(log)
	if cfg.Auth.Demo() {
		log.Info("auth: no identity provider configured, running in demo mode")
		return NewDemoService(log)
	}
	api := client.New(cfg.Auth.URL, cfg.Auth.APIKey, client.WithTimeout(cfg.Auth.Timeout))
	return NewLiveService(api, log,
		WithSessionFile(NewSessionFile(cfg.Auth.SessionFile)),
		WithRefreshMargin(cfg.Auth.RefreshMargin),
	)
}

// Provider owns the session store and is the one place the rest of the
// program signs users in and out.
type Provider struct {
	svc           Service
	store         *Store
	log           *zap.Logger
	redirectURL   string
	signUpSession bool

	startOnce sync.Once
	closeOnce sync.Once
	sub       Subscription
	subMu     sync.Mutex
}

// Option configures a Provider.
type Option func(*Provider)

// WithLogger sets the provider's logger.
func WithLogger(log *zap.Logger) Option {
	return func(p *Provider) { p.log = logging.OrNop(log) }
}

// WithRedirectURL sets the landing URL put in password reset emails.
func WithRedirectURL(u string) Option {
	return func(p *Provider) { p.redirectURL = u }
}

// WithSignUpSession makes a successful sign-up also sign the user in.
func WithSignUpSession(on bool) Option {
	return func(p *Provider) { p.signUpSession = on }
}

// NewProvider wraps svc. With the demo service there is nothing to look up,
// so the provider starts resolved; otherwise it is loading until Start has
// asked svc for the initial session.
func NewProvider(svc Service, opts ...Option) *Provider {
	p := &Provider{
		svc:   svc,
		store: NewStore(svc.Mode() != ModeDemo),
		log:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Mode reports which service backs the provider.
func (p *Provider) Mode() Mode { return p.svc.Mode() }

// Start subscribes to pushed changes and resolves the initial session. Only
// the first call does anything. A failed lookup resolves to signed out.
func (p *Provider) Start(ctx context.Context) {
	p.startOnce.Do(func() {
		sub := p.svc.Subscribe(p.onChange)
		p.subMu.Lock()
		p.sub = sub
		p.subMu.Unlock()

		s, err := p.svc.InitialSession(ctx)
		if err != nil {
			p.log.Warn("initial session lookup failed", zap.Error(err))
			s = nil
		}
		if !p.store.Resolve(s) {
			p.log.Debug("initial session arrived after the state was already set, ignored")
		}
	})
}

func (p *Provider) onChange(event ChangeEvent, s *domain.Session) {
	p.log.Debug("session change", zap.String("event", string(event)))
	switch event {
	case EventSignedOut:
		p.store.Clear()
	default:
		p.store.Set(s)
	}
}

// SignIn signs the user in. On failure the state is left unchanged and the
// provider's error is returned as is.
func (p *Provider) SignIn(ctx context.Context, email, password string) error {
	s, err := p.svc.SignIn(ctx, email, password)
	if err != nil {
		return err
	}
	p.store.Set(s)
	p.log.Info("signed in", zap.String("user", s.User.ShortID()))
	return nil
}

// SignUp registers an account. The new identity is returned but the user is
// not signed in unless the provider was built WithSignUpSession(true).
func (p *Provider) SignUp(ctx context.Context, email, password string) (*domain.Identity, error) {
	user, err := p.svc.SignUp(ctx, email, password)
	if err != nil {
		return nil, err
	}
	p.log.Info("signed up", zap.String("user", user.ShortID()))
	if p.signUpSession {
		if err := p.SignIn(ctx, email, password); err != nil {
			return user, fmt.Errorf("auth.Provider.SignUp: sign in after sign-up: %w", err)
		}
	}
	return user, nil
}

// SignOut always ends in the signed-out state. A provider failure is logged.
func (p *Provider) SignOut(ctx context.Context) {
	if err := p.svc.SignOut(ctx); err != nil {
		p.log.Warn("sign out at provider failed", zap.Error(err))
	}
	p.store.Clear()
	p.log.Info("signed out")
}

// ResetPassword asks the provider to email a reset link. The state is never
// changed.
func (p *Provider) ResetPassword(ctx context.Context, email string) error {
	return p.svc.ResetPassword(ctx, email, p.redirectURL)
}

// Snapshot returns the current state.
func (p *Provider) Snapshot() Snapshot { return p.store.Read() }

// Watch registers fn to run after every state change.
func (p *Provider) Watch(fn func(Snapshot)) (cancel func()) { return p.store.Watch(fn) }

// Close unsubscribes from the service and closes it. Later calls are no-ops.
func (p *Provider) Close() error {
	var err error
	p.closeOnce.Do(func() {
		p.subMu.Lock()
		if p.sub != nil {
			p.sub.Unsubscribe()
		}
		p.subMu.Unlock()
		err = p.svc.Close()
	})
	return err
}
