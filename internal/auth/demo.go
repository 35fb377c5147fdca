package auth

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/naveenspark/legends/internal/logging"
	"github.com/naveenspark/legends/pkg/domain"
)

// DemoUserID is the identifier given to every demo identity.
const DemoUserID = "demo-user-id"

// DemoService is an in-process stand-in for the identity provider. Every
// call succeeds and nothing leaves the process.
type DemoService struct {
	now func() time.Time
	log *zap.Logger
}

// DemoOption configures a DemoService.
type DemoOption func(*DemoService)

// WithDemoClock overrides the clock used for CreatedAt.
func WithDemoClock(now func() time.Time) DemoOption {
	return func(d *DemoService) { d.now = now }
}

// NewDemoService returns the demo-mode Service.
func NewDemoService(log *zap.Logger, opts ...DemoOption) *DemoService {
	d := &DemoService{now: time.Now, log: logging.OrNop(log)}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *DemoService) Mode() Mode { return ModeDemo }

func (d *DemoService) identity(email string) domain.Identity {
	return domain.Identity{
		ID:           DemoUserID,
		Email:        email,
		Audience:     "authenticated",
		CreatedAt:    d.now().UTC(),
		AppMetadata:  map[string]any{},
		UserMetadata: map[string]any{},
	}
}

// SignIn accepts any credentials.
func (d *DemoService) SignIn(_ context.Context, email, _ string) (*domain.Session, error) {
	d.log.Debug("demo sign-in")
	return &domain.Session{User: d.identity(email)}, nil
}

// SignUp returns a synthesized identity. It does not sign the user in.
func (d *DemoService) SignUp(_ context.Context, email, _ string) (*domain.Identity, error) {
	d.log.Debug("demo sign-up")
	id := d.identity(email)
	return &id, nil
}

func (d *DemoService) SignOut(context.Context) error { return nil }

func (d *DemoService) ResetPassword(context.Context, string, string) error { return nil }

// InitialSession never finds a session.
func (d *DemoService) InitialSession(context.Context) (*domain.Session, error) { return nil, nil }

// Subscribe is a no-op; the demo provider never pushes changes.
func (d *DemoService) Subscribe(ChangeFunc) Subscription { return noopSubscription{} }

func (d *DemoService) Close() error { return nil }
