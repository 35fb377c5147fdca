package auth

import (
	"context"
	"sync"

	"github.com/naveenspark/legends/pkg/domain"
)

// Mode says which Service implementation is in use. It is fixed when the
// service is built.
type Mode int

const (
	ModeDemo Mode = iota
	ModeLive
)

func (m Mode) String() string {
	if m == ModeLive {
		return "live"
	}
	return "demo"
}

// ChangeEvent names a provider-pushed session change. Only changes the
// service makes on its own are pushed; explicit calls are not echoed back.
type ChangeEvent string

const (
	EventSignedOut      ChangeEvent = "SIGNED_OUT"
	EventTokenRefreshed ChangeEvent = "TOKEN_REFRESHED"
)

// ChangeFunc receives pushed session changes. session is nil on sign-out.
type ChangeFunc func(event ChangeEvent, session *domain.Session)

// Subscription is a handle on a change stream.
type Subscription interface {
	// Unsubscribe stops delivery. It is idempotent.
	Unsubscribe()
}

// Service is the identity provider boundary. Errors from the provider are
// returned unchanged.
type Service interface {
	Mode() Mode
	SignIn(ctx context.Context, email, password string) (*domain.Session, error)
	SignUp(ctx context.Context, email, password string) (*domain.Identity, error)
	SignOut(ctx context.Context) error
	ResetPassword(ctx context.Context, email, redirectTo string) error
	InitialSession(ctx context.Context) (*domain.Session, error)
	Subscribe(fn ChangeFunc) Subscription
	Close() error
}

// subscribers fans change events out to registered ChangeFuncs.
type subscribers struct {
	mu     sync.Mutex
	fns    map[int]ChangeFunc
	nextID int
}

func (s *subscribers) add(fn ChangeFunc) Subscription {
	s.mu.Lock()
	if s.fns == nil {
		s.fns = make(map[int]ChangeFunc)
	}
	id := s.nextID
	s.nextID++
	s.fns[id] = fn
	s.mu.Unlock()

	return &subscription{cancel: func() {
		s.mu.Lock()
		delete(s.fns, id)
		s.mu.Unlock()
	}}
}

func (s *subscribers) emit(event ChangeEvent, session *domain.Session) {
	s.mu.Lock()
	fns := make([]ChangeFunc, 0, len(s.fns))
	for i := 0; i < s.nextID; i++ {
		if fn, ok := s.fns[i]; ok {
			fns = append(fns, fn)
		}
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(event, cloneSession(session))
	}
}

func (s *subscribers) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.fns)
}

type subscription struct {
	once   sync.Once
	cancel func()
}

func (s *subscription) Unsubscribe() {
	if s == nil {
		return
	}
	s.once.Do(func() {
		if s.cancel != nil {
			s.cancel()
		}
	})
}

// noopSubscription is returned when there is nothing to subscribe to.
type noopSubscription struct{}

func (noopSubscription) Unsubscribe() {}
