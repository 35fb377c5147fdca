package auth

import (
	"sync"

	"github.com/naveenspark/legends/pkg/domain"
)

// State is the resolution state of the session context.
type State int

const (
	// StateInitializing means the session is unknown, not absent.
	StateInitializing State = iota
	StateAnonymous
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateInitializing:
		return "initializing"
	case StateAnonymous:
		return "anonymous"
	case StateAuthenticated:
		return "authenticated"
	}
	return "unknown"
}

// Snapshot is a copy of the store at one point in time.
type Snapshot struct {
	Session  *domain.Session
	Identity *domain.Identity
	Loading  bool
}

// State derives the resolution state from the snapshot.
func (s Snapshot) State() State {
	switch {
	case s.Loading:
		return StateInitializing
	case s.Session != nil:
		return StateAuthenticated
	default:
		return StateAnonymous
	}
}

// Store holds the current session and loading flag and notifies watchers
// after every change. Watchers see changes in the order they were made and
// must not mutate the store themselves.
type Store struct {
	emit     sync.Mutex // serializes mutate+notify
	mu       sync.Mutex
	session  *domain.Session
	loading  bool
	watchers map[int]func(Snapshot)
	nextID   int
}

// NewStore returns a store in the given loading state with no session.
func NewStore(loading bool) *Store {
	return &Store{
		loading:  loading,
		watchers: make(map[int]func(Snapshot)),
	}
}

// Read returns the current snapshot.
func (s *Store) Read() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Set replaces the session and its identity. A nil session clears both.
// Setting ends the loading phase if it has not ended yet.
func (s *Store) Set(session *domain.Session) {
	s.emit.Lock()
	defer s.emit.Unlock()

	s.mu.Lock()
	s.session = cloneSession(session)
	s.loading = false
	snap, watchers := s.snapshotLocked(), s.watchersLocked()
	s.mu.Unlock()

	notify(watchers, snap)
}

// Clear is Set(nil).
func (s *Store) Clear() {
	s.Set(nil)
}

// Resolve applies the initial session lookup. It only takes effect while the
// store is still loading and reports whether it did.
func (s *Store) Resolve(session *domain.Session) bool {
	s.emit.Lock()
	defer s.emit.Unlock()

	s.mu.Lock()
	if !s.loading {
		s.mu.Unlock()
		return false
	}
	s.session = cloneSession(session)
	s.loading = false
	snap, watchers := s.snapshotLocked(), s.watchersLocked()
	s.mu.Unlock()

	notify(watchers, snap)
	return true
}

// Watch registers fn to run after every change. The returned cancel func is
// safe to call more than once.
func (s *Store) Watch(fn func(Snapshot)) (cancel func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.watchers[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.watchers, id)
			s.mu.Unlock()
		})
	}
}

func (s *Store) snapshotLocked() Snapshot {
	snap := Snapshot{Loading: s.loading}
	if s.session != nil {
		sess := cloneSession(s.session)
		snap.Session = sess
		snap.Identity = &sess.User
	}
	return snap
}

func (s *Store) watchersLocked() []func(Snapshot) {
	out := make([]func(Snapshot), 0, len(s.watchers))
	for i := 0; i < s.nextID; i++ {
		if fn, ok := s.watchers[i]; ok {
			out = append(out, fn)
		}
	}
	return out
}

func notify(watchers []func(Snapshot), snap Snapshot) {
	for _, fn := range watchers {
		fn(snap)
	}
}

func cloneSession(s *domain.Session) *domain.Session {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}
