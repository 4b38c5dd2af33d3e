package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/chatdesk/internal/client/models"
	"github.com/dmitrijs2005/chatdesk/internal/logging"
)

var ErrUnsupportedVersion = errors.New("unsupported session record version")

// State is a point-in-time copy of the session.
type State struct {
	Token           string
	User            *models.User
	IsAuthenticated bool
}

// Store is safe for concurrent use. The in-memory state is authoritative:
// mutations take effect even when mirroring them to the Persister fails,
// in which case the persistence error is returned.
type Store struct {
	mu        sync.RWMutex
	state     State
	persister Persister
	logger    logging.Logger
}

type Option func(*Store)

func WithLogger(l logging.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// NewStore returns an empty store. Call Rehydrate to load a saved session.
// A nil persister keeps the session in memory only.
func NewStore(p Persister, opts ...Option) *Store {
	s := &Store{persister: p, logger: logging.Nop()}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Rehydrate replaces the in-memory state with the persisted record. Empty,
// unreadable, corrupt or too-new records yield the logged-out state.
func (s *Store) Rehydrate(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = State{}
	if s.persister == nil {
		return
	}

	data, err := s.persister.Load(ctx)
	if err != nil {
		s.logger.Warn(ctx, "session load failed", "error", err)
		return
	}
	if len(data) == 0 {
		return
	}

	st, err := decodeState(data)
	if err != nil {
		s.logger.Warn(ctx, "discarding persisted session", "error", err)
		return
	}
	s.state = st
	s.logger.Debug(ctx, "session restored", "authenticated", st.IsAuthenticated)
}

// SetToken stores the bearer token; the session is authenticated iff the
// token is non-empty.
func (s *Store) SetToken(ctx context.Context, token string) error {
	return s.update(ctx, func(st *State) {
		st.Token = token
		st.IsAuthenticated = token != ""
	})
}

// SetUser stores the profile without touching the authenticated flag.
func (s *Store) SetUser(ctx context.Context, user models.User) error {
	return s.update(ctx, func(st *State) {
		st.User = &user
	})
}

// Logout clears token, user and flag in one step. Navigation is up to the
// caller.
func (s *Store) Logout(ctx context.Context) error {
	return s.update(ctx, func(st *State) {
		*st = State{}
	})
}

// ClearStorage resets the session like Logout but removes the persisted
// record instead of overwriting it.
func (s *Store) ClearStorage(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = State{}
	if s.persister == nil {
		return nil
	}
	if err := s.persister.Clear(ctx); err != nil {
		s.logger.Error(ctx, "session clear failed", "error", err)
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

func (s *Store) update(ctx context.Context, fn func(st *State)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	fn(&s.state)
	if s.persister == nil {
		return nil
	}

	data, err := encodeState(s.state)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := s.persister.Save(ctx, data); err != nil {
		s.logger.Error(ctx, "session save failed", "error", err)
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Token returns the current bearer token or "".
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Token
}

// User returns a copy of the current profile, or nil.
func (s *Store) User() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state.User == nil {
		return nil
	}
	u := *s.state.User
	return &u
}

func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.IsAuthenticated
}

// Snapshot returns a copy of the whole state.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st := s.state
	if st.User != nil {
		u := *st.User
		st.User = &u
	}
	return st
}

// CanGenerateImages reports whether the current user is on the premium plan.
func (s *Store) CanGenerateImages() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.User != nil && s.state.User.Plan.AllowsImages()
}

func (s *Store) IsAdmin() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.User != nil && s.state.User.IsAdmin
}
