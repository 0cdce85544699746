// Package session owns the authentication state: the persisted token
// and the current user profile. The store is explicitly constructed and
// injected; nothing in this package is a singleton.
package session

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/pontodeaula/pontoaula/internal/localstate"
	"github.com/pontodeaula/pontoaula/internal/users"
)

// ErrTokenMissing is the hard failure for a login response that carried
// no token.
var ErrTokenMissing = errors.New("session: token missing from login response")

// Gateway is the slice of the API client the store needs.
type Gateway interface {
	Get(ctx context.Context, path string, out any) error
	Post(ctx context.Context, path string, body, out any) error
}

// Store holds the session. The store is the sole writer of the
// persisted token; the gateway's token source only ever reads it.
type Store struct {
	state   *localstate.Store
	gateway Gateway
	logger  *slog.Logger

	mu             sync.RWMutex
	user           *users.User
	initializing   bool
	authenticating bool
}

// NewStore constructs a Store. It starts in the initializing state
// until Bootstrap has run.
func NewStore(state *localstate.Store, gateway Gateway, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		state:        state,
		gateway:      gateway,
		logger:       logger,
		initializing: true,
	}
}

type loginPayload struct {
	Email    string `json:"email,omitempty"`
	Username string `json:"username,omitempty"`
	Password string `json:"password"`
}

type loginResult struct {
	Token string `json:"token"`
}

// Bootstrap resolves the initial session. With a persisted token it
// fetches the profile; a rejected token is cleared and the session
// stays unauthenticated without surfacing an error. Without a token no
// request is made.
func (s *Store) Bootstrap(ctx context.Context) {
	defer s.setInitializing(false)

	if s.state.Get(localstate.TokenKey) == "" {
		return
	}

	var profile users.User
	if err := s.gateway.Get(ctx, "/users/me", &profile); err != nil {
		s.logger.Warn("session: profile fetch on boot failed", slog.Any("error", err))
		s.clearToken()
		return
	}
	s.setUser(&profile)
}

// Login authenticates with an identifier and password. An identifier
// containing "@" is sent as the email field, otherwise as username. On
// success the token is persisted and the profile loaded; any failure
// leaves the session unauthenticated and propagates to the caller.
func (s *Store) Login(ctx context.Context, identifier, password string) error {
	s.setAuthenticating(true)
	defer s.setAuthenticating(false)

	payload := loginPayload{Password: password}
	if strings.Contains(identifier, "@") {
		payload.Email = identifier
	} else {
		payload.Username = identifier
	}

	var result loginResult
	if err := s.gateway.Post(ctx, "/auth/login", payload, &result); err != nil {
		return err
	}
	if result.Token == "" {
		return ErrTokenMissing
	}
	if err := s.state.Set(localstate.TokenKey, result.Token); err != nil {
		return err
	}

	var profile users.User
	if err := s.gateway.Get(ctx, "/users/me", &profile); err != nil {
		return err
	}
	s.setUser(&profile)
	return nil
}

// Logout clears the persisted token and the in-memory user. Navigation
// back to the public entry point is the route guard's reaction to the
// now-unauthenticated state.
func (s *Store) Logout() {
	s.clearToken()
	s.setUser(nil)
}

// ForceLogout is the consumer of the gateway's auth-rejected signal: a
// 401 on any request lands here regardless of which component issued
// it. Safe to invoke repeatedly.
func (s *Store) ForceLogout() {
	s.Logout()
}

// SetCurrent replaces the cached profile after a self-update so later
// reads reflect the saved changes without a refetch. A nil user is
// ignored; logout paths clear the profile through Logout.
func (s *Store) SetCurrent(u *users.User) {
	if u == nil {
		return
	}
	copied := *u
	s.setUser(&copied)
}

// Current returns the authenticated user, or nil.
func (s *Store) Current() *users.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// Authenticated reports whether a user profile is resolved.
func (s *Store) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil
}

// Initializing reports whether Bootstrap is still in flight.
func (s *Store) Initializing() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.initializing
}

// Authenticating reports whether a login call is in flight.
func (s *Store) Authenticating() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.authenticating
}

func (s *Store) setUser(u *users.User) {
	s.mu.Lock()
	s.user = u
	s.mu.Unlock()
}

func (s *Store) setInitializing(v bool) {
	s.mu.Lock()
	s.initializing = v
	s.mu.Unlock()
}

func (s *Store) setAuthenticating(v bool) {
	s.mu.Lock()
	s.authenticating = v
	s.mu.Unlock()
}

func (s *Store) clearToken() {
	if err := s.state.Delete(localstate.TokenKey); err != nil {
		s.logger.Error("session: clear token", slog.Any("error", err))
	}
}
