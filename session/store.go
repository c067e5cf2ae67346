// Package session owns the authenticated session: a typed state container
// with subscriber notification, persisted to client storage, plus a
// manager exposing the login/logout actions. The container satisfies
// sdk.SessionBridge, which is how the transport reads tokens without a
// dependency back onto this package.
package session

import (
	"sync"

	"github.com/rs/zerolog"

	sdk "github.com/fitroom/fitroom-go"
	"github.com/fitroom/fitroom-go/storage"
)

// State is a point-in-time snapshot of the session.
type State struct {
	User          *sdk.User
	AccessToken   string
	RefreshToken  string
	Authenticated bool
}

type persistedSession struct {
	User         *sdk.User `json:"user,omitempty"`
	AccessToken  string    `json:"accessToken"`
	RefreshToken string    `json:"refreshToken"`
}

// Store holds the session and notifies subscribers on every change. It is
// constructed once at startup and injected where needed; there is no
// package-level instance.
type Store struct {
	mu      sync.Mutex
	state   State
	persist storage.Store
	logger  zerolog.Logger
	subs    map[int]func(State)
	nextSub int
}

// NewStore hydrates the session from persisted storage. A corrupt or
// missing record starts signed out.
func NewStore(persist storage.Store, logger zerolog.Logger) *Store {
	s := &Store{
		persist: persist,
		logger:  logger,
		subs:    map[int]func(State){},
	}
	saved := storage.ReadJSON(persist, storage.KeySession, persistedSession{})
	if saved.AccessToken != "" && saved.RefreshToken != "" {
		s.state = State{
			User:          saved.User,
			AccessToken:   saved.AccessToken,
			RefreshToken:  saved.RefreshToken,
			Authenticated: saved.User != nil,
		}
	}
	return s
}

// Snapshot returns the current state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Subscribe registers fn for every subsequent state change and returns an
// unsubscribe function. fn runs synchronously on the mutating goroutine.
func (s *Store) Subscribe(fn func(State)) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

func (s *Store) update(next State) {
	s.mu.Lock()
	s.state = next
	record := persistedSession{
		User:         next.User,
		AccessToken:  next.AccessToken,
		RefreshToken: next.RefreshToken,
	}
	subs := make([]func(State), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	var err error
	if next.AccessToken == "" && next.RefreshToken == "" {
		err = s.persist.Delete(storage.KeySession)
	} else {
		err = storage.WriteJSON(s.persist, storage.KeySession, record)
	}
	if err != nil {
		s.logger.Warn().Err(err).Msg("persist session failed")
	}
	for _, fn := range subs {
		fn(next)
	}
}

// SetUser replaces the profile without touching tokens.
func (s *Store) SetUser(user sdk.User) {
	next := s.Snapshot()
	next.User = &user
	next.Authenticated = true
	s.update(next)
}

// SetCredits updates the remaining credit count on the stored profile.
func (s *Store) SetCredits(remaining int64) {
	next := s.Snapshot()
	if next.User == nil {
		return
	}
	user := *next.User
	user.Credits = remaining
	next.User = &user
	s.update(next)
}

// AccessToken implements sdk.SessionBridge.
func (s *Store) AccessToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.AccessToken
}

// RefreshToken implements sdk.SessionBridge.
func (s *Store) RefreshToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.RefreshToken
}

// SetSession implements sdk.SessionBridge; the pipeline calls it after a
// successful refresh, the manager after login/register.
func (s *Store) SetSession(sess sdk.Session) {
	user := sess.User
	s.update(State{
		User:          &user,
		AccessToken:   sess.AccessToken,
		RefreshToken:  sess.RefreshToken,
		Authenticated: true,
	})
}

// ClearSession implements sdk.SessionBridge; called on logout and on
// terminal refresh failure.
func (s *Store) ClearSession() {
	s.update(State{})
}
