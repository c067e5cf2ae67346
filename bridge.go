package sdk

import "sync"

// SessionBridge is the narrow seam between the transport and whatever owns
// the session. The pipeline reads tokens through it and mutates the session
// only as the result of an explicit refresh outcome; it never holds token
// state of its own. Injecting the bridge at construction keeps the
// networking layer free of a dependency on the session store package.
type SessionBridge interface {
	AccessToken() string
	RefreshToken() string
	SetSession(s Session)
	ClearSession()
}

// StaticTokens is a SessionBridge for callers that already hold a token
// pair and manage its lifecycle elsewhere (scripts, tests). Set and Clear
// update only the in-memory copy. Safe for concurrent use; the refresh
// flight writes while request goroutines read.
type StaticTokens struct {
	mu      sync.Mutex
	Access  string
	Refresh string
}

// AccessToken implements SessionBridge.
func (s *StaticTokens) AccessToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Access
}

// RefreshToken implements SessionBridge.
func (s *StaticTokens) RefreshToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Refresh
}

// SetSession implements SessionBridge.
func (s *StaticTokens) SetSession(next Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Access = next.AccessToken
	s.Refresh = next.RefreshToken
}

// ClearSession implements SessionBridge.
func (s *StaticTokens) ClearSession() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Access = ""
	s.Refresh = ""
}
