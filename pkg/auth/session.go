package auth

import (
	"sync"
)

// State is the authentication state of a Session.
type State int

const (
	Unauthenticated State = iota
	Authenticated
)

func (s State) String() string {
	switch s {
	case Authenticated:
		return "authenticated"
	default:
		return "unauthenticated"
	}
}

/*
Session holds the auth token of one client. The token is non-empty only
between a successful login and the next logout or Clear. The mutex keeps
reads and writes race free; it does not make concurrent logins on one
client meaningful.
*/
type Session struct {
	mu    sync.RWMutex
	token string
	user  string
}

// NewSession returns an unauthenticated session.
func NewSession() *Session {
	return &Session{}
}

// Set stores the token returned by a login for user.
func (s *Session) Set(user, token string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.user = user
	s.token = token
}

// Clear drops the token.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.user = ""
	s.token = ""
}

// Token returns the current token, empty when unauthenticated.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.token
}

// User returns the user the token was issued for.
func (s *Session) User() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.user
}

// State reports whether a token is held.
func (s *Session) State() State {
	if s.Token() == "" {
		return Unauthenticated
	}

	return Authenticated
}
