package session

import (
	"sync"

	"github.com/pkg/errors"
)

// Store is the single owner of the client's session state. All other
// components read the session through it or request a mutation through it;
// nothing mutates the session directly. State lives in process memory only —
// recovery after a restart is the bootstrapper's job, never the store's.
type Store struct {
	lock    sync.RWMutex
	current Session
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{}
}

// Session returns a copy of the current session.
func (s *Store) Session() Session {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.current
}

// Token returns the current access token, or "" when unauthenticated.
func (s *Store) Token() string {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.current.AccessToken
}

// Authenticated reports whether a session is currently held.
func (s *Store) Authenticated() bool {
	return s.Session().Authenticated()
}

// Set overwrites the session wholesale. Token and user always travel
// together; a blank token is rejected so the store can never hold a user
// without a credential.
func (s *Store) Set(creds Credentials) error {
	if creds.AccessToken == "" {
		return errors.New("[Store.Set] access token is required")
	}
	user := creds.User
	s.lock.Lock()
	defer s.lock.Unlock()
	s.current = Session{AccessToken: creds.AccessToken, User: &user}
	return nil
}

// Clear resets the session to empty. Safe to call when already empty.
func (s *Store) Clear() {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.current = Session{}
}
