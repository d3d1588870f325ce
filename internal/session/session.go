// Package session holds the single authenticated user of the running process.
//
// A Session is created once by the application and passed explicitly to every
// operation that needs an authenticated user.
package session

import (
	"errors"
	"sync"

	"github.com/google/uuid"

	"nerdhub/internal/domain/models"
)

var ErrAuthRequired = errors.New("authentication required")

type Session struct {
	mu    sync.RWMutex
	user  *models.UserRef
	token string
}

func New() *Session {
	return &Session{}
}

// Login replaces any current user and returns a fresh token bound to this login.
func (s *Session) Login(user models.UserRef) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.user = &user
	s.token = uuid.NewString()

	return s.token
}

func (s *Session) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.user = nil
	s.token = ""
}

func (s *Session) Current() (models.UserRef, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.user == nil {
		return models.UserRef{}, false
	}

	return *s.user, true
}

// Require is Current for operations that must not run anonymously.
func (s *Session) Require() (models.UserRef, error) {
	user, ok := s.Current()
	if !ok {
		return models.UserRef{}, ErrAuthRequired
	}

	return user, nil
}

// Token is empty when nobody is logged in.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.token
}

// Refresh updates the snapshot after a profile change. No-op when logged out.
func (s *Session) Refresh(name, email string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.user == nil {
		return
	}

	s.user.Name = name
	s.user.Email = email
}
