package memory

import (
	"context"
	"sync"

	"millionaire-service/internal/domain"
	"millionaire-service/internal/game"
)

// SessionStore is an in-memory implementation of app.SessionRepository.
// It keeps deep copies so callers never share state with the store.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*game.Session
	active   map[string]string // playerID -> sessionID
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*game.Session),
		active:   make(map[string]string),
	}
}

func (s *SessionStore) Load(_ context.Context, sessionID string) (*game.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[sessionID]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return session.Clone(), nil
}

func (s *SessionStore) Save(_ context.Context, session *game.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = session.Clone()
	if session.Finished() {
		if s.active[session.PlayerID] == session.ID {
			delete(s.active, session.PlayerID)
		}
	} else {
		s.active[session.PlayerID] = session.ID
	}
	return nil
}

func (s *SessionStore) ActiveSessionID(_ context.Context, playerID string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active[playerID], nil
}
