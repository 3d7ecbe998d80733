package memory

import (
	"context"
	"sync"

	"quizmaster-service/internal/domain"
)

// SessionStore is an in-memory implementation of app.SessionRepository.
// Sessions are stored by value; answer maps are copied on the way in and out
// so callers cannot mutate stored state.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]domain.ParticipantSession
}

func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]domain.ParticipantSession)}
}

func (s *SessionStore) Save(_ context.Context, session domain.ParticipantSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	session.Answers = copyAnswers(session.Answers)
	s.sessions[session.ID] = session
	return nil
}

func (s *SessionStore) Get(_ context.Context, sessionID string) (domain.ParticipantSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[sessionID]
	if !ok {
		return domain.ParticipantSession{}, domain.ErrSessionNotFound
	}
	session.Answers = copyAnswers(session.Answers)
	return session, nil
}

func (s *SessionStore) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
	return nil
}

func copyAnswers(answers domain.ResponseMap) domain.ResponseMap {
	copied := make(domain.ResponseMap, len(answers))
	for id, answer := range answers {
		copied[id] = answer
	}
	return copied
}
