package memory

import (
	"context"
	"sync"

	"quizmaster-service/internal/domain"
)

// ResponseStore keeps append-only response records in memory.
type ResponseStore struct {
	mu      sync.RWMutex
	records map[string][]domain.Response
}

func NewResponseStore() *ResponseStore {
	return &ResponseStore{records: make(map[string][]domain.Response)}
}

func (s *ResponseStore) Append(_ context.Context, response domain.Response) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[response.QuizID] = append(s.records[response.QuizID], response)
	return nil
}

func (s *ResponseStore) ListByQuiz(_ context.Context, quizID string) ([]domain.Response, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	records := make([]domain.Response, len(s.records[quizID]))
	copy(records, s.records[quizID])
	return records, nil
}
