package memory

import (
	"context"
	"sync"

	"quizmaster-service/internal/domain"
)

// QuizStore is an in-memory quiz document store, used in demo mode and tests.
type QuizStore struct {
	mu      sync.RWMutex
	quizzes map[string]domain.Quiz
}

func NewQuizStore(seed map[string]domain.Quiz) *QuizStore {
	quizzes := make(map[string]domain.Quiz, len(seed))
	for id, quiz := range seed {
		quizzes[id] = quiz
	}
	return &QuizStore{quizzes: quizzes}
}

func (s *QuizStore) GetQuiz(_ context.Context, quizID string) (domain.Quiz, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if quiz, ok := s.quizzes[quizID]; ok {
		return quiz, nil
	}
	return domain.Quiz{}, domain.ErrQuizNotFound
}

func (s *QuizStore) SaveQuiz(_ context.Context, quiz domain.Quiz) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.quizzes[quiz.QuizID] = quiz
	return nil
}

func (s *QuizStore) ListByCreator(_ context.Context, creatorUID string) ([]domain.Quiz, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var quizzes []domain.Quiz
	for _, quiz := range s.quizzes {
		if quiz.CreatorUID == creatorUID {
			quizzes = append(quizzes, quiz)
		}
	}
	return quizzes, nil
}
