package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"quizmaster-service/internal/domain"
)

type countingStore struct {
	*QuizStore
	mu   sync.Mutex
	gets int
}

func (s *countingStore) GetQuiz(ctx context.Context, quizID string) (domain.Quiz, error) {
	s.mu.Lock()
	s.gets++
	s.mu.Unlock()
	return s.QuizStore.GetQuiz(ctx, quizID)
}

func (s *countingStore) getCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gets
}

func TestQuizCacheServesFromCache(t *testing.T) {
	ctx := context.Background()
	backing := &countingStore{QuizStore: NewQuizStore(map[string]domain.Quiz{
		"quiz-1": {QuizID: "quiz-1", Title: "Cached"},
	})}
	cache := NewQuizCache(backing, time.Minute)

	for i := 0; i < 5; i++ {
		quiz, err := cache.GetQuiz(ctx, "quiz-1")
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if quiz.Title != "Cached" {
			t.Fatalf("unexpected quiz %+v", quiz)
		}
	}
	if got := backing.getCount(); got != 1 {
		t.Fatalf("expected one backing read, got %d", got)
	}
}

func TestQuizCacheExpires(t *testing.T) {
	ctx := context.Background()
	backing := &countingStore{QuizStore: NewQuizStore(map[string]domain.Quiz{
		"quiz-1": {QuizID: "quiz-1"},
	})}
	cache := NewQuizCache(backing, time.Minute)

	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	cache.clock = func() time.Time { return now }

	if _, err := cache.GetQuiz(ctx, "quiz-1"); err != nil {
		t.Fatalf("get: %v", err)
	}
	// jitter extends the TTL by at most 10%
	now = now.Add(2 * time.Minute)
	if _, err := cache.GetQuiz(ctx, "quiz-1"); err != nil {
		t.Fatalf("get after expiry: %v", err)
	}
	if got := backing.getCount(); got != 2 {
		t.Fatalf("expected expired entry to be refetched, got %d reads", got)
	}
}

func TestQuizCacheSaveInvalidates(t *testing.T) {
	ctx := context.Background()
	backing := &countingStore{QuizStore: NewQuizStore(map[string]domain.Quiz{
		"quiz-1": {QuizID: "quiz-1", Title: "Old"},
	})}
	cache := NewQuizCache(backing, time.Minute)

	if _, err := cache.GetQuiz(ctx, "quiz-1"); err != nil {
		t.Fatalf("get: %v", err)
	}
	if err := cache.SaveQuiz(ctx, domain.Quiz{QuizID: "quiz-1", Title: "New"}); err != nil {
		t.Fatalf("save: %v", err)
	}
	quiz, err := cache.GetQuiz(ctx, "quiz-1")
	if err != nil {
		t.Fatalf("get after save: %v", err)
	}
	if quiz.Title != "New" {
		t.Fatalf("expected invalidated entry to refresh, got %q", quiz.Title)
	}
}

func TestQuizCacheMissPropagates(t *testing.T) {
	cache := NewQuizCache(NewQuizStore(nil), time.Minute)
	if _, err := cache.GetQuiz(context.Background(), "nope"); err != domain.ErrQuizNotFound {
		t.Fatalf("expected ErrQuizNotFound, got %v", err)
	}
}
