package memory

import (
	"context"
	"sync"

	"quizmaster-service/internal/domain"
)

// StatsStore keeps creator aggregates in memory. Increments happen under the
// store mutex, so concurrent submissions never lose updates.
type StatsStore struct {
	mu      sync.Mutex
	created map[string]int
	counts  map[string]map[string]int // creatorUID -> quizID -> submissions
}

func NewStatsStore() *StatsStore {
	return &StatsStore{
		created: make(map[string]int),
		counts:  make(map[string]map[string]int),
	}
}

func (s *StatsStore) IncrementQuizzesCreated(_ context.Context, creatorUID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.created[creatorUID]++
	return nil
}

func (s *StatsStore) IncrementSubmissions(_ context.Context, creatorUID, quizID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.counts[creatorUID] == nil {
		s.counts[creatorUID] = make(map[string]int)
	}
	s.counts[creatorUID][quizID]++
	return nil
}

func (s *StatsStore) Stats(_ context.Context, creatorUID string) (domain.CreatorStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stats := domain.CreatorStats{
		QuizzesCreated: s.created[creatorUID],
		Submissions:    make(map[string]int, len(s.counts[creatorUID])),
	}
	for quizID, count := range s.counts[creatorUID] {
		stats.Submissions[quizID] = count
	}
	return stats, nil
}
