package redis

import (
	"context"
	"strconv"

	"github.com/redis/go-redis/v9"

	"quizmaster-service/internal/domain"
)

// StatsStore keeps creator aggregates in Redis hashes. Increments use
// HINCRBY, an atomic primitive at the storage boundary, so concurrent
// submissions to the same quiz cannot lose updates.
//
//	HINCRBY creator:{uid}             quizzesCreated 1
//	HINCRBY creator:{uid}:submissions {quizID}       1
type StatsStore struct {
	client *redis.Client
}

func NewStatsStore(client *redis.Client) *StatsStore {
	return &StatsStore{client: client}
}

func (s *StatsStore) IncrementQuizzesCreated(ctx context.Context, creatorUID string) error {
	return s.client.HIncrBy(ctx, s.creatorKey(creatorUID), "quizzesCreated", 1).Err()
}

func (s *StatsStore) IncrementSubmissions(ctx context.Context, creatorUID, quizID string) error {
	return s.client.HIncrBy(ctx, s.submissionsKey(creatorUID), quizID, 1).Err()
}

func (s *StatsStore) Stats(ctx context.Context, creatorUID string) (domain.CreatorStats, error) {
	stats := domain.CreatorStats{Submissions: make(map[string]int)}

	created, err := s.client.HGet(ctx, s.creatorKey(creatorUID), "quizzesCreated").Result()
	if err == nil {
		stats.QuizzesCreated, _ = strconv.Atoi(created)
	} else if err != redis.Nil {
		return domain.CreatorStats{}, err
	}

	counts, err := s.client.HGetAll(ctx, s.submissionsKey(creatorUID)).Result()
	if err != nil {
		return domain.CreatorStats{}, err
	}
	for quizID, raw := range counts {
		if count, err := strconv.Atoi(raw); err == nil {
			stats.Submissions[quizID] = count
		}
	}
	return stats, nil
}

func (s *StatsStore) creatorKey(creatorUID string) string {
	return "creator:" + creatorUID
}

func (s *StatsStore) submissionsKey(creatorUID string) string {
	return "creator:" + creatorUID + ":submissions"
}
