package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"

	"quizmaster-service/internal/domain"
)

// StatsStore maintains creator aggregates with atomic upsert increments, so
// concurrent submissions to the same quiz never lose counts.
type StatsStore struct {
	pool *pgxpool.Pool
}

func NewStatsStore(pool *pgxpool.Pool) *StatsStore {
	return &StatsStore{pool: pool}
}

func (s *StatsStore) IncrementQuizzesCreated(ctx context.Context, creatorUID string) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO creator_stats (uid, quizzes_created) VALUES ($1, 1)
		ON CONFLICT (uid) DO UPDATE SET quizzes_created = creator_stats.quizzes_created + 1`,
		creatorUID)
	if err != nil {
		return fmt.Errorf("increment quizzes created: %w", err)
	}
	return nil
}

func (s *StatsStore) IncrementSubmissions(ctx context.Context, creatorUID, quizID string) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO quiz_submissions (creator_uid, quiz_id, count) VALUES ($1, $2, 1)
		ON CONFLICT (creator_uid, quiz_id) DO UPDATE SET count = quiz_submissions.count + 1`,
		creatorUID, quizID)
	if err != nil {
		return fmt.Errorf("increment submissions: %w", err)
	}
	return nil
}

func (s *StatsStore) Stats(ctx context.Context, creatorUID string) (domain.CreatorStats, error) {
	stats := domain.CreatorStats{Submissions: make(map[string]int)}

	err := s.pool.QueryRow(ctx,
		`SELECT COALESCE(MAX(quizzes_created), 0) FROM creator_stats WHERE uid=$1`, creatorUID).
		Scan(&stats.QuizzesCreated)
	if err != nil {
		return domain.CreatorStats{}, fmt.Errorf("read creator stats: %w", err)
	}

	rows, err := s.pool.Query(ctx,
		`SELECT quiz_id, count FROM quiz_submissions WHERE creator_uid=$1`, creatorUID)
	if err != nil {
		return domain.CreatorStats{}, fmt.Errorf("read submission counts: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var quizID string
		var count int
		if err := rows.Scan(&quizID, &count); err != nil {
			return domain.CreatorStats{}, fmt.Errorf("scan submission count: %w", err)
		}
		stats.Submissions[quizID] = count
	}
	return stats, rows.Err()
}
