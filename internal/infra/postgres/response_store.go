package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"

	"quizmaster-service/internal/domain"
)

// ResponseStore appends immutable response records; there is no update path.
type ResponseStore struct {
	pool *pgxpool.Pool
}

func NewResponseStore(pool *pgxpool.Pool) *ResponseStore {
	return &ResponseStore{pool: pool}
}

func (s *ResponseStore) Append(ctx context.Context, response domain.Response) error {
	data, err := json.Marshal(response)
	if err != nil {
		return fmt.Errorf("marshal response: %w", err)
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO responses (id, quiz_id, data, submitted_at)
		VALUES ($1, $2, $3, $4)`,
		response.ID, response.QuizID, data, response.SubmittedAt)
	if err != nil {
		return fmt.Errorf("append response: %w", err)
	}
	return nil
}

func (s *ResponseStore) ListByQuiz(ctx context.Context, quizID string) ([]domain.Response, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT data FROM responses WHERE quiz_id=$1 ORDER BY submitted_at DESC`, quizID)
	if err != nil {
		return nil, fmt.Errorf("list responses: %w", err)
	}
	defer rows.Close()

	var records []domain.Response
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan response: %w", err)
		}
		var record domain.Response
		if err := json.Unmarshal(raw, &record); err != nil {
			return nil, fmt.Errorf("unmarshal response: %w", err)
		}
		records = append(records, record)
	}
	return records, rows.Err()
}
