package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"quizmaster-service/internal/domain"
)

// SessionStore keeps participant sessions in Redis as JSON values with a TTL,
// so an abandoned session simply expires. There is no autosave/recovery
// contract beyond that.
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{client: client, ttl: ttl}
}

func (s *SessionStore) Save(ctx context.Context, session domain.ParticipantSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.key(session.ID), data, s.ttl).Err()
}

func (s *SessionStore) Get(ctx context.Context, sessionID string) (domain.ParticipantSession, error) {
	data, err := s.client.Get(ctx, s.key(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.ParticipantSession{}, domain.ErrSessionNotFound
	}
	if err != nil {
		return domain.ParticipantSession{}, err
	}
	var session domain.ParticipantSession
	if err := json.Unmarshal(data, &session); err != nil {
		return domain.ParticipantSession{}, err
	}
	if session.Answers == nil {
		session.Answers = domain.ResponseMap{}
	}
	return session, nil
}

func (s *SessionStore) Delete(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, s.key(sessionID)).Err()
}

func (s *SessionStore) key(sessionID string) string {
	return "quiz:session:" + sessionID
}
