package redis

import (
	"context"
	"encoding/json"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"quizmaster-service/internal/app"
	"quizmaster-service/internal/domain"
)

// QuizCache caches whole quiz documents in Redis as JSON and falls back to
// the backing store on a miss. The full document is cached (not a flattened
// answer key) because visibility conditions and option lists are needed at
// participant time, not just correct answers.
type QuizCache struct {
	client  *redis.Client
	backing app.QuizRepository
	ttl     time.Duration
	sf      singleflight.Group
	rnd     *rand.Rand
}

func NewQuizCache(client *redis.Client, backing app.QuizRepository, ttl time.Duration) *QuizCache {
	return &QuizCache{
		client:  client,
		backing: backing,
		ttl:     ttl,
		rnd:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (c *QuizCache) GetQuiz(ctx context.Context, quizID string) (domain.Quiz, error) {
	if quiz, ok := c.lookup(ctx, quizID); ok {
		return quiz, nil
	}

	result, err, _ := c.sf.Do(quizID, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if quiz, ok := c.lookup(ctx, quizID); ok {
			return quiz, nil
		}

		quiz, err := c.backing.GetQuiz(ctx, quizID)
		if err != nil {
			return domain.Quiz{}, err
		}

		if data, err := json.Marshal(quiz); err == nil {
			_ = c.client.Set(ctx, c.key(quizID), data, c.ttlWithJitter()).Err()
		}
		return quiz, nil
	})
	if err != nil {
		return domain.Quiz{}, err
	}
	return result.(domain.Quiz), nil
}

func (c *QuizCache) SaveQuiz(ctx context.Context, quiz domain.Quiz) error {
	if err := c.backing.SaveQuiz(ctx, quiz); err != nil {
		return err
	}
	_ = c.client.Del(ctx, c.key(quiz.QuizID)).Err()
	return nil
}

func (c *QuizCache) ListByCreator(ctx context.Context, creatorUID string) ([]domain.Quiz, error) {
	return c.backing.ListByCreator(ctx, creatorUID)
}

func (c *QuizCache) lookup(ctx context.Context, quizID string) (domain.Quiz, bool) {
	data, err := c.client.Get(ctx, c.key(quizID)).Bytes()
	if err != nil {
		return domain.Quiz{}, false
	}
	var quiz domain.Quiz
	if err := json.Unmarshal(data, &quiz); err != nil {
		return domain.Quiz{}, false
	}
	return quiz, true
}

func (c *QuizCache) key(quizID string) string {
	return "quiz:" + quizID + ":doc"
}

func (c *QuizCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
