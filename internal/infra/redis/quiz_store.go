package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"pdfmcq/internal/domain"
)

// Durable is an optional backing store behind the Redis cache. Saves
// are written through to it; cache misses fall back to it.
type Durable interface {
	StoreQuiz(ctx context.Context, quiz domain.Quiz) error
	LoadQuiz(ctx context.Context, quizID string) (domain.Quiz, error)
}

// QuizStore keeps each quiz as a JSON document under quiz:{id}:doc with
// a jittered TTL. With a Durable configured, expired quizzes are
// reloaded on demand; without one, Redis is the authority.
type QuizStore struct {
	client  *redis.Client
	durable Durable
	ttl     time.Duration
	sf      singleflight.Group
	rnd     *rand.Rand
}

func NewQuizStore(client *redis.Client, durable Durable, ttl time.Duration) *QuizStore {
	return &QuizStore{
		client:  client,
		durable: durable,
		ttl:     ttl,
		rnd:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (s *QuizStore) Save(ctx context.Context, quiz domain.Quiz) error {
	data, err := json.Marshal(quiz)
	if err != nil {
		return fmt.Errorf("marshal quiz: %w", err)
	}
	if err := s.client.Set(ctx, s.key(quiz.QuizID), data, s.ttlWithJitter()).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	if s.durable != nil {
		if err := s.durable.StoreQuiz(ctx, quiz); err != nil {
			return fmt.Errorf("durable store: %w", err)
		}
	}
	return nil
}

func (s *QuizStore) Get(ctx context.Context, quizID string) (domain.Quiz, error) {
	if quiz, err := s.fromCache(ctx, quizID); err == nil {
		return quiz, nil
	}
	if s.durable == nil {
		return domain.Quiz{}, domain.ErrQuizNotFound
	}

	result, err, _ := s.sf.Do(quizID, func() (interface{}, error) {
		// Re-check the cache in case another goroutine filled it.
		if quiz, err := s.fromCache(ctx, quizID); err == nil {
			return quiz, nil
		}

		quiz, err := s.durable.LoadQuiz(ctx, quizID)
		if err != nil {
			return domain.Quiz{}, err
		}
		if data, err := json.Marshal(quiz); err == nil {
			_ = s.client.Set(ctx, s.key(quizID), data, s.ttlWithJitter()).Err()
		}
		return quiz, nil
	})
	if err != nil {
		return domain.Quiz{}, err
	}
	return result.(domain.Quiz), nil
}

func (s *QuizStore) fromCache(ctx context.Context, quizID string) (domain.Quiz, error) {
	data, err := s.client.Get(ctx, s.key(quizID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.Quiz{}, domain.ErrQuizNotFound
		}
		return domain.Quiz{}, err
	}
	var quiz domain.Quiz
	if err := json.Unmarshal(data, &quiz); err != nil {
		return domain.Quiz{}, fmt.Errorf("unmarshal quiz: %w", err)
	}
	return quiz, nil
}

func (s *QuizStore) key(quizID string) string {
	return "quiz:" + quizID + ":doc"
}

func (s *QuizStore) ttlWithJitter() time.Duration {
	if s.ttl <= 0 {
		return 0
	}
	// up to 10% jitter to spread expirations
	jitterMax := int64(s.ttl) / 10
	return s.ttl + time.Duration(s.rnd.Int63n(jitterMax+1))
}
