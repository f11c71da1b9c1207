package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"pdfmcq/internal/domain"
)

// QuizStore persists quizzes as JSONB rows. It serves both as the
// durable layer behind the Redis cache and as a standalone
// app.QuizStore when Redis is not configured.
type QuizStore struct {
	pool *pgxpool.Pool
}

func NewQuizStore(pool *pgxpool.Pool) *QuizStore {
	return &QuizStore{pool: pool}
}

func (s *QuizStore) StoreQuiz(ctx context.Context, quiz domain.Quiz) error {
	data, err := json.Marshal(quiz)
	if err != nil {
		return fmt.Errorf("marshal quiz: %w", err)
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO quizzes (id, data) VALUES ($1, $2::jsonb)
		 ON CONFLICT (id) DO UPDATE SET data = EXCLUDED.data`,
		quiz.QuizID, data)
	if err != nil {
		return fmt.Errorf("store quiz: %w", err)
	}
	return nil
}

func (s *QuizStore) LoadQuiz(ctx context.Context, quizID string) (domain.Quiz, error) {
	var raw []byte
	err := s.pool.QueryRow(ctx, `SELECT data FROM quizzes WHERE id=$1`, quizID).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Quiz{}, domain.ErrQuizNotFound
		}
		return domain.Quiz{}, fmt.Errorf("load quiz: %w", err)
	}
	var quiz domain.Quiz
	if err := json.Unmarshal(raw, &quiz); err != nil {
		return domain.Quiz{}, fmt.Errorf("unmarshal quiz: %w", err)
	}
	return quiz, nil
}

// Save and Get satisfy app.QuizStore directly.
func (s *QuizStore) Save(ctx context.Context, quiz domain.Quiz) error {
	return s.StoreQuiz(ctx, quiz)
}

func (s *QuizStore) Get(ctx context.Context, quizID string) (domain.Quiz, error) {
	return s.LoadQuiz(ctx, quizID)
}
