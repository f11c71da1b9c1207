package memory

import (
	"context"
	"sync"

	"pdfmcq/internal/domain"
)

// QuizStore is the in-memory implementation of app.QuizStore, the
// authority when neither Redis nor Postgres is configured.
type QuizStore struct {
	mu      sync.RWMutex
	quizzes map[string]domain.Quiz
}

func NewQuizStore() *QuizStore {
	return &QuizStore{quizzes: make(map[string]domain.Quiz)}
}

func (s *QuizStore) Save(_ context.Context, quiz domain.Quiz) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := quiz
	stored.Questions = make([]domain.Question, len(quiz.Questions))
	copy(stored.Questions, quiz.Questions)
	s.quizzes[quiz.QuizID] = stored
	return nil
}

func (s *QuizStore) Get(_ context.Context, quizID string) (domain.Quiz, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	quiz, ok := s.quizzes[quizID]
	if !ok {
		return domain.Quiz{}, domain.ErrQuizNotFound
	}
	out := quiz
	out.Questions = make([]domain.Question, len(quiz.Questions))
	copy(out.Questions, quiz.Questions)
	return out, nil
}
