package session

import (
	"sync"

	"pdfmcq/internal/domain"
)

// Store holds the state of one quiz-taking session. It is owned by the
// Controller; renderers and the summary calculator only ever see copies.
type Store struct {
	mu           sync.RWMutex
	quizID       string
	questions    []domain.SnapshotQuestion
	attempts     map[string]int
	summaryShown bool
}

func NewStore() *Store {
	return &Store{attempts: make(map[string]int)}
}

// Reset rebinds the store to a freshly created quiz. Attempt counters
// and the summary flag start over; questions arrive with the next fetch.
func (s *Store) Reset(quizID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.quizID = quizID
	s.questions = nil
	s.attempts = make(map[string]int)
	s.summaryShown = false
}

// ReplaceQuestions swaps in a fetched question list wholesale. The
// snapshot is the single source of truth; nothing is merged.
func (s *Store) ReplaceQuestions(questions []domain.SnapshotQuestion) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.questions = make([]domain.SnapshotQuestion, len(questions))
	copy(s.questions, questions)
}

// RecordAttempt bumps the attempt counter for a question and returns
// the new count. Counters only ever grow within a session.
func (s *Store) RecordAttempt(questionID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attempts[questionID]++
	return s.attempts[questionID]
}

// markSummaryShown flips the one-shot flag and reports whether this
// call was the one that flipped it.
func (s *Store) markSummaryShown() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.summaryShown {
		return false
	}
	s.summaryShown = true
	return true
}

func (s *Store) QuizID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.quizID
}

func (s *Store) Questions() []domain.SnapshotQuestion {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.SnapshotQuestion, len(s.questions))
	copy(out, s.questions)
	return out
}

func (s *Store) Attempts() map[string]int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]int, len(s.attempts))
	for id, n := range s.attempts {
		out[id] = n
	}
	return out
}

func (s *Store) SummaryShown() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.summaryShown
}
