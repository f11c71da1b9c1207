package session

import (
	"fmt"

	"pdfmcq/internal/domain"
)

// Summary aggregates how a completed session went.
type Summary struct {
	Total           int
	TotalAttempts   int
	FirstTryCorrect int
	AvgAttempts     float64
}

// AvgAttemptsDisplay renders the average with two decimal places.
func (s Summary) AvgAttemptsDisplay() string {
	return fmt.Sprintf("%.2f", s.AvgAttempts)
}

// Summarize computes session statistics from the question list and the
// attempt counters. FirstTryCorrect counts questions with exactly one
// recorded attempt, whatever that attempt's outcome was.
func Summarize(questions []domain.SnapshotQuestion, attempts map[string]int) Summary {
	total := len(questions)

	totalAttempts := 0
	for _, n := range attempts {
		totalAttempts += n
	}

	firstTry := 0
	for _, q := range questions {
		if attempts[q.ID] == 1 {
			firstTry++
		}
	}

	avg := 0.0
	if total > 0 {
		avg = float64(totalAttempts) / float64(total)
	}

	return Summary{
		Total:           total,
		TotalAttempts:   totalAttempts,
		FirstTryCorrect: firstTry,
		AvgAttempts:     avg,
	}
}
