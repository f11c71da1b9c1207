package generate

import (
	"context"

	"pdfmcq/internal/domain"
)

// Generator produces multiple-choice questions from source text.
type Generator interface {
	Generate(ctx context.Context, text string, maxQuestions int) ([]domain.Question, error)
}

// StaticGenerator is the fallback used when no LLM credentials are
// configured. It produces a single placeholder question so the rest of
// the pipeline stays exercisable.
type StaticGenerator struct{}

func (StaticGenerator) Generate(_ context.Context, _ string, _ int) ([]domain.Question, error) {
	return []domain.Question{
		{
			ID:                 "q1",
			Question:           "Sample question because no LLM API key is set.",
			Options:            []string{"Option A", "Option B", "Option C", "Option D"},
			CorrectOptionIndex: 0,
			Hint:               "Pretend you read the PDF and recall the key idea.",
			Explanation:        "This is a placeholder. Configure an API key to generate from the PDF.",
		},
	}, nil
}
