package app

import (
	"context"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"pdfmcq/internal/domain"
	"pdfmcq/internal/generate"
	"pdfmcq/internal/pdftext"
)

// QuizStore abstracts how generated quizzes are persisted (in-memory,
// Redis, Postgres).
type QuizStore interface {
	Save(ctx context.Context, quiz domain.Quiz) error
	Get(ctx context.Context, quizID string) (domain.Quiz, error)
}

// QuizService contains the server-side quiz use cases: generating a
// quiz from a PDF, serving snapshots, and checking answers.
type QuizService struct {
	store        QuizStore
	gen          generate.Generator
	extract      pdftext.Extractor
	maxQuestions int
	maxPages     int
}

func NewQuizService(store QuizStore, gen generate.Generator, extract pdftext.Extractor, maxQuestions, maxPages int) *QuizService {
	return &QuizService{
		store:        store,
		gen:          gen,
		extract:      extract,
		maxQuestions: maxQuestions,
		maxPages:     maxPages,
	}
}

// CreateQuiz extracts text from the uploaded PDF, generates up to the
// clamped number of questions, and persists the new quiz.
func (s *QuizService) CreateQuiz(ctx context.Context, filename string, payload []byte, requested int) (domain.UploadResponse, error) {
	if !strings.HasSuffix(strings.ToLower(filename), ".pdf") {
		return domain.UploadResponse{}, domain.ErrNotPDF
	}

	text, err := s.extract(payload, s.maxPages)
	if err != nil || strings.TrimSpace(text) == "" {
		return domain.UploadResponse{}, domain.ErrNoText
	}

	if requested <= 0 {
		requested = s.maxQuestions
	}
	target := requested
	if target > s.maxQuestions {
		target = s.maxQuestions
	}
	if target < 1 {
		target = 1
	}

	questions, err := s.gen.Generate(ctx, text, target)
	if err != nil {
		return domain.UploadResponse{}, fmt.Errorf("generate questions: %w", err)
	}

	quiz := domain.Quiz{
		QuizID:        newQuizID(),
		SourcePDFName: filename,
		Questions:     questions,
	}
	if err := s.store.Save(ctx, quiz); err != nil {
		return domain.UploadResponse{}, fmt.Errorf("save quiz: %w", err)
	}
	return domain.UploadResponse{QuizID: quiz.QuizID, NumQuestions: len(questions)}, nil
}

// GetQuiz returns the answer-free snapshot for one quiz.
func (s *QuizService) GetQuiz(ctx context.Context, quizID string) (domain.Snapshot, error) {
	quiz, err := s.store.Get(ctx, quizID)
	if err != nil {
		return domain.Snapshot{}, err
	}
	return domain.PublicSnapshot(quiz), nil
}

// SubmitAnswer checks one answer, marks the question correct when it
// is, and recomputes quiz completion. Correct answers carry the
// explanation; wrong ones carry the hint.
func (s *QuizService) SubmitAnswer(ctx context.Context, quizID string, req domain.AnswerRequest) (domain.AnswerResponse, error) {
	quiz, err := s.store.Get(ctx, quizID)
	if err != nil {
		return domain.AnswerResponse{}, err
	}

	var question *domain.Question
	for i := range quiz.Questions {
		if quiz.Questions[i].ID == req.QuestionID {
			question = &quiz.Questions[i]
			break
		}
	}
	if question == nil {
		return domain.AnswerResponse{}, domain.ErrQuestionNotFound
	}
	if req.SelectedOptionIndex < 0 || req.SelectedOptionIndex >= len(question.Options) {
		return domain.AnswerResponse{}, domain.ErrInvalidOptionIndex
	}

	correct := req.SelectedOptionIndex == question.CorrectOptionIndex
	if correct {
		question.IsCorrect = true
		quiz.Completed = quiz.AllCorrect()
	}
	if err := s.store.Save(ctx, quiz); err != nil {
		return domain.AnswerResponse{}, fmt.Errorf("save quiz: %w", err)
	}

	resp := domain.AnswerResponse{
		Correct:           correct,
		QuestionCompleted: correct,
		QuizCompleted:     quiz.Completed,
	}
	if correct {
		resp.Explanation = question.Explanation
	} else {
		resp.Hint = question.Hint
	}
	return resp, nil
}

func newQuizID() string {
	id := uuid.New()
	return hex.EncodeToString(id[:])
}
