package session_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"pdfmcq/internal/domain"
	"pdfmcq/internal/session"
)

// The fake server marks option 1 correct on every question.
const (
	correctIndex = 1
	wrongIndex   = 0
)

// serverState is the fake backend's authoritative quiz.
type serverState struct {
	ID        string
	Completed bool
	Questions []domain.SnapshotQuestion
}

func serverQuiz(id string, n int) serverState {
	questions := make([]domain.SnapshotQuestion, 0, n)
	for i := 1; i <= n; i++ {
		questions = append(questions, domain.SnapshotQuestion{
			ID:       fmt.Sprintf("q%d", i),
			Question: fmt.Sprintf("Question %d", i),
			Options:  []string{"Alpha", "Beta", "Gamma", "Delta"},
		})
	}
	return serverState{ID: id, Questions: questions}
}

func markAllCorrect(quiz *serverState) {
	for i := range quiz.Questions {
		quiz.Questions[i].IsCorrect = true
	}
	quiz.Completed = true
}

// fakeAPI implements session.QuizAPI against the in-memory serverState.
type fakeAPI struct {
	mu   sync.Mutex
	quiz serverState

	uploadErr  error
	fetchErr   error
	answerErr  error
	answerGate func()

	uploadCalls int
	answerCalls int
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{}
}

func (f *fakeAPI) Upload(_ context.Context, _ session.Document, _ int) (<-chan session.ProgressEvent, <-chan session.UploadResult) {
	f.mu.Lock()
	f.uploadCalls++
	resp := domain.UploadResponse{QuizID: f.quiz.ID, NumQuestions: len(f.quiz.Questions)}
	err := f.uploadErr
	f.mu.Unlock()

	events := make(chan session.ProgressEvent, 4)
	events <- session.ProgressEvent{Percent: 10, Label: "Starting upload…"}
	events <- session.ProgressEvent{Percent: 40, Label: "Uploading PDF…"}
	events <- session.ProgressEvent{Percent: 85, Label: "Generating questions…"}
	close(events)

	result := make(chan session.UploadResult, 1)
	if err != nil {
		result <- session.UploadResult{Err: err}
	} else {
		result <- session.UploadResult{Resp: resp}
	}
	close(result)
	return events, result
}

func (f *fakeAPI) FetchSnapshot(_ context.Context, quizID string) (domain.Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fetchErr != nil {
		return domain.Snapshot{}, f.fetchErr
	}
	if quizID != f.quiz.ID {
		return domain.Snapshot{}, errors.New("Quiz not found.")
	}
	questions := make([]domain.SnapshotQuestion, len(f.quiz.Questions))
	copy(questions, f.quiz.Questions)
	return domain.Snapshot{QuizID: quizID, Completed: f.quiz.Completed, Questions: questions}, nil
}

func (f *fakeAPI) SubmitAnswer(_ context.Context, quizID string, req domain.AnswerRequest) (domain.AnswerResponse, error) {
	f.mu.Lock()
	f.answerCalls++
	gate := f.answerGate
	f.mu.Unlock()
	if gate != nil {
		gate()
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.answerErr != nil {
		return domain.AnswerResponse{}, f.answerErr
	}
	if quizID != f.quiz.ID {
		return domain.AnswerResponse{}, errors.New("Quiz not found.")
	}

	var question *domain.SnapshotQuestion
	for i := range f.quiz.Questions {
		if f.quiz.Questions[i].ID == req.QuestionID {
			question = &f.quiz.Questions[i]
			break
		}
	}
	if question == nil {
		return domain.AnswerResponse{}, errors.New("Question not found.")
	}

	correct := req.SelectedOptionIndex == correctIndex
	if correct {
		question.IsCorrect = true
		completed := true
		for _, q := range f.quiz.Questions {
			if !q.IsCorrect {
				completed = false
				break
			}
		}
		f.quiz.Completed = completed
	}

	resp := domain.AnswerResponse{
		Correct:           correct,
		QuestionCompleted: correct,
		QuizCompleted:     f.quiz.Completed,
	}
	if correct {
		resp.Explanation = "explanation for " + question.ID
	} else {
		resp.Hint = "hint for " + question.ID
	}
	return resp, nil
}

// recorder captures every render command for assertions.
type shownQuestion struct {
	q              domain.SnapshotQuestion
	completedTotal int
	total          int
}

type feedbackMsg struct {
	kind    session.FeedbackKind
	message string
}

type progressUpdate struct {
	percent int
	label   string
}

type recorder struct {
	questions []shownQuestion
	completed int
	summaries []session.Summary
	feedback  []feedbackMsg
	progress  []progressUpdate
}

func (r *recorder) ShowQuestion(q domain.SnapshotQuestion, completedTotal, total int) {
	r.questions = append(r.questions, shownQuestion{q: q, completedTotal: completedTotal, total: total})
}

func (r *recorder) ShowCompleted(int) {
	r.completed++
}

func (r *recorder) ShowSummary(s session.Summary) {
	r.summaries = append(r.summaries, s)
}

func (r *recorder) ShowFeedback(kind session.FeedbackKind, message string) {
	r.feedback = append(r.feedback, feedbackMsg{kind: kind, message: message})
}

func (r *recorder) SetProgress(percent int, label string) {
	r.progress = append(r.progress, progressUpdate{percent: percent, label: label})
}

func pdfDoc() session.Document {
	return session.Document{Name: "doc.pdf", Content: strings.NewReader("%PDF-1.4 test"), Size: 13}
}
