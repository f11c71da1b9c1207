package domain

// Question is the server-side MCQ model, including answer data that is
// never exposed to quiz takers.
type Question struct {
	ID                 string   `json:"id"`
	Question           string   `json:"question"`
	Options            []string `json:"options"`
	CorrectOptionIndex int      `json:"correct_option_index"`
	Hint               string   `json:"hint"`
	Explanation        string   `json:"explanation"`
	IsCorrect          bool     `json:"is_correct"`
}

// Quiz is one generated quiz keyed by a server-issued id.
type Quiz struct {
	QuizID        string     `json:"quiz_id"`
	SourcePDFName string     `json:"source_pdf_name"`
	Questions     []Question `json:"questions"`
	Completed     bool       `json:"completed"`
}

// AllCorrect reports whether every question has been answered correctly.
func (q Quiz) AllCorrect() bool {
	for _, question := range q.Questions {
		if !question.IsCorrect {
			return false
		}
	}
	return true
}

// SnapshotQuestion is the answer-free view of a question as served to
// clients. Options keep their server order; the display index doubles
// as the selection index.
type SnapshotQuestion struct {
	ID        string   `json:"id"`
	Question  string   `json:"question"`
	Options   []string `json:"options"`
	IsCorrect bool     `json:"is_correct"`
}

// Snapshot is the full server-authoritative quiz state as of one fetch.
type Snapshot struct {
	QuizID    string             `json:"quiz_id"`
	Completed bool               `json:"completed"`
	Questions []SnapshotQuestion `json:"questions"`
}

// UploadResponse is returned once a quiz has been generated from an
// uploaded document.
type UploadResponse struct {
	QuizID       string `json:"quiz_id"`
	NumQuestions int    `json:"num_questions"`
}

// AnswerRequest is one answer submission for a single question.
type AnswerRequest struct {
	QuestionID          string `json:"question_id"`
	SelectedOptionIndex int    `json:"selected_option_index"`
}

// AnswerResponse reports the outcome of a submission. Explanation is set
// only on a correct answer, Hint only on a wrong one.
type AnswerResponse struct {
	Correct           bool   `json:"correct"`
	Explanation       string `json:"explanation,omitempty"`
	Hint              string `json:"hint,omitempty"`
	QuestionCompleted bool   `json:"question_completed"`
	QuizCompleted     bool   `json:"quiz_completed"`
}

// ConfigResponse bounds client inputs (requested question count, pages
// read from the PDF).
type ConfigResponse struct {
	MaxQuestions int `json:"max_questions"`
	MaxPages     int `json:"max_pages"`
}

// PublicSnapshot strips answer data from a quiz for client consumption.
func PublicSnapshot(quiz Quiz) Snapshot {
	questions := make([]SnapshotQuestion, 0, len(quiz.Questions))
	for _, q := range quiz.Questions {
		questions = append(questions, SnapshotQuestion{
			ID:        q.ID,
			Question:  q.Question,
			Options:   q.Options,
			IsCorrect: q.IsCorrect,
		})
	}
	return Snapshot{QuizID: quiz.QuizID, Completed: quiz.Completed, Questions: questions}
}
