package session

import "pdfmcq/internal/domain"

// FeedbackKind classifies a feedback message for presentation.
type FeedbackKind string

const (
	FeedbackSuccess FeedbackKind = "success"
	FeedbackHint    FeedbackKind = "hint"
	FeedbackError   FeedbackKind = "error"
)

// Renderer is the presentation sink the Controller drives. The
// Controller never reads anything back from it.
type Renderer interface {
	// ShowQuestion displays the current question with its options in
	// server order, plus a completedTotal/total status pill.
	ShowQuestion(q domain.SnapshotQuestion, completedTotal, total int)
	// ShowCompleted displays the terminal all-correct view.
	ShowCompleted(total int)
	// ShowSummary displays the end-of-session statistics.
	ShowSummary(s Summary)
	// ShowFeedback displays a transient message of the given kind.
	ShowFeedback(kind FeedbackKind, message string)
	// SetProgress updates the upload progress indicator.
	SetProgress(percent int, label string)
}
