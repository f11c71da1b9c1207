package session

import (
	"context"
	"errors"
	"io"
	"sync"

	"pdfmcq/internal/domain"
)

var (
	// ErrNoDocument is returned when StartSession is called without a file.
	ErrNoDocument = errors.New("no document supplied")
	// ErrNoOptionSelected is returned when AnswerCurrent is called without a choice.
	ErrNoOptionSelected = errors.New("no option selected")
	// ErrBusy rejects an operation while another one is in flight.
	ErrBusy = errors.New("session operation already in flight")
)

const (
	msgChoosePDF    = "Please choose a PDF."
	msgChooseOption = "Please choose an option."
)

// Document is an upload payload. A Size <= 0 means the total is not
// knowable, which degrades progress reporting to a fixed mid-range value.
type Document struct {
	Name    string
	Content io.Reader
	Size    int64
}

// UploadResult is the terminal outcome of one upload, delivered after
// the progress event channel has been closed.
type UploadResult struct {
	Resp domain.UploadResponse
	Err  error
}

// QuizAPI is the remote quiz service as seen by the Controller.
type QuizAPI interface {
	// Upload streams the document and returns a progress event channel
	// plus a single-value result channel. Progress percentages are
	// non-decreasing; the event channel is closed before the result is
	// delivered.
	Upload(ctx context.Context, doc Document, numQuestions int) (<-chan ProgressEvent, <-chan UploadResult)
	FetchSnapshot(ctx context.Context, quizID string) (domain.Snapshot, error)
	SubmitAnswer(ctx context.Context, quizID string, req domain.AnswerRequest) (domain.AnswerResponse, error)
}

// Controller orchestrates the upload -> fetch -> render -> answer ->
// refetch cycle over a Store it exclusively owns. Server snapshots are
// authoritative: the Controller never marks a question correct locally.
type Controller struct {
	api   QuizAPI
	view  Renderer
	store *Store

	mu   sync.Mutex
	busy bool
}

func NewController(api QuizAPI, view Renderer) *Controller {
	return &Controller{api: api, view: view, store: NewStore()}
}

// Store exposes the session state for read-only inspection.
func (c *Controller) Store() *Store {
	return c.store
}

// StartSession uploads a document, rebinds the store to the created
// quiz, and renders the first question. A failure at any step reports
// the message, resets progress to idle, and leaves any prior session
// state exactly as it was.
func (c *Controller) StartSession(ctx context.Context, doc Document, requestedCount int) error {
	if doc.Content == nil {
		c.view.ShowFeedback(FeedbackError, msgChoosePDF)
		return ErrNoDocument
	}
	if !c.acquire() {
		return ErrBusy
	}
	defer c.release()

	c.view.SetProgress(10, "Preparing upload…")

	events, result := c.api.Upload(ctx, doc, requestedCount)
	for ev := range events {
		c.view.SetProgress(ClampPercent(ev.Percent), ev.Label)
	}
	res := <-result
	if res.Err != nil {
		c.fail(res.Err)
		return res.Err
	}

	// Fetch before committing so a quiz that never renders cannot
	// leave a stale id behind.
	snap, err := c.api.FetchSnapshot(ctx, res.Resp.QuizID)
	if err != nil {
		c.fail(err)
		return err
	}
	c.store.Reset(res.Resp.QuizID)
	c.applySnapshot(snap)

	c.view.SetProgress(100, "Quiz generated.")
	return nil
}

// RefreshAndRender refetches the snapshot for the current quiz and
// re-renders the view derived from it.
func (c *Controller) RefreshAndRender(ctx context.Context) error {
	snap, err := c.api.FetchSnapshot(ctx, c.store.QuizID())
	if err != nil {
		return err
	}
	c.applySnapshot(snap)
	return nil
}

// AnswerCurrent submits an answer for a question and refetches the
// snapshot regardless of the outcome branch. Attempts are counted per
// accepted submission, correct or not.
func (c *Controller) AnswerCurrent(ctx context.Context, questionID string, selectedOptionIndex int) error {
	if selectedOptionIndex < 0 {
		c.view.ShowFeedback(FeedbackError, msgChooseOption)
		return ErrNoOptionSelected
	}
	if !c.acquire() {
		return ErrBusy
	}
	defer c.release()

	resp, err := c.api.SubmitAnswer(ctx, c.store.QuizID(), domain.AnswerRequest{
		QuestionID:          questionID,
		SelectedOptionIndex: selectedOptionIndex,
	})
	if err != nil {
		c.view.ShowFeedback(FeedbackError, err.Error())
		return err
	}

	c.store.RecordAttempt(questionID)

	switch {
	case resp.QuizCompleted:
		// The completion view supersedes per-question feedback.
	case resp.Correct:
		c.view.ShowFeedback(FeedbackSuccess, "Correct! "+resp.Explanation)
	default:
		c.view.ShowFeedback(FeedbackHint, "Try again. Hint: "+resp.Hint)
	}

	if err := c.RefreshAndRender(ctx); err != nil {
		c.view.ShowFeedback(FeedbackError, err.Error())
		return err
	}
	return nil
}

// applySnapshot replaces the stored question list and renders either
// the current question or the completion view.
func (c *Controller) applySnapshot(snap domain.Snapshot) {
	c.store.ReplaceQuestions(snap.Questions)

	total := len(snap.Questions)
	completedTotal := 0
	for _, q := range snap.Questions {
		if q.IsCorrect {
			completedTotal++
		}
	}

	// The explicit flag is authoritative; the count check covers
	// snapshots that omit it. Either alone triggers completion.
	if snap.Completed || completedTotal == total {
		c.view.ShowCompleted(total)
		if c.store.markSummaryShown() {
			c.view.ShowSummary(Summarize(c.store.Questions(), c.store.Attempts()))
		}
		return
	}

	for _, q := range snap.Questions {
		if !q.IsCorrect {
			c.view.ShowQuestion(q, completedTotal, total)
			return
		}
	}

	// Inconsistent snapshot: not complete by count yet nothing left to
	// ask. Fail open with the terminal view instead of crashing.
	c.view.ShowCompleted(total)
}

func (c *Controller) fail(err error) {
	c.view.ShowFeedback(FeedbackError, err.Error())
	c.view.SetProgress(0, "Idle")
}

func (c *Controller) acquire() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.busy {
		return false
	}
	c.busy = true
	return true
}

func (c *Controller) release() {
	c.mu.Lock()
	c.busy = false
	c.mu.Unlock()
}
