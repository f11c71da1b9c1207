package cli

import (
	"fmt"
	"io"
	"strings"

	"pdfmcq/internal/domain"
	"pdfmcq/internal/session"
)

// termRenderer is the terminal implementation of session.Renderer.
type termRenderer struct {
	out       io.Writer
	barActive bool
}

func newTermRenderer(out io.Writer) *termRenderer {
	return &termRenderer{out: out}
}

func (r *termRenderer) SetProgress(percent int, label string) {
	const cells = 24
	filled := percent * cells / 100
	bar := strings.Repeat("#", filled) + strings.Repeat("-", cells-filled)
	fmt.Fprintf(r.out, "\r[%s] %3d%% %-24s", bar, percent, label)
	r.barActive = true
	if percent >= 100 || percent == 0 {
		fmt.Fprintln(r.out)
		r.barActive = false
	}
}

func (r *termRenderer) ShowQuestion(q domain.SnapshotQuestion, completedTotal, total int) {
	r.endBar()
	fmt.Fprintf(r.out, "\n[MCQ] %d/%d correct\n", completedTotal, total)
	fmt.Fprintf(r.out, "%s\n", q.Question)
	for i, opt := range q.Options {
		fmt.Fprintf(r.out, "  %c) %s\n", 'A'+i, opt)
	}
}

func (r *termRenderer) ShowCompleted(total int) {
	r.endBar()
	fmt.Fprintf(r.out, "\nAll questions complete (%d/%d)\n", total, total)
	fmt.Fprintln(r.out, "🎉 All questions answered correctly!")
}

func (r *termRenderer) ShowSummary(s session.Summary) {
	fmt.Fprintln(r.out, "\nPerformance Summary")
	fmt.Fprintf(r.out, "  Questions:             %d\n", s.Total)
	fmt.Fprintf(r.out, "  Total attempts:        %d\n", s.TotalAttempts)
	fmt.Fprintf(r.out, "  Avg attempts/question: %s\n", s.AvgAttemptsDisplay())
	fmt.Fprintf(r.out, "  First-try correct:     %d/%d\n", s.FirstTryCorrect, s.Total)
}

func (r *termRenderer) ShowFeedback(kind session.FeedbackKind, message string) {
	r.endBar()
	prefix := map[session.FeedbackKind]string{
		session.FeedbackSuccess: "✓",
		session.FeedbackHint:    "·",
		session.FeedbackError:   "✗",
	}[kind]
	fmt.Fprintf(r.out, "%s %s\n", prefix, message)
}

// endBar drops to a fresh line if a progress bar is mid-draw.
func (r *termRenderer) endBar() {
	if r.barActive {
		fmt.Fprintln(r.out)
		r.barActive = false
	}
}
