package cli

import (
	"testing"

	"pdfmcq/internal/domain"
)

func TestParseOption(t *testing.T) {
	cases := []struct {
		input string
		count int
		want  int
	}{
		{"A", 4, 0},
		{"b", 4, 1},
		{"D", 4, 3},
		{"1", 4, 0},
		{"4", 4, 3},
		{"E", 4, -1},
		{"5", 4, -1},
		{"0", 4, -1},
		{"", 4, -1},
		{"  c  ", 4, 2},
		{"AB", 4, -1},
		{"banana", 4, -1},
		{"C", 2, -1},
	}
	for _, tc := range cases {
		if got := parseOption(tc.input, tc.count); got != tc.want {
			t.Errorf("parseOption(%q, %d) = %d, want %d", tc.input, tc.count, got, tc.want)
		}
	}
}

func TestCurrentQuestionSkipsAnswered(t *testing.T) {
	questions := []domain.SnapshotQuestion{
		{ID: "q1", IsCorrect: true},
		{ID: "q2", IsCorrect: false},
		{ID: "q3", IsCorrect: false},
	}
	current, ok := currentQuestion(questions)
	if !ok || current.ID != "q2" {
		t.Fatalf("expected q2, got %+v ok=%v", current, ok)
	}
}

func TestCurrentQuestionAllAnswered(t *testing.T) {
	questions := []domain.SnapshotQuestion{
		{ID: "q1", IsCorrect: true},
		{ID: "q2", IsCorrect: true},
	}
	if _, ok := currentQuestion(questions); ok {
		t.Fatal("expected no current question")
	}
}
