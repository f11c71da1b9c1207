package redis

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"pdfmcq/internal/domain"
)

func TestQuizStoreRoundTrip(t *testing.T) {
	mr, client := newTestRedis(t)
	store := NewQuizStore(client, nil, time.Minute)

	if err := store.Save(context.Background(), sampleQuiz("quiz-1")); err != nil {
		t.Fatalf("save: %v", err)
	}
	if !mr.Exists("quiz:quiz-1:doc") {
		t.Fatal("expected quiz document key in redis")
	}

	quiz, err := store.Get(context.Background(), "quiz-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if quiz.QuizID != "quiz-1" || len(quiz.Questions) != 2 {
		t.Fatalf("unexpected quiz %+v", quiz)
	}
}

func TestQuizStoreMissWithoutDurable(t *testing.T) {
	_, client := newTestRedis(t)
	store := NewQuizStore(client, nil, time.Minute)

	_, err := store.Get(context.Background(), "missing")
	if err != domain.ErrQuizNotFound {
		t.Fatalf("expected ErrQuizNotFound, got %v", err)
	}
}

func TestQuizStoreFallsBackToDurable(t *testing.T) {
	mr, client := newTestRedis(t)
	durable := &countingDurable{quizzes: map[string]domain.Quiz{
		"quiz-1": sampleQuiz("quiz-1"),
	}}
	store := NewQuizStore(client, durable, time.Minute)

	quiz, err := store.Get(context.Background(), "quiz-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if quiz.QuizID != "quiz-1" {
		t.Fatalf("unexpected quiz %+v", quiz)
	}
	if durable.loads != 1 {
		t.Fatalf("expected one durable load, got %d", durable.loads)
	}

	// The miss must have repopulated the cache.
	if !mr.Exists("quiz:quiz-1:doc") {
		t.Fatal("expected cache fill after durable load")
	}
	if _, err := store.Get(context.Background(), "quiz-1"); err != nil {
		t.Fatalf("second get: %v", err)
	}
	if durable.loads != 1 {
		t.Fatalf("expected cache hit, durable loads=%d", durable.loads)
	}
}

func TestQuizStoreWritesThroughToDurable(t *testing.T) {
	_, client := newTestRedis(t)
	durable := &countingDurable{quizzes: map[string]domain.Quiz{}}
	store := NewQuizStore(client, durable, time.Minute)

	if err := store.Save(context.Background(), sampleQuiz("quiz-1")); err != nil {
		t.Fatalf("save: %v", err)
	}
	if durable.stores != 1 {
		t.Fatalf("expected write-through, stores=%d", durable.stores)
	}
	if _, ok := durable.quizzes["quiz-1"]; !ok {
		t.Fatal("quiz missing from durable store")
	}
}

func TestQuizStoreDurableMissIsNotFound(t *testing.T) {
	_, client := newTestRedis(t)
	durable := &countingDurable{quizzes: map[string]domain.Quiz{}}
	store := NewQuizStore(client, durable, time.Minute)

	_, err := store.Get(context.Background(), "missing")
	if err != domain.ErrQuizNotFound {
		t.Fatalf("expected ErrQuizNotFound, got %v", err)
	}
}

type countingDurable struct {
	quizzes map[string]domain.Quiz
	loads   int
	stores  int
}

func (d *countingDurable) StoreQuiz(_ context.Context, quiz domain.Quiz) error {
	d.stores++
	d.quizzes[quiz.QuizID] = quiz
	return nil
}

func (d *countingDurable) LoadQuiz(_ context.Context, quizID string) (domain.Quiz, error) {
	d.loads++
	quiz, ok := d.quizzes[quizID]
	if !ok {
		return domain.Quiz{}, domain.ErrQuizNotFound
	}
	return quiz, nil
}

func sampleQuiz(id string) domain.Quiz {
	return domain.Quiz{
		QuizID:        id,
		SourcePDFName: "notes.pdf",
		Questions: []domain.Question{
			{
				ID:                 "q1",
				Question:           "What is 2 + 2?",
				Options:            []string{"3", "4", "5", "6"},
				CorrectOptionIndex: 1,
				Hint:               "Count on your fingers.",
				Explanation:        "2 + 2 = 4.",
			},
			{
				ID:                 "q2",
				Question:           "What is 3 + 3?",
				Options:            []string{"5", "6", "7", "8"},
				CorrectOptionIndex: 1,
				Hint:               "Double it.",
				Explanation:        "3 + 3 = 6.",
			},
		},
	}
}

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	t.Cleanup(mr.Close)
	return mr, redis.NewClient(&redis.Options{Addr: mr.Addr()})
}
