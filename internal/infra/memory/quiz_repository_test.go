package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"dailyquiz-service/internal/domain"
)

func TestQuizRepositoryCreateIfAbsent(t *testing.T) {
	ctx := context.Background()
	repo := NewQuizRepository()

	first := domain.DailyQuiz{ID: "quiz-a", Date: "2025-03-10", QuestionIDs: []string{"q1", "q2"}, CreatedAt: time.Now()}
	created, err := repo.CreateIfAbsent(ctx, first)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID != "quiz-a" {
		t.Fatalf("expected inserted quiz, got %+v", created)
	}

	// Second insert for the same date loses and observes the winner.
	loser := domain.DailyQuiz{ID: "quiz-b", Date: "2025-03-10", QuestionIDs: []string{"q3"}}
	winner, err := repo.CreateIfAbsent(ctx, loser)
	if err != nil {
		t.Fatalf("create conflict: %v", err)
	}
	if winner.ID != "quiz-a" {
		t.Fatalf("expected winner quiz-a, got %s", winner.ID)
	}

	if _, err := repo.FindByID(ctx, "quiz-b"); !errors.Is(err, domain.ErrQuizNotFound) {
		t.Fatalf("loser must not be stored, got %v", err)
	}
}

func TestQuizRepositoryFindByDateMissing(t *testing.T) {
	repo := NewQuizRepository()
	if _, err := repo.FindByDate(context.Background(), "2025-01-01"); !errors.Is(err, domain.ErrQuizNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestQuizRepositoryReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewQuizRepository()
	_, _ = repo.CreateIfAbsent(ctx, domain.DailyQuiz{ID: "quiz-a", Date: "2025-03-10", QuestionIDs: []string{"q1"}})

	got, _ := repo.FindByDate(ctx, "2025-03-10")
	got.QuestionIDs[0] = "mutated"

	fresh, _ := repo.FindByDate(ctx, "2025-03-10")
	if fresh.QuestionIDs[0] != "q1" {
		t.Fatalf("stored quiz was mutated through a returned copy")
	}
}
