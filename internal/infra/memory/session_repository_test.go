package memory

import (
	"context"
	"errors"
	"testing"

	"dailyquiz-service/internal/domain"
)

func TestSessionRepositoryCreateIfAbsent(t *testing.T) {
	ctx := context.Background()
	repo := NewSessionRepository()

	session := domain.QuizSession{ID: "s1", UserID: "u1", DailyQuizID: "quiz-a", Status: domain.SessionInProgress, Answers: map[string]string{}}
	if _, err := repo.CreateIfAbsent(ctx, session); err != nil {
		t.Fatalf("create: %v", err)
	}

	duplicate := domain.QuizSession{ID: "s2", UserID: "u1", DailyQuizID: "quiz-a", Status: domain.SessionInProgress}
	winner, err := repo.CreateIfAbsent(ctx, duplicate)
	if err != nil {
		t.Fatalf("create duplicate: %v", err)
	}
	if winner.ID != "s1" {
		t.Fatalf("expected existing session s1, got %s", winner.ID)
	}

	// A different quiz for the same user is a separate session.
	other := domain.QuizSession{ID: "s3", UserID: "u1", DailyQuizID: "quiz-b", Status: domain.SessionInProgress}
	created, err := repo.CreateIfAbsent(ctx, other)
	if err != nil {
		t.Fatalf("create other: %v", err)
	}
	if created.ID != "s3" {
		t.Fatalf("expected new session for other quiz, got %s", created.ID)
	}
}

func TestSessionRepositoryUpdate(t *testing.T) {
	ctx := context.Background()
	repo := NewSessionRepository()

	session := domain.QuizSession{ID: "s1", UserID: "u1", DailyQuizID: "quiz-a", Status: domain.SessionInProgress, Answers: map[string]string{}}
	_, _ = repo.CreateIfAbsent(ctx, session)

	session.Answers["q1"] = "A"
	session.CurrentIndex = 1
	if err := repo.Update(ctx, session); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, err := repo.FindByID(ctx, "s1")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got.CurrentIndex != 1 || got.Answers["q1"] != "A" {
		t.Fatalf("update not applied: %+v", got)
	}
}

func TestSessionRepositoryUpdateMissing(t *testing.T) {
	repo := NewSessionRepository()
	err := repo.Update(context.Background(), domain.QuizSession{ID: "ghost"})
	if !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestSessionRepositoryReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewSessionRepository()
	_, _ = repo.CreateIfAbsent(ctx, domain.QuizSession{ID: "s1", UserID: "u1", DailyQuizID: "quiz-a", Answers: map[string]string{"q1": "A"}})

	got, _ := repo.FindByID(ctx, "s1")
	got.Answers["q1"] = "tampered"

	fresh, _ := repo.FindByID(ctx, "s1")
	if fresh.Answers["q1"] != "A" {
		t.Fatalf("stored session mutated through a returned copy")
	}
}
