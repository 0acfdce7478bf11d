package redis

import (
	"context"
	"testing"
	"time"

	"dailyquiz-service/internal/domain"
	"dailyquiz-service/internal/infra/memory"
	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestQuestionPoolCachesLists(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := newClient(mr)
	loader := &countingLoader{PoolLoader: memory.NewQuestionPool(sampleQuestions())}
	pool := NewQuestionPool(client, loader, time.Minute)

	questions, err := pool.ListApproved(context.Background(), domain.DifficultyEasy)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(questions) != 2 {
		t.Fatalf("expected 2 easy questions, got %d", len(questions))
	}
	if loader.listCalls != 1 {
		t.Fatalf("expected loader called once, got %d", loader.listCalls)
	}

	// Second call hits the cache.
	cached, err := pool.ListApproved(context.Background(), domain.DifficultyEasy)
	if err != nil {
		t.Fatalf("list cached: %v", err)
	}
	if loader.listCalls != 1 {
		t.Fatalf("expected cache hit, loader calls=%d", loader.listCalls)
	}
	// The correct answer must survive the round trip; grading depends on it.
	for _, q := range cached {
		if q.CorrectAnswer == "" {
			t.Fatalf("correct answer lost in cache for %s", q.ID)
		}
	}
}

func TestQuestionPoolGetByIDsFillsFromCache(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := newClient(mr)
	loader := &countingLoader{PoolLoader: memory.NewQuestionPool(sampleQuestions())}
	pool := NewQuestionPool(client, loader, time.Minute)

	// Prime per-question keys via the list path.
	if _, err := pool.ListApproved(context.Background(), domain.DifficultyEasy); err != nil {
		t.Fatalf("prime: %v", err)
	}

	questions, err := pool.GetByIDs(context.Background(), []string{"e1", "e2"})
	if err != nil {
		t.Fatalf("get by ids: %v", err)
	}
	if len(questions) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(questions))
	}
	if loader.getCalls != 0 {
		t.Fatalf("expected cached reads only, loader getCalls=%d", loader.getCalls)
	}
}

func TestQuestionPoolGetByIDsFallsBackToLoader(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := newClient(mr)
	loader := &countingLoader{PoolLoader: memory.NewQuestionPool(sampleQuestions())}
	pool := NewQuestionPool(client, loader, time.Minute)

	questions, err := pool.GetByIDs(context.Background(), []string{"m1", "h1"})
	if err != nil {
		t.Fatalf("get by ids: %v", err)
	}
	if len(questions) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(questions))
	}
	if loader.getCalls != 1 {
		t.Fatalf("expected one loader call for misses, got %d", loader.getCalls)
	}
}

type countingLoader struct {
	PoolLoader
	listCalls int
	getCalls  int
}

func (l *countingLoader) ListApproved(ctx context.Context, difficulty domain.Difficulty) ([]domain.Question, error) {
	l.listCalls++
	return l.PoolLoader.ListApproved(ctx, difficulty)
}

func (l *countingLoader) GetByIDs(ctx context.Context, ids []string) ([]domain.Question, error) {
	l.getCalls++
	return l.PoolLoader.GetByIDs(ctx, ids)
}

func sampleQuestions() []domain.Question {
	approved := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	return []domain.Question{
		{ID: "e1", Prompt: "easy one", Choices: []string{"A", "B"}, CorrectAnswer: "A", Difficulty: domain.DifficultyEasy, ApprovedAt: approved},
		{ID: "e2", Prompt: "easy two", Choices: []string{"A", "B"}, CorrectAnswer: "B", Difficulty: domain.DifficultyEasy, ApprovedAt: approved},
		{ID: "m1", Prompt: "medium one", Choices: []string{"A", "B"}, CorrectAnswer: "A", Difficulty: domain.DifficultyMedium, ApprovedAt: approved},
		{ID: "h1", Prompt: "hard one", Choices: []string{"A", "B"}, CorrectAnswer: "B", Difficulty: domain.DifficultyHard, ApprovedAt: approved},
	}
}

func newClient(mr *miniredis.Miniredis) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
}
