package app_test

import (
	"context"
	"errors"
	"testing"

	"dailyquiz-service/internal/app"
	"dailyquiz-service/internal/domain"
	"dailyquiz-service/internal/infra/memory"
)

func TestStreakConsecutiveDays(t *testing.T) {
	ctx := context.Background()
	tracker := app.NewStreakTracker(memory.NewStreakRepository())

	record, err := tracker.OnPerfectCompletion(ctx, "u1", "2025-03-10")
	if err != nil {
		t.Fatalf("day one: %v", err)
	}
	if record.CurrentStreak != 1 || record.LongestStreak != 1 {
		t.Fatalf("expected 1/1 after first perfect day, got %+v", record)
	}

	record, err = tracker.OnPerfectCompletion(ctx, "u1", "2025-03-11")
	if err != nil {
		t.Fatalf("day two: %v", err)
	}
	if record.CurrentStreak != 2 || record.LongestStreak != 2 {
		t.Fatalf("expected 2/2 after consecutive day, got %+v", record)
	}
	if record.LastPerfectDate != "2025-03-11" {
		t.Fatalf("last perfect date not advanced: %s", record.LastPerfectDate)
	}
}

func TestStreakResetsAfterGap(t *testing.T) {
	ctx := context.Background()
	tracker := app.NewStreakTracker(memory.NewStreakRepository())

	_, _ = tracker.OnPerfectCompletion(ctx, "u1", "2025-03-10")
	_, _ = tracker.OnPerfectCompletion(ctx, "u1", "2025-03-11")

	// Skip the 12th entirely.
	record, err := tracker.OnPerfectCompletion(ctx, "u1", "2025-03-13")
	if err != nil {
		t.Fatalf("after gap: %v", err)
	}
	if record.CurrentStreak != 1 {
		t.Fatalf("expected streak restart at 1, got %d", record.CurrentStreak)
	}
	if record.LongestStreak != 2 {
		t.Fatalf("longest watermark lost: %d", record.LongestStreak)
	}
}

func TestStreakSameDayIsNoOp(t *testing.T) {
	ctx := context.Background()
	tracker := app.NewStreakTracker(memory.NewStreakRepository())

	_, _ = tracker.OnPerfectCompletion(ctx, "u1", "2025-03-10")
	record, err := tracker.OnPerfectCompletion(ctx, "u1", "2025-03-10")
	if err != nil {
		t.Fatalf("same day: %v", err)
	}
	if record.CurrentStreak != 1 {
		t.Fatalf("same-day replay must not increment, got %d", record.CurrentStreak)
	}
}

func TestStreakMonthBoundary(t *testing.T) {
	ctx := context.Background()
	tracker := app.NewStreakTracker(memory.NewStreakRepository())

	_, _ = tracker.OnPerfectCompletion(ctx, "u1", "2025-03-31")
	record, err := tracker.OnPerfectCompletion(ctx, "u1", "2025-04-01")
	if err != nil {
		t.Fatalf("month boundary: %v", err)
	}
	if record.CurrentStreak != 2 {
		t.Fatalf("expected streak to cross month boundary, got %d", record.CurrentStreak)
	}
}

func TestImperfectLeavesStreakUntouched(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewStreakRepository()
	tracker := app.NewStreakTracker(repo)

	_, _ = tracker.OnPerfectCompletion(ctx, "u1", "2025-03-10")
	record, err := tracker.OnImperfectCompletion(ctx, "u1", "2025-03-11")
	if err != nil {
		t.Fatalf("imperfect: %v", err)
	}
	if record.CurrentStreak != 1 || record.LastPerfectDate != "2025-03-10" {
		t.Fatalf("imperfect completion mutated the streak: %+v", record)
	}
}

func TestImperfectSeedsRecordForNewUser(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewStreakRepository()
	tracker := app.NewStreakTracker(repo)

	record, err := tracker.OnImperfectCompletion(ctx, "fresh", "2025-03-10")
	if err != nil {
		t.Fatalf("imperfect: %v", err)
	}
	if record.UserID != "fresh" || record.CurrentStreak != 0 {
		t.Fatalf("expected zero-valued record, got %+v", record)
	}
	stored, _ := repo.Get(ctx, "fresh")
	if stored.UserID != "fresh" {
		t.Fatalf("record not persisted")
	}
}

func TestStreakRejectsMalformedDate(t *testing.T) {
	tracker := app.NewStreakTracker(memory.NewStreakRepository())
	if _, err := tracker.OnPerfectCompletion(context.Background(), "u1", "March 10"); !errors.Is(err, domain.ErrInvalidDate) {
		t.Fatalf("expected invalid date, got %v", err)
	}
}
