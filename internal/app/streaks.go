package app

import (
	"context"
	"fmt"
	"time"

	"dailyquiz-service/internal/domain"
)

// StreakTracker maintains per-user consecutive-perfect-completion counters.
type StreakTracker struct {
	streaks StreakRepository
}

func NewStreakTracker(streaks StreakRepository) *StreakTracker {
	return &StreakTracker{streaks: streaks}
}

// OnPerfectCompletion extends the streak when date immediately follows the
// previous perfect date, otherwise restarts it at 1. Reporting the same date
// twice is a no-op, which keeps completion replays from double-counting.
func (t *StreakTracker) OnPerfectCompletion(ctx context.Context, userID, date string) (domain.StreakRecord, error) {
	if _, err := time.Parse(dateLayout, date); err != nil {
		return domain.StreakRecord{}, fmt.Errorf("%w: %q", domain.ErrInvalidDate, date)
	}

	record, err := t.streaks.Get(ctx, userID)
	if err != nil {
		return domain.StreakRecord{}, err
	}
	record.UserID = userID

	if record.LastPerfectDate == date {
		return record, nil
	}
	if record.LastPerfectDate == previousDay(date) {
		record.CurrentStreak++
	} else {
		record.CurrentStreak = 1
	}
	if record.CurrentStreak > record.LongestStreak {
		record.LongestStreak = record.CurrentStreak
	}
	record.LastPerfectDate = date

	if err := t.streaks.Upsert(ctx, record); err != nil {
		return domain.StreakRecord{}, err
	}
	return record, nil
}

// OnImperfectCompletion records the completion without touching the current
// streak. A lapsed streak is reset lazily by the gap check on the next
// perfect day; eager resets here would be a product decision, not a
// correctness one.
func (t *StreakTracker) OnImperfectCompletion(ctx context.Context, userID, date string) (domain.StreakRecord, error) {
	record, err := t.streaks.Get(ctx, userID)
	if err != nil {
		return domain.StreakRecord{}, err
	}
	if record.UserID == "" {
		record.UserID = userID
		if err := t.streaks.Upsert(ctx, record); err != nil {
			return domain.StreakRecord{}, err
		}
	}
	return record, nil
}

// Current returns the user's streak counters, zero-valued for new users.
func (t *StreakTracker) Current(ctx context.Context, userID string) (domain.StreakRecord, error) {
	record, err := t.streaks.Get(ctx, userID)
	if err != nil {
		return domain.StreakRecord{}, err
	}
	record.UserID = userID
	return record, nil
}

func previousDay(date string) string {
	day, err := time.Parse(dateLayout, date)
	if err != nil {
		return ""
	}
	return day.AddDate(0, 0, -1).Format(dateLayout)
}
