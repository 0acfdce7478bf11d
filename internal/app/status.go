package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"dailyquiz-service/internal/domain"
)

// StatusAggregator composes today's quiz, the caller's session, and streak
// counters into one status view.
type StatusAggregator struct {
	composer *QuizComposer
	sessions SessionRepository
	streaks  *StreakTracker
	now      func() time.Time
}

func NewStatusAggregator(composer *QuizComposer, sessions SessionRepository, streaks *StreakTracker) *StatusAggregator {
	return &StatusAggregator{composer: composer, sessions: sessions, streaks: streaks, now: time.Now}
}

// GetUserQuizStatus resolves "today" in the caller's timezone, never the
// server's: a user in Auckland and one in Honolulu can be on different quiz
// days at the same instant.
func (a *StatusAggregator) GetUserQuizStatus(ctx context.Context, userID, timezone string) (domain.UserQuizStatus, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return domain.UserQuizStatus{}, fmt.Errorf("%w: %q", domain.ErrInvalidTimezone, timezone)
	}
	today := a.now().In(loc).Format(dateLayout)

	quiz, err := a.composer.GenerateDailyQuiz(ctx, today)
	if err != nil {
		return domain.UserQuizStatus{}, err
	}
	questions, err := a.composer.QuestionsFor(ctx, quiz)
	if err != nil {
		return domain.UserQuizStatus{}, err
	}

	status := domain.UserQuizStatus{
		TodaysQuiz: quiz,
		Questions:  questions,
	}

	session, err := a.sessions.FindByUserAndQuiz(ctx, userID, quiz.ID)
	switch {
	case err == nil:
		if session.Status == domain.SessionCompleted {
			status.HasCompletedToday = true
		} else {
			status.CurrentSession = &session
		}
	case errors.Is(err, domain.ErrSessionNotFound):
		// fresh day, no attempt yet
	default:
		return domain.UserQuizStatus{}, err
	}

	record, err := a.streaks.Current(ctx, userID)
	if err != nil {
		return domain.UserQuizStatus{}, err
	}
	status.StreakInfo = domain.StreakInfo{
		Current: record.CurrentStreak,
		Longest: record.LongestStreak,
	}
	return status, nil
}
