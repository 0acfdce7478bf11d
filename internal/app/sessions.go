package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"dailyquiz-service/internal/domain"
	"github.com/google/uuid"
)

// SessionManager creates or resumes a user's attempt at a daily quiz.
type SessionManager struct {
	sessions SessionRepository
	quizzes  DailyQuizRepository
	now      func() time.Time
}

func NewSessionManager(sessions SessionRepository, quizzes DailyQuizRepository) *SessionManager {
	return &SessionManager{sessions: sessions, quizzes: quizzes, now: time.Now}
}

// StartQuizSession is idempotent: the existing session for (user, quiz) is
// returned as-is whatever its status, so a completed session is never
// recreated. Concurrent starts for the same pair converge on one session via
// the repository's insert-if-absent.
func (m *SessionManager) StartQuizSession(ctx context.Context, userID, dailyQuizID, timezone string) (domain.QuizSession, error) {
	if timezone != "" {
		if _, err := time.LoadLocation(timezone); err != nil {
			return domain.QuizSession{}, fmt.Errorf("%w: %q", domain.ErrInvalidTimezone, timezone)
		}
	}

	session, err := m.sessions.FindByUserAndQuiz(ctx, userID, dailyQuizID)
	if err == nil {
		return session, nil
	}
	if !errors.Is(err, domain.ErrSessionNotFound) {
		return domain.QuizSession{}, err
	}

	if _, err := m.quizzes.FindByID(ctx, dailyQuizID); err != nil {
		return domain.QuizSession{}, err
	}

	now := m.now().UTC()
	session = domain.QuizSession{
		ID:             uuid.NewString(),
		UserID:         userID,
		DailyQuizID:    dailyQuizID,
		CurrentIndex:   0,
		Answers:        map[string]string{},
		Status:         domain.SessionInProgress,
		Timezone:       timezone,
		StartedAt:      now,
		LastActivityAt: now,
	}
	return m.sessions.CreateIfAbsent(ctx, session)
}
