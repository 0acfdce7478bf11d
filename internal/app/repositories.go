package app

import (
	"context"

	"dailyquiz-service/internal/domain"
)

// QuestionPool is the read-only provider of approved questions. The
// authoring and moderation pipeline that fills it lives outside this service.
type QuestionPool interface {
	ListApproved(ctx context.Context, difficulty domain.Difficulty) ([]domain.Question, error)
	GetByIDs(ctx context.Context, ids []string) ([]domain.Question, error)
}

// DailyQuizRepository stores the one-per-date daily quizzes.
type DailyQuizRepository interface {
	FindByDate(ctx context.Context, date string) (domain.DailyQuiz, error)
	FindByID(ctx context.Context, id string) (domain.DailyQuiz, error)
	// CreateIfAbsent inserts the quiz unless one already exists for its date,
	// in which case the existing row wins and is returned. This is the atomic
	// primitive that resolves concurrent compositions for the same date.
	CreateIfAbsent(ctx context.Context, quiz domain.DailyQuiz) (domain.DailyQuiz, error)
}

// SessionRepository stores quiz sessions, unique per (user, daily quiz).
type SessionRepository interface {
	FindByID(ctx context.Context, id string) (domain.QuizSession, error)
	FindByUserAndQuiz(ctx context.Context, userID, dailyQuizID string) (domain.QuizSession, error)
	// CreateIfAbsent inserts the session unless one already exists for its
	// (user, daily quiz) pair; the existing session wins and is returned.
	CreateIfAbsent(ctx context.Context, session domain.QuizSession) (domain.QuizSession, error)
	Update(ctx context.Context, session domain.QuizSession) error
}

// AttemptRepository persists the immutable grading records.
type AttemptRepository interface {
	SaveAll(ctx context.Context, attempts []domain.Attempt) error
	ListBySession(ctx context.Context, sessionID string) ([]domain.Attempt, error)
}

// StreakRepository stores per-user streak counters. Get returns a zero-value
// record (not an error) for users with no streak history yet.
type StreakRepository interface {
	Get(ctx context.Context, userID string) (domain.StreakRecord, error)
	Upsert(ctx context.Context, record domain.StreakRecord) error
}
