package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"dailyquiz-service/internal/domain"
	"github.com/uptrace/bun"
)

type dailyQuizRow struct {
	bun.BaseModel `bun:"table:daily_quizzes"`

	ID          string    `bun:"id,pk"`
	QuizDate    string    `bun:"quiz_date"`
	QuestionIDs []string  `bun:"question_ids,array"`
	CreatedAt   time.Time `bun:"created_at"`
}

func (r dailyQuizRow) toDomain() domain.DailyQuiz {
	return domain.DailyQuiz{
		ID:          r.ID,
		Date:        r.QuizDate,
		QuestionIDs: r.QuestionIDs,
		CreatedAt:   r.CreatedAt,
	}
}

// QuizRepository stores daily quizzes with the one-per-date invariant
// enforced by the UNIQUE index on quiz_date.
type QuizRepository struct {
	db *bun.DB
}

func NewQuizRepository(db *bun.DB) *QuizRepository {
	return &QuizRepository{db: db}
}

func (r *QuizRepository) FindByDate(ctx context.Context, date string) (domain.DailyQuiz, error) {
	var row dailyQuizRow
	err := r.db.NewSelect().Model(&row).Where("quiz_date = ?", date).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.DailyQuiz{}, domain.ErrQuizNotFound
	}
	if err != nil {
		return domain.DailyQuiz{}, fmt.Errorf("find quiz by date: %w", err)
	}
	return row.toDomain(), nil
}

func (r *QuizRepository) FindByID(ctx context.Context, id string) (domain.DailyQuiz, error) {
	var row dailyQuizRow
	err := r.db.NewSelect().Model(&row).Where("id = ?", id).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.DailyQuiz{}, domain.ErrQuizNotFound
	}
	if err != nil {
		return domain.DailyQuiz{}, fmt.Errorf("find quiz: %w", err)
	}
	return row.toDomain(), nil
}

// CreateIfAbsent races cleanly: ON CONFLICT DO NOTHING followed by a re-read
// by date means every caller walks away with the winning row.
func (r *QuizRepository) CreateIfAbsent(ctx context.Context, quiz domain.DailyQuiz) (domain.DailyQuiz, error) {
	row := dailyQuizRow{
		ID:          quiz.ID,
		QuizDate:    quiz.Date,
		QuestionIDs: quiz.QuestionIDs,
		CreatedAt:   quiz.CreatedAt,
	}
	if _, err := r.db.NewInsert().Model(&row).On("CONFLICT (quiz_date) DO NOTHING").Exec(ctx); err != nil {
		return domain.DailyQuiz{}, fmt.Errorf("insert quiz: %w", err)
	}
	return r.FindByDate(ctx, quiz.Date)
}

type sessionRow struct {
	bun.BaseModel `bun:"table:quiz_sessions"`

	ID             string            `bun:"id,pk"`
	UserID         string            `bun:"user_id"`
	DailyQuizID    string            `bun:"daily_quiz_id"`
	CurrentIndex   int               `bun:"current_index"`
	Answers        map[string]string `bun:"answers,type:jsonb"`
	Status         string            `bun:"status"`
	Timezone       string            `bun:"timezone"`
	StartedAt      time.Time         `bun:"started_at"`
	LastActivityAt time.Time         `bun:"last_activity_at"`
	CompletedAt    *time.Time        `bun:"completed_at"`
}

func (r sessionRow) toDomain() domain.QuizSession {
	answers := r.Answers
	if answers == nil {
		answers = map[string]string{}
	}
	return domain.QuizSession{
		ID:             r.ID,
		UserID:         r.UserID,
		DailyQuizID:    r.DailyQuizID,
		CurrentIndex:   r.CurrentIndex,
		Answers:        answers,
		Status:         domain.SessionStatus(r.Status),
		Timezone:       r.Timezone,
		StartedAt:      r.StartedAt,
		LastActivityAt: r.LastActivityAt,
		CompletedAt:    r.CompletedAt,
	}
}

func toSessionRow(s domain.QuizSession) sessionRow {
	return sessionRow{
		ID:             s.ID,
		UserID:         s.UserID,
		DailyQuizID:    s.DailyQuizID,
		CurrentIndex:   s.CurrentIndex,
		Answers:        s.Answers,
		Status:         string(s.Status),
		Timezone:       s.Timezone,
		StartedAt:      s.StartedAt,
		LastActivityAt: s.LastActivityAt,
		CompletedAt:    s.CompletedAt,
	}
}

// SessionRepository stores quiz sessions; UNIQUE (user_id, daily_quiz_id)
// backs the one-session-per-user-per-quiz invariant.
type SessionRepository struct {
	db *bun.DB
}

func NewSessionRepository(db *bun.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) FindByID(ctx context.Context, id string) (domain.QuizSession, error) {
	var row sessionRow
	err := r.db.NewSelect().Model(&row).Where("id = ?", id).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.QuizSession{}, domain.ErrSessionNotFound
	}
	if err != nil {
		return domain.QuizSession{}, fmt.Errorf("find session: %w", err)
	}
	return row.toDomain(), nil
}

func (r *SessionRepository) FindByUserAndQuiz(ctx context.Context, userID, dailyQuizID string) (domain.QuizSession, error) {
	var row sessionRow
	err := r.db.NewSelect().Model(&row).
		Where("user_id = ?", userID).
		Where("daily_quiz_id = ?", dailyQuizID).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.QuizSession{}, domain.ErrSessionNotFound
	}
	if err != nil {
		return domain.QuizSession{}, fmt.Errorf("find session by user and quiz: %w", err)
	}
	return row.toDomain(), nil
}

func (r *SessionRepository) CreateIfAbsent(ctx context.Context, session domain.QuizSession) (domain.QuizSession, error) {
	row := toSessionRow(session)
	if _, err := r.db.NewInsert().Model(&row).On("CONFLICT (user_id, daily_quiz_id) DO NOTHING").Exec(ctx); err != nil {
		return domain.QuizSession{}, fmt.Errorf("insert session: %w", err)
	}
	return r.FindByUserAndQuiz(ctx, session.UserID, session.DailyQuizID)
}

func (r *SessionRepository) Update(ctx context.Context, session domain.QuizSession) error {
	row := toSessionRow(session)
	res, err := r.db.NewUpdate().Model(&row).WherePK().Exec(ctx)
	if err != nil {
		return fmt.Errorf("update session: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return domain.ErrSessionNotFound
	}
	return nil
}

type attemptRow struct {
	bun.BaseModel `bun:"table:attempts"`

	SessionID       string    `bun:"session_id,pk"`
	QuestionID      string    `bun:"question_id,pk"`
	Position        int       `bun:"position"`
	SubmittedAnswer string    `bun:"submitted_answer"`
	IsCorrect       bool      `bun:"is_correct"`
	RecordedAt      time.Time `bun:"recorded_at"`
}

// AttemptRepository persists grading records. The composite key plus
// ON CONFLICT DO NOTHING makes a replayed completion a clean no-op.
type AttemptRepository struct {
	db *bun.DB
}

func NewAttemptRepository(db *bun.DB) *AttemptRepository {
	return &AttemptRepository{db: db}
}

func (r *AttemptRepository) SaveAll(ctx context.Context, attempts []domain.Attempt) error {
	if len(attempts) == 0 {
		return nil
	}
	rows := make([]attemptRow, len(attempts))
	for i, a := range attempts {
		rows[i] = attemptRow{
			SessionID:       a.SessionID,
			QuestionID:      a.QuestionID,
			Position:        i,
			SubmittedAnswer: a.SubmittedAnswer,
			IsCorrect:       a.IsCorrect,
			RecordedAt:      a.RecordedAt,
		}
	}
	if _, err := r.db.NewInsert().Model(&rows).On("CONFLICT (session_id, question_id) DO NOTHING").Exec(ctx); err != nil {
		return fmt.Errorf("insert attempts: %w", err)
	}
	return nil
}

func (r *AttemptRepository) ListBySession(ctx context.Context, sessionID string) ([]domain.Attempt, error) {
	var rows []attemptRow
	err := r.db.NewSelect().Model(&rows).
		Where("session_id = ?", sessionID).
		Order("position ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("list attempts: %w", err)
	}
	attempts := make([]domain.Attempt, len(rows))
	for i, row := range rows {
		attempts[i] = domain.Attempt{
			SessionID:       row.SessionID,
			QuestionID:      row.QuestionID,
			SubmittedAnswer: row.SubmittedAnswer,
			IsCorrect:       row.IsCorrect,
			RecordedAt:      row.RecordedAt,
		}
	}
	return attempts, nil
}

type streakRow struct {
	bun.BaseModel `bun:"table:streaks"`

	UserID          string `bun:"user_id,pk"`
	CurrentStreak   int    `bun:"current_streak"`
	LongestStreak   int    `bun:"longest_streak"`
	LastPerfectDate string `bun:"last_perfect_date"`
}

// StreakRepository upserts per-user streak counters.
type StreakRepository struct {
	db *bun.DB
}

func NewStreakRepository(db *bun.DB) *StreakRepository {
	return &StreakRepository{db: db}
}

func (r *StreakRepository) Get(ctx context.Context, userID string) (domain.StreakRecord, error) {
	var row streakRow
	err := r.db.NewSelect().Model(&row).Where("user_id = ?", userID).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.StreakRecord{}, nil
	}
	if err != nil {
		return domain.StreakRecord{}, fmt.Errorf("get streak: %w", err)
	}
	return domain.StreakRecord{
		UserID:          row.UserID,
		CurrentStreak:   row.CurrentStreak,
		LongestStreak:   row.LongestStreak,
		LastPerfectDate: row.LastPerfectDate,
	}, nil
}

func (r *StreakRepository) Upsert(ctx context.Context, record domain.StreakRecord) error {
	row := streakRow{
		UserID:          record.UserID,
		CurrentStreak:   record.CurrentStreak,
		LongestStreak:   record.LongestStreak,
		LastPerfectDate: record.LastPerfectDate,
	}
	_, err := r.db.NewInsert().Model(&row).
		On("CONFLICT (user_id) DO UPDATE").
		Set("current_streak = EXCLUDED.current_streak").
		Set("longest_streak = EXCLUDED.longest_streak").
		Set("last_perfect_date = EXCLUDED.last_perfect_date").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("upsert streak: %w", err)
	}
	return nil
}
