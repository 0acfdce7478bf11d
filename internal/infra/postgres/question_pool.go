package postgres

import (
	"context"
	"fmt"
	"time"

	"dailyquiz-service/internal/domain"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// QuestionPool reads approved questions from Postgres. The question rows are
// owned by the authoring pipeline; this service only ever selects.
type QuestionPool struct {
	pool *pgxpool.Pool
}

func NewQuestionPool(pool *pgxpool.Pool) *QuestionPool {
	return &QuestionPool{pool: pool}
}

func (p *QuestionPool) ListApproved(ctx context.Context, difficulty domain.Difficulty) ([]domain.Question, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT id, verse_ref, prompt, choices, correct_answer, difficulty, approved_at
		FROM questions
		WHERE difficulty = $1 AND approved_at IS NOT NULL`, string(difficulty))
	if err != nil {
		return nil, fmt.Errorf("list approved questions: %w", err)
	}
	defer rows.Close()
	return scanQuestions(rows)
}

func (p *QuestionPool) GetByIDs(ctx context.Context, ids []string) ([]domain.Question, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := p.pool.Query(ctx, `
		SELECT id, verse_ref, prompt, choices, correct_answer, difficulty, approved_at
		FROM questions
		WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, fmt.Errorf("load questions: %w", err)
	}
	defer rows.Close()
	return scanQuestions(rows)
}

func scanQuestions(rows pgx.Rows) ([]domain.Question, error) {
	var questions []domain.Question
	for rows.Next() {
		var (
			q          domain.Question
			difficulty string
			approvedAt *time.Time
		)
		if err := rows.Scan(&q.ID, &q.VerseRef, &q.Prompt, &q.Choices, &q.CorrectAnswer, &difficulty, &approvedAt); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		q.Difficulty = domain.Difficulty(difficulty)
		if approvedAt != nil {
			q.ApprovedAt = *approvedAt
		}
		questions = append(questions, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate questions: %w", err)
	}
	return questions, nil
}
