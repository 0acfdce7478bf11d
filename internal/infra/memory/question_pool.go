package memory

import (
	"context"
	"sync"

	"dailyquiz-service/internal/domain"
)

// QuestionPool is an in-memory app.QuestionPool, useful for tests and the
// no-database dev mode. Only approved questions are served.
type QuestionPool struct {
	mu        sync.RWMutex
	questions map[string]domain.Question
}

func NewQuestionPool(questions []domain.Question) *QuestionPool {
	byID := make(map[string]domain.Question, len(questions))
	for _, q := range questions {
		byID[q.ID] = q
	}
	return &QuestionPool{questions: byID}
}

func (p *QuestionPool) ListApproved(_ context.Context, difficulty domain.Difficulty) ([]domain.Question, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	var out []domain.Question
	for _, q := range p.questions {
		if q.Difficulty == difficulty && !q.ApprovedAt.IsZero() {
			out = append(out, q)
		}
	}
	return out, nil
}

func (p *QuestionPool) GetByIDs(_ context.Context, ids []string) ([]domain.Question, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]domain.Question, 0, len(ids))
	for _, id := range ids {
		if q, ok := p.questions[id]; ok {
			out = append(out, q)
		}
	}
	return out, nil
}
