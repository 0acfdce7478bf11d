package memory

import (
	"context"
	"sync"

	"dailyquiz-service/internal/domain"
)

// AttemptRepository is an in-memory app.AttemptRepository. Attempts for a
// session are written once at completion and never touched again.
type AttemptRepository struct {
	mu        sync.RWMutex
	bySession map[string][]domain.Attempt
}

func NewAttemptRepository() *AttemptRepository {
	return &AttemptRepository{bySession: make(map[string][]domain.Attempt)}
}

func (r *AttemptRepository) SaveAll(_ context.Context, attempts []domain.Attempt) error {
	if len(attempts) == 0 {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	sessionID := attempts[0].SessionID
	if _, ok := r.bySession[sessionID]; ok {
		// completion is idempotent upstream; a second write is a no-op
		return nil
	}
	stored := make([]domain.Attempt, len(attempts))
	copy(stored, attempts)
	r.bySession[sessionID] = stored
	return nil
}

func (r *AttemptRepository) ListBySession(_ context.Context, sessionID string) ([]domain.Attempt, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	attempts := r.bySession[sessionID]
	out := make([]domain.Attempt, len(attempts))
	copy(out, attempts)
	return out, nil
}
