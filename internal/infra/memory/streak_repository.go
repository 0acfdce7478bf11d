package memory

import (
	"context"
	"sync"

	"dailyquiz-service/internal/domain"
)

// StreakRepository is an in-memory app.StreakRepository.
type StreakRepository struct {
	mu      sync.RWMutex
	records map[string]domain.StreakRecord
}

func NewStreakRepository() *StreakRepository {
	return &StreakRepository{records: make(map[string]domain.StreakRecord)}
}

// Get returns a zero-value record for unknown users.
func (r *StreakRepository) Get(_ context.Context, userID string) (domain.StreakRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.records[userID], nil
}

func (r *StreakRepository) Upsert(_ context.Context, record domain.StreakRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[record.UserID] = record
	return nil
}
