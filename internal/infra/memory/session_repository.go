package memory

import (
	"context"
	"sync"

	"dailyquiz-service/internal/domain"
)

// SessionRepository is an in-memory app.SessionRepository with the
// (user, daily quiz) uniqueness enforced by the byUserQuiz index.
type SessionRepository struct {
	mu         sync.RWMutex
	byID       map[string]domain.QuizSession
	byUserQuiz map[string]string
}

func NewSessionRepository() *SessionRepository {
	return &SessionRepository{
		byID:       make(map[string]domain.QuizSession),
		byUserQuiz: make(map[string]string),
	}
}

func (r *SessionRepository) FindByID(_ context.Context, id string) (domain.QuizSession, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	session, ok := r.byID[id]
	if !ok {
		return domain.QuizSession{}, domain.ErrSessionNotFound
	}
	return cloneSession(session), nil
}

func (r *SessionRepository) FindByUserAndQuiz(_ context.Context, userID, dailyQuizID string) (domain.QuizSession, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byUserQuiz[userQuizKey(userID, dailyQuizID)]
	if !ok {
		return domain.QuizSession{}, domain.ErrSessionNotFound
	}
	return cloneSession(r.byID[id]), nil
}

func (r *SessionRepository) CreateIfAbsent(_ context.Context, session domain.QuizSession) (domain.QuizSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := userQuizKey(session.UserID, session.DailyQuizID)
	if existingID, ok := r.byUserQuiz[key]; ok {
		return cloneSession(r.byID[existingID]), nil
	}
	r.byID[session.ID] = cloneSession(session)
	r.byUserQuiz[key] = session.ID
	return session, nil
}

func (r *SessionRepository) Update(_ context.Context, session domain.QuizSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[session.ID]; !ok {
		return domain.ErrSessionNotFound
	}
	r.byID[session.ID] = cloneSession(session)
	return nil
}

func userQuizKey(userID, dailyQuizID string) string {
	return userID + "\x00" + dailyQuizID
}

func cloneSession(session domain.QuizSession) domain.QuizSession {
	answers := make(map[string]string, len(session.Answers))
	for k, v := range session.Answers {
		answers[k] = v
	}
	session.Answers = answers
	if session.CompletedAt != nil {
		completed := *session.CompletedAt
		session.CompletedAt = &completed
	}
	return session
}
