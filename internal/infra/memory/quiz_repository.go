package memory

import (
	"context"
	"sync"

	"dailyquiz-service/internal/domain"
)

// QuizRepository is an in-memory app.DailyQuizRepository. The byDate index
// enforces the one-quiz-per-date invariant the same way a unique constraint
// would.
type QuizRepository struct {
	mu     sync.RWMutex
	byID   map[string]domain.DailyQuiz
	byDate map[string]string
}

func NewQuizRepository() *QuizRepository {
	return &QuizRepository{
		byID:   make(map[string]domain.DailyQuiz),
		byDate: make(map[string]string),
	}
}

func (r *QuizRepository) FindByDate(_ context.Context, date string) (domain.DailyQuiz, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byDate[date]
	if !ok {
		return domain.DailyQuiz{}, domain.ErrQuizNotFound
	}
	return cloneQuiz(r.byID[id]), nil
}

func (r *QuizRepository) FindByID(_ context.Context, id string) (domain.DailyQuiz, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	quiz, ok := r.byID[id]
	if !ok {
		return domain.DailyQuiz{}, domain.ErrQuizNotFound
	}
	return cloneQuiz(quiz), nil
}

func (r *QuizRepository) CreateIfAbsent(_ context.Context, quiz domain.DailyQuiz) (domain.DailyQuiz, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existingID, ok := r.byDate[quiz.Date]; ok {
		return cloneQuiz(r.byID[existingID]), nil
	}
	r.byID[quiz.ID] = cloneQuiz(quiz)
	r.byDate[quiz.Date] = quiz.ID
	return quiz, nil
}

func cloneQuiz(quiz domain.DailyQuiz) domain.DailyQuiz {
	ids := make([]string, len(quiz.QuestionIDs))
	copy(ids, quiz.QuestionIDs)
	quiz.QuestionIDs = ids
	return quiz
}
