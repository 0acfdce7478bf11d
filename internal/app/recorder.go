package app

import (
	"context"
	"fmt"
	"time"

	"dailyquiz-service/internal/domain"
)

// AnswerRecorder writes a single answer into an active session. Writes are
// effectively single-writer per session (one user, possibly several tabs);
// last write wins per question, which is acceptable for this workload but a
// known limitation rather than a guarantee.
type AnswerRecorder struct {
	sessions SessionRepository
	quizzes  DailyQuizRepository
	now      func() time.Time
}

func NewAnswerRecorder(sessions SessionRepository, quizzes DailyQuizRepository) *AnswerRecorder {
	return &AnswerRecorder{sessions: sessions, quizzes: quizzes, now: time.Now}
}

// SaveQuizAnswer records answer for questionID and advances the session
// cursor to the count of answered questions. Completed sessions are
// immutable. correctHint is an optimistic-UI signal from the client; grading
// always re-checks the canonical answer at completion, so it is not stored.
func (r *AnswerRecorder) SaveQuizAnswer(ctx context.Context, sessionID, questionID, answer string, correctHint *bool) (domain.QuizSession, error) {
	session, err := r.sessions.FindByID(ctx, sessionID)
	if err != nil {
		return domain.QuizSession{}, err
	}
	if session.Status == domain.SessionCompleted {
		return domain.QuizSession{}, domain.ErrSessionCompleted
	}

	quiz, err := r.quizzes.FindByID(ctx, session.DailyQuizID)
	if err != nil {
		return domain.QuizSession{}, err
	}
	if !containsID(quiz.QuestionIDs, questionID) {
		return domain.QuizSession{}, fmt.Errorf("%w: %s", domain.ErrQuestionNotFound, questionID)
	}

	if session.Answers == nil {
		session.Answers = map[string]string{}
	}
	session.Answers[questionID] = answer
	// Re-answering a question does not move the cursor backwards: the index
	// is the count of distinct answered questions.
	session.CurrentIndex = len(session.Answers)
	session.LastActivityAt = r.now().UTC()

	if err := r.sessions.Update(ctx, session); err != nil {
		return domain.QuizSession{}, err
	}
	return session, nil
}

func containsID(ids []string, id string) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}
