package app

import (
	"context"
	"fmt"
	"math"
	"time"

	"dailyquiz-service/internal/domain"
)

// Scorer finalizes a session: grades every question against the canonical
// answers, persists the immutable attempt records, and triggers the streak
// path. Completing an already-completed session replays the stored result
// instead of re-grading, so attempts are never duplicated and streaks never
// double-increment.
type Scorer struct {
	sessions SessionRepository
	quizzes  DailyQuizRepository
	attempts AttemptRepository
	pool     QuestionPool
	streaks  *StreakTracker
	now      func() time.Time
}

func NewScorer(sessions SessionRepository, quizzes DailyQuizRepository, attempts AttemptRepository, pool QuestionPool, streaks *StreakTracker) *Scorer {
	return &Scorer{
		sessions: sessions,
		quizzes:  quizzes,
		attempts: attempts,
		pool:     pool,
		streaks:  streaks,
		now:      time.Now,
	}
}

// CompleteQuizSession grades the session in quiz order. An unanswered
// question counts as incorrect. score is round-half-away-from-zero of
// correct/total*100.
func (s *Scorer) CompleteQuizSession(ctx context.Context, sessionID string) (domain.QuizResult, error) {
	session, err := s.sessions.FindByID(ctx, sessionID)
	if err != nil {
		return domain.QuizResult{}, err
	}
	if session.Status == domain.SessionCompleted {
		return s.replay(ctx, session)
	}

	quiz, err := s.quizzes.FindByID(ctx, session.DailyQuizID)
	if err != nil {
		return domain.QuizResult{}, err
	}
	if len(quiz.QuestionIDs) == 0 {
		return domain.QuizResult{}, domain.ErrEmptyQuiz
	}

	questions, err := s.pool.GetByIDs(ctx, quiz.QuestionIDs)
	if err != nil {
		return domain.QuizResult{}, fmt.Errorf("load questions: %w", err)
	}
	byID := make(map[string]domain.Question, len(questions))
	for _, q := range questions {
		byID[q.ID] = q
	}

	now := s.now().UTC()
	attempts := make([]domain.Attempt, 0, len(quiz.QuestionIDs))
	breakdown := make([]domain.AnswerBreakdown, 0, len(quiz.QuestionIDs))
	correctCount := 0
	for _, questionID := range quiz.QuestionIDs {
		question, ok := byID[questionID]
		if !ok {
			return domain.QuizResult{}, fmt.Errorf("%w: %s", domain.ErrQuestionNotFound, questionID)
		}
		submitted := session.Answers[questionID]
		correct := submitted != "" && submitted == question.CorrectAnswer
		if correct {
			correctCount++
		}
		attempts = append(attempts, domain.Attempt{
			SessionID:       session.ID,
			QuestionID:      questionID,
			SubmittedAnswer: submitted,
			IsCorrect:       correct,
			RecordedAt:      now,
		})
		breakdown = append(breakdown, domain.AnswerBreakdown{
			QuestionID:      questionID,
			SubmittedAnswer: submitted,
			IsCorrect:       correct,
		})
	}

	total := len(quiz.QuestionIDs)
	score := roundPercent(correctCount, total)

	if err := s.attempts.SaveAll(ctx, attempts); err != nil {
		return domain.QuizResult{}, fmt.Errorf("persist attempts: %w", err)
	}

	session.Status = domain.SessionCompleted
	session.CompletedAt = &now
	session.LastActivityAt = now
	if err := s.sessions.Update(ctx, session); err != nil {
		return domain.QuizResult{}, fmt.Errorf("finalize session: %w", err)
	}

	perfect := score == 100
	if perfect {
		_, err = s.streaks.OnPerfectCompletion(ctx, session.UserID, quiz.Date)
	} else {
		_, err = s.streaks.OnImperfectCompletion(ctx, session.UserID, quiz.Date)
	}
	if err != nil {
		return domain.QuizResult{}, fmt.Errorf("update streak: %w", err)
	}

	return domain.QuizResult{
		SessionID:      session.ID,
		TotalQuestions: total,
		CorrectAnswers: correctCount,
		Score:          score,
		Answers:        breakdown,
		StreakUpdated:  perfect,
		TimeSpent:      now.Sub(session.StartedAt),
	}, nil
}

// replay rebuilds the result of a finished session from its stored attempts.
func (s *Scorer) replay(ctx context.Context, session domain.QuizSession) (domain.QuizResult, error) {
	attempts, err := s.attempts.ListBySession(ctx, session.ID)
	if err != nil {
		return domain.QuizResult{}, fmt.Errorf("load attempts: %w", err)
	}
	if len(attempts) == 0 {
		return domain.QuizResult{}, domain.ErrEmptyQuiz
	}

	breakdown := make([]domain.AnswerBreakdown, 0, len(attempts))
	correctCount := 0
	for _, attempt := range attempts {
		if attempt.IsCorrect {
			correctCount++
		}
		breakdown = append(breakdown, domain.AnswerBreakdown{
			QuestionID:      attempt.QuestionID,
			SubmittedAnswer: attempt.SubmittedAnswer,
			IsCorrect:       attempt.IsCorrect,
		})
	}

	total := len(attempts)
	score := roundPercent(correctCount, total)
	var timeSpent time.Duration
	if session.CompletedAt != nil {
		timeSpent = session.CompletedAt.Sub(session.StartedAt)
	}

	return domain.QuizResult{
		SessionID:      session.ID,
		TotalQuestions: total,
		CorrectAnswers: correctCount,
		Score:          score,
		Answers:        breakdown,
		StreakUpdated:  score == 100,
		TimeSpent:      timeSpent,
	}, nil
}

// roundPercent rounds half away from zero so 2.5% -> 3%, deterministically.
func roundPercent(correct, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(correct) / float64(total) * 100))
}
