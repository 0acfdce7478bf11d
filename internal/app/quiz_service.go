package app

import (
	"context"
	"time"

	"dailyquiz-service/internal/domain"
)

// QuizService wires the composition, session, scoring, streak, and status
// components behind the five operations the calling layer consumes.
type QuizService struct {
	composer *QuizComposer
	manager  *SessionManager
	recorder *AnswerRecorder
	scorer   *Scorer
	streaks  *StreakTracker
	status   *StatusAggregator
}

// Option tweaks service construction.
type Option func(*QuizService)

// WithClock injects a deterministic clock into every component. Test-only.
func WithClock(now func() time.Time) Option {
	return func(s *QuizService) {
		s.composer.now = now
		s.manager.now = now
		s.recorder.now = now
		s.scorer.now = now
		s.status.now = now
	}
}

// WithDistribution overrides the default 2/2/1 composition.
func WithDistribution(dist Distribution) Option {
	return func(s *QuizService) {
		if dist.total() > 0 {
			s.composer.dist = dist
		}
	}
}

func NewQuizService(pool QuestionPool, quizzes DailyQuizRepository, sessions SessionRepository, attempts AttemptRepository, streaks StreakRepository, opts ...Option) *QuizService {
	tracker := NewStreakTracker(streaks)
	composer := NewQuizComposer(quizzes, pool, DefaultDistribution())
	service := &QuizService{
		composer: composer,
		manager:  NewSessionManager(sessions, quizzes),
		recorder: NewAnswerRecorder(sessions, quizzes),
		scorer:   NewScorer(sessions, quizzes, attempts, pool, tracker),
		streaks:  tracker,
		status:   NewStatusAggregator(composer, sessions, tracker),
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

func (s *QuizService) GenerateDailyQuiz(ctx context.Context, date string) (domain.DailyQuiz, error) {
	return s.composer.GenerateDailyQuiz(ctx, date)
}

func (s *QuizService) QuestionsFor(ctx context.Context, quiz domain.DailyQuiz) ([]domain.Question, error) {
	return s.composer.QuestionsFor(ctx, quiz)
}

func (s *QuizService) StartQuizSession(ctx context.Context, userID, dailyQuizID, timezone string) (domain.QuizSession, error) {
	return s.manager.StartQuizSession(ctx, userID, dailyQuizID, timezone)
}

func (s *QuizService) SaveQuizAnswer(ctx context.Context, sessionID, questionID, answer string, correctHint *bool) (domain.QuizSession, error) {
	return s.recorder.SaveQuizAnswer(ctx, sessionID, questionID, answer, correctHint)
}

func (s *QuizService) CompleteQuizSession(ctx context.Context, sessionID string) (domain.QuizResult, error) {
	return s.scorer.CompleteQuizSession(ctx, sessionID)
}

func (s *QuizService) GetUserQuizStatus(ctx context.Context, userID, timezone string) (domain.UserQuizStatus, error) {
	return s.status.GetUserQuizStatus(ctx, userID, timezone)
}
