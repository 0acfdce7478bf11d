package app

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"dailyquiz-service/internal/domain"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

const dateLayout = "2006-01-02"

// Distribution fixes how many questions of each tier a daily quiz carries.
type Distribution struct {
	Easy   int
	Medium int
	Hard   int
}

// DefaultDistribution is 2 easy, 2 medium, 1 hard.
func DefaultDistribution() Distribution {
	return Distribution{Easy: 2, Medium: 2, Hard: 1}
}

func (d Distribution) total() int {
	return d.Easy + d.Medium + d.Hard
}

// QuizComposer builds or retrieves the single daily quiz for a calendar date.
// Concurrent compositions for the same date collapse in-process via
// singleflight; across processes the repository's insert-if-absent resolves
// the race, so every caller observes the same quiz.
type QuizComposer struct {
	quizzes DailyQuizRepository
	pool    QuestionPool
	dist    Distribution
	now     func() time.Time
	sf      singleflight.Group
}

func NewQuizComposer(quizzes DailyQuizRepository, pool QuestionPool, dist Distribution) *QuizComposer {
	if dist.total() == 0 {
		dist = DefaultDistribution()
	}
	return &QuizComposer{
		quizzes: quizzes,
		pool:    pool,
		dist:    dist,
		now:     time.Now,
	}
}

// GenerateDailyQuiz returns the quiz for date, composing it on first request.
// The quiz for a date never changes once created.
func (c *QuizComposer) GenerateDailyQuiz(ctx context.Context, date string) (domain.DailyQuiz, error) {
	if _, err := time.Parse(dateLayout, date); err != nil {
		return domain.DailyQuiz{}, fmt.Errorf("%w: %q", domain.ErrInvalidDate, date)
	}

	quiz, err := c.quizzes.FindByDate(ctx, date)
	if err == nil {
		return quiz, nil
	}
	if !errors.Is(err, domain.ErrQuizNotFound) {
		return domain.DailyQuiz{}, err
	}

	result, err, _ := c.sf.Do(date, func() (interface{}, error) {
		// Re-check in case another goroutine composed it while we waited.
		if quiz, err := c.quizzes.FindByDate(ctx, date); err == nil {
			return quiz, nil
		} else if !errors.Is(err, domain.ErrQuizNotFound) {
			return domain.DailyQuiz{}, err
		}
		quiz, err := c.compose(ctx, date)
		if err != nil {
			return domain.DailyQuiz{}, err
		}
		return quiz, nil
	})
	if err != nil {
		return domain.DailyQuiz{}, err
	}
	return result.(domain.DailyQuiz), nil
}

func (c *QuizComposer) compose(ctx context.Context, date string) (domain.DailyQuiz, error) {
	buckets := []struct {
		tier domain.Difficulty
		want int
	}{
		{domain.DifficultyEasy, c.dist.Easy},
		{domain.DifficultyMedium, c.dist.Medium},
		{domain.DifficultyHard, c.dist.Hard},
	}

	rnd := rand.New(rand.NewSource(c.now().UnixNano()))
	ids := make([]string, 0, c.dist.total())
	for _, b := range buckets {
		if b.want == 0 {
			continue
		}
		approved, err := c.pool.ListApproved(ctx, b.tier)
		if err != nil {
			return domain.DailyQuiz{}, fmt.Errorf("list %s questions: %w", b.tier, err)
		}
		if len(approved) < b.want {
			return domain.DailyQuiz{}, fmt.Errorf("%w: %s needs %d, pool has %d",
				domain.ErrInsufficientQuestions, b.tier, b.want, len(approved))
		}
		rnd.Shuffle(len(approved), func(i, j int) {
			approved[i], approved[j] = approved[j], approved[i]
		})
		for _, q := range approved[:b.want] {
			ids = append(ids, q.ID)
		}
	}

	quiz := domain.DailyQuiz{
		ID:          uuid.NewString(),
		Date:        date,
		QuestionIDs: ids,
		CreatedAt:   c.now().UTC(),
	}
	// The repository returns the winner if another process got there first.
	return c.quizzes.CreateIfAbsent(ctx, quiz)
}

// QuestionsFor hydrates a quiz's question IDs into full Question objects,
// preserving quiz order.
func (c *QuizComposer) QuestionsFor(ctx context.Context, quiz domain.DailyQuiz) ([]domain.Question, error) {
	loaded, err := c.pool.GetByIDs(ctx, quiz.QuestionIDs)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]domain.Question, len(loaded))
	for _, q := range loaded {
		byID[q.ID] = q
	}
	questions := make([]domain.Question, 0, len(quiz.QuestionIDs))
	for _, id := range quiz.QuestionIDs {
		q, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("%w: %s", domain.ErrQuestionNotFound, id)
		}
		questions = append(questions, q)
	}
	return questions, nil
}
