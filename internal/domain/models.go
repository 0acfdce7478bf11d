package domain

import "time"

// Difficulty classifies a question for balanced quiz composition.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// SessionStatus tracks the lifecycle of a quiz session. Transitions are
// one-way: in_progress -> completed.
type SessionStatus string

const (
	SessionInProgress SessionStatus = "in_progress"
	SessionCompleted  SessionStatus = "completed"
)

// Question is an approved multiple-choice question owned by the question
// pool. Read-only from this service's perspective; the correct answer is
// never serialized to clients.
type Question struct {
	ID            string     `json:"id"`
	VerseRef      string     `json:"verseRef"`
	Prompt        string     `json:"prompt"`
	Choices       []string   `json:"choices"`
	CorrectAnswer string     `json:"-"`
	Difficulty    Difficulty `json:"difficulty"`
	ApprovedAt    time.Time  `json:"approvedAt"`
}

// DailyQuiz is the fixed, date-scoped question set shown to every user that
// day. Exactly one exists per calendar date and it is never mutated after
// creation.
type DailyQuiz struct {
	ID          string    `json:"id"`
	Date        string    `json:"date"` // YYYY-MM-DD
	QuestionIDs []string  `json:"questionIds"`
	CreatedAt   time.Time `json:"createdAt"`
}

// QuizSession is one user's attempt at a DailyQuiz, possibly spread across
// multiple visits. At most one exists per (user, daily quiz).
type QuizSession struct {
	ID             string            `json:"id"`
	UserID         string            `json:"userId"`
	DailyQuizID    string            `json:"dailyQuizId"`
	CurrentIndex   int               `json:"currentIndex"`
	Answers        map[string]string `json:"answers"`
	Status         SessionStatus     `json:"status"`
	Timezone       string            `json:"timezone"`
	StartedAt      time.Time         `json:"startedAt"`
	LastActivityAt time.Time         `json:"lastActivityAt"`
	CompletedAt    *time.Time        `json:"completedAt,omitempty"`
}

// Attempt is the immutable per-question grading record written once when a
// session completes.
type Attempt struct {
	SessionID       string    `json:"sessionId"`
	QuestionID      string    `json:"questionId"`
	SubmittedAnswer string    `json:"submittedAnswer"`
	IsCorrect       bool      `json:"isCorrect"`
	RecordedAt      time.Time `json:"recordedAt"`
}

// StreakRecord holds a user's consecutive-perfect-completion counters.
type StreakRecord struct {
	UserID          string `json:"userId"`
	CurrentStreak   int    `json:"currentStreak"`
	LongestStreak   int    `json:"longestStreak"`
	LastPerfectDate string `json:"lastPerfectDate,omitempty"` // YYYY-MM-DD
}

// AnswerBreakdown is the per-question slice of a QuizResult.
type AnswerBreakdown struct {
	QuestionID      string `json:"questionId"`
	SubmittedAnswer string `json:"submittedAnswer"`
	IsCorrect       bool   `json:"isCorrect"`
}

// QuizResult summarizes a completed session.
type QuizResult struct {
	SessionID      string            `json:"sessionId"`
	TotalQuestions int               `json:"totalQuestions"`
	CorrectAnswers int               `json:"correctAnswers"`
	Score          int               `json:"score"`
	Answers        []AnswerBreakdown `json:"answers"`
	StreakUpdated  bool              `json:"streakUpdated"`
	TimeSpent      time.Duration     `json:"timeSpent"`
}

// StreakInfo is the read-only streak view embedded in a status response.
type StreakInfo struct {
	Current int `json:"current"`
	Longest int `json:"longest"`
}

// UserQuizStatus is the composed view a client needs to render the day:
// today's quiz (questions hydrated, answers withheld), the caller's session
// if one is in progress, and the streak counters.
type UserQuizStatus struct {
	HasCompletedToday bool         `json:"hasCompletedToday"`
	CurrentSession    *QuizSession `json:"currentSession,omitempty"`
	TodaysQuiz        DailyQuiz    `json:"todaysQuiz"`
	Questions         []Question   `json:"questions"`
	StreakInfo        StreakInfo   `json:"streakInfo"`
}
