package domain

import "errors"

var (
	// ErrSessionNotFound is returned when a session ID does not match any
	// stored quiz session.
	ErrSessionNotFound = errors.New("quiz session not found")
	// ErrQuizNotFound indicates no daily quiz exists for the requested key.
	ErrQuizNotFound = errors.New("daily quiz not found")
	// ErrQuestionNotFound indicates a question ID is not part of the quiz.
	ErrQuestionNotFound = errors.New("question not found")
	// ErrSessionCompleted rejects writes against a session that already
	// finished; completion is irreversible.
	ErrSessionCompleted = errors.New("quiz session already completed")
	// ErrInsufficientQuestions is returned when a difficulty bucket has
	// fewer approved questions than the composition requires.
	ErrInsufficientQuestions = errors.New("not enough approved questions for difficulty")
	// ErrInvalidDate rejects date keys that are not YYYY-MM-DD.
	ErrInvalidDate = errors.New("invalid quiz date")
	// ErrInvalidTimezone rejects timezone names the IANA database does not know.
	ErrInvalidTimezone = errors.New("invalid timezone")
	// ErrEmptyQuiz guards completion of a quiz with no questions.
	ErrEmptyQuiz = errors.New("quiz has no questions")
)
