package trivia

import (
	"sync"
)

// QuestionRecord mirrors a question as delivered by the API client.
type QuestionRecord struct {
	ID               string   `json:"id"`
	Question         string   `json:"question"`
	CorrectAnswer    string   `json:"correct_answer"`
	IncorrectAnswers []string `json:"incorrect_answers"`
	Category         string   `json:"category,omitempty"`
	Difficulty       string   `json:"difficulty,omitempty"`
	Type             string   `json:"type,omitempty"`
}

// ShuffleFunc has the signature of rand.Shuffle.
type ShuffleFunc func(n int, swap func(i, j int))

// Question is one quiz question together with the user's current guess.
type Question struct {
	ID               string
	Text             string
	CorrectAnswer    string
	IncorrectAnswers []string
	Category         string
	Difficulty       string
	Type             string

	allAnswers []string

	mu      sync.RWMutex
	guess   string
	guessed bool
	onGuess func(q *Question)
}

// NewQuestion builds a question from a record. The answer order is decided
// here once; shuffle may be nil to keep the correct answer first.
func NewQuestion(record QuestionRecord, shuffle ShuffleFunc) *Question {
	incorrect := make([]string, len(record.IncorrectAnswers))
	copy(incorrect, record.IncorrectAnswers)

	answers := make([]string, 0, len(incorrect)+1)
	answers = append(answers, record.CorrectAnswer)
	answers = append(answers, incorrect...)
	if shuffle != nil {
		shuffle(len(answers), func(i, j int) {
			answers[i], answers[j] = answers[j], answers[i]
		})
	}

	return &Question{
		ID:               record.ID,
		Text:             record.Question,
		CorrectAnswer:    record.CorrectAnswer,
		IncorrectAnswers: incorrect,
		Category:         record.Category,
		Difficulty:       record.Difficulty,
		Type:             record.Type,
		allAnswers:       answers,
	}
}

// AllAnswers returns the correct and incorrect answers in presentation order.
func (q *Question) AllAnswers() []string {
	answers := make([]string, len(q.allAnswers))
	copy(answers, q.allAnswers)
	return answers
}

// SetGuess overwrites the current guess. Any string is accepted; a value that
// is not one of AllAnswers simply counts as incorrect.
func (q *Question) SetGuess(answer string) {
	q.mu.Lock()
	q.guess = answer
	q.guessed = true
	notify := q.onGuess
	q.mu.Unlock()

	if notify != nil {
		notify(q)
	}
}

// Guess returns the current guess, or "" when nothing has been chosen yet.
func (q *Question) Guess() string {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.guess
}

// Guessed reports whether SetGuess has been called at least once.
func (q *Question) Guessed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.guessed
}

func (q *Question) IsCorrect() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.guessed && q.guess == q.CorrectAnswer
}
