package app

import "vocab-quiz-service/internal/domain"

// Session is an immutable snapshot of quiz progress. Every answer produces a
// new Session; the zero value is an empty, already complete quiz.
type Session struct {
	questions  []domain.Question
	difficulty domain.Difficulty
	current    int
	score      int
	answered   int
}

// NewSession freezes the question list at the start of a quiz.
func NewSession(questions []domain.Question, difficulty domain.Difficulty) Session {
	frozen := make([]domain.Question, len(questions))
	copy(frozen, questions)
	return Session{questions: frozen, difficulty: difficulty}
}

// Questions returns a copy of the question list.
func (s Session) Questions() []domain.Question {
	out := make([]domain.Question, len(s.questions))
	copy(out, s.questions)
	return out
}

func (s Session) Len() int                      { return len(s.questions) }
func (s Session) CurrentIndex() int             { return s.current }
func (s Session) Score() int                    { return s.score }
func (s Session) AnsweredCount() int            { return s.answered }
func (s Session) Difficulty() domain.Difficulty { return s.difficulty }

// CurrentQuestion returns the next unanswered question, if any.
func (s Session) CurrentQuestion() (domain.Question, bool) {
	if s.current >= len(s.questions) {
		return domain.Question{}, false
	}
	return s.questions[s.current], true
}

func (s Session) IsComplete() bool {
	return s.answered == len(s.questions)
}

func (s Session) ProgressPercent() int {
	if len(s.questions) == 0 {
		return 0
	}
	return s.answered * 100 / len(s.questions)
}

// advance moves past the current question. The question slice is shared
// between snapshots and never written after NewSession.
func (s Session) advance(correct bool) Session {
	next := s
	next.current++
	next.answered++
	if correct {
		next.score++
	}
	return next
}
