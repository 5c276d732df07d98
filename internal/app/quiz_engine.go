package app

import (
	"fmt"

	"vocab-quiz-service/internal/domain"
)

// QuizEngine creates sessions and applies answers to them.
type QuizEngine struct {
	rnd       Random
	generator *QuestionGenerator
}

func NewQuizEngine(rnd Random) *QuizEngine {
	return &QuizEngine{rnd: rnd, generator: NewQuestionGenerator(rnd)}
}

// CreateSession draws up to questionCount distinct targets from the pool
// narrowed by difficulty. Distractors come from the same narrowed pool.
func (e *QuizEngine) CreateSession(pool []domain.WordEntry, questionCount int, difficulty domain.Difficulty) (Session, error) {
	if len(pool) < domain.OptionCount {
		return Session{}, domain.ErrInsufficientDictionary
	}
	if questionCount < 1 {
		return Session{}, domain.ErrInvalidQuestionCount
	}

	eligible := narrowPool(pool, difficulty)
	if len(eligible) < domain.OptionCount {
		return Session{}, domain.ErrInsufficientDictionary
	}

	picks := sampleIndexes(e.rnd, len(eligible), questionCount)
	questions := make([]domain.Question, 0, len(picks))
	for _, i := range picks {
		q, err := e.generator.Generate(eligible[i], eligible)
		if err != nil {
			return Session{}, fmt.Errorf("question for %q: %w", eligible[i].Source, err)
		}
		questions = append(questions, q)
	}
	return NewSession(questions, difficulty), nil
}

// SubmitAnswer judges answer against the current question and returns the
// advanced session. A complete session is returned unchanged.
func (e *QuizEngine) SubmitAnswer(session Session, answer string) Session {
	q, ok := session.CurrentQuestion()
	if !ok {
		return session
	}
	return session.advance(q.IsCorrect(answer))
}

// narrowPool keeps the difficulty's prefix of a most-frequent-first pool.
func narrowPool(pool []domain.WordEntry, difficulty domain.Difficulty) []domain.WordEntry {
	if difficulty.Unrestricted() || difficulty.MaxWords >= len(pool) {
		return pool
	}
	if difficulty.MaxWords <= 0 {
		return nil
	}
	return pool[:difficulty.MaxWords]
}
