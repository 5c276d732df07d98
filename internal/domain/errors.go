package domain

import "errors"

var (
	// ErrInsufficientDictionary is returned when fewer than 4 entries are available to build a quiz.
	ErrInsufficientDictionary = errors.New("dictionary must have at least 4 words")
	// ErrInsufficientPool is returned when a question cannot get 3 distinct distractors.
	ErrInsufficientPool = errors.New("pool must have at least 4 distinct answers")
	// ErrInvalidQuestionCount indicates a quiz was requested with no questions.
	ErrInvalidQuestionCount = errors.New("question count must be at least 1")
	// ErrInvalidDifficultyLabel indicates a label that would corrupt the stored score list.
	ErrInvalidDifficultyLabel = errors.New("difficulty label contains a reserved separator")
	// ErrUnknownDifficulty indicates a difficulty name that is not one of the tiers.
	ErrUnknownDifficulty = errors.New("unknown difficulty")
	// ErrSessionIncomplete is returned when results are requested before the last answer.
	ErrSessionIncomplete = errors.New("quiz session is not complete")
	// ErrInvalidWordEntry indicates a dictionary entry without source or target text.
	ErrInvalidWordEntry = errors.New("invalid word entry")
)
