package domain

import "strings"

// IsCorrect is the single definition of a correct answer: an exact match
// ignoring case. No trimming or partial credit.
func IsCorrect(answer, correct string) bool {
	return strings.EqualFold(answer, correct)
}
