package app

import (
	"strings"

	"vocab-quiz-service/internal/domain"
)

// QuestionGenerator turns a target entry and a candidate pool into a
// multiple-choice question.
type QuestionGenerator struct {
	rnd Random
}

func NewQuestionGenerator(rnd Random) *QuestionGenerator {
	return &QuestionGenerator{rnd: rnd}
}

// Generate builds a question for target with 3 distractors sampled uniformly
// from the pool's other answers. The options are returned in shuffled order.
func (g *QuestionGenerator) Generate(target domain.WordEntry, pool []domain.WordEntry) (domain.Question, error) {
	candidates := distractorCandidates(target.Target, pool)
	wrong := domain.OptionCount - 1
	if len(candidates) < wrong {
		return domain.Question{}, domain.ErrInsufficientPool
	}

	options := make([]string, 0, domain.OptionCount)
	for _, i := range sampleIndexes(g.rnd, len(candidates), wrong) {
		options = append(options, candidates[i])
	}
	options = append(options, target.Target)
	shuffleStrings(g.rnd, options)

	return domain.Question{
		Prompt:        target.Source,
		CorrectAnswer: target.Target,
		Options:       options,
		Category:      target.Category,
		PhoneticHint:  target.PhoneticHint,
	}, nil
}

// distractorCandidates returns the distinct answers in pool that do not match
// correct, in first-seen order. Duplicates are detected ignoring case so the
// options stay distinguishable.
func distractorCandidates(correct string, pool []domain.WordEntry) []string {
	seen := make(map[string]struct{}, len(pool))
	out := make([]string, 0, len(pool))
	for _, entry := range pool {
		if entry.Target == "" || domain.IsCorrect(entry.Target, correct) {
			continue
		}
		key := strings.ToLower(entry.Target)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, entry.Target)
	}
	return out
}
