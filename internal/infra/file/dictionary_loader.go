package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"vocab-quiz-service/internal/domain"
)

// dictionaryFile is the on-disk layout: {"words": [...]}, most frequent
// word first. Both the source/target keys and the legacy swedish/english
// keys are accepted.
type dictionaryFile struct {
	Words []rawWord `json:"words"`
}

type rawWord struct {
	Source   string `json:"source"`
	Target   string `json:"target"`
	Swedish  string `json:"swedish"`
	English  string `json:"english"`
	Category string `json:"category"`
	Phonetic string `json:"phonetic"`
	AudioURL string `json:"audioUrl"`
}

// DictionaryLoader reads a JSON dictionary file.
type DictionaryLoader struct {
	path string
}

func NewDictionaryLoader(path string) *DictionaryLoader {
	return &DictionaryLoader{path: path}
}

func (l *DictionaryLoader) LoadWords(_ context.Context) ([]domain.WordEntry, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return nil, fmt.Errorf("read dictionary: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a dictionary document.
func Parse(data []byte) ([]domain.WordEntry, error) {
	var doc dictionaryFile
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("unmarshal dictionary: %w", err)
	}

	words := make([]domain.WordEntry, len(doc.Words))
	for i, w := range doc.Words {
		words[i] = domain.WordEntry{
			Source:       firstNonEmpty(w.Source, w.Swedish),
			Target:       firstNonEmpty(w.Target, w.English),
			Category:     w.Category,
			PhoneticHint: w.Phonetic,
			AudioRef:     w.AudioURL,
		}
	}
	if err := domain.ValidateEntries(words); err != nil {
		return nil, err
	}
	return words, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
