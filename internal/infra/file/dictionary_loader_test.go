package file

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"vocab-quiz-service/internal/domain"
)

func TestLoadWordsKeepsFileOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dictionary.json")
	doc := `{"words": [
		{"swedish": "och", "english": "and", "category": "conjunction"},
		{"source": "hus", "target": "house", "category": "noun", "phonetic": "hʉːs", "audioUrl": "hus.mp3"}
	]}`
	if err := os.WriteFile(path, []byte(doc), 0o600); err != nil {
		t.Fatalf("write dictionary: %v", err)
	}

	words, err := NewDictionaryLoader(path).LoadWords(context.Background())
	if err != nil {
		t.Fatalf("load words: %v", err)
	}
	if len(words) != 2 {
		t.Fatalf("expected 2 words, got %d", len(words))
	}
	if words[0].Source != "och" || words[0].Target != "and" {
		t.Fatalf("expected legacy keys mapped, got %+v", words[0])
	}
	if words[1].PhoneticHint != "hʉːs" || words[1].AudioRef != "hus.mp3" {
		t.Fatalf("expected optional fields kept, got %+v", words[1])
	}
}

func TestParseRejectsEntryWithoutTarget(t *testing.T) {
	_, err := Parse([]byte(`{"words": [{"swedish": "hus"}]}`))
	if !errors.Is(err, domain.ErrInvalidWordEntry) {
		t.Fatalf("expected ErrInvalidWordEntry, got %v", err)
	}
}

func TestLoadWordsMissingFile(t *testing.T) {
	_, err := NewDictionaryLoader(filepath.Join(t.TempDir(), "missing.json")).LoadWords(context.Background())
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}
