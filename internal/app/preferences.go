package app

import (
	"context"
	"strconv"

	"vocab-quiz-service/internal/domain"
)

// Preference keys shared by the score ledger and the settings.
const (
	KeyBestScore     = "best_score"
	KeyGamesPlayed   = "games_played"
	KeyTotalScore    = "total_score"
	KeyHighScores    = "high_scores"
	KeyDifficulty    = "difficulty"
	KeyQuestionCount = "question_count"
)

// DefaultQuestionCount is used until a question count has been saved.
const DefaultQuestionCount = 30

// PreferenceStore is durable string-keyed storage (in-memory, Redis, etc).
// SetMany must apply all values or none.
type PreferenceStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	SetMany(ctx context.Context, values map[string]string) error
	Delete(ctx context.Context, keys ...string) error
	// Update reads keys, passes the present ones to fn and writes the map fn
	// returns, with no other write to keys in between. fn may run more than
	// once and must not call the store.
	Update(ctx context.Context, keys []string, fn UpdateFunc) error
}

// UpdateFunc computes the values to write from the current ones.
type UpdateFunc func(current map[string]string) (map[string]string, error)

// Preferences adds typed accessors on top of a PreferenceStore.
type Preferences struct {
	store PreferenceStore
}

func NewPreferences(store PreferenceStore) *Preferences {
	return &Preferences{store: store}
}

// Int reads an integer, returning fallback when the key is missing or not a number.
func (p *Preferences) Int(ctx context.Context, key string, fallback int) (int, error) {
	raw, ok, err := p.store.Get(ctx, key)
	if err != nil {
		return fallback, err
	}
	if !ok {
		return fallback, nil
	}
	return atoiOr(raw, fallback), nil
}

// atoiOr parses raw, returning fallback for an empty or non-numeric value.
func atoiOr(raw string, fallback int) int {
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

func (p *Preferences) SetInt(ctx context.Context, key string, value int) error {
	return p.store.Set(ctx, key, strconv.Itoa(value))
}

func (p *Preferences) String(ctx context.Context, key, fallback string) (string, error) {
	raw, ok, err := p.store.Get(ctx, key)
	if err != nil {
		return fallback, err
	}
	if !ok {
		return fallback, nil
	}
	return raw, nil
}

func (p *Preferences) SetString(ctx context.Context, key, value string) error {
	return p.store.Set(ctx, key, value)
}

// Settings holds the player's preferred quiz shape.
type Settings struct {
	prefs             *Preferences
	defaultDifficulty domain.Difficulty
	defaultCount      int
}

func NewSettings(store PreferenceStore) *Settings {
	return NewSettingsWithDefaults(store, domain.All, DefaultQuestionCount)
}

// NewSettingsWithDefaults uses the given values until the player saves their own.
func NewSettingsWithDefaults(store PreferenceStore, difficulty domain.Difficulty, count int) *Settings {
	if count < 1 {
		count = DefaultQuestionCount
	}
	if difficulty.Name == "" {
		difficulty = domain.All
	}
	return &Settings{prefs: NewPreferences(store), defaultDifficulty: difficulty, defaultCount: count}
}

// Difficulty returns the saved tier, or the default tier when none is saved.
func (s *Settings) Difficulty(ctx context.Context) (domain.Difficulty, error) {
	name, err := s.prefs.String(ctx, KeyDifficulty, s.defaultDifficulty.Name)
	if err != nil {
		return s.defaultDifficulty, err
	}
	return domain.ParseDifficulty(name), nil
}

func (s *Settings) SetDifficulty(ctx context.Context, d domain.Difficulty) error {
	return s.prefs.SetString(ctx, KeyDifficulty, d.Name)
}

// QuestionCount returns the saved count, or the default count.
func (s *Settings) QuestionCount(ctx context.Context) (int, error) {
	n, err := s.prefs.Int(ctx, KeyQuestionCount, s.defaultCount)
	if err != nil {
		return s.defaultCount, err
	}
	if n < 1 {
		return s.defaultCount, nil
	}
	return n, nil
}

func (s *Settings) SetQuestionCount(ctx context.Context, n int) error {
	if n < 1 {
		return domain.ErrInvalidQuestionCount
	}
	return s.prefs.SetInt(ctx, KeyQuestionCount, n)
}
