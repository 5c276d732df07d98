package app

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"vocab-quiz-service/internal/domain"
)

// MaxHighScores is how many ranked entries the ledger keeps.
const MaxHighScores = 5

const (
	fieldSeparator = "|"
	entrySeparator = ";"
	entryFields    = 5
)

// ledgerKeys are every key the ledger writes.
var ledgerKeys = []string{KeyHighScores, KeyBestScore, KeyGamesPlayed, KeyTotalScore}

// ScoreLedger keeps the ranked top results and the scalar best/games/total
// counters. Writes go through PreferenceStore.Update, so concurrent games
// and other processes sharing the store do not lose updates.
type ScoreLedger struct {
	store PreferenceStore
	prefs *Preferences
	now   func() time.Time

	// mu serializes writers in this process so Update rarely has to retry.
	mu sync.Mutex
}

func NewScoreLedger(store PreferenceStore) *ScoreLedger {
	return NewScoreLedgerWithClock(store, time.Now)
}

// NewScoreLedgerWithClock allows deterministic timestamps in tests.
func NewScoreLedgerWithClock(store PreferenceStore, now func() time.Time) *ScoreLedger {
	return &ScoreLedger{store: store, prefs: NewPreferences(store), now: now}
}

// RecordGame adds a finished quiz to the ranked list and bumps the counters
// in a single write. newBest reports whether score beat the stored best.
func (l *ScoreLedger) RecordGame(ctx context.Context, score, total int, difficultyLabel string) (entry domain.HighScoreEntry, newBest bool, err error) {
	entry, err = l.newEntry(score, total, difficultyLabel)
	if err != nil {
		return domain.HighScoreEntry{}, false, err
	}
	err = l.update(ctx, func(current map[string]string) map[string]string {
		next := bumpCounters(current, score)
		_, newBest = next[KeyBestScore]
		next[KeyHighScores] = insertEntry(current[KeyHighScores], entry)
		return next
	})
	if err != nil {
		return domain.HighScoreEntry{}, false, err
	}
	return entry, newBest, nil
}

// Record adds a finished quiz to the ranked list and persists the top
// MaxHighScores.
func (l *ScoreLedger) Record(ctx context.Context, score, total int, difficultyLabel string) (domain.HighScoreEntry, error) {
	entry, err := l.newEntry(score, total, difficultyLabel)
	if err != nil {
		return domain.HighScoreEntry{}, err
	}
	err = l.update(ctx, func(current map[string]string) map[string]string {
		return map[string]string{KeyHighScores: insertEntry(current[KeyHighScores], entry)}
	})
	if err != nil {
		return domain.HighScoreEntry{}, err
	}
	return entry, nil
}

// List returns the persisted entries in ranked order.
func (l *ScoreLedger) List(ctx context.Context) ([]domain.HighScoreEntry, error) {
	raw, err := l.prefs.String(ctx, KeyHighScores, "")
	if err != nil {
		return nil, err
	}
	return ParseEntries(raw), nil
}

// UpdateScore bumps the games played and cumulative score counters and
// reports whether newScore beats the stored best.
func (l *ScoreLedger) UpdateScore(ctx context.Context, newScore int) (bool, error) {
	var isNewBest bool
	err := l.update(ctx, func(current map[string]string) map[string]string {
		next := bumpCounters(current, newScore)
		_, isNewBest = next[KeyBestScore]
		return next
	})
	if err != nil {
		return false, err
	}
	return isNewBest, nil
}

func (l *ScoreLedger) newEntry(score, total int, difficultyLabel string) (domain.HighScoreEntry, error) {
	if strings.ContainsAny(difficultyLabel, fieldSeparator+entrySeparator) {
		return domain.HighScoreEntry{}, domain.ErrInvalidDifficultyLabel
	}
	return domain.HighScoreEntry{
		Score:         score,
		Total:         total,
		Timestamp:     l.now().UnixMilli(),
		Difficulty:    difficultyLabel,
		QuestionCount: total,
	}, nil
}

func (l *ScoreLedger) update(ctx context.Context, apply func(current map[string]string) map[string]string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.store.Update(ctx, ledgerKeys, func(current map[string]string) (map[string]string, error) {
		return apply(current), nil
	})
}

// insertEntry adds entry to an encoded list and returns the re-encoded top
// MaxHighScores. Malformed records are dropped on the way.
func insertEntry(raw string, entry domain.HighScoreEntry) string {
	// The new entry goes first so the stable sort ranks it above an
	// existing entry with identical percentage, score and timestamp.
	entries := append([]domain.HighScoreEntry{entry}, ParseEntries(raw)...)
	rankEntries(entries)
	if len(entries) > MaxHighScores {
		entries = entries[:MaxHighScores]
	}
	return EncodeEntries(entries)
}

// bumpCounters returns the counter values after one more game scoring
// score. KeyBestScore is present only when the best improved.
func bumpCounters(current map[string]string, score int) map[string]string {
	best := atoiOr(current[KeyBestScore], 0)
	next := map[string]string{
		KeyGamesPlayed: strconv.Itoa(atoiOr(current[KeyGamesPlayed], 0) + 1),
		KeyTotalScore:  strconv.Itoa(atoiOr(current[KeyTotalScore], 0) + score),
	}
	if score > best {
		next[KeyBestScore] = strconv.Itoa(score)
	}
	return next
}

// Stats reads the scalar counters.
func (l *ScoreLedger) Stats(ctx context.Context) (domain.Stats, error) {
	var stats domain.Stats
	var err error
	if stats.BestScore, err = l.prefs.Int(ctx, KeyBestScore, 0); err != nil {
		return domain.Stats{}, err
	}
	if stats.GamesPlayed, err = l.prefs.Int(ctx, KeyGamesPlayed, 0); err != nil {
		return domain.Stats{}, err
	}
	if stats.TotalScore, err = l.prefs.Int(ctx, KeyTotalScore, 0); err != nil {
		return domain.Stats{}, err
	}
	if stats.GamesPlayed > 0 {
		stats.AverageScore = float64(stats.TotalScore) / float64(stats.GamesPlayed)
	}
	return stats, nil
}

// Reset forgets every recorded result.
func (l *ScoreLedger) Reset(ctx context.Context) error {
	return l.store.Delete(ctx, KeyBestScore, KeyGamesPlayed, KeyTotalScore, KeyHighScores)
}

// rankEntries orders by percentage, then raw score, then recency, all
// descending.
func rankEntries(entries []domain.HighScoreEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		pi, pj := entries[i].Percentage(), entries[j].Percentage()
		if pi != pj {
			return pi > pj
		}
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return entries[i].Timestamp > entries[j].Timestamp
	})
}

// EncodeEntry renders score|total|timestamp|difficulty|questionCount.
func EncodeEntry(e domain.HighScoreEntry) string {
	return strings.Join([]string{
		strconv.Itoa(e.Score),
		strconv.Itoa(e.Total),
		strconv.FormatInt(e.Timestamp, 10),
		e.Difficulty,
		strconv.Itoa(e.QuestionCount),
	}, fieldSeparator)
}

// ParseEntry decodes one record. ok is false for a malformed record.
func ParseEntry(record string) (domain.HighScoreEntry, bool) {
	parts := strings.Split(record, fieldSeparator)
	if len(parts) < entryFields {
		return domain.HighScoreEntry{}, false
	}
	score, err := strconv.Atoi(parts[0])
	if err != nil {
		return domain.HighScoreEntry{}, false
	}
	total, err := strconv.Atoi(parts[1])
	if err != nil {
		return domain.HighScoreEntry{}, false
	}
	ts, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil {
		return domain.HighScoreEntry{}, false
	}
	count, err := strconv.Atoi(parts[4])
	if err != nil {
		return domain.HighScoreEntry{}, false
	}
	return domain.HighScoreEntry{
		Score:         score,
		Total:         total,
		Timestamp:     ts,
		Difficulty:    parts[3],
		QuestionCount: count,
	}, true
}

func EncodeEntries(entries []domain.HighScoreEntry) string {
	records := make([]string, len(entries))
	for i, e := range entries {
		records[i] = EncodeEntry(e)
	}
	return strings.Join(records, entrySeparator)
}

// ParseEntries decodes a stored list, dropping malformed records.
func ParseEntries(raw string) []domain.HighScoreEntry {
	entries := make([]domain.HighScoreEntry, 0, MaxHighScores)
	if raw == "" {
		return entries
	}
	for _, record := range strings.Split(raw, entrySeparator) {
		if entry, ok := ParseEntry(record); ok {
			entries = append(entries, entry)
		}
	}
	return entries
}
