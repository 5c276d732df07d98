package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"vocab-quiz-service/internal/domain"
)

// WordLoader fetches the dictionary from a backing store (file, Postgres).
type WordLoader interface {
	LoadWords(ctx context.Context) ([]domain.WordEntry, error)
}

const dictionaryKey = "dictionary"

// DictionaryRepository caches the dictionary with a TTL to avoid reloading
// it for every quiz.
type DictionaryRepository struct {
	loader WordLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand // only used inside sf.Do

	mu        sync.RWMutex
	words     []domain.WordEntry
	expiresAt time.Time
}

func NewDictionaryRepository(loader WordLoader, ttl time.Duration) *DictionaryRepository {
	return &DictionaryRepository{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// AllEntries returns the cached dictionary, loading it on a miss. The
// returned slice is shared and must not be modified.
func (r *DictionaryRepository) AllEntries(ctx context.Context) ([]domain.WordEntry, error) {
	if words, ok := r.cached(); ok {
		return words, nil
	}

	result, err, _ := r.sf.Do(dictionaryKey, func() (interface{}, error) {
		if words, ok := r.cached(); ok {
			return words, nil
		}

		words, err := r.loader.LoadWords(ctx)
		if err != nil {
			return nil, err
		}

		expiresAt := r.clock().Add(r.ttlWithJitter())
		r.mu.Lock()
		r.words = words
		r.expiresAt = expiresAt
		r.mu.Unlock()
		return words, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.WordEntry), nil
}

func (r *DictionaryRepository) cached() ([]domain.WordEntry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.words != nil && r.expiresAt.After(r.clock()) {
		return r.words, true
	}
	return nil, false
}

func (r *DictionaryRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}

// StaticWordLoader is a loader backed by a fixed slice (useful for tests/demos).
type StaticWordLoader struct {
	words []domain.WordEntry
}

func NewStaticWordLoader(words []domain.WordEntry) *StaticWordLoader {
	return &StaticWordLoader{words: words}
}

func (l *StaticWordLoader) LoadWords(_ context.Context) ([]domain.WordEntry, error) {
	return l.words, nil
}
