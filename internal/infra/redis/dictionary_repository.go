package redis

import (
	"context"
	"encoding/json"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"vocab-quiz-service/internal/domain"
)

// WordLoader fetches the dictionary from a backing store (file, Postgres).
type WordLoader interface {
	LoadWords(ctx context.Context) ([]domain.WordEntry, error)
}

// DictionaryKey holds the JSON-encoded dictionary, in frequency order.
const DictionaryKey = "vocab:dictionary"

// DictionaryRepository caches the dictionary in Redis and falls back to a
// loader on cache miss.
type DictionaryRepository struct {
	client *redis.Client
	loader WordLoader
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
}

func NewDictionaryRepository(client *redis.Client, loader WordLoader, ttl time.Duration) *DictionaryRepository {
	return &DictionaryRepository{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *DictionaryRepository) AllEntries(ctx context.Context) ([]domain.WordEntry, error) {
	if words, ok := r.fromCache(ctx); ok {
		return words, nil
	}

	result, err, _ := r.sf.Do(DictionaryKey, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if words, ok := r.fromCache(ctx); ok {
			return words, nil
		}

		words, err := r.loader.LoadWords(ctx)
		if err != nil {
			return nil, err
		}

		// Caching is best-effort; a failed write only costs a reload.
		if data, err := json.Marshal(words); err == nil {
			_ = r.client.Set(ctx, DictionaryKey, data, r.ttlWithJitter()).Err()
		}
		return words, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.WordEntry), nil
}

func (r *DictionaryRepository) fromCache(ctx context.Context) ([]domain.WordEntry, bool) {
	data, err := r.client.Get(ctx, DictionaryKey).Bytes()
	if err != nil || len(data) == 0 {
		return nil, false
	}
	var words []domain.WordEntry
	if err := json.Unmarshal(data, &words); err != nil {
		return nil, false
	}
	return words, true
}

func (r *DictionaryRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
