package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"vocab-quiz-service/internal/app"
)

// maxUpdateAttempts bounds the optimistic retries of Update.
const maxUpdateAttempts = 20

// ErrUpdateConflict is returned when Update keeps losing to other writers.
var ErrUpdateConflict = errors.New("preferences changed concurrently")

// PreferenceStore keeps preferences as plain Redis strings under
// vocab:prefs:{profile}:{key}. Values never expire.
type PreferenceStore struct {
	client  *redis.Client
	profile string
}

func NewPreferenceStore(client *redis.Client, profile string) *PreferenceStore {
	if profile == "" {
		profile = "default"
	}
	return &PreferenceStore{client: client, profile: profile}
}

func (s *PreferenceStore) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := s.client.Get(ctx, s.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get preference %s: %w", key, err)
	}
	return v, true, nil
}

func (s *PreferenceStore) Set(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, s.key(key), value, 0).Err(); err != nil {
		return fmt.Errorf("set preference %s: %w", key, err)
	}
	return nil
}

// SetMany writes all values in one MULTI/EXEC transaction.
func (s *PreferenceStore) SetMany(ctx context.Context, values map[string]string) error {
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for k, v := range values {
			pipe.Set(ctx, s.key(k), v, 0)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("set preferences: %w", err)
	}
	return nil
}

func (s *PreferenceStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := s.client.Del(ctx, s.keys(keys)...).Err(); err != nil {
		return fmt.Errorf("delete preferences: %w", err)
	}
	return nil
}

// Update is an optimistic check-and-set: the keys are WATCHed, read with
// MGET and rewritten in MULTI/EXEC, retrying when another client touched
// them first.
func (s *PreferenceStore) Update(ctx context.Context, keys []string, fn app.UpdateFunc) error {
	full := s.keys(keys)
	txf := func(tx *redis.Tx) error {
		raw, err := tx.MGet(ctx, full...).Result()
		if err != nil {
			return err
		}
		current := make(map[string]string, len(keys))
		for i, v := range raw {
			if str, ok := v.(string); ok {
				current[keys[i]] = str
			}
		}
		next, err := fn(current)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			for k, v := range next {
				pipe.Set(ctx, s.key(k), v, 0)
			}
			return nil
		})
		return err
	}

	for attempt := 0; attempt < maxUpdateAttempts; attempt++ {
		err := s.client.Watch(ctx, txf, full...)
		if err == nil {
			return nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return fmt.Errorf("update preferences: %w", err)
	}
	return fmt.Errorf("update preferences: %w", ErrUpdateConflict)
}

func (s *PreferenceStore) keys(names []string) []string {
	full := make([]string, len(names))
	for i, k := range names {
		full[i] = s.key(k)
	}
	return full
}

func (s *PreferenceStore) key(name string) string {
	return "vocab:prefs:" + s.profile + ":" + name
}
