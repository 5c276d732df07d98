package memory

import (
	"context"
	"sync"

	"vocab-quiz-service/internal/app"
)

// PreferenceStore is an in-memory implementation of app.PreferenceStore.
type PreferenceStore struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewPreferenceStore() *PreferenceStore {
	return &PreferenceStore{
		values: make(map[string]string),
	}
}

func (s *PreferenceStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok, nil
}

func (s *PreferenceStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

func (s *PreferenceStore) SetMany(_ context.Context, values map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, v := range values {
		s.values[k] = v
	}
	return nil
}

func (s *PreferenceStore) Delete(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range keys {
		delete(s.values, k)
	}
	return nil
}

// Update holds the write lock for the whole read-modify-write.
func (s *PreferenceStore) Update(_ context.Context, keys []string, fn app.UpdateFunc) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	current := make(map[string]string, len(keys))
	for _, k := range keys {
		if v, ok := s.values[k]; ok {
			current[k] = v
		}
	}
	next, err := fn(current)
	if err != nil {
		return err
	}
	for k, v := range next {
		s.values[k] = v
	}
	return nil
}
