package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/xavierca1/lead-intake/internal/entity"
)

// MemoryStore keeps windows in process. Each instance counts on its own.
type MemoryStore struct {
	mu      sync.Mutex
	windows map[string]*entity.RateWindow
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{windows: make(map[string]*entity.RateWindow)}
}

func (s *MemoryStore) Hit(_ context.Context, key string, now time.Time, window time.Duration) (entity.RateWindow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.windows[key]
	if !ok || !w.ResetAt.After(now) {
		w = &entity.RateWindow{Attempts: 1, ResetAt: now.Add(window)}
		s.windows[key] = w
		return *w, nil
	}

	w.Attempts++
	return *w, nil
}

func (s *MemoryStore) Sweep(_ context.Context, now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for key, w := range s.windows {
		if !w.ResetAt.After(now) {
			delete(s.windows, key)
			removed++
		}
	}
	return removed, nil
}

// Len is the number of live windows, expired or not.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.windows)
}
