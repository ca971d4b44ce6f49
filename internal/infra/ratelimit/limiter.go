// Package ratelimit counts attempts per caller in fixed windows.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/xavierca1/lead-intake/internal/entity"
	"github.com/xavierca1/lead-intake/internal/usecase"
)

const (
	DefaultLimit  = 5
	DefaultWindow = 15 * time.Minute
)

// Limiter allows at most limit attempts per key in each window. Window state
// lives in the store, so a shared store gives a shared quota.
type Limiter struct {
	store  entity.RateWindowStore
	limit  int
	window time.Duration
	now    func() time.Time
}

func NewLimiter(store entity.RateWindowStore, limit int, window time.Duration) *Limiter {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if window <= 0 {
		window = DefaultWindow
	}
	return &Limiter{store: store, limit: limit, window: window, now: time.Now}
}

func (l *Limiter) Allow(ctx context.Context, key string) (usecase.RateDecision, error) {
	now := l.now()

	w, err := l.store.Hit(ctx, key, now, l.window)
	if err != nil {
		return usecase.RateDecision{}, fmt.Errorf("rate window for %q: %w", key, err)
	}

	if w.Attempts <= l.limit {
		return usecase.RateDecision{Allowed: true}, nil
	}
	return usecase.RateDecision{Allowed: false, RetryAfter: w.ResetAt.Sub(now)}, nil
}

func (l *Limiter) Store() entity.RateWindowStore { return l.store }
