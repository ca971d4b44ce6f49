package entity

import (
	"context"
	"time"
)

// RateWindow is the state of one caller's fixed window.
type RateWindow struct {
	Attempts int
	ResetAt  time.Time
}

type RateWindowStore interface {
	// Hit records one attempt for key and returns the window it fell into.
	// A window whose ResetAt is not after now starts over at one attempt.
	Hit(ctx context.Context, key string, now time.Time, window time.Duration) (RateWindow, error)
	// Sweep drops windows that expired before now and reports how many went.
	Sweep(ctx context.Context, now time.Time) (int, error)
}
