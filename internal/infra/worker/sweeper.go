package worker

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/xavierca1/lead-intake/internal/entity"
	"github.com/xavierca1/lead-intake/internal/infra/logger"
)

// Sweeper drops expired rate-limit windows on a cron schedule.
type Sweeper struct {
	store    entity.RateWindowStore
	schedule string
	cron     *cron.Cron
	now      func() time.Time
}

func NewSweeper(store entity.RateWindowStore, schedule string) *Sweeper {
	if schedule == "" {
		schedule = "@every 10m"
	}
	return &Sweeper{
		store:    store,
		schedule: schedule,
		cron:     cron.New(),
		now:      time.Now,
	}
}

// Start registers the sweep and starts the scheduler. Sweeps run with ctx;
// call Stop to end the schedule.
func (s *Sweeper) Start(ctx context.Context) error {
	if _, err := s.cron.AddFunc(s.schedule, func() { s.Sweep(ctx) }); err != nil {
		return err
	}
	s.cron.Start()

	logger.Named("sweeper").Info().Str("schedule", s.schedule).Msg("rate window sweeper started")
	return nil
}

// Stop waits for a running sweep, bounded by ctx.
func (s *Sweeper) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		logger.Named("sweeper").Warn().Msg("sweeper stop timed out")
	}
}

// Sweep runs one pass and returns how many windows were removed.
func (s *Sweeper) Sweep(ctx context.Context) int {
	log := logger.Named("sweeper")

	removed, err := s.store.Sweep(ctx, s.now())
	if err != nil {
		log.Error().Err(err).Msg("sweep failed")
		return 0
	}
	if removed > 0 {
		log.Debug().Int("removed", removed).Msg("expired rate windows dropped")
	}
	return removed
}
