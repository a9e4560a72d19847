package discovery

import (
	"context"
	"time"

	"github.com/imadgeboyega/kiekky-discovery/internal/common/logging"
)

// Scheduler keeps the cached candidate pool warm.
type Scheduler struct {
	cache    *CachedProfileStore
	interval time.Duration
}

func NewScheduler(cache *CachedProfileStore, interval time.Duration) *Scheduler {
	return &Scheduler{cache: cache, interval: interval}
}

// Start runs the refresh loop in the background. A non-positive interval
// disables it.
func (s *Scheduler) Start(ctx context.Context) bool {
	if s.interval <= 0 {
		logging.Warn().Dur("interval", s.interval).Msg("pool refresh disabled, interval must be positive")
		return false
	}
	go s.runEvery(ctx, s.interval, s.refreshPool)
	return true
}

func (s *Scheduler) refreshPool(ctx context.Context) error {
	pool, err := s.cache.Refresh(ctx)
	if err != nil {
		return err
	}
	logging.Debug().Int("profiles", len(pool)).Msg("candidate pool refreshed")
	return nil
}

func (s *Scheduler) runEvery(ctx context.Context, interval time.Duration, task func(context.Context) error) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := task(ctx); err != nil {
				logging.Warn().Err(err).Msg("scheduled task failed")
			}
		case <-ctx.Done():
			return
		}
	}
}
