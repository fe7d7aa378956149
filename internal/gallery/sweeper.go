package gallery

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// RunSweeper calls SweepOrphans every interval until ctx is cancelled.
func (s *Service) RunSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.Info().Dur("interval", interval).Msg("orphan sweeper started")
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("orphan sweeper stopped")
			return
		case <-ticker.C:
			removed, err := s.SweepOrphans(ctx)
			if err != nil {
				log.Error().Err(err).Int("removed", removed).Msg("orphan sweep failed")
				continue
			}
			if removed > 0 {
				log.Info().Int("removed", removed).Msg("orphan sweep finished")
			}
		}
	}
}
