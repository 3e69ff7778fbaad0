package workers

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/socialite-app/backend/internal/repositories"
)

// StorySweeper periodically flips the expired flag on stories whose
// deadline has passed. Expiry is a flag, not a delete: authors keep access
// to their expired stories while feeds stop serving them.
type StorySweeper struct {
	stories  repositories.StoryRepository
	interval time.Duration
	logger   *zap.Logger
}

// NewStorySweeper creates a sweeper ticking at the given interval.
func NewStorySweeper(stories repositories.StoryRepository, interval time.Duration, logger *zap.Logger) *StorySweeper {
	return &StorySweeper{stories: stories, interval: interval, logger: logger}
}

// Run sweeps once immediately, then on every tick until ctx is cancelled.
func (s *StorySweeper) Run(ctx context.Context) {
	s.Sweep()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("story sweeper stopped")
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}

// Sweep runs a single expiry pass.
func (s *StorySweeper) Sweep() {
	expired, err := s.stories.MarkExpired(time.Now())
	if err != nil {
		s.logger.Error("story expiry sweep failed", zap.Error(err))
		return
	}
	if expired > 0 {
		s.logger.Info("expired stories", zap.Int64("count", expired))
	}
}
