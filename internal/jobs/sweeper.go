package jobs

import (
	"context"

	"github.com/cloo-solutions/movierec/internal/logging"
)

// Sweepable is a cache that can drop its expired entries
type Sweepable interface {
	Sweep() int
}

// CacheSweeper purges expired artwork entries from the in-memory cache
type CacheSweeper struct {
	cache Sweepable
}

func NewCacheSweeper(cache Sweepable) *CacheSweeper {
	return &CacheSweeper{cache: cache}
}

func (s *CacheSweeper) Name() string { return "artwork_cache_sweep" }

func (s *CacheSweeper) Run(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if removed := s.cache.Sweep(); removed > 0 {
		logging.Debug().Int("removed", removed).Msg("expired artwork entries swept")
	}
	return nil
}
