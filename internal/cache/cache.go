// Package cache stores artwork lookups for the proxy daemon.
package cache

import (
	"context"
	"time"

	"github.com/cloo-solutions/movierec/internal/domain"
)

// Store is an artwork cache keyed by TMDB id. Get reports a miss with
// ok == false and a nil error.
type Store interface {
	Get(ctx context.Context, externalID string) (paths domain.ArtworkPaths, ok bool, err error)
	Set(ctx context.Context, externalID string, paths domain.ArtworkPaths, ttl time.Duration) error
	Name() string
	Close() error
}
