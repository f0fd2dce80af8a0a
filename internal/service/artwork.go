package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/cloo-solutions/movierec/internal/domain"
	"github.com/cloo-solutions/movierec/internal/logging"
	"github.com/cloo-solutions/movierec/internal/metrics"
	"github.com/cloo-solutions/movierec/internal/telemetry"
	"github.com/cloo-solutions/movierec/internal/tmdb"
)

const DefaultArtworkTTL = 24 * time.Hour

type ArtworkUpstream interface {
	MovieArtwork(ctx context.Context, id string) (domain.ArtworkPaths, error)
	Configured() bool
}

type ArtworkCache interface {
	Get(ctx context.Context, externalID string) (domain.ArtworkPaths, bool, error)
	Set(ctx context.Context, externalID string, paths domain.ArtworkPaths, ttl time.Duration) error
	Name() string
}

// ArtworkService is a read-through cache in front of TMDB. Not-found answers
// are cached as the null shape; failures are not cached.
type ArtworkService struct {
	upstream ArtworkUpstream
	cache    ArtworkCache
	ttl      time.Duration
	group    singleflight.Group
}

func NewArtworkService(upstream ArtworkUpstream, cache ArtworkCache, ttl time.Duration) *ArtworkService {
	if ttl <= 0 {
		ttl = DefaultArtworkTTL
	}
	return &ArtworkService{
		upstream: upstream,
		cache:    cache,
		ttl:      ttl,
	}
}

// Lookup returns the artwork paths for a TMDB id
func (s *ArtworkService) Lookup(ctx context.Context, externalID string) (domain.ArtworkPaths, error) {
	if !s.upstream.Configured() {
		return domain.ArtworkPaths{}, domain.ErrArtworkNotConfigured
	}

	externalID = strings.TrimSpace(externalID)
	if externalID == "" {
		return domain.ArtworkPaths{}, domain.ErrMissingMovieID
	}

	ctx, span := telemetry.StartSpan(ctx, "artwork.lookup", telemetry.SpanAttributes{
		ExternalID: externalID,
		Operation:  "lookup",
	})
	defer span.End()

	log := logging.Ctx(ctx)

	paths, ok, err := s.cache.Get(ctx, externalID)
	if err != nil {
		log.Warn().Err(err).Str("tmdb_id", externalID).Str("cache", s.cache.Name()).Msg("artwork cache read failed")
	}
	if ok {
		metrics.RecordCacheLookup(s.cache.Name(), true)
		span.SetTag("cache", "hit")
		return paths, nil
	}
	metrics.RecordCacheLookup(s.cache.Name(), false)
	span.SetTag("cache", "miss")

	// the shared fetch outlives any single caller's cancellation
	fetchCtx := context.WithoutCancel(ctx)
	v, err, shared := s.group.Do(externalID, func() (interface{}, error) {
		return s.fetch(fetchCtx, externalID)
	})
	if shared {
		log.Debug().Str("tmdb_id", externalID).Msg("artwork lookup shared with concurrent request")
	}
	if err != nil {
		span.SetError(err)
		telemetry.CaptureError(ctx, err)
		log.Error().Err(err).Str("tmdb_id", externalID).Msg("artwork lookup failed")
		return domain.ArtworkPaths{}, domain.NewDomainErrorWithCause(domain.ErrCodeUpstream, domain.ErrArtworkUpstream.Message, err)
	}
	return v.(domain.ArtworkPaths), nil
}

func (s *ArtworkService) fetch(ctx context.Context, externalID string) (domain.ArtworkPaths, error) {
	paths, err := s.upstream.MovieArtwork(ctx, externalID)
	if errors.Is(err, tmdb.ErrNotFound) {
		telemetry.AddBreadcrumb(ctx, "tmdb", "movie "+externalID+" not found")
		paths, err = domain.ArtworkPaths{}, nil
	}
	if err != nil {
		return domain.ArtworkPaths{}, err
	}

	if err := s.cache.Set(ctx, externalID, paths, s.ttl); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("tmdb_id", externalID).Msg("artwork cache write failed")
	}
	return paths, nil
}
