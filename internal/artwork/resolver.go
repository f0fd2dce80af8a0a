// Package artwork resolves poster URLs for displayed movies, looking each
// external id up at most once per session.
package artwork

import (
	"context"
	"strings"

	"github.com/cloo-solutions/movierec/internal/domain"
	"github.com/cloo-solutions/movierec/internal/logging"
	"github.com/cloo-solutions/movierec/internal/loop"
)

// DefaultImageBaseURL is prefixed to poster paths
const DefaultImageBaseURL = "https://image.tmdb.org/t/p/w500"

// Status of an artwork entry
type Status int

const (
	StatusUnknown Status = iota
	StatusPending
	StatusAvailable
	StatusUnavailable
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusAvailable:
		return "available"
	case StatusUnavailable:
		return "unavailable"
	default:
		return "unknown"
	}
}

// Looker fetches artwork paths for an external id
type Looker interface {
	LookupArtwork(ctx context.Context, externalID string) (domain.ArtworkPaths, error)
}

// Entry is the resolved artwork for one external id
type Entry struct {
	Status    Status
	PosterURL string
}

// Resolver is loop-confined. Lookups run concurrently and are applied in
// completion order.
type Resolver struct {
	sched   loop.Scheduler
	looker  Looker
	baseURL string

	entries  map[string]Entry
	onChange func(externalID string, entry Entry)
}

// NewResolver creates a resolver. An empty baseURL uses DefaultImageBaseURL.
func NewResolver(sched loop.Scheduler, looker Looker, baseURL string) *Resolver {
	if baseURL == "" {
		baseURL = DefaultImageBaseURL
	}
	return &Resolver{
		sched:   sched,
		looker:  looker,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		entries: make(map[string]Entry),
	}
}

// OnChange registers fn to run whenever an entry is created or settles
func (r *Resolver) OnChange(fn func(externalID string, entry Entry)) {
	r.onChange = fn
}

// Resolve starts one lookup for every movie whose external id has no entry
// yet. Movies without an external id are skipped. It returns the number of
// lookups started.
func (r *Resolver) Resolve(movies []domain.Movie) int {
	started := 0
	for _, m := range movies {
		if !m.HasArtwork() {
			continue
		}
		if _, ok := r.entries[m.ExternalID]; ok {
			continue
		}
		r.start(m.ExternalID)
		started++
	}
	return started
}

// Entry returns the entry for externalID
func (r *Resolver) Entry(externalID string) (Entry, bool) {
	e, ok := r.entries[externalID]
	return e, ok
}

// PosterURL returns the poster URL of movie, or "" while pending or when unavailable
func (r *Resolver) PosterURL(movie domain.Movie) string {
	if !movie.HasArtwork() {
		return ""
	}
	return r.entries[movie.ExternalID].PosterURL
}

// Entries returns a copy of every entry, keyed by external id
func (r *Resolver) Entries() map[string]Entry {
	out := make(map[string]Entry, len(r.entries))
	for k, v := range r.entries {
		out[k] = v
	}
	return out
}

func (r *Resolver) start(externalID string) {
	r.set(externalID, Entry{Status: StatusPending})

	r.sched.Go(func(ctx context.Context) func() {
		paths, err := r.looker.LookupArtwork(ctx, externalID)
		return func() { r.complete(externalID, paths, err) }
	})
}

func (r *Resolver) complete(externalID string, paths domain.ArtworkPaths, err error) {
	if err != nil {
		logging.Warn().Err(err).Str("external_id", externalID).Msg("artwork lookup failed")
		r.set(externalID, Entry{Status: StatusUnavailable})
		return
	}
	if !paths.HasPoster() {
		r.set(externalID, Entry{Status: StatusUnavailable})
		return
	}
	r.set(externalID, Entry{Status: StatusAvailable, PosterURL: r.posterURL(*paths.PosterPath)})
}

func (r *Resolver) posterURL(path string) string {
	return JoinPosterURL(r.baseURL, path)
}

// JoinPosterURL prefixes a poster path with the image base. An empty base
// uses DefaultImageBaseURL.
func JoinPosterURL(baseURL, path string) string {
	if baseURL == "" {
		baseURL = DefaultImageBaseURL
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return strings.TrimSuffix(baseURL, "/") + path
}

func (r *Resolver) set(externalID string, entry Entry) {
	r.entries[externalID] = entry
	if r.onChange != nil {
		r.onChange(externalID, entry)
	}
}
