// Package session wires selection, search, recommendation, and artwork onto
// one event loop and publishes immutable State snapshots.
package session

import (
	"context"
	"time"

	"github.com/cloo-solutions/movierec/internal/artwork"
	"github.com/cloo-solutions/movierec/internal/domain"
	"github.com/cloo-solutions/movierec/internal/loop"
	"github.com/cloo-solutions/movierec/internal/recommend"
	"github.com/cloo-solutions/movierec/internal/search"
	"github.com/cloo-solutions/movierec/internal/selection"
)

// Catalog is everything the session needs from the remote catalog
type Catalog interface {
	SearchMovies(ctx context.Context, text string) ([]domain.Movie, error)
	Recommend(ctx context.Context, ids []string, k int) ([]domain.Movie, error)
	LookupArtwork(ctx context.Context, externalID string) (domain.ArtworkPaths, error)
}

// Options tunes a session. Zero values use package defaults.
type Options struct {
	Debounce       time.Duration
	RecommendCount int
	ImageBaseURL   string
}

// State is an immutable snapshot of a session
type State struct {
	Version        uint64
	Selection      []domain.Movie
	SelectionFull  bool
	Search         search.View
	Recommendation recommend.Run
	CanRecommend   bool
	Artwork        map[string]artwork.Entry
	Alert          string
}

// Selected reports whether id is in the selection
func (s State) Selected(id string) bool {
	for _, m := range s.Selection {
		if m.ID == id {
			return true
		}
	}
	return false
}

// ArtworkFor returns the artwork entry for movie
func (s State) ArtworkFor(movie domain.Movie) artwork.Entry {
	if !movie.HasArtwork() {
		return artwork.Entry{Status: artwork.StatusUnavailable}
	}
	return s.Artwork[movie.ExternalID]
}

// Session owns the per-user state. Its exported methods are safe to call from
// any goroutine; they post onto the scheduler and return immediately.
type Session struct {
	sched     loop.Scheduler
	selection *selection.Selection
	search    *search.Controller
	recommend *recommend.Orchestrator
	artwork   *artwork.Resolver

	alert          string
	version        uint64
	publishPending bool
	subscribers    map[int]func(State)
	nextSubID      int
}

// New creates a session on sched
func New(sched loop.Scheduler, catalog Catalog, opts Options) *Session {
	s := &Session{
		sched:       sched,
		selection:   selection.New(),
		subscribers: make(map[int]func(State)),
	}

	s.search = search.NewController(sched, catalog, s.selection, opts.Debounce)
	s.recommend = recommend.NewOrchestrator(sched, catalog, s.selection, opts.RecommendCount)
	s.artwork = artwork.NewResolver(sched, catalog, opts.ImageBaseURL)

	s.selection.Subscribe(func([]domain.Movie) { s.changed() })
	s.search.OnChange(s.changed)
	s.recommend.OnChange(s.changed)
	s.recommend.OnSuccess(func(movies []domain.Movie) {
		s.artwork.Resolve(movies)
	})
	s.recommend.OnFailure(func(error) {
		s.alert = recommend.FailureMessage
		s.changed()
	})
	s.artwork.OnChange(func(string, artwork.Entry) { s.changed() })

	return s
}

// Subscribe registers fn to receive a State after every batch of changes,
// starting with the current one. fn runs on the loop and must not block.
func (s *Session) Subscribe(fn func(State)) func() {
	var id int
	s.sched.Post(func() {
		id = s.nextSubID
		s.nextSubID++
		s.subscribers[id] = fn
		fn(s.snapshot())
	})
	return func() {
		s.sched.Post(func() { delete(s.subscribers, id) })
	}
}

// SetQuery records the text of the search input
func (s *Session) SetQuery(text string) {
	s.sched.Post(func() { s.search.SetText(text) })
}

// Dismiss closes the results panel
func (s *Session) Dismiss() {
	s.sched.Post(s.search.Dismiss)
}

// Focus reopens the results panel when the input holds text
func (s *Session) Focus() {
	s.sched.Post(s.search.Focus)
}

// Choose adds movie to the selection and clears the search input
func (s *Session) Choose(movie domain.Movie) {
	s.sched.Post(func() { s.search.Choose(movie) })
}

// ChooseResult chooses the i-th movie of the visible results
func (s *Session) ChooseResult(i int) {
	s.sched.Post(func() { s.search.ChooseIndex(i) })
}

// Add puts movie in the selection without touching the search input
func (s *Session) Add(movie domain.Movie) {
	s.sched.Post(func() { s.selection.Add(movie) })
}

// Remove drops id from the selection
func (s *Session) Remove(id string) {
	s.sched.Post(func() { s.selection.Remove(id) })
}

// Recommend starts a recommendation run if one is allowed
func (s *Session) Recommend() {
	s.sched.Post(func() {
		if s.recommend.Trigger() && s.alert != "" {
			s.alert = ""
			s.changed()
		}
	})
}

// ClearAlert hides the current failure message
func (s *Session) ClearAlert() {
	s.sched.Post(func() {
		if s.alert != "" {
			s.alert = ""
			s.changed()
		}
	})
}

func (s *Session) changed() {
	s.version++
	if s.publishPending {
		return
	}
	s.publishPending = true
	s.sched.Post(s.publish)
}

func (s *Session) publish() {
	s.publishPending = false
	state := s.snapshot()
	for _, fn := range s.subscribers {
		fn(state)
	}
}

func (s *Session) snapshot() State {
	return State{
		Version:        s.version,
		Selection:      s.selection.Snapshot(),
		SelectionFull:  s.selection.Full(),
		Search:         s.search.View(),
		Recommendation: s.recommend.Run(),
		CanRecommend:   s.recommend.CanTrigger(),
		Artwork:        s.artwork.Entries(),
		Alert:          s.alert,
	}
}
