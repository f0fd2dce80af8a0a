// Package recommend runs at most one recommendation request at a time over a
// snapshot of the current selection.
package recommend

import (
	"context"

	"github.com/cloo-solutions/movierec/internal/domain"
	"github.com/cloo-solutions/movierec/internal/logging"
	"github.com/cloo-solutions/movierec/internal/loop"
)

// DefaultCount is the number of recommendations requested per run
const DefaultCount = 10

// FailureMessage is shown to the user when a run fails
const FailureMessage = "Failed to fetch recommendations. Ensure backend is running."

// MatchScore is the display score of the result at rank (0 = best)
func MatchScore(rank int) int {
	penalty := rank * 2
	if penalty > 15 {
		penalty = 15
	}
	if penalty < 0 {
		penalty = 0
	}
	return 98 - penalty
}

type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseSucceeded
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseLoading:
		return "loading"
	case PhaseSucceeded:
		return "succeeded"
	case PhaseFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Recommender fetches ranked recommendations for a set of movie ids
type Recommender interface {
	Recommend(ctx context.Context, ids []string, k int) ([]domain.Movie, error)
}

// SelectionReader is the read side of the selection the orchestrator snapshots
type SelectionReader interface {
	IDs() []string
	Len() int
}

// Run is an immutable snapshot of the latest recommendation run
type Run struct {
	Phase   Phase
	IDs     []string
	K       int
	Results []domain.Movie
	Err     error
}

// Loading reports whether the run is in flight
func (r Run) Loading() bool {
	return r.Phase == PhaseLoading
}

// Orchestrator is loop-confined
type Orchestrator struct {
	sched       loop.Scheduler
	recommender Recommender
	selection   SelectionReader
	k           int

	phase   Phase
	token   uint64
	ids     []string
	results []domain.Movie
	err     error

	onChange  func()
	onSuccess func(movies []domain.Movie)
	onFailure func(err error)
}

// NewOrchestrator creates an idle orchestrator. A non-positive k uses DefaultCount.
func NewOrchestrator(sched loop.Scheduler, recommender Recommender, sel SelectionReader, k int) *Orchestrator {
	if k <= 0 {
		k = DefaultCount
	}
	return &Orchestrator{
		sched:       sched,
		recommender: recommender,
		selection:   sel,
		k:           k,
		phase:       PhaseIdle,
	}
}

// OnChange registers fn to run after every phase change
func (o *Orchestrator) OnChange(fn func()) {
	o.onChange = fn
}

// OnSuccess registers fn to receive the ranked list of each accepted run
func (o *Orchestrator) OnSuccess(fn func(movies []domain.Movie)) {
	o.onSuccess = fn
}

// OnFailure registers fn to receive the error of each failed run
func (o *Orchestrator) OnFailure(fn func(err error)) {
	o.onFailure = fn
}

// CanTrigger reports whether Trigger would start a run
func (o *Orchestrator) CanTrigger() bool {
	return o.selection.Len() > 0 && o.phase != PhaseLoading
}

// Trigger starts a run over the current selection. It returns false, and does
// nothing, when the selection is empty or a run is already loading.
func (o *Orchestrator) Trigger() bool {
	if !o.CanTrigger() {
		return false
	}

	o.token++
	token := o.token
	ids := o.selection.IDs()
	k := o.k

	o.phase = PhaseLoading
	o.ids = ids
	o.err = nil
	o.notify()

	logging.Info().Strs("selected_movie_ids", ids).Int("k", k).Msg("requesting recommendations")
	o.sched.Go(func(ctx context.Context) func() {
		movies, err := o.recommender.Recommend(ctx, ids, k)
		return func() { o.complete(token, movies, err) }
	})
	return true
}

// Run returns the current snapshot
func (o *Orchestrator) Run() Run {
	ids := make([]string, len(o.ids))
	copy(ids, o.ids)
	results := make([]domain.Movie, len(o.results))
	copy(results, o.results)
	return Run{
		Phase:   o.phase,
		IDs:     ids,
		K:       o.k,
		Results: results,
		Err:     o.err,
	}
}

func (o *Orchestrator) complete(token uint64, movies []domain.Movie, err error) {
	if token != o.token || o.phase != PhaseLoading {
		logging.Debug().Uint64("token", token).Uint64("current", o.token).Msg("discarding stale recommendation response")
		return
	}

	if err != nil {
		logging.Error().Err(err).Strs("selected_movie_ids", o.ids).Msg("recommendation request failed")
		o.phase = PhaseFailed
		o.results = nil
		o.err = err
		o.notify()
		if o.onFailure != nil {
			o.onFailure(err)
		}
		return
	}

	logging.Info().Int("count", len(movies)).Msg("recommendations received")
	o.phase = PhaseSucceeded
	o.results = movies
	o.notify()
	if o.onSuccess != nil {
		o.onSuccess(movies)
	}
}

func (o *Orchestrator) notify() {
	if o.onChange != nil {
		o.onChange()
	}
}
