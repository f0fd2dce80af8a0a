package session

import (
	"context"

	"github.com/cloo-solutions/movierec/internal/artwork"
	"github.com/cloo-solutions/movierec/internal/recommend"
)

// WaitFor blocks until a published State satisfies pred or ctx is done.
// The loop driving s must be running.
func (s *Session) WaitFor(ctx context.Context, pred func(State) bool) (State, error) {
	found := make(chan State, 1)
	unsubscribe := s.Subscribe(func(st State) {
		if !pred(st) {
			return
		}
		select {
		case found <- st:
		default:
		}
	})
	defer unsubscribe()

	select {
	case st := <-found:
		return st, nil
	case <-ctx.Done():
		return State{}, ctx.Err()
	}
}

// RecommendationSettled reports whether the last run finished and, when it
// succeeded, every result's artwork has settled.
func (s State) RecommendationSettled() bool {
	switch s.Recommendation.Phase {
	case recommend.PhaseFailed:
		return true
	case recommend.PhaseSucceeded:
		for _, m := range s.Recommendation.Results {
			switch s.ArtworkFor(m).Status {
			case artwork.StatusUnknown, artwork.StatusPending:
				return false
			}
		}
		return true
	default:
		return false
	}
}
