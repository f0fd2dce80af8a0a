// Package search turns keystrokes into debounced, sequence-guarded catalog
// searches and tracks whether the results panel is open.
package search

import (
	"context"
	"strings"
	"time"

	"github.com/cloo-solutions/movierec/internal/domain"
	"github.com/cloo-solutions/movierec/internal/logging"
	"github.com/cloo-solutions/movierec/internal/loop"
)

// DefaultDebounce is the quiet period after the last edit before a search is issued
const DefaultDebounce = 300 * time.Millisecond

// Phase is the controller's position in the search pipeline
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseDebouncing
	PhaseAwaiting
	PhaseOpenWithResults
	PhaseOpenEmpty
	PhaseClosed
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseDebouncing:
		return "debouncing"
	case PhaseAwaiting:
		return "awaiting-response"
	case PhaseOpenWithResults:
		return "open-with-results"
	case PhaseOpenEmpty:
		return "open-empty"
	case PhaseClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Searcher runs a catalog search
type Searcher interface {
	SearchMovies(ctx context.Context, text string) ([]domain.Movie, error)
}

// Chooser receives the movie picked from the results panel
type Chooser interface {
	Add(movie domain.Movie) []domain.Movie
}

// View is an immutable snapshot of the controller
type View struct {
	Text    string
	Query   string
	Phase   Phase
	Results []domain.Movie
	Open    bool
}

// Controller is loop-confined: every method must run on the scheduler's loop.
type Controller struct {
	sched    loop.Scheduler
	searcher Searcher
	chooser  Chooser
	debounce time.Duration
	onChange func()

	text    string
	query   string
	results []domain.Movie
	phase   Phase
	settled Phase

	dismissed bool
	timer     loop.Timer
	timerGen  uint64
	seq       uint64
	inFlight  bool
}

// NewController creates a controller. A non-positive debounce uses DefaultDebounce.
func NewController(sched loop.Scheduler, searcher Searcher, chooser Chooser, debounce time.Duration) *Controller {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Controller{
		sched:    sched,
		searcher: searcher,
		chooser:  chooser,
		debounce: debounce,
		phase:    PhaseIdle,
		settled:  PhaseIdle,
	}
}

// OnChange registers fn to run after every observable state change
func (c *Controller) OnChange(fn func()) {
	c.onChange = fn
}

// SetText records a keystroke and restarts the debounce window
func (c *Controller) SetText(text string) {
	c.text = text
	c.stopTimer()

	if strings.TrimSpace(text) == "" {
		c.reset()
		c.notify()
		return
	}

	c.dismissed = false
	c.timerGen++
	gen := c.timerGen
	c.timer = c.sched.AfterFunc(c.debounce, func() { c.fire(gen) })
	c.phase = PhaseDebouncing
	c.notify()
}

// Dismiss closes the panel. Responses that arrive later are stored but do not reopen it.
func (c *Controller) Dismiss() {
	if c.phase == PhaseClosed && c.dismissed {
		return
	}
	c.dismissed = true
	c.setSettled(PhaseClosed)
	c.notify()
}

// Focus reopens a dismissed panel when the input still holds text
func (c *Controller) Focus() {
	if strings.TrimSpace(c.text) == "" || c.phase != PhaseClosed {
		return
	}
	c.dismissed = false
	c.phase = c.openPhase()
	if c.phase != PhaseDebouncing && c.phase != PhaseAwaiting {
		c.settled = c.phase
	}
	c.notify()
}

// Choose adds movie to the selection, clears the input and closes the panel
func (c *Controller) Choose(movie domain.Movie) {
	c.chooser.Add(movie)
	c.text = ""
	c.stopTimer()
	c.reset()
	c.notify()
}

// ChooseIndex chooses the i-th result. It reports false when i is out of range.
func (c *Controller) ChooseIndex(i int) bool {
	if i < 0 || i >= len(c.results) {
		return false
	}
	c.Choose(c.results[i])
	return true
}

// View returns the current snapshot
func (c *Controller) View() View {
	results := make([]domain.Movie, len(c.results))
	copy(results, c.results)
	return View{
		Text:    c.text,
		Query:   c.query,
		Phase:   c.phase,
		Results: results,
		Open:    c.isOpen(),
	}
}

func (c *Controller) fire(gen uint64) {
	if gen != c.timerGen || c.timer == nil {
		return
	}
	c.timer = nil

	c.query = c.text
	c.seq++
	seq := c.seq
	query := c.query
	c.inFlight = true
	if !c.dismissed {
		c.phase = PhaseAwaiting
	}
	c.notify()

	logging.Debug().Str("query", query).Uint64("seq", seq).Msg("issuing search")
	c.sched.Go(func(ctx context.Context) func() {
		movies, err := c.searcher.SearchMovies(ctx, query)
		return func() { c.complete(seq, query, movies, err) }
	})
}

func (c *Controller) complete(seq uint64, query string, movies []domain.Movie, err error) {
	if seq != c.seq {
		logging.Debug().Str("query", query).Uint64("seq", seq).Uint64("latest", c.seq).Msg("discarding stale search response")
		return
	}
	c.inFlight = false

	if err != nil {
		logging.Warn().Err(err).Str("query", query).Msg("search failed")
		if c.dismissed {
			c.phase = PhaseClosed
		} else if c.timer != nil {
			c.phase = PhaseDebouncing
		} else {
			c.phase = c.settled
		}
		c.notify()
		return
	}

	c.results = movies
	switch {
	case c.dismissed:
		c.setSettled(PhaseClosed)
	case c.timer != nil:
		c.phase = PhaseDebouncing
		c.settled = c.resultPhase()
	default:
		c.setSettled(c.resultPhase())
	}
	c.notify()
}

// reset drops results and invalidates any in-flight response
func (c *Controller) reset() {
	c.query = ""
	c.results = nil
	c.seq++
	c.inFlight = false
	c.dismissed = false
	c.setSettled(PhaseClosed)
}

func (c *Controller) stopTimer() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.timerGen++
}

func (c *Controller) setSettled(p Phase) {
	c.phase = p
	c.settled = p
}

func (c *Controller) openPhase() Phase {
	switch {
	case c.timer != nil:
		return PhaseDebouncing
	case c.inFlight:
		return PhaseAwaiting
	default:
		return c.resultPhase()
	}
}

func (c *Controller) resultPhase() Phase {
	if len(c.results) > 0 {
		return PhaseOpenWithResults
	}
	return PhaseOpenEmpty
}

func (c *Controller) isOpen() bool {
	switch c.phase {
	case PhaseDebouncing, PhaseAwaiting, PhaseOpenWithResults, PhaseOpenEmpty:
		return !c.dismissed
	default:
		return false
	}
}

func (c *Controller) notify() {
	if c.onChange != nil {
		c.onChange()
	}
}
