// Package selection holds the bounded, ordered set of movies a user picked.
package selection

import (
	"github.com/cloo-solutions/movierec/internal/domain"
)

// MaxSize is the number of movies a selection can hold
const MaxSize = 10

// Listener receives the selection snapshot after each successful mutation
type Listener func(movies []domain.Movie)

// Selection is an insertion-ordered set of movies, unique by id.
// It is not safe for concurrent use; the session loop owns it.
type Selection struct {
	movies    []domain.Movie
	capacity  int
	listeners map[int]Listener
	nextID    int
}

// New creates an empty selection holding at most MaxSize movies
func New() *Selection {
	return NewWithCapacity(MaxSize)
}

// NewWithCapacity creates an empty selection with a custom bound
func NewWithCapacity(capacity int) *Selection {
	if capacity <= 0 {
		capacity = MaxSize
	}
	return &Selection{
		capacity:  capacity,
		listeners: make(map[int]Listener),
	}
}

// Add appends movie unless its id is already present or the selection is full.
// Both cases are silent no-ops. It returns the resulting snapshot.
func (s *Selection) Add(movie domain.Movie) []domain.Movie {
	if s.Contains(movie.ID) || s.Full() {
		return s.Snapshot()
	}

	s.movies = append(s.movies, movie)
	return s.changed()
}

// Remove drops the movie with the given id; absent ids are a no-op
func (s *Selection) Remove(id string) []domain.Movie {
	idx := s.indexOf(id)
	if idx < 0 {
		return s.Snapshot()
	}

	s.movies = append(s.movies[:idx:idx], s.movies[idx+1:]...)
	return s.changed()
}

func (s *Selection) Contains(id string) bool {
	return s.indexOf(id) >= 0
}

func (s *Selection) Len() int {
	return len(s.movies)
}

func (s *Selection) Full() bool {
	return len(s.movies) >= s.capacity
}

func (s *Selection) Capacity() int {
	return s.capacity
}

// Snapshot returns a copy that later mutations do not affect
func (s *Selection) Snapshot() []domain.Movie {
	out := make([]domain.Movie, len(s.movies))
	copy(out, s.movies)
	return out
}

// IDs returns the selected ids in insertion order
func (s *Selection) IDs() []string {
	return domain.MovieIDs(s.movies)
}

// Subscribe registers fn and returns a function that unregisters it
func (s *Selection) Subscribe(fn Listener) func() {
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	return func() { delete(s.listeners, id) }
}

func (s *Selection) indexOf(id string) int {
	for i, m := range s.movies {
		if m.ID == id {
			return i
		}
	}
	return -1
}

func (s *Selection) changed() []domain.Movie {
	snapshot := s.Snapshot()
	for id := 0; id < s.nextID; id++ {
		if fn, ok := s.listeners[id]; ok {
			fn(s.Snapshot())
		}
	}
	return snapshot
}
