package artwork

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/cloo-solutions/movierec/internal/domain"
	"github.com/cloo-solutions/movierec/internal/testutil"
)

type MockLooker struct {
	mock.Mock
}

func (m *MockLooker) LookupArtwork(ctx context.Context, externalID string) (domain.ArtworkPaths, error) {
	args := m.Called(ctx, externalID)
	return args.Get(0).(domain.ArtworkPaths), args.Error(1)
}

func TestResolver_NullPosterIsUnavailableAndNotRepeated(t *testing.T) {
	sched := testutil.NewManualScheduler()
	looker := &MockLooker{}
	looker.On("LookupArtwork", mock.Anything, "862").Return(domain.ArtworkPaths{}, nil).Once()

	r := NewResolver(sched, looker, "")
	toyStory := domain.NewMovie("1", "Toy Story (1995)", "Animation", "862")

	assert.Equal(t, 1, r.Resolve([]domain.Movie{toyStory}))
	entry, ok := r.Entry("862")
	require.True(t, ok)
	assert.Equal(t, StatusPending, entry.Status)

	sched.CompleteAll()

	entry, _ = r.Entry("862")
	assert.Equal(t, StatusUnavailable, entry.Status)
	assert.Equal(t, "", r.PosterURL(toyStory))

	assert.Equal(t, 0, r.Resolve([]domain.Movie{toyStory}))
	sched.CompleteAll()
	looker.AssertNumberOfCalls(t, "LookupArtwork", 1)
}

func TestResolver_AvailablePoster(t *testing.T) {
	sched := testutil.NewManualScheduler()
	looker := &MockLooker{}
	looker.On("LookupArtwork", mock.Anything, "862").
		Return(domain.NewArtworkPaths("/uXDfjJbdP4ijW5hWSBrPrlKpxab.jpg", ""), nil)

	r := NewResolver(sched, looker, "")
	r.Resolve([]domain.Movie{domain.NewMovie("1", "Toy Story (1995)", "Animation", "862")})
	sched.CompleteAll()

	entry, _ := r.Entry("862")
	assert.Equal(t, StatusAvailable, entry.Status)
	assert.Equal(t, "https://image.tmdb.org/t/p/w500/uXDfjJbdP4ijW5hWSBrPrlKpxab.jpg", entry.PosterURL)
}

func TestResolver_FailureIsUnavailable(t *testing.T) {
	sched := testutil.NewManualScheduler()
	looker := &MockLooker{}
	looker.On("LookupArtwork", mock.Anything, "8844").Return(domain.ArtworkPaths{}, errors.New("500"))

	r := NewResolver(sched, looker, "")
	r.Resolve([]domain.Movie{domain.NewMovie("2", "Jumanji (1995)", "Adventure", "8844")})
	sched.CompleteAll()

	entry, _ := r.Entry("8844")
	assert.Equal(t, StatusUnavailable, entry.Status)

	r.Resolve([]domain.Movie{domain.NewMovie("2", "Jumanji (1995)", "Adventure", "8844")})
	assert.Empty(t, sched.PendingTasks(), "failures are not retried")
}

func TestResolver_SkipsMoviesWithoutExternalID(t *testing.T) {
	sched := testutil.NewManualScheduler()
	looker := &MockLooker{}

	r := NewResolver(sched, looker, "")
	n := r.Resolve([]domain.Movie{domain.NewMovie("3", "Grumpier Old Men (1995)", "Comedy", "")})

	assert.Equal(t, 0, n)
	assert.Empty(t, sched.PendingTasks())
	assert.Empty(t, r.Entries())
	looker.AssertNotCalled(t, "LookupArtwork", mock.Anything, mock.Anything)
}

func TestResolver_OneLookupPerIDWhilePending(t *testing.T) {
	sched := testutil.NewManualScheduler()
	looker := &MockLooker{}
	looker.On("LookupArtwork", mock.Anything, "862").Return(domain.ArtworkPaths{}, nil)

	r := NewResolver(sched, looker, "")
	m := domain.NewMovie("1", "Toy Story (1995)", "Animation", "862")
	r.Resolve([]domain.Movie{m, m})
	r.Resolve([]domain.Movie{m})

	assert.Len(t, sched.PendingTasks(), 1)
}

func TestResolver_IndependentCompletion(t *testing.T) {
	sched := testutil.NewManualScheduler()
	looker := &MockLooker{}
	looker.On("LookupArtwork", mock.Anything, "1").Return(domain.NewArtworkPaths("/a.jpg", ""), nil)
	looker.On("LookupArtwork", mock.Anything, "2").Return(domain.NewArtworkPaths("/b.jpg", ""), nil)

	r := NewResolver(sched, looker, "https://img.example/t/p/w200/")
	var order []string
	r.OnChange(func(id string, e Entry) {
		if e.Status != StatusPending {
			order = append(order, id)
		}
	})

	r.Resolve([]domain.Movie{
		domain.NewMovie("a", "A", "", "1"),
		domain.NewMovie("b", "B", "", "2"),
	})
	pending := sched.PendingTasks()
	require.Len(t, pending, 2)
	pending[1].Complete()
	pending[0].Complete()

	assert.Equal(t, []string{"2", "1"}, order)
	e, _ := r.Entry("1")
	assert.Equal(t, "https://img.example/t/p/w200/a.jpg", e.PosterURL)
}

func TestStatus_String(t *testing.T) {
	assert.Equal(t, "pending", StatusPending.String())
	assert.Equal(t, "unavailable", StatusUnavailable.String())
	assert.Equal(t, "unknown", StatusUnknown.String())
}

func TestJoinPosterURL(t *testing.T) {
	assert.Equal(t, "https://image.tmdb.org/t/p/w500/a.jpg", JoinPosterURL("", "/a.jpg"))
	assert.Equal(t, "http://img.local/b.jpg", JoinPosterURL("http://img.local/", "b.jpg"))
}
