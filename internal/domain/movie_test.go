package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseGenres(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected []string
	}{
		{"Single", "Comedy", []string{"Comedy"}},
		{"Multiple", "Animation|Children's|Comedy", []string{"Animation", "Children's", "Comedy"}},
		{"Empty", "", nil},
		{"Whitespace", "   ", nil},
		{"EmptyLabels", "Drama||War|", []string{"Drama", "War"}},
		{"TrimmedLabels", " Action | Thriller ", []string{"Action", "Thriller"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseGenres(tt.raw))
		})
	}
}

func TestJoinGenres(t *testing.T) {
	assert.Equal(t, "Animation|Comedy", JoinGenres([]string{"Animation", "Comedy"}))
	assert.Equal(t, "", JoinGenres(nil))
}

func TestNewMovie(t *testing.T) {
	m := NewMovie("1", "Toy Story (1995)", "Animation|Children's|Comedy", "862")

	assert.Equal(t, "1", m.ID)
	assert.Equal(t, "Toy Story (1995)", m.Title)
	assert.Equal(t, []string{"Animation", "Children's", "Comedy"}, m.Genres)
	assert.Equal(t, "862", m.ExternalID)
	assert.True(t, m.HasArtwork())
}

func TestMovie_HasArtwork_NoExternalID(t *testing.T) {
	m := NewMovie("2", "Jumanji (1995)", "Adventure", "")
	assert.False(t, m.HasArtwork())
}

func TestMovie_TopGenres(t *testing.T) {
	m := Movie{Genres: []string{"Action", "Adventure", "Sci-Fi", "War"}}

	assert.Equal(t, []string{"Action", "Adventure", "Sci-Fi"}, m.TopGenres(3))
	assert.Equal(t, m.Genres, m.TopGenres(10))
	assert.Empty(t, m.TopGenres(0))
}

func TestUniqueByID(t *testing.T) {
	movies := []Movie{
		{ID: "1", Title: "A"},
		{ID: "2", Title: "B"},
		{ID: "1", Title: "A again"},
		{ID: "3", Title: "C"},
	}

	unique := UniqueByID(movies)

	assert.Equal(t, []string{"1", "2", "3"}, MovieIDs(unique))
	assert.Equal(t, "A", unique[0].Title)
}

func TestMovieIDs_Empty(t *testing.T) {
	assert.Empty(t, MovieIDs(nil))
}
