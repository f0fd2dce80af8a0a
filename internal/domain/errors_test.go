package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDomainError_Error(t *testing.T) {
	err := NewDomainError(ErrCodeValidation, "Missing movie ID")
	assert.Equal(t, "[VALIDATION_ERROR] Missing movie ID", err.Error())

	cause := errors.New("connection refused")
	wrapped := NewDomainErrorWithCause(ErrCodeUpstream, "Failed to fetch from TMDB", cause)
	assert.Equal(t, "[UPSTREAM_ERROR] Failed to fetch from TMDB: connection refused", wrapped.Error())
	assert.ErrorIs(t, wrapped, cause)
}

func TestDomainError_IsMatchesSentinel(t *testing.T) {
	wrapped := NewDomainErrorWithCause(ErrCodeUpstream, "Failed to fetch from TMDB", errors.New("timeout"))

	assert.ErrorIs(t, wrapped, ErrArtworkUpstream)
	assert.ErrorIs(t, fmt.Errorf("lookup: %w", wrapped), ErrArtworkUpstream)
	assert.NotErrorIs(t, wrapped, ErrArtworkNotConfigured)
}

func TestArtworkPaths(t *testing.T) {
	paths := NewArtworkPaths("/uXDfjJbdP4ijW5hWSBrPrlKpxab.jpg", "")

	assert.True(t, paths.HasPoster())
	assert.Equal(t, "/uXDfjJbdP4ijW5hWSBrPrlKpxab.jpg", *paths.PosterPath)
	assert.Nil(t, paths.BackdropPath)

	assert.False(t, ArtworkPaths{}.HasPoster())
}
