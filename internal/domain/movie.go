package domain

import "strings"

// GenreSeparator delimits genre labels in the catalog wire format.
const GenreSeparator = "|"

// Movie represents a catalog entry
type Movie struct {
	ID         string
	Title      string
	Genres     []string
	ExternalID string // TMDB id, used only for artwork lookup
}

// NewMovie creates a Movie from its wire representation
func NewMovie(id, title, genres, externalID string) Movie {
	return Movie{
		ID:         id,
		Title:      title,
		Genres:     ParseGenres(genres),
		ExternalID: externalID,
	}
}

// HasArtwork reports whether the movie can be looked up in the metadata service
func (m Movie) HasArtwork() bool {
	return m.ExternalID != ""
}

// TopGenres returns at most n genre labels in catalog order
func (m Movie) TopGenres(n int) []string {
	if n < 0 || n >= len(m.Genres) {
		return m.Genres
	}
	return m.Genres[:n]
}

// ParseGenres splits a delimited genre string, dropping empty labels
func ParseGenres(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	parts := strings.Split(raw, GenreSeparator)
	genres := make([]string, 0, len(parts))
	for _, p := range parts {
		if label := strings.TrimSpace(p); label != "" {
			genres = append(genres, label)
		}
	}
	return genres
}

// JoinGenres is the inverse of ParseGenres
func JoinGenres(genres []string) string {
	return strings.Join(genres, GenreSeparator)
}

// UniqueByID drops later movies whose id already appeared, preserving order
func UniqueByID(movies []Movie) []Movie {
	seen := make(map[string]struct{}, len(movies))
	out := make([]Movie, 0, len(movies))
	for _, m := range movies {
		if _, ok := seen[m.ID]; ok {
			continue
		}
		seen[m.ID] = struct{}{}
		out = append(out, m)
	}
	return out
}

// MovieIDs returns the ids of movies in order
func MovieIDs(movies []Movie) []string {
	ids := make([]string, len(movies))
	for i, m := range movies {
		ids[i] = m.ID
	}
	return ids
}
