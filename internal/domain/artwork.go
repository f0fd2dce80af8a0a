package domain

// ArtworkPaths holds the image paths returned by the metadata service.
// A nil field means the service has no image of that kind.
type ArtworkPaths struct {
	PosterPath   *string `json:"poster_path"`
	BackdropPath *string `json:"backdrop_path"`
}

// HasPoster reports whether a non-empty poster path is present
func (a ArtworkPaths) HasPoster() bool {
	return a.PosterPath != nil && *a.PosterPath != ""
}

// NewArtworkPaths builds ArtworkPaths, mapping empty strings to nil
func NewArtworkPaths(poster, backdrop string) ArtworkPaths {
	return ArtworkPaths{
		PosterPath:   optionalString(poster),
		BackdropPath: optionalString(backdrop),
	}
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
