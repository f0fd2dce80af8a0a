package client

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cloo-solutions/movierec/internal/artwork"
)

// PosterOutput is the JSON shape printed by the poster command
type PosterOutput struct {
	ExternalID string `json:"tmdb_id"`
	PosterURL  string `json:"poster_url,omitempty"`
	Available  bool   `json:"available"`
}

// PosterCmd creates the poster command.
func PosterCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "poster <externalId>",
		Short: "Look up the poster of a movie",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			paths, err := newCatalog(cfg).LookupArtwork(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("artwork lookup failed: %w", err)
			}

			out := PosterOutput{ExternalID: args[0], Available: paths.HasPoster()}
			if out.Available {
				out.PosterURL = artwork.JoinPosterURL(cfg.ImageBaseURL, *paths.PosterPath)
			}

			if wantJSON(cmd) {
				return writeJSON(cmd.OutOrStdout(), out)
			}
			if !out.Available {
				fmt.Fprintln(cmd.OutOrStdout(), "unavailable")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), out.PosterURL)
			return nil
		},
	}
}
