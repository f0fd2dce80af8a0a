package client

import (
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/cloo-solutions/movierec/internal/catalog"
	"github.com/cloo-solutions/movierec/internal/config"
	"github.com/cloo-solutions/movierec/internal/domain"
	"github.com/cloo-solutions/movierec/internal/logging"
)

const flagOutput = "output"

// AddCommonFlags registers the flags every movierec command understands
func AddCommonFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().Bool(flagOutput, false, "Output as JSON")
	cmd.PersistentFlags().String(config.FlagAPIURL, "", "Recommendation backend URL (overrides MOVIEREC_API_URL)")
	cmd.PersistentFlags().String(config.FlagArtworkURL, "", "Artwork proxy URL (overrides MOVIEREC_ARTWORK_URL)")
}

// loadConfig reads the environment and applies explicit flags on top
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	cfg.ApplyFlags(cmd.Flags())

	logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat, Output: cmd.ErrOrStderr()})
	return cfg, nil
}

func newCatalog(cfg *config.Config) *catalog.Client {
	return catalog.NewClient(catalog.Config{
		APIURL:     cfg.APIURL,
		ArtworkURL: cfg.ArtworkURL,
		Timeout:    cfg.Timeout,
	})
}

func wantJSON(cmd *cobra.Command) bool {
	v, _ := cmd.Flags().GetBool(flagOutput)
	return v
}

func writeJSON(w io.Writer, v interface{}) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}

// MovieOutput is the JSON shape of a movie printed by the CLI
type MovieOutput struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	Genres     []string `json:"genres"`
	ExternalID string   `json:"tmdb_id,omitempty"`
}

func toOutput(movies []domain.Movie) []MovieOutput {
	out := make([]MovieOutput, len(movies))
	for i, m := range movies {
		out[i] = MovieOutput{ID: m.ID, Title: m.Title, Genres: m.Genres, ExternalID: m.ExternalID}
	}
	return out
}

func printMovies(cmd *cobra.Command, movies []domain.Movie) error {
	w := cmd.OutOrStdout()
	if wantJSON(cmd) {
		return writeJSON(w, toOutput(movies))
	}

	if len(movies) == 0 {
		fmt.Fprintln(w, "No movies found")
		return nil
	}
	for _, m := range movies {
		fmt.Fprintf(w, "%-8s %s\n", m.ID, m.Title)
		if len(m.Genres) > 0 {
			fmt.Fprintf(w, "         %s\n", strings.Join(m.Genres, ", "))
		}
	}
	return nil
}
