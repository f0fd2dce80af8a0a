package client

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/cloo-solutions/movierec/internal/artwork"
	"github.com/cloo-solutions/movierec/internal/config"
	"github.com/cloo-solutions/movierec/internal/domain"
	"github.com/cloo-solutions/movierec/internal/loop"
	"github.com/cloo-solutions/movierec/internal/recommend"
	"github.com/cloo-solutions/movierec/internal/session"
)

// RecommendationOutput is one ranked result printed by the recommend command
type RecommendationOutput struct {
	Rank       int      `json:"rank"`
	MatchScore int      `json:"match_score"`
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	Genres     []string `json:"genres"`
	PosterURL  string   `json:"poster_url,omitempty"`
}

// RecommendCmd creates the recommend command.
func RecommendCmd() *cobra.Command {
	var (
		count   int
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "recommend <id>...",
		Short: "Recommend movies similar to the given ones",
		Long: `Seeds a selection with the given catalog ids, runs one recommendation,
resolves artwork for every result and prints the ranked list.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed(config.FlagCount) {
				if count <= 0 {
					return fmt.Errorf("--%s must be positive", config.FlagCount)
				}
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			st, err := runHeadless(ctx, cfg, args)
			if err != nil {
				return err
			}
			return printRecommendations(cmd, st)
		},
	}

	cmd.Flags().IntVarP(&count, config.FlagCount, "k", recommend.DefaultCount, "Number of recommendations")
	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "Give up after this long")

	return cmd
}

// runHeadless drives one session on its own loop until the recommendation
// run and its artwork have settled.
func runHeadless(ctx context.Context, cfg *config.Config, ids []string) (session.State, error) {
	l := loop.New()
	loopCtx, stop := context.WithCancel(ctx)
	defer func() {
		stop()
		l.Wait()
	}()
	go l.Run(loopCtx)

	s := session.New(l, newCatalog(cfg), session.Options{
		Debounce:       cfg.Debounce,
		RecommendCount: cfg.RecommendCount,
		ImageBaseURL:   cfg.ImageBaseURL,
	})

	for _, id := range ids {
		s.Add(domain.Movie{ID: id, Title: id})
	}
	s.Recommend()

	st, err := s.WaitFor(ctx, session.State.RecommendationSettled)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return session.State{}, fmt.Errorf("timed out waiting for recommendations")
		}
		return session.State{}, err
	}

	if st.Recommendation.Phase == recommend.PhaseFailed {
		return st, fmt.Errorf("%s: %w", recommend.FailureMessage, st.Recommendation.Err)
	}
	return st, nil
}

func printRecommendations(cmd *cobra.Command, st session.State) error {
	results := st.Recommendation.Results
	out := make([]RecommendationOutput, len(results))
	for i, m := range results {
		out[i] = RecommendationOutput{
			Rank:       i + 1,
			MatchScore: recommend.MatchScore(i),
			ID:         m.ID,
			Title:      m.Title,
			Genres:     m.Genres,
			PosterURL:  st.ArtworkFor(m).PosterURL,
		}
	}

	w := cmd.OutOrStdout()
	if wantJSON(cmd) {
		return writeJSON(w, out)
	}

	if len(out) == 0 {
		fmt.Fprintln(w, "No recommendations")
		return nil
	}
	for i, r := range out {
		fmt.Fprintf(w, "#%d %s  %d%% match\n", r.Rank, r.Title, r.MatchScore)
		if genres := results[i].TopGenres(3); len(genres) > 0 {
			fmt.Fprintf(w, "   %s\n", strings.Join(genres, ", "))
		}
		poster := r.PosterURL
		if st.ArtworkFor(results[i]).Status != artwork.StatusAvailable {
			poster = "unavailable"
		}
		fmt.Fprintf(w, "   Poster: %s\n", poster)
	}
	return nil
}
