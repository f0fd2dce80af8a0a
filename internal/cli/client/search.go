package client

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// SearchCmd creates the search command.
func SearchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search <text>",
		Short: "Search movies by title",
		Long:  "Issues one title search against the recommendation backend.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.TrimSpace(strings.Join(args, " "))
			if text == "" {
				return fmt.Errorf("search text must not be empty")
			}

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			movies, err := newCatalog(cfg).SearchMovies(cmd.Context(), text)
			if err != nil {
				return fmt.Errorf("search failed: %w", err)
			}
			return printMovies(cmd, movies)
		},
	}
}
