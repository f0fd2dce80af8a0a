package client

import (
	"fmt"

	"github.com/spf13/cobra"
)

// MoviesCmd creates the movies command.
func MoviesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "movies",
		Short: "List the default catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			movies, err := newCatalog(cfg).ListMovies(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to list movies: %w", err)
			}
			return printMovies(cmd, movies)
		},
	}
}
