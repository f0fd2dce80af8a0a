package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cloo-solutions/movierec/internal/cli"
	"github.com/cloo-solutions/movierec/internal/cli/client"
)

var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "movierec",
		Short: "Movierec - pick movies you like, get recommendations",
		Long: `Movierec searches the catalog, builds a selection of up to ten movies
and asks the recommendation backend for similar titles.

Without a subcommand it starts the interactive picker.

Environment variables:
  MOVIEREC_API_URL       Recommendation backend URL (default: http://localhost:8000)
  MOVIEREC_ARTWORK_URL   Artwork proxy URL (default: http://localhost:3000)
  MOVIEREC_LOG_FILE      Where the interactive picker writes its logs`,
		Version:      version,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE:         client.RunTUI,
	}

	client.AddCommonFlags(rootCmd)
	cli.AddHelpJSONFlag(rootCmd)

	rootCmd.AddCommand(client.TUICmd())
	rootCmd.AddCommand(client.MoviesCmd())
	rootCmd.AddCommand(client.SearchCmd())
	rootCmd.AddCommand(client.RecommendCmd())
	rootCmd.AddCommand(client.PosterCmd())

	if handled, err := cli.HelpJSON(os.Stdout, rootCmd, os.Args[1:]); handled {
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
