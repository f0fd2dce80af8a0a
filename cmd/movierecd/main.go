package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cloo-solutions/movierec/internal/cli"
	"github.com/cloo-solutions/movierec/internal/cli/admin"
)

var version = "dev"

func main() {
	admin.SetVersion(version)

	rootCmd := &cobra.Command{
		Use:     "movierecd",
		Short:   "Movierec artwork proxy",
		Long:    "Movierec daemon serving cached TMDB artwork at /api/tmdb/movie/{id}",
		Version: version,
	}

	cli.AddHelpJSONFlag(rootCmd)
	rootCmd.AddCommand(admin.ServeCmd())

	if len(os.Args) == 1 {
		os.Args = append(os.Args, "serve")
	}

	if handled, err := cli.HelpJSON(os.Stdout, rootCmd, os.Args[1:]); handled {
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
