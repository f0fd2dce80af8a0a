package client

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/cloo-solutions/movierec/internal/logging"
	"github.com/cloo-solutions/movierec/internal/loop"
	"github.com/cloo-solutions/movierec/internal/session"
	"github.com/cloo-solutions/movierec/internal/tui"
)

// TUICmd creates the tui command.
func TUICmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Start the interactive movie picker",
		Args:  cobra.NoArgs,
		RunE:  RunTUI,
	}
}

// RunTUI starts an interactive session. It is also the root command's action.
func RunTUI(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	// The UI owns the terminal; logs go to a file or nowhere
	var logOut io.Writer = io.Discard
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		defer f.Close()
		logOut = f
	}
	logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat, Output: logOut})

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	l := loop.New()
	go l.Run(ctx)
	defer l.Wait()
	defer cancel()

	s := session.New(l, newCatalog(cfg), session.Options{
		Debounce:       cfg.Debounce,
		RecommendCount: cfg.RecommendCount,
		ImageBaseURL:   cfg.ImageBaseURL,
	})

	return tui.Run(ctx, s)
}
