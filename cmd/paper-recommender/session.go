package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/pdiddy/paper-recommender/internal/fetch"
	"github.com/pdiddy/paper-recommender/internal/logging"
	"github.com/pdiddy/paper-recommender/internal/session"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Start an interactive review session",
	Long: `Session fetches papers in batches, takes like/dislike/neutral feedback
on each one, and generates recommendations from the categories you
prefer. All state lives in memory and ends with the session.`,
	RunE: runSession,
}

func init() {
	sessionCmd.Flags().String("query", "", `arXiv search_query for batches (default from config, "all")`)
	sessionCmd.Flags().Int("batch-size", 0, "papers per fetch (default from config, 5)")

	rootCmd.AddCommand(sessionCmd)
}

func runSession(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	if q, _ := cmd.Flags().GetString("query"); q != "" {
		cfg.Session.Query = q
	}
	if n, _ := cmd.Flags().GetInt("batch-size"); n > 0 {
		cfg.Session.BatchSize = n
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	f := fetch.NewArxivFetcher(cfg.Fetch, logger)
	sess := session.New(uuid.NewString(), f, cfg.Session, logging.Component(logger, "session"))

	repl := &session.REPL{Session: sess, In: os.Stdin, Out: os.Stdout}
	if err := repl.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
