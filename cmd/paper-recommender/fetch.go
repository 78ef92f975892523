package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paper-recommender/internal/fetch"
	"github.com/pdiddy/paper-recommender/pkg/types"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch one batch of papers from arXiv",
	Long: `Fetch issues a single arXiv query and prints the papers in feed order.
Use --category as a shortcut for --query cat:<category>. Nothing is
recorded; use "session" to give feedback.`,
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().String("query", "", `arXiv search_query (default from config, "all")`)
	fetchCmd.Flags().String("category", "", "fetch from one category, e.g. cs.AI")
	fetchCmd.Flags().Int("start", 0, "zero-based result offset")
	fetchCmd.Flags().Int("max-results", 0, "number of papers to request (default from config, 5)")
	fetchCmd.Flags().String("format", "text", "output format: text, table, json, yaml")

	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	sessCfg := cfg.Session.WithDefaults()

	query, _ := cmd.Flags().GetString("query")
	if query == "" {
		query = sessCfg.Query
	}
	if category, _ := cmd.Flags().GetString("category"); category != "" {
		query = fetch.CategoryQuery(category)
	}
	start, _ := cmd.Flags().GetInt("start")
	maxResults, _ := cmd.Flags().GetInt("max-results")
	if maxResults == 0 {
		maxResults = sessCfg.BatchSize
	}
	format, _ := cmd.Flags().GetString("format")

	f := fetch.NewArxivFetcher(cfg.Fetch, logger)
	papers, err := f.Fetch(cmd.Context(), query, start, maxResults)
	if err != nil {
		return fmt.Errorf("fetch %q: %w", query, err)
	}
	logger.Debug().Str("query", query).Int("start", start).Int("count", len(papers)).Msg("fetched papers")

	return writePapers(papers, format)
}

func writePapers(papers []types.Paper, format string) error {
	w := os.Stdout
	switch format {
	case "json":
		return fetch.FormatJSON(papers, w)
	case "yaml":
		return fetch.FormatYAML(papers, w)
	case "table":
		fetch.FormatTable(papers, w)
		return nil
	case "text", "":
		if len(papers) == 0 {
			fmt.Fprintln(w, "No papers found.")
			return nil
		}
		for i, p := range papers {
			fetch.WritePaper(w, i+1, p)
			fmt.Fprintln(w)
		}
		return nil
	default:
		return fmt.Errorf("unknown format %q (want text, table, json, or yaml)", format)
	}
}
