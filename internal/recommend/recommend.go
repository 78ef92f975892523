// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package recommend fetches papers for each preferred category.
package recommend

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/pdiddy/paper-recommender/internal/fetch"
	"github.com/pdiddy/paper-recommender/pkg/types"
)

// NoPreferencesMessage is shown when no category has a positive score.
const NoPreferencesMessage = "No preferred categories found. Cannot generate recommendations."

// Group holds the papers fetched for one preferred category. Err is set
// when the fetch for that category failed.
type Group struct {
	Category string        `json:"category" yaml:"category"`
	Score    float64       `json:"score" yaml:"score"`
	Papers   []types.Paper `json:"papers" yaml:"papers"`
	Err      error         `json:"-" yaml:"-"`
	Error    string        `json:"error,omitempty" yaml:"error,omitempty"`
}

// Result is the outcome of one recommendation request. NoPreferences is a
// normal outcome, not an error.
type Result struct {
	NoPreferences bool    `json:"no_preferences" yaml:"no_preferences"`
	Message       string  `json:"message,omitempty" yaml:"message,omitempty"`
	Groups        []Group `json:"groups" yaml:"groups"`
}

// Failed returns the groups whose fetch failed.
func (r Result) Failed() []Group {
	var out []Group
	for _, g := range r.Groups {
		if g.Err != nil {
			out = append(out, g)
		}
	}
	return out
}

// Generate issues one fetch per preferred category, in rank order, asking
// for perCategory papers from offset 0. A failed fetch is recorded on its
// group and the next category is tried. Generation stops early only when
// ctx is done.
func Generate(ctx context.Context, f fetch.Fetcher, preferred []types.RankedCategory, perCategory int) Result {
	if len(preferred) == 0 {
		return Result{NoPreferences: true, Message: NoPreferencesMessage, Groups: []Group{}}
	}
	if perCategory <= 0 {
		perCategory = types.DefaultRecommendationsPerCategory
	}

	res := Result{Groups: make([]Group, 0, len(preferred))}
	for _, pc := range preferred {
		if err := ctx.Err(); err != nil {
			res.Groups = append(res.Groups, Group{Category: pc.Category, Score: pc.Score, Err: err, Error: err.Error()})
			break
		}
		g := Group{Category: pc.Category, Score: pc.Score}
		papers, err := f.Fetch(ctx, fetch.CategoryQuery(pc.Category), 0, perCategory)
		if err != nil {
			g.Err = fmt.Errorf("fetching category %s: %w", pc.Category, err)
			g.Error = g.Err.Error()
		} else {
			g.Papers = papers
		}
		res.Groups = append(res.Groups, g)
	}
	return res
}

// FormatText writes the result the way the interactive tool shows it.
func FormatText(res Result, w io.Writer) {
	if res.NoPreferences {
		fmt.Fprintln(w, NoPreferencesMessage)
		return
	}
	fmt.Fprintln(w, "Generating recommendations based on your preferences...")
	for _, g := range res.Groups {
		fmt.Fprintf(w, "\nTop papers in category: %s (score %.2f)\n", g.Category, g.Score)
		fmt.Fprintln(w, strings.Repeat("-", 60))
		if g.Err != nil {
			fmt.Fprintf(w, "  fetch failed: %v\n", g.Err)
			continue
		}
		if len(g.Papers) == 0 {
			fmt.Fprintln(w, "  No papers found.")
			continue
		}
		for _, p := range g.Papers {
			fetch.WritePaper(w, 0, p)
		}
	}
}
