// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/paper-recommender/pkg/types"
)

// SnippetWords is the number of abstract words shown in listings.
const SnippetWords = 50

// Snippet returns the first n whitespace-separated words of s followed by
// "...". Shorter text is returned whole, still followed by "...".
func Snippet(s string, n int) string {
	words := strings.Fields(s)
	if len(words) > n {
		words = words[:n]
	}
	return strings.Join(words, " ") + "..."
}

// WritePaper renders one paper the way listings show it: title, authors,
// abstract snippet, categories, and link. The index is 1-based; zero omits it.
func WritePaper(w io.Writer, index int, p types.Paper) {
	if index > 0 {
		fmt.Fprintf(w, "[%d] %s\n", index, p.Title)
	} else {
		fmt.Fprintln(w, p.Title)
	}
	fmt.Fprintf(w, "    Authors:    %s\n", strings.Join(p.Authors, ", "))
	fmt.Fprintf(w, "    Abstract:   %s\n", Snippet(p.Summary, SnippetWords))
	if len(p.Categories) > 0 {
		fmt.Fprintf(w, "    Categories: %s\n", strings.Join(p.Categories, ", "))
	}
	fmt.Fprintf(w, "    Link:       %s\n", p.Link)
}

// FormatTable writes papers as a compact table to w.
func FormatTable(papers []types.Paper, w io.Writer) {
	if len(papers) == 0 {
		fmt.Fprintln(w, "No papers found.")
		return
	}

	fmt.Fprintf(w, "%-4s  %-60s  %-20s  %-16s  %s\n",
		"#", "Title", "Authors", "Categories", "Link")
	fmt.Fprintln(w, strings.Repeat("-", 130))

	for i, p := range papers {
		fmt.Fprintf(w, "%-4d  %-60s  %-20s  %-16s  %s\n",
			i+1, truncate(p.Title, 60), formatAuthors(p.Authors),
			truncate(strings.Join(p.Categories, ","), 16), p.Link)
	}

	fmt.Fprintf(w, "\n%d papers\n", len(papers))
}

// FormatJSON writes papers as indented JSON to w.
func FormatJSON(papers []types.Paper, w io.Writer) error {
	return WriteJSON(w, papers)
}

// FormatYAML writes papers as YAML to w.
func FormatYAML(papers []types.Paper, w io.Writer) error {
	return WriteYAML(w, papers)
}

// WriteJSON encodes v as indented JSON.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// WriteYAML encodes v as YAML.
func WriteYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

func formatAuthors(authors []string) string {
	switch len(authors) {
	case 0:
		return ""
	case 1:
		return truncate(authors[0], 20)
	default:
		return truncate(authors[0], 14) + " et al."
	}
}

// truncate shortens s to at most max runes, ending in "...".
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
