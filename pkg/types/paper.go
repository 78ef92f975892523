// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for paper-recommender.
// Implements: Paper and FeedbackEvent (fetcher output, engine input);
//
//	CategoryStats and RankedCategory (engine output);
//	configuration for every component (config.go).
package types

import (
	"fmt"
	"strings"
)

// Paper is one entry of an arXiv Atom feed. Papers are immutable once
// fetched; two papers are the same paper only if every field matches.
type Paper struct {
	// Title is the entry title with surrounding whitespace removed.
	Title string `json:"title" yaml:"title"`

	// Authors lists author names in feed order.
	Authors []string `json:"authors" yaml:"authors"`

	// Summary is the abstract.
	Summary string `json:"summary" yaml:"summary"`

	// Categories holds the category codes from the entry's category terms
	// (e.g. "cs.AI", "stat.ML").
	Categories []string `json:"categories" yaml:"categories"`

	// Link is the entry id, the canonical abs URL of the paper.
	Link string `json:"link" yaml:"link"`
}

// Key returns a canonical string covering every field of the paper. Two
// papers have the same key exactly when they are structurally equal.
func (p Paper) Key() string {
	var b strings.Builder
	field := func(s string) {
		fmt.Fprintf(&b, "%d:%s;", len(s), s)
	}
	field(p.Title)
	fmt.Fprintf(&b, "a%d;", len(p.Authors))
	for _, a := range p.Authors {
		field(a)
	}
	field(p.Summary)
	fmt.Fprintf(&b, "c%d;", len(p.Categories))
	for _, c := range p.Categories {
		field(c)
	}
	field(p.Link)
	return b.String()
}

// Equal reports whether p and other are structurally equal.
func (p Paper) Equal(other Paper) bool {
	return p.Key() == other.Key()
}

// Verdict is a user's judgement of a reviewed paper.
type Verdict string

const (
	VerdictLike    Verdict = "like"
	VerdictDislike Verdict = "dislike"
	VerdictNeutral Verdict = "neutral"
)

// Valid reports whether v is one of the known verdicts.
func (v Verdict) Valid() bool {
	switch v {
	case VerdictLike, VerdictDislike, VerdictNeutral:
		return true
	}
	return false
}

// ParseVerdict converts user input into a Verdict. It accepts the full
// words in any case and the single-letter forms l, d and n.
func ParseVerdict(s string) (Verdict, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "like", "l":
		return VerdictLike, nil
	case "dislike", "d":
		return VerdictDislike, nil
	case "neutral", "n":
		return VerdictNeutral, nil
	}
	return "", fmt.Errorf("unknown verdict %q: want like, dislike, or neutral", s)
}

// FeedbackEvent records one verdict for one paper.
type FeedbackEvent struct {
	Paper   Paper   `json:"paper" yaml:"paper"`
	Verdict Verdict `json:"verdict" yaml:"verdict"`
}
