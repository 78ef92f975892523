// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package preference turns per-paper feedback into per-category scores.
//
// For every category the engine counts papers viewed, liked and disliked.
// A category's score is (liked - disliked) / viewed, in [-1, 1]. Feedback
// for a paper that was already reviewed replaces the earlier verdict: the
// paper keeps its single view and only the like/dislike counts move.
package preference

import (
	"errors"
	"fmt"
	"sort"

	"github.com/pdiddy/paper-recommender/pkg/types"
)

// ErrInvalidVerdict is returned for a verdict other than like, dislike or neutral.
var ErrInvalidVerdict = errors.New("invalid verdict")

// Engine accumulates feedback for one session. It is not safe for
// concurrent use.
type Engine struct {
	stats    map[string]*types.CategoryStats
	order    []string                 // categories in first-seen order
	verdicts map[string]types.Verdict // Paper.Key() → current verdict
	liked    []types.Paper
}

// NewEngine returns an engine with no recorded feedback.
func NewEngine() *Engine {
	return &Engine{
		stats:    make(map[string]*types.CategoryStats),
		verdicts: make(map[string]types.Verdict),
	}
}

// RecordFeedback applies verdict to every category of paper. The first
// review of a paper counts one view per category; later reviews only swap
// the like/dislike contribution. Recording the current verdict again
// changes nothing.
func (e *Engine) RecordFeedback(paper types.Paper, verdict types.Verdict) error {
	if !verdict.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidVerdict, verdict)
	}

	key := paper.Key()
	prev, reviewed := e.verdicts[key]
	if reviewed && prev == verdict {
		return nil
	}

	for _, cat := range distinct(paper.Categories) {
		s := e.category(cat)
		if reviewed {
			adjust(s, prev, -1)
		} else {
			s.Viewed++
		}
		adjust(s, verdict, +1)
	}

	if prev == types.VerdictLike && verdict != types.VerdictLike {
		e.removeLiked(key)
	}
	if verdict == types.VerdictLike {
		e.addLiked(paper, key)
	}
	e.verdicts[key] = verdict
	return nil
}

// Verdict returns the current verdict for paper, if it was reviewed.
func (e *Engine) Verdict(paper types.Paper) (types.Verdict, bool) {
	v, ok := e.verdicts[paper.Key()]
	return v, ok
}

// Score returns the preference score of category. It reports false for a
// category that has never been viewed.
func (e *Engine) Score(category string) (float64, bool) {
	s, ok := e.stats[category]
	if !ok {
		return 0, false
	}
	return s.Score()
}

// Stats returns a copy of the counters for category.
func (e *Engine) Stats(category string) (types.CategoryStats, bool) {
	s, ok := e.stats[category]
	if !ok {
		return types.CategoryStats{Category: category}, false
	}
	return *s, true
}

// Categories returns the counters of every viewed category in the order
// the categories were first seen.
func (e *Engine) Categories() []types.CategoryStats {
	out := make([]types.CategoryStats, 0, len(e.order))
	for _, c := range e.order {
		out = append(out, *e.stats[c])
	}
	return out
}

// Ranked returns every viewed category sorted by score, highest first.
// Equal scores keep the order in which the categories were first seen.
func (e *Engine) Ranked() []types.RankedCategory {
	ranked := make([]types.RankedCategory, 0, len(e.order))
	for _, c := range e.order {
		s := e.stats[c]
		score, ok := s.Score()
		if !ok {
			continue
		}
		ranked = append(ranked, types.RankedCategory{
			Category: c,
			Score:    score,
			Viewed:   s.Viewed,
			Liked:    s.Liked,
			Disliked: s.Disliked,
		})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked
}

// Preferred returns the ranked categories with a positive score, in rank order.
func (e *Engine) Preferred() []types.RankedCategory {
	var out []types.RankedCategory
	for _, r := range e.Ranked() {
		if r.Score > 0 {
			out = append(out, r)
		}
	}
	return out
}

// LikedPapers returns the liked papers in the order they were liked.
func (e *Engine) LikedPapers() []types.Paper {
	out := make([]types.Paper, len(e.liked))
	copy(out, e.liked)
	return out
}

// Reviewed returns the number of distinct papers with a verdict.
func (e *Engine) Reviewed() int {
	return len(e.verdicts)
}

func (e *Engine) category(name string) *types.CategoryStats {
	s, ok := e.stats[name]
	if !ok {
		s = &types.CategoryStats{Category: name}
		e.stats[name] = s
		e.order = append(e.order, name)
	}
	return s
}

func (e *Engine) addLiked(p types.Paper, key string) {
	for _, l := range e.liked {
		if l.Key() == key {
			return
		}
	}
	e.liked = append(e.liked, p)
}

func (e *Engine) removeLiked(key string) {
	kept := e.liked[:0]
	for _, l := range e.liked {
		if l.Key() != key {
			kept = append(kept, l)
		}
	}
	e.liked = kept
}

func adjust(s *types.CategoryStats, v types.Verdict, delta int) {
	switch v {
	case types.VerdictLike:
		s.Liked += delta
	case types.VerdictDislike:
		s.Disliked += delta
	}
}

// distinct drops repeated category codes, keeping first occurrences.
func distinct(cats []string) []string {
	seen := make(map[string]bool, len(cats))
	out := make([]string, 0, len(cats))
	for _, c := range cats {
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return out
}
