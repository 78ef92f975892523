// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// CategoryStats holds the feedback counters for one category. Viewed is
// always at least Liked and at least Disliked.
type CategoryStats struct {
	Category string `json:"category" yaml:"category"`
	Viewed   int    `json:"viewed" yaml:"viewed"`
	Liked    int    `json:"liked" yaml:"liked"`
	Disliked int    `json:"disliked" yaml:"disliked"`
}

// Score returns (Liked - Disliked) / Viewed. The second result is false
// when the category has no views and the score is undefined.
func (s CategoryStats) Score() (float64, bool) {
	if s.Viewed <= 0 {
		return 0, false
	}
	return float64(s.Liked-s.Disliked) / float64(s.Viewed), true
}

// RankedCategory is a category with its preference score, as returned by
// the engine's ranking.
type RankedCategory struct {
	Category string  `json:"category" yaml:"category"`
	Score    float64 `json:"score" yaml:"score"`
	Viewed   int     `json:"viewed" yaml:"viewed"`
	Liked    int     `json:"liked" yaml:"liked"`
	Disliked int     `json:"disliked" yaml:"disliked"`
}
