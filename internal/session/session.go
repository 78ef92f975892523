// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package session holds the state of one interactive review session and
// exposes one handler per user action.
//
// A Session owns the papers fetched so far, the next fetch offset, and the
// preference engine. Nothing outlives the session. A Session is not safe
// for concurrent use; the HTTP adapter serializes calls per session.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/pdiddy/paper-recommender/internal/fetch"
	"github.com/pdiddy/paper-recommender/internal/preference"
	"github.com/pdiddy/paper-recommender/internal/recommend"
	"github.com/pdiddy/paper-recommender/pkg/types"
)

// ErrUnknownPaper is returned when feedback names a paper the session has
// not fetched.
var ErrUnknownPaper = errors.New("unknown paper")

// Session is one user's review session.
type Session struct {
	ID        string
	CreatedAt time.Time

	fetcher fetch.Fetcher
	engine  *preference.Engine
	cfg     types.SessionConfig
	logger  zerolog.Logger

	query  string
	next   int
	papers []types.Paper
}

// New creates an empty session that fetches through f.
func New(id string, f fetch.Fetcher, cfg types.SessionConfig, logger zerolog.Logger) *Session {
	cfg = cfg.WithDefaults()
	return &Session{
		ID:        id,
		CreatedAt: time.Now().UTC(),
		fetcher:   f,
		engine:    preference.NewEngine(),
		cfg:       cfg,
		logger:    logger.With().Str("session_id", id).Logger(),
		query:     cfg.Query,
	}
}

// Query returns the search query used by FetchNext.
func (s *Session) Query() string { return s.query }

// NextStart returns the offset the next FetchNext will request.
func (s *Session) NextStart() int { return s.next }

// SetQuery switches the batch query and restarts paging from offset 0.
// Papers already fetched and all feedback are kept.
func (s *Session) SetQuery(q string) error {
	if q == "" {
		return fmt.Errorf("%w: empty query", fetch.ErrInvalidRequest)
	}
	s.query = q
	s.next = 0
	return nil
}

// FetchNext fetches the next batch for the session query and appends it
// to the session's papers. On error the session is unchanged.
func (s *Session) FetchNext(ctx context.Context) ([]types.Paper, error) {
	return s.fetchAt(ctx, s.query, s.next)
}

// FetchQuery fetches the first batch for q and, only if that succeeds,
// makes q the session query. A q equal to the current query continues
// paging like FetchNext. On error the session is unchanged.
func (s *Session) FetchQuery(ctx context.Context, q string) ([]types.Paper, error) {
	if q == "" {
		return nil, fmt.Errorf("%w: empty query", fetch.ErrInvalidRequest)
	}
	if q == s.query {
		return s.FetchNext(ctx)
	}
	return s.fetchAt(ctx, q, 0)
}

func (s *Session) fetchAt(ctx context.Context, query string, start int) ([]types.Paper, error) {
	papers, err := s.fetcher.Fetch(ctx, query, start, s.cfg.BatchSize)
	if err != nil {
		s.logger.Warn().Err(err).Str("query", query).Int("start", start).Msg("fetch failed")
		return nil, err
	}
	s.query = query
	s.next = start + len(papers)
	s.papers = append(s.papers, papers...)
	s.logger.Info().Int("papers", len(papers)).Int("next_start", s.next).Msg("fetched batch")
	return papers, nil
}

// Papers returns every paper fetched in this session, oldest first.
func (s *Session) Papers() []types.Paper {
	return append([]types.Paper(nil), s.papers...)
}

// Paper returns the paper at index i (0-based).
func (s *Session) Paper(i int) (types.Paper, error) {
	if i < 0 || i >= len(s.papers) {
		return types.Paper{}, fmt.Errorf("%w: index %d (have %d papers)", ErrUnknownPaper, i, len(s.papers))
	}
	return s.papers[i], nil
}

// Review records verdict for the paper at index i (0-based).
func (s *Session) Review(i int, verdict types.Verdict) error {
	p, err := s.Paper(i)
	if err != nil {
		return err
	}
	return s.record(p, verdict)
}

// ReviewLink records verdict for the fetched paper with the given link.
func (s *Session) ReviewLink(link string, verdict types.Verdict) error {
	for _, p := range s.papers {
		if p.Link == link {
			return s.record(p, verdict)
		}
	}
	return fmt.Errorf("%w: %s", ErrUnknownPaper, link)
}

func (s *Session) record(p types.Paper, verdict types.Verdict) error {
	if err := s.engine.RecordFeedback(p, verdict); err != nil {
		return err
	}
	s.logger.Debug().Str("link", p.Link).Str("verdict", string(verdict)).Msg("feedback recorded")
	return nil
}

// Verdict returns the current verdict for the paper at index i.
func (s *Session) Verdict(i int) (types.Verdict, bool) {
	p, err := s.Paper(i)
	if err != nil {
		return "", false
	}
	return s.engine.Verdict(p)
}

// Viewed reports whether any category has been viewed yet.
func (s *Session) Viewed() bool {
	return len(s.engine.Categories()) > 0
}

// Preferences returns the ranked categories.
func (s *Session) Preferences() []types.RankedCategory {
	return s.engine.Ranked()
}

// Liked returns the liked papers in the order they were liked.
func (s *Session) Liked() []types.Paper {
	return s.engine.LikedPapers()
}

// Recommend fetches papers for the highest-ranked preferred categories,
// at most cfg.MaxRecommendationCategories of them.
func (s *Session) Recommend(ctx context.Context) recommend.Result {
	preferred := s.engine.Preferred()
	if len(preferred) > s.cfg.MaxRecommendationCategories {
		s.logger.Info().
			Int("preferred", len(preferred)).
			Int("max", s.cfg.MaxRecommendationCategories).
			Msg("limiting recommendation categories")
		preferred = preferred[:s.cfg.MaxRecommendationCategories]
	}
	res := recommend.Generate(ctx, s.fetcher, preferred, s.cfg.RecommendationsPerCategory)
	s.logger.Info().
		Int("categories", len(preferred)).
		Int("failed", len(res.Failed())).
		Bool("no_preferences", res.NoPreferences).
		Msg("recommendations generated")
	return res
}

// ReviewedPaper is a fetched paper with its position and current verdict.
type ReviewedPaper struct {
	Index   int           `json:"index" yaml:"index"`
	Paper   types.Paper   `json:"paper" yaml:"paper"`
	Verdict types.Verdict `json:"verdict,omitempty" yaml:"verdict,omitempty"`
}

// Snapshot is a serializable view of a session.
type Snapshot struct {
	ID          string                 `json:"id" yaml:"id"`
	CreatedAt   time.Time              `json:"created_at" yaml:"created_at"`
	Query       string                 `json:"query" yaml:"query"`
	NextStart   int                    `json:"next_start" yaml:"next_start"`
	Papers      []ReviewedPaper        `json:"papers" yaml:"papers"`
	Preferences []types.RankedCategory `json:"preferences" yaml:"preferences"`
	Liked       []types.Paper          `json:"liked" yaml:"liked"`
}

// Snapshot returns the current state of the session.
func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		ID:          s.ID,
		CreatedAt:   s.CreatedAt,
		Query:       s.query,
		NextStart:   s.next,
		Papers:      make([]ReviewedPaper, 0, len(s.papers)),
		Preferences: s.Preferences(),
		Liked:       s.Liked(),
	}
	for i, p := range s.papers {
		v, _ := s.engine.Verdict(p)
		snap.Papers = append(snap.Papers, ReviewedPaper{Index: i, Paper: p, Verdict: v})
	}
	return snap
}
