// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package session

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/paper-recommender/internal/fetch"
	"github.com/pdiddy/paper-recommender/pkg/types"
)

// --- mock fetcher ---

type call struct {
	query      string
	start, max int
}

// pagedFetcher serves a fixed corpus per query, honouring start/max.
type pagedFetcher struct {
	corpus map[string][]types.Paper
	err    error
	calls  []call
	mu     sync.Mutex
}

func (f *pagedFetcher) Fetch(_ context.Context, query string, start, maxResults int) ([]types.Paper, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call{query, start, maxResults})
	if f.err != nil {
		return nil, f.err
	}
	all := f.corpus[query]
	if start >= len(all) {
		return []types.Paper{}, nil
	}
	end := start + maxResults
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], nil
}

func (f *pagedFetcher) callsSnapshot() []call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]call(nil), f.calls...)
}

func corpus(prefix string, n int, cats ...string) []types.Paper {
	out := make([]types.Paper, n)
	for i := range out {
		id := fmt.Sprintf("%s%d", prefix, i+1)
		out[i] = types.Paper{
			Title:      "Paper " + id,
			Authors:    []string{"Author " + id},
			Summary:    "About " + id,
			Categories: cats,
			Link:       "http://arxiv.org/abs/" + id,
		}
	}
	return out
}

func newTestSession(f fetch.Fetcher) *Session {
	return New("test", f, types.SessionConfig{BatchSize: 2}, zerolog.Nop())
}

func TestFetchNextAdvancesOffset(t *testing.T) {
	f := &pagedFetcher{corpus: map[string][]types.Paper{"all": corpus("p", 5, "cs.AI")}}
	s := newTestSession(f)

	assert.Equal(t, "all", s.Query())

	got, err := s.FetchNext(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, 2, s.NextStart())

	_, err = s.FetchNext(context.Background())
	require.NoError(t, err)
	got, err = s.FetchNext(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Equal(t, 5, s.NextStart())
	assert.Len(t, s.Papers(), 5)

	got, err = s.FetchNext(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Equal(t, 5, s.NextStart())

	assert.Equal(t, []call{{"all", 0, 2}, {"all", 2, 2}, {"all", 4, 2}, {"all", 5, 2}}, f.calls)
}

func TestFetchNextErrorLeavesStateUnchanged(t *testing.T) {
	f := &pagedFetcher{corpus: map[string][]types.Paper{"all": corpus("p", 5)}}
	s := newTestSession(f)
	_, err := s.FetchNext(context.Background())
	require.NoError(t, err)

	f.err = &fetch.ParseError{Err: fmt.Errorf("bad xml")}
	_, err = s.FetchNext(context.Background())
	require.Error(t, err)

	assert.Equal(t, 2, s.NextStart())
	assert.Len(t, s.Papers(), 2)
}

func TestSetQueryResetsOffset(t *testing.T) {
	f := &pagedFetcher{corpus: map[string][]types.Paper{
		"all":       corpus("p", 5),
		"cat:cs.LG": corpus("lg", 3),
	}}
	s := newTestSession(f)
	_, err := s.FetchNext(context.Background())
	require.NoError(t, err)

	require.NoError(t, s.SetQuery("cat:cs.LG"))
	assert.Equal(t, 0, s.NextStart())
	_, err = s.FetchNext(context.Background())
	require.NoError(t, err)
	assert.Len(t, s.Papers(), 4)

	assert.ErrorIs(t, s.SetQuery(""), fetch.ErrInvalidRequest)
}

func TestFetchQuery(t *testing.T) {
	f := &pagedFetcher{corpus: map[string][]types.Paper{
		"all":         corpus("p", 5),
		"cat:math.CO": corpus("co", 3),
	}}
	s := newTestSession(f)
	_, err := s.FetchQuery(context.Background(), "all")
	require.NoError(t, err)
	_, err = s.FetchQuery(context.Background(), "all")
	require.NoError(t, err)
	assert.Equal(t, 4, s.NextStart())

	papers, err := s.FetchQuery(context.Background(), "cat:math.CO")
	require.NoError(t, err)
	assert.Equal(t, "Paper co1", papers[0].Title)
	assert.Equal(t, "cat:math.CO", s.Query())
	assert.Equal(t, 2, s.NextStart())
	assert.Equal(t, call{"cat:math.CO", 0, 2}, f.calls[len(f.calls)-1])

	_, err = s.FetchQuery(context.Background(), "")
	assert.ErrorIs(t, err, fetch.ErrInvalidRequest)
}

func TestFetchQueryErrorKeepsQueryAndOffset(t *testing.T) {
	f := &pagedFetcher{corpus: map[string][]types.Paper{"all": corpus("p", 5)}}
	s := newTestSession(f)
	_, err := s.FetchNext(context.Background())
	require.NoError(t, err)

	f.err = &fetch.NetworkError{URL: "http://x", StatusCode: 503}
	_, err = s.FetchQuery(context.Background(), "cat:math.CO")
	require.Error(t, err)

	assert.Equal(t, "all", s.Query())
	assert.Equal(t, 2, s.NextStart())
	assert.Len(t, s.Papers(), 2)
}

func TestReviewAndPreferences(t *testing.T) {
	papers := corpus("p", 2, "cs.AI", "cs.LG")
	papers[1].Categories = []string{"cs.AI"}
	f := &pagedFetcher{corpus: map[string][]types.Paper{"all": papers}}
	s := newTestSession(f)
	_, err := s.FetchNext(context.Background())
	require.NoError(t, err)

	assert.False(t, s.Viewed())
	require.NoError(t, s.Review(0, types.VerdictLike))
	require.NoError(t, s.ReviewLink(papers[1].Link, types.VerdictDislike))
	assert.True(t, s.Viewed())

	prefs := s.Preferences()
	require.Len(t, prefs, 2)
	assert.Equal(t, "cs.LG", prefs[0].Category)
	assert.Equal(t, 1.0, prefs[0].Score)
	assert.Equal(t, "cs.AI", prefs[1].Category)
	assert.Equal(t, 0.0, prefs[1].Score)

	assert.Len(t, s.Liked(), 1)

	v, ok := s.Verdict(1)
	require.True(t, ok)
	assert.Equal(t, types.VerdictDislike, v)
}

func TestReviewUnknownPaper(t *testing.T) {
	s := newTestSession(&pagedFetcher{})
	assert.ErrorIs(t, s.Review(0, types.VerdictLike), ErrUnknownPaper)
	assert.ErrorIs(t, s.Review(-1, types.VerdictLike), ErrUnknownPaper)
	assert.ErrorIs(t, s.ReviewLink("http://arxiv.org/abs/none", types.VerdictLike), ErrUnknownPaper)
	_, ok := s.Verdict(3)
	assert.False(t, ok)
}

func TestRecommend(t *testing.T) {
	f := &pagedFetcher{corpus: map[string][]types.Paper{
		"all":       corpus("p", 2, "cs.AI"),
		"cat:cs.AI": corpus("ai", 5, "cs.AI"),
	}}
	s := newTestSession(f)

	res := s.Recommend(context.Background())
	assert.True(t, res.NoPreferences)

	_, err := s.FetchNext(context.Background())
	require.NoError(t, err)
	require.NoError(t, s.Review(0, types.VerdictLike))

	res = s.Recommend(context.Background())
	require.False(t, res.NoPreferences)
	require.Len(t, res.Groups, 1)
	assert.Len(t, res.Groups[0].Papers, types.DefaultRecommendationsPerCategory)
	assert.Equal(t, call{"cat:cs.AI", 0, 3}, f.calls[len(f.calls)-1])
}

func TestRecommendCapsCategories(t *testing.T) {
	f := &pagedFetcher{corpus: map[string][]types.Paper{
		"all": corpus("p", 1, "cs.AI", "cs.LG", "math.CO"),
	}}
	s := New("test", f, types.SessionConfig{BatchSize: 1, MaxRecommendationCategories: 2}, zerolog.Nop())
	_, err := s.FetchNext(context.Background())
	require.NoError(t, err)
	require.NoError(t, s.Review(0, types.VerdictLike))

	res := s.Recommend(context.Background())
	require.Len(t, res.Groups, 2)
	assert.Equal(t, "cs.AI", res.Groups[0].Category)
	assert.Equal(t, "cs.LG", res.Groups[1].Category)
	assert.Equal(t, []call{{"all", 0, 1}, {"cat:cs.AI", 0, 3}, {"cat:cs.LG", 0, 3}}, f.calls)
}

func TestSnapshot(t *testing.T) {
	f := &pagedFetcher{corpus: map[string][]types.Paper{"all": corpus("p", 2, "cs.AI")}}
	s := newTestSession(f)

	snap := s.Snapshot()
	assert.Equal(t, "test", snap.ID)
	assert.NotNil(t, snap.Papers)
	assert.NotNil(t, snap.Preferences)
	assert.NotNil(t, snap.Liked)

	_, err := s.FetchNext(context.Background())
	require.NoError(t, err)
	require.NoError(t, s.Review(1, types.VerdictLike))

	snap = s.Snapshot()
	assert.Equal(t, 2, snap.NextStart)
	require.Len(t, snap.Papers, 2)
	assert.Empty(t, snap.Papers[0].Verdict)
	assert.Equal(t, types.VerdictLike, snap.Papers[1].Verdict)
	assert.Equal(t, 1, snap.Papers[1].Index)
	assert.Len(t, snap.Liked, 1)
	assert.Len(t, snap.Preferences, 1)
}
