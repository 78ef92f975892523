// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package session

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/paper-recommender/internal/fetch"
	"github.com/pdiddy/paper-recommender/internal/recommend"
	"github.com/pdiddy/paper-recommender/pkg/types"
)

func runREPL(t *testing.T, s *Session, input string) string {
	t.Helper()
	var out bytes.Buffer
	r := &REPL{Session: s, In: strings.NewReader(input), Out: &out}
	require.NoError(t, r.Run(context.Background()))
	return out.String()
}

func TestREPLTranscript(t *testing.T) {
	f := &pagedFetcher{corpus: map[string][]types.Paper{
		"all":       corpus("p", 3, "cs.AI"),
		"cat:cs.AI": corpus("ai", 3, "cs.AI"),
	}}
	s := newTestSession(f)

	out := runREPL(t, s, strings.Join([]string{
		"prefs",
		"liked",
		"recommend",
		"fetch",
		"like 1",
		"dislike 2",
		"l 1",
		"papers",
		"prefs",
		"liked",
		"recommend",
		"quit",
		"fetch",
	}, "\n"))

	assert.Contains(t, out, "You have not viewed any papers yet.")
	assert.Contains(t, out, "You have not liked any papers yet.")
	assert.Contains(t, out, recommend.NoPreferencesMessage)
	assert.Contains(t, out, "Select papers you like or dislike:")
	assert.Contains(t, out, "[1] Paper p1")
	assert.Contains(t, out, "Marked [1] Paper p1 as like.")
	assert.Contains(t, out, "Marked [2] Paper p2 as dislike.")
	assert.Contains(t, out, "Category: cs.AI, Preference Score: 0.00")
	assert.Contains(t, out, "- Paper p1 by Author p1")
	assert.Contains(t, out, "Session ended.")

	// 0.00 score: no recommendation, and the fetch after quit never runs.
	assert.Equal(t, 2, strings.Count(out, recommend.NoPreferencesMessage))
	assert.Len(t, f.calls, 1)
}

func TestREPLRecommendations(t *testing.T) {
	f := &pagedFetcher{corpus: map[string][]types.Paper{
		"all":       corpus("p", 2, "cs.LG"),
		"cat:cs.LG": corpus("lg", 4, "cs.LG"),
	}}
	s := newTestSession(f)

	out := runREPL(t, s, "fetch\nlike 2\nrecommend\n")
	assert.Contains(t, out, "Top papers in category: cs.LG")
	assert.Contains(t, out, "Paper lg3")
	assert.NotContains(t, out, "Paper lg4")
}

func TestREPLErrors(t *testing.T) {
	f := &pagedFetcher{err: &fetch.NetworkError{URL: "http://x", StatusCode: 503}}
	s := newTestSession(f)

	out := runREPL(t, s, "fetch\nlike\nlike 9\nbogus\nquery\nhelp\n")
	assert.Contains(t, out, "fetch failed (network)")
	assert.Contains(t, out, "usage: like <paper number>")
	assert.Contains(t, out, "unknown paper")
	assert.Contains(t, out, `unknown command "bogus"`)
	assert.Contains(t, out, "error: invalid fetch request")
	assert.Contains(t, out, "Commands:")
}

func TestREPLQueryAndPapers(t *testing.T) {
	f := &pagedFetcher{corpus: map[string][]types.Paper{
		"cat:math.CO": corpus("co", 1, "math.CO"),
	}}
	s := newTestSession(f)

	out := runREPL(t, s, "papers\nquery cat:math.CO\nfetch\nn 1\npapers\nfetch\n")
	assert.Contains(t, out, "No papers fetched yet.")
	assert.Contains(t, out, `Query set to "cat:math.CO".`)
	assert.Contains(t, out, "neutral  Paper co1")
	assert.Contains(t, out, "No more papers for this query.")
}

func TestREPLStopsOnCancelledContext(t *testing.T) {
	s := newTestSession(&pagedFetcher{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	r := &REPL{Session: s, In: strings.NewReader("fetch\n"), Out: &out}
	assert.ErrorIs(t, r.Run(ctx), context.Canceled)
}

func TestREPLExport(t *testing.T) {
	f := &pagedFetcher{corpus: map[string][]types.Paper{"all": corpus("p", 2, "cs.AI")}}

	out := runREPL(t, newTestSession(f), "fetch\nlike 1\nexport\n")
	assert.Contains(t, out, `"id": "test"`)
	assert.Contains(t, out, `"verdict": "like"`)
	assert.Contains(t, out, `"category": "cs.AI"`)

	out = runREPL(t, newTestSession(f), "fetch\nlike 1\nexport yaml\n")
	assert.Contains(t, out, "id: test")
	assert.Contains(t, out, "query: all")
	assert.Contains(t, out, "title: Paper p1")

	out = runREPL(t, newTestSession(f), "export xml\n")
	assert.Contains(t, out, "usage: export [json|yaml]")
}

func TestREPLReturnsOnCancelWhileWaitingForInput(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()

	f := &pagedFetcher{corpus: map[string][]types.Paper{"all": corpus("p", 1, "cs.AI")}}
	var out bytes.Buffer
	r := &REPL{Session: newTestSession(f), In: pr, Out: &out}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	// One command goes through, then the REPL blocks on the next read.
	_, err := pw.Write([]byte("fetch\n"))
	require.NoError(t, err)
	require.Eventually(t, func() bool { return len(f.callsSnapshot()) == 1 }, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after the context was cancelled")
	}
	assert.Contains(t, out.String(), "[1] Paper p1")
}
