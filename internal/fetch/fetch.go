// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fetch retrieves papers from the arXiv search API.
//
// A fetch is one GET against the query endpoint followed by Atom parsing.
// Results are never cached and failures are never retried; callers decide
// whether to try again.
package fetch

import (
	"context"
	"errors"
	"fmt"

	"github.com/pdiddy/paper-recommender/pkg/types"
)

// Fetcher returns up to maxResults papers matching query, starting at the
// zero-based offset start.
type Fetcher interface {
	Fetch(ctx context.Context, query string, start, maxResults int) ([]types.Paper, error)
}

// ErrInvalidRequest is returned for arguments that cannot form a valid
// query (empty query, negative start, non-positive maxResults).
var ErrInvalidRequest = errors.New("invalid fetch request")

// NetworkError reports a request that could not complete: transport
// failure, timeout, or a non-200 answer.
type NetworkError struct {
	URL        string
	StatusCode int // zero when no response was received
	Err        error
}

func (e *NetworkError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("arXiv request %s: HTTP %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("arXiv request %s: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ParseError reports a response body that is not a well-formed Atom feed.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing arXiv response: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// CategoryQuery returns the search_query that selects papers in category.
func CategoryQuery(category string) string {
	return "cat:" + category
}

func validate(query string, start, maxResults int) error {
	switch {
	case query == "":
		return fmt.Errorf("%w: empty query", ErrInvalidRequest)
	case start < 0:
		return fmt.Errorf("%w: start %d is negative", ErrInvalidRequest, start)
	case maxResults <= 0:
		return fmt.Errorf("%w: max_results %d must be positive", ErrInvalidRequest, maxResults)
	}
	return nil
}
