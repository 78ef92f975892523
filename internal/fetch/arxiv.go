// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/pdiddy/paper-recommender/internal/httputil"
	"github.com/pdiddy/paper-recommender/pkg/types"
)

// maxBodyBytes caps how much of a response is read.
const maxBodyBytes = 10 << 20

// ArxivFetcher queries the arXiv Atom API.
type ArxivFetcher struct {
	Client    *http.Client
	Pacer     *httputil.Pacer
	BaseURL   string
	UserAgent string
	Logger    zerolog.Logger
}

// NewArxivFetcher builds a fetcher from cfg, filling zero values with
// defaults.
func NewArxivFetcher(cfg types.FetchConfig, logger zerolog.Logger) *ArxivFetcher {
	base := cfg.BaseURL
	if base == "" {
		base = types.DefaultBaseURL
	}
	return &ArxivFetcher{
		Client:    httputil.NewClient(cfg.Timeout),
		Pacer:     httputil.NewPacer(cfg.RateLimit, cfg.Burst),
		BaseURL:   base,
		UserAgent: cfg.UserAgent,
		Logger:    logger.With().Str("component", "arxiv").Logger(),
	}
}

// Fetch issues one search request and returns the entries in feed order.
func (f *ArxivFetcher) Fetch(ctx context.Context, query string, start, maxResults int) ([]types.Paper, error) {
	if err := validate(query, start, maxResults); err != nil {
		return nil, err
	}

	reqURL := f.buildURL(query, start, maxResults)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, &NetworkError{URL: reqURL, Err: fmt.Errorf("creating request: %w", err)}
	}
	if f.UserAgent != "" {
		req.Header.Set("User-Agent", f.UserAgent)
	}

	began := time.Now()
	f.Logger.Debug().Str("query", query).Int("start", start).Int("max_results", maxResults).Msg("fetching papers")

	client := f.Client
	if client == nil {
		client = httputil.NewClient(0)
	}
	resp, err := httputil.Do(ctx, client, f.Pacer, req)
	if err != nil {
		f.Logger.Warn().Err(err).Str("url", reqURL).Msg("arXiv request failed")
		return nil, &NetworkError{URL: reqURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<10))
		f.Logger.Warn().Int("status", resp.StatusCode).Str("url", reqURL).Msg("arXiv returned non-200")
		return nil, &NetworkError{
			URL:        reqURL,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(body))),
		}
	}

	papers, err := parseFeed(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		f.Logger.Warn().Err(err).Str("url", reqURL).Msg("arXiv response unparseable")
		return nil, err
	}

	f.Logger.Debug().Int("papers", len(papers)).Dur("elapsed", time.Since(began)).Msg("fetched papers")
	return papers, nil
}

func (f *ArxivFetcher) buildURL(query string, start, maxResults int) string {
	v := url.Values{}
	v.Set("search_query", query)
	v.Set("start", strconv.Itoa(start))
	v.Set("max_results", strconv.Itoa(maxResults))
	return f.BaseURL + "?" + v.Encode()
}

// parseFeed decodes an Atom feed. Any decode failure, including an empty
// body or a root element other than feed, is a ParseError.
func parseFeed(r io.Reader) ([]types.Paper, error) {
	var feed atomFeed
	if err := xml.NewDecoder(r).Decode(&feed); err != nil {
		return nil, &ParseError{Err: err}
	}

	papers := make([]types.Paper, 0, len(feed.Entries))
	for _, e := range feed.Entries {
		p := types.Paper{
			Title:   collapseSpace(e.Title),
			Summary: strings.TrimSpace(e.Summary),
			Link:    strings.TrimSpace(e.ID),
		}
		for _, a := range e.Authors {
			p.Authors = append(p.Authors, strings.TrimSpace(a.Name))
		}
		for _, c := range e.Categories {
			if term := strings.TrimSpace(c.Term); term != "" {
				p.Categories = append(p.Categories, term)
			}
		}
		papers = append(papers, p)
	}
	return papers, nil
}

// collapseSpace joins the fields of s with single spaces. arXiv wraps long
// titles across lines.
func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// arXiv Atom feed XML structures.
type atomFeed struct {
	XMLName xml.Name    `xml:"feed"`
	Entries []atomEntry `xml:"entry"`
}

type atomEntry struct {
	ID         string         `xml:"id"`
	Title      string         `xml:"title"`
	Summary    string         `xml:"summary"`
	Authors    []atomAuthor   `xml:"author"`
	Categories []atomCategory `xml:"category"`
}

type atomAuthor struct {
	Name string `xml:"name"`
}

type atomCategory struct {
	Term string `xml:"term,attr"`
}
