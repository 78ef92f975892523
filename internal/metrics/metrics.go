// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package metrics defines the Prometheus metrics exported by the HTTP
// adapter and a Fetcher decorator that records them.
package metrics

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/pdiddy/paper-recommender/internal/fetch"
	"github.com/pdiddy/paper-recommender/pkg/types"
)

const namespace = "paper_recommender"

// Fetch outcome labels.
const (
	OutcomeOK           = "ok"
	OutcomeNetworkError = "network_error"
	OutcomeParseError   = "parse_error"
	OutcomeInvalid      = "invalid"
)

// Metrics holds every collector. Create one per registry.
type Metrics struct {
	// FetchesTotal counts fetch calls by outcome.
	FetchesTotal *prometheus.CounterVec

	// FetchDuration observes fetch latency in seconds.
	FetchDuration prometheus.Histogram

	// PapersFetched counts papers returned by successful fetches.
	PapersFetched prometheus.Counter

	// FeedbackTotal counts recorded verdicts by verdict.
	FeedbackTotal *prometheus.CounterVec

	// RecommendationsTotal counts recommendation requests by outcome
	// (generated, no_preferences).
	RecommendationsTotal *prometheus.CounterVec

	// SessionsActive is the number of live sessions.
	SessionsActive prometheus.Gauge
}

// New registers the collectors with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		FetchesTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetches_total",
			Help:      "arXiv fetches by outcome.",
		}, []string{"outcome"}),
		FetchDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "fetch_duration_seconds",
			Help:      "arXiv fetch latency.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		PapersFetched: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "papers_fetched_total",
			Help:      "Papers returned by successful fetches.",
		}),
		FeedbackTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "feedback_total",
			Help:      "Recorded verdicts.",
		}, []string{"verdict"}),
		RecommendationsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "recommendations_total",
			Help:      "Recommendation requests by outcome.",
		}, []string{"outcome"}),
		SessionsActive: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sessions_active",
			Help:      "Live sessions.",
		}),
	}
}

// ObserveFeedback counts one recorded verdict.
func (m *Metrics) ObserveFeedback(v types.Verdict) {
	m.FeedbackTotal.WithLabelValues(string(v)).Inc()
}

// ObserveRecommendation counts one recommendation request.
func (m *Metrics) ObserveRecommendation(noPreferences bool) {
	outcome := "generated"
	if noPreferences {
		outcome = "no_preferences"
	}
	m.RecommendationsTotal.WithLabelValues(outcome).Inc()
}

// InstrumentFetcher wraps f so every call is counted and timed.
func InstrumentFetcher(f fetch.Fetcher, m *Metrics) fetch.Fetcher {
	return &instrumented{next: f, m: m}
}

type instrumented struct {
	next fetch.Fetcher
	m    *Metrics
}

func (i *instrumented) Fetch(ctx context.Context, query string, start, maxResults int) ([]types.Paper, error) {
	began := time.Now()
	papers, err := i.next.Fetch(ctx, query, start, maxResults)
	i.m.FetchDuration.Observe(time.Since(began).Seconds())
	i.m.FetchesTotal.WithLabelValues(outcome(err)).Inc()
	if err == nil {
		i.m.PapersFetched.Add(float64(len(papers)))
	}
	return papers, err
}

func outcome(err error) string {
	var pe *fetch.ParseError
	switch {
	case err == nil:
		return OutcomeOK
	case errors.As(err, &pe):
		return OutcomeParseError
	case errors.Is(err, fetch.ErrInvalidRequest):
		return OutcomeInvalid
	default:
		return OutcomeNetworkError
	}
}
