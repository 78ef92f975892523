// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers shared by components that talk to
// external APIs.
package httputil

import (
	"context"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// NewClient returns an http.Client with the given timeout. A zero timeout
// is replaced by defaultTimeout so that no request can hang forever.
func NewClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &http.Client{Timeout: timeout}
}

const defaultTimeout = 30 * time.Second

// Pacer spaces out requests to one upstream API with a token bucket. A nil
// *Pacer never waits.
type Pacer struct {
	limiter *rate.Limiter
}

// NewPacer creates a Pacer allowing perSecond requests per second with the
// given burst. perSecond <= 0 returns nil, which disables pacing.
func NewPacer(perSecond float64, burst int) *Pacer {
	if perSecond <= 0 {
		return nil
	}
	if burst <= 0 {
		burst = 1
	}
	return &Pacer{limiter: rate.NewLimiter(rate.Limit(perSecond), burst)}
}

// Wait blocks until the next request may be sent or ctx is done.
func (p *Pacer) Wait(ctx context.Context) error {
	if p == nil {
		return nil
	}
	return p.limiter.Wait(ctx)
}

// Do waits on the pacer and then sends req with client. The request is
// sent once; failures are returned to the caller unretried.
func Do(ctx context.Context, client *http.Client, pacer *Pacer, req *http.Request) (*http.Response, error) {
	if err := pacer.Wait(ctx); err != nil {
		return nil, err
	}
	return client.Do(req.WithContext(ctx))
}
