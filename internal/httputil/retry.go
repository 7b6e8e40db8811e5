// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides the paced, retrying HTTP client used for calls
// to external paper services.
package httputil

import (
	"context"
	"io"
	"log/slog"
	"math"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// RetryBaseDelay controls the base duration for exponential backoff on
// HTTP 429 responses. Tests override this to avoid real sleeps.
var RetryBaseDelay = 10 * time.Second

const defaultMaxRetries = 5

// Client wraps an http.Client with request pacing and 429 retries. It is
// safe for concurrent use; all callers share one pacing budget.
type Client struct {
	HTTP       *http.Client
	limiter    *rate.Limiter
	maxRetries int
	log        *slog.Logger
}

// NewClient returns a Client that spaces requests at least interval apart.
// A zero interval disables pacing. maxRetries <= 0 selects the default (5).
func NewClient(hc *http.Client, interval time.Duration, maxRetries int, log *slog.Logger) *Client {
	if hc == nil {
		hc = http.DefaultClient
	}
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}
	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	}
	return &Client{
		HTTP:       hc,
		limiter:    rate.NewLimiter(limit, 1),
		maxRetries: maxRetries,
		log:        log,
	}
}

// Do waits for a pacing slot, then executes req and retries on HTTP 429
// (Too Many Requests) with exponential backoff. The delay starts at
// RetryBaseDelay and doubles each attempt.
//
// On each 429 the response body is drained and closed before sleeping. If
// the context is cancelled while waiting the function returns ctx.Err().
// After exhausting retries the last 429 response is returned so the caller
// can inspect it.
func (c *Client) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	for attempt := 0; ; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		resp, err := c.HTTP.Do(req.Clone(ctx))
		if err != nil {
			return nil, err
		}

		if resp.StatusCode != http.StatusTooManyRequests {
			return resp, nil
		}

		if attempt >= c.maxRetries {
			return resp, nil
		}

		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		backoff := time.Duration(math.Pow(2, float64(attempt))) * RetryBaseDelay
		c.log.Info("rate limited, retrying",
			slog.String("url", req.URL.String()),
			slog.Duration("backoff", backoff),
			slog.Int("attempt", attempt+1),
			slog.Int("max_retries", c.maxRetries))

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
	}
}
