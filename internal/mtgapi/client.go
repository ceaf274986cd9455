// Package mtgapi is a small client for the public Magic: The Gathering API
// (api.magicthegathering.io/v1). It covers the two queries cube resolution
// needs: sets by type and cards by name.
package mtgapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/xcube/pkg/types"
)

// DefaultBaseURL is the API root used when none is configured.
const DefaultBaseURL = "https://api.magicthegathering.io/v1"

// PageSize is the largest page the API serves.
const PageSize = 100

// maxBodyBytes caps a single response body.
const maxBodyBytes = 16 << 20

// Client queries the card API. The zero value is not usable; use NewClient.
type Client struct {
	baseURL    string
	http       *http.Client
	log        *zap.SugaredLogger
	maxTries   uint
	maxElapsed time.Duration
	newBackOff func() backoff.BackOff
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at another API root.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimSuffix(u, "/") }
}

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithLogger sets the logger.
func WithLogger(l *zap.SugaredLogger) Option {
	return func(c *Client) { c.log = l }
}

// WithRetry bounds retries of rate-limited and failed requests.
func WithRetry(maxTries uint, maxElapsed time.Duration) Option {
	return func(c *Client) {
		c.maxTries = maxTries
		c.maxElapsed = maxElapsed
	}
}

// WithBackOff replaces the retry schedule.
func WithBackOff(f func() backoff.BackOff) Option {
	return func(c *Client) { c.newBackOff = f }
}

// NewClient returns a Client with defaults applied before opts.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		http:       &http.Client{Timeout: 30 * time.Second},
		log:        zap.NewNop().Sugar(),
		maxTries:   6,
		maxElapsed: 2 * time.Minute,
		newBackOff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = time.Second
			return b
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// StatusError reports a non-2xx response.
type StatusError struct {
	URL    string
	Status int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: unexpected status %d %s", e.URL, e.Status, http.StatusText(e.Status))
}

type setsPage struct {
	Sets []types.Set `json:"sets"`
}

type cardsPage struct {
	Cards []types.Printing `json:"cards"`
}

// Sets returns every set whose type is one of setTypes.
func (c *Client) Sets(ctx context.Context, setTypes []string) ([]types.Set, error) {
	q := url.Values{}
	if len(setTypes) > 0 {
		q.Set("type", strings.Join(setTypes, ","))
	}

	var all []types.Set
	err := c.paginate(ctx, "/sets", q, func(body []byte) (int, error) {
		var page setsPage
		if err := json.Unmarshal(body, &page); err != nil {
			return 0, fmt.Errorf("decode sets: %w", err)
		}
		all = append(all, page.Sets...)
		return len(page.Sets), nil
	})
	if err != nil {
		return nil, err
	}
	return all, nil
}

// Cards returns every printing matching name. The API matches names
// partially, so callers filter for exact names themselves.
func (c *Client) Cards(ctx context.Context, name string) ([]types.Printing, error) {
	q := url.Values{}
	q.Set("name", name)

	var all []types.Printing
	err := c.paginate(ctx, "/cards", q, func(body []byte) (int, error) {
		var page cardsPage
		if err := json.Unmarshal(body, &page); err != nil {
			return 0, fmt.Errorf("decode cards: %w", err)
		}
		all = append(all, page.Cards...)
		return len(page.Cards), nil
	})
	if err != nil {
		return nil, err
	}
	c.log.Debugw("cards query", "name", name, "hits", len(all))
	return all, nil
}

// paginate requests pages of path until one comes back empty or short.
func (c *Client) paginate(ctx context.Context, path string, q url.Values, decode func([]byte) (int, error)) error {
	q.Set("pageSize", strconv.Itoa(PageSize))
	for page := 1; ; page++ {
		q.Set("page", strconv.Itoa(page))
		body, err := c.get(ctx, c.baseURL+path+"?"+q.Encode())
		if err != nil {
			return err
		}
		n, err := decode(body)
		if err != nil {
			return err
		}
		if n < PageSize {
			return nil
		}
	}
}

// get performs one GET, retrying 429 and 5xx responses with backoff.
func (c *Client) get(ctx context.Context, u string) ([]byte, error) {
	op := func() ([]byte, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return nil, backoff.Permanent(err)
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, backoff.Permanent(ctx.Err())
			}
			return nil, err
		}
		defer resp.Body.Close()

		c.log.Debugw("api response", "url", u, "status", resp.StatusCode,
			"ratelimit_remaining", resp.Header.Get("Ratelimit-Remaining"))

		switch {
		case resp.StatusCode == http.StatusTooManyRequests:
			c.log.Warnw("rate limited by card API", "url", u)
			if secs, err := strconv.Atoi(resp.Header.Get("Retry-After")); err == nil && secs > 0 {
				return nil, backoff.RetryAfter(secs)
			}
			return nil, &StatusError{URL: u, Status: resp.StatusCode}
		case resp.StatusCode >= 500:
			return nil, &StatusError{URL: u, Status: resp.StatusCode}
		case resp.StatusCode < 200 || resp.StatusCode > 299:
			return nil, backoff.Permanent(&StatusError{URL: u, Status: resp.StatusCode})
		}

		body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
		if err != nil {
			return nil, fmt.Errorf("read body: %w", err)
		}
		return body, nil
	}

	return backoff.Retry(ctx, op,
		backoff.WithBackOff(c.newBackOff()),
		backoff.WithMaxTries(c.maxTries),
		backoff.WithMaxElapsedTime(c.maxElapsed),
	)
}
