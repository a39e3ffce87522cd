package caseapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/parazit/pkg/domain/interfaces"
	"github.com/secmon-lab/parazit/pkg/domain/model"
	"github.com/secmon-lab/parazit/pkg/domain/types"
)

// Error tags for fetch failure categorization
var (
	ErrTagTransport      = goerr.NewTag("transport")
	ErrTagResponseStatus = goerr.NewTag("response_status")
	ErrTagParse          = goerr.NewTag("parse")
)

const (
	casesPath = "/api/v1/cases"

	// DefaultTimeout bounds a single case list request
	DefaultTimeout = 10 * time.Second

	// DefaultMaxBodySize caps a successful case list response
	DefaultMaxBodySize = 10 << 20

	// bodySnippetLimit caps how much of an error response body is kept for diagnosis
	bodySnippetLimit = 512
)

// Client fetches the case listing from the case API
type Client struct {
	endpoint    string
	httpClient  interfaces.HTTPClient
	timeout     time.Duration
	maxBodySize int64
	metrics     *Metrics
}

var _ interfaces.CaseFetcher = (*Client)(nil)

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the HTTP client used for requests
func WithHTTPClient(httpClient interfaces.HTTPClient) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// WithTimeout sets the per-request timeout. Zero or negative disables the bound.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// WithMaxBodySize sets the largest accepted response body in bytes
func WithMaxBodySize(n int64) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxBodySize = n
		}
	}
}

// WithMetrics records fetch outcomes into m
func WithMetrics(m *Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// New creates a case API client for the API rooted at baseURL
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		endpoint:    strings.TrimSuffix(baseURL, "/") + casesPath,
		httpClient:  &http.Client{},
		timeout:     DefaultTimeout,
		maxBodySize: DefaultMaxBodySize,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Endpoint returns the case listing URL this client requests
func (c *Client) Endpoint() string {
	return c.endpoint
}

// FetchResult is the outcome of one fetch. Err carries one of the ErrTag* tags on failure.
type FetchResult struct {
	FetchID    types.FetchID
	Cases      []model.CaseSummary
	StatusCode int
	Duration   time.Duration
	Err        error
}

// OK returns true if the fetch succeeded
func (r *FetchResult) OK() bool {
	return r.Err == nil
}

// FetchCases returns the case listing, or an empty slice when it cannot be obtained.
// Failures are logged and never returned.
func (c *Client) FetchCases(ctx context.Context) []model.CaseSummary {
	result := c.Fetch(ctx)
	logger := ctxlog.From(ctx)

	if !result.OK() {
		logger.Error("Failed to fetch cases, falling back to empty list",
			slog.String("fetch_id", result.FetchID.String()),
			slog.String("endpoint", c.endpoint),
			slog.Int("status_code", result.StatusCode),
			slog.Any("error", result.Err),
		)
		return []model.CaseSummary{}
	}

	logger.Debug("Fetched cases",
		slog.String("fetch_id", result.FetchID.String()),
		slog.Int("count", len(result.Cases)),
		slog.Duration("duration", result.Duration),
	)
	return result.Cases
}

// Fetch performs one live request and reports the tagged outcome
func (c *Client) Fetch(ctx context.Context) (result *FetchResult) {
	result = &FetchResult{FetchID: types.NewFetchID()}
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			result.Cases = nil
			result.Err = goerr.New("panic while fetching cases",
				goerr.V("recover", fmt.Sprint(r)),
				goerr.V("stack", string(debug.Stack())),
				goerr.T(ErrTagTransport))
		}
		result.Duration = time.Since(start)
		c.metrics.observe(result)
	}()

	result.Cases, result.StatusCode, result.Err = c.fetch(ctx)
	if result.Err != nil {
		result.Err = goerr.Wrap(result.Err, "failed to fetch cases",
			goerr.V("fetch_id", result.FetchID),
			goerr.V("endpoint", c.endpoint))
	}
	return result
}

func (c *Client) fetch(ctx context.Context) ([]model.CaseSummary, int, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, http.NoBody)
	if err != nil {
		return nil, 0, goerr.Wrap(err, "failed to create case list request",
			goerr.T(ErrTagTransport))
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, goerr.Wrap(err, "case list request failed",
			goerr.T(ErrTagTransport))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, bodySnippetLimit))
		return nil, resp.StatusCode, goerr.New("case list request returned non-success status",
			goerr.V("status_code", resp.StatusCode),
			goerr.V("status", resp.Status),
			goerr.V("body", string(snippet)),
			goerr.T(ErrTagResponseStatus))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBodySize+1))
	if err != nil {
		return nil, resp.StatusCode, goerr.Wrap(err, "failed to read case list response",
			goerr.T(ErrTagTransport))
	}
	if int64(len(body)) > c.maxBodySize {
		return nil, resp.StatusCode, goerr.New("case list response is too large",
			goerr.V("limit", c.maxBodySize),
			goerr.T(ErrTagParse))
	}

	var cases []model.CaseSummary
	if err := json.Unmarshal(body, &cases); err != nil {
		if len(body) > bodySnippetLimit {
			body = body[:bodySnippetLimit]
		}
		return nil, resp.StatusCode, goerr.Wrap(err, "failed to parse case list response",
			goerr.V("body", string(body)),
			goerr.T(ErrTagParse))
	}

	// JSON null decodes to a nil slice
	if cases == nil {
		cases = []model.CaseSummary{}
	}
	return cases, resp.StatusCode, nil
}
