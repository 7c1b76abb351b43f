// Package ndl is the HTTP client for the National Diet Library minutes
// search API.
package ndl

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/gijidex/internal/domain"
	"github.com/kailas-cloud/gijidex/internal/domain/search/filter"
	"github.com/kailas-cloud/gijidex/internal/metrics"
)

// DefaultBaseURL is the speech search endpoint of the minutes API.
const DefaultBaseURL = "https://kokkai.ndl.go.jp/api/speech"

const (
	// maxPageSize is the maximumRecords cap the API enforces per request.
	maxPageSize = 100

	defaultPageSize      = 100
	defaultMaxRetries    = 2
	defaultRetryInterval = 500 * time.Millisecond
	defaultTimeout       = 30 * time.Second

	maxExcerptRunes = 200
	maxBodyBytes    = 32 << 20
)

// Config holds the minutes API client settings.
type Config struct {
	BaseURL    string
	HTTPClient *http.Client
	// PageSize is the maximumRecords sent per page request, clamped to the
	// API cap of 100.
	PageSize int
	// MaxRetries bounds retry attempts after a network failure. Zero means
	// the default, negative disables retries.
	MaxRetries    int
	RetryInterval time.Duration
	// Timeout caps one whole Search including all page requests and
	// retries. Zero means the default, negative disables the deadline.
	Timeout time.Duration
	// Concurrency above 1 fetches follow-up pages in parallel.
	Concurrency int
	Logger      *zap.Logger
}

// Client fetches raw speech items from the minutes API.
type Client struct {
	http          *http.Client
	baseURL       string
	pageSize      int
	maxRetries    int
	retryInterval time.Duration
	timeout       time.Duration
	concurrency   int
	logger        *zap.Logger
}

// New creates a minutes API client.
func New(cfg Config) *Client {
	c := &Client{
		http:          cfg.HTTPClient,
		baseURL:       cfg.BaseURL,
		pageSize:      cfg.PageSize,
		maxRetries:    cfg.MaxRetries,
		retryInterval: cfg.RetryInterval,
		timeout:       cfg.Timeout,
		concurrency:   cfg.Concurrency,
		logger:        cfg.Logger,
	}
	if c.http == nil {
		c.http = &http.Client{}
	}
	if c.baseURL == "" {
		c.baseURL = DefaultBaseURL
	}
	if c.pageSize <= 0 || c.pageSize > maxPageSize {
		c.pageSize = defaultPageSize
	}
	switch {
	case c.maxRetries == 0:
		c.maxRetries = defaultMaxRetries
	case c.maxRetries < 0:
		c.maxRetries = 0
	}
	if c.retryInterval <= 0 {
		c.retryInterval = defaultRetryInterval
	}
	switch {
	case c.timeout == 0:
		c.timeout = defaultTimeout
	case c.timeout < 0:
		c.timeout = 0
	}
	if c.concurrency < 1 {
		c.concurrency = 1
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	return c
}

// envelope mirrors the API response. On success speechRecord holds the
// page items; nextRecordPosition is omitted on the last page. On failure
// the API answers with a message field instead.
type envelope struct {
	NumberOfRecords    int               `json:"numberOfRecords"`
	NumberOfReturn     int               `json:"numberOfReturn"`
	StartRecord        int               `json:"startRecord"`
	NextRecordPosition *int              `json:"nextRecordPosition"`
	Message            string            `json:"message"`
	SpeechRecord       []json.RawMessage `json:"speechRecord"`
}

// FetchPage retrieves one page of raw speech items at the given zero-based
// offset. It returns the page items, the total match count the API
// reported, and whether further pages exist.
func (c *Client) FetchPage(
	ctx context.Context, f filter.Filter, offset, pageSize int,
) ([]json.RawMessage, int, bool, error) {
	if pageSize <= 0 {
		pageSize = c.pageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	env, err := c.get(ctx, c.buildURL(f, offset, pageSize))
	if err != nil {
		return nil, 0, false, err
	}

	c.logger.Debug("fetched minutes api page",
		zap.Int("offset", offset),
		zap.Int("count", len(env.SpeechRecord)),
		zap.Int("total", env.NumberOfRecords))

	return env.SpeechRecord, env.NumberOfRecords, env.NextRecordPosition != nil, nil
}

// Search fetches raw speech items matching the filter, following
// pagination until f.MaxRecords() items are collected or the API reports
// no further pages. It returns the items in API order together with the
// total match count.
func (c *Client) Search(ctx context.Context, f filter.Filter) ([]json.RawMessage, int, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	items, total, hasMore, err := c.FetchPage(ctx, f, 0, min(c.pageSize, f.MaxRecords()))
	if err != nil {
		return nil, 0, err
	}

	want := min(f.MaxRecords(), total)
	if len(items) >= want || !hasMore {
		if len(items) > want {
			items = items[:want]
		}
		return items, total, nil
	}

	if c.concurrency > 1 {
		rest, err := c.fetchParallel(ctx, f, len(items), want)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, rest...)
	} else {
		for hasMore && len(items) < want {
			var page []json.RawMessage
			page, _, hasMore, err = c.FetchPage(ctx, f, len(items), min(c.pageSize, want-len(items)))
			if err != nil {
				return nil, 0, err
			}
			if len(page) == 0 {
				break
			}
			items = append(items, page...)
		}
	}

	if len(items) > want {
		items = items[:want]
	}
	return items, total, nil
}

// fetchParallel retrieves the remaining pages concurrently. Fixed page
// slots keep the assembled result in API order; the first failure cancels
// the group and discards all partial pages.
func (c *Client) fetchParallel(
	ctx context.Context, f filter.Filter, offset, want int,
) ([]json.RawMessage, error) {
	type span struct{ offset, size int }
	var spans []span
	for off := offset; off < want; off += c.pageSize {
		spans = append(spans, span{offset: off, size: min(c.pageSize, want-off)})
	}

	slots := make([][]json.RawMessage, len(spans))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)
	for i, sp := range spans {
		g.Go(func() error {
			page, _, _, err := c.FetchPage(gctx, f, sp.offset, sp.size)
			if err != nil {
				return err
			}
			slots[i] = page
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []json.RawMessage
	for _, page := range slots {
		out = append(out, page...)
	}
	return out, nil
}

// Ping verifies the API is reachable via a minimal single-record request.
func (c *Client) Ping(ctx context.Context) error {
	f, err := filter.New("国会", "", "", "", time.Time{}, time.Time{}, 1)
	if err != nil {
		return fmt.Errorf("build ping filter: %w", err)
	}
	_, _, _, err = c.FetchPage(ctx, f, 0, 1)
	return err
}

func (c *Client) buildURL(f filter.Filter, offset, pageSize int) string {
	q := url.Values{}
	q.Set("recordPacking", "json")
	q.Set("startRecord", strconv.Itoa(offset+1))
	q.Set("maximumRecords", strconv.Itoa(pageSize))
	if f.Keyword() != "" {
		q.Set("any", f.Keyword())
	}
	if f.Speaker() != "" {
		q.Set("speaker", f.Speaker())
	}
	if f.Meeting() != "" {
		q.Set("nameOfMeeting", f.Meeting())
	}
	if f.House() != "" {
		q.Set("nameOfHouse", f.House())
	}
	if !f.From().IsZero() {
		q.Set("from", f.From().Format("2006-01-02"))
	}
	if !f.Until().IsZero() {
		q.Set("until", f.Until().Format("2006-01-02"))
	}
	return c.baseURL + "?" + q.Encode()
}

// get performs one API request with bounded retries. Network failures are
// retried with doubling backoff; errors reported by the API itself are
// returned immediately.
func (c *Client) get(ctx context.Context, reqURL string) (*envelope, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			metrics.UpstreamRetriesTotal.Inc()
			c.logger.Warn("retrying minutes api request",
				zap.Int("attempt", attempt),
				zap.Error(lastErr))
			select {
			case <-ctx.Done():
				return nil, domain.NewTransport(ctx.Err(), isTimeout(ctx.Err()))
			case <-time.After(c.retryInterval << (attempt - 1)):
			}
		}

		env, err := c.doRequest(ctx, reqURL)
		if err == nil {
			return env, nil
		}
		if errors.Is(err, domain.ErrRemote) {
			return nil, err
		}
		lastErr = err
		if ctx.Err() != nil {
			break
		}
	}
	return nil, domain.NewTransport(lastErr, isTimeout(lastErr))
}

func (c *Client) doRequest(ctx context.Context, reqURL string) (*envelope, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	duration := time.Since(start)

	if err != nil {
		metrics.UpstreamRequestsTotal.WithLabelValues("transport_error").Inc()
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		metrics.UpstreamRequestsTotal.WithLabelValues("transport_error").Inc()
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		metrics.UpstreamRequestsTotal.WithLabelValues("remote_error").Inc()
		return nil, domain.NewRemote(resp.StatusCode, excerpt(body))
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		metrics.UpstreamRequestsTotal.WithLabelValues("remote_error").Inc()
		return nil, domain.NewRemote(resp.StatusCode, excerpt(body))
	}
	if env.Message != "" {
		metrics.UpstreamRequestsTotal.WithLabelValues("remote_error").Inc()
		return nil, domain.NewRemote(resp.StatusCode, env.Message)
	}

	metrics.UpstreamRequestsTotal.WithLabelValues("success").Inc()
	metrics.UpstreamRequestDuration.Observe(duration.Seconds())
	return &env, nil
}

// excerpt bounds an error payload for inclusion in error messages.
func excerpt(body []byte) string {
	s := strings.TrimSpace(string(body))
	r := []rune(s)
	if len(r) <= maxExcerptRunes {
		return s
	}
	return string(r[:maxExcerptRunes]) + "..."
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
