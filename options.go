package gijidex

import (
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Option configures the Engine.
type Option func(*engineConfig)

type engineConfig struct {
	baseURL     string
	httpClient  *http.Client
	timeout     time.Duration
	pageSize    int
	retries     int
	concurrency int

	maxRecords  int
	topKeywords int

	tokenizer      Tokenizer
	noTokenizer    bool
	stopWords      []string
	minTokenLength int

	historyPath  string
	historyRedis *RedisOptions
	historyLimit int

	logger *zap.Logger
}

// RedisOptions configures the Redis history backend.
type RedisOptions struct {
	Addrs     []string
	Username  string
	Password  string
	DB        int
	KeyPrefix string
}

// WithBaseURL overrides the minutes API endpoint. Useful for tests and
// mirrors.
func WithBaseURL(url string) Option {
	return func(c *engineConfig) {
		c.baseURL = url
	}
}

// WithHTTPClient sets the HTTP client used for API requests.
func WithHTTPClient(client *http.Client) Option {
	return func(c *engineConfig) {
		c.httpClient = client
	}
}

// WithTimeout caps one whole search, pagination and retries included.
// Default: 30s. Negative disables the deadline.
func WithTimeout(d time.Duration) Option {
	return func(c *engineConfig) {
		c.timeout = d
	}
}

// WithPageSize sets the records requested per API page (1-100).
// Default: 100.
func WithPageSize(n int) Option {
	return func(c *engineConfig) {
		c.pageSize = n
	}
}

// WithRetries bounds retry attempts after a network failure. Default: 2.
// Negative disables retries.
func WithRetries(n int) Option {
	return func(c *engineConfig) {
		c.retries = n
	}
}

// WithConcurrency sets how many follow-up pages are fetched in parallel.
// Default: 1 (sequential).
func WithConcurrency(n int) Option {
	return func(c *engineConfig) {
		c.concurrency = n
	}
}

// WithDefaultMaxRecords sets the record cap applied when a Filter leaves
// MaxRecords zero. Default: 30.
func WithDefaultMaxRecords(n int) Option {
	return func(c *engineConfig) {
		c.maxRecords = n
	}
}

// WithTopKeywords bounds keyword and meeting-profile rankings. Default: 50.
func WithTopKeywords(n int) Option {
	return func(c *engineConfig) {
		c.topKeywords = n
	}
}

// WithTokenizer replaces the built-in morphological tokenizer.
func WithTokenizer(t Tokenizer) Option {
	return func(c *engineConfig) {
		c.tokenizer = t
	}
}

// WithoutTokenizer disables keyword extraction; keyword tables come back
// empty while statistics still work.
func WithoutTokenizer() Option {
	return func(c *engineConfig) {
		c.noTokenizer = true
	}
}

// WithStopWords extends the built-in Japanese stop-word set.
func WithStopWords(words ...string) Option {
	return func(c *engineConfig) {
		c.stopWords = append(c.stopWords, words...)
	}
}

// WithMinTokenLength drops tokens shorter than n runes. Default: 2.
func WithMinTokenLength(n int) Option {
	return func(c *engineConfig) {
		c.minTokenLength = n
	}
}

// WithHistoryFile stores the search history in a CSV file at path.
// Default: search_history.csv in the working directory.
func WithHistoryFile(path string) Option {
	return func(c *engineConfig) {
		c.historyPath = path
		c.historyRedis = nil
	}
}

// WithHistoryRedis stores the search history in Redis instead of a file.
func WithHistoryRedis(opts RedisOptions) Option {
	return func(c *engineConfig) {
		c.historyRedis = &opts
	}
}

// WithHistoryLimit caps retained history entries; the oldest are evicted
// first. Default: 500.
func WithHistoryLimit(n int) Option {
	return func(c *engineConfig) {
		c.historyLimit = n
	}
}

// WithLogger enables structured logging for engine operations.
// Pass nil to disable (default).
func WithLogger(l *zap.Logger) Option {
	return func(c *engineConfig) {
		c.logger = l
	}
}
