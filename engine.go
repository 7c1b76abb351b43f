package gijidex

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/kailas-cloud/gijidex/internal/domain"
	"github.com/kailas-cloud/gijidex/internal/domain/search/filter"
	"github.com/kailas-cloud/gijidex/internal/normalize"
	historyrepo "github.com/kailas-cloud/gijidex/internal/repository/history"
	"github.com/kailas-cloud/gijidex/internal/tokenize"
	"github.com/kailas-cloud/gijidex/internal/transport/ndl"
	"github.com/kailas-cloud/gijidex/internal/usecase/analytics"
	historyuc "github.com/kailas-cloud/gijidex/internal/usecase/history"
	searchuc "github.com/kailas-cloud/gijidex/internal/usecase/search"
)

const defaultHistoryPath = "search_history.csv"

// Engine is the gijidex entry point.
type Engine struct {
	searchSvc  *searchuc.Service
	historySvc *historyuc.Service
	redis      *historyrepo.RedisBackend
	maxRecords int
}

// New creates an Engine. Without options it talks to the public minutes
// API and keeps its history in search_history.csv.
func New(opts ...Option) (*Engine, error) {
	def := domain.DefaultSearchConfig()
	cfg := &engineConfig{
		baseURL:        def.BaseURL,
		timeout:        def.Timeout,
		pageSize:       def.PageSize,
		retries:        def.Retries,
		concurrency:    def.Concurrency,
		maxRecords:     def.MaxRecords,
		topKeywords:    def.TopKeywords,
		minTokenLength: def.MinTokenLength,
		historyPath:    defaultHistoryPath,
		historyLimit:   def.HistoryEntries,
	}
	for _, o := range opts {
		o(cfg)
	}

	logger := cfg.logger
	if logger == nil {
		logger = zap.NewNop()
	}

	tok, err := buildTokenizer(cfg)
	if err != nil {
		return nil, err
	}

	repo, redis, err := buildHistory(cfg)
	if err != nil {
		return nil, err
	}

	client := ndl.New(ndl.Config{
		BaseURL:     cfg.baseURL,
		HTTPClient:  cfg.httpClient,
		PageSize:    cfg.pageSize,
		MaxRetries:  cfg.retries,
		Timeout:     cfg.timeout,
		Concurrency: cfg.concurrency,
		Logger:      logger,
	})

	searchSvc := searchuc.New(
		client, normalize.New(), analytics.New(tok), repo,
		cfg.topKeywords, logger,
	)

	return &Engine{
		searchSvc:  searchSvc,
		historySvc: historyuc.New(repo),
		redis:      redis,
		maxRecords: cfg.maxRecords,
	}, nil
}

func buildTokenizer(cfg *engineConfig) (Tokenizer, error) {
	if cfg.noTokenizer {
		return tokenize.Noop{}, nil
	}
	if cfg.tokenizer != nil {
		return cfg.tokenizer, nil
	}
	t, err := tokenize.New(tokenize.Config{
		MinTokenLength: cfg.minTokenLength,
		ExtraStopWords: cfg.stopWords,
	})
	if err != nil {
		return nil, fmt.Errorf("gijidex: build tokenizer: %w", err)
	}
	return t, nil
}

func buildHistory(cfg *engineConfig) (*historyrepo.Repo, *historyrepo.RedisBackend, error) {
	if cfg.historyRedis != nil {
		r := cfg.historyRedis
		backend, err := historyrepo.NewRedisBackend(historyrepo.RedisConfig{
			Addrs:     r.Addrs,
			Username:  r.Username,
			Password:  r.Password,
			DB:        r.DB,
			KeyPrefix: r.KeyPrefix,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("gijidex: create redis history: %w", err)
		}
		return historyrepo.New(backend, cfg.historyLimit), backend, nil
	}
	backend := historyrepo.NewCSVBackend(cfg.historyPath)
	return historyrepo.New(backend, cfg.historyLimit), nil, nil
}

// Search runs one search for the given filter.
func (e *Engine) Search(ctx context.Context, f Filter) (*Result, error) {
	df, err := e.toInternalFilter(f)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	bundle, err := e.searchSvc.Search(ctx, df)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	return fromBundle(bundle), nil
}

// History returns recorded searches, most recent first. limit <= 0 returns
// all entries.
func (e *Engine) History(ctx context.Context, limit int) ([]HistoryEntry, error) {
	entries, err := e.historySvc.List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("history: %w", err)
	}

	out := make([]HistoryEntry, len(entries))
	for i, en := range entries {
		out[i] = fromHistoryEntry(en)
	}
	return out, nil
}

// ClearHistory removes all recorded searches.
func (e *Engine) ClearHistory(ctx context.Context) error {
	if err := e.historySvc.Clear(ctx); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}
	return nil
}

// ExportHistory writes the recorded searches as CSV, oldest first.
func (e *Engine) ExportHistory(ctx context.Context, w io.Writer) error {
	if err := e.historySvc.ExportCSV(ctx, w); err != nil {
		return fmt.Errorf("export history: %w", err)
	}
	return nil
}

// Close releases engine resources.
func (e *Engine) Close() {
	if e.redis != nil {
		e.redis.Close()
	}
}

func (e *Engine) toInternalFilter(f Filter) (filter.Filter, error) {
	maxRecords := f.MaxRecords
	if maxRecords == 0 {
		maxRecords = e.maxRecords
	}
	return filter.New(f.Keyword, f.Speaker, f.Meeting, f.House, f.From, f.Until, maxRecords)
}
