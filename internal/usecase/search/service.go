package search

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kailas-cloud/gijidex/internal/domain"
	domhist "github.com/kailas-cloud/gijidex/internal/domain/history"
	"github.com/kailas-cloud/gijidex/internal/domain/search/filter"
	"github.com/kailas-cloud/gijidex/internal/domain/search/speech"
	"github.com/kailas-cloud/gijidex/internal/domain/stats"
	"github.com/kailas-cloud/gijidex/internal/metrics"
)

// DefaultTopKeywords bounds keyword rankings when no limit is configured.
const DefaultTopKeywords = 50

// Bundle is the immutable outcome of one search pipeline run. The caller
// owns it; the service keeps no reference after returning.
type Bundle struct {
	SearchID       string
	Records        []speech.Record
	Stats          stats.Statistics
	Keywords       []stats.KeywordCount
	Meetings       []stats.MeetingProfile
	Skipped        int
	TotalAvailable int
}

// Service runs the search pipeline: fetch, normalize, aggregate, record.
type Service struct {
	fetch       Fetcher
	norm        Normalizer
	analyze     Analyzer
	record      Recorder
	topKeywords int
	logger      *zap.Logger
}

// New creates a search service. topKeywords <= 0 applies
// DefaultTopKeywords; logger may be nil.
func New(
	fetch Fetcher, norm Normalizer, analyze Analyzer, record Recorder,
	topKeywords int, logger *zap.Logger,
) *Service {
	if topKeywords <= 0 {
		topKeywords = DefaultTopKeywords
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		fetch:       fetch,
		norm:        norm,
		analyze:     analyze,
		record:      record,
		topKeywords: topKeywords,
		logger:      logger,
	}
}

// Search runs one pipeline pass for the given filter. A fetch failure or
// a result set where every item is malformed aborts with a SearchError;
// a history write failure is logged and counted but does not fail the
// search.
func (s *Service) Search(ctx context.Context, f filter.Filter) (*Bundle, error) {
	searchID := uuid.NewString()
	log := s.logger.With(zap.String("search_id", searchID))
	start := time.Now()

	bundle, err := s.run(ctx, log, searchID, f)
	duration := time.Since(start)
	if err != nil {
		metrics.SearchesTotal.WithLabelValues("error").Inc()
		log.Error("Search pipeline failed", zap.Duration("duration", duration), zap.Error(err))
		return nil, err
	}

	metrics.SearchesTotal.WithLabelValues("success").Inc()
	metrics.SearchDuration.Observe(duration.Seconds())
	log.Info("Search pipeline completed",
		zap.Int("records", len(bundle.Records)),
		zap.Int("skipped", bundle.Skipped),
		zap.Int("total_available", bundle.TotalAvailable),
		zap.Duration("duration", duration),
	)
	return bundle, nil
}

func (s *Service) run(
	ctx context.Context, log *zap.Logger, searchID string, f filter.Filter,
) (*Bundle, error) {
	raws, total, err := s.fetch.Search(ctx, f)
	if err != nil {
		return nil, domain.NewSearchError(domain.StageFetch, err)
	}

	records := make([]speech.Record, 0, len(raws))
	skipped := 0
	for _, raw := range raws {
		rec, err := s.norm.Record(raw)
		if err != nil {
			skipped++
			metrics.SkippedRecordsTotal.Inc()
			log.Debug("Dropped malformed record", zap.Error(err))
			continue
		}
		records = append(records, rec)
	}
	if len(raws) > 0 && len(records) == 0 {
		return nil, domain.NewSearchError(domain.StageNormalize,
			fmt.Errorf("all %d fetched items were malformed", len(raws)))
	}

	st := s.analyze.Aggregate(records)
	keywords := s.analyze.Keywords(records, s.topKeywords)
	meetings := s.analyze.MeetingProfiles(records, s.topKeywords)

	s.recordHistory(ctx, log, f, total)

	return &Bundle{
		SearchID:       searchID,
		Records:        records,
		Stats:          st,
		Keywords:       keywords,
		Meetings:       meetings,
		Skipped:        skipped,
		TotalAvailable: total,
	}, nil
}

func (s *Service) recordHistory(ctx context.Context, log *zap.Logger, f filter.Filter, total int) {
	e, err := domhist.New(time.Now(), f, total)
	if err == nil {
		err = s.record.Record(ctx, e)
	}
	if err != nil {
		metrics.HistoryWritesTotal.WithLabelValues("error").Inc()
		log.Warn("Failed to record search history", zap.Error(err))
		return
	}
	metrics.HistoryWritesTotal.WithLabelValues("success").Inc()
}
