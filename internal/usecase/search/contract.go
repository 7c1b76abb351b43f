package search

import (
	"context"
	"encoding/json"

	domhist "github.com/kailas-cloud/gijidex/internal/domain/history"
	"github.com/kailas-cloud/gijidex/internal/domain/search/filter"
	"github.com/kailas-cloud/gijidex/internal/domain/search/speech"
	"github.com/kailas-cloud/gijidex/internal/domain/stats"
)

// Fetcher retrieves raw speech items matching a filter, together with
// the total match count the upstream API reports.
type Fetcher interface {
	Search(ctx context.Context, f filter.Filter) ([]json.RawMessage, int, error)
}

// Normalizer converts one raw API item into a domain record.
type Normalizer interface {
	Record(raw json.RawMessage) (speech.Record, error)
}

// Analyzer computes statistics and keyword rankings over a result set.
type Analyzer interface {
	Aggregate(records []speech.Record) stats.Statistics
	Keywords(records []speech.Record, topN int) []stats.KeywordCount
	MeetingProfiles(records []speech.Record, topN int) []stats.MeetingProfile
}

// Recorder persists one history entry per successful search.
type Recorder interface {
	Record(ctx context.Context, e domhist.Entry) error
}
