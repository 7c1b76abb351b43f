package history

import (
	"fmt"
	"time"

	"github.com/kailas-cloud/gijidex/internal/domain/search/filter"
)

// Entry is one recorded search: when it ran, with which filter, and how
// many records the upstream API reported in total.
type Entry struct {
	timestamp   time.Time
	filter      filter.Filter
	resultCount int
}

// New creates a history entry.
func New(timestamp time.Time, f filter.Filter, resultCount int) (Entry, error) {
	if timestamp.IsZero() {
		return Entry{}, fmt.Errorf("timestamp is required")
	}
	if resultCount < 0 {
		return Entry{}, fmt.Errorf("resultCount must be non-negative, got %d", resultCount)
	}
	return Entry{timestamp: timestamp, filter: f, resultCount: resultCount}, nil
}

// Reconstruct rebuilds an entry from stored data, bypassing validation.
func Reconstruct(timestamp time.Time, f filter.Filter, resultCount int) Entry {
	return Entry{timestamp: timestamp, filter: f, resultCount: resultCount}
}

// Timestamp returns when the search ran.
func (e Entry) Timestamp() time.Time { return e.timestamp }

// Filter returns the search criteria.
func (e Entry) Filter() filter.Filter { return e.filter }

// ResultCount returns the total match count the API reported.
func (e Entry) ResultCount() int { return e.resultCount }
