package filter

import (
	"fmt"
	"strings"
	"time"

	"github.com/kailas-cloud/gijidex/internal/domain"
)

// House name values accepted by the National Diet minutes API.
const (
	HouseRepresentatives = "衆議院"
	HouseCouncillors     = "参議院"
	HouseBoth            = "両院"
)

// Filter is a validated set of speech search criteria.
type Filter struct {
	keyword    string
	speaker    string
	meeting    string
	house      string
	from       time.Time
	until      time.Time
	maxRecords int
}

// New creates a filter, validating date ordering, house name and the
// record cap. An empty filter is legal and matches all records.
func New(
	keyword, speaker, meeting, house string,
	from, until time.Time, maxRecords int,
) (Filter, error) {
	f := Filter{
		keyword:    strings.TrimSpace(keyword),
		speaker:    strings.TrimSpace(speaker),
		meeting:    strings.TrimSpace(meeting),
		house:      strings.TrimSpace(house),
		from:       from,
		until:      until,
		maxRecords: maxRecords,
	}

	if maxRecords <= 0 {
		return Filter{}, fmt.Errorf("%w: maxRecords must be positive, got %d", domain.ErrInvalidFilter, maxRecords)
	}
	if !f.from.IsZero() && !f.until.IsZero() && f.from.After(f.until) {
		return Filter{}, fmt.Errorf("%w: from %s is after until %s",
			domain.ErrInvalidFilter, f.from.Format("2006-01-02"), f.until.Format("2006-01-02"))
	}
	if !validHouse(f.house) {
		return Filter{}, fmt.Errorf("%w: unknown house %q", domain.ErrInvalidFilter, f.house)
	}

	return f, nil
}

// Reconstruct rebuilds a filter from stored data, bypassing validation.
func Reconstruct(
	keyword, speaker, meeting, house string,
	from, until time.Time, maxRecords int,
) Filter {
	return Filter{
		keyword:    keyword,
		speaker:    speaker,
		meeting:    meeting,
		house:      house,
		from:       from,
		until:      until,
		maxRecords: maxRecords,
	}
}

func validHouse(house string) bool {
	switch house {
	case "", HouseRepresentatives, HouseCouncillors, HouseBoth:
		return true
	}
	return false
}

// Keyword returns the full-text search term.
func (f Filter) Keyword() string { return f.keyword }

// Speaker returns the speaker name criterion.
func (f Filter) Speaker() string { return f.speaker }

// Meeting returns the meeting name criterion.
func (f Filter) Meeting() string { return f.meeting }

// House returns the house name criterion.
func (f Filter) House() string { return f.house }

// From returns the inclusive lower date bound, zero when unset.
func (f Filter) From() time.Time { return f.from }

// Until returns the inclusive upper date bound, zero when unset.
func (f Filter) Until() time.Time { return f.until }

// MaxRecords returns the cap on fetched records.
func (f Filter) MaxRecords() int { return f.maxRecords }

// IsEmpty reports whether no search criterion is set.
func (f Filter) IsEmpty() bool {
	return f.keyword == "" && f.speaker == "" && f.meeting == "" &&
		f.house == "" && f.from.IsZero() && f.until.IsZero()
}

// Equal reports structural identity of two filters.
func (f Filter) Equal(other Filter) bool {
	return f.keyword == other.keyword &&
		f.speaker == other.speaker &&
		f.meeting == other.meeting &&
		f.house == other.house &&
		f.from.Equal(other.from) &&
		f.until.Equal(other.until) &&
		f.maxRecords == other.maxRecords
}
