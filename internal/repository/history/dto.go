package history

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	domhist "github.com/kailas-cloud/gijidex/internal/domain/history"
	"github.com/kailas-cloud/gijidex/internal/domain/search/filter"
)

const (
	timeLayout = "2006-01-02 15:04:05"
	dateLayout = "2006-01-02"
)

// csvHeader fixes the stored column order. entryToRow and entryFromRow
// must stay in sync with it.
var csvHeader = []string{
	"timestamp", "keyword", "date_from", "date_until",
	"speaker", "meeting", "house", "result_count",
}

// entryRow is the serializable form of a history entry, shared by the
// CSV and Redis backends.
type entryRow struct {
	Timestamp   string `json:"timestamp"`
	Keyword     string `json:"keyword,omitempty"`
	DateFrom    string `json:"date_from,omitempty"`
	DateUntil   string `json:"date_until,omitempty"`
	Speaker     string `json:"speaker,omitempty"`
	Meeting     string `json:"meeting,omitempty"`
	House       string `json:"house,omitempty"`
	ResultCount int    `json:"result_count"`
}

func rowOf(e domhist.Entry) entryRow {
	f := e.Filter()
	return entryRow{
		Timestamp:   e.Timestamp().Format(timeLayout),
		Keyword:     f.Keyword(),
		DateFrom:    formatDate(f.From()),
		DateUntil:   formatDate(f.Until()),
		Speaker:     f.Speaker(),
		Meeting:     f.Meeting(),
		House:       f.House(),
		ResultCount: e.ResultCount(),
	}
}

// rowToEntry hydrates an entry from its stored form. The record cap is
// not persisted, so reloaded filters carry a zero maxRecords.
func rowToEntry(r entryRow) (domhist.Entry, error) {
	ts, err := time.Parse(timeLayout, r.Timestamp)
	if err != nil {
		return domhist.Entry{}, fmt.Errorf("invalid timestamp %q: %w", r.Timestamp, err)
	}
	from, err := parseDate(r.DateFrom)
	if err != nil {
		return domhist.Entry{}, fmt.Errorf("invalid date_from: %w", err)
	}
	until, err := parseDate(r.DateUntil)
	if err != nil {
		return domhist.Entry{}, fmt.Errorf("invalid date_until: %w", err)
	}
	if r.ResultCount < 0 {
		return domhist.Entry{}, fmt.Errorf("negative result_count %d", r.ResultCount)
	}

	f := filter.Reconstruct(r.Keyword, r.Speaker, r.Meeting, r.House, from, until, 0)
	return domhist.Reconstruct(ts, f, r.ResultCount), nil
}

// entryToRow flattens an entry into the csvHeader column order.
func entryToRow(e domhist.Entry) []string {
	r := rowOf(e)
	return []string{
		r.Timestamp, r.Keyword, r.DateFrom, r.DateUntil,
		r.Speaker, r.Meeting, r.House, strconv.Itoa(r.ResultCount),
	}
}

// entryFromRow parses a CSV row. Extra trailing columns are ignored.
func entryFromRow(cols []string) (domhist.Entry, error) {
	if len(cols) < len(csvHeader) {
		return domhist.Entry{}, fmt.Errorf("want %d columns, got %d", len(csvHeader), len(cols))
	}
	count, err := strconv.Atoi(strings.TrimSpace(cols[7]))
	if err != nil {
		return domhist.Entry{}, fmt.Errorf("invalid result_count %q: %w", cols[7], err)
	}
	return rowToEntry(entryRow{
		Timestamp:   cols[0],
		Keyword:     cols[1],
		DateFrom:    cols[2],
		DateUntil:   cols[3],
		Speaker:     cols[4],
		Meeting:     cols[5],
		House:       cols[6],
		ResultCount: count,
	})
}

func entryToJSON(e domhist.Entry) ([]byte, error) {
	return json.Marshal(rowOf(e))
}

func entryFromJSON(data []byte) (domhist.Entry, error) {
	var r entryRow
	if err := json.Unmarshal(data, &r); err != nil {
		return domhist.Entry{}, fmt.Errorf("decode entry: %w", err)
	}
	return rowToEntry(r)
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}
