package httpapi

import (
	"fmt"
	"time"

	"github.com/kailas-cloud/gijidex/internal/domain"
	domhist "github.com/kailas-cloud/gijidex/internal/domain/history"
	"github.com/kailas-cloud/gijidex/internal/domain/search/filter"
	"github.com/kailas-cloud/gijidex/internal/domain/search/speech"
	"github.com/kailas-cloud/gijidex/internal/domain/stats"
	searchuc "github.com/kailas-cloud/gijidex/internal/usecase/search"
)

const dateLayout = "2006-01-02"

// errorCode is a machine-readable error category in error responses.
type errorCode string

const (
	codeBadRequest       errorCode = "bad_request"
	codeInvalidFilter    errorCode = "invalid_filter"
	codeRemoteError      errorCode = "remote_error"
	codeTransportError   errorCode = "upstream_unreachable"
	codePersistenceError errorCode = "persistence_error"
	codeInternalError    errorCode = "internal_error"
)

type errorResponse struct {
	Code    errorCode `json:"code"`
	Message string    `json:"message"`
}

type searchRequest struct {
	Keyword    string `json:"keyword,omitempty"`
	Speaker    string `json:"speaker,omitempty"`
	Meeting    string `json:"meeting,omitempty"`
	House      string `json:"house,omitempty"`
	From       string `json:"from,omitempty"`
	Until      string `json:"until,omitempty"`
	MaxRecords int    `json:"max_records,omitempty"`
}

type searchResponse struct {
	SearchID       string           `json:"search_id"`
	TotalAvailable int              `json:"total_available"`
	Returned       int              `json:"returned"`
	Skipped        int              `json:"skipped"`
	Records        []speechRecord   `json:"records"`
	Statistics     statistics       `json:"statistics"`
	Keywords       []keywordCount   `json:"keywords"`
	Meetings       []meetingProfile `json:"meetings"`
}

type speechRecord struct {
	Speaker string `json:"speaker"`
	Group   string `json:"group,omitempty"`
	Meeting string `json:"meeting,omitempty"`
	House   string `json:"house,omitempty"`
	Session string `json:"session,omitempty"`
	Date    string `json:"date"`
	Text    string `json:"text"`
	URL     string `json:"url,omitempty"`
}

type statistics struct {
	Total        int            `json:"total"`
	TotalChars   int            `json:"total_chars"`
	SpeakerCount int            `json:"speaker_count"`
	MeetingCount int            `json:"meeting_count"`
	AvgSpeechLen float64        `json:"avg_speech_len"`
	BySpeaker    map[string]int `json:"by_speaker"`
	ByMeeting    map[string]int `json:"by_meeting"`
	ByDate       map[string]int `json:"by_date"`
	ByMonth      map[string]int `json:"by_month"`
}

type keywordCount struct {
	Token string `json:"token"`
	Count int    `json:"count"`
}

type meetingProfile struct {
	Meeting  string         `json:"meeting"`
	Speeches int            `json:"speeches"`
	Chars    int            `json:"chars"`
	Speakers []string       `json:"speakers"`
	Keywords []keywordCount `json:"keywords"`
}

type historyEntry struct {
	SearchedAt  time.Time `json:"searched_at"`
	Keyword     string    `json:"keyword,omitempty"`
	Speaker     string    `json:"speaker,omitempty"`
	Meeting     string    `json:"meeting,omitempty"`
	House       string    `json:"house,omitempty"`
	DateFrom    string    `json:"date_from,omitempty"`
	DateUntil   string    `json:"date_until,omitempty"`
	ResultCount int       `json:"result_count"`
}

type historyListResponse struct {
	Items []historyEntry `json:"items"`
	Count int            `json:"count"`
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// filterFromRequest builds a validated filter. A missing max_records falls
// back to defaultMax.
func filterFromRequest(req searchRequest, defaultMax int) (filter.Filter, error) {
	from, err := parseDate(req.From, "from")
	if err != nil {
		return filter.Filter{}, err
	}
	until, err := parseDate(req.Until, "until")
	if err != nil {
		return filter.Filter{}, err
	}

	maxRecords := req.MaxRecords
	if maxRecords == 0 {
		maxRecords = defaultMax
	}

	f, err := filter.New(req.Keyword, req.Speaker, req.Meeting, req.House, from, until, maxRecords)
	if err != nil {
		return filter.Filter{}, fmt.Errorf("build filter: %w", err)
	}
	return f, nil
}

func parseDate(s, name string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s must be YYYY-MM-DD, got %q",
			domain.ErrInvalidFilter, name, s)
	}
	return t, nil
}

func bundleToResponse(b *searchuc.Bundle) searchResponse {
	records := make([]speechRecord, len(b.Records))
	for i, r := range b.Records {
		records[i] = recordToDTO(r)
	}

	keywords := make([]keywordCount, len(b.Keywords))
	for i, k := range b.Keywords {
		keywords[i] = keywordCount{Token: k.Token(), Count: k.Count()}
	}

	meetings := make([]meetingProfile, len(b.Meetings))
	for i, m := range b.Meetings {
		meetings[i] = meetingToDTO(m)
	}

	return searchResponse{
		SearchID:       b.SearchID,
		TotalAvailable: b.TotalAvailable,
		Returned:       len(b.Records),
		Skipped:        b.Skipped,
		Records:        records,
		Statistics:     statsToDTO(b.Stats),
		Keywords:       keywords,
		Meetings:       meetings,
	}
}

func recordToDTO(r speech.Record) speechRecord {
	return speechRecord{
		Speaker: r.Speaker(),
		Group:   r.Group(),
		Meeting: r.Meeting(),
		House:   r.House(),
		Session: r.Session(),
		Date:    r.DateKey(),
		Text:    r.Text(),
		URL:     r.URL(),
	}
}

func statsToDTO(s stats.Statistics) statistics {
	return statistics{
		Total:        s.Total(),
		TotalChars:   s.TotalChars(),
		SpeakerCount: s.SpeakerCount(),
		MeetingCount: s.MeetingCount(),
		AvgSpeechLen: s.AvgSpeechLen(),
		BySpeaker:    s.BySpeaker(),
		ByMeeting:    s.ByMeeting(),
		ByDate:       s.ByDate(),
		ByMonth:      s.ByMonth(),
	}
}

func meetingToDTO(p stats.MeetingProfile) meetingProfile {
	keywords := make([]keywordCount, len(p.Keywords()))
	for i, k := range p.Keywords() {
		keywords[i] = keywordCount{Token: k.Token(), Count: k.Count()}
	}
	return meetingProfile{
		Meeting:  p.Meeting(),
		Speeches: p.Speeches(),
		Chars:    p.Chars(),
		Speakers: p.Speakers(),
		Keywords: keywords,
	}
}

func entryToDTO(e domhist.Entry) historyEntry {
	f := e.Filter()
	dto := historyEntry{
		SearchedAt:  e.Timestamp(),
		Keyword:     f.Keyword(),
		Speaker:     f.Speaker(),
		Meeting:     f.Meeting(),
		House:       f.House(),
		ResultCount: e.ResultCount(),
	}
	if !f.From().IsZero() {
		dto.DateFrom = f.From().Format(dateLayout)
	}
	if !f.Until().IsZero() {
		dto.DateUntil = f.Until().Format(dateLayout)
	}
	return dto
}
