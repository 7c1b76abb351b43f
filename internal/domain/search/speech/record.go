package speech

import (
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/kailas-cloud/gijidex/internal/domain"
)

// Record is a single normalized speech from the Diet minutes API.
type Record struct {
	speaker string
	group   string
	meeting string
	house   string
	session string
	date    time.Time
	text    string
	url     string
}

// New creates a speech record. Speaker and date are mandatory, all other
// fields may be empty.
func New(
	speaker, group, meeting, house, session string,
	date time.Time, text, url string,
) (Record, error) {
	if speaker == "" {
		return Record{}, fmt.Errorf("%w: missing speaker", domain.ErrMalformedRecord)
	}
	if date.IsZero() {
		return Record{}, fmt.Errorf("%w: missing date", domain.ErrMalformedRecord)
	}
	return Record{
		speaker: speaker,
		group:   group,
		meeting: meeting,
		house:   house,
		session: session,
		date:    date,
		text:    text,
		url:     url,
	}, nil
}

// Reconstruct rebuilds a record from trusted data, bypassing validation.
func Reconstruct(
	speaker, group, meeting, house, session string,
	date time.Time, text, url string,
) Record {
	return Record{
		speaker: speaker,
		group:   group,
		meeting: meeting,
		house:   house,
		session: session,
		date:    date,
		text:    text,
		url:     url,
	}
}

// Speaker returns the speaker name.
func (r Record) Speaker() string { return r.speaker }

// Group returns the speaker's parliamentary group.
func (r Record) Group() string { return r.group }

// Meeting returns the meeting name.
func (r Record) Meeting() string { return r.meeting }

// House returns the house name.
func (r Record) House() string { return r.house }

// Session returns the Diet session number as reported by the API.
func (r Record) Session() string { return r.session }

// Date returns the meeting date.
func (r Record) Date() time.Time { return r.date }

// Text returns the speech body.
func (r Record) Text() string { return r.text }

// URL returns the permalink to the speech.
func (r Record) URL() string { return r.url }

// TextLen returns the speech body length in runes.
func (r Record) TextLen() int { return utf8.RuneCountInString(r.text) }

// DateKey returns the meeting date formatted as YYYY-MM-DD.
func (r Record) DateKey() string { return r.date.Format("2006-01-02") }

// MonthKey returns the meeting month formatted as YYYY-MM.
func (r Record) MonthKey() string { return r.date.Format("2006-01") }
