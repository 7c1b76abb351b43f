// Package normalize converts raw Diet minutes API items into domain speech
// records.
package normalize

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/kailas-cloud/gijidex/internal/domain"
	"github.com/kailas-cloud/gijidex/internal/domain/search/speech"
)

// Normalizer converts raw API speech items into domain records.
type Normalizer struct{}

// New creates a normalizer.
func New() Normalizer { return Normalizer{} }

// rawRecord mirrors the speechRecord item schema of the minutes API.
// Session arrives as a JSON number; json.Number also tolerates the quoted
// form.
type rawRecord struct {
	Speaker       string      `json:"speaker"`
	SpeakerGroup  string      `json:"speakerGroup"`
	NameOfMeeting string      `json:"nameOfMeeting"`
	NameOfHouse   string      `json:"nameOfHouse"`
	Session       json.Number `json:"session"`
	Date          string      `json:"date"`
	Speech        string      `json:"speech"`
	SpeechURL     string      `json:"speechURL"`
}

// Record converts one raw API item. Items without a speaker or without a
// parseable date are rejected with a MalformedRecordError; all other fields
// default to empty values.
func (Normalizer) Record(raw json.RawMessage) (speech.Record, error) {
	var item rawRecord
	if err := json.Unmarshal(raw, &item); err != nil {
		return speech.Record{}, domain.NewMalformedRecord(fmt.Sprintf("undecodable item: %v", err))
	}

	speaker := strings.TrimSpace(item.Speaker)
	if speaker == "" {
		return speech.Record{}, domain.NewMalformedRecord("missing speaker")
	}

	rawDate := strings.TrimSpace(item.Date)
	if rawDate == "" {
		return speech.Record{}, domain.NewMalformedRecord("missing date")
	}
	date, err := time.Parse("2006-01-02", rawDate)
	if err != nil {
		return speech.Record{}, domain.NewMalformedRecord(fmt.Sprintf("unparseable date %q", item.Date))
	}

	return speech.New(
		speaker,
		item.SpeakerGroup,
		item.NameOfMeeting,
		item.NameOfHouse,
		item.Session.String(),
		date,
		item.Speech,
		item.SpeechURL,
	)
}
