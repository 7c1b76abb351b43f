package gijidex

import "time"

// House name values accepted by the minutes API.
const (
	HouseRepresentatives = "衆議院"
	HouseCouncillors     = "参議院"
	HouseBoth            = "両院"
)

// Filter selects speech records. An empty filter matches everything up to
// the record cap; zero MaxRecords means the engine default.
type Filter struct {
	Keyword    string
	Speaker    string
	Meeting    string
	House      string
	From       time.Time
	Until      time.Time
	MaxRecords int
}

// Record is one normalized speech.
type Record struct {
	Speaker string
	Group   string
	Meeting string
	House   string
	Session string
	Date    time.Time
	Text    string
	URL     string
}

// Statistics holds aggregate counts over one search's records.
type Statistics struct {
	Total        int
	TotalChars   int
	SpeakerCount int
	MeetingCount int
	AvgSpeechLen float64
	BySpeaker    map[string]int
	ByMeeting    map[string]int
	ByDate       map[string]int // YYYY-MM-DD keys
	ByMonth      map[string]int // YYYY-MM keys
}

// KeywordCount is a token with its occurrence count, most frequent first.
type KeywordCount struct {
	Token string
	Count int
}

// MeetingProfile summarizes one meeting's share of a result set.
type MeetingProfile struct {
	Meeting  string
	Speeches int
	Chars    int
	Speakers []string
	Keywords []KeywordCount
}

// HistoryEntry is one recorded search.
type HistoryEntry struct {
	SearchedAt  time.Time
	Filter      Filter
	ResultCount int
}

// Result is the outcome of one search.
type Result struct {
	SearchID       string
	Records        []Record
	Statistics     Statistics
	Keywords       []KeywordCount
	Meetings       []MeetingProfile
	Skipped        int
	TotalAvailable int
}

// Tokenizer extracts keyword tokens from speech text. Implementations must
// be deterministic: the same text always yields the same tokens.
type Tokenizer interface {
	Tokenize(text string) []string
}
