package domain

import "time"

// SearchConfig holds internal search pipeline settings, not exposed to clients.
type SearchConfig struct {
	BaseURL        string
	Timeout        time.Duration
	PageSize       int
	Retries        int
	Concurrency    int
	MaxRecords     int
	TopKeywords    int
	MinTokenLength int
	HistoryEntries int
}

// DefaultSearchConfig returns the default configuration tuned for the
// National Diet minutes API.
func DefaultSearchConfig() SearchConfig {
	return SearchConfig{
		BaseURL:        "https://kokkai.ndl.go.jp/api/speech",
		Timeout:        30 * time.Second,
		PageSize:       100,
		Retries:        2,
		Concurrency:    1,
		MaxRecords:     30,
		TopKeywords:    50,
		MinTokenLength: 2,
		HistoryEntries: 500,
	}
}
