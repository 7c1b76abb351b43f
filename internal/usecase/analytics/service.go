package analytics

import (
	"sort"

	"github.com/kailas-cloud/gijidex/internal/domain/search/speech"
	"github.com/kailas-cloud/gijidex/internal/domain/stats"
)

// Service computes aggregate statistics and keyword rankings over
// normalized speech records.
type Service struct {
	tok Tokenizer
}

// New creates an analytics service.
func New(tok Tokenizer) *Service {
	return &Service{tok: tok}
}

// Aggregate computes per-speaker, per-meeting, per-day, and per-month
// counts over the record set. Every record is counted exactly once in
// each grouping, so each grouping sums to len(records).
func (s *Service) Aggregate(records []speech.Record) stats.Statistics {
	bySpeaker := make(map[string]int)
	byMeeting := make(map[string]int)
	byDate := make(map[string]int)
	byMonth := make(map[string]int)
	totalChars := 0

	for _, rec := range records {
		bySpeaker[rec.Speaker()]++
		byMeeting[rec.Meeting()]++
		byDate[rec.DateKey()]++
		byMonth[rec.MonthKey()]++
		totalChars += rec.TextLen()
	}

	return stats.New(bySpeaker, byMeeting, byDate, byMonth, len(records), totalChars)
}

// Keywords returns the topN most frequent content words across all speech
// texts, most frequent first. Ties break by first occurrence across the
// record set, so a ranking with a larger topN extends a smaller one
// without reordering the shared prefix. topN <= 0 returns the full ranking.
func (s *Service) Keywords(records []speech.Record, topN int) []stats.KeywordCount {
	counts := make(map[string]int)
	firstSeen := make(map[string]int)
	pos := 0

	for _, rec := range records {
		for _, tok := range s.tok.Tokenize(rec.Text()) {
			if _, ok := counts[tok]; !ok {
				firstSeen[tok] = pos
			}
			counts[tok]++
			pos++
		}
	}

	ranked := make([]stats.KeywordCount, 0, len(counts))
	for tok, n := range counts {
		ranked = append(ranked, stats.NewKeywordCount(tok, n))
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count() != ranked[j].Count() {
			return ranked[i].Count() > ranked[j].Count()
		}
		return firstSeen[ranked[i].Token()] < firstSeen[ranked[j].Token()]
	})

	if topN > 0 && len(ranked) > topN {
		ranked = ranked[:topN]
	}
	return ranked
}

// MeetingProfiles summarizes each meeting in the record set: its top
// keywords, distinct speakers, speech count, and total character volume.
// Meetings and speakers appear in order of first appearance.
func (s *Service) MeetingProfiles(records []speech.Record, topN int) []stats.MeetingProfile {
	type group struct {
		records  []speech.Record
		speakers []string
		seen     map[string]struct{}
		chars    int
	}

	var order []string
	groups := make(map[string]*group)

	for _, rec := range records {
		g, ok := groups[rec.Meeting()]
		if !ok {
			g = &group{seen: make(map[string]struct{})}
			groups[rec.Meeting()] = g
			order = append(order, rec.Meeting())
		}
		g.records = append(g.records, rec)
		if _, dup := g.seen[rec.Speaker()]; !dup {
			g.seen[rec.Speaker()] = struct{}{}
			g.speakers = append(g.speakers, rec.Speaker())
		}
		g.chars += rec.TextLen()
	}

	profiles := make([]stats.MeetingProfile, 0, len(order))
	for _, name := range order {
		g := groups[name]
		profiles = append(profiles, stats.NewMeetingProfile(
			name, s.Keywords(g.records, topN), g.speakers, len(g.records), g.chars,
		))
	}
	return profiles
}
