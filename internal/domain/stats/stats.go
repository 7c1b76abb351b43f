package stats

import "sort"

// Statistics holds aggregate counts derived from one search's result set.
type Statistics struct {
	bySpeaker  map[string]int
	byMeeting  map[string]int
	byDate     map[string]int
	byMonth    map[string]int
	total      int
	totalChars int
}

// New creates a Statistics snapshot. Date keys are YYYY-MM-DD, month keys
// YYYY-MM.
func New(bySpeaker, byMeeting, byDate, byMonth map[string]int, total, totalChars int) Statistics {
	return Statistics{
		bySpeaker:  bySpeaker,
		byMeeting:  byMeeting,
		byDate:     byDate,
		byMonth:    byMonth,
		total:      total,
		totalChars: totalChars,
	}
}

// BySpeaker returns speech counts per speaker.
func (s Statistics) BySpeaker() map[string]int { return s.bySpeaker }

// ByMeeting returns speech counts per meeting name.
func (s Statistics) ByMeeting() map[string]int { return s.byMeeting }

// ByDate returns speech counts per meeting date.
func (s Statistics) ByDate() map[string]int { return s.byDate }

// ByMonth returns speech counts per meeting month.
func (s Statistics) ByMonth() map[string]int { return s.byMonth }

// Total returns the number of aggregated records.
func (s Statistics) Total() int { return s.total }

// TotalChars returns the combined speech length in runes.
func (s Statistics) TotalChars() int { return s.totalChars }

// SpeakerCount returns the number of distinct speakers.
func (s Statistics) SpeakerCount() int { return len(s.bySpeaker) }

// MeetingCount returns the number of distinct meetings.
func (s Statistics) MeetingCount() int { return len(s.byMeeting) }

// AvgSpeechLen returns the mean speech length in runes, 0 for an empty set.
func (s Statistics) AvgSpeechLen() float64 {
	if s.total == 0 {
		return 0
	}
	return float64(s.totalChars) / float64(s.total)
}

// TopSpeakers returns up to n speakers ordered by speech count descending,
// name ascending on ties. n <= 0 returns all.
func (s Statistics) TopSpeakers(n int) []GroupCount {
	return topCounts(s.bySpeaker, n)
}

// TopMeetings returns up to n meetings ordered by speech count descending,
// name ascending on ties. n <= 0 returns all.
func (s Statistics) TopMeetings(n int) []GroupCount {
	return topCounts(s.byMeeting, n)
}

// Timeline returns per-month counts in chronological order.
func (s Statistics) Timeline() []GroupCount {
	out := make([]GroupCount, 0, len(s.byMonth))
	for k, v := range s.byMonth {
		out = append(out, GroupCount{key: k, count: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].key < out[j].key })
	return out
}

// GroupCount is a named count within a statistics grouping.
type GroupCount struct {
	key   string
	count int
}

// NewGroupCount creates a named count.
func NewGroupCount(key string, count int) GroupCount {
	return GroupCount{key: key, count: count}
}

// Key returns the group name.
func (g GroupCount) Key() string { return g.key }

// Count returns the group's speech count.
func (g GroupCount) Count() int { return g.count }

func topCounts(m map[string]int, n int) []GroupCount {
	out := make([]GroupCount, 0, len(m))
	for k, v := range m {
		out = append(out, GroupCount{key: k, count: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].count != out[j].count {
			return out[i].count > out[j].count
		}
		return out[i].key < out[j].key
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}
