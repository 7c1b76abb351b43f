package gijidex

import (
	domhist "github.com/kailas-cloud/gijidex/internal/domain/history"
	"github.com/kailas-cloud/gijidex/internal/domain/search/speech"
	"github.com/kailas-cloud/gijidex/internal/domain/stats"
	searchuc "github.com/kailas-cloud/gijidex/internal/usecase/search"
)

func fromBundle(b *searchuc.Bundle) *Result {
	records := make([]Record, len(b.Records))
	for i, r := range b.Records {
		records[i] = fromRecord(r)
	}

	meetings := make([]MeetingProfile, len(b.Meetings))
	for i, m := range b.Meetings {
		meetings[i] = fromMeetingProfile(m)
	}

	return &Result{
		SearchID:       b.SearchID,
		Records:        records,
		Statistics:     fromStatistics(b.Stats),
		Keywords:       fromKeywords(b.Keywords),
		Meetings:       meetings,
		Skipped:        b.Skipped,
		TotalAvailable: b.TotalAvailable,
	}
}

func fromRecord(r speech.Record) Record {
	return Record{
		Speaker: r.Speaker(),
		Group:   r.Group(),
		Meeting: r.Meeting(),
		House:   r.House(),
		Session: r.Session(),
		Date:    r.Date(),
		Text:    r.Text(),
		URL:     r.URL(),
	}
}

func fromStatistics(s stats.Statistics) Statistics {
	return Statistics{
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

func fromKeywords(ks []stats.KeywordCount) []KeywordCount {
	out := make([]KeywordCount, len(ks))
	for i, k := range ks {
		out[i] = KeywordCount{Token: k.Token(), Count: k.Count()}
	}
	return out
}

func fromMeetingProfile(p stats.MeetingProfile) MeetingProfile {
	return MeetingProfile{
		Meeting:  p.Meeting(),
		Speeches: p.Speeches(),
		Chars:    p.Chars(),
		Speakers: p.Speakers(),
		Keywords: fromKeywords(p.Keywords()),
	}
}

func fromHistoryEntry(e domhist.Entry) HistoryEntry {
	f := e.Filter()
	return HistoryEntry{
		SearchedAt: e.Timestamp(),
		Filter: Filter{
			Keyword:    f.Keyword(),
			Speaker:    f.Speaker(),
			Meeting:    f.Meeting(),
			House:      f.House(),
			From:       f.From(),
			Until:      f.Until(),
			MaxRecords: f.MaxRecords(),
		},
		ResultCount: e.ResultCount(),
	}
}
