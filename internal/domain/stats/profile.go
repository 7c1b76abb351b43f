package stats

// MeetingProfile summarizes one meeting's share of a search result set.
type MeetingProfile struct {
	meeting  string
	keywords []KeywordCount
	speakers []string
	speeches int
	chars    int
}

// NewMeetingProfile creates a meeting profile.
func NewMeetingProfile(
	meeting string, keywords []KeywordCount, speakers []string,
	speeches, chars int,
) MeetingProfile {
	return MeetingProfile{
		meeting:  meeting,
		keywords: keywords,
		speakers: speakers,
		speeches: speeches,
		chars:    chars,
	}
}

// Meeting returns the meeting name.
func (p MeetingProfile) Meeting() string { return p.meeting }

// Keywords returns the meeting's top keywords.
func (p MeetingProfile) Keywords() []KeywordCount { return p.keywords }

// Speakers returns distinct speakers in order of first appearance.
func (p MeetingProfile) Speakers() []string { return p.speakers }

// Speeches returns the number of speeches held in the meeting.
func (p MeetingProfile) Speeches() int { return p.speeches }

// Chars returns the combined speech length in runes.
func (p MeetingProfile) Chars() int { return p.chars }
