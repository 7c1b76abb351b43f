package cli

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/kailas-cloud/gijidex"
)

const speechPreviewRunes = 48

func displaySpeeches(records []gijidex.Record) {
	fmt.Println("=== Speeches ===")
	table := tablewriter.NewWriter(os.Stdout)
	table.Header("DATE", "SPEAKER", "MEETING", "SPEECH")
	for _, r := range records {
		table.Append(
			r.Date.Format("2006-01-02"),
			r.Speaker,
			r.Meeting,
			truncate(oneLine(r.Text), speechPreviewRunes),
		)
	}
	table.Render()
	fmt.Println()
}

func displayStatistics(s gijidex.Statistics, top int) {
	fmt.Println("=== Statistics ===")
	table := tablewriter.NewWriter(os.Stdout)
	table.Header("METRIC", "VALUE")
	table.Append("Speeches analyzed", strconv.Itoa(s.Total))
	table.Append("Total characters", strconv.Itoa(s.TotalChars))
	table.Append("Unique speakers", strconv.Itoa(s.SpeakerCount))
	table.Append("Unique meetings", strconv.Itoa(s.MeetingCount))
	table.Append("Average speech length", fmt.Sprintf("%.1f chars", s.AvgSpeechLen))
	table.Render()
	fmt.Println()

	if len(s.BySpeaker) > 0 {
		fmt.Println("=== Speakers ===")
		speakerTable := tablewriter.NewWriter(os.Stdout)
		speakerTable.Header("SPEAKER", "SPEECHES")
		for _, c := range sortedCounts(s.BySpeaker, top) {
			speakerTable.Append(c.name, strconv.Itoa(c.count))
		}
		speakerTable.Render()
		fmt.Println()
	}
}

func displayKeywords(keywords []gijidex.KeywordCount, top int) {
	if len(keywords) == 0 {
		return
	}
	if top > 0 && len(keywords) > top {
		keywords = keywords[:top]
	}

	fmt.Println("=== Keywords ===")
	table := tablewriter.NewWriter(os.Stdout)
	table.Header("RANK", "TOKEN", "COUNT")
	for i, k := range keywords {
		table.Append(strconv.Itoa(i+1), k.Token, strconv.Itoa(k.Count))
	}
	table.Render()
	fmt.Println()
}

func displayMeetings(meetings []gijidex.MeetingProfile) {
	if len(meetings) == 0 {
		return
	}

	fmt.Println("=== Meetings ===")
	table := tablewriter.NewWriter(os.Stdout)
	table.Header("MEETING", "SPEECHES", "CHARS", "TOP KEYWORDS")
	for _, m := range meetings {
		table.Append(
			m.Meeting,
			strconv.Itoa(m.Speeches),
			strconv.Itoa(m.Chars),
			keywordSummary(m.Keywords, 5),
		)
	}
	table.Render()
	fmt.Println()
}

type namedCount struct {
	name  string
	count int
}

// sortedCounts orders a counting map by count descending, names ascending
// on ties, capped at top entries.
func sortedCounts(counts map[string]int, top int) []namedCount {
	out := make([]namedCount, 0, len(counts))
	for name, count := range counts {
		out = append(out, namedCount{name: name, count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].count != out[j].count {
			return out[i].count > out[j].count
		}
		return out[i].name < out[j].name
	})
	if top > 0 && len(out) > top {
		out = out[:top]
	}
	return out
}

func keywordSummary(keywords []gijidex.KeywordCount, limit int) string {
	if len(keywords) > limit {
		keywords = keywords[:limit]
	}
	tokens := make([]string, len(keywords))
	for i, k := range keywords {
		tokens[i] = k.Token
	}
	return strings.Join(tokens, ", ")
}

// filterSummary renders a history entry's criteria on one line.
func filterSummary(f gijidex.Filter) string {
	var parts []string
	if f.Keyword != "" {
		parts = append(parts, "keyword="+f.Keyword)
	}
	if f.Speaker != "" {
		parts = append(parts, "speaker="+f.Speaker)
	}
	if f.Meeting != "" {
		parts = append(parts, "meeting="+f.Meeting)
	}
	if f.House != "" {
		parts = append(parts, "house="+f.House)
	}
	if !f.From.IsZero() || !f.Until.IsZero() {
		parts = append(parts, "dates="+formatDay(f.From)+".."+formatDay(f.Until))
	}
	if len(parts) == 0 {
		return "(all records)"
	}
	return strings.Join(parts, " ")
}

func formatDay(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
