package analytics

import (
	"strings"
	"testing"
	"time"

	"github.com/kailas-cloud/gijidex/internal/domain/search/speech"
)

// --- Mocks ---

// fieldsTokenizer splits on whitespace so token streams are predictable.
type fieldsTokenizer struct{}

func (fieldsTokenizer) Tokenize(text string) []string {
	return strings.Fields(text)
}

type nilTokenizer struct{}

func (nilTokenizer) Tokenize(_ string) []string { return nil }

func rec(t *testing.T, speaker, meeting, date, text string) speech.Record {
	t.Helper()
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		t.Fatalf("parse date %q: %v", date, err)
	}
	return speech.Reconstruct(speaker, "", meeting, "衆議院", "211", day, text, "")
}

// --- Tests ---

func TestAggregate_Counts(t *testing.T) {
	svc := New(fieldsTokenizer{})
	records := []speech.Record{
		rec(t, "岸田文雄", "予算委員会", "2023-02-01", "国会です"),
		rec(t, "岸田文雄", "予算委員会", "2023-02-02", "予算"),
		rec(t, "枝野幸男", "本会議", "2023-03-01", "議論"),
	}

	st := svc.Aggregate(records)

	if st.Total() != 3 {
		t.Errorf("expected total 3, got %d", st.Total())
	}
	if got := st.BySpeaker()["岸田文雄"]; got != 2 {
		t.Errorf("expected 2 speeches for 岸田文雄, got %d", got)
	}
	if got := st.ByMeeting()["本会議"]; got != 1 {
		t.Errorf("expected 1 speech for 本会議, got %d", got)
	}
	if got := st.ByDate()["2023-02-01"]; got != 1 {
		t.Errorf("expected 1 speech on 2023-02-01, got %d", got)
	}
	if got := st.ByMonth()["2023-02"]; got != 2 {
		t.Errorf("expected 2 speeches in 2023-02, got %d", got)
	}
	if st.SpeakerCount() != 2 || st.MeetingCount() != 2 {
		t.Errorf("expected 2 speakers and 2 meetings, got %d and %d",
			st.SpeakerCount(), st.MeetingCount())
	}
	// 4 + 2 + 2 runes.
	if st.TotalChars() != 8 {
		t.Errorf("expected 8 total chars, got %d", st.TotalChars())
	}
}

func TestAggregate_GroupingsSumToTotal(t *testing.T) {
	svc := New(fieldsTokenizer{})
	records := []speech.Record{
		rec(t, "a", "m1", "2023-01-10", "x"),
		rec(t, "b", "m1", "2023-01-10", "y"),
		rec(t, "a", "m2", "2023-01-11", "z"),
		rec(t, "c", "m3", "2023-02-01", "w"),
		rec(t, "a", "m1", "2023-02-02", "v"),
	}

	st := svc.Aggregate(records)

	groupings := map[string]map[string]int{
		"bySpeaker": st.BySpeaker(),
		"byMeeting": st.ByMeeting(),
		"byDate":    st.ByDate(),
		"byMonth":   st.ByMonth(),
	}
	for name, g := range groupings {
		sum := 0
		for _, n := range g {
			sum += n
		}
		if sum != len(records) {
			t.Errorf("%s sums to %d, want %d", name, sum, len(records))
		}
	}
}

func TestAggregate_Empty(t *testing.T) {
	svc := New(fieldsTokenizer{})

	st := svc.Aggregate(nil)

	if st.Total() != 0 {
		t.Errorf("expected total 0, got %d", st.Total())
	}
	if st.AvgSpeechLen() != 0 {
		t.Errorf("expected avg 0 on empty set, got %f", st.AvgSpeechLen())
	}
	if len(st.Timeline()) != 0 {
		t.Errorf("expected empty timeline, got %v", st.Timeline())
	}
}

func TestKeywords_RankedByCount(t *testing.T) {
	svc := New(fieldsTokenizer{})
	records := []speech.Record{
		rec(t, "a", "m", "2023-01-10", "予算 予算 外交"),
		rec(t, "b", "m", "2023-01-10", "予算 防衛 外交"),
	}

	kws := svc.Keywords(records, 0)

	want := []struct {
		token string
		count int
	}{
		{"予算", 3},
		{"外交", 2},
		{"防衛", 1},
	}
	if len(kws) != len(want) {
		t.Fatalf("expected %d keywords, got %d", len(want), len(kws))
	}
	for i, w := range want {
		if kws[i].Token() != w.token || kws[i].Count() != w.count {
			t.Errorf("rank %d: expected %s=%d, got %s=%d",
				i, w.token, w.count, kws[i].Token(), kws[i].Count())
		}
	}
}

func TestKeywords_TiesBreakByFirstOccurrence(t *testing.T) {
	svc := New(fieldsTokenizer{})
	records := []speech.Record{
		rec(t, "a", "m", "2023-01-10", "年金 医療 教育"),
		rec(t, "b", "m", "2023-01-10", "教育 医療 年金"),
	}

	kws := svc.Keywords(records, 0)

	got := make([]string, len(kws))
	for i, kw := range kws {
		got[i] = kw.Token()
	}
	want := []string{"年金", "医療", "教育"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected order %v, got %v", want, got)
		}
	}
}

func TestKeywords_TopNIsPrefixOfLargerN(t *testing.T) {
	svc := New(fieldsTokenizer{})
	records := []speech.Record{
		rec(t, "a", "m", "2023-01-10", "t1 t1 t1 t2 t2 t3 t4 t5"),
		rec(t, "b", "m", "2023-01-10", "t5 t6 t7 t2 t8 t3 t9 t10"),
		rec(t, "c", "m", "2023-01-11", "t10 t1 t11 t12 t6"),
	}

	small := svc.Keywords(records, 4)
	large := svc.Keywords(records, 10)

	if len(small) != 4 {
		t.Fatalf("expected 4 keywords, got %d", len(small))
	}
	if len(large) != 10 {
		t.Fatalf("expected 10 keywords, got %d", len(large))
	}
	for i := range small {
		if small[i] != large[i] {
			t.Errorf("rank %d differs: small=%v large=%v", i, small[i], large[i])
		}
	}
}

func TestKeywords_TopNLargerThanVocabulary(t *testing.T) {
	svc := New(fieldsTokenizer{})
	records := []speech.Record{rec(t, "a", "m", "2023-01-10", "予算 外交")}

	kws := svc.Keywords(records, 50)

	if len(kws) != 2 {
		t.Errorf("expected 2 keywords, got %d", len(kws))
	}
}

func TestKeywords_NoTokens(t *testing.T) {
	svc := New(nilTokenizer{})
	records := []speech.Record{rec(t, "a", "m", "2023-01-10", "本日は晴天なり")}

	kws := svc.Keywords(records, 10)

	if len(kws) != 0 {
		t.Errorf("expected no keywords, got %v", kws)
	}
}

func TestMeetingProfiles_FirstAppearanceOrder(t *testing.T) {
	svc := New(fieldsTokenizer{})
	records := []speech.Record{
		rec(t, "岸田文雄", "予算委員会", "2023-02-01", "予算 編成"),
		rec(t, "枝野幸男", "本会議", "2023-02-01", "討論"),
		rec(t, "河野太郎", "予算委員会", "2023-02-02", "予算 執行"),
		rec(t, "岸田文雄", "予算委員会", "2023-02-03", "予算"),
	}

	profiles := svc.MeetingProfiles(records, 10)

	if len(profiles) != 2 {
		t.Fatalf("expected 2 profiles, got %d", len(profiles))
	}
	if profiles[0].Meeting() != "予算委員会" || profiles[1].Meeting() != "本会議" {
		t.Errorf("expected first-appearance meeting order, got %s then %s",
			profiles[0].Meeting(), profiles[1].Meeting())
	}

	budget := profiles[0]
	if budget.Speeches() != 3 {
		t.Errorf("expected 3 speeches in 予算委員会, got %d", budget.Speeches())
	}
	wantSpeakers := []string{"岸田文雄", "河野太郎"}
	if len(budget.Speakers()) != len(wantSpeakers) {
		t.Fatalf("expected speakers %v, got %v", wantSpeakers, budget.Speakers())
	}
	for i, name := range wantSpeakers {
		if budget.Speakers()[i] != name {
			t.Errorf("speaker %d: expected %s, got %s", i, name, budget.Speakers()[i])
		}
	}
	if len(budget.Keywords()) == 0 || budget.Keywords()[0].Token() != "予算" {
		t.Errorf("expected 予算 as top keyword, got %v", budget.Keywords())
	}
}

func TestMeetingProfiles_CharsPerMeeting(t *testing.T) {
	svc := New(fieldsTokenizer{})
	records := []speech.Record{
		rec(t, "a", "m1", "2023-01-10", "あいうえお"),
		rec(t, "b", "m1", "2023-01-10", "かきく"),
		rec(t, "c", "m2", "2023-01-10", "さし"),
	}

	profiles := svc.MeetingProfiles(records, 0)

	if profiles[0].Chars() != 8 {
		t.Errorf("expected 8 chars for m1, got %d", profiles[0].Chars())
	}
	if profiles[1].Chars() != 2 {
		t.Errorf("expected 2 chars for m2, got %d", profiles[1].Chars())
	}
}

func TestMeetingProfiles_SpeechCountsSumToTotal(t *testing.T) {
	svc := New(fieldsTokenizer{})
	records := []speech.Record{
		rec(t, "a", "m1", "2023-01-10", "x"),
		rec(t, "b", "m2", "2023-01-10", "y"),
		rec(t, "c", "m1", "2023-01-11", "z"),
		rec(t, "d", "m3", "2023-01-12", "w"),
	}

	profiles := svc.MeetingProfiles(records, 0)

	sum := 0
	for _, p := range profiles {
		sum += p.Speeches()
	}
	if sum != len(records) {
		t.Errorf("profile speech counts sum to %d, want %d", sum, len(records))
	}
}

func TestMeetingProfiles_Empty(t *testing.T) {
	svc := New(fieldsTokenizer{})

	profiles := svc.MeetingProfiles(nil, 10)

	if len(profiles) != 0 {
		t.Errorf("expected no profiles, got %d", len(profiles))
	}
}
