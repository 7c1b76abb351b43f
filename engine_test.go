package gijidex

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
)

// --- Mocks ---

// spaceTok splits on whitespace so keyword assertions stay readable
// without loading the morphological dictionary.
type spaceTok struct{}

func (spaceTok) Tokenize(text string) []string {
	return strings.Fields(text)
}

type minutesEnvelope struct {
	NumberOfRecords    int               `json:"numberOfRecords"`
	NumberOfReturn     int               `json:"numberOfReturn"`
	StartRecord        int               `json:"startRecord"`
	NextRecordPosition *int              `json:"nextRecordPosition,omitempty"`
	SpeechRecord       []json.RawMessage `json:"speechRecord"`
}

func speechJSON(speaker, date, text string) json.RawMessage {
	return json.RawMessage(fmt.Sprintf(`{
		"speaker": %q,
		"speakerGroup": "自由民主党",
		"nameOfMeeting": "予算委員会",
		"nameOfHouse": "衆議院",
		"session": 211,
		"date": %q,
		"speech": %q,
		"speechURL": "https://example.org/speech"
	}`, speaker, date, text))
}

// minutesStub serves the given items as a minutes API endpoint, honoring
// startRecord and maximumRecords.
func minutesStub(t *testing.T, items []json.RawMessage) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start, _ := strconv.Atoi(r.URL.Query().Get("startRecord"))
		if start < 1 {
			start = 1
		}
		max, _ := strconv.Atoi(r.URL.Query().Get("maximumRecords"))

		resp := minutesEnvelope{NumberOfRecords: len(items), StartRecord: start}
		for n := start; n <= len(items) && n < start+max; n++ {
			resp.SpeechRecord = append(resp.SpeechRecord, items[n-1])
		}
		resp.NumberOfReturn = len(resp.SpeechRecord)
		if next := start + resp.NumberOfReturn; next <= len(items) {
			resp.NextRecordPosition = &next
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
}

func newTestEngine(t *testing.T, srv *httptest.Server, opts ...Option) *Engine {
	t.Helper()
	base := []Option{
		WithBaseURL(srv.URL),
		WithHTTPClient(srv.Client()),
		WithTokenizer(spaceTok{}),
		WithHistoryFile(filepath.Join(t.TempDir(), "history.csv")),
	}
	e, err := New(append(base, opts...)...)
	if err != nil {
		t.Fatalf("failed to create engine: %v", err)
	}
	return e
}

// --- Tests ---

func TestEngineOptions(t *testing.T) {
	cfg := &engineConfig{}

	WithBaseURL("http://localhost:9999")(cfg)
	if cfg.baseURL != "http://localhost:9999" {
		t.Errorf("baseURL = %q, want http://localhost:9999", cfg.baseURL)
	}

	client := &http.Client{}
	WithHTTPClient(client)(cfg)
	if cfg.httpClient != client {
		t.Error("httpClient not set")
	}

	WithTimeout(5 * time.Second)(cfg)
	if cfg.timeout != 5*time.Second {
		t.Errorf("timeout = %v, want 5s", cfg.timeout)
	}

	WithPageSize(50)(cfg)
	if cfg.pageSize != 50 {
		t.Errorf("pageSize = %d, want 50", cfg.pageSize)
	}

	WithRetries(-1)(cfg)
	if cfg.retries != -1 {
		t.Errorf("retries = %d, want -1", cfg.retries)
	}

	WithConcurrency(4)(cfg)
	if cfg.concurrency != 4 {
		t.Errorf("concurrency = %d, want 4", cfg.concurrency)
	}

	WithDefaultMaxRecords(10)(cfg)
	if cfg.maxRecords != 10 {
		t.Errorf("maxRecords = %d, want 10", cfg.maxRecords)
	}

	WithTopKeywords(20)(cfg)
	if cfg.topKeywords != 20 {
		t.Errorf("topKeywords = %d, want 20", cfg.topKeywords)
	}

	WithTokenizer(spaceTok{})(cfg)
	if cfg.tokenizer == nil {
		t.Error("tokenizer not set")
	}

	WithoutTokenizer()(cfg)
	if !cfg.noTokenizer {
		t.Error("noTokenizer not set")
	}

	WithStopWords("議長", "委員")(cfg)
	WithStopWords("政府")(cfg)
	if len(cfg.stopWords) != 3 {
		t.Errorf("stopWords = %v, want 3 entries", cfg.stopWords)
	}

	WithMinTokenLength(3)(cfg)
	if cfg.minTokenLength != 3 {
		t.Errorf("minTokenLength = %d, want 3", cfg.minTokenLength)
	}

	WithHistoryLimit(100)(cfg)
	if cfg.historyLimit != 100 {
		t.Errorf("historyLimit = %d, want 100", cfg.historyLimit)
	}

	logger := zap.NewNop()
	WithLogger(logger)(cfg)
	if cfg.logger != logger {
		t.Error("logger not set")
	}
}

func TestEngineOptions_HistoryBackendSwitch(t *testing.T) {
	cfg := &engineConfig{}

	WithHistoryRedis(RedisOptions{Addrs: []string{"localhost:6379"}})(cfg)
	if cfg.historyRedis == nil || len(cfg.historyRedis.Addrs) != 1 {
		t.Fatal("historyRedis not set")
	}

	WithHistoryFile("/tmp/h.csv")(cfg)
	if cfg.historyPath != "/tmp/h.csv" {
		t.Errorf("historyPath = %q, want /tmp/h.csv", cfg.historyPath)
	}
	if cfg.historyRedis != nil {
		t.Error("WithHistoryFile must clear the redis backend")
	}
}

func TestEngine_Search(t *testing.T) {
	srv := minutesStub(t, []json.RawMessage{
		speechJSON("石破茂", "2023-02-01", "予算 委員会 質疑"),
		speechJSON("岸田文雄", "2023-02-01", "予算 編成 方針"),
		speechJSON("石破茂", "2023-02-02", "外交 防衛 予算"),
		json.RawMessage(`{"date": "2023-02-02", "speech": "発言者不明"}`),
	})
	defer srv.Close()

	e := newTestEngine(t, srv)
	defer e.Close()

	res, err := e.Search(context.Background(), Filter{Keyword: "予算"})
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}

	if len(res.Records) != 3 {
		t.Fatalf("got %d records, want 3", len(res.Records))
	}
	if res.Skipped != 1 {
		t.Errorf("skipped = %d, want 1", res.Skipped)
	}
	if res.TotalAvailable != 4 {
		t.Errorf("total available = %d, want 4", res.TotalAvailable)
	}
	if res.SearchID == "" {
		t.Error("search id is empty")
	}

	first := res.Records[0]
	if first.Speaker != "石破茂" {
		t.Errorf("speaker = %q, want 石破茂", first.Speaker)
	}
	if first.Meeting != "予算委員会" {
		t.Errorf("meeting = %q, want 予算委員会", first.Meeting)
	}
	if first.House != HouseRepresentatives {
		t.Errorf("house = %q, want %q", first.House, HouseRepresentatives)
	}
	if first.Session != "211" {
		t.Errorf("session = %q, want 211", first.Session)
	}

	st := res.Statistics
	if st.Total != 3 {
		t.Errorf("stats total = %d, want 3", st.Total)
	}
	if st.SpeakerCount != 2 {
		t.Errorf("speaker count = %d, want 2", st.SpeakerCount)
	}
	if st.BySpeaker["石破茂"] != 2 {
		t.Errorf("by speaker = %d, want 2", st.BySpeaker["石破茂"])
	}
	if st.ByDate["2023-02-01"] != 2 {
		t.Errorf("by date = %d, want 2", st.ByDate["2023-02-01"])
	}
	if st.ByMonth["2023-02"] != 3 {
		t.Errorf("by month = %d, want 3", st.ByMonth["2023-02"])
	}

	if len(res.Keywords) == 0 {
		t.Fatal("no keywords extracted")
	}
	if res.Keywords[0].Token != "予算" || res.Keywords[0].Count != 3 {
		t.Errorf("top keyword = %s/%d, want 予算/3",
			res.Keywords[0].Token, res.Keywords[0].Count)
	}

	if len(res.Meetings) != 1 {
		t.Fatalf("got %d meeting profiles, want 1", len(res.Meetings))
	}
	if res.Meetings[0].Speeches != 3 {
		t.Errorf("meeting speeches = %d, want 3", res.Meetings[0].Speeches)
	}

	entries, err := e.History(context.Background(), 0)
	if err != nil {
		t.Fatalf("history failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d history entries, want 1", len(entries))
	}
	if entries[0].ResultCount != 4 {
		t.Errorf("result count = %d, want the reported total 4", entries[0].ResultCount)
	}
	if entries[0].Filter.Keyword != "予算" {
		t.Errorf("history keyword = %q, want 予算", entries[0].Filter.Keyword)
	}
}

func TestEngine_Search_EmptyFilterMatchesAll(t *testing.T) {
	srv := minutesStub(t, []json.RawMessage{
		speechJSON("議員A", "2023-06-01", "発言 一"),
		speechJSON("議員B", "2023-06-02", "発言 二"),
		speechJSON("議員C", "2023-06-03", "発言 三"),
	})
	defer srv.Close()

	e := newTestEngine(t, srv)
	defer e.Close()

	res, err := e.Search(context.Background(), Filter{MaxRecords: 10})
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(res.Records) != 3 {
		t.Errorf("got %d records, want all 3", len(res.Records))
	}
}

func TestEngine_Search_InvertedDates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("upstream must not be called for an invalid filter")
	}))
	defer srv.Close()

	e := newTestEngine(t, srv)
	defer e.Close()

	from := time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC)
	until := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	_, err := e.Search(context.Background(), Filter{From: from, Until: until})
	if !errors.Is(err, ErrInvalidFilter) {
		t.Fatalf("got %v, want ErrInvalidFilter", err)
	}

	entries, err := e.History(context.Background(), 0)
	if err != nil {
		t.Fatalf("history failed: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("got %d history entries, want 0", len(entries))
	}
}

func TestEngine_Search_DefaultMaxRecords(t *testing.T) {
	items := make([]json.RawMessage, 5)
	for i := range items {
		items[i] = speechJSON("議員A", "2023-03-01", fmt.Sprintf("発言 %d", i+1))
	}
	srv := minutesStub(t, items)
	defer srv.Close()

	e := newTestEngine(t, srv, WithDefaultMaxRecords(2))
	defer e.Close()

	res, err := e.Search(context.Background(), Filter{Keyword: "発言"})
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(res.Records) != 2 {
		t.Errorf("got %d records, want default cap 2", len(res.Records))
	}
	if res.TotalAvailable != 5 {
		t.Errorf("total available = %d, want 5", res.TotalAvailable)
	}

	res, err = e.Search(context.Background(), Filter{Keyword: "発言", MaxRecords: 4})
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(res.Records) != 4 {
		t.Errorf("got %d records, want explicit cap 4", len(res.Records))
	}
}

func TestEngine_Search_UpstreamDown(t *testing.T) {
	srv := minutesStub(t, nil)
	srv.Close() // refuse connections

	e := newTestEngine(t, srv, WithRetries(-1))

	_, err := e.Search(context.Background(), Filter{Keyword: "予算"})
	if !errors.Is(err, ErrTransport) {
		t.Fatalf("got %v, want ErrTransport", err)
	}
}

func TestEngine_HistoryRoundTrip(t *testing.T) {
	srv := minutesStub(t, []json.RawMessage{
		speechJSON("議員A", "2023-04-01", "第一 の 発言"),
	})
	defer srv.Close()

	e := newTestEngine(t, srv)
	defer e.Close()

	ctx := context.Background()
	if _, err := e.Search(ctx, Filter{Keyword: "第一"}); err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if _, err := e.Search(ctx, Filter{Speaker: "議員A"}); err != nil {
		t.Fatalf("search failed: %v", err)
	}

	entries, err := e.History(ctx, 0)
	if err != nil {
		t.Fatalf("history failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0].Filter.Speaker != "議員A" {
		t.Errorf("newest entry speaker = %q, want 議員A", entries[0].Filter.Speaker)
	}
	if entries[1].Filter.Keyword != "第一" {
		t.Errorf("oldest entry keyword = %q, want 第一", entries[1].Filter.Keyword)
	}

	limited, err := e.History(ctx, 1)
	if err != nil {
		t.Fatalf("history failed: %v", err)
	}
	if len(limited) != 1 {
		t.Fatalf("got %d entries, want 1", len(limited))
	}

	var buf bytes.Buffer
	if err := e.ExportHistory(ctx, &buf); err != nil {
		t.Fatalf("export failed: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d export lines, want header plus 2 rows", len(lines))
	}
	if !strings.HasPrefix(lines[0], "timestamp,") {
		t.Errorf("header = %q, want timestamp first", lines[0])
	}
	if !strings.Contains(lines[1], "第一") {
		t.Errorf("first row = %q, want the oldest search", lines[1])
	}

	if err := e.ClearHistory(ctx); err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	entries, err = e.History(ctx, 0)
	if err != nil {
		t.Fatalf("history failed: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("got %d entries after clear, want 0", len(entries))
	}
}

func TestEngine_WithoutTokenizer(t *testing.T) {
	srv := minutesStub(t, []json.RawMessage{
		speechJSON("議員A", "2023-05-01", "予算 審議"),
	})
	defer srv.Close()

	e := newTestEngine(t, srv, WithoutTokenizer())
	defer e.Close()

	res, err := e.Search(context.Background(), Filter{Keyword: "予算"})
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(res.Keywords) != 0 {
		t.Errorf("got %d keywords, want none with tokenization disabled", len(res.Keywords))
	}
	if res.Statistics.Total != 1 {
		t.Errorf("stats total = %d, want 1", res.Statistics.Total)
	}
}

func TestEngine_Close_NoRedis(t *testing.T) {
	srv := minutesStub(t, nil)
	defer srv.Close()

	e := newTestEngine(t, srv)
	e.Close() // must not panic without a redis backend
}
