package history

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	domhist "github.com/kailas-cloud/gijidex/internal/domain/history"
	"github.com/kailas-cloud/gijidex/internal/domain/search/filter"
)

// --- Mocks ---

type mockStore struct {
	listFn   func(ctx context.Context, limit int) ([]domhist.Entry, error)
	clearFn  func(ctx context.Context) error
	gotLimit int
}

func (m *mockStore) List(ctx context.Context, limit int) ([]domhist.Entry, error) {
	m.gotLimit = limit
	if m.listFn != nil {
		return m.listFn(ctx, limit)
	}
	return nil, nil
}

func (m *mockStore) Clear(ctx context.Context) error {
	if m.clearFn != nil {
		return m.clearFn(ctx)
	}
	return nil
}

func entry(t *testing.T, keyword string, at time.Time, count int) domhist.Entry {
	t.Helper()
	f, err := filter.New(keyword, "", "", "", time.Time{}, time.Time{}, 30)
	if err != nil {
		t.Fatalf("filter.New: %v", err)
	}
	e, err := domhist.New(at, f, count)
	if err != nil {
		t.Fatalf("history.New: %v", err)
	}
	return e
}

// --- Tests ---

func TestList_Delegates(t *testing.T) {
	at := time.Date(2023, 6, 1, 10, 0, 0, 0, time.UTC)
	ms := &mockStore{
		listFn: func(_ context.Context, _ int) ([]domhist.Entry, error) {
			return []domhist.Entry{entry(t, "予算", at, 3)}, nil
		},
	}
	svc := New(ms)

	entries, err := svc.List(context.Background(), 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ms.gotLimit != 5 {
		t.Errorf("expected limit 5 passed through, got %d", ms.gotLimit)
	}
	if len(entries) != 1 || entries[0].Filter().Keyword() != "予算" {
		t.Errorf("unexpected entries: %v", entries)
	}
}

func TestClear_PropagatesError(t *testing.T) {
	want := errors.New("backend down")
	ms := &mockStore{clearFn: func(_ context.Context) error { return want }}
	svc := New(ms)

	if err := svc.Clear(context.Background()); !errors.Is(err, want) {
		t.Fatalf("expected %v, got %v", want, err)
	}
}

func TestExportCSV_ChronologicalWithFixedHeader(t *testing.T) {
	older := time.Date(2023, 6, 1, 10, 0, 0, 0, time.UTC)
	newer := time.Date(2023, 6, 2, 9, 30, 0, 0, time.UTC)
	ms := &mockStore{
		listFn: func(_ context.Context, _ int) ([]domhist.Entry, error) {
			// Store order is newest first.
			return []domhist.Entry{
				entry(t, "外交", newer, 7),
				entry(t, "予算", older, 12),
			}, nil
		},
	}
	svc := New(ms)

	var buf bytes.Buffer
	if err := svc.ExportCSV(context.Background(), &buf); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header + 2 rows, got %d lines", len(lines))
	}
	if lines[0] != strings.Join(exportHeader, ",") {
		t.Errorf("unexpected header %q", lines[0])
	}
	// Oldest first.
	if !strings.HasPrefix(lines[1], "2023-06-01 10:00:00,予算") {
		t.Errorf("expected oldest row first, got %q", lines[1])
	}
	if !strings.HasPrefix(lines[2], "2023-06-02 09:30:00,外交") {
		t.Errorf("expected newest row last, got %q", lines[2])
	}
}

func TestExportCSV_RowLayout(t *testing.T) {
	at := time.Date(2023, 6, 1, 10, 0, 0, 0, time.UTC)
	from := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	until := time.Date(2023, 3, 31, 0, 0, 0, 0, time.UTC)
	f, err := filter.New("予算", "岸田文雄", "予算委員会", filter.HouseRepresentatives, from, until, 50)
	if err != nil {
		t.Fatalf("filter.New: %v", err)
	}
	e, err := domhist.New(at, f, 42)
	if err != nil {
		t.Fatalf("history.New: %v", err)
	}
	ms := &mockStore{
		listFn: func(_ context.Context, _ int) ([]domhist.Entry, error) {
			return []domhist.Entry{e}, nil
		},
	}

	var buf bytes.Buffer
	if err := New(ms).ExportCSV(context.Background(), &buf); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	want := "2023-06-01 10:00:00,予算,2023-01-01,2023-03-31,岸田文雄,予算委員会,42"
	if lines[1] != want {
		t.Errorf("expected row %q, got %q", want, lines[1])
	}
}

func TestExportCSV_EmptyHistory(t *testing.T) {
	svc := New(&mockStore{})

	var buf bytes.Buffer
	if err := svc.ExportCSV(context.Background(), &buf); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := strings.TrimRight(buf.String(), "\n"); got != strings.Join(exportHeader, ",") {
		t.Errorf("expected header only, got %q", got)
	}
}

func TestExportCSV_StoreFailure(t *testing.T) {
	want := errors.New("load failed")
	ms := &mockStore{
		listFn: func(_ context.Context, _ int) ([]domhist.Entry, error) {
			return nil, want
		},
	}

	var buf bytes.Buffer
	if err := New(ms).ExportCSV(context.Background(), &buf); !errors.Is(err, want) {
		t.Fatalf("expected %v, got %v", want, err)
	}
	if buf.Len() != 0 {
		t.Errorf("expected nothing written on failure, got %q", buf.String())
	}
}
