package history

import (
	"context"
	"testing"
	"time"

	domhist "github.com/kailas-cloud/gijidex/internal/domain/history"
	"github.com/kailas-cloud/gijidex/internal/domain/search/filter"
)

// mockBackend implements the consumer interface for tests and records
// every mutation it sees.
type mockBackend struct {
	loadFn    func(ctx context.Context) ([]domhist.Entry, error)
	appendFn  func(ctx context.Context, e domhist.Entry) error
	rewriteFn func(ctx context.Context, entries []domhist.Entry) error
	clearFn   func(ctx context.Context) error
	pingFn    func(ctx context.Context) error

	appends  []domhist.Entry
	rewrites [][]domhist.Entry
	clears   int
}

func (m *mockBackend) Load(ctx context.Context) ([]domhist.Entry, error) {
	if m.loadFn != nil {
		return m.loadFn(ctx)
	}
	return nil, nil
}

func (m *mockBackend) Append(ctx context.Context, e domhist.Entry) error {
	m.appends = append(m.appends, e)
	if m.appendFn != nil {
		return m.appendFn(ctx, e)
	}
	return nil
}

func (m *mockBackend) Rewrite(ctx context.Context, entries []domhist.Entry) error {
	cp := make([]domhist.Entry, len(entries))
	copy(cp, entries)
	m.rewrites = append(m.rewrites, cp)
	if m.rewriteFn != nil {
		return m.rewriteFn(ctx, entries)
	}
	return nil
}

func (m *mockBackend) Clear(ctx context.Context) error {
	m.clears++
	if m.clearFn != nil {
		return m.clearFn(ctx)
	}
	return nil
}

func (m *mockBackend) Ping(ctx context.Context) error {
	if m.pingFn != nil {
		return m.pingFn(ctx)
	}
	return nil
}

func newTestRepo(t *testing.T, maxEntries int) (*Repo, *mockBackend) {
	t.Helper()
	mb := &mockBackend{}
	return New(mb, maxEntries), mb
}

func testEntry(t *testing.T, keyword string, at time.Time, count int) domhist.Entry {
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
