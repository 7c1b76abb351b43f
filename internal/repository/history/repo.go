package history

import (
	"context"
	"sync"

	"github.com/kailas-cloud/gijidex/internal/domain"
	domhist "github.com/kailas-cloud/gijidex/internal/domain/history"
)

// DefaultMaxEntries caps retained history when no limit is configured.
const DefaultMaxEntries = 500

// backend is the consumer interface for history persistence. Entries are
// stored oldest first.
type backend interface {
	Load(ctx context.Context) ([]domhist.Entry, error)
	Append(ctx context.Context, e domhist.Entry) error
	Rewrite(ctx context.Context, entries []domhist.Entry) error
	Clear(ctx context.Context) error
	Ping(ctx context.Context) error
}

// Repo implements usecase/history.Store and the orchestrator's Recorder
// over a swappable backend. Entries are cached in memory oldest first;
// every mutation is mirrored to the backend before it is considered done.
type Repo struct {
	mu         sync.Mutex
	backend    backend
	maxEntries int
	loaded     bool
	entries    []domhist.Entry
}

// New creates a history repository. maxEntries <= 0 applies
// DefaultMaxEntries.
func New(b backend, maxEntries int) *Repo {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &Repo{backend: b, maxEntries: maxEntries}
}

// ensureLoaded hydrates the cache on first use. Callers must hold mu.
func (r *Repo) ensureLoaded(ctx context.Context) error {
	if r.loaded {
		return nil
	}
	entries, err := r.backend.Load(ctx)
	if err != nil {
		return domain.NewPersistence("load", err)
	}
	if len(entries) > r.maxEntries {
		entries = entries[len(entries)-r.maxEntries:]
	}
	r.entries = entries
	r.loaded = true
	return nil
}

// Record appends an entry. When its filter equals the previous entry's
// filter the previous entry is replaced in place, so repeating a search
// refreshes its timestamp and count without growing the log. Overflow
// past the cap evicts the oldest entries.
func (r *Repo) Record(ctx context.Context, e domhist.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.ensureLoaded(ctx); err != nil {
		return err
	}

	if n := len(r.entries); n > 0 && r.entries[n-1].Filter().Equal(e.Filter()) {
		r.entries[n-1] = e
		if err := r.backend.Rewrite(ctx, r.entries); err != nil {
			return domain.NewPersistence("rewrite", err)
		}
		return nil
	}

	r.entries = append(r.entries, e)
	if len(r.entries) > r.maxEntries {
		r.entries = r.entries[len(r.entries)-r.maxEntries:]
		if err := r.backend.Rewrite(ctx, r.entries); err != nil {
			return domain.NewPersistence("rewrite", err)
		}
		return nil
	}

	if err := r.backend.Append(ctx, e); err != nil {
		return domain.NewPersistence("append", err)
	}
	return nil
}

// List returns up to limit entries, newest first. limit <= 0 returns all.
// The returned slice is a copy.
func (r *Repo) List(ctx context.Context, limit int) ([]domhist.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.ensureLoaded(ctx); err != nil {
		return nil, err
	}

	n := len(r.entries)
	if limit <= 0 || limit > n {
		limit = n
	}
	out := make([]domhist.Entry, 0, limit)
	for i := n - 1; i >= n-limit; i-- {
		out = append(out, r.entries[i])
	}
	return out, nil
}

// Clear drops all entries from the backend and the cache.
func (r *Repo) Clear(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.backend.Clear(ctx); err != nil {
		return domain.NewPersistence("clear", err)
	}
	r.entries = nil
	r.loaded = true
	return nil
}

// Ping reports backend availability.
func (r *Repo) Ping(ctx context.Context) error {
	return r.backend.Ping(ctx)
}
