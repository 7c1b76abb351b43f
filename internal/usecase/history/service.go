package history

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	domhist "github.com/kailas-cloud/gijidex/internal/domain/history"
)

// exportHeader is the fixed export schema. The stored house criterion is
// internal and not part of it.
var exportHeader = []string{
	"timestamp", "keyword", "date_from", "date_until",
	"speaker", "meeting", "result_count",
}

// Service exposes read, clear, and export operations over search history.
type Service struct {
	store Store
}

// New creates a history service.
func New(store Store) *Service {
	return &Service{store: store}
}

// List returns up to limit entries, newest first. limit <= 0 returns all.
func (s *Service) List(ctx context.Context, limit int) ([]domhist.Entry, error) {
	return s.store.List(ctx, limit)
}

// Clear removes all recorded history.
func (s *Service) Clear(ctx context.Context) error {
	return s.store.Clear(ctx)
}

// ExportCSV streams the full history to w as UTF-8 CSV, oldest entry
// first under a fixed seven-column header.
func (s *Service) ExportCSV(ctx context.Context, w io.Writer) error {
	entries, err := s.store.List(ctx, 0)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i := len(entries) - 1; i >= 0; i-- {
		if err := cw.Write(exportRow(entries[i])); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush export: %w", err)
	}
	return nil
}

func exportRow(e domhist.Entry) []string {
	f := e.Filter()
	return []string{
		e.Timestamp().Format("2006-01-02 15:04:05"),
		f.Keyword(),
		formatDate(f.From()),
		formatDate(f.Until()),
		f.Speaker(),
		f.Meeting(),
		strconv.Itoa(e.ResultCount()),
	}
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}
