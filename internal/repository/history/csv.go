package history

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	domhist "github.com/kailas-cloud/gijidex/internal/domain/history"
)

// CSVBackend stores history as a UTF-8 CSV file with a header row.
type CSVBackend struct {
	path string
}

// NewCSVBackend creates a CSV file backend. The file is created on first
// append.
func NewCSVBackend(path string) *CSVBackend {
	return &CSVBackend{path: path}
}

// Load reads all entries. A missing file is an empty history; rows that
// do not parse are skipped.
func (b *CSVBackend) Load(_ context.Context) ([]domhist.Entry, error) {
	f, err := os.Open(b.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open %s: %w", b.path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	var entries []domhist.Entry
	first := true
	for {
		cols, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			continue
		}
		if first {
			first = false
			cols[0] = strings.TrimPrefix(cols[0], "﻿")
			if cols[0] == csvHeader[0] {
				continue
			}
		}
		e, err := entryFromRow(cols)
		if err != nil {
			continue
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// Append adds one row, creating the file with a header when absent.
func (b *CSVBackend) Append(_ context.Context, e domhist.Entry) error {
	writeHeader, err := b.needsHeader()
	if err != nil {
		return err
	}

	f, err := os.OpenFile(b.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open %s: %w", b.path, err)
	}

	w := csv.NewWriter(f)
	if writeHeader {
		err = w.Write(csvHeader)
	}
	if err == nil {
		err = w.Write(entryToRow(e))
	}
	if err == nil {
		w.Flush()
		err = w.Error()
	}
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return fmt.Errorf("append %s: %w", b.path, err)
	}
	return nil
}

// Rewrite replaces the file contents via a temp file and rename, so a
// crash mid-write never leaves a truncated history.
func (b *CSVBackend) Rewrite(_ context.Context, entries []domhist.Entry) error {
	dir := filepath.Dir(b.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(b.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp in %s: %w", dir, err)
	}
	tmpName := tmp.Name()

	w := csv.NewWriter(tmp)
	err = w.Write(csvHeader)
	for i := 0; err == nil && i < len(entries); i++ {
		err = w.Write(entryToRow(entries[i]))
	}
	if err == nil {
		w.Flush()
		err = w.Error()
	}
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", tmpName, err)
	}

	if err := os.Rename(tmpName, b.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename %s: %w", tmpName, err)
	}
	return nil
}

// Clear removes the file. A missing file is already clear.
func (b *CSVBackend) Clear(_ context.Context) error {
	if err := os.Remove(b.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", b.path, err)
	}
	return nil
}

// Ping verifies the directory holding the file is accessible.
func (b *CSVBackend) Ping(_ context.Context) error {
	dir := filepath.Dir(b.path)
	if _, err := os.Stat(dir); err != nil {
		return fmt.Errorf("stat %s: %w", dir, err)
	}
	return nil
}

func (b *CSVBackend) needsHeader() (bool, error) {
	info, err := os.Stat(b.path)
	if errors.Is(err, os.ErrNotExist) {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("stat %s: %w", b.path, err)
	}
	return info.Size() == 0, nil
}
