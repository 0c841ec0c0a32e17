// Package csvlog appends answered questions to a CSV file.
//
// The file has the columns timestamp, query and answer. The header is
// written once, when the file is created or empty.
package csvlog

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/custodia-labs/failcase-advisor/internal/core/domain"
	"github.com/custodia-labs/failcase-advisor/internal/core/ports/driven"
)

var (
	_ driven.QueryLog       = (*Log)(nil)
	_ driven.QueryLogReader = (*Log)(nil)
)

// Header is the first row of every log file.
var Header = []string{"timestamp", "query", "answer"}

// Log is an append-only CSV query log. Safe for concurrent use.
type Log struct {
	mu   sync.Mutex
	path string
}

// New returns a log writing to path. Parent directories are created on
// first append.
func New(path string) (*Log, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: empty log path", domain.ErrInvalidInput)
	}
	return &Log{path: path}, nil
}

// Path returns the log file path.
func (l *Log) Path() string {
	return l.path
}

// Append writes one row, adding the header if the file is new.
func (l *Log) Append(ctx context.Context, entry domain.QueryLogEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(l.path), 0700); err != nil {
		return fmt.Errorf("create log directory: %w", err)
	}

	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("open query log: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat query log: %w", err)
	}

	w := csv.NewWriter(f)
	if info.Size() == 0 {
		if err := w.Write(Header); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}
	row := []string{entry.Timestamp.Format(time.RFC3339), entry.Query, entry.Answer}
	if err := w.Write(row); err != nil {
		return fmt.Errorf("write entry: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush query log: %w", err)
	}
	return nil
}

// Recent returns up to limit entries, newest first. A missing file has no
// entries. Rows that do not have three columns are skipped.
func (l *Log) Recent(ctx context.Context, limit int) ([]domain.QueryLogEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		return []domain.QueryLogEntry{}, nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.Open(l.path)
	if errors.Is(err, os.ErrNotExist) {
		return []domain.QueryLogEntry{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open query log: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	var entries []domain.QueryLogEntry
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read query log: %w", err)
		}
		if len(row) != len(Header) || slices.Equal(row, Header) {
			continue
		}
		ts, err := time.Parse(time.RFC3339, row[0])
		if err != nil {
			continue
		}
		entries = append(entries, domain.QueryLogEntry{Timestamp: ts, Query: row[1], Answer: row[2]})
	}

	slices.Reverse(entries)
	if len(entries) > limit {
		entries = entries[:limit]
	}
	if entries == nil {
		entries = []domain.QueryLogEntry{}
	}
	return entries, nil
}

// Close is a no-op; the file is opened per append.
func (l *Log) Close() error {
	return nil
}
