package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/failcase-advisor/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/failcase-advisor/internal/core/domain"
	"github.com/custodia-labs/failcase-advisor/internal/core/ports/driven"
)

var (
	_ driven.QueryLog       = (*Store)(nil)
	_ driven.QueryLogReader = (*Store)(nil)
)

// DefaultFileName is used when only a directory is given.
const DefaultFileName = "query_log.db"

// timeLayout is fixed width so that created_at sorts lexically. The column
// is TEXT so the driver hands the string back untouched; reads accept any
// RFC 3339 form.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Store persists question/answer pairs in a SQLite database.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore opens (or creates) the database at dbPath and applies migrations.
// If dbPath names a directory, DefaultFileName is used inside it.
func NewStore(dbPath string) (*Store, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("%w: empty database path", domain.ErrInvalidInput)
	}
	if info, err := os.Stat(dbPath); err == nil && info.IsDir() {
		dbPath = filepath.Join(dbPath, DefaultFileName)
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(dbPath), 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// One writer at a time; appends are small.
	db.SetMaxOpenConns(1)

	s := &Store{
		db:   db,
		path: dbPath,
	}

	// Run migrations
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Append records one entry.
func (s *Store) Append(ctx context.Context, entry domain.QueryLogEntry) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO query_log (id, created_at, query, answer) VALUES (?, ?, ?, ?)`,
		entry.ID, entry.Timestamp.UTC().Format(timeLayout), entry.Query, entry.Answer,
	)
	if err != nil {
		return fmt.Errorf("inserting query log entry: %w", err)
	}
	return nil
}

// Recent returns up to limit entries, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]domain.QueryLogEntry, error) {
	if limit <= 0 {
		return []domain.QueryLogEntry{}, nil
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, created_at, query, answer FROM query_log
		 ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying query log: %w", err)
	}
	defer rows.Close()

	entries := []domain.QueryLogEntry{}
	for rows.Next() {
		var (
			entry     domain.QueryLogEntry
			createdAt string
		)
		if err := rows.Scan(&entry.ID, &createdAt, &entry.Query, &entry.Answer); err != nil {
			return nil, fmt.Errorf("scanning query log entry: %w", err)
		}
		entry.Timestamp, err = time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, fmt.Errorf("parsing timestamp %q: %w", createdAt, err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// migrate runs all pending migrations, each in its own transaction.
func (s *Store) migrate(fsys fs.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	// Find all up migrations
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_query_log.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if err := s.apply(version, string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
	}

	return nil
}

func (s *Store) apply(version int, script string) (err error) {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			err = errors.Join(err, tx.Rollback())
		}
	}()

	if _, err = tx.Exec(script); err != nil {
		return err
	}
	if _, err = tx.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
		return err
	}
	return tx.Commit()
}
