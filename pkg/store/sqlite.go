package store

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// SQLiteStore keeps records in a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite creates or opens the database at path, creating parent
// directories as needed. The schema is applied idempotently.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create store directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite allows one writer at a time.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}
	return nil
}

// Save implements Store.
func (s *SQLiteStore) Save(ctx context.Context, rec Record) error {
	passes, err := json.Marshal(rec.Passes)
	if err != nil {
		return fmt.Errorf("encode passes: %w", err)
	}
	circ, err := json.Marshal(rec.Circuit)
	if err != nil {
		return fmt.Errorf("encode circuit: %w", err)
	}
	stats, err := json.Marshal(rec.Stats)
	if err != nil {
		return fmt.Errorf("encode stats: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO runs (id, created_at, backend, passes, source, circuit, stats, swap_count)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, rec.ID, rec.CreatedAt.UnixNano(), rec.Backend, string(passes), rec.Source, string(circ), string(stats), rec.SwapCount)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// Get implements Store.
func (s *SQLiteStore) Get(ctx context.Context, id string) (Record, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, created_at, backend, passes, source, circuit, stats, swap_count
		FROM runs WHERE id = ?
	`, id)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, notFound(id)
	}
	return rec, err
}

// List implements Store.
func (s *SQLiteStore) List(ctx context.Context, limit int) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, created_at, backend, passes, source, circuit, stats, swap_count
		FROM runs
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, limitOrDefault(limit))
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	records := []Record{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return records, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(sc scanner) (Record, error) {
	var (
		rec                 Record
		created             int64
		passes, circ, stats string
	)
	if err := sc.Scan(&rec.ID, &created, &rec.Backend, &passes, &rec.Source, &circ, &stats, &rec.SwapCount); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Record{}, err
		}
		return Record{}, fmt.Errorf("scan run: %w", err)
	}
	rec.CreatedAt = time.Unix(0, created).UTC()
	if err := json.Unmarshal([]byte(passes), &rec.Passes); err != nil {
		return Record{}, fmt.Errorf("decode passes of %s: %w", rec.ID, err)
	}
	if err := json.Unmarshal([]byte(circ), &rec.Circuit); err != nil {
		return Record{}, fmt.Errorf("decode circuit of %s: %w", rec.ID, err)
	}
	if err := json.Unmarshal([]byte(stats), &rec.Stats); err != nil {
		return Record{}, fmt.Errorf("decode stats of %s: %w", rec.ID, err)
	}
	return rec, nil
}

var _ Store = (*SQLiteStore)(nil)
