package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/blaine-t/splits/internal/split"
)

// Schema versions:
// v1: splits table as the original service stored it
//
//	(id, user, is_down, is_elevator, duration_ms, timestamp)
//
// v2: nullable carrying_items column for stair trips
const currentSchemaVersion = 2

// SQLiteStore stores splits in a single sqlite database file.
type SQLiteStore struct {
	mu sync.RWMutex
	db *sql.DB
}

// OpenSQLite opens (creating if necessary) the database at path and brings
// the schema up to date. ":memory:" works for tests.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create database directory: %w", err)
			}
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// Single writer; sqlite serializes writes anyway.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set busy_timeout: %w", err)
	}
	if path != ":memory:" {
		if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to enable WAL: %w", err)
		}
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	if _, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS schema_version (
		version INTEGER NOT NULL
	)`); err != nil {
		return fmt.Errorf("failed to create schema_version: %w", err)
	}

	var version int
	err := s.db.QueryRow(`SELECT version FROM schema_version LIMIT 1`).Scan(&version)
	if err == sql.ErrNoRows {
		version = 0
		if _, err := s.db.Exec(`INSERT INTO schema_version (version) VALUES (0)`); err != nil {
			return fmt.Errorf("failed to seed schema_version: %w", err)
		}
	} else if err != nil {
		return fmt.Errorf("failed to read schema_version: %w", err)
	}

	if version < 1 {
		if _, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS splits (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user TEXT NOT NULL,
			is_down BOOLEAN NOT NULL,
			is_elevator BOOLEAN NOT NULL,
			duration_ms INTEGER NOT NULL,
			timestamp TEXT NOT NULL
		)`); err != nil {
			return fmt.Errorf("migration v1 failed: %w", err)
		}
	}
	if version < 2 {
		// Older databases predate the carrying question.
		if !s.hasColumn("splits", "carrying_items") {
			if _, err := s.db.Exec(`ALTER TABLE splits ADD COLUMN carrying_items BOOLEAN`); err != nil {
				return fmt.Errorf("migration v2 failed: %w", err)
			}
		}
	}

	if version != currentSchemaVersion {
		if _, err := s.db.Exec(`UPDATE schema_version SET version = ?`, currentSchemaVersion); err != nil {
			return fmt.Errorf("failed to bump schema_version: %w", err)
		}
	}
	return nil
}

func (s *SQLiteStore) hasColumn(table, column string) bool {
	rows, err := s.db.Query(fmt.Sprintf(`PRAGMA table_info(%s)`, table))
	if err != nil {
		return false
	}
	defer rows.Close()

	for rows.Next() {
		var (
			cid        int
			name, typ  string
			notnull    int
			dfltValue  sql.NullString
			primaryKey int
		)
		if err := rows.Scan(&cid, &name, &typ, &notnull, &dfltValue, &primaryKey); err != nil {
			return false
		}
		if name == column {
			return true
		}
	}
	return false
}

// Insert stores a record, stamping it with the current UTC time.
func (s *SQLiteStore) Insert(ctx context.Context, rec split.Record) (split.Split, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	timestamp := time.Now().UTC().Format(timestampLayout)
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO splits (user, is_down, is_elevator, duration_ms, carrying_items, timestamp)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		rec.User, rec.IsDown, rec.IsElevator, rec.DurationMs, carryingValue(rec.CarryingItems), timestamp,
	)
	if err != nil {
		return split.Split{}, fmt.Errorf("failed to insert split: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return split.Split{}, fmt.Errorf("failed to read insert id: %w", err)
	}

	return split.Split{
		ID:            id,
		User:          rec.User,
		IsDown:        rec.IsDown,
		IsElevator:    rec.IsElevator,
		DurationMs:    rec.DurationMs,
		CarryingItems: copyBool(rec.CarryingItems),
		Timestamp:     timestamp,
	}, nil
}

// All returns every split in insertion order.
func (s *SQLiteStore) All(ctx context.Context) ([]split.Split, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user, is_down, is_elevator, duration_ms, carrying_items, timestamp
		 FROM splits ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query splits: %w", err)
	}
	defer rows.Close()

	return scanSplits(rows)
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func scanSplits(rows *sql.Rows) ([]split.Split, error) {
	var splits []split.Split
	for rows.Next() {
		var (
			sp       split.Split
			carrying sql.NullBool
		)
		if err := rows.Scan(&sp.ID, &sp.User, &sp.IsDown, &sp.IsElevator, &sp.DurationMs, &carrying, &sp.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan split: %w", err)
		}
		if carrying.Valid {
			v := carrying.Bool
			sp.CarryingItems = &v
		}
		splits = append(splits, sp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate splits: %w", err)
	}
	return splits, nil
}

// carryingValue maps the optional carrying answer to a nullable column.
func carryingValue(b *bool) interface{} {
	if b == nil {
		return nil
	}
	return *b
}

func copyBool(b *bool) *bool {
	if b == nil {
		return nil
	}
	v := *b
	return &v
}
