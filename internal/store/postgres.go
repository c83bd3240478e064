package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/blaine-t/splits/internal/split"
)

// PostgresStore stores splits in postgres for shared installs.
type PostgresStore struct {
	db *sql.DB
}

// OpenPostgres connects with the given URL and ensures the schema exists.
func OpenPostgres(url string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", url)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetConnMaxLifetime(time.Hour)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS splits (
		id BIGSERIAL PRIMARY KEY,
		"user" TEXT NOT NULL,
		is_down BOOLEAN NOT NULL,
		is_elevator BOOLEAN NOT NULL,
		duration_ms BIGINT NOT NULL,
		carrying_items BOOLEAN,
		timestamp TEXT NOT NULL
	)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create splits table: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

// Insert stores a record, stamping it with the current UTC time.
func (s *PostgresStore) Insert(ctx context.Context, rec split.Record) (split.Split, error) {
	timestamp := time.Now().UTC().Format(timestampLayout)

	var id int64
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO splits ("user", is_down, is_elevator, duration_ms, carrying_items, timestamp)
		 VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		rec.User, rec.IsDown, rec.IsElevator, rec.DurationMs, carryingValue(rec.CarryingItems), timestamp,
	).Scan(&id)
	if err != nil {
		return split.Split{}, fmt.Errorf("failed to insert split: %w", err)
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
func (s *PostgresStore) All(ctx context.Context) ([]split.Split, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, "user", is_down, is_elevator, duration_ms, carrying_items, timestamp
		 FROM splits ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query splits: %w", err)
	}
	defer rows.Close()

	return scanSplits(rows)
}

// Close closes the underlying database.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}
