// Package store persists splits. Two backends implement the same Repository
// interface: sqlite for the single-binary deployment and postgres for shared
// installs.
package store

import (
	"context"
	"fmt"

	"github.com/blaine-t/splits/internal/config"
	"github.com/blaine-t/splits/internal/split"
)

// Repository is the storage surface the server needs. Boards are computed in
// the domain package from All; the repository only stores and lists.
type Repository interface {
	// Insert stores a validated record and returns the stored row.
	Insert(ctx context.Context, rec split.Record) (split.Split, error)
	// All returns every split in insertion order.
	All(ctx context.Context) ([]split.Split, error)
	Close() error
}

// Open selects the backend from config.
func Open(cfg config.DatabaseConfig) (Repository, error) {
	switch cfg.Driver {
	case "sqlite":
		return OpenSQLite(cfg.Path)
	case "postgres":
		return OpenPostgres(cfg.URL)
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}

// timestampLayout matches the original sqlite datetime('now') text format,
// which the boards echo verbatim.
const timestampLayout = "2006-01-02 15:04:05"
