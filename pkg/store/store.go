// Package store provides the row stores that hold note rows: a hosted
// PostgREST table, or a local diskv or SQLite store.
package store

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_row_store.go -package=mocks tableflip.dev/calnotes/pkg/store RowStore

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"tableflip.dev/calnotes/pkg/datekey"
	"tableflip.dev/calnotes/pkg/note"
)

// RowStore is the table of note rows. Range returns rows whose date falls in
// [start, end] ordered by creation time ascending.
type RowStore interface {
	Probe(ctx context.Context) error
	Range(ctx context.Context, start, end datekey.Key) ([]note.Row, error)
	Insert(ctx context.Context, date datekey.Key, content string) error
	Delete(ctx context.Context, id string) error
}

// Watcher is implemented by stores that can report changes made by other
// processes.
type Watcher interface {
	Watch(ctx context.Context) (<-chan Event, error)
}

// Open builds the row store selected by cfg.
func Open(cfg *Config) (RowStore, error) {
	if cfg == nil {
		var err error
		cfg, err = LoadConfig()
		if err != nil {
			return nil, err
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("store: invalid config: %w", err)
	}

	switch cfg.Backend {
	case BackendPostgREST:
		return NewPostgREST(cfg), nil
	case BackendDiskv:
		return NewDiskv(cfg.BasePath()), nil
	case BackendSQLite:
		return OpenSQLite(filepath.Join(cfg.BasePath(), sqliteFile))
	default:
		return nil, fmt.Errorf("store: unknown backend %q", cfg.Backend)
	}
}

// Close releases s when it holds resources.
func Close(s RowStore) error {
	if c, ok := s.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
