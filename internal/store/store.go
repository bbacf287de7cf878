// Package store persists the local audit log of attribution runs.
package store

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/attribution-service/internal/config"
	"github.com/sells-group/attribution-service/internal/model"
)

// RunFilter specifies criteria for listing runs.
type RunFilter struct {
	Status model.RunStatus `json:"status,omitempty"`
	Store  string          `json:"store,omitempty"`
	Limit  int             `json:"limit,omitempty"`
	Offset int             `json:"offset,omitempty"`
}

// Store defines the persistence interface for the run audit log.
type Store interface {
	RecordRun(ctx context.Context, run model.Run) error
	ListRuns(ctx context.Context, filter RunFilter) ([]model.Run, error)

	Migrate(ctx context.Context) error
	Close() error
}

// Open constructs the store selected by config.
func Open(ctx context.Context, cfg config.StoreConfig) (Store, error) {
	switch cfg.Driver {
	case "sqlite", "":
		return NewSQLite(cfg.DSN)
	case "postgres":
		return NewPostgres(ctx, cfg.DSN, nil)
	default:
		return nil, eris.Errorf("store: unknown driver %q", cfg.Driver)
	}
}
