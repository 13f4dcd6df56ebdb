package ports

import (
	"context"

	"goanova/domain/core"
	"goanova/domain/run"
)

// RunRepository persists completed analysis runs
type RunRepository interface {
	// Save stores a run record
	Save(ctx context.Context, rec *run.Record) error

	// Get retrieves a run by ID
	Get(ctx context.Context, id core.RunID) (*run.Record, error)

	// List returns the most recent runs, newest first
	List(ctx context.Context, limit int) ([]*run.Record, error)
}
