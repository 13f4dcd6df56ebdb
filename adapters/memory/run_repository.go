// Package memory provides an in-memory RunRepository for the CLI and
// for tests.
package memory

import (
	"context"
	"sync"

	"goanova/domain/core"
	"goanova/domain/run"
)

// RunRepository stores run records in memory
type RunRepository struct {
	mu      sync.RWMutex
	records map[core.RunID]*run.Record
	order   []core.RunID // insertion order, oldest first
}

// NewRunRepository creates an empty in-memory repository
func NewRunRepository() *RunRepository {
	return &RunRepository{records: make(map[core.RunID]*run.Record)}
}

func (r *RunRepository) Save(_ context.Context, rec *run.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.records[rec.ID]; !exists {
		r.order = append(r.order, rec.ID)
	}
	r.records[rec.ID] = rec
	return nil
}

func (r *RunRepository) Get(_ context.Context, id core.RunID) (*run.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.records[id]
	if !ok {
		return nil, core.NewNotFoundError("run", id.String())
	}
	return rec, nil
}

func (r *RunRepository) List(_ context.Context, limit int) ([]*run.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if limit <= 0 || limit > len(r.order) {
		limit = len(r.order)
	}
	out := make([]*run.Record, 0, limit)
	for i := len(r.order) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, r.records[r.order[i]])
	}
	return out, nil
}
