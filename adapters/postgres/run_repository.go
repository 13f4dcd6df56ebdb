package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"goanova/domain/anova"
	"goanova/domain/core"
	"goanova/domain/run"
)

// RunRepository persists analysis runs in PostgreSQL
type RunRepository struct {
	db *sqlx.DB
}

// NewRunRepository creates a new run repository
func NewRunRepository(db *sqlx.DB) *RunRepository {
	return &RunRepository{db: db}
}

// EnsureSchema creates the runs table if it does not exist
func (r *RunRepository) EnsureSchema(ctx context.Context) error {
	schema := `
		CREATE TABLE IF NOT EXISTS anova_runs (
			id UUID PRIMARY KEY,
			design TEXT NOT NULL,
			payload JSONB NOT NULL,
			summary TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		)`
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to ensure anova_runs schema: %w", err)
	}
	return nil
}

// Save stores a run record
func (r *RunRepository) Save(ctx context.Context, rec *run.Record) error {
	query := `
		INSERT INTO anova_runs (id, design, payload, summary, created_at)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := r.db.ExecContext(ctx, query,
		rec.ID.String(),
		string(rec.Design),
		[]byte(rec.Payload),
		rec.Summary,
		rec.CreatedAt.Time(),
	)
	if err != nil {
		return fmt.Errorf("failed to save run %s: %w", rec.ID, err)
	}
	return nil
}

// Get retrieves a run by ID
func (r *RunRepository) Get(ctx context.Context, id core.RunID) (*run.Record, error) {
	query := `
		SELECT id, design, payload, summary, created_at
		FROM anova_runs
		WHERE id = $1`

	rec, err := scanRecord(r.db.QueryRowxContext(ctx, query, id.String()))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, core.NewNotFoundError("run", id.String())
		}
		return nil, fmt.Errorf("failed to get run %s: %w", id, err)
	}
	return rec, nil
}

// List returns the most recent runs, newest first
func (r *RunRepository) List(ctx context.Context, limit int) ([]*run.Record, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `
		SELECT id, design, payload, summary, created_at
		FROM anova_runs
		ORDER BY created_at DESC
		LIMIT $1`

	rows, err := r.db.QueryxContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var records []*run.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRecord(row rowScanner) (*run.Record, error) {
	var (
		id        string
		design    string
		payload   []byte
		summary   string
		createdAt time.Time
	)
	if err := row.Scan(&id, &design, &payload, &summary, &createdAt); err != nil {
		return nil, err
	}
	return &run.Record{
		ID:        core.RunID(id),
		Design:    anova.Design(design),
		Payload:   payload,
		Summary:   summary,
		CreatedAt: core.NewTimestamp(createdAt),
	}, nil
}
