package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/rankcore/internal/types"
)

// GetJob retrieves a job by ID. A missing job returns nil without error.
func (db *DB) GetJob(ctx context.Context, jobID uuid.UUID) (*types.Job, error) {
	var job types.Job
	err := db.pool.QueryRow(ctx,
		`SELECT id, title, description, private_directions
		 FROM jobs WHERE id = $1`,
		jobID,
	).Scan(&job.ID, &job.Title, &job.Description, &job.PrivateDirections)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	return &job, nil
}

// UpsertJob creates or replaces a job record. Changing private_directions
// does not touch stored analysis results; they become stale by hash
// mismatch and are recomputed on demand.
func (db *DB) UpsertJob(ctx context.Context, job *types.Job) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO jobs (id, title, description, private_directions)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (id) DO UPDATE SET
		     title = $2,
		     description = $3,
		     private_directions = $4,
		     updated_at = NOW()`,
		job.ID, job.Title, job.Description, job.PrivateDirections,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert job: %w", err)
	}
	return nil
}

// ListJobs retrieves recent jobs
func (db *DB) ListJobs(ctx context.Context, limit int) ([]types.Job, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := db.pool.Query(ctx,
		`SELECT id, title, description, private_directions
		 FROM jobs ORDER BY created_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	defer rows.Close()

	var jobs []types.Job
	for rows.Next() {
		var job types.Job
		if err := rows.Scan(&job.ID, &job.Title, &job.Description, &job.PrivateDirections); err != nil {
			return nil, fmt.Errorf("failed to scan job: %w", err)
		}
		jobs = append(jobs, job)
	}
	return jobs, nil
}
