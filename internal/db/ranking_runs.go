package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/rankcore/internal/types"
)

// AppendRankingRun persists a ranking run, assigning the next version for
// the job inside a transaction so versions are gapless and strictly
// increasing even under interleaved writers. Prior runs are never modified.
func (db *DB) AppendRankingRun(ctx context.Context, run *types.RankingRun) (*types.RankingRun, error) {
	candidatesJSON, err := json.Marshal(run.Candidates)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal ranked candidates: %w", err)
	}

	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var version int
	err = tx.QueryRow(ctx,
		`SELECT COALESCE(MAX(ranking_version), 0) + 1
		 FROM ranking_runs WHERE job_id = $1`,
		run.JobID,
	).Scan(&version)
	if err != nil {
		return nil, fmt.Errorf("failed to compute ranking version: %w", err)
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO ranking_runs (job_id, ranking_version, algorithm_description, candidates, last_ranked_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		run.JobID, version, run.AlgorithmDescription, candidatesJSON, run.LastRankedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert ranking run: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit ranking run: %w", err)
	}

	stored := *run
	stored.RankingVersion = version
	return &stored, nil
}

// GetLatestRankingRun retrieves the highest-version run for a job, or nil
// when the job has never been ranked.
func (db *DB) GetLatestRankingRun(ctx context.Context, jobID uuid.UUID) (*types.RankingRun, error) {
	var run types.RankingRun
	var candidatesJSON []byte

	err := db.pool.QueryRow(ctx,
		`SELECT job_id, ranking_version, algorithm_description, candidates, last_ranked_at
		 FROM ranking_runs WHERE job_id = $1
		 ORDER BY ranking_version DESC LIMIT 1`,
		jobID,
	).Scan(&run.JobID, &run.RankingVersion, &run.AlgorithmDescription, &candidatesJSON, &run.LastRankedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get latest ranking run: %w", err)
	}

	if err := json.Unmarshal(candidatesJSON, &run.Candidates); err != nil {
		return nil, fmt.Errorf("failed to unmarshal ranked candidates: %w", err)
	}
	return &run, nil
}

// ListRankingRuns retrieves a job's ranking history, newest first.
func (db *DB) ListRankingRuns(ctx context.Context, jobID uuid.UUID, limit int) ([]types.RankingRun, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := db.pool.Query(ctx,
		`SELECT job_id, ranking_version, algorithm_description, candidates, last_ranked_at
		 FROM ranking_runs WHERE job_id = $1
		 ORDER BY ranking_version DESC LIMIT $2`,
		jobID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list ranking runs: %w", err)
	}
	defer rows.Close()

	var runs []types.RankingRun
	for rows.Next() {
		var run types.RankingRun
		var candidatesJSON []byte
		if err := rows.Scan(&run.JobID, &run.RankingVersion, &run.AlgorithmDescription,
			&candidatesJSON, &run.LastRankedAt); err != nil {
			return nil, fmt.Errorf("failed to scan ranking run: %w", err)
		}
		if err := json.Unmarshal(candidatesJSON, &run.Candidates); err != nil {
			return nil, fmt.Errorf("failed to unmarshal ranked candidates: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, nil
}
