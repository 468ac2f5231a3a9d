package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/rankcore/internal/types"
)

// GetAnalysisResult retrieves the stored analysis result for a candidate,
// whatever directions version it was computed under. Staleness is the
// caller's concern; a missing result returns nil without error.
func (db *DB) GetAnalysisResult(ctx context.Context, candidateID uuid.UUID) (*types.AnalysisResult, error) {
	var r types.AnalysisResult
	err := db.pool.QueryRow(ctx,
		`SELECT candidate_id, job_id, directions_hash, resume_score, questionery_score,
		        compliance_score, final_score, strong_points, weak_points, score_source, analyzed_at
		 FROM analysis_results WHERE candidate_id = $1`,
		candidateID,
	).Scan(&r.CandidateID, &r.JobID, &r.DirectionsHash, &r.ResumeScore, &r.QuestioneryScore,
		&r.ComplianceScore, &r.FinalScore, &r.StrongPoints, &r.WeakPoints, &r.ScoreSource, &r.AnalyzedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get analysis result: %w", err)
	}

	r.Stored = true
	return &r, nil
}

// SaveAnalysisResult stores an analysis result, atomically replacing any
// prior result for the candidate. One row per candidate is the invariant:
// a recomputation supersedes, it never accumulates.
func (db *DB) SaveAnalysisResult(ctx context.Context, result *types.AnalysisResult) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO analysis_results (candidate_id, job_id, directions_hash, resume_score,
		                               questionery_score, compliance_score, final_score,
		                               strong_points, weak_points, score_source, analyzed_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 ON CONFLICT (candidate_id) DO UPDATE SET
		     job_id = $2,
		     directions_hash = $3,
		     resume_score = $4,
		     questionery_score = $5,
		     compliance_score = $6,
		     final_score = $7,
		     strong_points = $8,
		     weak_points = $9,
		     score_source = $10,
		     analyzed_at = $11,
		     updated_at = NOW()`,
		result.CandidateID, result.JobID, result.DirectionsHash, result.ResumeScore,
		result.QuestioneryScore, result.ComplianceScore, result.FinalScore,
		result.StrongPoints, result.WeakPoints, result.ScoreSource, result.AnalyzedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save analysis result: %w", err)
	}
	return nil
}

// ListAnalysisResultsForJob retrieves every stored result for a job's
// candidates, current and stale alike.
func (db *DB) ListAnalysisResultsForJob(ctx context.Context, jobID uuid.UUID) ([]*types.AnalysisResult, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT candidate_id, job_id, directions_hash, resume_score, questionery_score,
		        compliance_score, final_score, strong_points, weak_points, score_source, analyzed_at
		 FROM analysis_results WHERE job_id = $1
		 ORDER BY analyzed_at ASC`,
		jobID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list analysis results: %w", err)
	}
	defer rows.Close()

	var results []*types.AnalysisResult
	for rows.Next() {
		var r types.AnalysisResult
		if err := rows.Scan(&r.CandidateID, &r.JobID, &r.DirectionsHash, &r.ResumeScore,
			&r.QuestioneryScore, &r.ComplianceScore, &r.FinalScore, &r.StrongPoints,
			&r.WeakPoints, &r.ScoreSource, &r.AnalyzedAt); err != nil {
			return nil, fmt.Errorf("failed to scan analysis result: %w", err)
		}
		r.Stored = true
		results = append(results, &r)
	}
	return results, nil
}

// DeleteAnalysisResult removes a candidate's stored result, forcing a fresh
// pass on the next analysis request.
func (db *DB) DeleteAnalysisResult(ctx context.Context, candidateID uuid.UUID) error {
	_, err := db.pool.Exec(ctx,
		`DELETE FROM analysis_results WHERE candidate_id = $1`, candidateID)
	if err != nil {
		return fmt.Errorf("failed to delete analysis result: %w", err)
	}
	return nil
}
