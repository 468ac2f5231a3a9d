package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/rankcore/internal/types"
)

// GetApplication retrieves a candidate's application. A missing application
// returns nil without error.
func (db *DB) GetApplication(ctx context.Context, candidateID uuid.UUID) (*types.Application, error) {
	var app types.Application
	var factsJSON []byte

	err := db.pool.QueryRow(ctx,
		`SELECT candidate_id, job_id, facts, resume_text, questionnaire, resume_url, submitted_at
		 FROM applications WHERE candidate_id = $1`,
		candidateID,
	).Scan(&app.CandidateID, &app.JobID, &factsJSON, &app.ResumeText,
		&app.Questionnaire, &app.ResumeURL, &app.SubmittedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get application: %w", err)
	}

	app.Facts, err = unmarshalFacts(factsJSON)
	if err != nil {
		return nil, err
	}

	return &app, nil
}

// UpsertApplication creates or replaces a candidate's application. Extracted
// facts are replaced wholesale; they are derived data and never merged.
func (db *DB) UpsertApplication(ctx context.Context, app *types.Application) error {
	factsJSON, err := marshalFacts(app.Facts)
	if err != nil {
		return err
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO applications (candidate_id, job_id, facts, resume_text, questionnaire, resume_url, submitted_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (candidate_id) DO UPDATE SET
		     job_id = $2,
		     facts = $3,
		     resume_text = $4,
		     questionnaire = $5,
		     resume_url = $6,
		     submitted_at = $7,
		     updated_at = NOW()`,
		app.CandidateID, app.JobID, factsJSON, app.ResumeText,
		app.Questionnaire, app.ResumeURL, app.SubmittedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert application: %w", err)
	}
	return nil
}

// SaveExtractedFacts replaces only the extracted facts of an application,
// leaving the submitted material untouched.
func (db *DB) SaveExtractedFacts(ctx context.Context, candidateID uuid.UUID, facts *types.CandidateFacts) error {
	factsJSON, err := marshalFacts(facts)
	if err != nil {
		return err
	}

	result, err := db.pool.Exec(ctx,
		`UPDATE applications SET facts = $1, updated_at = NOW() WHERE candidate_id = $2`,
		factsJSON, candidateID,
	)
	if err != nil {
		return fmt.Errorf("failed to save extracted facts: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("application not found: %s", candidateID)
	}
	return nil
}

// ListApplicationsForJob retrieves all applications submitted to a job
func (db *DB) ListApplicationsForJob(ctx context.Context, jobID uuid.UUID) ([]types.Application, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT candidate_id, job_id, facts, resume_text, questionnaire, resume_url, submitted_at
		 FROM applications WHERE job_id = $1
		 ORDER BY submitted_at ASC`,
		jobID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	defer rows.Close()

	var apps []types.Application
	for rows.Next() {
		var app types.Application
		var factsJSON []byte
		if err := rows.Scan(&app.CandidateID, &app.JobID, &factsJSON, &app.ResumeText,
			&app.Questionnaire, &app.ResumeURL, &app.SubmittedAt); err != nil {
			return nil, fmt.Errorf("failed to scan application: %w", err)
		}
		if app.Facts, err = unmarshalFacts(factsJSON); err != nil {
			return nil, err
		}
		apps = append(apps, app)
	}
	return apps, nil
}

// marshalFacts renders candidate facts for the JSONB column; nil facts
// store as SQL NULL.
func marshalFacts(facts *types.CandidateFacts) ([]byte, error) {
	if facts == nil {
		return nil, nil
	}
	data, err := json.Marshal(facts)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal candidate facts: %w", err)
	}
	return data, nil
}

func unmarshalFacts(data []byte) (*types.CandidateFacts, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var facts types.CandidateFacts
	if err := json.Unmarshal(data, &facts); err != nil {
		return nil, fmt.Errorf("failed to unmarshal candidate facts: %w", err)
	}
	return &facts, nil
}
