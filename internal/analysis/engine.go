package analysis

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/jonathan/rankcore/internal/scoring"
	"github.com/jonathan/rankcore/internal/types"
)

// Store is the persistence surface the engine needs. Missing records are
// returned as nil without error.
type Store interface {
	GetApplication(ctx context.Context, candidateID uuid.UUID) (*types.Application, error)
	GetJob(ctx context.Context, jobID uuid.UUID) (*types.Job, error)
	GetAnalysisResult(ctx context.Context, candidateID uuid.UUID) (*types.AnalysisResult, error)
	// SaveAnalysisResult must replace any prior result for the candidate
	// atomically (all-or-nothing write).
	SaveAnalysisResult(ctx context.Context, result *types.AnalysisResult) error
}

// Engine analyzes one candidate against one job. Concurrent Analyze calls
// for the same candidate+directions-version share a single in-flight
// computation; the oracle is never called twice for the same key.
type Engine struct {
	store  Store
	scorer scoring.Scorer
	group  singleflight.Group
}

// NewEngine creates an analysis engine over the given store and scorer.
func NewEngine(store Store, scorer scoring.Scorer) *Engine {
	return &Engine{store: store, scorer: scorer}
}

// GetCached returns the stored analysis result for a candidate only if it
// matches the job's current private-directions version. A stale result is a
// cache miss (nil), never returned silently.
func (e *Engine) GetCached(ctx context.Context, candidateID uuid.UUID) (*types.AnalysisResult, error) {
	result, err := e.store.GetAnalysisResult(ctx, candidateID)
	if err != nil || result == nil {
		return nil, err
	}

	app, err := e.store.GetApplication(ctx, candidateID)
	if err != nil {
		return nil, err
	}
	if app == nil {
		return nil, &NotFoundError{Entity: "application", ID: candidateID}
	}

	job, err := e.store.GetJob(ctx, app.JobID)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, &NotFoundError{Entity: "job", ID: app.JobID}
	}

	if !result.IsCurrent(job.DirectionsHash()) {
		return nil, nil
	}
	return result, nil
}

// Analyze returns the cached result when present and current (unless force
// is set), otherwise performs a fresh scoring pass and stores the result.
func (e *Engine) Analyze(ctx context.Context, candidateID uuid.UUID, force bool) (*types.AnalysisResult, error) {
	app, err := e.store.GetApplication(ctx, candidateID)
	if err != nil {
		return nil, err
	}
	if app == nil {
		return nil, &NotFoundError{Entity: "application", ID: candidateID}
	}

	job, err := e.store.GetJob(ctx, app.JobID)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, &NotFoundError{Entity: "job", ID: app.JobID}
	}

	key := types.AnalysisKey{CandidateID: candidateID, DirectionsHash: job.DirectionsHash()}

	if !force {
		cached, err := e.store.GetAnalysisResult(ctx, candidateID)
		if err != nil {
			return nil, err
		}
		if cached != nil && cached.IsCurrent(key.DirectionsHash) {
			return cached, nil
		}
	}

	// At-most-one concurrent computation per candidate+directions-version:
	// concurrent callers await the shared in-flight pass.
	v, err, _ := e.group.Do(key.String(), func() (any, error) {
		if !force {
			// A concurrent caller may have stored a result while this
			// one was waiting on the flight group.
			cached, err := e.store.GetAnalysisResult(ctx, candidateID)
			if err != nil {
				return nil, err
			}
			if cached != nil && cached.IsCurrent(key.DirectionsHash) {
				return cached, nil
			}
		}
		return e.freshPass(ctx, app, job, key)
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, err
	}

	return v.(*types.AnalysisResult), nil
}

// freshPass runs one complete scoring pass and persists the result.
// Nothing is written unless the oracle returned a fully valid score card.
func (e *Engine) freshPass(ctx context.Context, app *types.Application, job *types.Job, key types.AnalysisKey) (*types.AnalysisResult, error) {
	if !app.HasResume() {
		return nil, &IncompleteApplicationError{CandidateID: app.CandidateID, Missing: ArtifactResume}
	}
	if !app.HasQuestionnaire() {
		return nil, &IncompleteApplicationError{CandidateID: app.CandidateID, Missing: ArtifactQuestionnaire}
	}

	payload := &types.ScorePayload{
		JobTitle:          job.Title,
		JobDescription:    job.Description,
		PrivateDirections: job.PrivateDirections,
		ResumeText:        app.BestResumeText(),
		QuestionnaireText: app.Questionnaire,
	}

	card, err := e.scorer.Score(ctx, payload)
	if err != nil {
		return nil, err
	}

	resume, questionery, compliance, final := scoring.Aggregate(card)

	result := &types.AnalysisResult{
		CandidateID:      app.CandidateID,
		JobID:            job.ID,
		DirectionsHash:   key.DirectionsHash,
		ResumeScore:      resume,
		QuestioneryScore: questionery,
		ComplianceScore:  compliance,
		FinalScore:       final,
		StrongPoints:     card.StrongPoints,
		WeakPoints:       card.WeakPoints,
		ScoreSource:      types.ScoreSourceOracle,
		AnalyzedAt:       time.Now().UTC(),
	}

	if err := ctx.Err(); err != nil {
		// Caller cancelled mid-pass: discard the work, persist nothing.
		return nil, err
	}

	result.Stored = true
	if err := e.store.SaveAnalysisResult(ctx, result); err != nil {
		return nil, err
	}

	return result, nil
}
