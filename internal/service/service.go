package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/jonathan/rankcore/internal/analysis"
	"github.com/jonathan/rankcore/internal/extraction"
	"github.com/jonathan/rankcore/internal/types"
)

// Store is the persistence surface the facade needs beyond what the engines
// already own. Missing records are returned as nil without error.
type Store interface {
	GetApplication(ctx context.Context, candidateID uuid.UUID) (*types.Application, error)
	GetJob(ctx context.Context, jobID uuid.UUID) (*types.Job, error)
	GetAnalysisResult(ctx context.Context, candidateID uuid.UUID) (*types.AnalysisResult, error)
	ListApplicationsForJob(ctx context.Context, jobID uuid.UUID) ([]types.Application, error)
	SaveExtractedFacts(ctx context.Context, candidateID uuid.UUID, facts *types.CandidateFacts) error
}

// Extractor is the slice of the extraction layer the facade uses.
type Extractor interface {
	Extract(ctx context.Context, source extraction.Source, useOracle bool) (*types.CandidateFacts, error)
}

// Analyzer is the slice of the analysis engine the facade uses.
type Analyzer interface {
	Analyze(ctx context.Context, candidateID uuid.UUID, force bool) (*types.AnalysisResult, error)
	GetCached(ctx context.Context, candidateID uuid.UUID) (*types.AnalysisResult, error)
}

// Ranker is the slice of the ranking engine the facade uses.
type Ranker interface {
	Rank(ctx context.Context, jobID uuid.UUID) (*types.RankingRun, error)
}

// Service is the application facade: extraction on demand, cached analysis,
// comparative ranking.
type Service struct {
	store     Store
	extractor Extractor
	analyzer  Analyzer
	ranker    Ranker

	useOracleExtraction bool
	maxConcurrent       int
}

// Option configures a Service.
type Option func(*Service)

// WithOracleExtraction enables LLM-structured extraction for applications
// that have resume material but no facts yet.
func WithOracleExtraction(enabled bool) Option {
	return func(s *Service) { s.useOracleExtraction = enabled }
}

// WithMaxConcurrent bounds how many candidates AnalyzeAll works in parallel.
func WithMaxConcurrent(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxConcurrent = n
		}
	}
}

// New creates the facade over a store, extractor, and the two engines.
func New(store Store, extractor Extractor, analyzer Analyzer, ranker Ranker, opts ...Option) *Service {
	s := &Service{
		store:         store,
		extractor:     extractor,
		analyzer:      analyzer,
		ranker:        ranker,
		maxConcurrent: 4,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AnalyzeApplication analyzes one candidate, extracting facts on demand when
// the stored application has resume material but no parse yet. In strict
// mode a raw-fallback extraction is an error instead of degraded input.
func (s *Service) AnalyzeApplication(ctx context.Context, candidateID uuid.UUID, force, strict bool) (*types.AnalysisResult, error) {
	app, err := s.store.GetApplication(ctx, candidateID)
	if err != nil {
		return nil, err
	}
	if app == nil {
		return nil, &analysis.NotFoundError{Entity: "application", ID: candidateID}
	}

	if err := s.ensureFacts(ctx, app, strict); err != nil {
		return nil, err
	}

	return s.analyzer.Analyze(ctx, candidateID, force)
}

// GetAnalysisResults returns the candidate's stored analysis result, or nil
// when none exists or the job's private directions changed since it was
// computed.
func (s *Service) GetAnalysisResults(ctx context.Context, candidateID uuid.UUID) (*types.AnalysisResult, error) {
	return s.analyzer.GetCached(ctx, candidateID)
}

// RankCandidatesForJob produces a new versioned ranking run over the job's
// analyzed candidates.
func (s *Service) RankCandidatesForJob(ctx context.Context, jobID uuid.UUID) (*types.RankingRun, error) {
	return s.ranker.Rank(ctx, jobID)
}

// ensureFacts runs extraction for an application that has resume material
// but no stored facts, persisting the result. Extraction failures degrade to
// whatever material is already stored unless strict mode is on.
func (s *Service) ensureFacts(ctx context.Context, app *types.Application, strict bool) error {
	if app.Facts != nil {
		if strict && !app.Facts.IsStructured() {
			return &StrictExtractionError{CandidateID: app.CandidateID}
		}
		return nil
	}

	var source extraction.Source
	switch {
	case app.ResumeURL != "":
		source = extraction.Source{URL: app.ResumeURL}
	case app.ResumeText != "":
		source = extraction.Source{Bytes: []byte(app.ResumeText), Filename: "resume.txt"}
	default:
		if strict {
			return &NoResumeSourceError{CandidateID: app.CandidateID}
		}
		// Nothing to extract; the analysis engine reports the missing
		// artifact with full context.
		return nil
	}

	facts, err := s.extractor.Extract(ctx, source, s.useOracleExtraction)
	if err != nil {
		if strict {
			return err
		}
		return nil
	}

	if strict && !facts.IsStructured() {
		return &StrictExtractionError{CandidateID: app.CandidateID}
	}

	if err := s.store.SaveExtractedFacts(ctx, app.CandidateID, facts); err != nil {
		return err
	}
	app.Facts = facts
	return nil
}
