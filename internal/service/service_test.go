package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/rankcore/internal/analysis"
	"github.com/jonathan/rankcore/internal/extraction"
	"github.com/jonathan/rankcore/internal/types"
)

// fakeStore is an in-memory Store for facade tests.
type fakeStore struct {
	mu      sync.Mutex
	apps    map[uuid.UUID]*types.Application
	jobs    map[uuid.UUID]*types.Job
	results map[uuid.UUID]*types.AnalysisResult
	saved   map[uuid.UUID]*types.CandidateFacts
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		apps:    make(map[uuid.UUID]*types.Application),
		jobs:    make(map[uuid.UUID]*types.Job),
		results: make(map[uuid.UUID]*types.AnalysisResult),
		saved:   make(map[uuid.UUID]*types.CandidateFacts),
	}
}

func (s *fakeStore) GetApplication(_ context.Context, candidateID uuid.UUID) (*types.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.apps[candidateID], nil
}

func (s *fakeStore) GetJob(_ context.Context, jobID uuid.UUID) (*types.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jobs[jobID], nil
}

func (s *fakeStore) GetAnalysisResult(_ context.Context, candidateID uuid.UUID) (*types.AnalysisResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.results[candidateID], nil
}

func (s *fakeStore) ListApplicationsForJob(_ context.Context, jobID uuid.UUID) ([]types.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var apps []types.Application
	for _, app := range s.apps {
		if app.JobID == jobID {
			apps = append(apps, *app)
		}
	}
	return apps, nil
}

func (s *fakeStore) SaveExtractedFacts(_ context.Context, candidateID uuid.UUID, facts *types.CandidateFacts) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saved[candidateID] = facts
	return nil
}

// fakeExtractor returns canned facts.
type fakeExtractor struct {
	mu    sync.Mutex
	facts *types.CandidateFacts
	err   error
	calls int
}

func (e *fakeExtractor) Extract(_ context.Context, _ extraction.Source, _ bool) (*types.CandidateFacts, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls++
	return e.facts, e.err
}

// fakeAnalyzer records calls and returns a canned result.
type fakeAnalyzer struct {
	mu     sync.Mutex
	result *types.AnalysisResult
	err    error
	calls  int
}

func (a *fakeAnalyzer) Analyze(ctx context.Context, candidateID uuid.UUID, _ bool) (*types.AnalysisResult, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	a.calls++
	if a.err != nil {
		return nil, a.err
	}
	if a.result != nil {
		return a.result, nil
	}
	return &types.AnalysisResult{CandidateID: candidateID, FinalScore: 75, Stored: true}, nil
}

func (a *fakeAnalyzer) GetCached(_ context.Context, candidateID uuid.UUID) (*types.AnalysisResult, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.result, a.err
}

type fakeRanker struct {
	run *types.RankingRun
	err error
}

func (r *fakeRanker) Rank(_ context.Context, _ uuid.UUID) (*types.RankingRun, error) {
	return r.run, r.err
}

func oracleFacts() *types.CandidateFacts {
	return &types.CandidateFacts{
		Name:   "Ada Lovelace",
		Skills: []string{"Go"},
		Method: types.ExtractionOracle,
	}
}

func seedApplication(store *fakeStore) *types.Application {
	app := &types.Application{
		CandidateID:   uuid.New(),
		JobID:         uuid.New(),
		ResumeText:    "ten years of backend work",
		Questionnaire: "answers",
		SubmittedAt:   time.Now().UTC(),
	}
	store.apps[app.CandidateID] = app
	return app
}

func TestAnalyzeApplication_ExtractsOnDemand(t *testing.T) {
	store := newFakeStore()
	app := seedApplication(store)

	extractor := &fakeExtractor{facts: oracleFacts()}
	analyzer := &fakeAnalyzer{}
	svc := New(store, extractor, analyzer, &fakeRanker{}, WithOracleExtraction(true))

	result, err := svc.AnalyzeApplication(context.Background(), app.CandidateID, false, false)
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.Equal(t, 1, extractor.calls)
	assert.Equal(t, 1, analyzer.calls)
	assert.Equal(t, oracleFacts(), store.saved[app.CandidateID], "extracted facts are persisted")
}

func TestAnalyzeApplication_SkipsExtractionWhenFactsPresent(t *testing.T) {
	store := newFakeStore()
	app := seedApplication(store)
	app.Facts = oracleFacts()

	extractor := &fakeExtractor{}
	analyzer := &fakeAnalyzer{}
	svc := New(store, extractor, analyzer, &fakeRanker{})

	_, err := svc.AnalyzeApplication(context.Background(), app.CandidateID, false, false)
	require.NoError(t, err)

	assert.Zero(t, extractor.calls)
	assert.Equal(t, 1, analyzer.calls)
}

func TestAnalyzeApplication_StrictRejectsRawFacts(t *testing.T) {
	store := newFakeStore()
	app := seedApplication(store)
	app.Facts = &types.CandidateFacts{Summary: "flat text", Method: types.ExtractionRaw}

	analyzer := &fakeAnalyzer{}
	svc := New(store, &fakeExtractor{}, analyzer, &fakeRanker{})

	_, err := svc.AnalyzeApplication(context.Background(), app.CandidateID, false, true)

	var strictErr *StrictExtractionError
	require.True(t, errors.As(err, &strictErr))
	assert.Equal(t, app.CandidateID, strictErr.CandidateID)
	assert.Zero(t, analyzer.calls)
}

func TestAnalyzeApplication_StrictRejectsRawExtraction(t *testing.T) {
	store := newFakeStore()
	app := seedApplication(store)

	extractor := &fakeExtractor{facts: &types.CandidateFacts{Summary: "flat", Method: types.ExtractionRaw}}
	svc := New(store, extractor, &fakeAnalyzer{}, &fakeRanker{}, WithOracleExtraction(true))

	_, err := svc.AnalyzeApplication(context.Background(), app.CandidateID, false, true)

	var strictErr *StrictExtractionError
	require.True(t, errors.As(err, &strictErr))
}

func TestAnalyzeApplication_ExtractionFailureDegrades(t *testing.T) {
	store := newFakeStore()
	app := seedApplication(store)

	extractor := &fakeExtractor{err: errors.New("oracle down")}
	analyzer := &fakeAnalyzer{}
	svc := New(store, extractor, analyzer, &fakeRanker{}, WithOracleExtraction(true))

	_, err := svc.AnalyzeApplication(context.Background(), app.CandidateID, false, false)
	require.NoError(t, err, "extraction failure is degraded input, not a facade error")

	assert.Equal(t, 1, analyzer.calls)
	assert.Empty(t, store.saved)
}

func TestAnalyzeApplication_StrictSurfacesExtractionFailure(t *testing.T) {
	store := newFakeStore()
	app := seedApplication(store)

	extractor := &fakeExtractor{err: errors.New("oracle down")}
	svc := New(store, extractor, &fakeAnalyzer{}, &fakeRanker{})

	_, err := svc.AnalyzeApplication(context.Background(), app.CandidateID, false, true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "oracle down")
}

func TestAnalyzeApplication_NoResumeSource(t *testing.T) {
	store := newFakeStore()
	app := seedApplication(store)
	app.ResumeText = ""

	analyzer := &fakeAnalyzer{}
	svc := New(store, &fakeExtractor{}, analyzer, &fakeRanker{})

	// Non-strict: the analysis engine owns the incomplete-application report
	_, err := svc.AnalyzeApplication(context.Background(), app.CandidateID, false, false)
	require.NoError(t, err)
	assert.Equal(t, 1, analyzer.calls)

	var noSource *NoResumeSourceError
	_, err = svc.AnalyzeApplication(context.Background(), app.CandidateID, false, true)
	require.True(t, errors.As(err, &noSource))
}

func TestAnalyzeApplication_UnknownCandidate(t *testing.T) {
	svc := New(newFakeStore(), &fakeExtractor{}, &fakeAnalyzer{}, &fakeRanker{})

	_, err := svc.AnalyzeApplication(context.Background(), uuid.New(), false, false)

	var notFound *analysis.NotFoundError
	require.True(t, errors.As(err, &notFound))
}

func TestGetAnalysisResults(t *testing.T) {
	want := &types.AnalysisResult{CandidateID: uuid.New(), FinalScore: 88, Stored: true}
	svc := New(newFakeStore(), &fakeExtractor{}, &fakeAnalyzer{result: want}, &fakeRanker{})

	got, err := svc.GetAnalysisResults(context.Background(), want.CandidateID)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestRankCandidatesForJob(t *testing.T) {
	want := &types.RankingRun{JobID: uuid.New(), RankingVersion: 3}
	svc := New(newFakeStore(), &fakeExtractor{}, &fakeAnalyzer{}, &fakeRanker{run: want})

	got, err := svc.RankCandidatesForJob(context.Background(), want.JobID)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
