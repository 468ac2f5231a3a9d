package analysis

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/rankcore/internal/scoring"
	"github.com/jonathan/rankcore/internal/types"
)

// fakeStore is an in-memory Store for engine tests.
type fakeStore struct {
	mu      sync.Mutex
	apps    map[uuid.UUID]*types.Application
	jobs    map[uuid.UUID]*types.Job
	results map[uuid.UUID]*types.AnalysisResult
	saves   int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		apps:    make(map[uuid.UUID]*types.Application),
		jobs:    make(map[uuid.UUID]*types.Job),
		results: make(map[uuid.UUID]*types.AnalysisResult),
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

func (s *fakeStore) SaveAnalysisResult(_ context.Context, result *types.AnalysisResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saves++
	s.results[result.CandidateID] = result
	return nil
}

// fakeScorer returns a canned card, optionally blocking until released.
type fakeScorer struct {
	mu    sync.Mutex
	card  *scoring.ScoreCard
	err   error
	gate  chan struct{} // when set, Score blocks until the gate closes
	calls int
}

func (f *fakeScorer) Score(ctx context.Context, _ *types.ScorePayload) (*scoring.ScoreCard, error) {
	f.mu.Lock()
	f.calls++
	gate := f.gate
	f.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, &scoring.OracleUnavailableError{Attempts: 1, Cause: ctx.Err()}
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.card, nil
}

func (f *fakeScorer) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func seedApplication(store *fakeStore, directions string) (uuid.UUID, *types.Job) {
	jobID := uuid.New()
	candidateID := uuid.New()
	job := &types.Job{
		ID:                jobID,
		Title:             "Backend Engineer",
		Description:       "Build services in Go.",
		PrivateDirections: directions,
	}
	store.jobs[jobID] = job
	store.apps[candidateID] = &types.Application{
		CandidateID:   candidateID,
		JobID:         jobID,
		ResumeText:    "5 years of Go.",
		Questionnaire: "I like distributed systems.",
		SubmittedAt:   time.Now(),
	}
	return candidateID, job
}

func scoreCard(compliance float64) *scoring.ScoreCard {
	return &scoring.ScoreCard{
		ResumeScore:      80,
		QuestioneryScore: 70,
		ComplianceScore:  &compliance,
		StrongPoints:     []string{"Go depth"},
		WeakPoints:       []string{"no Kubernetes"},
	}
}

func TestAnalyze_FreshPass(t *testing.T) {
	store := newFakeStore()
	candidateID, job := seedApplication(store, "prefer OSS work")
	scorer := &fakeScorer{card: scoreCard(90)}
	engine := NewEngine(store, scorer)

	result, err := engine.Analyze(context.Background(), candidateID, false)
	require.NoError(t, err)

	assert.Equal(t, candidateID, result.CandidateID)
	assert.Equal(t, job.DirectionsHash(), result.DirectionsHash)
	assert.Equal(t, 80.0, result.ResumeScore)
	// Compliance dominates when the oracle supplies no final score
	assert.Equal(t, 90.0, result.FinalScore)
	assert.Equal(t, types.ScoreSourceOracle, result.ScoreSource)
	assert.True(t, result.Stored)
	assert.False(t, result.AnalyzedAt.IsZero())
	assert.Equal(t, 1, store.saves)
}

func TestAnalyze_CacheHit(t *testing.T) {
	store := newFakeStore()
	candidateID, _ := seedApplication(store, "prefer OSS work")
	scorer := &fakeScorer{card: scoreCard(90)}
	engine := NewEngine(store, scorer)

	first, err := engine.Analyze(context.Background(), candidateID, false)
	require.NoError(t, err)

	second, err := engine.Analyze(context.Background(), candidateID, false)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, scorer.callCount(), "cache hit must not call the oracle")
}

func TestAnalyze_ForceRecomputes(t *testing.T) {
	store := newFakeStore()
	candidateID, _ := seedApplication(store, "prefer OSS work")
	scorer := &fakeScorer{card: scoreCard(90)}
	engine := NewEngine(store, scorer)

	_, err := engine.Analyze(context.Background(), candidateID, false)
	require.NoError(t, err)

	_, err = engine.Analyze(context.Background(), candidateID, true)
	require.NoError(t, err)

	assert.Equal(t, 2, scorer.callCount())
	assert.Equal(t, 2, store.saves)
}

func TestAnalyze_DirectionsChangeInvalidatesCache(t *testing.T) {
	store := newFakeStore()
	candidateID, job := seedApplication(store, "prefer OSS work")
	scorer := &fakeScorer{card: scoreCard(90)}
	engine := NewEngine(store, scorer)

	_, err := engine.Analyze(context.Background(), candidateID, false)
	require.NoError(t, err)

	// Recruiter edits the private directions
	job.PrivateDirections = "prefer fintech background"

	cached, err := engine.GetCached(context.Background(), candidateID)
	require.NoError(t, err)
	assert.Nil(t, cached, "stale result must be a cache miss, never returned")

	result, err := engine.Analyze(context.Background(), candidateID, false)
	require.NoError(t, err)
	assert.Equal(t, job.DirectionsHash(), result.DirectionsHash)
	assert.Equal(t, 2, scorer.callCount(), "directions change must force recomputation")
}

func TestGetCached_CurrentResult(t *testing.T) {
	store := newFakeStore()
	candidateID, _ := seedApplication(store, "prefer OSS work")
	scorer := &fakeScorer{card: scoreCard(90)}
	engine := NewEngine(store, scorer)

	_, err := engine.Analyze(context.Background(), candidateID, false)
	require.NoError(t, err)

	cached, err := engine.GetCached(context.Background(), candidateID)
	require.NoError(t, err)
	require.NotNil(t, cached)
	assert.Equal(t, candidateID, cached.CandidateID)
}

func TestGetCached_NoResult(t *testing.T) {
	store := newFakeStore()
	candidateID, _ := seedApplication(store, "")
	engine := NewEngine(store, &fakeScorer{card: scoreCard(90)})

	cached, err := engine.GetCached(context.Background(), candidateID)
	require.NoError(t, err)
	assert.Nil(t, cached)
}

func TestAnalyze_MissingQuestionnaire(t *testing.T) {
	store := newFakeStore()
	candidateID, _ := seedApplication(store, "")
	store.apps[candidateID].Questionnaire = ""
	scorer := &fakeScorer{card: scoreCard(90)}
	engine := NewEngine(store, scorer)

	_, err := engine.Analyze(context.Background(), candidateID, false)

	var incomplete *IncompleteApplicationError
	require.True(t, errors.As(err, &incomplete))
	assert.Equal(t, ArtifactQuestionnaire, incomplete.Missing)
	assert.Zero(t, scorer.callCount())
	assert.Zero(t, store.saves, "no result may be stored for an incomplete application")
}

func TestAnalyze_MissingResume(t *testing.T) {
	store := newFakeStore()
	candidateID, _ := seedApplication(store, "")
	store.apps[candidateID].ResumeText = ""
	engine := NewEngine(store, &fakeScorer{card: scoreCard(90)})

	_, err := engine.Analyze(context.Background(), candidateID, false)

	var incomplete *IncompleteApplicationError
	require.True(t, errors.As(err, &incomplete))
	assert.Equal(t, ArtifactResume, incomplete.Missing)
}

func TestAnalyze_UnknownCandidate(t *testing.T) {
	store := newFakeStore()
	engine := NewEngine(store, &fakeScorer{card: scoreCard(90)})

	_, err := engine.Analyze(context.Background(), uuid.New(), false)

	var notFound *NotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, "application", notFound.Entity)
}

func TestAnalyze_OracleFailureStoresNothing(t *testing.T) {
	store := newFakeStore()
	candidateID, _ := seedApplication(store, "")
	scorer := &fakeScorer{err: &scoring.OracleUnavailableError{Attempts: 3, Cause: errors.New("down")}}
	engine := NewEngine(store, scorer)

	_, err := engine.Analyze(context.Background(), candidateID, false)

	var unavailable *scoring.OracleUnavailableError
	require.True(t, errors.As(err, &unavailable))
	assert.Zero(t, store.saves)
}

func TestAnalyze_ConcurrentCallsShareOneOracleCall(t *testing.T) {
	store := newFakeStore()
	candidateID, _ := seedApplication(store, "prefer OSS work")
	gate := make(chan struct{})
	scorer := &fakeScorer{card: scoreCard(90), gate: gate}
	engine := NewEngine(store, scorer)

	const callers = 4
	results := make([]*types.AnalysisResult, callers)
	errs := make([]error, callers)

	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = engine.Analyze(context.Background(), candidateID, false)
		}(i)
	}

	// Wait for the first caller to reach the oracle, then release it.
	require.Eventually(t, func() bool { return scorer.callCount() >= 1 }, time.Second, time.Millisecond)
	close(gate)
	wg.Wait()

	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, results[0], results[i], "all concurrent callers must receive the same result")
	}
	assert.Equal(t, 1, scorer.callCount(), "exactly one oracle call for concurrent analyses")
	assert.Equal(t, 1, store.saves)
}
