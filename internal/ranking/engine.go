package ranking

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/rankcore/internal/types"
)

// Store is the persistence surface the ranking engine needs.
type Store interface {
	GetJob(ctx context.Context, jobID uuid.UUID) (*types.Job, error)
	// ListAnalysisResultsForJob returns every stored analysis result for the
	// job's candidates, regardless of directions version.
	ListAnalysisResultsForJob(ctx context.Context, jobID uuid.UUID) ([]*types.AnalysisResult, error)
	// AppendRankingRun persists the run atomically, assigning
	// RankingVersion = previous version + 1 for the job (starting at 1),
	// and returns the stored run.
	AppendRankingRun(ctx context.Context, run *types.RankingRun) (*types.RankingRun, error)
}

// Engine ranks a job's analyzed candidates. Passes for the same job are
// mutually exclusive; a concurrent request fails fast with
// ConcurrentRankingError instead of queueing.
type Engine struct {
	store Store
	judge Judge // nil disables pairwise refinement

	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

// NewEngine creates a ranking engine. judge may be nil, which makes every
// pass purely deterministic.
func NewEngine(store Store, judge Judge) *Engine {
	return &Engine{
		store: store,
		judge: judge,
		locks: make(map[uuid.UUID]*sync.Mutex),
	}
}

// jobLock returns the mutex guarding ranking passes for one job.
func (e *Engine) jobLock(jobID uuid.UUID) *sync.Mutex {
	e.mu.Lock()
	defer e.mu.Unlock()
	lock, ok := e.locks[jobID]
	if !ok {
		lock = &sync.Mutex{}
		e.locks[jobID] = lock
	}
	return lock
}

// Rank produces a new RankingRun over all candidates of the job that have a
// current-directions analysis result. Zero eligible candidates yields an
// empty (but versioned) run.
func (e *Engine) Rank(ctx context.Context, jobID uuid.UUID) (*types.RankingRun, error) {
	lock := e.jobLock(jobID)
	if !lock.TryLock() {
		return nil, &ConcurrentRankingError{JobID: jobID}
	}
	defer lock.Unlock()

	job, err := e.store.GetJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, &JobNotFoundError{JobID: jobID}
	}

	results, err := e.store.ListAnalysisResultsForJob(ctx, jobID)
	if err != nil {
		return nil, err
	}

	directionsHash := job.DirectionsHash()
	eligible := make([]*types.AnalysisResult, 0, len(results))
	for _, r := range results {
		if r.IsCurrent(directionsHash) {
			eligible = append(eligible, r)
		}
	}

	ordered, judgeNotes, judgeUsed := e.order(ctx, job, eligible)

	description := AlgorithmDescription
	if judgeUsed {
		description += "; near-ties refined by pairwise LLM judge"
	}

	run := &types.RankingRun{
		JobID:                jobID,
		AlgorithmDescription: description,
		LastRankedAt:         time.Now().UTC(),
		Candidates:           make([]types.RankedCandidate, 0, len(ordered)),
	}

	for i, r := range ordered {
		var below *types.AnalysisResult
		if i+1 < len(ordered) {
			below = ordered[i+1]
		}
		run.Candidates = append(run.Candidates, types.RankedCandidate{
			CandidateID: r.CandidateID,
			Rank:        i + 1,
			Rationale:   rationale(r, below, judgeNotes[r.CandidateID]),
		})
	}

	if err := ctx.Err(); err != nil {
		// Caller cancelled: discard the pass, persist nothing.
		return nil, err
	}

	stored, err := e.store.AppendRankingRun(ctx, run)
	if err != nil {
		return nil, err
	}

	return stored, nil
}

// order sorts eligible results with the deterministic chain, then lets the
// judge (when configured) refine adjacent near-ties. A judge failure stops
// refinement for the rest of the pass; the deterministic order stands.
func (e *Engine) order(ctx context.Context, job *types.Job, eligible []*types.AnalysisResult) ([]*types.AnalysisResult, map[uuid.UUID]string, bool) {
	ordered := make([]*types.AnalysisResult, len(eligible))
	copy(ordered, eligible)

	sort.SliceStable(ordered, func(i, j int) bool {
		return Less(ordered[i], ordered[j])
	})

	judgeNotes := make(map[uuid.UUID]string)
	if e.judge == nil {
		return ordered, judgeNotes, false
	}

	judgeUsed := false
	for i := 0; i+1 < len(ordered); i++ {
		a, b := ordered[i], ordered[i+1]
		if a.FinalScore-b.FinalScore > NearTieThreshold {
			continue
		}

		verdict, err := e.judge.Compare(ctx, job, a, b)
		if err != nil {
			// Graceful degradation: remaining comparisons fall back to
			// the deterministic ordering already in place.
			break
		}
		judgeUsed = true

		if verdict.Winner == b.CandidateID {
			ordered[i], ordered[i+1] = b, a
			judgeNotes[b.CandidateID] = verdict.Reasoning
		} else {
			judgeNotes[a.CandidateID] = verdict.Reasoning
		}
	}

	return ordered, judgeNotes, judgeUsed
}
