package types

import (
	"time"

	"github.com/google/uuid"
)

// RankedCandidate is one entry in a ranking run: a candidate's dense rank
// plus the human-readable rationale that produced its position.
type RankedCandidate struct {
	CandidateID uuid.UUID `json:"candidate_id"`
	Rank        int       `json:"rank"`
	Rationale   string    `json:"rationale"`
}

// RankingRun records one complete ranking pass over a job's analyzed
// candidates. Ranks are a dense 1..N ordering with no ties; RankingVersion
// strictly increases each time ranking is re-run for the job.
type RankingRun struct {
	JobID                uuid.UUID         `json:"job_id"`
	RankingVersion       int               `json:"ranking_version"`
	AlgorithmDescription string            `json:"algorithm_description"`
	LastRankedAt         time.Time         `json:"last_ranked_at"`
	Candidates           []RankedCandidate `json:"candidates"`
}

// ValidRanks reports whether the run's rank values are exactly the dense
// set {1..N} with no duplicates and no gaps.
func (r *RankingRun) ValidRanks() bool {
	seen := make(map[int]bool, len(r.Candidates))
	for _, c := range r.Candidates {
		if c.Rank < 1 || c.Rank > len(r.Candidates) || seen[c.Rank] {
			return false
		}
		seen[c.Rank] = true
	}
	return len(seen) == len(r.Candidates)
}
