package types

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ScoreSource identifies which path produced the scores in an AnalysisResult.
type ScoreSource string

const (
	// ScoreSourceOracle means the scoring oracle produced the scores.
	ScoreSourceOracle ScoreSource = "oracle"
	// ScoreSourceFallback means a degraded path produced the scores.
	ScoreSourceFallback ScoreSource = "fallback"
)

// AnalysisKey is the composite cache identity for an analysis result:
// the candidate plus the version of the job's private directions the
// analysis was computed against. Keeping it an explicit type keeps the
// invalidation semantics auditable.
type AnalysisKey struct {
	CandidateID    uuid.UUID
	DirectionsHash string
}

// String renders the key for use with keyed single-flight execution.
func (k AnalysisKey) String() string {
	return fmt.Sprintf("%s@%s", k.CandidateID, k.DirectionsHash)
}

// AnalysisResult is the scored, explained evaluation of one candidate
// against one job, valid for a single private-directions version.
// All four scores are clamped to [0,100]. A stored result is immutable
// except for wholesale superseding replacement.
type AnalysisResult struct {
	CandidateID      uuid.UUID   `json:"candidate_id"`
	JobID            uuid.UUID   `json:"job_id"`
	DirectionsHash   string      `json:"directions_hash"`
	ResumeScore      float64     `json:"resume_score"`
	QuestioneryScore float64     `json:"questionery_score"`
	ComplianceScore  float64     `json:"compliance_score"`
	FinalScore       float64     `json:"final_score"`
	StrongPoints     []string    `json:"strong_points,omitempty"`
	WeakPoints       []string    `json:"weak_points,omitempty"`
	ScoreSource      ScoreSource `json:"score_source"`
	AnalyzedAt       time.Time   `json:"analyzed_at"`
	Stored           bool        `json:"stored"`
}

// Key returns the composite cache key this result was computed under.
func (r *AnalysisResult) Key() AnalysisKey {
	return AnalysisKey{CandidateID: r.CandidateID, DirectionsHash: r.DirectionsHash}
}

// IsCurrent reports whether the result matches the given directions hash.
// A mismatch means the job's private directions changed after this result
// was computed; callers must treat it as a cache miss.
func (r *AnalysisResult) IsCurrent(directionsHash string) bool {
	return r.DirectionsHash == directionsHash
}

// MaxMatchReasons bounds the strong/weak point lists surfaced as
// match-reason summaries. The full lists stay in the stored result.
const MaxMatchReasons = 3

// TopStrongPoints returns at most n strong points for summary display.
func (r *AnalysisResult) TopStrongPoints(n int) []string {
	return truncatePoints(r.StrongPoints, n)
}

// TopWeakPoints returns at most n weak points for summary display.
func (r *AnalysisResult) TopWeakPoints(n int) []string {
	return truncatePoints(r.WeakPoints, n)
}

func truncatePoints(points []string, n int) []string {
	if n <= 0 || len(points) == 0 {
		return nil
	}
	if len(points) <= n {
		return points
	}
	return points[:n]
}

// ClampScore forces a score into the [0,100] range. NaN and other
// non-orderable values coerce to 0 to preserve the result invariant.
func ClampScore(score float64) float64 {
	if score != score { // NaN
		return 0
	}
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// ClampScores normalizes every score field of the result in place.
func (r *AnalysisResult) ClampScores() {
	r.ResumeScore = ClampScore(r.ResumeScore)
	r.QuestioneryScore = ClampScore(r.QuestioneryScore)
	r.ComplianceScore = ClampScore(r.ComplianceScore)
	r.FinalScore = ClampScore(r.FinalScore)
}
