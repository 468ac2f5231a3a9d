package ranking

import (
	"fmt"
	"strings"

	"github.com/jonathan/rankcore/internal/types"
)

// NearTieThreshold is the maximum finalScore gap at which two candidates
// count as a near-tie eligible for pairwise judge refinement.
const NearTieThreshold = 2.0

// AlgorithmDescription documents the deterministic ordering chain. It is
// recorded on every RankingRun so readers can audit how positions were
// produced.
const AlgorithmDescription = "finalScore desc, complianceScore desc, analyzedAt asc, candidateId asc"

// Less is the deterministic comparator: higher final score ranks first,
// with the documented tie-break chain guaranteeing a total order.
func Less(a, b *types.AnalysisResult) bool {
	if a.FinalScore != b.FinalScore {
		return a.FinalScore > b.FinalScore
	}
	if a.ComplianceScore != b.ComplianceScore {
		return a.ComplianceScore > b.ComplianceScore
	}
	if !a.AnalyzedAt.Equal(b.AnalyzedAt) {
		return a.AnalyzedAt.Before(b.AnalyzedAt)
	}
	return a.CandidateID.String() < b.CandidateID.String()
}

// tieBreakPath names the first comparator link that separated a from its
// lower-ranked neighbor, for the rationale record.
func tieBreakPath(a, b *types.AnalysisResult) string {
	if a.FinalScore != b.FinalScore {
		return "finalScore"
	}
	if a.ComplianceScore != b.ComplianceScore {
		return "complianceScore"
	}
	if !a.AnalyzedAt.Equal(b.AnalyzedAt) {
		return "analyzedAt"
	}
	return "candidateId"
}

// rationale renders the human-readable explanation for a candidate's
// position: its scores, plus the tie-break link against the neighbor below
// it and any judge reasoning that moved it.
func rationale(r *types.AnalysisResult, below *types.AnalysisResult, judgeNote string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "finalScore=%.1f complianceScore=%.1f resumeScore=%.1f questioneryScore=%.1f",
		r.FinalScore, r.ComplianceScore, r.ResumeScore, r.QuestioneryScore)

	if below != nil {
		fmt.Fprintf(&sb, "; ahead of next by %s", tieBreakPath(r, below))
	}
	if judgeNote != "" {
		fmt.Fprintf(&sb, "; judge: %s", judgeNote)
	}
	if len(r.StrongPoints) > 0 {
		fmt.Fprintf(&sb, "; strengths: %s", strings.Join(r.TopStrongPoints(types.MaxMatchReasons), ", "))
	}

	return sb.String()
}
