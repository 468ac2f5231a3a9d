package ranking

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/jonathan/rankcore/internal/types"
)

func TestLess(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	idLow := uuid.MustParse("00000000-0000-0000-0000-000000000001")
	idHigh := uuid.MustParse("ffffffff-ffff-ffff-ffff-ffffffffffff")

	tests := []struct {
		name string
		a, b *types.AnalysisResult
		want bool
	}{
		{
			name: "higher final score ranks first",
			a:    &types.AnalysisResult{FinalScore: 90},
			b:    &types.AnalysisResult{FinalScore: 40},
			want: true,
		},
		{
			name: "lower final score ranks after",
			a:    &types.AnalysisResult{FinalScore: 40},
			b:    &types.AnalysisResult{FinalScore: 90},
			want: false,
		},
		{
			name: "final tie falls to compliance",
			a:    &types.AnalysisResult{FinalScore: 90, ComplianceScore: 80},
			b:    &types.AnalysisResult{FinalScore: 90, ComplianceScore: 60},
			want: true,
		},
		{
			name: "compliance tie falls to earlier analyzedAt",
			a:    &types.AnalysisResult{FinalScore: 90, ComplianceScore: 80, AnalyzedAt: base},
			b:    &types.AnalysisResult{FinalScore: 90, ComplianceScore: 80, AnalyzedAt: base.Add(time.Second)},
			want: true,
		},
		{
			name: "full tie falls to candidate id",
			a:    &types.AnalysisResult{CandidateID: idLow, AnalyzedAt: base},
			b:    &types.AnalysisResult{CandidateID: idHigh, AnalyzedAt: base},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Less(tt.a, tt.b))
		})
	}
}

func TestTieBreakPath(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	a := &types.AnalysisResult{FinalScore: 90, ComplianceScore: 80, AnalyzedAt: base}
	b := &types.AnalysisResult{FinalScore: 90, ComplianceScore: 80, AnalyzedAt: base}

	assert.Equal(t, "candidateId", tieBreakPath(a, b))

	b.AnalyzedAt = base.Add(time.Minute)
	assert.Equal(t, "analyzedAt", tieBreakPath(a, b))

	b.ComplianceScore = 60
	assert.Equal(t, "complianceScore", tieBreakPath(a, b))

	b.FinalScore = 40
	assert.Equal(t, "finalScore", tieBreakPath(a, b))
}

func TestRationale(t *testing.T) {
	r := &types.AnalysisResult{
		FinalScore:       90,
		ComplianceScore:  85,
		ResumeScore:      80,
		QuestioneryScore: 75,
		StrongPoints:     []string{"led migration", "strong Go background"},
	}
	below := &types.AnalysisResult{FinalScore: 40}

	got := rationale(r, below, "clearer ownership record")

	assert.Contains(t, got, "finalScore=90.0")
	assert.Contains(t, got, "ahead of next by finalScore")
	assert.Contains(t, got, "judge: clearer ownership record")
	assert.Contains(t, got, "strengths: led migration")
}

func TestRationale_LastPlace(t *testing.T) {
	r := &types.AnalysisResult{FinalScore: 40, ComplianceScore: 40}

	got := rationale(r, nil, "")

	assert.NotContains(t, got, "ahead of next")
	assert.NotContains(t, got, "judge:")
	assert.NotContains(t, got, "strengths:")
}
