package ranking

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/jonathan/rankcore/internal/llm"
	"github.com/jonathan/rankcore/internal/prompts"
	"github.com/jonathan/rankcore/internal/types"
)

// Comparison is a pairwise judge verdict.
type Comparison struct {
	Winner    uuid.UUID
	Reasoning string
}

// Judge resolves a near-tie between two analyzed candidates. A nil Judge on
// the engine, or any Compare error, falls back to the deterministic chain.
type Judge interface {
	Compare(ctx context.Context, job *types.Job, a, b *types.AnalysisResult) (*Comparison, error)
}

// LLMJudge compares candidates with the LLM using their stored scores and
// strong/weak points. It never re-reads application material; the stored
// analysis is the whole record.
type LLMJudge struct {
	client llm.Client
	tier   llm.ModelTier
}

// NewLLMJudge creates a pairwise judge over the given client.
func NewLLMJudge(client llm.Client) *LLMJudge {
	return &LLMJudge{client: client, tier: llm.TierLite}
}

// judgeResponse is the expected JSON verdict from the LLM.
type judgeResponse struct {
	Winner    string `json:"winner"`
	Reasoning string `json:"reasoning"`
}

// Compare asks the LLM which of the two candidates should rank higher.
func (j *LLMJudge) Compare(ctx context.Context, job *types.Job, a, b *types.AnalysisResult) (*Comparison, error) {
	prompt := buildComparePrompt(job, a, b)

	jsonResp, err := j.client.GenerateJSON(ctx, prompt, j.tier)
	if err != nil {
		return nil, fmt.Errorf("judge generation failed: %w", err)
	}
	jsonResp = llm.CleanJSONBlock(jsonResp)

	var verdict judgeResponse
	if err := json.Unmarshal([]byte(jsonResp), &verdict); err != nil {
		return nil, fmt.Errorf("failed to parse judge response: %w (content: %s)", err, jsonResp)
	}

	switch strings.ToUpper(strings.TrimSpace(verdict.Winner)) {
	case "A":
		return &Comparison{Winner: a.CandidateID, Reasoning: verdict.Reasoning}, nil
	case "B":
		return &Comparison{Winner: b.CandidateID, Reasoning: verdict.Reasoning}, nil
	default:
		return nil, fmt.Errorf("judge returned unknown winner %q", verdict.Winner)
	}
}

func buildComparePrompt(job *types.Job, a, b *types.AnalysisResult) string {
	directions := job.PrivateDirections
	if strings.TrimSpace(directions) == "" {
		directions = "(none given)"
	}

	template := prompts.MustGet("ranking.json", "compare-candidates")
	return prompts.Format(template, map[string]string{
		"JobTitle":          job.Title,
		"PrivateDirections": directions,
		"ScoreA":            fmt.Sprintf("%.1f", a.FinalScore),
		"ComplianceA":       fmt.Sprintf("%.1f", a.ComplianceScore),
		"StrongA":           joinPoints(a.StrongPoints),
		"WeakA":             joinPoints(a.WeakPoints),
		"ScoreB":            fmt.Sprintf("%.1f", b.FinalScore),
		"ComplianceB":       fmt.Sprintf("%.1f", b.ComplianceScore),
		"StrongB":           joinPoints(b.StrongPoints),
		"WeakB":             joinPoints(b.WeakPoints),
	})
}

func joinPoints(points []string) string {
	if len(points) == 0 {
		return "(none recorded)"
	}
	return strings.Join(points, "; ")
}
