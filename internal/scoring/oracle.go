package scoring

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/jonathan/rankcore/internal/llm"
	"github.com/jonathan/rankcore/internal/prompts"
	"github.com/jonathan/rankcore/internal/types"
)

// ScoreCard is the oracle's evaluation of one application. ComplianceScore
// and FinalScore are pointers so the aggregation policy can distinguish
// "oracle scored it zero" from "oracle did not score it".
type ScoreCard struct {
	ResumeScore      float64  `json:"resume_score"`
	QuestioneryScore float64  `json:"questionery_score"`
	ComplianceScore  *float64 `json:"compliance_score,omitempty"`
	FinalScore       *float64 `json:"final_score,omitempty"`
	StrongPoints     []string `json:"strong_points,omitempty"`
	WeakPoints       []string `json:"weak_points,omitempty"`
}

// Scorer is the scoring oracle capability the analysis engine consumes.
type Scorer interface {
	Score(ctx context.Context, payload *types.ScorePayload) (*ScoreCard, error)
}

// Default retry budget for transient oracle failures.
const (
	DefaultMaxAttempts    = 3
	DefaultInitialBackoff = 500 * time.Millisecond
	DefaultCallTimeout    = 60 * time.Second
)

// Oracle scores applications via the LLM client, with bounded retry and
// response schema validation.
type Oracle struct {
	client         llm.Client
	tier           llm.ModelTier
	maxAttempts    int
	initialBackoff time.Duration
	callTimeout    time.Duration
}

// OracleOption configures an Oracle.
type OracleOption func(*Oracle)

// WithRetry overrides the retry budget and initial backoff.
func WithRetry(maxAttempts int, initialBackoff time.Duration) OracleOption {
	return func(o *Oracle) {
		o.maxAttempts = maxAttempts
		o.initialBackoff = initialBackoff
	}
}

// WithCallTimeout bounds each individual oracle call.
func WithCallTimeout(timeout time.Duration) OracleOption {
	return func(o *Oracle) { o.callTimeout = timeout }
}

// WithTier overrides the model tier used for scoring.
func WithTier(tier llm.ModelTier) OracleOption {
	return func(o *Oracle) { o.tier = tier }
}

// NewOracle creates a scoring Oracle over the given LLM client.
func NewOracle(client llm.Client, opts ...OracleOption) *Oracle {
	o := &Oracle{
		client:         client,
		tier:           llm.TierStandard,
		maxAttempts:    DefaultMaxAttempts,
		initialBackoff: DefaultInitialBackoff,
		callTimeout:    DefaultCallTimeout,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Score evaluates one application payload. Transport failures are retried
// with exponential backoff up to the attempt budget; a malformed response
// aborts immediately with ResponseInvalidError.
func (o *Oracle) Score(ctx context.Context, payload *types.ScorePayload) (*ScoreCard, error) {
	if err := payload.Validate(); err != nil {
		return nil, err
	}

	prompt := buildScorePrompt(payload)

	var lastErr error
	backoff := o.initialBackoff
	for attempt := 1; attempt <= o.maxAttempts; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return nil, &OracleUnavailableError{Attempts: attempt - 1, Cause: ctx.Err()}
			case <-time.After(backoff):
			}
			backoff *= 2
		}

		callCtx, cancel := context.WithTimeout(ctx, o.callTimeout)
		jsonResp, err := o.client.GenerateJSON(callCtx, prompt, o.tier)
		cancel()
		if err != nil {
			// Caller cancellation is not an oracle fault; stop immediately.
			if ctx.Err() != nil {
				return nil, &OracleUnavailableError{Attempts: attempt, Cause: ctx.Err()}
			}
			lastErr = err
			continue
		}

		return parseScoreCard(jsonResp)
	}

	return nil, &OracleUnavailableError{Attempts: o.maxAttempts, Cause: lastErr}
}

// parseScoreCard validates and decodes the oracle's JSON response.
func parseScoreCard(jsonResp string) (*ScoreCard, error) {
	jsonResp = llm.CleanJSONBlock(jsonResp)

	if err := ValidateScoreJSON(jsonResp); err != nil {
		return nil, &ResponseInvalidError{
			Message: "score card violates response schema",
			Content: jsonResp,
			Cause:   err,
		}
	}

	var card ScoreCard
	if err := json.Unmarshal([]byte(jsonResp), &card); err != nil {
		return nil, &ResponseInvalidError{
			Message: "score card is not valid JSON",
			Content: jsonResp,
			Cause:   err,
		}
	}

	return &card, nil
}

// buildScorePrompt renders the scoring prompt template with the payload.
func buildScorePrompt(payload *types.ScorePayload) string {
	directions := payload.PrivateDirections
	if strings.TrimSpace(directions) == "" {
		directions = "(none given - score on the job description alone)"
	}

	template := prompts.MustGet("scoring.json", "score-application")
	return prompts.Format(template, map[string]string{
		"JobTitle":          payload.JobTitle,
		"JobDescription":    payload.JobDescription,
		"PrivateDirections": directions,
		"ResumeText":        payload.ResumeText,
		"QuestionnaireText": payload.QuestionnaireText,
	})
}

// Aggregate applies the score aggregation policy to a card and returns the
// four clamped scores. Policy: an oracle-supplied finalScore wins; otherwise
// the compliance score becomes the final score when present (private
// directions dominate); otherwise the final score is the mean of the resume
// and questionnaire scores.
func Aggregate(card *ScoreCard) (resume, questionery, compliance, final float64) {
	resume = types.ClampScore(card.ResumeScore)
	questionery = types.ClampScore(card.QuestioneryScore)

	if card.ComplianceScore != nil {
		compliance = types.ClampScore(*card.ComplianceScore)
	}

	switch {
	case card.FinalScore != nil:
		final = types.ClampScore(*card.FinalScore)
	case card.ComplianceScore != nil:
		final = compliance
	default:
		final = types.ClampScore((resume + questionery) / 2)
	}

	return resume, questionery, compliance, final
}
