package extraction

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/jonathan/rankcore/internal/fetch"
	"github.com/jonathan/rankcore/internal/llm"
	"github.com/jonathan/rankcore/internal/types"
)

// Source identifies a resume document: either raw bytes (with an optional
// filename for diagnostics) or a URL to fetch.
type Source struct {
	Bytes    []byte
	Filename string
	URL      string
}

func (s Source) name() string {
	if s.Filename != "" {
		return s.Filename
	}
	if s.URL != "" {
		return s.URL
	}
	return "(inline document)"
}

// Extractor converts resume sources into CandidateFacts. When an extraction
// oracle is configured and requested, structured fields come from the LLM;
// otherwise (or on oracle failure) a raw best-effort segmentation produces a
// coarser result. Extraction degrades, it does not abort.
type Extractor struct {
	client         llm.Client // nil means no extraction oracle configured
	fetchOpts      *fetch.Options
	useBrowser     bool
	browserTimeout time.Duration
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithFetchOptions overrides the HTTP fetch options for URL sources.
func WithFetchOptions(opts *fetch.Options) Option {
	return func(e *Extractor) { e.fetchOpts = opts }
}

// WithBrowserFallback enables headless-browser rendering for URL sources
// that return too little text over plain HTTP.
func WithBrowserFallback(timeout time.Duration) Option {
	return func(e *Extractor) {
		e.useBrowser = true
		e.browserTimeout = timeout
	}
}

// NewExtractor creates an Extractor. A nil client disables oracle extraction;
// every Extract call then takes the raw fallback path.
func NewExtractor(client llm.Client, opts ...Option) *Extractor {
	e := &Extractor{
		client:         client,
		fetchOpts:      fetch.DefaultOptions(),
		browserTimeout: 30 * time.Second,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract resolves the source to text and produces CandidateFacts.
// The Method field of the result reports which path ran.
func (e *Extractor) Extract(ctx context.Context, source Source, useOracle bool) (*types.CandidateFacts, error) {
	text, err := e.resolveText(ctx, source)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return nil, &EmptyDocumentError{Source: source.name()}
	}

	if useOracle && e.client != nil {
		facts, err := e.oracleExtract(ctx, text)
		if err == nil {
			return facts, nil
		}
		// Oracle failure degrades to the raw path rather than failing the call.
	}

	return rawExtract(text), nil
}

// resolveText turns the source into cleaned plain text.
func (e *Extractor) resolveText(ctx context.Context, source Source) (string, error) {
	if source.URL == "" {
		return DocumentText(source.name(), source.Bytes)
	}

	result, err := fetch.Document(ctx, source.URL, e.fetchOpts)
	if err != nil {
		return "", &FetchError{URL: source.URL, Cause: err}
	}

	text, err := DocumentText(source.URL, result.Body)
	if err != nil {
		return "", err
	}

	// JS-rendered resume hosts return skeleton HTML over plain HTTP;
	// retry once with a headless browser when enabled.
	if e.useBrowser && fetch.ShouldUseBrowser(text) {
		html, berr := fetch.WithBrowser(ctx, source.URL, e.browserTimeout)
		if berr == nil {
			if rendered, herr := fetch.ExtractMainText(html, fetch.ResumePageSelectors()); herr == nil && !fetch.ShouldUseBrowser(rendered) {
				return CleanText(rendered), nil
			}
		}
	}

	return text, nil
}

// oracleFacts is the JSON shape the extraction oracle returns.
type oracleFacts struct {
	Name       string                  `json:"name"`
	Email      string                  `json:"email"`
	Phone      string                  `json:"phone"`
	Location   string                  `json:"location"`
	Experience []types.ExperienceEntry `json:"experience"`
	Education  []types.EducationEntry  `json:"education"`
	Skills     []string                `json:"skills"`
	Summary    string                  `json:"summary"`
}

func (e *Extractor) oracleExtract(ctx context.Context, text string) (*types.CandidateFacts, error) {
	schema := llm.CandidateFactsSchema()
	prompt := llm.BuildExtractionPrompt(schema, text)

	jsonResp, err := e.client.GenerateJSON(ctx, prompt, llm.TierLite)
	if err != nil {
		return nil, fmt.Errorf("oracle extraction failed: %w", err)
	}
	jsonResp = llm.CleanJSONBlock(jsonResp)

	var parsed oracleFacts
	if err := json.Unmarshal([]byte(jsonResp), &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse oracle response: %w (content: %s)", err, jsonResp)
	}

	return &types.CandidateFacts{
		Name: parsed.Name,
		Contact: types.ContactInfo{
			Email:    parsed.Email,
			Phone:    parsed.Phone,
			Location: parsed.Location,
		},
		Experience: parsed.Experience,
		Education:  parsed.Education,
		Skills:     parsed.Skills,
		Summary:    parsed.Summary,
		Method:     types.ExtractionOracle,
		RawText:    text,
	}, nil
}

var emailRe = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)
var phoneRe = regexp.MustCompile(`\+?[0-9][0-9 ().\-]{7,}[0-9]`)

// rawExtract produces the fallback facts: flat text in the summary with
// best-effort contact sniffing and empty structured lists.
func rawExtract(text string) *types.CandidateFacts {
	facts := &types.CandidateFacts{
		Summary: text,
		Method:  types.ExtractionRaw,
		RawText: text,
	}

	if email := emailRe.FindString(text); email != "" {
		facts.Contact.Email = email
	}
	if phone := phoneRe.FindString(text); phone != "" {
		facts.Contact.Phone = strings.TrimSpace(phone)
	}

	return facts
}
