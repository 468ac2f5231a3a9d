// Package types defines the shared data structures for candidate analysis and ranking.
package types

import (
	"time"

	"github.com/google/uuid"
)

// ExtractionMethod identifies how CandidateFacts were produced.
// Downstream consumers use this to reason about extraction confidence.
type ExtractionMethod string

const (
	// ExtractionOracle means structured fields were extracted by the LLM oracle.
	ExtractionOracle ExtractionMethod = "oracle"
	// ExtractionRaw means the raw-text fallback produced a coarse result
	// (flat summary, best-effort structured lists).
	ExtractionRaw ExtractionMethod = "raw"
)

// ExperienceEntry is a single position parsed from a resume.
type ExperienceEntry struct {
	Employer string `json:"employer"`
	Title    string `json:"title"`
	Duration string `json:"duration,omitempty"` // e.g., "2021-03 - 2023-08" or "2 years"
}

// EducationEntry is a single education record parsed from a resume.
type EducationEntry struct {
	Institution string `json:"institution"`
	Degree      string `json:"degree,omitempty"`
	Years       string `json:"years,omitempty"`
}

// ContactInfo holds contact details parsed from a resume.
type ContactInfo struct {
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Location string `json:"location,omitempty"`
}

// CandidateFacts is the structured view of a candidate's source documents.
// It is derived data: regenerable from the source bytes at any time and
// replaced wholesale on re-extraction, never mutated in place.
type CandidateFacts struct {
	Name       string            `json:"name,omitempty"`
	Contact    ContactInfo       `json:"contact,omitempty"`
	Experience []ExperienceEntry `json:"experience,omitempty"`
	Education  []EducationEntry  `json:"education,omitempty"`
	Skills     []string          `json:"skills,omitempty"`
	Summary    string            `json:"summary,omitempty"`
	Method     ExtractionMethod  `json:"method"`
	RawText    string            `json:"raw_text,omitempty"`
}

// IsStructured reports whether the facts carry oracle-extracted structure
// rather than the flat raw-text fallback.
func (f *CandidateFacts) IsStructured() bool {
	return f.Method == ExtractionOracle
}

// ResumeText returns the best available text rendition of the resume for
// scoring: the raw extracted text when present, otherwise the summary.
func (f *CandidateFacts) ResumeText() string {
	if f.RawText != "" {
		return f.RawText
	}
	return f.Summary
}

// Application is a candidate's stored submission for a job: the resume
// material plus the free-text questionnaire/cover-letter answers.
type Application struct {
	CandidateID   uuid.UUID       `json:"candidate_id"`
	JobID         uuid.UUID       `json:"job_id"`
	Facts         *CandidateFacts `json:"facts,omitempty"`
	ResumeText    string          `json:"resume_text,omitempty"`
	Questionnaire string          `json:"questionnaire,omitempty"`
	ResumeURL     string          `json:"resume_url,omitempty"`
	SubmittedAt   time.Time       `json:"submitted_at"`
}

// BestResumeText returns the resume text to score against, preferring the
// stored raw text over the extracted facts.
func (a *Application) BestResumeText() string {
	if a.ResumeText != "" {
		return a.ResumeText
	}
	if a.Facts != nil {
		return a.Facts.ResumeText()
	}
	return ""
}

// HasResume reports whether any resume material is present.
func (a *Application) HasResume() bool {
	return a.BestResumeText() != ""
}

// HasQuestionnaire reports whether questionnaire answers are present.
func (a *Application) HasQuestionnaire() bool {
	return a.Questionnaire != ""
}
