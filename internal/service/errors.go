// Package service wires extraction, analysis, and ranking behind one facade
// consumed by the CLI host.
package service

import (
	"fmt"

	"github.com/google/uuid"
)

// StrictExtractionError means strict mode rejected a raw-fallback extraction.
// In strict mode only oracle-structured facts are acceptable analysis input.
type StrictExtractionError struct {
	CandidateID uuid.UUID
}

func (e *StrictExtractionError) Error() string {
	return fmt.Sprintf("strict mode: candidate %s has raw-fallback extraction, structured facts required", e.CandidateID)
}

// NoResumeSourceError means an application carries neither extracted facts
// nor any resume material to extract them from.
type NoResumeSourceError struct {
	CandidateID uuid.UUID
}

func (e *NoResumeSourceError) Error() string {
	return fmt.Sprintf("candidate %s has no resume material to extract", e.CandidateID)
}
