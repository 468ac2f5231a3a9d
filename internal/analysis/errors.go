// Package analysis implements the per-candidate analysis engine: scoring an
// application against a job and owning the compute-once/cache-and-reuse
// contract.
package analysis

import (
	"fmt"

	"github.com/google/uuid"
)

// Artifact names used by IncompleteApplicationError.
const (
	ArtifactResume        = "resume"
	ArtifactQuestionnaire = "questionnaire"
)

// IncompleteApplicationError means the candidate's application is missing a
// required artifact. Terminal and user-fixable; never retried internally.
type IncompleteApplicationError struct {
	CandidateID uuid.UUID
	Missing     string // which artifact is absent: "resume" or "questionnaire"
}

func (e *IncompleteApplicationError) Error() string {
	return fmt.Sprintf("application for candidate %s is incomplete: missing %s", e.CandidateID, e.Missing)
}

// NotFoundError means a referenced entity does not exist in the store.
type NotFoundError struct {
	Entity string // "application" or "job"
	ID     uuid.UUID
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}
