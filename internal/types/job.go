package types

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/google/uuid"
)

// Job is the read-only view of a job posting this core evaluates against.
// Account and posting management live outside the core; only the evaluation
// inputs are carried here.
type Job struct {
	ID                uuid.UUID `json:"id"`
	Title             string    `json:"title"`
	Description       string    `json:"description"`
	PrivateDirections string    `json:"private_directions,omitempty"`
}

// DirectionsHash returns the content hash of the job's private directions.
// It is the second component of the analysis cache key: editing the
// directions changes the hash and invalidates every cached analysis for
// the job.
func (j *Job) DirectionsHash() string {
	return HashDirections(j.PrivateDirections)
}

// HashDirections computes the SHA-256 hex digest of private-directions text.
func HashDirections(directions string) string {
	sum := sha256.Sum256([]byte(directions))
	return hex.EncodeToString(sum[:])
}
