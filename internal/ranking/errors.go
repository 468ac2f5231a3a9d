// Package ranking produces a total order over a job's analyzed candidates.
// Ranking is comparative: the deterministic score ordering can be refined by
// a pairwise LLM judge for near-ties, and always degrades back to the
// deterministic chain when the judge is absent or failing.
package ranking

import (
	"fmt"

	"github.com/google/uuid"
)

// ConcurrentRankingError means a ranking pass for the job is already in
// flight. Returned immediately rather than queueing, to keep latency
// bounded; the caller decides whether to wait and retry.
type ConcurrentRankingError struct {
	JobID uuid.UUID
}

func (e *ConcurrentRankingError) Error() string {
	return fmt.Sprintf("a ranking pass for job %s is already in progress", e.JobID)
}

// JobNotFoundError means the job does not exist in the store.
type JobNotFoundError struct {
	JobID uuid.UUID
}

func (e *JobNotFoundError) Error() string {
	return fmt.Sprintf("job %s not found", e.JobID)
}
