package service

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/rankcore/internal/analysis"
)

// BatchReport summarizes one AnalyzeAll pass.
type BatchReport struct {
	Analyzed int
	Skipped  int
	Failures map[uuid.UUID]error
}

// Failed reports how many candidates could not be analyzed.
func (r *BatchReport) Failed() int {
	return len(r.Failures)
}

// AnalyzeAll analyzes every candidate of the job that lacks a
// current-directions analysis result, with bounded concurrency. Individual
// candidate failures are collected in the report rather than aborting the
// batch; only caller cancellation stops the pass early.
func (s *Service) AnalyzeAll(ctx context.Context, jobID uuid.UUID, strict bool) (*BatchReport, error) {
	job, err := s.store.GetJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, &analysis.NotFoundError{Entity: "job", ID: jobID}
	}

	apps, err := s.store.ListApplicationsForJob(ctx, jobID)
	if err != nil {
		return nil, err
	}

	directionsHash := job.DirectionsHash()
	report := &BatchReport{Failures: make(map[uuid.UUID]error)}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxConcurrent)

	for _, app := range apps {
		candidateID := app.CandidateID

		cached, err := s.store.GetAnalysisResult(ctx, candidateID)
		if err != nil {
			return nil, err
		}
		if cached != nil && cached.IsCurrent(directionsHash) {
			report.Skipped++
			continue
		}

		g.Go(func() error {
			_, err := s.AnalyzeApplication(gctx, candidateID, false, strict)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				// A candidate failure is recorded, not fatal; cancellation
				// is fatal and propagates through the group context.
				if gctx.Err() != nil {
					return gctx.Err()
				}
				report.Failures[candidateID] = err
				return nil
			}
			report.Analyzed++
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return report, nil
}
