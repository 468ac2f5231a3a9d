package main

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jonathan/rankcore/internal/observability"
)

var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Produce a new ranking run for a job's analyzed candidates",
	Long:  "Rank orders every candidate of the job that has a current analysis result, recording a new versioned ranking run. Unanalyzed candidates are excluded unless --analyze-missing is set.",
	RunE:  runRank,
}

var (
	rankJobID          string
	rankAnalyzeMissing bool
	rankStrict         bool
	rankUseJudge       bool
	rankConfigPath     string
	rankDatabaseURL    string
	rankAPIKey         string
	rankVerbose        bool
)

func init() {
	rankCmd.Flags().StringVar(&rankJobID, "job-id", "", "Job UUID to rank (required)")
	rankCmd.Flags().BoolVar(&rankAnalyzeMissing, "analyze-missing", false, "Analyze candidates without a current result before ranking")
	rankCmd.Flags().BoolVar(&rankStrict, "strict", false, "Treat raw-fallback extraction as failure when analyzing missing candidates")
	rankCmd.Flags().BoolVar(&rankUseJudge, "judge", false, "Refine near-ties with the pairwise LLM judge")
	rankCmd.Flags().StringVar(&rankConfigPath, "config", "", "Path to JSON config file")
	rankCmd.Flags().StringVar(&rankDatabaseURL, "db-url", "", "Database URL (overrides DATABASE_URL env var)")
	rankCmd.Flags().StringVar(&rankAPIKey, "api-key", "", "Gemini API key (overrides GEMINI_API_KEY env var)")
	rankCmd.Flags().BoolVarP(&rankVerbose, "verbose", "v", false, "Print the full ranking run")

	rootCmd.AddCommand(rankCmd)
}

func runRank(_ *cobra.Command, _ []string) error {
	if rankJobID == "" {
		return fmt.Errorf("--job-id is required")
	}
	jobID, err := uuid.Parse(rankJobID)
	if err != nil {
		return fmt.Errorf("invalid job-id: %w", err)
	}

	cfg, err := loadConfig(rankConfigPath, rankDatabaseURL, rankAPIKey)
	if err != nil {
		return err
	}

	ctx := context.Background()
	svc, database, err := buildService(ctx, cfg, rankUseJudge)
	if err != nil {
		return err
	}
	defer database.Close()

	if rankAnalyzeMissing {
		report, err := svc.AnalyzeAll(ctx, jobID, rankStrict)
		if err != nil {
			return fmt.Errorf("batch analysis failed: %w", err)
		}
		fmt.Fprintf(os.Stdout, "Analyzed %d candidates (%d already current, %d failed)\n",
			report.Analyzed, report.Skipped, report.Failed())
		if report.Failed() > 0 {
			ids := make([]string, 0, len(report.Failures))
			for id := range report.Failures {
				ids = append(ids, id.String())
			}
			sort.Strings(ids)
			for _, id := range ids {
				fmt.Fprintf(os.Stderr, "  %s: %v\n", id, report.Failures[uuid.MustParse(id)])
			}
		}
	}

	run, err := svc.RankCandidatesForJob(ctx, jobID)
	if err != nil {
		return fmt.Errorf("ranking failed: %w", err)
	}

	if rankVerbose || cfg.Verbose {
		observability.NewPrinter(os.Stdout).PrintRankingRun(run)
	} else {
		fmt.Fprintf(os.Stdout, "Ranking run v%d for job %s: %d candidates\n",
			run.RankingVersion, run.JobID, len(run.Candidates))
		for _, ranked := range run.Candidates {
			fmt.Fprintf(os.Stdout, "  #%d %s\n", ranked.Rank, ranked.CandidateID)
		}
	}

	return nil
}
