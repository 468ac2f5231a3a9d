package main

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jonathan/rankcore/internal/observability"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze a candidate's application against its job",
	Long:  "Analyze scores one candidate's resume and questionnaire against the job description and private directions, caching the result until the directions change.",
	RunE:  runAnalyze,
}

var (
	analyzeCandidateID string
	analyzeForce       bool
	analyzeStrict      bool
	analyzeConfigPath  string
	analyzeDatabaseURL string
	analyzeAPIKey      string
	analyzeVerbose     bool
)

func init() {
	analyzeCmd.Flags().StringVar(&analyzeCandidateID, "candidate-id", "", "Candidate UUID to analyze (required)")
	analyzeCmd.Flags().BoolVar(&analyzeForce, "force", false, "Recompute even when a current cached result exists")
	analyzeCmd.Flags().BoolVar(&analyzeStrict, "strict", false, "Treat raw-fallback extraction as failure")
	analyzeCmd.Flags().StringVar(&analyzeConfigPath, "config", "", "Path to JSON config file")
	analyzeCmd.Flags().StringVar(&analyzeDatabaseURL, "db-url", "", "Database URL (overrides DATABASE_URL env var)")
	analyzeCmd.Flags().StringVar(&analyzeAPIKey, "api-key", "", "Gemini API key (overrides GEMINI_API_KEY env var)")
	analyzeCmd.Flags().BoolVarP(&analyzeVerbose, "verbose", "v", false, "Print the full analysis result")

	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(_ *cobra.Command, _ []string) error {
	if analyzeCandidateID == "" {
		return fmt.Errorf("--candidate-id is required")
	}
	candidateID, err := uuid.Parse(analyzeCandidateID)
	if err != nil {
		return fmt.Errorf("invalid candidate-id: %w", err)
	}

	cfg, err := loadConfig(analyzeConfigPath, analyzeDatabaseURL, analyzeAPIKey)
	if err != nil {
		return err
	}

	ctx := context.Background()
	svc, database, err := buildService(ctx, cfg, false)
	if err != nil {
		return err
	}
	defer database.Close()

	result, err := svc.AnalyzeApplication(ctx, candidateID, analyzeForce, analyzeStrict)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	if analyzeVerbose || cfg.Verbose {
		observability.NewPrinter(os.Stdout).PrintAnalysisResult(result)
	} else {
		fmt.Fprintf(os.Stdout, "Candidate %s: final %.1f (compliance %.1f, resume %.1f, questionery %.1f)\n",
			result.CandidateID, result.FinalScore, result.ComplianceScore,
			result.ResumeScore, result.QuestioneryScore)
	}

	return nil
}
