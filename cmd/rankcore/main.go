// Package main provides the CLI entry point for the candidate analysis and
// ranking core.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "rankcore",
	Short: "Candidate analysis and comparative ranking",
	Long:  "Rankcore extracts structured candidate facts from resume documents, scores applications against a job with an LLM oracle, and produces versioned comparative rankings.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
