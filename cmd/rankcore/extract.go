package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/rankcore/internal/extraction"
	"github.com/jonathan/rankcore/internal/llm"
	"github.com/jonathan/rankcore/internal/observability"
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract structured candidate facts from a resume document",
	Long:  "Extract parses a resume file or URL into structured candidate facts, using the LLM oracle when available and degrading to raw text segmentation otherwise.",
	RunE:  runExtract,
}

var (
	extractFile       string
	extractURL        string
	extractNoOracle   bool
	extractUseBrowser bool
	extractJSONOut    bool
	extractAPIKey     string
)

func init() {
	extractCmd.Flags().StringVarP(&extractFile, "file", "f", "", "Path to resume document (PDF, DOCX, HTML, or text)")
	extractCmd.Flags().StringVarP(&extractURL, "url", "u", "", "URL to fetch the resume from")
	extractCmd.Flags().BoolVar(&extractNoOracle, "no-oracle", false, "Skip LLM extraction, use raw segmentation only")
	extractCmd.Flags().BoolVar(&extractUseBrowser, "use-browser", false, "Render JS-heavy resume pages with a headless browser")
	extractCmd.Flags().BoolVar(&extractJSONOut, "json", false, "Print the extracted facts as JSON")
	extractCmd.Flags().StringVar(&extractAPIKey, "api-key", "", "Gemini API key (overrides GEMINI_API_KEY env var)")

	rootCmd.AddCommand(extractCmd)
}

func runExtract(_ *cobra.Command, _ []string) error {
	if extractFile == "" && extractURL == "" {
		return fmt.Errorf("must provide --file or --url")
	}
	if extractFile != "" && extractURL != "" {
		return fmt.Errorf("--file and --url are mutually exclusive")
	}

	ctx := context.Background()

	var client llm.Client
	if !extractNoOracle {
		apiKey := extractAPIKey
		if apiKey == "" {
			apiKey = os.Getenv("GEMINI_API_KEY")
		}
		if apiKey != "" {
			var err error
			client, err = llm.NewClient(ctx, llm.DefaultConfig(), apiKey)
			if err != nil {
				return fmt.Errorf("failed to create LLM client: %w", err)
			}
			defer func() { _ = client.Close() }()
		} else {
			fmt.Fprintln(os.Stderr, "Warning: no API key, falling back to raw extraction")
		}
	}

	var opts []extraction.Option
	if extractUseBrowser {
		opts = append(opts, extraction.WithBrowserFallback(30*time.Second))
	}
	extractor := extraction.NewExtractor(client, opts...)

	var source extraction.Source
	if extractURL != "" {
		source = extraction.Source{URL: extractURL}
	} else {
		data, err := os.ReadFile(extractFile)
		if err != nil {
			return fmt.Errorf("failed to read resume file: %w", err)
		}
		source = extraction.Source{Bytes: data, Filename: filepath.Base(extractFile)}
	}

	facts, err := extractor.Extract(ctx, source, !extractNoOracle && client != nil)
	if err != nil {
		return fmt.Errorf("extraction failed: %w", err)
	}

	if extractJSONOut {
		jsonBytes, err := json.MarshalIndent(facts, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal facts: %w", err)
		}
		fmt.Fprintln(os.Stdout, string(jsonBytes))
		return nil
	}

	observability.NewPrinter(os.Stdout).PrintCandidateFacts(facts)
	return nil
}
