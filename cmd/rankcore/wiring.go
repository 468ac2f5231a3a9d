package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jonathan/rankcore/internal/analysis"
	"github.com/jonathan/rankcore/internal/config"
	"github.com/jonathan/rankcore/internal/db"
	"github.com/jonathan/rankcore/internal/extraction"
	"github.com/jonathan/rankcore/internal/llm"
	"github.com/jonathan/rankcore/internal/ranking"
	"github.com/jonathan/rankcore/internal/scoring"
	"github.com/jonathan/rankcore/internal/service"
)

// loadConfig merges an optional JSON config file with flag/env values.
// Flag values win over the file; the file wins over nothing.
func loadConfig(configPath, dbURL, apiKey string) (config.Config, error) {
	cfg := config.Config{DatabaseURL: dbURL, APIKey: apiKey}

	if configPath != "" {
		fileCfg, err := config.LoadConfig(configPath)
		if err != nil {
			return config.Config{}, err
		}
		if err := fileCfg.Validate(); err != nil {
			return config.Config{}, err
		}
		cfg = cfg.MergeWithDefaults(*fileCfg)
	} else {
		cfg = cfg.MergeWithDefaults(config.Config{})
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("GEMINI_API_KEY")
	}
	return cfg, nil
}

// buildService wires the database, LLM client, extractor, and both engines
// behind the facade. The caller owns closing the returned database.
func buildService(ctx context.Context, cfg config.Config, useJudge bool) (*service.Service, *db.DB, error) {
	if cfg.DatabaseURL == "" {
		return nil, nil, fmt.Errorf("database URL is required (set DATABASE_URL or use --db-url)")
	}
	if cfg.APIKey == "" {
		return nil, nil, fmt.Errorf("API key is required (set GEMINI_API_KEY or use --api-key)")
	}

	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}

	client, err := llm.NewClient(ctx, llm.DefaultConfig(), cfg.APIKey)
	if err != nil {
		database.Close()
		return nil, nil, err
	}

	var extractorOpts []extraction.Option
	if cfg.UseBrowser {
		extractorOpts = append(extractorOpts, extraction.WithBrowserFallback(30*time.Second))
	}
	extractor := extraction.NewExtractor(client, extractorOpts...)

	var oracleOpts []scoring.OracleOption
	if cfg.OracleMaxAttempts > 0 {
		oracleOpts = append(oracleOpts, scoring.WithRetry(cfg.OracleMaxAttempts, 500*time.Millisecond))
	}
	if cfg.OracleTimeoutSeconds > 0 {
		oracleOpts = append(oracleOpts, scoring.WithCallTimeout(time.Duration(cfg.OracleTimeoutSeconds)*time.Second))
	}
	oracle := scoring.NewOracle(client, oracleOpts...)

	analyzer := analysis.NewEngine(database, oracle)

	var judge ranking.Judge
	if useJudge {
		judge = ranking.NewLLMJudge(client)
	}
	ranker := ranking.NewEngine(database, judge)

	svc := service.New(database, extractor, analyzer, ranker,
		service.WithOracleExtraction(cfg.UseOracleExtraction),
		service.WithMaxConcurrent(cfg.MaxConcurrentAnalyses),
	)
	return svc, database, nil
}
