package cli

import (
	"fmt"

	"github.com/minjae/threadlens/internal/analyzer"
	"github.com/minjae/threadlens/internal/cache"
	"github.com/minjae/threadlens/internal/extract"
	"github.com/minjae/threadlens/internal/gemini"
	"github.com/minjae/threadlens/internal/reddit"
	"github.com/minjae/threadlens/internal/report"
	"github.com/minjae/threadlens/internal/triage"
)

// openStore connects to the cache database. Commands that only inspect the
// cache use it directly; analysis commands go through newOrchestrator.
func openStore() (*cache.Store, error) {
	db, err := cache.InitDB(&cfg.Cache)
	if err != nil {
		return nil, fmt.Errorf("init cache database: %w", err)
	}
	return cache.NewStore(db, cfg.Processing.CacheExpiry(), log), nil
}

// newOrchestrator wires the full analysis pipeline. A cache failure is not
// fatal: analysis runs uncached with a warning.
func newOrchestrator() (*analyzer.Orchestrator, error) {
	if cfg.Reddit.ClientID == "" || cfg.Reddit.ClientSecret == "" {
		return nil, fmt.Errorf("missing Reddit credentials (set REDDIT_CLIENT_ID and REDDIT_CLIENT_SECRET)")
	}
	if cfg.Gemini.APIKey == "" {
		return nil, fmt.Errorf("missing Gemini API key (set GEMINI_API_KEY)")
	}

	redditClient := reddit.NewClient(&cfg.Reddit, log)
	geminiClient := gemini.NewClient(&cfg.Gemini, log)

	var resultCache analyzer.ResultCache
	var ocrCache extract.OCRCache
	var linkCache extract.LinkCache
	store, err := openStore()
	if err != nil {
		log.WithError(err).Warn("Cache unavailable, continuing without it")
	} else {
		resultCache = store
		ocrCache = store
		linkCache = store
	}

	extractor := extract.New(&cfg.Processing, geminiClient, ocrCache, linkCache, log)
	pipeline := triage.NewPipeline(geminiClient, &cfg.Processing, log)

	var reporter analyzer.Reporter
	if cfg.Output.SaveToFile {
		reporter = report.New(&cfg.Output, log)
	}

	return analyzer.New(redditClient, extractor, geminiClient, pipeline,
		resultCache, reporter, &cfg.Processing, log), nil
}
