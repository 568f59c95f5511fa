// Package analyzer orchestrates the full post analysis pipeline: fetch,
// extract, enrich, triage, synthesize, and persist.
package analyzer

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/minjae/threadlens/internal/cache"
	"github.com/minjae/threadlens/internal/config"
	"github.com/minjae/threadlens/internal/domain"
	"github.com/minjae/threadlens/internal/logger"
	"github.com/minjae/threadlens/internal/reddit"
	"github.com/minjae/threadlens/internal/triage"
)

// Fetcher retrieves posts and comment forests from Reddit.
type Fetcher interface {
	FetchPost(ctx context.Context, postURL string) (*domain.Post, error)
	FetchComments(ctx context.Context, postURL string) ([]domain.Comment, reddit.Strategy)
}

// Extractor recovers analyzable text from the post's media and links.
type Extractor interface {
	Extract(ctx context.Context, post *domain.Post) string
}

// Enricher runs the model over the post and synthesizes the final report.
type Enricher interface {
	EnrichPost(ctx context.Context, post *domain.Post, postText string) *domain.PostEnrichment
	Synthesize(ctx context.Context, title string, enrichment *domain.PostEnrichment, comments []domain.EnrichedComment) *domain.Synthesis
}

// CommentPipeline triages and enriches the comment forest.
type CommentPipeline interface {
	Run(ctx context.Context, postSummary string, forest []domain.Comment) []domain.EnrichedComment
}

// ResultCache stores fetched posts and their finished analyses.
type ResultCache interface {
	GetPost(ctx context.Context, url string) (*cache.CachedPost, bool)
	PutPost(ctx context.Context, url string, post *domain.Post, extractedText string, result *domain.AnalysisResult) bool
}

// Reporter writes finished results to disk.
type Reporter interface {
	Save(result *domain.AnalysisResult)
}

// Orchestrator wires the pipeline stages together. Only the Reddit fetch can
// fail an analysis; every later stage degrades to defaults.
type Orchestrator struct {
	fetcher   Fetcher
	extractor Extractor
	enricher  Enricher
	pipeline  CommentPipeline
	store     ResultCache
	reporter  Reporter
	threshold float64
	log       *logger.Logger
}

// New creates an Orchestrator. store and reporter may be nil, disabling
// caching and file output respectively.
func New(fetcher Fetcher, extractor Extractor, enricher Enricher, pipeline CommentPipeline,
	store ResultCache, reporter Reporter, cfg *config.ProcessingConfig, log *logger.Logger) *Orchestrator {
	if log == nil {
		log = logger.Default()
	}
	return &Orchestrator{
		fetcher:   fetcher,
		extractor: extractor,
		enricher:  enricher,
		pipeline:  pipeline,
		store:     store,
		reporter:  reporter,
		threshold: cfg.CommentQualityThreshold,
		log:       log.WithField(logger.FieldComponent, "analyzer"),
	}
}

// AnalyzeURL runs the full pipeline for one post. A cached finished analysis
// short-circuits everything and is returned marked from_cache. The returned
// error is non-nil only when the post itself cannot be fetched.
func (o *Orchestrator) AnalyzeURL(ctx context.Context, postURL string, useCache bool) (*domain.AnalysisResult, error) {
	analysisID := uuid.New().String()
	log := o.log.WithField(logger.FieldAnalysisID, analysisID)
	log.WithField("url", postURL).Info("Starting analysis")
	start := time.Now()

	if useCache && o.store != nil {
		if cached, ok := o.store.GetPost(ctx, postURL); ok && cached.Result != nil {
			log.Info("Using cached analysis")
			result := cached.Result
			result.Metadata.FromCache = true
			return result, nil
		}
	}

	post, err := o.fetcher.FetchPost(ctx, postURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch post: %w", err)
	}
	log = log.WithField(logger.FieldPostID, post.ID)

	extractedText := o.extractor.Extract(ctx, post)

	// Cache the raw post before the expensive stages so a later failure
	// still leaves the fetch work reusable.
	if o.store != nil {
		o.store.PutPost(ctx, postURL, post, extractedText, nil)
	}

	comments, strategy := o.fetcher.FetchComments(ctx, postURL)

	enrichment := o.enricher.EnrichPost(ctx, post, extractedText)

	postContext := enrichment.Summaries.OneSentence
	if postContext == "" {
		postContext = post.Title
	}

	flatCount := len(triage.Flatten(comments))
	enriched := o.pipeline.Run(ctx, postContext, comments)
	quality := triage.FilterByQuality(enriched, o.threshold)
	log.WithFields(logger.Fields{
		"enriched":     len(enriched),
		"high_quality": len(quality),
		"threshold":    o.threshold,
	}).Info("Comment enrichment complete")

	synthesis := o.enricher.Synthesize(ctx, post.Title, enrichment, quality)

	result := buildResult(post, postURL, enrichment, extractedText, flatCount, enriched, quality, synthesis, resultInfo{
		AnalysisID: analysisID,
		Duration:   time.Since(start),
		Strategy:   strategy.Name,
	})

	if o.store != nil {
		o.store.PutPost(ctx, postURL, post, extractedText, result)
	}
	if o.reporter != nil {
		o.reporter.Save(result)
	}

	log.Infof("Analysis completed in %.1fs", time.Since(start).Seconds())
	return result, nil
}

// BatchItem is the outcome of one URL in a batch run.
type BatchItem struct {
	URL    string
	Result *domain.AnalysisResult
	Err    error
}

// AnalyzeAll analyzes the URLs in order. One failed URL does not stop the
// rest; its error is captured in the corresponding item.
func (o *Orchestrator) AnalyzeAll(ctx context.Context, urls []string, useCache bool) []BatchItem {
	items := make([]BatchItem, 0, len(urls))
	for i, url := range urls {
		o.log.Infof("Processing post %d/%d", i+1, len(urls))

		result, err := o.AnalyzeURL(ctx, url, useCache)
		if err != nil {
			o.log.WithError(err).WithField("url", url).Error("Analysis failed")
		}
		items = append(items, BatchItem{URL: url, Result: result, Err: err})

		if ctx.Err() != nil {
			break
		}
	}
	return items
}
