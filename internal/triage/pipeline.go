package triage

import (
	"context"
	"sync"
	"time"

	"github.com/minjae/threadlens/internal/config"
	"github.com/minjae/threadlens/internal/domain"
	"github.com/minjae/threadlens/internal/logger"
)

// maxConcurrentBatches bounds parallel enrichment calls to respect API rate
// limits.
const maxConcurrentBatches = 3

// Enricher analyzes one batch of comments. Implementations must return
// exactly one record per input comment, aligned by position, and must not
// fail: a bad response becomes default records, not an error.
type Enricher interface {
	EnrichComments(ctx context.Context, postSummary string, batch []domain.Comment) []domain.EnrichedComment
}

// Pipeline runs the full comment triage: flatten, pre-filter, partition,
// and batched enrichment dispatch.
type Pipeline struct {
	enricher    Enricher
	maxComments int
	batchSize   int
	parallel    bool
	batchPause  time.Duration
	log         *logger.Logger
}

// NewPipeline creates a Pipeline from processing configuration.
func NewPipeline(enricher Enricher, cfg *config.ProcessingConfig, log *logger.Logger) *Pipeline {
	if log == nil {
		log = logger.Default()
	}
	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = 20
	}
	return &Pipeline{
		enricher:    enricher,
		maxComments: cfg.MaxCommentsProcess,
		batchSize:   batchSize,
		parallel:    cfg.UseParallelProcessing,
		batchPause:  time.Second,
		log:         log.WithField(logger.FieldComponent, "triage"),
	}
}

// Run enriches the most promising comments of the forest. The result order
// follows batch completion, which is non-deterministic in parallel mode;
// consumers re-rank by explicit sort keys. Every selected comment is
// represented exactly once in the result.
func (p *Pipeline) Run(ctx context.Context, postSummary string, forest []domain.Comment) []domain.EnrichedComment {
	flat := Flatten(forest)
	selected := PreFilter(flat, p.maxComments)
	batches := Partition(selected, p.batchSize)

	p.log.WithFields(logger.Fields{
		"total_comments": len(flat),
		"selected":       len(selected),
		"batches":        len(batches),
	}).Info("Triage selection complete")

	if len(batches) == 0 {
		return []domain.EnrichedComment{}
	}

	if p.parallel && len(batches) > 1 {
		return p.runParallel(ctx, postSummary, batches)
	}
	return p.runSequential(ctx, postSummary, batches)
}

func (p *Pipeline) runSequential(ctx context.Context, postSummary string, batches [][]domain.Comment) []domain.EnrichedComment {
	var enriched []domain.EnrichedComment
	for i, batch := range batches {
		p.log.WithField(logger.FieldBatch, i+1).Infof("Analyzing batch of %d comments", len(batch))
		enriched = append(enriched, p.enrichGuarded(ctx, postSummary, batch)...)

		// Rate limiting pause between calls.
		if i < len(batches)-1 && p.batchPause > 0 {
			select {
			case <-ctx.Done():
				for _, rest := range batches[i+1:] {
					enriched = append(enriched, defaultRecords(rest)...)
				}
				return enriched
			case <-time.After(p.batchPause):
			}
		}
	}
	return enriched
}

// runParallel fans the batches out over a bounded worker pool and collects
// per-batch results as they complete.
func (p *Pipeline) runParallel(ctx context.Context, postSummary string, batches [][]domain.Comment) []domain.EnrichedComment {
	p.log.Infof("Processing %d batches in parallel (max %d concurrent)", len(batches), maxConcurrentBatches)

	jobs := make(chan []domain.Comment, len(batches))
	results := make(chan []domain.EnrichedComment, len(batches))

	var wg sync.WaitGroup
	for w := 0; w < maxConcurrentBatches; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for batch := range jobs {
				results <- p.enrichGuarded(ctx, postSummary, batch)
			}
		}()
	}

	for _, batch := range batches {
		jobs <- batch
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	var enriched []domain.EnrichedComment
	for batchResult := range results {
		enriched = append(enriched, batchResult...)
	}
	return enriched
}

// enrichGuarded calls the enricher and enforces the one-record-per-comment
// contract, substituting defaults when the implementation misbehaves.
func (p *Pipeline) enrichGuarded(ctx context.Context, postSummary string, batch []domain.Comment) []domain.EnrichedComment {
	enriched := p.enricher.EnrichComments(ctx, postSummary, batch)
	if len(enriched) == len(batch) {
		return enriched
	}

	p.log.Warnf("Enricher returned %d records for %d comments, substituting defaults", len(enriched), len(batch))
	return defaultRecords(batch)
}

func defaultRecords(batch []domain.Comment) []domain.EnrichedComment {
	records := make([]domain.EnrichedComment, len(batch))
	for i, c := range batch {
		records[i] = domain.DefaultEnrichedComment(c)
	}
	return records
}
