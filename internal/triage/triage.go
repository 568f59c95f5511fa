// Package triage selects which comments are worth spending model calls on
// and runs the batched enrichment over them.
package triage

import (
	"sort"

	"github.com/minjae/threadlens/internal/domain"
)

// Flatten turns the comment forest into a flat depth-first sequence. Each
// comment keeps its own depth but loses its children, which appear as
// independent items later in the sequence.
func Flatten(forest []domain.Comment) []domain.Comment {
	var flat []domain.Comment
	var walk func(comments []domain.Comment)
	walk = func(comments []domain.Comment) {
		for _, c := range comments {
			replies := c.Replies
			c.Replies = nil
			flat = append(flat, c)
			walk(replies)
		}
	}
	walk(forest)
	return flat
}

// HeuristicScore rates a comment's enrichment worthiness without calling the
// model. Three factors: body length (20+ words saturates), shallowness
// (each depth level costs 5%, capped at half), and upvote score normalized
// by 1000.
func HeuristicScore(c *domain.Comment) float64 {
	words := float64(c.WordCount())
	lengthBonus := words / 20.0
	if lengthBonus > 1.0 {
		lengthBonus = 1.0
	}

	depthPenalty := 1.0 - minFloat(float64(c.Depth)*0.05, 0.5)

	return lengthBonus*0.5 + depthPenalty*0.3 + float64(c.Score)/1000.0
}

// PreFilter ranks comments by heuristic score, highest first, and keeps at
// most maxCount. The sort is stable so equal scores keep their traversal
// order. maxCount of zero or less keeps everything.
func PreFilter(comments []domain.Comment, maxCount int) []domain.Comment {
	if len(comments) == 0 {
		return []domain.Comment{}
	}

	ranked := make([]domain.Comment, len(comments))
	copy(ranked, comments)
	sort.SliceStable(ranked, func(i, j int) bool {
		return HeuristicScore(&ranked[i]) > HeuristicScore(&ranked[j])
	})

	if maxCount > 0 && len(ranked) > maxCount {
		ranked = ranked[:maxCount]
	}
	return ranked
}

// Partition splits the sequence into contiguous chunks of at most batchSize.
func Partition(comments []domain.Comment, batchSize int) [][]domain.Comment {
	if batchSize <= 0 {
		batchSize = 20
	}
	var batches [][]domain.Comment
	for start := 0; start < len(comments); start += batchSize {
		end := start + batchSize
		if end > len(comments) {
			end = len(comments)
		}
		batches = append(batches, comments[start:end])
	}
	return batches
}

// FilterByQuality keeps the enriched comments at or above the threshold.
func FilterByQuality(comments []domain.EnrichedComment, threshold float64) []domain.EnrichedComment {
	filtered := make([]domain.EnrichedComment, 0, len(comments))
	for _, c := range comments {
		if c.QualityScore >= threshold {
			filtered = append(filtered, c)
		}
	}
	return filtered
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
