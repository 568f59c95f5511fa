package analyzer

import (
	"math"
	"sort"
	"time"

	"github.com/minjae/threadlens/internal/domain"
	"github.com/minjae/threadlens/internal/gemini"
)

// topCommentsInResult caps how many ranked comments the result carries.
const topCommentsInResult = 10

// topThemes caps the theme percentage breakdown.
const topThemes = 5

type resultInfo struct {
	AnalysisID string
	Duration   time.Duration
	Strategy   string
}

// buildResult assembles the terminal aggregate. All distributions are
// counted explicitly; top comments are re-ranked by relevance times score,
// never taken in arrival order.
func buildResult(post *domain.Post, postURL string, enrichment *domain.PostEnrichment,
	extractedText string, totalFetched int, enriched, quality []domain.EnrichedComment,
	synthesis *domain.Synthesis, info resultInfo) *domain.AnalysisResult {

	sentiments := map[string]int{}
	tones := map[string]int{}
	intents := map[string]int{}
	for _, c := range enriched {
		sentiments[orNeutral(c.Sentiment.TowardOP)]++
		tones[orNeutral(c.Sentiment.OverallTone)]++
		intents[string(c.IntentPrimary)]++
	}

	highQualityPct := 0.0
	if len(enriched) > 0 {
		highQualityPct = round1(float64(len(quality)) / float64(len(enriched)) * 100)
	}

	return &domain.AnalysisResult{
		Metadata: domain.ResultMetadata{
			PostURL:          postURL,
			PostID:           post.ID,
			Subreddit:        post.Subreddit,
			Author:           post.Author,
			PostedAt:         post.CreatedAt,
			Score:            post.Score,
			UpvoteRatio:      post.UpvoteRatio,
			CommentCount:     post.NumComments,
			AnalysisID:       info.AnalysisID,
			AnalyzedAt:       time.Now().UTC(),
			AnalysisDuration: info.Duration.Seconds(),
			SamplingStrategy: info.Strategy,
		},
		Post: domain.PostAnalysis{
			ContentType:   post.ContentType,
			ExtractedText: extractedText,
			Enrichment:    *enrichment,
		},
		Comments: domain.CommentsAnalysis{
			TotalFetched:          totalFetched,
			TotalProcessed:        len(enriched),
			HighQualityCount:      len(quality),
			HighQualityPercentage: highQualityPct,
			SentimentDistribution: sentiments,
			IntentDistribution:    intents,
			ToneDistribution:      tones,
			ThemePercentages:      themePercentages(intents, len(enriched)),
			TopComments:           gemini.TopByRelevance(quality, topCommentsInResult),
			AllInsights:           collectUnique(quality, func(c *domain.EnrichedComment) []string { return c.KeyInsights }),
			AllAdvice:             collectUnique(quality, func(c *domain.EnrichedComment) []string { return c.ActionableAdvice }),
		},
		Synthesis: *synthesis,
		Success:   true,
	}
}

// themePercentages converts the top intent counts to percentages of the
// analyzed total.
func themePercentages(intents map[string]int, total int) map[string]float64 {
	if total == 0 {
		return map[string]float64{}
	}

	type themeCount struct {
		name  string
		count int
	}
	ranked := make([]themeCount, 0, len(intents))
	for name, count := range intents {
		ranked = append(ranked, themeCount{name, count})
	}
	// Count descending, ties by name so the selection is deterministic.
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].count != ranked[j].count {
			return ranked[i].count > ranked[j].count
		}
		return ranked[i].name < ranked[j].name
	})
	if len(ranked) > topThemes {
		ranked = ranked[:topThemes]
	}

	percentages := make(map[string]float64, len(ranked))
	for _, tc := range ranked {
		percentages[tc.name] = round1(float64(tc.count) / float64(total) * 100)
	}
	return percentages
}

// collectUnique gathers the field across comments, deduplicated in
// first-seen order.
func collectUnique(comments []domain.EnrichedComment, field func(*domain.EnrichedComment) []string) []string {
	seen := map[string]bool{}
	out := []string{}
	for i := range comments {
		for _, v := range field(&comments[i]) {
			if v == "" || seen[v] {
				continue
			}
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}

func orNeutral(s string) string {
	if s == "" {
		return "neutral"
	}
	return s
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
