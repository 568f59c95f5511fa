package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/minjae/threadlens/internal/domain"
	"github.com/minjae/threadlens/internal/logger"
	"github.com/minjae/threadlens/internal/prompts"
)

// Prompt truncation limits, in characters.
const (
	maxPostTextChars   = 10000
	maxSummaryChars    = 1000
	maxCommentChars    = 1000
	maxSynthesisChars  = 5000
	maxTopCommentChars = 500
	synthesisTopN      = 20
)

// EnrichPost analyzes the post text and returns the structured enrichment.
// Always returns a usable record: when generation or parsing fails the
// documented default is substituted.
func (c *Client) EnrichPost(ctx context.Context, post *domain.Post, postText string) *domain.PostEnrichment {
	prompt := prompts.PostAnalysis(truncate(postText, maxPostTextChars), post.Subreddit, post.Title)

	c.log.WithField(logger.FieldPostID, post.ID).Info("Analyzing post")
	text, err := c.generateText(ctx, prompt)
	if err != nil {
		c.log.WithError(err).Warn("Post analysis failed, using defaults")
		return domain.DefaultPostEnrichment()
	}

	raw, ok := ExtractJSON(text)
	if !ok {
		c.log.Warn("Failed to parse post analysis response, using defaults")
		return domain.DefaultPostEnrichment()
	}

	var enrichment domain.PostEnrichment
	if err := json.Unmarshal(raw, &enrichment); err != nil {
		c.log.WithError(err).Warn("Unparseable post analysis payload, using defaults")
		return domain.DefaultPostEnrichment()
	}
	normalizePostEnrichment(&enrichment)
	return &enrichment
}

// commentAnalysis is the per-comment record the model returns.
type commentAnalysis struct {
	CommentID         string                  `json:"comment_id"`
	QualityScore      float64                 `json:"quality_score"`
	IntentPrimary     string                  `json:"intent_primary"`
	IntentSecondary   string                  `json:"intent_secondary"`
	Sentiment         domain.CommentSentiment `json:"sentiment"`
	KeyInsights       []string                `json:"key_insights"`
	ActionableAdvice  []string                `json:"actionable_advice"`
	SharedExperiences []string                `json:"shared_experiences"`
	RelevanceScore    float64                 `json:"relevance_score"`
}

// EnrichComments analyzes one batch of comments against the post summary.
// The result always has exactly one record per input comment, aligned by
// position. Comments the model skipped, and the whole batch when generation
// or parsing fails, get the neutral default record.
func (c *Client) EnrichComments(ctx context.Context, postSummary string, batch []domain.Comment) []domain.EnrichedComment {
	if len(batch) == 0 {
		return []domain.EnrichedComment{}
	}

	prompt := prompts.CommentsBatch(truncate(postSummary, maxSummaryChars), formatComments(batch))

	text, err := c.generateText(ctx, prompt)
	if err != nil {
		c.log.WithError(err).Warn("Comment batch analysis failed, using defaults")
		return defaultBatch(batch)
	}

	raw, ok := ExtractJSON(text)
	if !ok {
		c.log.Warn("Failed to parse comment batch response, using defaults")
		return defaultBatch(batch)
	}

	var analyses []commentAnalysis
	if err := json.Unmarshal(raw, &analyses); err != nil {
		c.log.WithError(err).Warn("Comment batch payload is not an array, using defaults")
		return defaultBatch(batch)
	}

	enriched := make([]domain.EnrichedComment, len(batch))
	for i, comment := range batch {
		if i < len(analyses) {
			enriched[i] = applyAnalysis(comment, &analyses[i])
		} else {
			enriched[i] = domain.DefaultEnrichedComment(comment)
		}
	}
	return enriched
}

// Synthesize produces the final consolidated analysis from the enriched post
// and comments. Comments are ranked by relevance times upvote score and the
// top twenty are sent. Always returns a usable record.
func (c *Client) Synthesize(ctx context.Context, title string, enrichment *domain.PostEnrichment, comments []domain.EnrichedComment) *domain.Synthesis {
	if len(comments) == 0 {
		c.log.Info("No comments to synthesize, using defaults")
		return domain.DefaultSynthesis()
	}

	postData, err := json.MarshalIndent(map[string]interface{}{
		"title":      title,
		"core_issue": enrichment.CoreIssue,
		"sentiment":  enrichment.Sentiment,
		"summaries":  enrichment.Summaries,
	}, "", "  ")
	if err != nil {
		c.log.WithError(err).Warn("Failed to serialize post data for synthesis")
		return domain.DefaultSynthesis()
	}

	top := TopByRelevance(comments, synthesisTopN)
	summaries := make([]map[string]interface{}, 0, len(top))
	for _, tc := range top {
		summaries = append(summaries, map[string]interface{}{
			"score":        tc.Score,
			"body":         truncate(tc.Body, maxTopCommentChars),
			"intent":       tc.IntentPrimary,
			"sentiment":    tc.Sentiment,
			"key_insights": tc.KeyInsights,
		})
	}
	commentsData, err := json.MarshalIndent(summaries, "", "  ")
	if err != nil {
		c.log.WithError(err).Warn("Failed to serialize comments for synthesis")
		return domain.DefaultSynthesis()
	}

	prompt := prompts.Synthesis(
		truncate(string(postData), maxSynthesisChars),
		truncate(string(commentsData), maxSynthesisChars),
	)

	c.log.Info("Generating synthesis")
	text, err := c.generateText(ctx, prompt)
	if err != nil {
		c.log.WithError(err).Warn("Synthesis failed, using defaults")
		return domain.DefaultSynthesis()
	}

	raw, ok := ExtractJSON(text)
	if !ok {
		c.log.Warn("Failed to parse synthesis response, using defaults")
		return domain.DefaultSynthesis()
	}

	var synthesis domain.Synthesis
	if err := json.Unmarshal(raw, &synthesis); err != nil {
		c.log.WithError(err).Warn("Unparseable synthesis payload, using defaults")
		return domain.DefaultSynthesis()
	}
	normalizeSynthesis(&synthesis)
	return &synthesis
}

// TopByRelevance returns the n comments with the highest relevance_score
// times upvote score, highest first. The input is not modified.
func TopByRelevance(comments []domain.EnrichedComment, n int) []domain.EnrichedComment {
	ranked := make([]domain.EnrichedComment, len(comments))
	copy(ranked, comments)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].RelevanceScore*float64(ranked[i].Score) >
			ranked[j].RelevanceScore*float64(ranked[j].Score)
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// formatComments renders the numbered comment block for the batch prompt.
func formatComments(batch []domain.Comment) string {
	lines := make([]string, 0, len(batch))
	for i, c := range batch {
		lines = append(lines, fmt.Sprintf("%d. [Score: %d] %q", i+1, c.Score, truncate(c.Body, maxCommentChars)))
	}
	return strings.Join(lines, "\n\n")
}

func defaultBatch(batch []domain.Comment) []domain.EnrichedComment {
	enriched := make([]domain.EnrichedComment, len(batch))
	for i, c := range batch {
		enriched[i] = domain.DefaultEnrichedComment(c)
	}
	return enriched
}

// applyAnalysis merges one model record onto its comment, normalizing
// out-of-range and unknown values instead of rejecting the record.
func applyAnalysis(comment domain.Comment, a *commentAnalysis) domain.EnrichedComment {
	comment.Replies = nil
	e := domain.EnrichedComment{
		Comment:           comment,
		QualityScore:      clampScore(a.QualityScore),
		RelevanceScore:    clampScore(a.RelevanceScore),
		IntentPrimary:     normalizeIntent(a.IntentPrimary),
		Sentiment:         a.Sentiment,
		KeyInsights:       emptyIfNil(a.KeyInsights),
		ActionableAdvice:  emptyIfNil(a.ActionableAdvice),
		SharedExperiences: emptyIfNil(a.SharedExperiences),
	}
	if a.IntentSecondary != "" {
		if secondary := normalizeIntent(a.IntentSecondary); secondary != domain.IntentUnknown {
			e.IntentSecondary = secondary
		}
	}
	if e.Sentiment.TowardOP == "" {
		e.Sentiment.TowardOP = "neutral"
	}
	if e.Sentiment.TowardSubject == "" {
		e.Sentiment.TowardSubject = "neutral"
	}
	if e.Sentiment.OverallTone == "" {
		e.Sentiment.OverallTone = "neutral"
	}
	return e
}

func clampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 10 {
		return 10
	}
	return v
}

func normalizeIntent(s string) domain.Intent {
	intent := domain.Intent(strings.ToUpper(strings.TrimSpace(s)))
	if !domain.ValidIntent(intent) {
		return domain.IntentUnknown
	}
	return intent
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func normalizePostEnrichment(e *domain.PostEnrichment) {
	e.Entities.Organizations = emptyIfNil(e.Entities.Organizations)
	e.Entities.People = emptyIfNil(e.Entities.People)
	e.Entities.Products = emptyIfNil(e.Entities.Products)
	e.Entities.Locations = emptyIfNil(e.Entities.Locations)
	if e.Sentiment.Targets == nil {
		e.Sentiment.Targets = map[string]string{}
	}
	e.Classification.Topics = emptyIfNil(e.Classification.Topics)
}

func normalizeSynthesis(s *domain.Synthesis) {
	s.CommunityConsensus.TopSolutions = emptyIfNil(s.CommunityConsensus.TopSolutions)
	if s.CommunityConsensus.SentimentBreakdown == nil {
		s.CommunityConsensus.SentimentBreakdown = map[string]float64{}
	}
	s.RecommendedActions = emptyIfNil(s.RecommendedActions)
	s.KeyInsights = emptyIfNil(s.KeyInsights)
	s.SystemicPatterns = emptyIfNil(s.SystemicPatterns)
	s.NotablePerspectives = emptyIfNil(s.NotablePerspectives)
}

// truncate cuts s to at most n runes.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
