package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/minjae/threadlens/internal/domain"
)

// topCommentsInReport caps the comment section of the Markdown report.
const topCommentsInReport = 5

// RenderMarkdown produces the human-readable report.
func RenderMarkdown(result *domain.AnalysisResult) string {
	var md []string
	meta := &result.Metadata

	md = append(md,
		"# Reddit Post Analysis Report\n",
		fmt.Sprintf("**Subreddit:** r/%s", meta.Subreddit),
		fmt.Sprintf("**Author:** u/%s", meta.Author),
		fmt.Sprintf("**Score:** %d (%.0f%% upvoted)", meta.Score, meta.UpvoteRatio*100),
		fmt.Sprintf("**Comments:** %d", meta.CommentCount),
		fmt.Sprintf("**Posted:** %s", meta.PostedAt.Format("2006-01-02 15:04:05")),
		fmt.Sprintf("**Analyzed:** %s\n", meta.AnalyzedAt.Format("2006-01-02 15:04:05")),
	)

	md = append(md,
		"## Executive Summary\n",
		result.Synthesis.ExecutiveSummary,
		"",
	)

	enrichment := &result.Post.Enrichment
	md = append(md,
		"## Post Analysis\n",
		fmt.Sprintf("**Type:** %s", result.Post.ContentType),
		fmt.Sprintf("**Core Issue:** %s\n", enrichment.CoreIssue),
		"### Summary",
		enrichment.Summaries.Analytical,
		"",
		"### Sentiment",
		fmt.Sprintf("- **Primary:** %s", enrichment.Sentiment.Primary),
		fmt.Sprintf("- **Intensity:** %s", enrichment.Sentiment.Intensity),
		fmt.Sprintf("- **Tone:** %s\n", enrichment.Sentiment.EmotionalTone),
	)

	consensus := &result.Synthesis.CommunityConsensus
	md = append(md,
		"## Community Response\n",
		fmt.Sprintf("**Validation Status:** %s", consensus.ValidationStatus),
		fmt.Sprintf("**Agreement Level:** %s\n", consensus.AgreementLevel),
	)

	if len(result.Comments.ThemePercentages) > 0 {
		md = append(md, "### Comment Themes\n")
		for _, theme := range sortedThemes(result.Comments.ThemePercentages) {
			md = append(md, fmt.Sprintf("- **%s**: %.1f%%", theme, result.Comments.ThemePercentages[theme]))
		}
		md = append(md, "")
	}

	if len(result.Synthesis.KeyInsights) > 0 {
		md = append(md, "### Key Insights\n")
		for _, insight := range result.Synthesis.KeyInsights {
			md = append(md, "- "+insight)
		}
		md = append(md, "")
	}

	if len(result.Synthesis.RecommendedActions) > 0 {
		md = append(md, "### Recommended Actions\n")
		for _, action := range result.Synthesis.RecommendedActions {
			md = append(md, "- "+action)
		}
		md = append(md, "")
	}

	md = append(md, "## Top Comments\n")
	top := result.Comments.TopComments
	if len(top) > topCommentsInReport {
		top = top[:topCommentsInReport]
	}
	for i, c := range top {
		md = append(md,
			fmt.Sprintf("### Comment %d (Score: %d)", i+1, c.Score),
			fmt.Sprintf("**Intent:** %s", c.IntentPrimary),
			fmt.Sprintf("**Sentiment toward OP:** %s", c.Sentiment.TowardOP),
			fmt.Sprintf("\n%s...\n", truncate(c.Body, 500)),
		)
	}

	return strings.Join(md, "\n")
}

// sortedThemes orders theme names by percentage descending, ties by name.
func sortedThemes(themes map[string]float64) []string {
	names := make([]string, 0, len(themes))
	for name := range themes {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if themes[names[i]] != themes[names[j]] {
			return themes[names[i]] > themes[names[j]]
		}
		return names[i] < names[j]
	})
	return names
}

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
