package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/minjae/threadlens/internal/domain"
)

var analyzeNoCache bool

var analyzeCmd = &cobra.Command{
	Use:   "analyze <post-url>",
	Short: "Analyze a single Reddit post",
	Long: `Analyze fetches the post and its comment tree, enriches the comments
with Gemini, and writes the report files.

Examples:
  threadlens analyze https://www.reddit.com/r/golang/comments/1abc23/some_post/
  threadlens analyze https://redd.it/1abc23 --no-cache`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().BoolVar(&analyzeNoCache, "no-cache", false, "bypass the result cache")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	orchestrator, err := newOrchestrator()
	if err != nil {
		return err
	}

	result, err := orchestrator.AnalyzeURL(context.Background(), args[0], !analyzeNoCache)
	if err != nil {
		return fmt.Errorf("analyze %s: %w", args[0], err)
	}

	printSummary(result)
	return nil
}

// printSummary writes a short console digest of one finished analysis.
func printSummary(result *domain.AnalysisResult) {
	meta := result.Metadata
	fmt.Printf("\nr/%s: %s\n", meta.Subreddit, meta.PostID)
	if meta.FromCache {
		fmt.Println("(served from cache)")
	}
	fmt.Printf("Comments analyzed: %d of %d fetched (%d high quality)\n",
		result.Comments.TotalProcessed, result.Comments.TotalFetched,
		result.Comments.HighQualityCount)
	fmt.Printf("Sampling strategy: %s\n", meta.SamplingStrategy)
	if result.Synthesis.ExecutiveSummary != "" {
		fmt.Printf("\n%s\n", result.Synthesis.ExecutiveSummary)
	}
}
