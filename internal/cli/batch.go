package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var batchNoCache bool

var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Analyze every post URL listed in a file",
	Long: `Batch reads post URLs from a file, one per line, and analyzes each in
turn. Blank lines and lines starting with # are skipped. One failed URL
does not stop the rest; the command exits non-zero if any URL failed.

Example:
  threadlens batch urls.txt --no-cache`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	batchCmd.Flags().BoolVar(&batchNoCache, "no-cache", false, "bypass the result cache")
}

func runBatch(cmd *cobra.Command, args []string) error {
	urls, err := readURLFile(args[0])
	if err != nil {
		return err
	}
	if len(urls) == 0 {
		return fmt.Errorf("no URLs found in %s", args[0])
	}

	orchestrator, err := newOrchestrator()
	if err != nil {
		return err
	}

	items := orchestrator.AnalyzeAll(context.Background(), urls, !batchNoCache)

	failed := 0
	for _, item := range items {
		if item.Err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "FAILED %s: %v\n", item.URL, item.Err)
			continue
		}
		printSummary(item.Result)
	}

	fmt.Printf("\nAnalyzed %d/%d posts\n", len(items)-failed, len(items))
	if failed > 0 {
		return fmt.Errorf("%d of %d posts failed", failed, len(items))
	}
	return nil
}

// readURLFile parses one URL per line, skipping blanks and # comments.
func readURLFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open URL file: %w", err)
	}
	defer f.Close()

	var urls []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read URL file: %w", err)
	}
	return urls, nil
}
