package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/minjae/threadlens/internal/cache"
)

var (
	cacheClearAll bool
	cacheClearYes bool
)

// cacheKinds fixes the display order of per-kind counts.
var cacheKinds = []string{cache.KindPosts, cache.KindComments, cache.KindOCR, cache.KindLinks}

var cacheStatsCmd = &cobra.Command{
	Use:   "cache-stats",
	Short: "Show row counts for each cache table",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}

		stats := store.Stats(context.Background())
		fmt.Println("Cache contents:")
		for _, kind := range cacheKinds {
			fmt.Printf("  %-13s %d\n", kind, stats[kind])
		}
		return nil
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "cache-clear",
	Short: "Remove expired cache entries, or everything with --all",
	Long: `By default cache-clear removes only entries older than the configured
expiry window and reports how many rows each table lost. With --all it
drops every cached row after asking for confirmation.`,
	Args: cobra.NoArgs,
	RunE: runCacheClear,
}

func init() {
	cacheClearCmd.Flags().BoolVar(&cacheClearAll, "all", false, "drop every cached row, not just expired ones")
	cacheClearCmd.Flags().BoolVar(&cacheClearYes, "yes", false, "skip the confirmation prompt")
}

func runCacheClear(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	ctx := context.Background()

	if !cacheClearAll {
		removed := store.SweepExpired(ctx)
		fmt.Println("Removed expired entries:")
		for _, kind := range cacheKinds {
			fmt.Printf("  %-13s %d\n", kind, removed[kind])
		}
		return nil
	}

	if !cacheClearYes && !confirm("Drop ALL cached data?") {
		fmt.Println("Aborted.")
		return nil
	}
	if err := store.ClearAll(ctx); err != nil {
		return fmt.Errorf("clear cache: %w", err)
	}
	fmt.Println("Cache cleared.")
	return nil
}

// confirm asks a yes/no question on stdin.
func confirm(prompt string) bool {
	fmt.Printf("%s [y/N]: ", prompt)
	scanner := bufio.NewScanner(os.Stdin)
	if !scanner.Scan() {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(scanner.Text()))
	return answer == "y" || answer == "yes"
}
