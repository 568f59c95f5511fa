// Package cli implements the threadlens command-line interface.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/minjae/threadlens/internal/config"
	"github.com/minjae/threadlens/internal/logger"
)

var (
	// Version is set at build time.
	Version = "0.1.0"

	// Global flags
	configPath string
	verbose    bool

	// Loaded in PersistentPreRunE, shared by all commands.
	cfg *config.Config
	log *logger.Logger
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "threadlens",
	Short: "Reddit post and comment-tree analyzer",
	Long: `Threadlens fetches a Reddit post with its comment tree, recovers text
from images, galleries, and linked articles, enriches the comments in
batches with Gemini, and synthesizes the results into a report.

Results are written as JSON and Markdown files and cached locally, so
re-analyzing the same post within the cache window is instant.`,
	Version: Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "version" || cmd.Name() == "help" {
			return nil
		}

		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		logCfg := &logger.Config{
			Level:       cfg.Logging.Level,
			Format:      cfg.Logging.Format,
			File:        cfg.Logging.File,
			ServiceName: "threadlens",
		}
		if verbose {
			logCfg.Level = "debug"
		}
		log = logger.New(logCfg)
		logger.SetDefault(log)

		return nil
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(cacheStatsCmd)
	rootCmd.AddCommand(cacheClearCmd)
}
