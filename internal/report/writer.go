// Package report renders finished analyses to JSON and Markdown files.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/minjae/threadlens/internal/config"
	"github.com/minjae/threadlens/internal/domain"
	"github.com/minjae/threadlens/internal/logger"
)

// Writer saves analysis results under the output directory as
// {post_id}_{timestamp}.json and .md. Report writing never fails an
// analysis: errors are logged and the other format is still attempted.
type Writer struct {
	dir    string
	format string
	log    *logger.Logger

	// Overridable in tests for deterministic filenames.
	now func() time.Time
}

// New creates a Writer from output configuration.
func New(cfg *config.OutputConfig, log *logger.Logger) *Writer {
	if log == nil {
		log = logger.Default()
	}
	dir := cfg.OutputDirectory
	if dir == "" {
		dir = "./analysis_results"
	}
	format := cfg.Format
	if format == "" {
		format = "both"
	}
	return &Writer{
		dir:    dir,
		format: format,
		log:    log.WithField(logger.FieldComponent, "report"),
		now:    time.Now,
	}
}

// Save writes the result in the configured formats. Each format is written
// independently; a failure in one does not block the other.
func (w *Writer) Save(result *domain.AnalysisResult) {
	stamp := w.now().Format("20060102_150405")

	if w.format == "json" || w.format == "both" {
		path, err := w.writeJSON(result, stamp)
		if err != nil {
			w.log.WithError(err).Error("Failed to save JSON report")
		} else {
			w.log.WithField("path", path).Info("Saved JSON report")
		}
	}

	if w.format == "markdown" || w.format == "both" {
		path, err := w.writeMarkdown(result, stamp)
		if err != nil {
			w.log.WithError(err).Error("Failed to save Markdown report")
		} else {
			w.log.WithField("path", path).Info("Saved Markdown report")
		}
	}
}

func (w *Writer) writeJSON(result *domain.AnalysisResult, stamp string) (string, error) {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to serialize result: %w", err)
	}

	path := filepath.Join(w.dir, fmt.Sprintf("%s_%s.json", result.Metadata.PostID, stamp))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}

func (w *Writer) writeMarkdown(result *domain.AnalysisResult, stamp string) (string, error) {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	path := filepath.Join(w.dir, fmt.Sprintf("%s_%s.md", result.Metadata.PostID, stamp))
	if err := os.WriteFile(path, []byte(RenderMarkdown(result)), 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}
