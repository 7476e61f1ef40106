package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"linkshield/internal/model"
	"linkshield/internal/worker"
)

var (
	batchTimeout time.Duration
	batchWorkers int
	outputDir    string
)

var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Analyze multiple URLs from a file in parallel",
	Long: `Batch reads URLs from a file (one per line, # comments and blank
lines skipped, duplicates dropped) and analyzes them concurrently.

Example:
  linkshield batch urls.txt
  linkshield batch urls.txt --workers 8 --json`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for the batch")
	batchCmd.Flags().IntVar(&batchWorkers, "workers", 0, "concurrent workers (default from config)")
	batchCmd.Flags().StringVar(&artifactPath, "model", "", "path to the model artifact (overrides config)")
	batchCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the verdict cache")
	batchCmd.Flags().BoolVar(&noFetch, "no-fetch", false, "skip page fetching (lexical and heuristic signals only)")
	batchCmd.Flags().BoolVar(&outputJSON, "json", false, "print verdicts as JSON lines")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "", "write one JSON verdict file per URL to this directory")
}

func runBatch(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	analyzer, cfg, err := buildAnalyzer()
	if err != nil {
		return err
	}
	workers := batchWorkers
	if workers <= 0 {
		workers = cfg.Concurrency.Workers
	}

	if outputDir != "" {
		if err := os.MkdirAll(outputDir, 0755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}

	runner := worker.NewBatchRunner(analyzer, workers)
	outcomes, err := runner.RunFile(ctx, args[0])
	if err != nil {
		return err
	}

	high, low, failed := 0, 0, 0
	for _, outcome := range outcomes {
		if outcome.Err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", outcome.URL, outcome.Err)
			continue
		}
		switch outcome.Verdict.Risk {
		case model.RiskHigh:
			high++
		case model.RiskLow:
			low++
		}
		if err := renderVerdict(os.Stdout, outcome.Verdict, outputJSON); err != nil {
			return err
		}
		if outputDir != "" {
			if err := writeVerdictFile(outputDir, outcome.Verdict); err != nil {
				fmt.Fprintf(os.Stderr, "✗ %s: %v\n", outcome.URL, err)
			}
		}
	}

	fmt.Fprintf(os.Stderr, "\n%d analyzed: %d high risk, %d low risk, %d failed\n",
		len(outcomes), high, low, failed)
	return nil
}

// writeVerdictFile writes one verdict as pretty JSON, named after the URL.
func writeVerdictFile(dir string, verdict *model.RiskVerdict) error {
	data, err := json.MarshalIndent(verdict, "", "  ")
	if err != nil {
		return fmt.Errorf("encode verdict: %w", err)
	}
	path := filepath.Join(dir, sanitizeFilename(verdict.URL)+".json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write verdict: %w", err)
	}
	return nil
}

// sanitizeFilename turns a URL into a safe file name.
func sanitizeFilename(s string) string {
	s = strings.TrimPrefix(s, "https://")
	s = strings.TrimPrefix(s, "http://")
	replacer := strings.NewReplacer(
		"/", "_", "\\", "_", ":", "_", "*", "_", "?", "_",
		"\"", "_", "<", "_", ">", "_", "|", "_", " ", "-",
	)
	s = replacer.Replace(s)
	if len(s) > 100 {
		s = s[:100]
	}
	return s
}
