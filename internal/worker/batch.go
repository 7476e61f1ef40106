package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"linkshield/internal/model"
)

// Analyzer is the single-URL analysis entry point the batch runner fans
// out over.
type Analyzer interface {
	AnalyzeURL(ctx context.Context, rawURL string) (*model.RiskVerdict, error)
}

// AnalyzeJob analyzes one URL.
type AnalyzeJob struct {
	URL      string
	Analyzer Analyzer
}

// Outcome pairs a URL with its verdict or failure.
type Outcome struct {
	URL     string
	Verdict *model.RiskVerdict
	Err     error
}

// GetError returns the job failure, if any.
func (o *Outcome) GetError() error { return o.Err }

// Execute runs the analysis for the job's URL.
func (j *AnalyzeJob) Execute(ctx context.Context) Result {
	verdict, err := j.Analyzer.AnalyzeURL(ctx, j.URL)
	return &Outcome{URL: j.URL, Verdict: verdict, Err: err}
}

// BatchRunner fans URL analysis out over a worker pool.
type BatchRunner struct {
	analyzer    Analyzer
	concurrency int
}

// NewBatchRunner creates a batch runner.
func NewBatchRunner(analyzer Analyzer, concurrency int) *BatchRunner {
	return &BatchRunner{analyzer: analyzer, concurrency: concurrency}
}

// Run analyzes all URLs concurrently and returns one outcome per URL, in
// completion order.
func (b *BatchRunner) Run(ctx context.Context, urls []string) []*Outcome {
	if len(urls) == 0 {
		return []*Outcome{}
	}

	pool := NewPool(b.concurrency)
	pool.Start()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			pool.Shutdown()
		case <-done:
		}
	}()

	// Submit from a separate goroutine so Wait can drain results while the
	// queue fills. Submitting inline would block once the channel buffers
	// ran out, with nobody reading results yet.
	go func() {
		defer pool.Close()
		for _, url := range urls {
			pool.Submit(&AnalyzeJob{URL: url, Analyzer: b.analyzer})
		}
	}()

	results := pool.Wait()
	outcomes := make([]*Outcome, len(results))
	for i, result := range results {
		outcomes[i] = result.(*Outcome)
	}
	return outcomes
}

// RunFile reads URLs from a file and analyzes them.
func (b *BatchRunner) RunFile(ctx context.Context, path string) ([]*Outcome, error) {
	urls, err := ReadURLsFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("read URLs: %w", err)
	}
	return b.Run(ctx, urls), nil
}

// ReadURLsFromFile reads one URL per line, skipping blanks and # comments
// and dropping duplicates.
func ReadURLsFromFile(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var urls []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if !seen[line] {
			seen[line] = true
			urls = append(urls, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return urls, nil
}
