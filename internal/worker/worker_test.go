package worker

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"linkshield/internal/model"
)

type countingJob struct {
	executed *int32
	err      error
}

func (j *countingJob) Execute(_ context.Context) Result {
	atomic.AddInt32(j.executed, 1)
	return &Outcome{Err: j.err}
}

func TestNewPoolWorkerCount(t *testing.T) {
	if p := NewPool(5); p.workers != 5 {
		t.Errorf("workers = %d, want 5", p.workers)
	}
	if p := NewPool(0); p.workers != 1 {
		t.Errorf("workers = %d, want 1 for zero input", p.workers)
	}
	if p := NewPool(-3); p.workers != 1 {
		t.Errorf("workers = %d, want 1 for negative input", p.workers)
	}
}

func TestPoolExecutesAllJobs(t *testing.T) {
	var executed int32
	pool := NewPool(3)
	pool.Start()

	const jobs = 20
	go func() {
		defer pool.Close()
		for i := 0; i < jobs; i++ {
			pool.Submit(&countingJob{executed: &executed})
		}
	}()
	results := pool.Wait()

	if got := atomic.LoadInt32(&executed); got != jobs {
		t.Errorf("executed %d jobs, want %d", got, jobs)
	}
	if len(results) != jobs {
		t.Errorf("collected %d results, want %d", len(results), jobs)
	}
}

func TestPoolCollectsErrors(t *testing.T) {
	var executed int32
	pool := NewPool(2)
	pool.Start()

	pool.Submit(&countingJob{executed: &executed})
	pool.Submit(&countingJob{executed: &executed, err: errors.New("analysis failed")})
	pool.Close()
	results := pool.Wait()

	failures := 0
	for _, r := range results {
		if r.GetError() != nil {
			failures++
		}
	}
	if failures != 1 {
		t.Errorf("failures = %d, want 1", failures)
	}
}

type stubAnalyzer struct {
	calls int32
	fail  map[string]bool
}

func (s *stubAnalyzer) AnalyzeURL(_ context.Context, rawURL string) (*model.RiskVerdict, error) {
	atomic.AddInt32(&s.calls, 1)
	if s.fail[rawURL] {
		return nil, errors.New("unreachable")
	}
	return &model.RiskVerdict{URL: rawURL, Risk: model.RiskLow}, nil
}

func TestBatchRunner(t *testing.T) {
	analyzer := &stubAnalyzer{fail: map[string]bool{"https://bad.example": true}}
	runner := NewBatchRunner(analyzer, 4)

	urls := []string{
		"https://a.example",
		"https://bad.example",
		"https://b.example",
	}
	outcomes := runner.Run(context.Background(), urls)

	if len(outcomes) != len(urls) {
		t.Fatalf("outcomes = %d, want %d", len(outcomes), len(urls))
	}
	byURL := make(map[string]*Outcome, len(outcomes))
	for _, o := range outcomes {
		byURL[o.URL] = o
	}
	if byURL["https://bad.example"].Err == nil {
		t.Error("failed URL should carry its error")
	}
	if byURL["https://a.example"].Verdict == nil || byURL["https://a.example"].Verdict.Risk != model.RiskLow {
		t.Error("successful URL should carry its verdict")
	}
}

func TestBatchRunnerExceedsChannelBuffers(t *testing.T) {
	analyzer := &stubAnalyzer{}
	runner := NewBatchRunner(analyzer, 1)

	urls := make([]string, 30)
	for i := range urls {
		urls[i] = fmt.Sprintf("https://site-%d.example", i)
	}

	done := make(chan []*Outcome, 1)
	go func() {
		done <- runner.Run(context.Background(), urls)
	}()

	select {
	case outcomes := <-done:
		if len(outcomes) != len(urls) {
			t.Errorf("outcomes = %d, want %d", len(outcomes), len(urls))
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not finish; submission blocked against full buffers")
	}
}

func TestBatchRunnerEmptyInput(t *testing.T) {
	runner := NewBatchRunner(&stubAnalyzer{}, 2)
	if got := runner.Run(context.Background(), nil); len(got) != 0 {
		t.Errorf("outcomes = %v, want empty", got)
	}
}

func TestReadURLsFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "urls.txt")
	content := `# batch of suspicious links
https://a.example/login

https://b.example
https://a.example/login
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	urls, err := ReadURLsFromFile(path)
	if err != nil {
		t.Fatalf("ReadURLsFromFile: %v", err)
	}
	want := []string{"https://a.example/login", "https://b.example"}
	if len(urls) != len(want) {
		t.Fatalf("urls = %v, want %v", urls, want)
	}
	for i := range want {
		if urls[i] != want[i] {
			t.Errorf("urls[%d] = %q, want %q", i, urls[i], want[i])
		}
	}

	if _, err := ReadURLsFromFile(filepath.Join(t.TempDir(), "absent.txt")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLimiterPerHost(t *testing.T) {
	limiter := NewLimiter(1, 1)

	if !limiter.Allow("https://a.example/x") {
		t.Error("first request to a host should be allowed")
	}
	if limiter.Allow("https://a.example/y") {
		t.Error("second immediate request to the same host should be limited")
	}
	if !limiter.Allow("https://b.example/x") {
		t.Error("a different host has its own budget")
	}
}

func TestLimiterWaitHonorsContext(t *testing.T) {
	limiter := NewLimiter(0.01, 1)
	if err := limiter.Wait(context.Background(), "https://slow.example"); err != nil {
		t.Fatalf("first Wait: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := limiter.Wait(ctx, "https://slow.example"); err == nil {
		t.Error("expected context deadline to abort the wait")
	}
}
