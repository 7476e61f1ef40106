package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"linkshield/internal/cache"
	"linkshield/internal/classify"
	"linkshield/internal/detect"
	"linkshield/internal/feature"
	"linkshield/internal/fuse"
	"linkshield/internal/model"
	"linkshield/internal/reputation"
	"linkshield/internal/urlx"
)

// Deps are the external capabilities the analyzer orchestrates. Any of them
// may be nil, which disables the corresponding signal.
type Deps struct {
	Fetcher    PageFetcher
	Oracle     detect.DomainAgeOracle
	Reputation reputation.Provider
	Cache      cache.Cache
	Logger     zerolog.Logger
}

// Analyzer runs the full analysis pipeline for one URL: parse, cache
// lookup, trusted-domain override, concurrent signal gathering, feature
// extraction, classification and fusion.
type Analyzer struct {
	cfg        *model.Config
	extractor  *feature.Extractor
	detectors  *detect.Set
	classifier *classify.Classifier
	policy     *fuse.Policy
	deps       Deps
}

// NewAnalyzer assembles an analyzer from configuration and a validated
// model artifact.
func NewAnalyzer(cfg *model.Config, artifact *classify.Artifact, deps Deps) *Analyzer {
	return &Analyzer{
		cfg:        cfg,
		extractor:  feature.NewExtractor(cfg.Detect.HighRiskTLDs),
		detectors:  detect.NewSet(cfg.Detect, deps.Oracle),
		classifier: classify.NewClassifier(artifact),
		policy:     fuse.NewPolicy(cfg.Detect),
		deps:       deps,
	}
}

// Analyze produces a verdict for one request. When the request carries a
// pre-fetched page snapshot it is used as-is and no fetch happens.
// Unavailable signals degrade the verdict, never fail it; only malformed
// input and broken configuration return errors.
func (a *Analyzer) Analyze(ctx context.Context, req model.AnalysisRequest) (*model.RiskVerdict, error) {
	started := time.Now()

	parts, err := urlx.Parse(req.URL)
	if err != nil {
		return nil, &model.InputError{URL: req.URL, Reason: err.Error()}
	}

	cacheKey := cache.Key(parts.Raw)
	if a.cacheEnabled() {
		if hit, found := a.deps.Cache.Get(cacheKey); found {
			hit.CacheHit = true
			a.logVerdict(hit, started)
			return hit, nil
		}
	}

	if a.policy.Trusted(parts.Domain) {
		verdict := a.policy.TrustedVerdict(parts.Raw, parts.Domain)
		a.store(cacheKey, verdict)
		a.logVerdict(verdict, started)
		return verdict, nil
	}

	signals := a.gather(ctx, parts, req.Page)

	in := fuse.Inputs{
		URL:        parts.Raw,
		Domain:     parts.Domain,
		Heuristics: signals.heuristics,
		Reputation: signals.reputation,
		Degraded:   signals.degraded,
	}

	if signals.page != nil {
		clsVerdict, err := a.classify(parts, signals.page)
		if err != nil {
			var fatal *model.ConfigurationFatal
			if errors.As(err, &fatal) {
				return nil, err
			}
			in.Degraded = append(in.Degraded, fmt.Sprintf("classifier unavailable: %v", err))
		} else {
			in.Classifier = clsVerdict
		}
	} else {
		in.Degraded = append(in.Degraded, "classifier skipped (no feature vector without the page)")
	}

	verdict := a.policy.Decide(in)
	a.store(cacheKey, verdict)
	a.logVerdict(verdict, started)
	return verdict, nil
}

// AnalyzeURL analyzes a bare URL with no pre-fetched page.
func (a *Analyzer) AnalyzeURL(ctx context.Context, rawURL string) (*model.RiskVerdict, error) {
	return a.Analyze(ctx, model.AnalysisRequest{URL: rawURL})
}

// BatchResult pairs one batch URL with its verdict or failure.
type BatchResult struct {
	URL     string
	Verdict *model.RiskVerdict
	Err     error
}

// AnalyzeBatch runs up to the configured batch size of URLs as independent
// analyses and returns one result per URL, in input order. A failure on one
// URL lands in its own result and leaves the rest untouched. Only an
// oversized batch fails the call itself, so one such request cannot
// monopolize the workers.
func (a *Analyzer) AnalyzeBatch(ctx context.Context, urls []string) ([]BatchResult, error) {
	limit := a.cfg.Concurrency.BatchSize
	if len(urls) > limit {
		return nil, &model.InputError{
			URL:    fmt.Sprintf("batch of %d URLs", len(urls)),
			Reason: fmt.Sprintf("batch size exceeds limit of %d", limit),
		}
	}

	results := make([]BatchResult, len(urls))
	g := new(errgroup.Group)
	g.SetLimit(a.cfg.Concurrency.Workers)
	for i, url := range urls {
		i, url := i, url
		g.Go(func() error {
			verdict, err := a.AnalyzeURL(ctx, url)
			results[i] = BatchResult{URL: url, Verdict: verdict, Err: err}
			return nil
		})
	}
	_ = g.Wait() // per-URL failures are carried in the results
	return results, nil
}

type gathered struct {
	page       *model.PageSnapshot
	heuristics model.SignalResult
	reputation *model.SignalResult
	degraded   []string
}

// gather collects the page, the heuristic signal and the reputation signal
// concurrently. A caller-provided page short-circuits the fetch. Each
// capability bounds its own latency; failures become degradation notes.
func (a *Analyzer) gather(ctx context.Context, parts *urlx.Parts, page *model.PageSnapshot) *gathered {
	out := &gathered{page: page}
	var fetchNote, repNote string

	g, gctx := errgroup.WithContext(ctx)

	switch {
	case page != nil:
		// caller supplied the page
	case a.deps.Fetcher != nil:
		g.Go(func() error {
			fetched, err := a.deps.Fetcher.Fetch(gctx, parts.Raw)
			if err != nil {
				fetchNote = "page fetch failed; content features unavailable"
				return nil
			}
			out.page = fetched
			return nil
		})
	default:
		fetchNote = "page fetching disabled; content features unavailable"
	}

	g.Go(func() error {
		out.heuristics = a.detectors.Run(gctx, parts)
		return nil
	})

	if a.deps.Reputation != nil {
		g.Go(func() error {
			repCtx := gctx
			if a.cfg.Reputation.Timeout > 0 {
				var cancel context.CancelFunc
				repCtx, cancel = context.WithTimeout(gctx, a.cfg.Reputation.Timeout)
				defer cancel()
			}
			result, err := reputation.Evaluate(repCtx, a.deps.Reputation, parts.Raw, a.cfg.Reputation.CleanFloor)
			if err != nil {
				repNote = "reputation service unavailable"
				return nil
			}
			out.reputation = result
			return nil
		})
	}

	_ = g.Wait() // goroutines only record notes, they never return errors

	if fetchNote != "" {
		out.degraded = append(out.degraded, fetchNote)
	}
	if repNote != "" {
		out.degraded = append(out.degraded, repNote)
	}
	return out
}

func (a *Analyzer) classify(parts *urlx.Parts, page *model.PageSnapshot) (*model.ClassifierVerdict, error) {
	req := model.AnalysisRequest{URL: parts.Raw, Page: page}
	vec, err := a.extractor.Extract(req, parts)
	if err != nil {
		return nil, err
	}
	verdict, err := a.classifier.Score(vec)
	if err != nil {
		return nil, err
	}
	return &verdict, nil
}

func (a *Analyzer) cacheEnabled() bool {
	return a.deps.Cache != nil && a.cfg.Cache.Enabled
}

func (a *Analyzer) store(key string, verdict *model.RiskVerdict) {
	if !a.cacheEnabled() {
		return
	}
	_ = a.deps.Cache.Set(key, verdict, a.cfg.Cache.TTL)
}

func (a *Analyzer) logVerdict(v *model.RiskVerdict, started time.Time) {
	a.deps.Logger.Info().
		Str("url", v.URL).
		Str("domain", v.Domain).
		Str("risk", string(v.Risk)).
		Float64("confidence", v.Confidence).
		Str("source", string(v.Source)).
		Bool("cache_hit", v.CacheHit).
		Dur("elapsed", time.Since(started)).
		Msg("analysis complete")
}
