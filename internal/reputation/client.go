package reputation

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"golang.org/x/time/rate"

	"linkshield/internal/model"
)

// maxResponseBytes bounds the provider response body.
const maxResponseBytes = 1 << 20

// HTTPProvider queries a VirusTotal-style aggregation endpoint that returns
// per-URL engine counts as JSON.
type HTTPProvider struct {
	endpoint string
	apiKey   string
	client   *http.Client
	limiter  *rate.Limiter
}

// NewHTTPProvider builds a provider from configuration. Returns nil when no
// endpoint is configured, which disables the reputation signal.
func NewHTTPProvider(cfg model.ReputationConfig) *HTTPProvider {
	if cfg.Endpoint == "" {
		return nil
	}
	rps := cfg.RatePerSecond
	if rps <= 0 {
		rps = 1
	}
	burst := cfg.RateBurst
	if burst <= 0 {
		burst = 1
	}
	return &HTTPProvider{
		endpoint: cfg.Endpoint,
		apiKey:   cfg.APIKey,
		client:   &http.Client{Timeout: cfg.Timeout},
		limiter:  rate.NewLimiter(rate.Limit(rps), burst),
	}
}

type scanResponse struct {
	Positives int `json:"positives"`
	Total     int `json:"total"`
}

// Lookup fetches engine counts for a URL. Provider errors and non-200
// statuses surface as errors so the caller treats the signal as
// unavailable instead of clean.
func (p *HTTPProvider) Lookup(ctx context.Context, rawURL string) (*Report, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	endpoint := p.endpoint + "?url=" + url.QueryEscape(rawURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	if p.apiKey != "" {
		req.Header.Set("X-Api-Key", p.apiKey)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("reputation lookup: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("reputation lookup: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	var scan scanResponse
	if err := json.Unmarshal(body, &scan); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	return &Report{Malicious: scan.Positives, Total: scan.Total}, nil
}
