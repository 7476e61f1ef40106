// Package pipeline wires fetching, extraction, detection, classification
// and fusion into the analysis entry points.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/net/html"

	"linkshield/internal/model"
	"linkshield/internal/worker"
)

const maxRedirects = 10

// PageFetcher retrieves a page snapshot for analysis.
type PageFetcher interface {
	Fetch(ctx context.Context, rawURL string) (*model.PageSnapshot, error)
}

// HTTPFetcher fetches pages over HTTP with per-host rate limiting and
// optional robots.txt compliance.
type HTTPFetcher struct {
	client    *http.Client
	userAgent string
	maxBytes  int64
	limiter   *worker.Limiter
	robots    *robotsGate
}

// NewHTTPFetcher builds a fetcher from configuration.
func NewHTTPFetcher(cfg model.HTTPConfig) *HTTPFetcher {
	f := &HTTPFetcher{
		client:    &http.Client{Timeout: cfg.Timeout},
		userAgent: cfg.UserAgent,
		maxBytes:  cfg.MaxBodyBytes,
		limiter:   worker.NewLimiter(cfg.RatePerSecond, cfg.RateBurst),
	}
	if cfg.RespectRobots {
		f.robots = newRobotsGate(cfg.Timeout, cfg.UserAgent)
	}
	return f
}

// Fetch retrieves the page and assembles a snapshot with redirect count and
// the resource-bearing elements resolved to absolute URLs.
func (f *HTTPFetcher) Fetch(ctx context.Context, rawURL string) (*model.PageSnapshot, error) {
	if err := f.limiter.Wait(ctx, rawURL); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}
	if f.robots != nil {
		allowed, err := f.robots.allowed(ctx, rawURL)
		if err == nil && !allowed {
			return nil, fmt.Errorf("fetch %s: disallowed by robots.txt", rawURL)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	// The redirect count is per request, so each call gets its own shallow
	// client copy with a counting CheckRedirect.
	redirects := 0
	client := *f.client
	client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		if len(via) >= maxRedirects {
			return fmt.Errorf("stopped after %d redirects", maxRedirects)
		}
		redirects = len(via)
		return nil
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status: %d %s", resp.StatusCode, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	finalURL := resp.Request.URL.String()
	snapshot := &model.PageSnapshot{
		HTML:          string(body),
		FinalURL:      finalURL,
		HTTPS:         resp.Request.URL.Scheme == "https",
		RedirectCount: redirects,
		Elements:      collectElements(string(body), finalURL),
	}
	return snapshot, nil
}

// collectElements walks the document and records every resource-bearing
// element with its reference resolved against the final URL.
func collectElements(htmlText, finalURL string) []model.ElementRef {
	doc, err := html.Parse(strings.NewReader(htmlText))
	if err != nil {
		return nil
	}
	base, _ := url.Parse(finalURL)

	var elements []model.ElementRef
	add := func(tag, ref string) {
		elements = append(elements, model.ElementRef{Tag: tag, URL: resolveRef(base, ref)})
	}

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "img":
				add(model.TagImage, attr(n, "src"))
			case "script":
				add(model.TagScript, attr(n, "src"))
			case "iframe":
				add(model.TagIframe, attr(n, "src"))
			case "a":
				add(model.TagAnchor, attr(n, "href"))
			case "link":
				if strings.Contains(strings.ToLower(attr(n, "rel")), "stylesheet") {
					add(model.TagStylesheet, attr(n, "href"))
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return elements
}

func attr(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}

func resolveRef(base *url.URL, ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" || strings.HasPrefix(ref, "#") ||
		strings.HasPrefix(strings.ToLower(ref), "javascript:") ||
		strings.HasPrefix(strings.ToLower(ref), "data:") {
		return ""
	}
	if base == nil {
		return ref
	}
	parsed, err := url.Parse(ref)
	if err != nil {
		return ""
	}
	return base.ResolveReference(parsed).String()
}
