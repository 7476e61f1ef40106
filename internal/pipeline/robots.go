package pipeline

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/temoto/robotstxt"
)

// robotsGate caches per-host robots.txt verdicts. A host whose robots.txt
// cannot be fetched or parsed is treated as allowing everything, matching
// common crawler behavior.
type robotsGate struct {
	client    *http.Client
	userAgent string

	mu     sync.RWMutex
	groups map[string]*robotstxt.Group
}

func newRobotsGate(timeout time.Duration, userAgent string) *robotsGate {
	return &robotsGate{
		client:    &http.Client{Timeout: timeout},
		userAgent: userAgent,
		groups:    make(map[string]*robotstxt.Group),
	}
}

func (g *robotsGate) allowed(ctx context.Context, rawURL string) (bool, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return true, err
	}
	host := parsed.Scheme + "://" + parsed.Host

	g.mu.RLock()
	group, ok := g.groups[host]
	g.mu.RUnlock()

	if !ok {
		group = g.fetchGroup(ctx, host)
		g.mu.Lock()
		g.groups[host] = group
		g.mu.Unlock()
	}

	if group == nil {
		return true, nil
	}
	return group.Test(parsed.Path), nil
}

// fetchGroup retrieves and parses robots.txt for a host. Nil means no
// restrictions apply.
func (g *robotsGate) fetchGroup(ctx context.Context, host string) *robotstxt.Group {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, host+"/robots.txt", nil)
	if err != nil {
		return nil
	}
	req.Header.Set("User-Agent", g.userAgent)

	resp, err := g.client.Do(req)
	if err != nil {
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 512*1024))
	if err != nil {
		return nil
	}
	robots, err := robotstxt.FromBytes(body)
	if err != nil {
		return nil
	}
	return robots.FindGroup(g.userAgent)
}
