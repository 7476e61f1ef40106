// Package whois resolves domain registration age from registry records.
package whois

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/likexian/whois"
	whoisparser "github.com/likexian/whois-parser"

	"linkshield/internal/model"
)

// createdLayouts covers the date formats registries actually emit.
var createdLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02-Jan-2006",
	"2006.01.02",
}

// Oracle answers domain-age queries over live registry lookups.
type Oracle struct {
	timeout time.Duration
	now     func() time.Time
}

// NewOracle builds an oracle from configuration.
func NewOracle(cfg model.WhoisConfig) *Oracle {
	return &Oracle{timeout: cfg.Timeout, now: time.Now}
}

// Age returns the age of the domain's registration in days. Registries are
// slow and flaky, so the blocking lookup runs in its own goroutine and the
// caller's context bounds the wait.
func (o *Oracle) Age(ctx context.Context, domain string) (int, error) {
	if o.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.timeout)
		defer cancel()
	}

	type answer struct {
		age int
		err error
	}
	ch := make(chan answer, 1)
	go func() {
		age, err := o.lookup(domain)
		ch <- answer{age, err}
	}()

	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("whois lookup for %s: %w", domain, ctx.Err())
	case a := <-ch:
		return a.age, a.err
	}
}

// lookup queries the registry. A record that fails to parse at the full
// domain retries at the parent, since subdomain queries often return the
// registrar boilerplate instead of a record.
func (o *Oracle) lookup(domain string) (int, error) {
	raw, err := whois.Whois(domain)
	if err != nil {
		return 0, fmt.Errorf("whois query for %s: %w", domain, err)
	}

	record, err := whoisparser.Parse(raw)
	if err != nil || record.Domain == nil {
		if parent, ok := parentDomain(domain); ok {
			return o.lookup(parent)
		}
		return 0, fmt.Errorf("no parseable whois record for %s", domain)
	}

	created, ok := parseCreated(record.Domain.CreatedDate)
	if !ok {
		return 0, fmt.Errorf("no creation date in whois record for %s", domain)
	}

	age := int(o.now().Sub(created).Hours() / 24)
	if age < 0 {
		age = 0
	}
	return age, nil
}

func parentDomain(domain string) (string, bool) {
	parts := strings.Split(domain, ".")
	if len(parts) <= 2 {
		return "", false
	}
	return strings.Join(parts[1:], "."), true
}

func parseCreated(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range createdLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
