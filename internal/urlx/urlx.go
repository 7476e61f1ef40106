// Package urlx holds URL decomposition helpers shared by the feature
// extractor and the heuristic detectors.
package urlx

import (
	"math"
	"net"
	"net/url"
	"strings"

	"golang.org/x/net/idna"
	"golang.org/x/net/publicsuffix"
)

// Parts is the decomposed form of an input URL.
type Parts struct {
	Raw       string // the URL as analyzed (scheme added when missing)
	Scheme    string
	Host      string // hostname without port
	Domain    string // registrable domain (eTLD+1), e.g. example.co.uk
	Subdomain string // labels left of the registrable domain, "" if none
	TLD       string // public suffix, e.g. co.uk
	Path      string
	HTTPS     bool
	IPLiteral bool // host is an IPv4 literal
}

// Parse decomposes a raw URL. Input without a scheme is treated as https,
// matching how users paste bare hostnames. The returned error indicates a
// URL the engine cannot analyze at all.
func Parse(rawURL string) (*Parts, error) {
	trimmed := strings.TrimSpace(rawURL)
	if trimmed == "" {
		return nil, &parseError{rawURL, "empty URL"}
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "https://" + trimmed
	}

	parsed, err := url.Parse(trimmed)
	if err != nil {
		return nil, &parseError{rawURL, err.Error()}
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, &parseError{rawURL, "unsupported scheme " + parsed.Scheme}
	}
	host := strings.ToLower(parsed.Hostname())
	if host == "" {
		return nil, &parseError{rawURL, "missing host"}
	}

	p := &Parts{
		Raw:    trimmed,
		Scheme: parsed.Scheme,
		Host:   host,
		Path:   parsed.Path,
		HTTPS:  parsed.Scheme == "https",
	}

	if ip := net.ParseIP(host); ip != nil {
		p.IPLiteral = ip.To4() != nil
		p.Domain = host
		return p, nil
	}

	ascii := host
	if converted, err := idna.Lookup.ToASCII(host); err == nil && converted != "" {
		ascii = converted
	}

	if etld1, err := publicsuffix.EffectiveTLDPlusOne(ascii); err == nil {
		p.Domain = etld1
		p.TLD, _ = publicsuffix.PublicSuffix(ascii)
		if ascii != etld1 && strings.HasSuffix(ascii, "."+etld1) {
			p.Subdomain = strings.TrimSuffix(ascii, "."+etld1)
		}
	} else {
		// Single-label or unknown-suffix hosts still get analyzed; the
		// whole host stands in for the registrable domain.
		p.Domain = host
		if idx := strings.LastIndex(host, "."); idx >= 0 {
			p.TLD = host[idx+1:]
		}
	}

	return p, nil
}

type parseError struct {
	url    string
	reason string
}

func (e *parseError) Error() string {
	return "parse " + e.url + ": " + e.reason
}

// SubdomainDepth returns the number of labels in the subdomain part,
// 0 when there is none.
func (p *Parts) SubdomainDepth() int {
	if p.Subdomain == "" {
		return 0
	}
	return strings.Count(p.Subdomain, ".") + 1
}

// Entropy computes the Shannon entropy in bits per character of s over its
// character alphabet. The entropy of an empty string is 0.
func Entropy(s string) float64 {
	if s == "" {
		return 0
	}
	counts := make(map[rune]int)
	total := 0
	for _, r := range s {
		counts[r]++
		total++
	}
	entropy := 0.0
	for _, c := range counts {
		p := float64(c) / float64(total)
		entropy -= p * math.Log2(p)
	}
	return entropy
}
