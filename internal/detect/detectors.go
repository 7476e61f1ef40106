// Package detect implements the independent heuristic detectors and their
// weighted aggregation into one combined signal.
package detect

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"linkshield/internal/model"
	"linkshield/internal/urlx"
)

// Sub-scores contributed by the structural detectors, mirroring their
// relative reliability. The structural sum is clamped to [0,1] before the
// final weighting.
const (
	entropyScore       = 0.30
	keywordScore       = 0.15
	highRiskTLDScore   = 0.40
	shortenerScore     = 0.30
	domainAgeScore     = 0.25
	longDomainScore    = 0.20
	deepSubdomainScore = 0.25
	noHTTPSScore       = 0.30

	longDomainChars   = 20
	deepSubdomainMins = 3

	impersonationScore = 0.30
)

// Hyphenated naming shapes typical of throwaway impersonation domains:
// a well-known brand or trust word glued to filler, and a credential
// action word glued to whatever follows.
var (
	brandHyphenPattern  = regexp.MustCompile(`(secure|bank|paypal|amazon|apple)-[a-z0-9]+\.`)
	actionHyphenPattern = regexp.MustCompile(`(login|signin|verify|update|confirm)-[a-z0-9]+`)
)

// DomainAgeOracle resolves the registration age of a domain in days.
// An error means the age is unknown.
type DomainAgeOracle interface {
	Age(ctx context.Context, domain string) (int, error)
}

// EntropyCheck flags a registrable domain whose character entropy exceeds
// the configured threshold, the signature of algorithmically generated
// domains.
func EntropyCheck(domain string, threshold float64) model.SignalResult {
	var result model.SignalResult
	if e := urlx.Entropy(domain); e > threshold {
		result.Score = entropyScore
		result.Flags = append(result.Flags,
			fmt.Sprintf("random-looking domain (entropy %.2f bits/char)", e))
	}
	return result
}

// KeywordTLD flags phishing-associated keywords in the domain label and
// membership of the TLD in the high-risk set.
func KeywordTLD(domain, tld string, keywords, highRiskTLDs []string) model.SignalResult {
	var result model.SignalResult

	label := domain
	if idx := strings.Index(domain, "."); idx > 0 {
		label = domain[:idx]
	}
	label = strings.ToLower(label)
	for _, kw := range keywords {
		if strings.Contains(label, kw) {
			result.Score += keywordScore
			result.Flags = append(result.Flags, fmt.Sprintf("phishing keyword in domain: %q", kw))
		}
	}

	tld = strings.ToLower(strings.TrimPrefix(tld, "."))
	for _, risky := range highRiskTLDs {
		if tld == strings.ToLower(strings.TrimPrefix(risky, ".")) {
			result.Score += highRiskTLDScore
			result.Flags = append(result.Flags, fmt.Sprintf("high-risk TLD: .%s", tld))
			break
		}
	}

	return result.Clamp()
}

// Shortener flags exact-match membership in the URL-shortener set. A
// shortened URL hides its true destination from every other detector.
func Shortener(domain string, shorteners []string) model.SignalResult {
	var result model.SignalResult
	domain = strings.ToLower(domain)
	for _, s := range shorteners {
		if domain == strings.ToLower(s) {
			result.Score = shortenerScore
			result.Flags = append(result.Flags, "URL shortener: destination unknown")
			break
		}
	}
	return result
}

// Transport flags the absence of HTTPS.
func Transport(https bool) model.SignalResult {
	if https {
		return model.SignalResult{}
	}
	return model.SignalResult{
		Score: noHTTPSScore,
		Flags: []string{"no HTTPS encryption"},
	}
}

// DomainAge flags a domain registered inside the freshness window. A lookup
// failure is treated as "new/unknown" and flagged: an unreachable registry
// must not read as "safe".
func DomainAge(ctx context.Context, oracle DomainAgeOracle, domain string, freshDays int) model.SignalResult {
	if oracle == nil {
		return model.SignalResult{}
	}

	age, err := oracle.Age(ctx, domain)
	if err != nil {
		return model.SignalResult{
			Score: domainAgeScore,
			Flags: []string{"domain age unknown (registry lookup failed)"},
		}
	}
	if age < freshDays {
		return model.SignalResult{
			Score: domainAgeScore,
			Flags: []string{fmt.Sprintf("recently registered domain (%d days old)", age)},
		}
	}
	return model.SignalResult{}
}

// Impersonation flags hyphenated brand and credential-action compositions
// in the host. Unlike Lookalike it needs no similarity to a single brand
// string, so it catches names that bury the brand among extra tokens.
func Impersonation(host string) model.SignalResult {
	var result model.SignalResult
	host = strings.ToLower(host)

	if m := brandHyphenPattern.FindStringSubmatch(host); m != nil {
		result.Score += impersonationScore
		result.Flags = append(result.Flags,
			fmt.Sprintf("hyphenated brand impersonation pattern %q in domain",
				strings.TrimSuffix(m[0], ".")))
	}
	if m := actionHyphenPattern.FindStringSubmatch(host); m != nil {
		result.Score += impersonationScore
		result.Flags = append(result.Flags,
			fmt.Sprintf("credential-action pattern %q in domain", m[0]))
	}

	return result
}

// structureShape flags unusually long domains and deep subdomain chains.
func structureShape(parts *urlx.Parts) model.SignalResult {
	var result model.SignalResult

	label := parts.Domain
	if idx := strings.Index(label, "."); idx > 0 {
		label = label[:idx]
	}
	if len(label) > longDomainChars {
		result.Score += longDomainScore
		result.Flags = append(result.Flags, "unusually long domain name")
	}
	if parts.SubdomainDepth() >= deepSubdomainMins {
		result.Score += deepSubdomainScore
		result.Flags = append(result.Flags, "unusually deep subdomain chain")
	}

	return result
}
