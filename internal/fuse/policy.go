// Package fuse combines the classifier, heuristic and reputation signals
// into the final verdict.
package fuse

import (
	"fmt"
	"strings"
	"time"

	"linkshield/internal/model"
)

// trustedConfidence is reported for allowlisted domains. Not 1.0: the
// allowlist asserts domain ownership, not page content.
const trustedConfidence = 0.99

// Inputs carries everything the policy fuses for one URL. Classifier and
// Reputation are nil when their signal was unavailable; Heuristics always
// runs and is always present.
type Inputs struct {
	URL        string
	Domain     string
	Classifier *model.ClassifierVerdict
	Heuristics model.SignalResult
	Reputation *model.SignalResult
	Degraded   []string // notes about signals that could not be gathered
}

// Policy decides the final risk level.
type Policy struct {
	trusted   map[string]struct{}
	highScore float64
}

// NewPolicy builds a fusion policy from detector configuration.
func NewPolicy(cfg model.DetectConfig) *Policy {
	trusted := make(map[string]struct{}, len(cfg.TrustedDomains))
	for _, d := range cfg.TrustedDomains {
		trusted[strings.ToLower(d)] = struct{}{}
	}
	return &Policy{trusted: trusted, highScore: cfg.HeuristicHighScore}
}

// Trusted reports whether the registrable domain is allowlisted. Callers
// short-circuit before gathering any other signal.
func (p *Policy) Trusted(domain string) bool {
	_, ok := p.trusted[strings.ToLower(domain)]
	return ok
}

// TrustedVerdict is the short-circuit verdict for an allowlisted domain.
func (p *Policy) TrustedVerdict(rawURL, domain string) *model.RiskVerdict {
	return &model.RiskVerdict{
		URL:        rawURL,
		Domain:     domain,
		Risk:       model.RiskLow,
		Confidence: trustedConfidence,
		Explanations: []string{
			fmt.Sprintf("domain %s is on the trusted allowlist", domain),
		},
		Source:     model.SourceTrustedOverride,
		AnalyzedAt: time.Now().UTC(),
	}
}

// Decide fuses the available signals. Any single signal voting HIGH makes
// the verdict HIGH; a URL is safe only when every available signal agrees.
// Confidence is the strongest individual conviction in the decided
// direction, never an average, so one certain signal is not diluted by
// indifferent ones.
func (p *Policy) Decide(in Inputs) *model.RiskVerdict {
	type vote struct {
		high  bool
		score float64
	}
	var votes []vote

	if in.Classifier != nil {
		votes = append(votes, vote{
			high:  in.Classifier.Probability > in.Classifier.Threshold,
			score: in.Classifier.Probability,
		})
	}
	// Strictly above the cut, mirroring the classifier rule. A score
	// landing exactly on the cut stays low.
	votes = append(votes, vote{
		high:  in.Heuristics.Score > p.highScore,
		score: in.Heuristics.Score,
	})
	if in.Reputation != nil {
		votes = append(votes, vote{
			high:  len(in.Reputation.Flags) > 0,
			score: in.Reputation.Score,
		})
	}

	risk := model.RiskLow
	for _, v := range votes {
		if v.high {
			risk = model.RiskHigh
			break
		}
	}

	confidence := 0.0
	for _, v := range votes {
		c := v.score
		if risk == model.RiskLow {
			c = 1.0 - v.score
		} else if !v.high {
			continue
		}
		if c > confidence {
			confidence = c
		}
	}

	verdict := &model.RiskVerdict{
		URL:        in.URL,
		Domain:     in.Domain,
		Risk:       risk,
		Confidence: confidence,
		Source:     model.SourceFusedAnalysis,
		AnalyzedAt: time.Now().UTC(),
	}

	if in.Reputation != nil {
		verdict.Explanations = append(verdict.Explanations, in.Reputation.Flags...)
	}
	verdict.Explanations = append(verdict.Explanations, in.Heuristics.Flags...)
	if in.Classifier != nil && in.Classifier.Probability > in.Classifier.Threshold {
		verdict.Explanations = append(verdict.Explanations,
			fmt.Sprintf("classifier probability %.2f exceeds threshold %.2f",
				in.Classifier.Probability, in.Classifier.Threshold))
	}
	verdict.Explanations = append(verdict.Explanations, in.Degraded...)

	return verdict
}
