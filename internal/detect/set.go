package detect

import (
	"context"

	"linkshield/internal/model"
	"linkshield/internal/urlx"
)

// Set runs the full detector suite with a shared configuration.
type Set struct {
	cfg    model.DetectConfig
	oracle DomainAgeOracle
}

// NewSet builds a detector set. The oracle may be nil, in which case the
// domain-age check is skipped.
func NewSet(cfg model.DetectConfig, oracle DomainAgeOracle) *Set {
	return &Set{cfg: cfg, oracle: oracle}
}

// Run evaluates every detector against the parsed URL and folds the results
// into one combined signal. The structural detectors accumulate into a
// clamped sub-score; homograph and transport keep their own sub-scores; the
// three are then weighted and clamped again. Flags from all detectors are
// preserved in evaluation order.
func (s *Set) Run(ctx context.Context, parts *urlx.Parts) model.SignalResult {
	structural := model.SignalResult{}
	merge := func(r model.SignalResult) {
		structural.Score += r.Score
		structural.Flags = append(structural.Flags, r.Flags...)
	}

	merge(EntropyCheck(parts.Domain, s.cfg.EntropyThreshold))
	merge(Lookalike(parts.Domain, s.cfg.Brands, s.cfg.BrandSimilarity))
	merge(KeywordTLD(parts.Domain, parts.TLD, s.cfg.PhishingKeywords, s.cfg.HighRiskTLDs))
	merge(Shortener(parts.Domain, s.cfg.Shorteners))
	merge(Impersonation(parts.Host))
	merge(DomainAge(ctx, s.oracle, parts.Domain, s.cfg.FreshnessDays))
	merge(structureShape(parts))
	structural = structural.Clamp()

	// The homograph scan needs the original Unicode host; parts.Domain is
	// already punycoded for internationalized names.
	homograph := Homograph(parts.Host)
	transport := Transport(parts.HTTPS)

	combined := model.SignalResult{
		Score: s.cfg.StructuralWeight*structural.Score +
			s.cfg.HomographWeight*homograph.Score +
			s.cfg.CertificateWeight*transport.Score,
	}
	combined.Flags = append(combined.Flags, structural.Flags...)
	combined.Flags = append(combined.Flags, homograph.Flags...)
	combined.Flags = append(combined.Flags, transport.Flags...)

	return combined.Clamp()
}
