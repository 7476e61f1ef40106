package model

import "time"

// RiskLevel is the binary outcome of an analysis.
type RiskLevel string

const (
	RiskLow  RiskLevel = "LOW"
	RiskHigh RiskLevel = "HIGH"
)

// VerdictSource records which path produced the verdict.
type VerdictSource string

const (
	// SourceTrustedOverride means the registrable domain matched the trusted
	// allowlist and all other signals were bypassed.
	SourceTrustedOverride VerdictSource = "TRUSTED_OVERRIDE"

	// SourceFusedAnalysis means the verdict was fused from classifier,
	// heuristic and reputation signals.
	SourceFusedAnalysis VerdictSource = "FUSED_ANALYSIS"
)

// SignalResult is the uniform shape produced by every heuristic detector and
// by the reputation aggregator: a maliciousness score in [0,1] plus the
// human-readable flags that contributed to it.
type SignalResult struct {
	Score float64  `json:"score"`
	Flags []string `json:"flags,omitempty"`
}

// Clamp bounds the score to [0,1] and returns the result.
func (s SignalResult) Clamp() SignalResult {
	if s.Score < 0 {
		s.Score = 0
	}
	if s.Score > 1 {
		s.Score = 1
	}
	return s
}

// ClassifierVerdict is the raw classifier output: the probability of the
// malicious class and the decision threshold active for the loaded artifact.
// The binary decision is derived by the fusion policy, not here.
type ClassifierVerdict struct {
	Probability float64 `json:"probability"`
	Threshold   float64 `json:"threshold"`
}

// RiskVerdict is the final, read-only output of one analysis.
type RiskVerdict struct {
	URL          string        `json:"url"`
	Domain       string        `json:"domain"` // registrable domain
	Risk         RiskLevel     `json:"risk"`
	Confidence   float64       `json:"confidence"`
	Explanations []string      `json:"explanations,omitempty"`
	Source       VerdictSource `json:"source"`
	AnalyzedAt   time.Time     `json:"analyzed_at"`
	CacheHit     bool          `json:"cache_hit,omitempty"`
}
