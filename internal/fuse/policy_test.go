package fuse

import (
	"math"
	"testing"

	"linkshield/internal/model"
)

func testPolicy() *Policy {
	return NewPolicy(model.DefaultConfig().Detect)
}

func classifier(p float64) *model.ClassifierVerdict {
	return &model.ClassifierVerdict{Probability: p, Threshold: 0.5}
}

func TestTrustedOverride(t *testing.T) {
	p := testPolicy()

	if !p.Trusted("google.com") {
		t.Error("google.com should be trusted")
	}
	if !p.Trusted("GOOGLE.COM") {
		t.Error("trusted lookup should be case-insensitive")
	}
	if p.Trusted("google.com.evil.tk") {
		t.Error("lookalike registrable domain must not be trusted")
	}

	verdict := p.TrustedVerdict("https://google.com/search", "google.com")
	if verdict.Risk != model.RiskLow {
		t.Errorf("risk = %v, want LOW", verdict.Risk)
	}
	if verdict.Confidence != 0.99 {
		t.Errorf("confidence = %v, want 0.99", verdict.Confidence)
	}
	if verdict.Source != model.SourceTrustedOverride {
		t.Errorf("source = %v, want TRUSTED_OVERRIDE", verdict.Source)
	}
}

func TestDecideORSemantics(t *testing.T) {
	p := testPolicy()

	tests := []struct {
		name string
		in   Inputs
		want model.RiskLevel
	}{
		{
			"all signals clean",
			Inputs{
				Classifier: classifier(0.1),
				Heuristics: model.SignalResult{Score: 0.1},
				Reputation: &model.SignalResult{Score: 0.02},
			},
			model.RiskLow,
		},
		{
			"classifier alone flips to high",
			Inputs{
				Classifier: classifier(0.9),
				Heuristics: model.SignalResult{Score: 0.1},
				Reputation: &model.SignalResult{Score: 0.02},
			},
			model.RiskHigh,
		},
		{
			"heuristics alone flip to high",
			Inputs{
				Classifier: classifier(0.1),
				Heuristics: model.SignalResult{Score: 0.8, Flags: []string{"no HTTPS encryption"}},
			},
			model.RiskHigh,
		},
		{
			"reputation alone flips to high",
			Inputs{
				Classifier: classifier(0.1),
				Heuristics: model.SignalResult{Score: 0.1},
				Reputation: &model.SignalResult{Score: 0.6, Flags: []string{"flagged by 42 of 70 reputation engines"}},
			},
			model.RiskHigh,
		},
		{
			"probability exactly at threshold stays low",
			Inputs{
				Classifier: classifier(0.5),
				Heuristics: model.SignalResult{Score: 0.1},
			},
			model.RiskLow,
		},
		{
			"heuristic score exactly at the cut stays low",
			Inputs{
				Classifier: classifier(0.1),
				Heuristics: model.SignalResult{Score: 0.5, Flags: []string{"no HTTPS encryption"}},
			},
			model.RiskLow,
		},
		{
			"heuristic score just above the cut flips to high",
			Inputs{
				Classifier: classifier(0.1),
				Heuristics: model.SignalResult{Score: 0.51, Flags: []string{"no HTTPS encryption"}},
			},
			model.RiskHigh,
		},
		{
			"missing signals never count as clean votes",
			Inputs{
				Heuristics: model.SignalResult{Score: 0.7, Flags: []string{"high-risk TLD: .tk"}},
			},
			model.RiskHigh,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := p.Decide(tt.in)
			if got.Risk != tt.want {
				t.Errorf("risk = %v, want %v", got.Risk, tt.want)
			}
			if got.Source != model.SourceFusedAnalysis {
				t.Errorf("source = %v, want FUSED_ANALYSIS", got.Source)
			}
		})
	}
}

func TestDecideConfidence(t *testing.T) {
	p := testPolicy()

	t.Run("high verdict takes the strongest high vote", func(t *testing.T) {
		got := p.Decide(Inputs{
			Classifier: classifier(0.92),
			Heuristics: model.SignalResult{Score: 0.6},
			Reputation: &model.SignalResult{Score: 0.4, Flags: []string{"flagged"}},
		})
		if math.Abs(got.Confidence-0.92) > 1e-9 {
			t.Errorf("confidence = %v, want 0.92", got.Confidence)
		}
	})

	t.Run("low votes do not dilute a high verdict", func(t *testing.T) {
		got := p.Decide(Inputs{
			Classifier: classifier(0.05),
			Heuristics: model.SignalResult{Score: 0.85},
		})
		if got.Risk != model.RiskHigh {
			t.Fatalf("risk = %v, want HIGH", got.Risk)
		}
		if math.Abs(got.Confidence-0.85) > 1e-9 {
			t.Errorf("confidence = %v, want 0.85 from heuristics alone", got.Confidence)
		}
	})

	t.Run("low verdict takes the strongest safe conviction", func(t *testing.T) {
		got := p.Decide(Inputs{
			Classifier: classifier(0.05),
			Heuristics: model.SignalResult{Score: 0.3},
		})
		if got.Risk != model.RiskLow {
			t.Fatalf("risk = %v, want LOW", got.Risk)
		}
		if math.Abs(got.Confidence-0.95) > 1e-9 {
			t.Errorf("confidence = %v, want 0.95", got.Confidence)
		}
	})
}

func TestDecideExplanationOrder(t *testing.T) {
	p := testPolicy()

	got := p.Decide(Inputs{
		Classifier: classifier(0.9),
		Heuristics: model.SignalResult{Score: 0.6, Flags: []string{"no HTTPS encryption"}},
		Reputation: &model.SignalResult{Score: 0.6, Flags: []string{"flagged by 42 of 70 reputation engines"}},
		Degraded:   []string{"page fetch failed; content features unavailable"},
	})

	want := []string{
		"flagged by 42 of 70 reputation engines",
		"no HTTPS encryption",
		"classifier probability 0.90 exceeds threshold 0.50",
		"page fetch failed; content features unavailable",
	}
	if len(got.Explanations) != len(want) {
		t.Fatalf("explanations = %v, want %v", got.Explanations, want)
	}
	for i := range want {
		if got.Explanations[i] != want[i] {
			t.Errorf("explanation[%d] = %q, want %q", i, got.Explanations[i], want[i])
		}
	}
}
