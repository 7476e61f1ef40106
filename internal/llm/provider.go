// Package llm generates optional natural-language summaries of verdicts.
// The summary is advisory output only; it never feeds back into scoring.
package llm

import (
	"context"
	"fmt"
	"strings"

	"linkshield/internal/model"
)

// Summarizer turns a verdict into a short analyst-style explanation.
type Summarizer interface {
	Name() string
	Summarize(ctx context.Context, verdict *model.RiskVerdict) (string, error)
}

// BuildPrompt constructs the summarization prompt from a verdict. The model
// is constrained to the evidence already collected; it must not add its own
// judgment about the URL.
func BuildPrompt(verdict *model.RiskVerdict) string {
	var b strings.Builder
	fmt.Fprintf(&b, `You are explaining an automated URL risk verdict to a non-technical user.

RULES:
1. Restate only the findings listed below. Do not add findings of your own.
2. Do not visit, guess about, or speculate on the URL's content.
3. Do not soften or upgrade the verdict.

Verdict:
- URL: %s
- Domain: %s
- Risk: %s
- Confidence: %.2f
- Decided by: %s

Findings:
`, verdict.URL, verdict.Domain, verdict.Risk, verdict.Confidence, verdict.Source)

	if len(verdict.Explanations) == 0 {
		b.WriteString("- (no individual findings; all signals were clean)\n")
	}
	for _, e := range verdict.Explanations {
		fmt.Fprintf(&b, "- %s\n", e)
	}

	b.WriteString("\nWrite 2-3 plain sentences explaining this verdict.")
	return b.String()
}
