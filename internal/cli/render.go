package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"linkshield/internal/model"
)

// renderVerdict prints one verdict, either as a human-readable block or as
// a single JSON line.
func renderVerdict(w io.Writer, verdict *model.RiskVerdict, asJSON bool) error {
	if asJSON {
		data, err := json.Marshal(verdict)
		if err != nil {
			return fmt.Errorf("encode verdict: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	}

	marker := "✓"
	if verdict.Risk == model.RiskHigh {
		marker = "⚠"
	}
	fmt.Fprintf(w, "%s %s\n", marker, verdict.URL)
	fmt.Fprintf(w, "  risk: %s (confidence %.2f, %s)\n", verdict.Risk, verdict.Confidence, verdict.Source)
	if verdict.CacheHit {
		fmt.Fprintf(w, "  cached result\n")
	}
	for _, e := range verdict.Explanations {
		fmt.Fprintf(w, "  - %s\n", e)
	}
	return nil
}
