// Package reputation normalizes third-party scan-engine verdicts into the
// engine's common signal form.
package reputation

import (
	"context"
	"fmt"

	"linkshield/internal/model"
)

// Report is the raw aggregate from a reputation provider: how many engines
// scanned the URL and how many of them marked it malicious.
type Report struct {
	Malicious int
	Total     int
}

// Provider looks up a URL with an external reputation service.
type Provider interface {
	Lookup(ctx context.Context, rawURL string) (*Report, error)
}

// Evaluate turns a provider report into a signal. A nil result means the
// signal is unavailable and must be excluded from fusion rather than
// counted as clean. The score is the fraction of engines voting malicious;
// the URL is flagged when the clean fraction drops below cleanFloor.
func Evaluate(ctx context.Context, provider Provider, rawURL string, cleanFloor float64) (*model.SignalResult, error) {
	if provider == nil {
		return nil, nil
	}

	report, err := provider.Lookup(ctx, rawURL)
	if err != nil {
		return nil, &model.SignalUnavailable{Signal: "reputation", Err: err}
	}
	if report == nil || report.Total <= 0 {
		return nil, &model.SignalUnavailable{
			Signal: "reputation",
			Err:    fmt.Errorf("no engines reported"),
		}
	}

	fraction := float64(report.Malicious) / float64(report.Total)
	result := &model.SignalResult{Score: fraction}
	if 1.0-fraction < cleanFloor {
		result.Flags = append(result.Flags,
			fmt.Sprintf("flagged by %d of %d reputation engines", report.Malicious, report.Total))
	}
	return result, nil
}
