package model

import "fmt"

// InputError rejects a malformed URL. The request produces no verdict,
// partial or otherwise.
type InputError struct {
	URL    string
	Reason string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("invalid URL %q: %s", e.URL, e.Reason)
}

// SignalUnavailable records that one external capability timed out or failed.
// It is recovered locally: the signal is omitted and the failure is noted in
// the verdict explanations, never propagated as a request failure.
type SignalUnavailable struct {
	Signal string
	Err    error
}

func (e *SignalUnavailable) Error() string {
	return fmt.Sprintf("signal %s unavailable: %v", e.Signal, e.Err)
}

func (e *SignalUnavailable) Unwrap() error { return e.Err }

// FeatureExtractionFailed means the page could not be fetched, so
// structural/content features are absent. Callers degrade to lexical-only
// scoring rather than zero-filling.
type FeatureExtractionFailed struct {
	Reason string
}

func (e *FeatureExtractionFailed) Error() string {
	return "feature extraction failed: " + e.Reason
}

// ConfigurationFatal is a startup precondition violation: missing or
// malformed model artifact, or a feature-order mismatch. Not recoverable;
// the service must refuse to serve requests.
type ConfigurationFatal struct {
	Reason string
	Err    error
}

func (e *ConfigurationFatal) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fatal configuration error: %s: %v", e.Reason, e.Err)
	}
	return "fatal configuration error: " + e.Reason
}

func (e *ConfigurationFatal) Unwrap() error { return e.Err }
