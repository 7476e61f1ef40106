package model

// AnalysisRequest is the input to the scoring engine: a raw URL and an
// optional pre-fetched page snapshot. Immutable once created.
type AnalysisRequest struct {
	URL  string        `json:"url"`
	Page *PageSnapshot `json:"page,omitempty"`
}

// PageSnapshot holds the fetched page content plus the structured metadata
// the feature extractor consumes. A nil snapshot means the page could not
// be fetched (or fetching was disabled).
type PageSnapshot struct {
	HTML          string       `json:"html"`
	FinalURL      string       `json:"final_url"`      // URL after redirects
	HTTPS         bool         `json:"https"`          // scheme of the final URL
	RedirectCount int          `json:"redirect_count"` // hops observed during fetch, -1 when unknown
	Elements      []ElementRef `json:"elements,omitempty"`
}

// ElementRef describes one resource-bearing element found on the page.
// URL is the resolved absolute URL of the referenced resource; it is empty
// for inline elements (e.g. a script without src).
type ElementRef struct {
	Tag string `json:"tag"` // img, script, stylesheet, anchor, iframe
	URL string `json:"url,omitempty"`
}

// Element tag names used in PageSnapshot.Elements.
const (
	TagImage      = "img"
	TagScript     = "script"
	TagStylesheet = "stylesheet"
	TagAnchor     = "anchor"
	TagIframe     = "iframe"
)
