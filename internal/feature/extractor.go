// Package feature turns an analysis request into the fixed-order numeric
// feature vector the classifier consumes.
package feature

import (
	"net/url"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/net/html"

	"linkshield/internal/model"
	"linkshield/internal/urlx"
)

// letterDigitEpsilon keeps the letter-to-digit ratio finite for URLs
// without digits.
const letterDigitEpsilon = 1e-5

var (
	obfuscationPatterns = []*regexp.Regexp{
		regexp.MustCompile(`%[0-9a-fA-F]{2}`),
		regexp.MustCompile(`\\x[0-9a-fA-F]{2}`),
		regexp.MustCompile(`&#x[0-9a-fA-F]+;`),
		regexp.MustCompile(`javascript:`),
		regexp.MustCompile(`eval\(`),
		regexp.MustCompile(`document\.write`),
		regexp.MustCompile(`fromCharCode`),
	}
	abnormalURLPatterns = []*regexp.Regexp{
		regexp.MustCompile(`@`),
		regexp.MustCompile(`\d+\.\d+\.\d+\.\d+`),
		regexp.MustCompile(`\.(exe|zip|rar|dll|js)$`),
	}
	socialPattern    = regexp.MustCompile(`(?i)facebook|twitter|linkedin|instagram|youtube|pinterest`)
	copyrightPattern = regexp.MustCompile(`(?i)copyright|©`)
	popupPattern     = regexp.MustCompile(`window\.open\s*\(`)
)

// Extractor computes feature vectors. Extraction is deterministic: the same
// URL text and page snapshot always produce the same vector.
type Extractor struct {
	highRiskTLDs map[string]bool
}

// NewExtractor creates an extractor with the configured high-risk TLD set.
func NewExtractor(highRiskTLDs []string) *Extractor {
	set := make(map[string]bool, len(highRiskTLDs))
	for _, tld := range highRiskTLDs {
		set[strings.ToLower(strings.TrimPrefix(tld, "."))] = true
	}
	return &Extractor{highRiskTLDs: set}
}

// Extract produces the complete feature vector for a request. When the page
// snapshot is absent the structural features cannot be computed and a
// *model.FeatureExtractionFailed is returned so callers can degrade to
// lexical-only scoring instead of silently zero-filling.
func (e *Extractor) Extract(req model.AnalysisRequest, parts *urlx.Parts) (model.FeatureVector, error) {
	if req.Page == nil {
		return model.FeatureVector{}, &model.FeatureExtractionFailed{Reason: "page not fetched"}
	}
	return e.build(req.URL, parts, req.Page)
}

func (e *Extractor) build(rawURL string, parts *urlx.Parts, page *model.PageSnapshot) (model.FeatureVector, error) {
	lex := lexicalFeatures(rawURL, parts)
	structural := e.structuralFeatures(page)

	values := make([]float64, 0, model.FeatureCount())
	values = append(values,
		lex.urlLength,
		lex.domainLength,
		lex.tldLength,
		lex.nonAlnumCount,
		lex.entropy,
		lex.letterDigitRatio,
		lex.subdomainDepth,
		lex.ipLiteral,

		structural.numImages,
		structural.numScripts,
		structural.numStylesheets,
		structural.numSelfRefs,
		structural.numExternalRefs,
		boolFeature(page.HTTPS),
		structural.hasObfuscation,
		structural.hasTitle,
		structural.hasDescription,
		structural.hasSubmit,
		structural.hasSocial,
		structural.hasFavicon,
		structural.hasCopyright,
		structural.hasPopup,
		structural.hasIframe,
		abnormalURL(rawURL),
		// Mutually exclusive binaries; both stay zero when the redirect
		// behavior is unknown (RedirectCount < 0).
		boolFeature(page.RedirectCount == 0),
		boolFeature(page.RedirectCount > 0),

		boolFeature(e.highRiskTLDs[parts.TLD]),
	)

	return model.NewFeatureVector(model.FeatureNames(), values)
}

type lexical struct {
	urlLength        float64
	domainLength     float64
	tldLength        float64
	nonAlnumCount    float64
	entropy          float64
	letterDigitRatio float64
	subdomainDepth   float64
	ipLiteral        float64
}

func lexicalFeatures(rawURL string, parts *urlx.Parts) lexical {
	letters, digits, nonAlnum := 0, 0, 0
	for _, r := range rawURL {
		switch {
		case unicode.IsLetter(r):
			letters++
		case unicode.IsDigit(r):
			digits++
		default:
			nonAlnum++
		}
	}

	return lexical{
		urlLength:        float64(len(rawURL)),
		domainLength:     float64(len(parts.Host)),
		tldLength:        float64(len(parts.TLD)),
		nonAlnumCount:    float64(nonAlnum),
		entropy:          urlx.Entropy(rawURL),
		letterDigitRatio: float64(letters) / (float64(digits) + letterDigitEpsilon),
		subdomainDepth:   float64(parts.SubdomainDepth()),
		ipLiteral:        boolFeature(parts.IPLiteral),
	}
}

type structural struct {
	numImages       float64
	numScripts      float64
	numStylesheets  float64
	numSelfRefs     float64
	numExternalRefs float64
	hasObfuscation  float64
	hasTitle        float64
	hasDescription  float64
	hasSubmit       float64
	hasSocial       float64
	hasFavicon      float64
	hasCopyright    float64
	hasPopup        float64
	hasIframe       float64
}

func (e *Extractor) structuralFeatures(page *model.PageSnapshot) structural {
	var s structural

	base, _ := url.Parse(page.FinalURL)
	for _, el := range page.Elements {
		switch el.Tag {
		case model.TagImage:
			s.numImages++
		case model.TagScript:
			s.numScripts++
		case model.TagStylesheet:
			s.numStylesheets++
		case model.TagIframe:
			s.hasIframe = 1
		}
		if el.URL == "" || base == nil {
			continue
		}
		if sameOrigin(base, el.URL) {
			s.numSelfRefs++
		} else {
			s.numExternalRefs++
		}
	}

	if doc, err := html.Parse(strings.NewReader(page.HTML)); err == nil {
		flags := scanDocument(doc)
		s.hasTitle = boolFeature(flags.title)
		s.hasDescription = boolFeature(flags.description)
		s.hasSubmit = boolFeature(flags.submit)
		s.hasFavicon = boolFeature(flags.favicon)
		if flags.iframe {
			s.hasIframe = 1
		}
		s.hasCopyright = boolFeature(copyrightPattern.MatchString(flags.text))
	}

	s.hasSocial = boolFeature(socialPattern.MatchString(page.HTML))
	s.hasPopup = boolFeature(popupPattern.MatchString(page.HTML))
	for _, p := range obfuscationPatterns {
		if p.MatchString(page.HTML) {
			s.hasObfuscation = 1
			break
		}
	}

	return s
}

// sameOrigin reports whether the resolved resource URL shares scheme and
// host with the page.
func sameOrigin(base *url.URL, resolved string) bool {
	ref, err := url.Parse(resolved)
	if err != nil {
		return false
	}
	return ref.Scheme == base.Scheme && ref.Host == base.Host
}

type docFlags struct {
	title       bool
	description bool
	submit      bool
	favicon     bool
	iframe      bool
	text        string
}

// scanDocument walks the parsed DOM once, collecting the presence flags the
// feature contract needs.
func scanDocument(doc *html.Node) docFlags {
	var flags docFlags
	var text strings.Builder

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "title":
				if n.FirstChild != nil && strings.TrimSpace(n.FirstChild.Data) != "" {
					flags.title = true
				}
			case "meta":
				if strings.EqualFold(attr(n, "name"), "description") && strings.TrimSpace(attr(n, "content")) != "" {
					flags.description = true
				}
			case "input":
				if strings.EqualFold(attr(n, "type"), "submit") {
					flags.submit = true
				}
			case "button":
				flags.submit = true
			case "link":
				if strings.Contains(strings.ToLower(attr(n, "rel")), "icon") {
					flags.favicon = true
				}
			case "iframe":
				flags.iframe = true
			case "script", "style":
				return // skip non-visible text
			}
		}
		if n.Type == html.TextNode {
			text.WriteString(n.Data)
			text.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	flags.text = text.String()
	return flags
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func abnormalURL(rawURL string) float64 {
	for _, p := range abnormalURLPatterns {
		if p.MatchString(rawURL) {
			return 1
		}
	}
	return 0
}

func boolFeature(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
