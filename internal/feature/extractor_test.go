package feature

import (
	"errors"
	"math"
	"testing"

	"linkshield/internal/model"
	"linkshield/internal/urlx"
)

func mustParts(t *testing.T, rawURL string) *urlx.Parts {
	t.Helper()
	p, err := urlx.Parse(rawURL)
	if err != nil {
		t.Fatalf("parse %s: %v", rawURL, err)
	}
	return p
}

func TestExtract_NoPageFails(t *testing.T) {
	e := NewExtractor([]string{"tk"})
	req := model.AnalysisRequest{URL: "https://example.com"}

	_, err := e.Extract(req, mustParts(t, req.URL))
	var failed *model.FeatureExtractionFailed
	if !errors.As(err, &failed) {
		t.Fatalf("expected FeatureExtractionFailed, got %v", err)
	}
}

func TestExtract_VectorMatchesContract(t *testing.T) {
	e := NewExtractor([]string{"tk", "ml"})
	req := model.AnalysisRequest{
		URL: "https://www.example.com/index",
		Page: &model.PageSnapshot{
			HTML:     "<html><head><title>Hi</title></head><body></body></html>",
			FinalURL: "https://www.example.com/index",
			HTTPS:    true,
		},
	}

	vec, err := e.Extract(req, mustParts(t, req.URL))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if vec.Len() != model.FeatureCount() {
		t.Fatalf("vector length %d, want %d", vec.Len(), model.FeatureCount())
	}
	names := vec.Names()
	for i, want := range model.FeatureNames() {
		if names[i] != want {
			t.Fatalf("feature %d = %q, want %q", i, names[i], want)
		}
	}
}

func TestExtract_Deterministic(t *testing.T) {
	e := NewExtractor(nil)
	req := model.AnalysisRequest{
		URL: "https://example.com/a?b=1",
		Page: &model.PageSnapshot{
			HTML:     "<html><body><img src='/x.png'></body></html>",
			FinalURL: "https://example.com/a",
			HTTPS:    true,
			Elements: []model.ElementRef{{Tag: model.TagImage, URL: "https://example.com/x.png"}},
		},
	}
	parts := mustParts(t, req.URL)

	first, err := e.Extract(req, parts)
	if err != nil {
		t.Fatal(err)
	}
	second, err := e.Extract(req, parts)
	if err != nil {
		t.Fatal(err)
	}
	for i := range first.Values() {
		if first.Values()[i] != second.Values()[i] {
			t.Fatalf("feature %s differs between runs", first.Names()[i])
		}
	}
}

func TestLexicalFeatures(t *testing.T) {
	rawURL := "https://abc123.example.com/login"
	lex := lexicalFeatures(rawURL, mustParts(t, rawURL))

	if lex.urlLength != float64(len(rawURL)) {
		t.Errorf("url_length = %f", lex.urlLength)
	}
	if lex.subdomainDepth != 1 {
		t.Errorf("subdomain_depth = %f, want 1", lex.subdomainDepth)
	}
	// 23 letters, 3 digits in the URL string.
	wantRatio := 23.0 / (3.0 + letterDigitEpsilon)
	if math.Abs(lex.letterDigitRatio-wantRatio) > 1e-6 {
		t.Errorf("letter_digit_ratio = %f, want %f", lex.letterDigitRatio, wantRatio)
	}
}

func TestLexicalFeatures_NoDigits(t *testing.T) {
	rawURL := "https://example.com"
	lex := lexicalFeatures(rawURL, mustParts(t, rawURL))
	// Epsilon keeps the ratio finite without digits.
	if math.IsInf(lex.letterDigitRatio, 1) || math.IsNaN(lex.letterDigitRatio) {
		t.Fatalf("ratio not finite: %f", lex.letterDigitRatio)
	}
	if lex.letterDigitRatio < 1e5 {
		t.Errorf("expected large ratio for digit-free URL, got %f", lex.letterDigitRatio)
	}
}

func TestStructuralFeatures_OriginSplit(t *testing.T) {
	e := NewExtractor(nil)
	page := &model.PageSnapshot{
		FinalURL: "https://example.com/page",
		Elements: []model.ElementRef{
			{Tag: model.TagImage, URL: "https://example.com/logo.png"},
			{Tag: model.TagScript, URL: "https://cdn.other.com/app.js"},
			{Tag: model.TagScript}, // inline
			{Tag: model.TagStylesheet, URL: "https://example.com/site.css"},
			{Tag: model.TagAnchor, URL: "http://example.com/insecure"}, // scheme differs
		},
	}

	s := e.structuralFeatures(page)
	if s.numImages != 1 || s.numScripts != 2 || s.numStylesheets != 1 {
		t.Errorf("counts = %v/%v/%v", s.numImages, s.numScripts, s.numStylesheets)
	}
	// Same-origin requires scheme+host equality with the page.
	if s.numSelfRefs != 2 {
		t.Errorf("self refs = %f, want 2", s.numSelfRefs)
	}
	if s.numExternalRefs != 2 {
		t.Errorf("external refs = %f, want 2", s.numExternalRefs)
	}
}

func TestStructuralFeatures_PresenceFlags(t *testing.T) {
	e := NewExtractor(nil)
	page := &model.PageSnapshot{
		FinalURL: "https://example.com",
		HTML: `<html><head>
			<title>Shop</title>
			<meta name="description" content="buy things">
			<link rel="shortcut icon" href="/fav.ico">
			</head><body>
			<form><input type="submit"></form>
			<iframe src="https://ads.example.net"></iframe>
			<p>Copyright 2024 Example Inc. Follow us on facebook.</p>
			<script>window.open('https://popup.example.net')</script>
			</body></html>`,
	}

	s := e.structuralFeatures(page)
	checks := map[string]float64{
		"title":       s.hasTitle,
		"description": s.hasDescription,
		"favicon":     s.hasFavicon,
		"submit":      s.hasSubmit,
		"iframe":      s.hasIframe,
		"copyright":   s.hasCopyright,
		"social":      s.hasSocial,
		"popup":       s.hasPopup,
	}
	for name, got := range checks {
		if got != 1 {
			t.Errorf("expected %s flag set", name)
		}
	}
	if s.hasObfuscation != 0 {
		t.Error("unexpected obfuscation flag")
	}
}

func TestStructuralFeatures_Obfuscation(t *testing.T) {
	e := NewExtractor(nil)
	page := &model.PageSnapshot{
		FinalURL: "https://example.com",
		HTML:     `<script>eval(String.fromCharCode(104,105))</script>`,
	}
	if s := e.structuralFeatures(page); s.hasObfuscation != 1 {
		t.Error("expected obfuscation flag")
	}
}

func TestRedirectExpansion(t *testing.T) {
	e := NewExtractor(nil)
	parts := mustParts(t, "https://example.com")

	tests := []struct {
		name      string
		redirects int
		wantNone  float64
		wantSome  float64
	}{
		{"no redirect", 0, 1, 0},
		{"redirect occurred", 2, 0, 1},
		{"unknown", -1, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := model.AnalysisRequest{
				URL:  "https://example.com",
				Page: &model.PageSnapshot{FinalURL: "https://example.com", RedirectCount: tt.redirects},
			}
			vec, err := e.Extract(req, parts)
			if err != nil {
				t.Fatal(err)
			}
			none, _ := vec.Value("redirect_none")
			some, _ := vec.Value("redirect_present")
			if none != tt.wantNone || some != tt.wantSome {
				t.Errorf("redirect features = %v/%v, want %v/%v", none, some, tt.wantNone, tt.wantSome)
			}
		})
	}
}

func TestHighRiskTLDFeature(t *testing.T) {
	e := NewExtractor([]string{".tk"})
	req := model.AnalysisRequest{
		URL:  "http://phish.tk",
		Page: &model.PageSnapshot{FinalURL: "http://phish.tk"},
	}
	vec, err := e.Extract(req, mustParts(t, req.URL))
	if err != nil {
		t.Fatal(err)
	}
	if v, _ := vec.Value("tld_high_risk"); v != 1 {
		t.Error("expected tld_high_risk = 1 for .tk")
	}
}

func TestAbnormalURL(t *testing.T) {
	tests := []struct {
		url  string
		want float64
	}{
		{"https://example.com", 0},
		{"https://user@example.com", 1},
		{"http://10.0.0.1/x", 1},
		{"https://example.com/payload.exe", 1},
	}
	for _, tt := range tests {
		if got := abnormalURL(tt.url); got != tt.want {
			t.Errorf("abnormalURL(%s) = %v, want %v", tt.url, got, tt.want)
		}
	}
}
