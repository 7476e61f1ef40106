package reputation

import (
	"context"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"linkshield/internal/model"
)

type stubProvider struct {
	report *Report
	err    error
}

func (s *stubProvider) Lookup(_ context.Context, _ string) (*Report, error) {
	return s.report, s.err
}

func TestEvaluate(t *testing.T) {
	ctx := context.Background()

	t.Run("nil provider disables the signal", func(t *testing.T) {
		got, err := Evaluate(ctx, nil, "https://example.com", 0.70)
		if got != nil || err != nil {
			t.Errorf("got %v, %v; want nil, nil", got, err)
		}
	})

	t.Run("provider failure is unavailable, not clean", func(t *testing.T) {
		got, err := Evaluate(ctx, &stubProvider{err: errors.New("timeout")}, "https://example.com", 0.70)
		if got != nil {
			t.Errorf("result = %v, want nil", got)
		}
		var unavailable *model.SignalUnavailable
		if !errors.As(err, &unavailable) {
			t.Errorf("err = %v, want SignalUnavailable", err)
		}
	})

	t.Run("zero engines is unavailable", func(t *testing.T) {
		got, err := Evaluate(ctx, &stubProvider{report: &Report{}}, "https://example.com", 0.70)
		if got != nil || err == nil {
			t.Errorf("got %v, %v; want nil result and error", got, err)
		}
	})

	t.Run("malicious fraction becomes the score", func(t *testing.T) {
		got, err := Evaluate(ctx, &stubProvider{report: &Report{Malicious: 45, Total: 90}}, "https://evil.example", 0.70)
		if err != nil {
			t.Fatalf("Evaluate: %v", err)
		}
		if math.Abs(got.Score-0.5) > 1e-9 {
			t.Errorf("score = %v, want 0.5", got.Score)
		}
		if len(got.Flags) != 1 {
			t.Errorf("flags = %v, want one flag below the clean floor", got.Flags)
		}
	})

	t.Run("mostly clean report carries no flag", func(t *testing.T) {
		got, err := Evaluate(ctx, &stubProvider{report: &Report{Malicious: 2, Total: 90}}, "https://example.com", 0.70)
		if err != nil {
			t.Fatalf("Evaluate: %v", err)
		}
		if len(got.Flags) != 0 {
			t.Errorf("flags = %v, want none", got.Flags)
		}
		if got.Score <= 0 {
			t.Errorf("score = %v, want the raw fraction preserved", got.Score)
		}
	})
}

func TestHTTPProviderLookup(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("url") == "" {
			http.Error(w, "missing url", http.StatusBadRequest)
			return
		}
		if r.Header.Get("X-Api-Key") != "test-key" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"positives": 12, "total": 70}`))
	}))
	defer server.Close()

	provider := NewHTTPProvider(model.ReputationConfig{
		Endpoint:      server.URL,
		APIKey:        "test-key",
		Timeout:       2 * time.Second,
		RatePerSecond: 100,
		RateBurst:     10,
	})
	if provider == nil {
		t.Fatal("provider should be enabled with an endpoint")
	}

	report, err := provider.Lookup(context.Background(), "https://example.com/login")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if report.Malicious != 12 || report.Total != 70 {
		t.Errorf("report = %+v, want 12/70", report)
	}
}

func TestHTTPProviderErrors(t *testing.T) {
	t.Run("no endpoint disables the provider", func(t *testing.T) {
		if p := NewHTTPProvider(model.ReputationConfig{}); p != nil {
			t.Error("expected nil provider without an endpoint")
		}
	})

	t.Run("server error surfaces", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		}))
		defer server.Close()

		provider := NewHTTPProvider(model.ReputationConfig{
			Endpoint: server.URL,
			Timeout:  2 * time.Second,
		})
		if _, err := provider.Lookup(context.Background(), "https://example.com"); err == nil {
			t.Error("expected error on 500 response")
		}
	})

	t.Run("malformed body surfaces", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Write([]byte("not json"))
		}))
		defer server.Close()

		provider := NewHTTPProvider(model.ReputationConfig{
			Endpoint: server.URL,
			Timeout:  2 * time.Second,
		})
		if _, err := provider.Lookup(context.Background(), "https://example.com"); err == nil {
			t.Error("expected error on malformed body")
		}
	})
}
