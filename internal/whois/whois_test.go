package whois

import (
	"testing"
	"time"
)

func TestParseCreated(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  time.Time
		ok    bool
	}{
		{"rfc3339", "2019-03-14T08:00:00Z", time.Date(2019, 3, 14, 8, 0, 0, 0, time.UTC), true},
		{"datetime", "2019-03-14 08:00:00", time.Date(2019, 3, 14, 8, 0, 0, 0, time.UTC), true},
		{"date only", "2019-03-14", time.Date(2019, 3, 14, 0, 0, 0, 0, time.UTC), true},
		{"registrar style", "14-Mar-2019", time.Date(2019, 3, 14, 0, 0, 0, 0, time.UTC), true},
		{"dotted", "2019.03.14", time.Date(2019, 3, 14, 0, 0, 0, 0, time.UTC), true},
		{"padded", "  2019-03-14  ", time.Date(2019, 3, 14, 0, 0, 0, 0, time.UTC), true},
		{"empty", "", time.Time{}, false},
		{"garbage", "soon", time.Time{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := parseCreated(tt.input)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if ok && !got.Equal(tt.want) {
				t.Errorf("parsed %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParentDomain(t *testing.T) {
	tests := []struct {
		domain string
		parent string
		ok     bool
	}{
		{"a.b.example.com", "b.example.com", true},
		{"login.example.com", "example.com", true},
		{"example.com", "", false},
		{"localhost", "", false},
	}
	for _, tt := range tests {
		parent, ok := parentDomain(tt.domain)
		if parent != tt.parent || ok != tt.ok {
			t.Errorf("parentDomain(%q) = %q, %v; want %q, %v",
				tt.domain, parent, ok, tt.parent, tt.ok)
		}
	}
}
