package formatting_test

import (
	"testing"

	"github.com/vantrel/medscan/pkg/formatting"
)

func TestFormatBytes(t *testing.T) {
	cases := []struct {
		name      string
		n         int64
		precision int
		expected  string
	}{
		{"zero", 0, 2, "0 B"},
		{"bytes", 512, 0, "512 B"},
		{"kilobytes", 2048, 1, "2.0 KB"},
		{"megabytes", 52428800, 0, "50 MB"},
		{"negative precision clamps", 1024, -1, "1 KB"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := formatting.FormatBytes(tc.n, tc.precision); got != tc.expected {
				t.Errorf("expected %q, got %q", tc.expected, got)
			}
		})
	}
}

func TestParseBytes(t *testing.T) {
	cases := []struct {
		name     string
		input    string
		expected int64
		valid    bool
	}{
		{"bare number", "1024", 1024, true},
		{"megabytes", "50MB", 52428800, true},
		{"with space", "2 KB", 2048, true},
		{"lowercase unit", "1gb", 1073741824, true},
		{"fractional", "1.5KB", 1536, true},
		{"empty", "", 0, false},
		{"unknown unit", "5XB", 0, false},
		{"not a number", "abc", 0, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := formatting.ParseBytes(tc.input)
			if tc.valid {
				if err != nil {
					t.Fatalf("parse: %v", err)
				}
				if got != tc.expected {
					t.Errorf("expected %d, got %d", tc.expected, got)
				}
				return
			}
			if err == nil {
				t.Errorf("expected error, got %d", got)
			}
		})
	}
}

func TestRoundTrip(t *testing.T) {
	for _, n := range []int64{1024, 52428800, 1073741824} {
		formatted := formatting.FormatBytes(n, 0)
		parsed, err := formatting.ParseBytes(formatted)
		if err != nil {
			t.Fatalf("parse %q: %v", formatted, err)
		}
		if parsed != n {
			t.Errorf("round trip %d -> %q -> %d", n, formatted, parsed)
		}
	}
}
