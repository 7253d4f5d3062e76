package cli

import (
	"strings"
	"testing"
)

func TestColorWrapping(t *testing.T) {
	if !colorEnabled {
		t.Skip("NO_COLOR set in test environment")
	}
	tests := []struct {
		name string
		fn   func(string) string
		code string
	}{
		{"green", Green, "\033[32m"},
		{"yellow", Yellow, "\033[33m"},
		{"red", Red, "\033[31m"},
		{"bold", Bold, "\033[1m"},
		{"dim", Dim, "\033[2m"},
	}
	for _, tt := range tests {
		got := tt.fn("authenticated")
		if !strings.HasPrefix(got, tt.code) || !strings.HasSuffix(got, "\033[0m") {
			t.Errorf("%s(%q) = %q", tt.name, "authenticated", got)
		}
		if !strings.Contains(got, "authenticated") {
			t.Errorf("%s dropped its input: %q", tt.name, got)
		}
	}
}

func TestDotPad(t *testing.T) {
	tests := []struct {
		name  string
		width int
		want  string
	}{
		{"site", 12, "site ......."},
		{"user", 4, "user"},
		{"controller_url", 10, "controller_url"},
		{"x", 0, "x"},
	}
	for _, tt := range tests {
		if got := DotPad(tt.name, tt.width); got != tt.want {
			t.Errorf("DotPad(%q, %d) = %q, want %q", tt.name, tt.width, got, tt.want)
		}
	}
}
