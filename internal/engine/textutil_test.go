package engine

import (
	"testing"
	"unicode/utf8"
)

func TestCleanHTML(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"<b>bold</b> text", "bold text"},
		{"plain text", "plain text"},
		{`<a href="url">link</a>`, "link"},
		{"PAN &amp; Aadhaar", "PAN & Aadhaar"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := CleanHTML(tt.input); got != tt.want {
			t.Errorf("CleanHTML(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("cleartax", 5); got != "clear" {
		t.Errorf("Truncate() = %q, want %q", got, "clear")
	}
	if got := Truncate("pan", 10); got != "pan" {
		t.Errorf("Truncate() = %q, want %q", got, "pan")
	}
	if got := Truncate("आधार कार्ड", 3); got != "आधा" || !utf8.ValidString(got) {
		t.Errorf("Truncate() = %q, want %q", got, "आधा")
	}
}
