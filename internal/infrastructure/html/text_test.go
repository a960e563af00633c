package html

import (
	"strings"
	"testing"
)

func TestPlainText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "google news description",
			input:    `<a href="https://example.tld/a" target="_blank">Storm hits coast</a>&nbsp;&nbsp;<font color="#6f6f6f">BBC News</font>`,
			expected: "Storm hits coast BBC News",
		},
		{
			name:     "plain text untouched",
			input:    "Nothing   to\nstrip",
			expected: "Nothing to strip",
		},
		{
			name:     "script removed",
			input:    "<p>Body</p><script>alert('x')</script>",
			expected: "Body",
		},
		{
			name:     "entity decoded",
			input:    "Fish &amp; chips",
			expected: "Fish & chips",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PlainText(tt.input); got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	long := strings.Repeat("あ", maxTextChars+10)

	got := Truncate(long)
	if len([]rune(got)) != maxTextChars {
		t.Errorf("expected %d runes, got %d", maxTextChars, len([]rune(got)))
	}

	if Truncate("short") != "short" {
		t.Error("expected short text to be unchanged")
	}
}
