package textfilter

import (
	"strings"
	"testing"
)

func TestFilter_Apply(t *testing.T) {
	f := New()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "lowercase word",
			input:    "What the hell is that?",
			expected: "What the heck is that?",
		},
		{
			name:     "title case preserved",
			input:    "Damn, the bridge is out.",
			expected: "Dang, the bridge is out.",
		},
		{
			name:     "all caps preserved",
			input:    "DAMN the torpedoes!",
			expected: "DANG the torpedoes!",
		},
		{
			name:     "word boundaries respected",
			input:    "The assassin passes through the classroom.",
			expected: "The assassin passes through the classroom.",
		},
		{
			name:     "clean text untouched",
			input:    "The goblin snarls and lunges forward.",
			expected: "The goblin snarls and lunges forward.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := f.Apply(tt.input); got != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestFilter_Contains(t *testing.T) {
	f := New()

	if !f.Contains("well, damn") {
		t.Error("Expected match")
	}
	if f.Contains("a perfectly polite sentence") {
		t.Error("Expected no match")
	}
	if f.Contains("classroom and passage") {
		t.Error("Substrings inside clean words must not match")
	}
}

func TestFilter_ApplyIsCaseInsensitive(t *testing.T) {
	f := New()
	out := f.Apply("hell Hell HELL")
	if strings.Contains(strings.ToLower(out), "hell") {
		t.Errorf("All variants should be replaced, got %q", out)
	}
}

func TestShouldFilter(t *testing.T) {
	tests := []struct {
		rating   string
		expected bool
	}{
		{"G", true},
		{"PG", true},
		{"PG13", true},
		{"PG-13", true},
		{"pg-13", true},
		{" pg ", true},
		{"R", false},
		{"", false},
		{"unrated", false},
	}

	for _, tt := range tests {
		if got := ShouldFilter(tt.rating); got != tt.expected {
			t.Errorf("ShouldFilter(%q) = %v, expected %v", tt.rating, got, tt.expected)
		}
	}
}
