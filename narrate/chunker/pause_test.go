package chunker

import "testing"

func TestNormalizePauseMarkers(t *testing.T) {
	n := NewNormalizer()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "no markers",
			input:    "Plain text with no pauses.",
			expected: "Plain text with no pauses.",
		},
		{
			name:     "plain pause",
			input:    "Wait here [pause] then continue.",
			expected: "Wait here ... then continue.",
		},
		{
			name:     "long pause",
			input:    "Dramatic [pause long] reveal.",
			expected: "Dramatic ......... reveal.",
		},
		{
			name:     "case insensitive",
			input:    "Stop [PAUSE] go.",
			expected: "Stop ... go.",
		},
		{
			name:     "whitespace inside marker",
			input:    "Stop [ pause  long ] go.",
			expected: "Stop ......... go.",
		},
		{
			name:     "multiple markers",
			input:    "[pause]a[pause]",
			expected: "...a...",
		},
		{
			name:     "unknown bracket text untouched",
			input:    "Keep [note] as is.",
			expected: "Keep [note] as is.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := n.Normalize(tt.input); got != tt.expected {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestNormalizeSilenceCue(t *testing.T) {
	n := &Normalizer{Dots: 3, LongRepeat: 2, UseSilenceCue: true, Cue: " - "}

	if got := n.Normalize("a[pause]b"); got != "a - b" {
		t.Errorf("short cue: got %q", got)
	}
	if got := n.Normalize("a[pause long]b"); got != "a -  - b" {
		t.Errorf("long cue should repeat: got %q", got)
	}
}

func TestNormalizeConfiguredDots(t *testing.T) {
	n := &Normalizer{Dots: 2, LongRepeat: 4}

	if got := n.Normalize("x[pause]y"); got != "x..y" {
		t.Errorf("got %q", got)
	}
	if got := n.Normalize("x[pause long]y"); got != "x........y" {
		t.Errorf("got %q", got)
	}
}
