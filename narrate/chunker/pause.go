// Package chunker prepares script text for synthesis: it rewrites inline
// pause markers into cues the provider understands and splits long text
// into request-sized chunks at natural boundaries.
package chunker

import (
	"regexp"
	"strings"
)

// Inline markers authors put in scripts to request a beat of silence.
// The long form takes an optional qualifier: [pause long].
var pauseMarkerRegex = regexp.MustCompile(`(?i)\[\s*pause(\s+long)?\s*\]`)

// Normalizer rewrites pause markers into literal punctuation or silence
// cues before the text is chunked.
type Normalizer struct {
	// Dots is the number of periods a plain [pause] becomes.
	Dots int
	// LongRepeat multiplies the run for [pause long].
	LongRepeat int
	// UseSilenceCue switches both markers to the literal Cue string for
	// providers that honor an explicit silence token instead of punctuation.
	UseSilenceCue bool
	// Cue is the literal silence cue inserted when UseSilenceCue is set.
	Cue string
}

// NewNormalizer returns a normalizer with the default punctuation pauses.
func NewNormalizer() *Normalizer {
	return &Normalizer{Dots: 3, LongRepeat: 3, Cue: " - "}
}

// Normalize rewrites every pause marker in the text. Text without markers
// is returned unchanged.
func (n *Normalizer) Normalize(text string) string {
	if !strings.Contains(text, "[") {
		return text
	}

	return pauseMarkerRegex.ReplaceAllStringFunc(text, func(marker string) string {
		long := strings.Contains(strings.ToLower(marker), "long")
		return n.cueFor(long)
	})
}

func (n *Normalizer) cueFor(long bool) string {
	if n.UseSilenceCue {
		if long {
			return strings.Repeat(n.Cue, max(n.LongRepeat, 1))
		}
		return n.Cue
	}

	dots := strings.Repeat(".", max(n.Dots, 1))
	if long {
		dots = strings.Repeat(dots, max(n.LongRepeat, 1))
	}
	return dots
}
