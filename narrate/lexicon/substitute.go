package lexicon

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Substitute rewrites text so every whole-token occurrence of a lexicon
// term is replaced by its spoken form. Longer terms are applied before
// shorter ones so a short term never clobbers part of a longer match.
// Matching is case-insensitive, bounded by non-alphanumeric characters or
// the string edges, and a hyphen or whitespace inside a term matches a
// hyphen, whitespace, or nothing in the text. Replacements are literal and
// never re-scanned against later terms. The function is total: no matches
// means the text comes back unchanged.
func Substitute(text string, terms []Term) string {
	if text == "" || len(terms) == 0 {
		return text
	}

	ordered := make([]Term, 0, len(terms))
	for _, t := range terms {
		if strings.TrimSpace(t.Term) == "" || strings.TrimSpace(t.Spoken) == "" {
			continue
		}
		ordered = append(ordered, t)
	}
	if len(ordered) == 0 {
		return text
	}

	// Descending term length in runes, original order preserved on ties.
	sort.SliceStable(ordered, func(i, j int) bool {
		return utf8.RuneCountInString(ordered[i].Term) > utf8.RuneCountInString(ordered[j].Term)
	})

	// Segments flagged done are spoken forms already inserted by an earlier
	// term; later terms only scan the raw remainder.
	segs := []segment{{text: text}}
	for _, t := range ordered {
		segs = applyTerm(segs, t)
	}

	var b strings.Builder
	for _, s := range segs {
		b.WriteString(s.text)
	}
	return b.String()
}

type segment struct {
	text string
	done bool
}

func applyTerm(segs []segment, t Term) []segment {
	out := make([]segment, 0, len(segs))
	for _, s := range segs {
		if s.done || s.text == "" {
			out = append(out, s)
			continue
		}
		out = append(out, replaceInSegment(s.text, t)...)
	}
	return out
}

// replaceInSegment scans one raw segment for the term and splits it into
// raw runs and done (substituted) runs.
func replaceInSegment(text string, t Term) []segment {
	runes := []rune(text)
	pattern := []rune(t.Term)

	var out []segment
	start := 0 // start of the pending raw run
	i := 0
	for i < len(runes) {
		end, ok := matchAt(runes, i, pattern)
		if !ok || end == i || !boundaryOK(runes, i, end) {
			i++
			continue
		}

		if i > start {
			out = append(out, segment{text: string(runes[start:i])})
		}
		out = append(out, segment{text: t.Spoken, done: true})
		start = end
		i = end
	}
	if start < len(runes) {
		out = append(out, segment{text: string(runes[start:])})
	}
	if len(out) == 0 {
		out = append(out, segment{text: text})
	}
	return out
}

// matchAt attempts a case-insensitive match of pattern at position i,
// returning the exclusive end offset. A hyphen or whitespace in the
// pattern consumes any run of hyphens and whitespace in the text,
// including none at all, so "follow-up", "follow up", and "followup" all
// match a term written as "follow-up".
func matchAt(runes []rune, i int, pattern []rune) (int, bool) {
	pos := i
	for pi := 0; pi < len(pattern); pi++ {
		pr := pattern[pi]
		if isSeparator(pr) {
			// Collapse consecutive separators in the pattern too.
			for pi+1 < len(pattern) && isSeparator(pattern[pi+1]) {
				pi++
			}
			for pos < len(runes) && isSeparator(runes[pos]) {
				pos++
			}
			continue
		}
		if pos >= len(runes) || unicode.ToLower(runes[pos]) != unicode.ToLower(pr) {
			return 0, false
		}
		pos++
	}
	return pos, true
}

// boundaryOK requires the match to be delimited by the string edges or
// non-alphanumeric characters so a term never matches inside a larger
// token.
func boundaryOK(runes []rune, start, end int) bool {
	if start > 0 && isAlphanumeric(runes[start-1]) {
		return false
	}
	if end < len(runes) && isAlphanumeric(runes[end]) {
		return false
	}
	return true
}

func isSeparator(r rune) bool {
	return r == '-' || unicode.IsSpace(r)
}

func isAlphanumeric(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
