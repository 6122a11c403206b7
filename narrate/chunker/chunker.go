package chunker

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/dgnsrekt/scriptcast/narrate"
)

const (
	paragraphSeparator = "\n\n"
	sentenceSeparator  = " "
)

var (
	crlfRegex      = regexp.MustCompile(`\r\n?`)
	blankLineRegex = regexp.MustCompile(`\n[ \t]*\n+`)

	// End-of-sentence punctuation (possibly stacked, as in "?!") followed
	// by whitespace marks a sentence boundary.
	sentenceEndRegex = regexp.MustCompile(`[.!?]+\s+`)
)

// Chunk splits text into an ordered sequence of chunks of at most maxChars
// characters each, preferring paragraph boundaries, then sentence
// boundaries, then a hard wrap at exactly maxChars as a last resort.
// Lengths are measured in runes so multi-byte characters are never split.
// Empty or whitespace-only text yields an empty sequence.
func Chunk(text string, maxChars int) []narrate.Chunk {
	if maxChars < 1 {
		maxChars = 1
	}

	text = strings.TrimSpace(crlfRegex.ReplaceAllString(text, "\n"))
	if text == "" {
		return nil
	}

	var (
		chunks []narrate.Chunk
		buf    strings.Builder
	)
	emit := func(s string) {
		chunks = append(chunks, narrate.Chunk{Index: len(chunks), Text: s})
	}
	flush := func() {
		if buf.Len() > 0 {
			emit(buf.String())
			buf.Reset()
		}
	}

	for _, para := range blankLineRegex.Split(text, -1) {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}

		if fits(&buf, para, paragraphSeparator, maxChars) {
			appendWith(&buf, para, paragraphSeparator)
			continue
		}
		flush()

		if runeLen(para) <= maxChars {
			buf.WriteString(para)
			continue
		}

		// Paragraph alone is over budget: fall back to sentences.
		for _, sent := range splitSentences(para) {
			if fits(&buf, sent, sentenceSeparator, maxChars) {
				appendWith(&buf, sent, sentenceSeparator)
				continue
			}
			flush()

			if runeLen(sent) <= maxChars {
				buf.WriteString(sent)
				continue
			}

			// Sentence alone is over budget: hard-wrap. Expected only for
			// unpunctuated walls of text.
			for _, slice := range hardWrap(sent, maxChars) {
				emit(slice)
			}
		}
	}
	flush()

	return chunks
}

// splitSentences cuts a paragraph at end-of-sentence punctuation followed
// by whitespace, keeping the punctuation with the preceding sentence.
func splitSentences(para string) []string {
	var (
		sentences []string
		start     int
	)
	for _, loc := range sentenceEndRegex.FindAllStringIndex(para, -1) {
		// loc[0]..loc[1] covers punctuation plus trailing whitespace; keep
		// the punctuation, drop the separator whitespace.
		end := loc[0]
		for end < loc[1] && !isSpaceByte(para[end]) {
			end++
		}
		if s := strings.TrimSpace(para[start:end]); s != "" {
			sentences = append(sentences, s)
		}
		start = loc[1]
	}
	if s := strings.TrimSpace(para[start:]); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}

// hardWrap slices text into runs of exactly maxChars runes, except
// possibly the last.
func hardWrap(text string, maxChars int) []string {
	runes := []rune(text)
	slices := make([]string, 0, (len(runes)+maxChars-1)/maxChars)
	for start := 0; start < len(runes); start += maxChars {
		end := start + maxChars
		if end > len(runes) {
			end = len(runes)
		}
		slices = append(slices, string(runes[start:end]))
	}
	return slices
}

func fits(buf *strings.Builder, piece, sep string, maxChars int) bool {
	if buf.Len() == 0 {
		return runeLen(piece) <= maxChars
	}
	return runeLen(buf.String())+runeLen(sep)+runeLen(piece) <= maxChars
}

func appendWith(buf *strings.Builder, piece, sep string) {
	if buf.Len() > 0 {
		buf.WriteString(sep)
	}
	buf.WriteString(piece)
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}

func isSpaceByte(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n'
}
