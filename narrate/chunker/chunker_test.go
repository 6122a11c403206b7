package chunker

import (
	"strings"
	"testing"
)

func TestChunkEmptyInput(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "empty string", input: ""},
		{name: "whitespace only", input: "   \n\t  \n"},
		{name: "blank lines only", input: "\n\n\n\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunks := Chunk(tt.input, 100)
			if len(chunks) != 0 {
				t.Errorf("expected no chunks, got %d", len(chunks))
			}
		})
	}
}

func TestChunkSingleParagraphFits(t *testing.T) {
	chunks := Chunk("Hello world. This is short.", 100)
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0].Text != "Hello world. This is short." {
		t.Errorf("unexpected chunk text: %q", chunks[0].Text)
	}
	if chunks[0].Index != 0 {
		t.Errorf("expected index 0, got %d", chunks[0].Index)
	}
}

func TestChunkKeepsParagraphsTogether(t *testing.T) {
	input := "First paragraph.\n\nSecond paragraph."
	chunks := Chunk(input, 100)
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0].Text != input {
		t.Errorf("paragraphs not rejoined with separator: %q", chunks[0].Text)
	}
}

func TestChunkPrefersParagraphBoundaries(t *testing.T) {
	para1 := strings.Repeat("aaaa ", 12) + "end."  // 64 chars
	para2 := strings.Repeat("bbbb ", 12) + "stop." // 65 chars
	input := para1 + "\n\n" + para2

	chunks := Chunk(input, 80)
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}
	if chunks[0].Text != para1 {
		t.Errorf("first chunk should be the first paragraph, got %q", chunks[0].Text)
	}
	if chunks[1].Text != para2 {
		t.Errorf("second chunk should be the second paragraph, got %q", chunks[1].Text)
	}
}

func TestChunkFallsBackToSentences(t *testing.T) {
	// One paragraph over budget, but each sentence fits.
	input := "This is the first sentence of the paragraph. " +
		"This is the second sentence of it. " +
		"And here comes the third one."

	chunks := Chunk(input, 50)
	if len(chunks) < 2 {
		t.Fatalf("expected the paragraph split into multiple chunks, got %d", len(chunks))
	}
	for _, c := range chunks {
		if len([]rune(c.Text)) > 50 {
			t.Errorf("chunk %d exceeds budget: %d chars", c.Index, len([]rune(c.Text)))
		}
		if strings.TrimSpace(c.Text) == "" {
			t.Errorf("chunk %d is blank", c.Index)
		}
	}
	if !strings.HasSuffix(chunks[0].Text, ".") {
		t.Errorf("sentence chunk should keep its punctuation: %q", chunks[0].Text)
	}
}

func TestChunkHardWrapsUnbrokenText(t *testing.T) {
	wall := strings.Repeat("x", 250)
	chunks := Chunk(wall, 100)
	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(chunks))
	}
	if len(chunks[0].Text) != 100 || len(chunks[1].Text) != 100 {
		t.Errorf("hard-wrapped slices should be exactly the budget: %d, %d",
			len(chunks[0].Text), len(chunks[1].Text))
	}
	if len(chunks[2].Text) != 50 {
		t.Errorf("final slice should carry the remainder: %d", len(chunks[2].Text))
	}
	if chunks[0].Text+chunks[1].Text+chunks[2].Text != wall {
		t.Error("hard-wrap lost characters")
	}
}

func TestChunkHardWrapRespectsRunes(t *testing.T) {
	wall := strings.Repeat("ü", 10)
	chunks := Chunk(wall, 3)
	var rebuilt strings.Builder
	for _, c := range chunks {
		if n := len([]rune(c.Text)); n > 3 {
			t.Errorf("chunk %d has %d runes, budget is 3", c.Index, n)
		}
		rebuilt.WriteString(c.Text)
	}
	if rebuilt.String() != wall {
		t.Error("multi-byte characters were split or lost")
	}
}

func TestChunkBudgetProperty(t *testing.T) {
	inputs := []string{
		"Short.",
		"One paragraph sentence one. Sentence two is here. Third sentence!\n\nSecond paragraph? Yes indeed.",
		strings.Repeat("word ", 500),
		strings.Repeat("z", 97),
		"A.\n\nB.\n\nC.\n\nD.\n\nE.",
	}
	budgets := []int{1, 5, 20, 80, 2000}

	for _, input := range inputs {
		for _, m := range budgets {
			for _, c := range Chunk(input, m) {
				if n := len([]rune(c.Text)); n > m {
					t.Errorf("budget %d violated: chunk %d has %d chars", m, c.Index, n)
				}
			}
		}
	}
}

func TestChunkIndicesAreContiguous(t *testing.T) {
	input := strings.Repeat("A sentence here. ", 60)
	chunks := Chunk(input, 50)
	for i, c := range chunks {
		if c.Index != i {
			t.Errorf("chunk at position %d has index %d", i, c.Index)
		}
	}
}

// Chunking must be lossless: stripping the separators used to join pieces
// back out of the chunks reproduces the normalized input's content.
func TestChunkIsLossless(t *testing.T) {
	tests := []struct {
		name  string
		input string
		max   int
	}{
		{name: "paragraphs kept", input: "Alpha beta gamma.\n\nDelta epsilon.", max: 2000},
		{name: "paragraphs split", input: "Alpha beta gamma.\n\nDelta epsilon.", max: 20},
		{name: "sentences split", input: "One two three four. Five six seven eight. Nine ten.", max: 25},
		{name: "crlf input", input: "Line one.\r\n\r\nLine two.", max: 2000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			normalized := strings.TrimSpace(strings.ReplaceAll(tt.input, "\r\n", "\n"))
			want := squash(normalized)

			var joined strings.Builder
			for i, c := range Chunk(tt.input, tt.max) {
				if i > 0 {
					joined.WriteString(" ")
				}
				joined.WriteString(c.Text)
			}
			if got := squash(joined.String()); got != want {
				t.Errorf("content changed\n got: %q\nwant: %q", got, want)
			}
		})
	}
}

// squash collapses all separator runs so comparisons ignore which
// separator (space vs blank line) was used at each join.
func squash(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
