package chunker

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestCleanCollapsesWhitespace(t *testing.T) {
	in := "para one\n\npara  two\n\tpara three  "
	want := "para one para two para three"
	if got := Clean(in); got != want {
		t.Errorf("Clean() = %q, want %q", got, want)
	}
}

func TestSplitEmptyInput(t *testing.T) {
	s := New(50, 10)
	for _, in := range []string{"", "   ", "\n\n\t \n"} {
		if chunks := s.Split(in, "doc.txt"); len(chunks) != 0 {
			t.Errorf("Split(%q) = %d chunks, want 0", in, len(chunks))
		}
	}
}

func TestSplitShortInputSingleChunk(t *testing.T) {
	s := New(100, 20)
	chunks := s.Split("just a short sentence", "doc.txt")
	if len(chunks) != 1 {
		t.Fatalf("got %d chunks, want 1", len(chunks))
	}
	if chunks[0].Text != "just a short sentence" {
		t.Errorf("chunk text = %q", chunks[0].Text)
	}
	if chunks[0].Source() != "doc.txt" {
		t.Errorf("source = %q, want doc.txt", chunks[0].Source())
	}
}

func TestSplitProperties(t *testing.T) {
	const chunkSize, overlap = 50, 10
	s := New(chunkSize, overlap)

	text := strings.Repeat("alpha beta gamma delta epsilon ", 12)
	cleaned := Clean(text)
	chunks := s.Split(text, "doc.txt")
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}

	for i, c := range chunks {
		if len(c.Text) > chunkSize {
			t.Errorf("chunk %d exceeds chunk size: %d > %d", i, len(c.Text), chunkSize)
		}
		if c.Source() != "doc.txt" {
			t.Errorf("chunk %d source = %q", i, c.Source())
		}
	}

	// Adjacent chunks share exactly `overlap` characters.
	for i := 1; i < len(chunks); i++ {
		prev, cur := chunks[i-1].Text, chunks[i].Text
		if prev[len(prev)-overlap:] != cur[:overlap] {
			t.Errorf("chunks %d/%d do not share %d boundary characters", i-1, i, overlap)
		}
	}

	// Concatenation minus overlap duplication reconstructs the cleaned input.
	var rebuilt strings.Builder
	rebuilt.WriteString(chunks[0].Text)
	for i := 1; i < len(chunks); i++ {
		rebuilt.WriteString(chunks[i].Text[overlap:])
	}
	if rebuilt.String() != cleaned {
		t.Errorf("reconstruction mismatch:\n got %q\nwant %q", rebuilt.String(), cleaned)
	}
}

func TestSplitPathologicalSingleToken(t *testing.T) {
	// No spaces anywhere: must fall back to character cuts and terminate.
	const chunkSize, overlap = 20, 5
	s := New(chunkSize, overlap)
	text := strings.Repeat("x", 95)
	chunks := s.Split(text, "blob")
	if len(chunks) == 0 {
		t.Fatal("expected chunks for unbroken text")
	}
	for i, c := range chunks {
		if len(c.Text) > chunkSize {
			t.Errorf("chunk %d exceeds chunk size: %d", i, len(c.Text))
		}
	}
	var rebuilt strings.Builder
	rebuilt.WriteString(chunks[0].Text)
	for i := 1; i < len(chunks); i++ {
		rebuilt.WriteString(chunks[i].Text[overlap:])
	}
	if rebuilt.String() != text {
		t.Error("reconstruction mismatch for unbroken text")
	}
}

func TestSplitMultibyteText(t *testing.T) {
	// CJK text with no spaces: cuts land between runes, never inside one,
	// and sizing counts runes rather than bytes.
	const chunkSize, overlap = 20, 5
	s := New(chunkSize, overlap)
	text := strings.Repeat("量子力学の基礎研究", 10)
	cleaned := Clean(text)
	chunks := s.Split(text, "notes.txt")
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}

	for i, c := range chunks {
		if !utf8.ValidString(c.Text) {
			t.Errorf("chunk %d is not valid UTF-8: %q", i, c.Text)
		}
		if n := utf8.RuneCountInString(c.Text); n > chunkSize {
			t.Errorf("chunk %d is %d runes, max %d", i, n, chunkSize)
		}
	}

	for i := 1; i < len(chunks); i++ {
		prev, cur := []rune(chunks[i-1].Text), []rune(chunks[i].Text)
		if string(prev[len(prev)-overlap:]) != string(cur[:overlap]) {
			t.Errorf("chunks %d/%d do not share %d boundary runes", i-1, i, overlap)
		}
	}

	rebuilt := []rune(chunks[0].Text)
	for i := 1; i < len(chunks); i++ {
		rebuilt = append(rebuilt, []rune(chunks[i].Text)[overlap:]...)
	}
	if string(rebuilt) != cleaned {
		t.Error("reconstruction mismatch for multibyte text")
	}
}

func TestNewAppliesDefaults(t *testing.T) {
	s := New(0, -1)
	if s.ChunkSize() != 1000 || s.Overlap() != 200 {
		t.Errorf("defaults = (%d, %d), want (1000, 200)", s.ChunkSize(), s.Overlap())
	}
	// Overlap not smaller than chunk size is rejected.
	s = New(100, 100)
	if s.Overlap() >= s.ChunkSize() {
		t.Errorf("overlap %d not clamped below chunk size %d", s.Overlap(), s.ChunkSize())
	}
}
