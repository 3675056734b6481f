package chunker

import (
	"strings"

	"docqa/internal/domain"
)

// Splitter breaks document text into overlapping chunks bounded by a
// maximum length. Sizes and overlap are measured in runes, not bytes, so
// multibyte text never gets cut mid-character. Text is cleaned before
// splitting: all whitespace runs (newlines included) collapse to single
// spaces, so boundaries are chosen on word or character positions only.
// Chunks are contiguous slices of the cleaned text; adjacent chunks share
// exactly the configured overlap.
type Splitter struct {
	chunkSize int
	overlap   int
}

// New creates a splitter. Out-of-range arguments fall back to defaults:
// chunk size 1000, overlap one fifth of the chunk size.
func New(chunkSize, overlap int) *Splitter {
	if chunkSize <= 0 {
		chunkSize = 1000
	}
	if overlap < 0 || overlap >= chunkSize {
		overlap = chunkSize / 5
	}
	return &Splitter{chunkSize: chunkSize, overlap: overlap}
}

// ChunkSize returns the maximum chunk length in runes.
func (s *Splitter) ChunkSize() int { return s.chunkSize }

// Overlap returns the number of runes shared by adjacent chunks.
func (s *Splitter) Overlap() int { return s.overlap }

// Clean collapses all consecutive whitespace to single spaces and trims the
// ends. Robust against PDF text-layer noise at the cost of paragraph
// boundary fidelity.
func Clean(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// Split cleans text and produces ordered chunks carrying the source
// identifier in their metadata. Text that is empty after cleaning yields an
// empty sequence; "no content" is a valid terminal state, not an error.
//
// Each chunk ends on a word boundary when one exists inside the window,
// otherwise it is a hard character cut, so no chunk ever exceeds the chunk
// size and splitting always terminates.
func (s *Splitter) Split(text, sourceID string) []domain.Chunk {
	cleaned := []rune(Clean(text))
	if len(cleaned) == 0 {
		return nil
	}
	var chunks []domain.Chunk
	pos := 0
	for {
		if len(cleaned)-pos <= s.chunkSize {
			chunks = append(chunks, s.newChunk(string(cleaned[pos:]), sourceID))
			return chunks
		}
		end := pos + s.chunkSize
		// Cut just after the last space inside the window, unless that
		// would leave the chunk shorter than the overlap (no forward
		// progress); then fall back to a character cut.
		if i := lastSpace(cleaned[pos:end]); i >= 0 && i+1 > s.overlap {
			end = pos + i + 1
		}
		chunks = append(chunks, s.newChunk(string(cleaned[pos:end]), sourceID))
		pos = end - s.overlap
	}
}

func lastSpace(runes []rune) int {
	for i := len(runes) - 1; i >= 0; i-- {
		if runes[i] == ' ' {
			return i
		}
	}
	return -1
}

func (s *Splitter) newChunk(text, sourceID string) domain.Chunk {
	return domain.Chunk{
		Text:     text,
		Metadata: map[string]string{domain.MetaSource: sourceID},
	}
}
