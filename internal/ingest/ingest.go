package ingest

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"

	"docqa/internal/chunker"
	"docqa/internal/domain"
	"docqa/internal/summarizer"
)

// Kind names the supported upload content kinds.
type Kind string

const (
	KindPDF  Kind = "pdf"
	KindText Kind = "text"
)

// DetectKind picks the content kind from a filename extension. Anything
// that is not a PDF is treated as plain text, mirroring upload handling.
func DetectKind(filename string) Kind {
	if strings.EqualFold(filepath.Ext(filename), ".pdf") {
		return KindPDF
	}
	return KindText
}

// Result is the outcome of processing one uploaded document.
type Result struct {
	Chunks  []domain.Chunk
	Summary string
}

// Service turns raw uploaded bytes into chunks ready for indexing: decode
// by kind, clean, split, and produce a short preview summary.
type Service struct {
	splitter     *chunker.Splitter
	summarizer   *summarizer.Summarizer
	maxSentences int
}

// New creates an ingestion service.
func New(splitter *chunker.Splitter, sum *summarizer.Summarizer, maxSummarySentences int) *Service {
	return &Service{splitter: splitter, summarizer: sum, maxSentences: maxSummarySentences}
}

// Process decodes data according to kind and splits it into chunks carrying
// sourceID provenance. Undecodable PDF bytes fail with ErrParse; text that
// is empty after cleaning fails with ErrInvalidInput.
func (s *Service) Process(data []byte, sourceID string, kind Kind) (*Result, error) {
	var text string
	switch kind {
	case KindPDF:
		extracted, err := extractPDFText(data)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", domain.ErrParse, sourceID, err)
		}
		text = extracted
	case KindText:
		// Invalid UTF-8 sequences are dropped rather than rejected.
		text = strings.ToValidUTF8(string(data), "")
	default:
		return nil, fmt.Errorf("%w: unknown content kind %q", domain.ErrInvalidInput, kind)
	}

	chunks := s.splitter.Split(text, sourceID)
	if len(chunks) == 0 {
		return nil, fmt.Errorf("%w: %s: no text content after cleaning", domain.ErrInvalidInput, sourceID)
	}

	return &Result{
		Chunks:  chunks,
		Summary: s.summarizer.Summarize(chunker.Clean(text), s.maxSentences),
	}, nil
}

// extractPDFText pulls the plain-text layer out of a PDF document.
func extractPDFText(data []byte) (text string, err error) {
	// The PDF parser panics on some malformed inputs; treat those the
	// same as a parse error.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed PDF: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}
	reader, err := r.GetPlainText()
	if err != nil {
		return "", err
	}
	out, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
