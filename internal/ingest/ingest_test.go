package ingest

import (
	"errors"
	"testing"

	"docqa/internal/chunker"
	"docqa/internal/domain"
	"docqa/internal/summarizer"
)

func newService() *Service {
	return New(chunker.New(100, 20), summarizer.New(), 2)
}

func TestDetectKind(t *testing.T) {
	cases := map[string]Kind{
		"report.pdf":  KindPDF,
		"REPORT.PDF":  KindPDF,
		"notes.txt":   KindText,
		"readme.md":   KindText,
		"no-ext-file": KindText,
	}
	for name, want := range cases {
		if got := DetectKind(name); got != want {
			t.Errorf("DetectKind(%q) = %q, want %q", name, got, want)
		}
	}
}

func TestProcessText(t *testing.T) {
	svc := newService()
	res, err := svc.Process([]byte("First sentence here.\n\nSecond sentence follows."), "notes.txt", KindText)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if len(res.Chunks) == 0 {
		t.Fatal("no chunks produced")
	}
	for i, c := range res.Chunks {
		if c.Source() != "notes.txt" {
			t.Errorf("chunk %d source = %q", i, c.Source())
		}
	}
	if res.Summary == "" {
		t.Error("summary is empty")
	}
}

func TestProcessEmptyTextIsInvalidInput(t *testing.T) {
	svc := newService()
	for _, data := range [][]byte{nil, []byte(""), []byte("  \n\t \n ")} {
		_, err := svc.Process(data, "empty.txt", KindText)
		if !errors.Is(err, domain.ErrInvalidInput) {
			t.Errorf("Process(%q) err = %v, want ErrInvalidInput", data, err)
		}
	}
}

func TestProcessInvalidPDFIsParseError(t *testing.T) {
	svc := newService()
	_, err := svc.Process([]byte("this is definitely not a pdf"), "fake.pdf", KindPDF)
	if !errors.Is(err, domain.ErrParse) {
		t.Errorf("err = %v, want ErrParse", err)
	}
}

func TestProcessUnknownKind(t *testing.T) {
	svc := newService()
	_, err := svc.Process([]byte("content"), "doc", Kind("docx"))
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("err = %v, want ErrInvalidInput", err)
	}
}

func TestProcessDropsInvalidUTF8(t *testing.T) {
	svc := newService()
	data := append([]byte("valid text "), 0xff, 0xfe)
	res, err := svc.Process(data, "bin.txt", KindText)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if got := res.Chunks[0].Text; got != "valid text" {
		t.Errorf("chunk text = %q, want invalid bytes stripped", got)
	}
}
