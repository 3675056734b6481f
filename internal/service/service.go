package service

import (
	"context"
	"fmt"
	"strings"

	"docqa/internal/domain"
	"docqa/internal/generation"
	"docqa/internal/index"
	"docqa/internal/ingest"
)

// Service composes the document QA pipeline: ingestion feeds the vector
// index, queries retrieve from it and route the context to a generation
// backend. All collaborators are injected at construction.
type Service struct {
	ingest *ingest.Service
	index  *index.Index
	router *generation.Router
}

// New creates the service.
func New(ing *ingest.Service, ix *index.Index, router *generation.Router) *Service {
	return &Service{ingest: ing, index: ix, router: router}
}

// IngestResult reports one completed ingestion.
type IngestResult struct {
	ChunksIndexed int
	Summary       string
}

// Ingest decodes, chunks, embeds, and indexes one uploaded document.
// The index is persisted before this returns; a failure at any stage
// leaves previously committed documents untouched.
func (s *Service) Ingest(ctx context.Context, data []byte, sourceID string, kind ingest.Kind) (*IngestResult, error) {
	if sourceID == "" {
		return nil, fmt.Errorf("%w: missing source identifier", domain.ErrInvalidInput)
	}
	res, err := s.ingest.Process(data, sourceID, kind)
	if err != nil {
		return nil, err
	}
	if err := s.index.Add(ctx, res.Chunks); err != nil {
		return nil, err
	}
	return &IngestResult{ChunksIndexed: len(res.Chunks), Summary: res.Summary}, nil
}

// Query retrieves the topK nearest chunks and asks the preferred provider
// to answer from them. Retrieval failures abort; generation failures
// degrade into the answer text, so the retrieved sources always come back.
func (s *Service) Query(ctx context.Context, question string, topK int, preferred domain.Provider) (*domain.Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, fmt.Errorf("%w: empty question", domain.ErrInvalidInput)
	}

	results, err := s.index.Search(ctx, question, topK)
	if err != nil {
		return nil, err
	}
	sources := make([]domain.Chunk, len(results))
	for i, r := range results {
		sources[i] = r.Chunk
	}

	text := s.router.Answer(ctx, question, sources, preferred)
	return &domain.Answer{Text: text, Sources: sources}, nil
}
