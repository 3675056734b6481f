package domain

// MetaSource is the metadata key carrying the originating document identifier.
// Every chunk produced by ingestion has it set.
const MetaSource = "source"

// Chunk is the atomic unit of retrieval: a bounded span of cleaned document
// text plus provenance metadata. Chunks are created during ingestion and are
// immutable afterwards.
type Chunk struct {
	Text     string
	Metadata map[string]string
}

// Source returns the originating document identifier, or "" if unset.
func (c Chunk) Source() string { return c.Metadata[MetaSource] }

// SearchResult is a retrieved chunk with its similarity score.
// Higher scores mean closer to the query regardless of metric.
type SearchResult struct {
	Chunk Chunk
	Score float64
}

// Answer is the outcome of a query: generated text plus the exact retrieval
// results the text was grounded in, in ranked order.
type Answer struct {
	Text    string
	Sources []Chunk
}

// Provider identifies a generation backend.
type Provider string

const (
	ProviderGemini Provider = "gemini"
	ProviderOpenAI Provider = "openai"
)

// ProviderPriority is the fixed fallback order used when the requested
// provider is not configured. Keeping it a constant list makes fallback
// reproducible across processes with the same configuration.
var ProviderPriority = []Provider{ProviderGemini, ProviderOpenAI}

// Valid reports whether p names a known provider.
func (p Provider) Valid() bool {
	for _, known := range ProviderPriority {
		if p == known {
			return true
		}
	}
	return false
}
