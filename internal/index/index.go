package index

import (
	"context"
	"encoding/gob"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"docqa/internal/domain"
	"docqa/internal/embedding"
)

// Index is a persistent append-only collection of (vector, chunk) pairs
// supporting brute-force nearest-neighbor search. All mutation goes through
// Add under a single-writer lock; the durable snapshot is replaced
// atomically after every successful Add.
type Index struct {
	mu       sync.RWMutex
	path     string
	metric   Metric
	embedder embedding.Embedder

	dimension int
	chunks    []domain.Chunk
	vectors   [][]float32
}

// snapshot is the on-disk representation of an index.
type snapshot struct {
	Dimension int
	Metric    string
	Chunks    []domain.Chunk
	Vectors   [][]float32
}

// New creates an empty index persisted at path. Call Load to pick up a
// prior snapshot.
func New(path string, metric Metric, emb embedding.Embedder) *Index {
	return &Index{path: path, metric: metric, embedder: emb}
}

// Size returns the number of indexed chunks.
func (ix *Index) Size() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.chunks)
}

// Dimension returns the established vector dimensionality, 0 while empty.
func (ix *Index) Dimension() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return ix.dimension
}

// Load reconstructs in-memory state from the last durable snapshot. A
// missing snapshot is an empty index, not an error. A snapshot recorded
// under a different metric, or whose dimensionality contradicts the
// configured embedder, is rejected.
func (ix *Index) Load() error {
	snap, ok, err := readSnapshot(ix.path)
	if err != nil {
		return fmt.Errorf("loading index %s: %w", ix.path, err)
	}
	if !ok {
		return nil
	}
	if Metric(snap.Metric) != ix.metric {
		return fmt.Errorf("index %s was built with metric %q, configured %q: rebuild required", ix.path, snap.Metric, ix.metric)
	}
	if want := ix.embedder.Dimension(); want > 0 && snap.Dimension > 0 && want != snap.Dimension {
		return &domain.DimensionError{Want: want, Got: snap.Dimension}
	}
	ix.mu.Lock()
	defer ix.mu.Unlock()
	ix.dimension = snap.Dimension
	ix.chunks = snap.Chunks
	ix.vectors = snap.Vectors
	return nil
}

// Save writes the current state to the durable snapshot location. It takes
// the writer lock for the whole capture-and-write so it cannot race an Add
// over the shared temp file or rename a stale snapshot over a fresh one.
func (ix *Index) Save() error {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	snap := snapshot{
		Dimension: ix.dimension,
		Metric:    string(ix.metric),
		Chunks:    ix.chunks,
		Vectors:   ix.vectors,
	}
	return writeSnapshot(ix.path, &snap)
}

// Add embeds all chunks in one batch, appends the pairs, and persists the
// snapshot. The call is all-or-nothing: an embedding failure, a dimension
// mismatch, or a failed snapshot write leaves both memory and disk at the
// prior committed state. Empty input is a no-op. The first successful Add
// on an empty index establishes its dimensionality.
func (ix *Index) Add(ctx context.Context, chunks []domain.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}
	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}
	vectors, err := ix.embedder.Embed(ctx, texts)
	if err != nil {
		if !errors.Is(err, domain.ErrEmbedding) {
			err = fmt.Errorf("%w: %v", domain.ErrEmbedding, err)
		}
		return err
	}
	if len(vectors) != len(chunks) {
		return fmt.Errorf("%w: got %d vectors for %d chunks", domain.ErrEmbedding, len(vectors), len(chunks))
	}

	ix.mu.Lock()
	defer ix.mu.Unlock()

	dim := ix.dimension
	if dim == 0 {
		dim = len(vectors[0])
	}
	for _, v := range vectors {
		if len(v) != dim {
			return &domain.DimensionError{Want: dim, Got: len(v)}
		}
	}

	// Three-index appends force fresh backing arrays, so concurrent
	// searches holding the old slices never observe a partial append.
	newChunks := append(ix.chunks[:len(ix.chunks):len(ix.chunks)], chunks...)
	newVectors := append(ix.vectors[:len(ix.vectors):len(ix.vectors)], vectors...)

	snap := snapshot{Dimension: dim, Metric: string(ix.metric), Chunks: newChunks, Vectors: newVectors}
	if err := writeSnapshot(ix.path, &snap); err != nil {
		return fmt.Errorf("persisting index %s: %w", ix.path, err)
	}

	ix.dimension = dim
	ix.chunks = newChunks
	ix.vectors = newVectors
	return nil
}

// Search embeds the query and returns up to k chunks ranked best-first by
// the index metric. An empty index yields an empty result, never an error.
func (ix *Index) Search(ctx context.Context, query string, k int) ([]domain.SearchResult, error) {
	if k <= 0 {
		k = 3
	}
	ix.mu.RLock()
	chunks, vectors, dim := ix.chunks, ix.vectors, ix.dimension
	ix.mu.RUnlock()
	if len(chunks) == 0 {
		return nil, nil
	}

	qvs, err := ix.embedder.Embed(ctx, []string{query})
	if err != nil {
		if !errors.Is(err, domain.ErrEmbedding) {
			err = fmt.Errorf("%w: %v", domain.ErrEmbedding, err)
		}
		return nil, err
	}
	if len(qvs) != 1 {
		return nil, fmt.Errorf("%w: got %d vectors for query", domain.ErrEmbedding, len(qvs))
	}
	qv := qvs[0]
	if len(qv) != dim {
		return nil, &domain.DimensionError{Want: dim, Got: len(qv)}
	}

	results := make([]domain.SearchResult, len(chunks))
	for i := range chunks {
		results[i] = domain.SearchResult{Chunk: chunks[i], Score: ix.metric.score(qv, vectors[i])}
	}
	sort.SliceStable(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	if k < len(results) {
		results = results[:k]
	}
	return results, nil
}

// readSnapshot reads a snapshot from path. The boolean result makes "no
// prior snapshot" a first-class case instead of an error path.
func readSnapshot(path string) (*snapshot, bool, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	defer file.Close()

	var snap snapshot
	if err := gob.NewDecoder(file).Decode(&snap); err != nil {
		return nil, false, err
	}
	return &snap, true, nil
}

// writeSnapshot atomically replaces the snapshot at path: write to a
// temporary file, then rename, so a crash mid-save never corrupts the
// previously readable snapshot.
func writeSnapshot(path string, snap *snapshot) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	tmp := path + ".tmp"
	file, err := os.Create(tmp)
	if err != nil {
		return err
	}
	if err := gob.NewEncoder(file).Encode(snap); err != nil {
		file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
