package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Chunker.ChunkSize != 1000 || cfg.Chunker.Overlap != 200 {
		t.Errorf("chunker defaults = %d/%d", cfg.Chunker.ChunkSize, cfg.Chunker.Overlap)
	}
	if cfg.Index.Metric != "cosine" || cfg.Index.Path != "data/index.gob" {
		t.Errorf("index defaults = %q %q", cfg.Index.Metric, cfg.Index.Path)
	}
	if cfg.Embedder.Type != "local" || cfg.Embedder.Dimension != 256 {
		t.Errorf("embedder defaults = %q/%d", cfg.Embedder.Type, cfg.Embedder.Dimension)
	}
	if cfg.Server.Addr != ":8000" {
		t.Errorf("server addr = %q", cfg.Server.Addr)
	}
}

func TestLoadAppliesPartialDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	raw := []byte("chunker:\n  chunk_size: 500\nindex:\n  metric: euclidean\nproviders:\n  gemini: {}\n")
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Chunker.ChunkSize != 500 {
		t.Errorf("chunk size = %d, want 500", cfg.Chunker.ChunkSize)
	}
	if cfg.Chunker.Overlap != 200 {
		t.Errorf("overlap default = %d, want 200", cfg.Chunker.Overlap)
	}
	if cfg.Index.Metric != "euclidean" {
		t.Errorf("metric = %q", cfg.Index.Metric)
	}
	if cfg.Providers.Gemini == nil || cfg.Providers.Gemini.APIKeyEnv != "GEMINI_API_KEY" {
		t.Errorf("gemini defaults not applied: %+v", cfg.Providers.Gemini)
	}
	if cfg.Providers.Gemini.Model != "gemini-flash-latest" {
		t.Errorf("gemini model = %q", cfg.Providers.Gemini.Model)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")
	want := defaultConfig()
	want.Server.Addr = ":9090"
	want.Index.Path = "custom/index.gob"

	if err := Save(path, want); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Server.Addr != ":9090" || got.Index.Path != "custom/index.gob" {
		t.Errorf("round trip lost values: %+v", got)
	}
}

func TestLoadMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("chunker: [not: a map"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected an error for malformed yaml")
	}
}
