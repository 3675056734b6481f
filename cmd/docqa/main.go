package main

import (
	"flag"
	"log"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"

	"docqa/internal/chunker"
	"docqa/internal/config"
	"docqa/internal/embedding"
	"docqa/internal/embedding/local"
	openaiemb "docqa/internal/embedding/openai"
	"docqa/internal/generation"
	"docqa/internal/generation/providers/gemini"
	openaigen "docqa/internal/generation/providers/openai"
	"docqa/internal/index"
	"docqa/internal/ingest"
	"docqa/internal/server"
	"docqa/internal/service"
	"docqa/internal/summarizer"
)

func main() {
	_ = godotenv.Load()

	var cfgPath string
	flag.StringVar(&cfgPath, "config", "", "Path to YAML config file (optional; uses ./config.yaml or ~/.config/docqa/config.yaml if not provided)")
	flag.Parse()

	var cfg *config.AppConfig
	var err error
	if cfgPath == "" {
		cfg, _, err = config.LoadDefault()
	} else {
		cfg, err = config.Load(cfgPath)
	}
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	// Assemble components
	var emb embedding.Embedder
	switch cfg.Embedder.Type {
	case "local", "":
		emb = local.New(cfg.Embedder.Dimension)
	case "openai":
		if cfg.Embedder.OpenAI == nil {
			log.Fatalf("openai embedder config missing")
		}
		client, err := openaiemb.New(openaiemb.Config{
			APIKeyEnv: cfg.Embedder.OpenAI.APIKeyEnv,
			Model:     cfg.Embedder.OpenAI.Model,
			Timeout:   time.Duration(cfg.Embedder.OpenAI.TimeoutSecs) * time.Second,
		})
		if err != nil {
			log.Fatalf("openai embedder init failed: %v", err)
		}
		emb = client
	default:
		log.Fatalf("unknown embedder: %s", cfg.Embedder.Type)
	}

	metric, err := index.ParseMetric(cfg.Index.Metric)
	if err != nil {
		log.Fatalf("invalid index config: %v", err)
	}
	ix := index.New(cfg.Index.Path, metric, emb)
	if err := ix.Load(); err != nil {
		log.Fatalf("failed to load index from %s: %v", cfg.Index.Path, err)
	}
	if ix.Size() > 0 {
		logger.Info("index loaded", "path", cfg.Index.Path, "chunks", ix.Size(), "dimension", ix.Dimension())
	}

	var gens []generation.Generator
	if cfg.Providers.Gemini != nil {
		g, err := gemini.New(gemini.Config{
			BaseURL:   cfg.Providers.Gemini.BaseURL,
			APIKeyEnv: cfg.Providers.Gemini.APIKeyEnv,
			Model:     cfg.Providers.Gemini.Model,
			Timeout:   time.Duration(cfg.Providers.Gemini.TimeoutSecs) * time.Second,
		})
		if err != nil {
			logger.Warn("gemini provider disabled", "reason", err)
		} else {
			gens = append(gens, g)
		}
	}
	if cfg.Providers.OpenAI != nil {
		g, err := openaigen.New(openaigen.Config{
			APIKeyEnv: cfg.Providers.OpenAI.APIKeyEnv,
			Model:     cfg.Providers.OpenAI.Model,
			Timeout:   time.Duration(cfg.Providers.OpenAI.TimeoutSecs) * time.Second,
		})
		if err != nil {
			logger.Warn("openai provider disabled", "reason", err)
		} else {
			gens = append(gens, g)
		}
	}
	router := generation.NewRouter(gens...)
	if len(router.Providers()) == 0 {
		logger.Warn("no generation providers active; queries will return a configuration error")
	}

	ing := ingest.New(chunker.New(cfg.Chunker.ChunkSize, cfg.Chunker.Overlap), summarizer.New(), cfg.Summary.MaxSentences)
	svc := service.New(ing, ix, router)
	srv := server.New(svc, logger)

	logger.Info("listening", "addr", cfg.Server.Addr)
	if err := http.ListenAndServe(cfg.Server.Addr, srv); err != nil {
		log.Fatal(err)
	}
}
