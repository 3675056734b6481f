package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// OpenAIEmbedderConfig holds configuration for the OpenAI embedder.
type OpenAIEmbedderConfig struct {
	APIKeyEnv   string `yaml:"api_key_env"`
	Model       string `yaml:"model"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// EmbedderConfig selects and configures the text embedder implementation.
type EmbedderConfig struct {
	Type      string                `yaml:"type"`
	Dimension int                   `yaml:"dimension,omitempty"`
	OpenAI    *OpenAIEmbedderConfig `yaml:"openai,omitempty"`
}

// ChunkerConfig configures how documents are split into chunks.
type ChunkerConfig struct {
	ChunkSize int `yaml:"chunk_size"`
	Overlap   int `yaml:"overlap"`
}

// IndexConfig configures the persistent vector index.
type IndexConfig struct {
	Path   string `yaml:"path"`
	Metric string `yaml:"metric"`
}

// OpenAIProviderConfig configures the OpenAI generation backend.
type OpenAIProviderConfig struct {
	APIKeyEnv   string `yaml:"api_key_env"`
	Model       string `yaml:"model"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// GeminiProviderConfig configures the Gemini generation backend.
type GeminiProviderConfig struct {
	BaseURL     string `yaml:"base_url"`
	APIKeyEnv   string `yaml:"api_key_env"`
	Model       string `yaml:"model"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// ProvidersConfig lists the generation backends. A backend whose API key env
// is unset at startup is simply left out of the router.
type ProvidersConfig struct {
	Gemini *GeminiProviderConfig `yaml:"gemini,omitempty"`
	OpenAI *OpenAIProviderConfig `yaml:"openai,omitempty"`
}

// ServerConfig configures the HTTP transport.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// SummaryConfig configures the upload summary.
type SummaryConfig struct {
	MaxSentences int `yaml:"max_sentences"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Embedder  EmbedderConfig  `yaml:"embedder"`
	Chunker   ChunkerConfig   `yaml:"chunker"`
	Index     IndexConfig     `yaml:"index"`
	Providers ProvidersConfig `yaml:"providers"`
	Server    ServerConfig    `yaml:"server"`
	Summary   SummaryConfig   `yaml:"summary"`
}

// Load reads a config from a specified path. If the file does not exist, returns defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg := defaultConfig()
			return cfg, nil
		}
		return nil, err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyConfigDefaults(&cfg)
	return &cfg, nil
}

// LoadDefault tries ./config.yaml first, then ~/.config/docqa/config.yaml.
// If neither exists, it writes defaults to ~/.config/docqa/config.yaml and returns them.
func LoadDefault() (*AppConfig, string, error) {
	cwdPath := "config.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	userPath, err := defaultUserConfigPath()
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(userPath); err == nil {
		cfg, err := Load(userPath)
		return cfg, userPath, err
	}
	cfg := defaultConfig()
	if err := Save(userPath, cfg); err != nil {
		return nil, "", err
	}
	return cfg, userPath, nil
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func defaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "docqa", "config.yaml"), nil
}

func defaultConfig() *AppConfig {
	cfg := &AppConfig{
		Embedder: EmbedderConfig{Type: "local", Dimension: 256},
		Chunker:  ChunkerConfig{ChunkSize: 1000, Overlap: 200},
		Index:    IndexConfig{Path: "data/index.gob", Metric: "cosine"},
		Providers: ProvidersConfig{
			Gemini: &GeminiProviderConfig{},
			OpenAI: &OpenAIProviderConfig{},
		},
		Server:  ServerConfig{Addr: ":8000"},
		Summary: SummaryConfig{MaxSentences: 3},
	}
	applyConfigDefaults(cfg)
	return cfg
}

func applyConfigDefaults(cfg *AppConfig) {
	if cfg.Chunker.ChunkSize == 0 {
		cfg.Chunker.ChunkSize = 1000
	}
	if cfg.Chunker.Overlap == 0 && cfg.Chunker.ChunkSize > 200 {
		cfg.Chunker.Overlap = 200
	}
	if cfg.Index.Path == "" {
		cfg.Index.Path = "data/index.gob"
	}
	if cfg.Index.Metric == "" {
		cfg.Index.Metric = "cosine"
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8000"
	}
	if cfg.Summary.MaxSentences == 0 {
		cfg.Summary.MaxSentences = 3
	}
	if cfg.Embedder.Type == "" {
		cfg.Embedder.Type = "local"
	}
	if cfg.Embedder.Type == "local" && cfg.Embedder.Dimension == 0 {
		cfg.Embedder.Dimension = 256
	}
	if cfg.Embedder.Type == "openai" && cfg.Embedder.OpenAI != nil {
		if cfg.Embedder.OpenAI.APIKeyEnv == "" {
			cfg.Embedder.OpenAI.APIKeyEnv = "OPENAI_API_KEY"
		}
		if cfg.Embedder.OpenAI.Model == "" {
			cfg.Embedder.OpenAI.Model = "text-embedding-3-small"
		}
		if cfg.Embedder.OpenAI.TimeoutSecs == 0 {
			cfg.Embedder.OpenAI.TimeoutSecs = 30
		}
	}
	if cfg.Providers.Gemini != nil {
		if cfg.Providers.Gemini.BaseURL == "" {
			cfg.Providers.Gemini.BaseURL = "https://generativelanguage.googleapis.com/v1beta"
		}
		if cfg.Providers.Gemini.APIKeyEnv == "" {
			cfg.Providers.Gemini.APIKeyEnv = "GEMINI_API_KEY"
		}
		if cfg.Providers.Gemini.Model == "" {
			cfg.Providers.Gemini.Model = "gemini-flash-latest"
		}
		if cfg.Providers.Gemini.TimeoutSecs == 0 {
			cfg.Providers.Gemini.TimeoutSecs = 60
		}
	}
	if cfg.Providers.OpenAI != nil {
		if cfg.Providers.OpenAI.APIKeyEnv == "" {
			cfg.Providers.OpenAI.APIKeyEnv = "OPENAI_API_KEY"
		}
		if cfg.Providers.OpenAI.Model == "" {
			cfg.Providers.OpenAI.Model = "gpt-3.5-turbo"
		}
		if cfg.Providers.OpenAI.TimeoutSecs == 0 {
			cfg.Providers.OpenAI.TimeoutSecs = 60
		}
	}
}
