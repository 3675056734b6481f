package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"docqa/internal/domain"
)

// Client generates answers through the OpenAI chat completions API.
type Client struct {
	client *openai.Client
	model  string
}

// Config configures the OpenAI generation backend.
type Config struct {
	APIKeyEnv string
	Model     string
	Timeout   time.Duration
}

// New creates an OpenAI generation client, or an error if the API key env
// is unset so the caller can leave the provider out of the router.
func New(cfg Config) (*Client, error) {
	if cfg.APIKeyEnv == "" {
		cfg.APIKeyEnv = "OPENAI_API_KEY"
	}
	key := os.Getenv(cfg.APIKeyEnv)
	if key == "" {
		return nil, fmt.Errorf("missing API key in env %s", cfg.APIKeyEnv)
	}
	if cfg.Model == "" {
		cfg.Model = openai.GPT3Dot5Turbo
	}
	clientCfg := openai.DefaultConfig(key)
	if cfg.Timeout > 0 {
		clientCfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}
	return &Client{client: openai.NewClientWithConfig(clientCfg), model: cfg.Model}, nil
}

// Provider identifies this backend.
func (c *Client) Provider() domain.Provider { return domain.ProviderOpenAI }

// Generate sends the prompt as a single chat turn at temperature zero and
// returns the first choice's message content.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: 0,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("no completion choices returned")
	}
	return resp.Choices[0].Message.Content, nil
}
