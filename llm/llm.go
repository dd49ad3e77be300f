// Package llm provides language-model backed summarization for discovery
// runs. The default client speaks the OpenAI chat completion API, which
// also covers Ollama and other compatible local servers via the base URL.
package llm

import (
	"context"
	"errors"
	"fmt"
	"os"

	openai "github.com/sashabaranov/go-openai"
)

var ErrEmptyResponse = errors.New("no response")

// Summarizer generates free-text analysis from a prompt. Agents depend on
// this interface so tests can substitute canned output.
type Summarizer interface {
	Summarize(ctx context.Context, prompt string) (string, error)
}

// Client is an OpenAI-compatible chat completion client.
type Client struct {
	client      *openai.Client
	model       string
	temperature float32
}

var _ Summarizer = (*Client)(nil)

type options struct {
	apiKey      string
	baseURL     string
	model       string
	temperature float32
}

// Option configures a Client.
type Option func(*options)

// WithAPIKey sets the API key. Defaults to the OPENAI_API_KEY environment
// variable.
func WithAPIKey(apiKey string) Option {
	return func(o *options) {
		o.apiKey = apiKey
	}
}

// WithBaseURL points the client at a different OpenAI-compatible endpoint,
// such as an Ollama server (http://localhost:11434/v1).
func WithBaseURL(baseURL string) Option {
	return func(o *options) {
		o.baseURL = baseURL
	}
}

// WithModel sets the model name.
func WithModel(model string) Option {
	return func(o *options) {
		o.model = model
	}
}

// WithTemperature sets the sampling temperature.
func WithTemperature(temperature float32) Option {
	return func(o *options) {
		o.temperature = temperature
	}
}

// New creates a chat completion client.
func New(opts ...Option) (*Client, error) {
	o := &options{
		apiKey:      os.Getenv("OPENAI_API_KEY"),
		model:       openai.GPT4oMini,
		temperature: 0.2,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.apiKey == "" && o.baseURL == "" {
		return nil, errors.New("llm: API key not set, pass llm.WithAPIKey or export OPENAI_API_KEY")
	}

	config := openai.DefaultConfig(o.apiKey)
	if o.baseURL != "" {
		config.BaseURL = o.baseURL
	}
	return &Client{
		client:      openai.NewClientWithConfig(config),
		model:       o.model,
		temperature: o.temperature,
	}, nil
}

// Summarize sends the prompt as a single user message and returns the
// completion text.
func (c *Client) Summarize(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: c.temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("llm completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyResponse
	}
	return resp.Choices[0].Message.Content, nil
}

// Static is a Summarizer returning a fixed string, for offline runs and
// tests.
type Static string

// Summarize returns the fixed string.
func (s Static) Summarize(_ context.Context, _ string) (string, error) {
	return string(s), nil
}
