package llm

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms"
)

// LangChainSummarizer adapts any langchaingo model to the Summarizer
// interface, so providers without a native client here can still drive
// the agents.
type LangChainSummarizer struct {
	Model llms.Model
}

var _ Summarizer = (*LangChainSummarizer)(nil)

// NewLangChainSummarizer wraps a langchaingo model.
func NewLangChainSummarizer(model llms.Model) *LangChainSummarizer {
	return &LangChainSummarizer{Model: model}
}

// Summarize generates a completion from the wrapped model.
func (l *LangChainSummarizer) Summarize(ctx context.Context, prompt string) (string, error) {
	out, err := llms.GenerateFromSinglePrompt(ctx, l.Model, prompt,
		llms.WithTemperature(0.2))
	if err != nil {
		return "", fmt.Errorf("langchain completion failed: %w", err)
	}
	if out == "" {
		return "", ErrEmptyResponse
	}
	return out, nil
}
