package response

import (
	"context"
	"log"
	"strings"

	"docchat-be/pkg/llm"
	"docchat-be/pkg/rag/history"
	"docchat-be/pkg/rag/prompt"
)

// Generator produces the final answer text, either grounded in retrieved
// document context or from general knowledge.
type Generator struct {
	llmProvider llm.LLMProvider
	builder     *prompt.Builder
	temperature float64
	maxTokens   int
	logger      *log.Logger
}

func NewGenerator(llmProvider llm.LLMProvider, builder *prompt.Builder, temperature float64, maxTokens int, logger *log.Logger) *Generator {
	return &Generator{
		llmProvider: llmProvider,
		builder:     builder,
		temperature: temperature,
		maxTokens:   maxTokens,
		logger:      logger,
	}
}

// Grounded answers the question from the retrieved context.
func (g *Generator) Grounded(ctx context.Context, question, contextText string, turns []history.Turn) (string, error) {
	messages := g.builder.GroundedMessages(question, contextText, turns)
	g.logger.Printf("[GENERATE] grounded answer, context=%d chars", len(contextText))
	return g.chat(ctx, messages)
}

// Fallback answers the question without document context.
func (g *Generator) Fallback(ctx context.Context, question string, turns []history.Turn) (string, error) {
	messages := g.builder.FallbackMessages(question, turns)
	g.logger.Printf("[GENERATE] fallback answer")
	return g.chat(ctx, messages)
}

func (g *Generator) chat(ctx context.Context, messages []llm.Message) (string, error) {
	opts := []llm.Option{llm.WithTemperature(g.temperature)}
	if g.maxTokens > 0 {
		opts = append(opts, llm.WithMaxTokens(g.maxTokens))
	}

	answer, err := g.llmProvider.Chat(ctx, messages, opts...)
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(answer), nil
}
