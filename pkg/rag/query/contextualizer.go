package query

import (
	"context"
	"log"
	"strings"

	"docchat-be/pkg/llm"
	"docchat-be/pkg/rag/history"
	"docchat-be/pkg/rag/prompt"
)

// Contextualizer rewrites follow-up questions into standalone ones so that
// retrieval works without the chat history.
type Contextualizer struct {
	llmProvider llm.LLMProvider
	builder     *prompt.Builder
	logger      *log.Logger
}

func NewContextualizer(llmProvider llm.LLMProvider, builder *prompt.Builder, logger *log.Logger) *Contextualizer {
	return &Contextualizer{
		llmProvider: llmProvider,
		builder:     builder,
		logger:      logger,
	}
}

// Rewrite returns the standalone form of the question. With no history there
// is nothing to resolve, so the question is returned as is without an LLM
// call.
func (c *Contextualizer) Rewrite(ctx context.Context, question string, turns []history.Turn) (string, error) {
	if len(turns) == 0 {
		return question, nil
	}

	messages := c.builder.ContextualizeMessages(question, turns)

	rewritten, err := c.llmProvider.Chat(ctx, messages, llm.WithTemperature(0.0))
	if err != nil {
		return "", err
	}

	rewritten = strings.TrimSpace(rewritten)
	if rewritten == "" {
		return question, nil
	}

	if rewritten != question {
		c.logger.Printf("[CONTEXTUALIZE] %q -> %q", question, rewritten)
	}

	return rewritten, nil
}
