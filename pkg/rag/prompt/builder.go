package prompt

import (
	"fmt"

	"docchat-be/pkg/llm"
	"docchat-be/pkg/rag/history"
)

const (
	// ContextualizeSystemPrompt rewrites a follow-up question into a
	// standalone one using the chat history.
	ContextualizeSystemPrompt = `Given a chat history and the latest user question which might reference context in the chat history, formulate a standalone question which can be understood without the chat history. Do NOT answer the question, just reformulate it if needed and otherwise return it as is.`

	// GroundedSystemPrompt answers from retrieved document context while
	// allowing general knowledge to fill gaps.
	GroundedSystemPrompt = `You are a helpful assistant that answers questions based on the provided document context. Use the context below to answer the user's question. If the context is relevant, ground your answer in it and stay faithful to what the documents say. You may blend in general knowledge where it helps, but never contradict the documents.

Context:
%s`

	// FallbackSystemPrompt answers without document context.
	FallbackSystemPrompt = `You are a helpful, honest assistant. Answer the user's question directly using your general knowledge. If you are unsure or do not know the answer, say so plainly instead of guessing.`
)

// Builder assembles message lists for the language model calls made by the
// answer pipeline.
type Builder struct{}

func NewBuilder() *Builder {
	return &Builder{}
}

// ContextualizeMessages builds the rewrite request: system instruction, the
// prior turns, then the latest question.
func (b *Builder) ContextualizeMessages(question string, turns []history.Turn) []llm.Message {
	messages := make([]llm.Message, 0, len(turns)+2)
	messages = append(messages, llm.Message{Role: "system", Content: ContextualizeSystemPrompt})
	messages = append(messages, HistoryMessages(turns)...)
	messages = append(messages, llm.Message{Role: "user", Content: question})
	return messages
}

// GroundedMessages builds the document-grounded answer request. The retrieved
// context is embedded in the system prompt.
func (b *Builder) GroundedMessages(question, contextText string, turns []history.Turn) []llm.Message {
	messages := make([]llm.Message, 0, len(turns)+2)
	messages = append(messages, llm.Message{
		Role:    "system",
		Content: fmt.Sprintf(GroundedSystemPrompt, contextText),
	})
	messages = append(messages, HistoryMessages(turns)...)
	messages = append(messages, llm.Message{Role: "user", Content: question})
	return messages
}

// FallbackMessages builds the general-knowledge answer request.
func (b *Builder) FallbackMessages(question string, turns []history.Turn) []llm.Message {
	messages := make([]llm.Message, 0, len(turns)+2)
	messages = append(messages, llm.Message{Role: "system", Content: FallbackSystemPrompt})
	messages = append(messages, HistoryMessages(turns)...)
	messages = append(messages, llm.Message{Role: "user", Content: question})
	return messages
}

// HistoryMessages converts stored turns into chat messages, oldest first.
func HistoryMessages(turns []history.Turn) []llm.Message {
	messages := make([]llm.Message, 0, len(turns))
	for _, turn := range turns {
		messages = append(messages, llm.Message{Role: turn.Role, Content: turn.Text})
	}
	return messages
}
