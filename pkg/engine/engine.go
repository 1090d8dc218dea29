package engine

import (
	"context"

	"docchat-be/pkg/rag/history"
)

// ChatEngine answers questions within a session and manages that session's
// conversation history. Implementations decide how answers are produced.
type ChatEngine interface {
	Answer(ctx context.Context, sessionID, question string) (string, error)
	GetHistory(sessionID string) []history.Turn
	ClearSession(sessionID string)
}
