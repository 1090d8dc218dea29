package rag

import (
	"context"
	"log"

	"docchat-be/pkg/rag/executor"
	"docchat-be/pkg/rag/history"
	"docchat-be/pkg/rag/ingest"
	"docchat-be/pkg/rag/session"
	"docchat-be/pkg/vectorindex"
)

// Engine is the document-aware chat engine. It answers through the retrieval
// pipeline and additionally manages each session's document corpus.
type Engine struct {
	pipeline *executor.Pipeline
	ingestor *ingest.Ingestor
	registry *session.Registry
	history  *history.Store
	index    vectorindex.Index
	logger   *log.Logger
}

func NewEngine(
	pipeline *executor.Pipeline,
	ingestor *ingest.Ingestor,
	registry *session.Registry,
	historyStore *history.Store,
	index vectorindex.Index,
	logger *log.Logger,
) *Engine {
	return &Engine{
		pipeline: pipeline,
		ingestor: ingestor,
		registry: registry,
		history:  historyStore,
		index:    index,
		logger:   logger,
	}
}

func (e *Engine) Answer(ctx context.Context, sessionID, question string) (string, error) {
	result := e.pipeline.Answer(ctx, sessionID, question)
	return result.Answer, nil
}

// AnswerDetailed exposes the full pipeline result for callers that report how
// an answer was produced.
func (e *Engine) AnswerDetailed(ctx context.Context, sessionID, question string) executor.Result {
	return e.pipeline.Answer(ctx, sessionID, question)
}

// Ingest adds uploaded documents to the session's corpus.
func (e *Engine) Ingest(ctx context.Context, sessionID string, files []ingest.File) ingest.Outcome {
	unlock := e.registry.LockSession(sessionID)
	defer unlock()

	return e.ingestor.Ingest(ctx, sessionID, files)
}

// HasDocuments reports whether the session has an ingested corpus.
func (e *Engine) HasDocuments(sessionID string) bool {
	return e.registry.HasPartition(sessionID)
}

func (e *Engine) GetHistory(sessionID string) []history.Turn {
	return e.history.Get(sessionID)
}

// ClearSession wipes the conversation but keeps the ingested documents, so
// the user can start a fresh conversation over the same corpus.
func (e *Engine) ClearSession(sessionID string) {
	unlock := e.registry.LockSession(sessionID)
	defer unlock()

	e.history.Clear(sessionID)
}

// DeleteSession removes the session entirely: history, partition registration,
// and the stored vectors. It reports whether a document partition existed.
func (e *Engine) DeleteSession(ctx context.Context, sessionID string) bool {
	unlock := e.registry.LockSession(sessionID)
	defer unlock()

	e.history.Clear(sessionID)

	if !e.registry.HasPartition(sessionID) {
		return false
	}

	partition := e.registry.Partition(sessionID)
	if err := e.index.Delete(ctx, partition); err != nil {
		e.logger.Printf("[SESSION] failed to drop partition %s: %v", partition, err)
	}
	e.registry.DeletePartition(sessionID)

	return true
}
