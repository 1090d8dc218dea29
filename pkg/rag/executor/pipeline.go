package executor

import (
	"context"
	"log"
	"strings"

	"docchat-be/pkg/rag/citation"
	"docchat-be/pkg/rag/history"
	"docchat-be/pkg/rag/query"
	"docchat-be/pkg/rag/relevance"
	"docchat-be/pkg/rag/response"
	"docchat-be/pkg/rag/search"
	"docchat-be/pkg/rag/session"
	"docchat-be/pkg/vectorindex"
)

const apologyAnswer = "I'm sorry, I'm having trouble answering right now. Please try again in a moment."

// Result is the pipeline's answer plus how it was produced.
type Result struct {
	Answer    string
	Grounded  bool
	Verdict   relevance.Verdict
	Citations []citation.Citation
}

// Pipeline runs one question through the full answer flow: contextualize,
// retrieve, gate, then generate a grounded or fallback answer. Any collaborator
// failure degrades to the fallback path rather than surfacing an error.
type Pipeline struct {
	registry       *session.Registry
	history        *history.Store
	contextualizer *query.Contextualizer
	retriever      *search.Retriever
	gate           *relevance.Gate
	generator      *response.Generator
	logger         *log.Logger
}

func NewPipeline(
	registry *session.Registry,
	historyStore *history.Store,
	contextualizer *query.Contextualizer,
	retriever *search.Retriever,
	gate *relevance.Gate,
	generator *response.Generator,
	logger *log.Logger,
) *Pipeline {
	return &Pipeline{
		registry:       registry,
		history:        historyStore,
		contextualizer: contextualizer,
		retriever:      retriever,
		gate:           gate,
		generator:      generator,
		logger:         logger,
	}
}

// Answer produces the assistant's reply for the session's question and
// records the exchange in the session history.
func (p *Pipeline) Answer(ctx context.Context, sessionID, question string) Result {
	unlock := p.registry.LockSession(sessionID)
	defer unlock()

	turns := p.history.Get(sessionID)

	var result Result
	if p.registry.HasPartition(sessionID) {
		result = p.answerWithDocuments(ctx, sessionID, question, turns)
	} else {
		p.logger.Printf("[PIPELINE] session %s has no documents, falling back", sessionID)
		result = p.fallback(ctx, question, turns, relevance.Verdict{Reason: "No documents ingested"})
	}

	p.record(sessionID, question, result.Answer)

	return result
}

func (p *Pipeline) answerWithDocuments(ctx context.Context, sessionID, question string, turns []history.Turn) Result {
	retrievalQuestion, err := p.contextualizer.Rewrite(ctx, question, turns)
	if err != nil {
		// A failed rewrite is recoverable: retrieve with the raw question.
		p.logger.Printf("[PIPELINE] contextualize failed, using original question: %v", err)
		retrievalQuestion = question
	}

	results, err := p.retriever.Retrieve(ctx, p.registry.Partition(sessionID), retrievalQuestion)
	if err != nil {
		p.logger.Printf("[PIPELINE] retrieval failed, falling back: %v", err)
		return p.fallback(ctx, question, turns, relevance.Verdict{Reason: "Retrieval failed"})
	}

	contextText := assembleContext(results)
	verdict := p.gate.Evaluate(results, contextText)
	if !verdict.Accepted {
		return p.fallback(ctx, question, turns, verdict)
	}

	answer, err := p.generator.Grounded(ctx, question, contextText, turns)
	if err != nil {
		p.logger.Printf("[PIPELINE] grounded generation failed, falling back: %v", err)
		return p.fallback(ctx, question, turns, relevance.Verdict{Reason: "Generation failed"})
	}

	citations := citation.Collect(results)
	if sources := citation.Format(citations); sources != "" {
		answer += "\n\n**Sources:** " + sources
	}

	return Result{
		Answer:    answer,
		Grounded:  true,
		Verdict:   verdict,
		Citations: citations,
	}
}

func (p *Pipeline) fallback(ctx context.Context, question string, turns []history.Turn, verdict relevance.Verdict) Result {
	answer, err := p.generator.Fallback(ctx, question, turns)
	if err != nil {
		p.logger.Printf("[PIPELINE] fallback generation failed: %v", err)
		answer = apologyAnswer
	}

	return Result{Answer: answer, Verdict: verdict}
}

func (p *Pipeline) record(sessionID, question, answer string) {
	if err := p.history.Append(sessionID, history.RoleUser, question); err != nil {
		p.logger.Printf("[PIPELINE] failed to record user turn: %v", err)
		return
	}
	if err := p.history.Append(sessionID, history.RoleAssistant, answer); err != nil {
		p.logger.Printf("[PIPELINE] failed to record assistant turn: %v", err)
	}
}

func assembleContext(results []vectorindex.Result) string {
	texts := make([]string, 0, len(results))
	for _, r := range results {
		texts = append(texts, r.Text)
	}
	return strings.Join(texts, "\n\n")
}
