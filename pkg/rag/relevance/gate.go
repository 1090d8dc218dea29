package relevance

import (
	"fmt"
	"log"
	"strings"

	"docchat-be/pkg/vectorindex"
)

// Verdict is the gate's decision on whether retrieved chunks are relevant
// enough for a grounded answer.
type Verdict struct {
	Accepted bool
	Reason   string
}

// Gate decides between a grounded answer and a fallback by running ordered
// checks over the retrieved chunks: any documents at all, mean similarity,
// count of individually relevant documents, and total context length. The
// first failing check wins.
type Gate struct {
	SimilarityThreshold float64
	MinRelevantDocs     int
	MinContextLength    int

	logger *log.Logger
}

func NewGate(similarityThreshold float64, minRelevantDocs, minContextLength int, logger *log.Logger) *Gate {
	return &Gate{
		SimilarityThreshold: similarityThreshold,
		MinRelevantDocs:     minRelevantDocs,
		MinContextLength:    minContextLength,
		logger:              logger,
	}
}

// Evaluate runs the checks over the results and the assembled context text.
func (g *Gate) Evaluate(results []vectorindex.Result, contextText string) Verdict {
	if len(results) == 0 {
		return g.reject("No documents retrieved")
	}

	meanScore, scored := meanSimilarity(results)
	if scored > 0 && meanScore < g.SimilarityThreshold {
		return g.reject(fmt.Sprintf("Low relevance score (%.2f < %.2f)", meanScore, g.SimilarityThreshold))
	}

	relevant := 0
	for _, r := range results {
		// Chunks without a score cannot be ruled out individually.
		if !r.Scored || r.Score >= g.SimilarityThreshold {
			relevant++
		}
	}
	if relevant < g.MinRelevantDocs {
		return g.reject(fmt.Sprintf("Too few relevant documents (%d < %d)", relevant, g.MinRelevantDocs))
	}

	contextLength := len(strings.TrimSpace(contextText))
	if contextLength < g.MinContextLength {
		return g.reject(fmt.Sprintf("Insufficient context (%d < %d chars)", contextLength, g.MinContextLength))
	}

	score := "n/a"
	if scored > 0 {
		score = fmt.Sprintf("%.2f", meanScore)
	}

	verdict := Verdict{
		Accepted: true,
		Reason:   fmt.Sprintf("Relevant (score: %s, docs: %d, length: %d)", score, relevant, contextLength),
	}
	g.logger.Printf("[RELEVANCE] accepted: %s", verdict.Reason)

	return verdict
}

func (g *Gate) reject(reason string) Verdict {
	g.logger.Printf("[RELEVANCE] rejected: %s", reason)
	return Verdict{Accepted: false, Reason: reason}
}

// meanSimilarity averages only chunks that carry a score. Unscored chunks
// are excluded from the denominator so they neither drag the mean down nor
// prop it up; they are judged by the per-document check alone.
func meanSimilarity(results []vectorindex.Result) (float64, int) {
	sum := 0.0
	scored := 0
	for _, r := range results {
		if r.Scored {
			sum += r.Score
			scored++
		}
	}
	if scored == 0 {
		return 0, 0
	}
	return sum / float64(scored), scored
}
