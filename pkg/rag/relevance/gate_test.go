package relevance

import (
	"io"
	"log"
	"strings"
	"testing"

	"docchat-be/pkg/vectorindex"
)

func newTestGate() *Gate {
	return NewGate(0.65, 1, 200, log.New(io.Discard, "", 0))
}

func scoredResult(score float64, textLen int) vectorindex.Result {
	return vectorindex.Result{
		Text:   strings.Repeat("a", textLen),
		Score:  score,
		Scored: true,
	}
}

func contextOf(results []vectorindex.Result) string {
	texts := make([]string, len(results))
	for i, r := range results {
		texts[i] = r.Text
	}
	return strings.Join(texts, "\n\n")
}

func TestRejectsWhenNoDocuments(t *testing.T) {
	v := newTestGate().Evaluate(nil, "")

	if v.Accepted {
		t.Fatal("expected rejection")
	}
	if v.Reason != "No documents retrieved" {
		t.Errorf("unexpected reason: %q", v.Reason)
	}
}

func TestRejectsLowMeanScore(t *testing.T) {
	results := []vectorindex.Result{
		scoredResult(0.50, 300),
		scoredResult(0.40, 300),
	}

	v := newTestGate().Evaluate(results, contextOf(results))
	if v.Accepted {
		t.Fatal("expected rejection")
	}
	if v.Reason != "Low relevance score (0.45 < 0.65)" {
		t.Errorf("unexpected reason: %q", v.Reason)
	}
}

func TestRejectsTooFewRelevantDocs(t *testing.T) {
	// Mean passes but no single chunk clears the threshold.
	g := NewGate(0.65, 2, 200, log.New(io.Discard, "", 0))
	results := []vectorindex.Result{
		scoredResult(0.90, 300),
		scoredResult(0.50, 300),
	}

	v := g.Evaluate(results, contextOf(results))
	if v.Accepted {
		t.Fatal("expected rejection")
	}
	if v.Reason != "Too few relevant documents (1 < 2)" {
		t.Errorf("unexpected reason: %q", v.Reason)
	}
}

func TestRejectsShortContext(t *testing.T) {
	results := []vectorindex.Result{scoredResult(0.90, 150)}

	v := newTestGate().Evaluate(results, contextOf(results))
	if v.Accepted {
		t.Fatal("expected rejection")
	}
	if v.Reason != "Insufficient context (150 < 200 chars)" {
		t.Errorf("unexpected reason: %q", v.Reason)
	}
}

func TestContextLengthIgnoresPaddingWhitespace(t *testing.T) {
	// 150 visible chars padded with whitespace past the 200 threshold.
	padded := strings.Repeat("a", 150) + strings.Repeat(" \n\t", 40)
	results := []vectorindex.Result{
		{Text: padded, Score: 0.90, Scored: true},
	}

	v := newTestGate().Evaluate(results, padded)
	if v.Accepted {
		t.Fatal("whitespace padding must not satisfy the context length check")
	}
	if v.Reason != "Insufficient context (150 < 200 chars)" {
		t.Errorf("unexpected reason: %q", v.Reason)
	}
}

func TestAcceptedReasonReportsTrimmedLength(t *testing.T) {
	text := strings.Repeat("a", 250)
	results := []vectorindex.Result{
		{Text: text, Score: 0.90, Scored: true},
	}

	v := newTestGate().Evaluate(results, "  "+text+"  \n")
	if !v.Accepted {
		t.Fatalf("expected acceptance, got %q", v.Reason)
	}
	if v.Reason != "Relevant (score: 0.90, docs: 1, length: 250)" {
		t.Errorf("unexpected reason: %q", v.Reason)
	}
}

func TestAcceptsRelevantResults(t *testing.T) {
	results := []vectorindex.Result{
		scoredResult(0.80, 150),
		scoredResult(0.70, 150),
	}

	v := newTestGate().Evaluate(results, contextOf(results))
	if !v.Accepted {
		t.Fatalf("expected acceptance, got %q", v.Reason)
	}
	if v.Reason != "Relevant (score: 0.75, docs: 2, length: 302)" {
		t.Errorf("unexpected reason: %q", v.Reason)
	}
}

func TestUnscoredChunksPassScoreChecks(t *testing.T) {
	results := []vectorindex.Result{
		{Text: strings.Repeat("a", 300), Scored: false},
	}

	v := newTestGate().Evaluate(results, contextOf(results))
	if !v.Accepted {
		t.Fatalf("expected acceptance for unscored chunks, got %q", v.Reason)
	}
	if !strings.Contains(v.Reason, "score: n/a") {
		t.Errorf("expected n/a score in reason, got %q", v.Reason)
	}
}

func TestChecksShortCircuitInOrder(t *testing.T) {
	// Low score and short context together report the score failure.
	results := []vectorindex.Result{scoredResult(0.10, 50)}

	v := newTestGate().Evaluate(results, contextOf(results))
	if !strings.HasPrefix(v.Reason, "Low relevance score") {
		t.Errorf("expected score check to fire first, got %q", v.Reason)
	}
}
