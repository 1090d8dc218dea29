package search

import (
	"context"
	"log"

	"docchat-be/pkg/embedding"
	"docchat-be/pkg/vectorindex"
)

// Retriever embeds a question and fetches the k nearest chunks from a
// session's partition.
type Retriever struct {
	embedder embedding.EmbeddingProvider
	index    vectorindex.Index
	k        int
	logger   *log.Logger
}

func NewRetriever(embedder embedding.EmbeddingProvider, index vectorindex.Index, k int, logger *log.Logger) *Retriever {
	if k <= 0 {
		k = 8
	}
	return &Retriever{
		embedder: embedder,
		index:    index,
		k:        k,
		logger:   logger,
	}
}

// Retrieve returns up to k chunks for the question. An empty partition name
// means the session has no documents, which yields no results rather than an
// error.
func (r *Retriever) Retrieve(ctx context.Context, partition, question string) ([]vectorindex.Result, error) {
	if partition == "" {
		return nil, nil
	}

	resp, err := r.embedder.Generate(ctx, question, embedding.TaskQuery)
	if err != nil {
		return nil, err
	}

	results, err := r.index.Search(ctx, partition, resp.Values, r.k)
	if err != nil {
		return nil, err
	}

	r.logger.Printf("[RETRIEVE] partition=%s k=%d hits=%d", partition, r.k, len(results))

	return results, nil
}
