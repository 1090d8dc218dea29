package vectorindex

import "context"

// Record is one chunk of document text with its embedding and provenance.
type Record struct {
	ID     string
	Text   string
	Vector []float32
	Source string
	Page   int
}

// Result is a similarity-search hit. Scored is false when the backend
// cannot attach a similarity score to the hit.
type Result struct {
	Text   string
	Source string
	Page   int
	Score  float64
	Scored bool
}

// Index is the vector store collaborator. Partitions are named collections
// of records; a partition name is deterministic per chat session.
type Index interface {
	// GetOrCreate ensures the named partition exists. Idempotent.
	GetOrCreate(ctx context.Context, name string) error

	// Add appends records to the named partition in a single atomic write.
	Add(ctx context.Context, name string, records []Record) error

	// Search returns up to k records of the named partition ordered by
	// descending similarity to the query vector. An unknown or empty
	// partition yields an empty result, not an error.
	Search(ctx context.Context, name string, vector []float32, k int) ([]Result, error)

	// Delete removes the named partition and all its records. Idempotent.
	Delete(ctx context.Context, name string) error

	Close() error
}
