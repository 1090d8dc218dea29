package memory

import (
	"context"
	"math"
	"sort"
	"sync"

	"docchat-be/pkg/vectorindex"
)

// Store is an in-memory vector index using brute-force cosine similarity.
// Suitable for tests and single-process deployments without Postgres.
type Store struct {
	mu         sync.RWMutex
	partitions map[string][]vectorindex.Record
}

var _ vectorindex.Index = &Store{}

func NewStore() *Store {
	return &Store{
		partitions: make(map[string][]vectorindex.Record),
	}
}

func (s *Store) GetOrCreate(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.partitions[name]; !ok {
		s.partitions[name] = nil
	}
	return nil
}

func (s *Store) Add(ctx context.Context, name string, records []vectorindex.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.partitions[name] = append(s.partitions[name], records...)
	return nil
}

func (s *Store) Search(ctx context.Context, name string, vector []float32, k int) ([]vectorindex.Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records, ok := s.partitions[name]
	if !ok || len(records) == 0 {
		return nil, nil
	}
	if k <= 0 {
		k = 5
	}

	results := make([]vectorindex.Result, 0, len(records))
	for _, rec := range records {
		results = append(results, vectorindex.Result{
			Text:   rec.Text,
			Source: rec.Source,
			Page:   rec.Page,
			Score:  cosineSimilarity(rec.Vector, vector),
			Scored: true,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if k > len(results) {
		k = len(results)
	}
	return results[:k], nil
}

func (s *Store) Delete(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.partitions, name)
	return nil
}

func (s *Store) Close() error {
	return nil
}

func cosineSimilarity(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}

	var dot, magA, magB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		magA += float64(a[i]) * float64(a[i])
		magB += float64(b[i]) * float64(b[i])
	}
	if magA == 0 || magB == 0 {
		return 0
	}
	return dot / (math.Sqrt(magA) * math.Sqrt(magB))
}
