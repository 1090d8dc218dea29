package session

import (
	"sync"

	"github.com/patrickmn/go-cache"
)

const partitionPrefix = "session_"

// PartitionName returns the deterministic vector partition name for a session.
func PartitionName(sessionID string) string {
	return partitionPrefix + sessionID
}

// Registry tracks which sessions have an ingested document partition and
// serializes operations per session. Partition names are deterministic, so a
// session that re-ingests documents keeps writing into the same partition.
type Registry struct {
	partitions *cache.Cache

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewRegistry() *Registry {
	return &Registry{
		partitions: cache.New(cache.NoExpiration, cache.NoExpiration),
		locks:      make(map[string]*sync.Mutex),
	}
}

// GetOrCreatePartition marks the session as having a partition and returns
// its name. Calling it again for the same session returns the same name.
func (r *Registry) GetOrCreatePartition(sessionID string) string {
	name := PartitionName(sessionID)
	r.partitions.Set(sessionID, name, cache.NoExpiration)
	return name
}

// Partition returns the session's partition name, or "" when the session has
// no ingested documents.
func (r *Registry) Partition(sessionID string) string {
	if v, found := r.partitions.Get(sessionID); found {
		return v.(string)
	}
	return ""
}

// HasPartition reports whether the session has ingested documents.
func (r *Registry) HasPartition(sessionID string) bool {
	_, found := r.partitions.Get(sessionID)
	return found
}

// DeletePartition forgets the session's partition. Idempotent.
func (r *Registry) DeletePartition(sessionID string) {
	r.partitions.Delete(sessionID)
}

// LockSession acquires the per-session mutex and returns its unlock func.
// Operations for different sessions proceed concurrently.
func (r *Registry) LockSession(sessionID string) func() {
	r.mu.Lock()
	lock, ok := r.locks[sessionID]
	if !ok {
		lock = &sync.Mutex{}
		r.locks[sessionID] = lock
	}
	r.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}
