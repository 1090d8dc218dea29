package history

import (
	"fmt"
	"sync"

	"github.com/patrickmn/go-cache"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn is a single message in a session's conversation.
type Turn struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

// Store keeps per-session conversation history in memory. Histories never
// expire on their own; they are removed explicitly via Clear.
type Store struct {
	cache *cache.Cache
	mu    sync.Mutex
}

func NewStore() *Store {
	return &Store{
		cache: cache.New(cache.NoExpiration, cache.NoExpiration),
	}
}

// Append records a turn for the session. Only user and assistant roles are
// accepted.
func (s *Store) Append(sessionID, role, text string) error {
	if role != RoleUser && role != RoleAssistant {
		return fmt.Errorf("unknown history role: %s", role)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	turns := s.getLocked(sessionID)
	turns = append(turns, Turn{Role: role, Text: text})
	s.cache.Set(sessionID, turns, cache.NoExpiration)

	return nil
}

// Get returns a copy of the session's history, oldest first. Unknown sessions
// yield an empty slice.
func (s *Store) Get(sessionID string) []Turn {
	s.mu.Lock()
	defer s.mu.Unlock()

	turns := s.getLocked(sessionID)
	out := make([]Turn, len(turns))
	copy(out, turns)

	return out
}

// Clear deletes the session's history. Clearing an unknown session is a no-op.
func (s *Store) Clear(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cache.Delete(sessionID)
}

func (s *Store) getLocked(sessionID string) []Turn {
	if v, found := s.cache.Get(sessionID); found {
		if turns, ok := v.([]Turn); ok {
			return turns
		}
	}
	return nil
}
