package store

import (
	"context"
	"log/slog"
	"sync"

	"github.com/jwtradera/scrt-strongbox/interfaces"
)

// MemoryStore implements a state store backend held entirely in process
// memory. Used for tests and single-process deployments where persistence
// across restarts is not needed.
type MemoryStore struct {
	mu          sync.RWMutex
	entries     map[interfaces.StateKey][]byte
	log         *slog.Logger
	locationURI string
}

// NewMemoryStore creates a new in-memory state store.
func NewMemoryStore(log *slog.Logger) *MemoryStore {
	return &MemoryStore{
		entries:     make(map[interfaces.StateKey][]byte),
		log:         log,
		locationURI: "mem://local",
	}
}

// Get retrieves the value for a key. Returns ErrKeyNotFound if absent.
func (s *MemoryStore) Get(ctx context.Context, key interfaces.StateKey) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.entries[key]
	if !ok {
		return nil, interfaces.ErrKeyNotFound
	}

	// Copy so callers cannot mutate stored state.
	out := make([]byte, len(value))
	copy(out, value)
	return out, nil
}

// Set writes the value for a key, overwriting any previous value.
func (s *MemoryStore) Set(ctx context.Context, key interfaces.StateKey, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := make([]byte, len(value))
	copy(stored, value)
	s.entries[key] = stored

	s.log.Debug("Stored state entry in memory",
		slog.String("key", key),
		slog.Int("size", len(value)))

	return nil
}

// Delete removes a key. Deleting an absent key is a no-op.
func (s *MemoryStore) Delete(ctx context.Context, key interfaces.StateKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, key)
	return nil
}

// Available always reports true for the in-memory backend.
func (s *MemoryStore) Available(ctx context.Context) bool {
	return true
}

// Name returns a unique identifier for this backend.
func (s *MemoryStore) Name() string {
	return "memory"
}

// LocationURI returns the URI that identifies this backend.
func (s *MemoryStore) LocationURI() string {
	return s.locationURI
}
