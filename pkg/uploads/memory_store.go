package uploads

import (
	"context"
	"slices"
	"sync"

	"github.com/kadrportal/media/pkg/imagestore"
)

// MemoryStore implements SessionStore in process memory. Slices are copied on
// both read and write so callers can never alias internal state.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string][]imagestore.Descriptor
}

// NewMemoryStore creates an empty in-memory session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string][]imagestore.Descriptor)}
}

func (m *MemoryStore) List(ctx context.Context, sessionID string) ([]imagestore.Descriptor, error) {
	if sessionID == "" {
		return nil, ErrEmptySessionID
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	return slices.Clone(m.sessions[sessionID]), nil
}

func (m *MemoryStore) Save(ctx context.Context, sessionID string, descriptors []imagestore.Descriptor) error {
	if sessionID == "" {
		return ErrEmptySessionID
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.sessions[sessionID] = slices.Clone(descriptors)
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return ErrEmptySessionID
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sessions, sessionID)
	return nil
}
