package store

import (
	"sync"

	"github.com/google/uuid"

	"treeplacer/internal/scatter"
)

type memoryStore struct {
	mu         sync.RWMutex
	placements map[uuid.UUID]scatter.Placement
}

// NewMemory returns a Store that lives only as long as the process.
func NewMemory() Store {
	return &memoryStore{
		placements: make(map[uuid.UUID]scatter.Placement),
	}
}

func (m *memoryStore) Load(id uuid.UUID) (scatter.Placement, bool, error) {
	m.mu.RLock()
	placement, ok := m.placements[id]
	m.mu.RUnlock()
	return placement, ok, nil
}

func (m *memoryStore) Save(id uuid.UUID, placement scatter.Placement) error {
	m.mu.Lock()
	m.placements[id] = placement
	m.mu.Unlock()
	return nil
}

func (m *memoryStore) Delete(id uuid.UUID) error {
	m.mu.Lock()
	delete(m.placements, id)
	m.mu.Unlock()
	return nil
}

func (m *memoryStore) ForEach(fn func(id uuid.UUID, placement scatter.Placement) bool) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for id, placement := range m.placements {
		if !fn(id, placement) {
			break
		}
	}
	return nil
}

func (m *memoryStore) Close() error {
	return nil
}
