// Package store keeps placed objects keyed by UUID.
package store

import (
	"github.com/google/uuid"

	"treeplacer/internal/scatter"
)

// Store provides storage for placements owned by a forest. ForEach callbacks
// must not call back into the store.
type Store interface {
	Load(id uuid.UUID) (scatter.Placement, bool, error)
	Save(id uuid.UUID, placement scatter.Placement) error
	Delete(id uuid.UUID) error
	ForEach(fn func(id uuid.UUID, placement scatter.Placement) bool) error
	Close() error
}
