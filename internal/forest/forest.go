// Package forest owns the set of trees produced by the placer and the
// editor brush tools.
package forest

import (
	"fmt"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"

	"treeplacer/internal/scatter"
	"treeplacer/internal/store"
)

// Tree is a stored placement with its identity.
type Tree struct {
	ID                uuid.UUID `json:"id" yaml:"id"`
	scatter.Placement `yaml:",inline"`
}

// Forest binds a scatterer and a surface to a placement store.
type Forest struct {
	scatterer *scatter.Scatterer
	surface   scatter.Surface
	store     store.Store
	newID     func() uuid.UUID
}

func New(scatterer *scatter.Scatterer, surface scatter.Surface, s store.Store) *Forest {
	if s == nil {
		s = store.NewMemory()
	}
	return &Forest{
		scatterer: scatterer,
		surface:   surface,
		store:     s,
		newID:     uuid.New,
	}
}

// Populate clears the forest and scatters count trees across the surface.
func (f *Forest) Populate(req scatter.Request, rng scatter.Random) (scatter.Result, error) {
	if err := f.Clear(); err != nil {
		return scatter.Result{}, err
	}
	result := f.scatterer.Scatter(f.surface, req, rng)
	if _, err := f.Add(result.Placements...); err != nil {
		return result, err
	}
	return result, nil
}

// PaintBrush tries count placements inside the brush disc and keeps the
// accepted ones.
func (f *Forest) PaintBrush(center mgl64.Vec3, radius float64, count int, rng scatter.Random) (scatter.Result, error) {
	result := f.scatterer.Brush(f.surface, center, radius, count, rng)
	if _, err := f.Add(result.Placements...); err != nil {
		return result, err
	}
	return result, nil
}

func (f *Forest) Add(placements ...scatter.Placement) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(placements))
	for _, p := range placements {
		id := f.newID()
		if err := f.store.Save(id, p); err != nil {
			return ids, fmt.Errorf("save tree %s: %w", id, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// RemoveWithin deletes every tree whose position lies within radius of
// center and reports how many were removed.
func (f *Forest) RemoveWithin(center mgl64.Vec3, radius float64) (int, error) {
	return f.removeMatching(func(p scatter.Placement) bool {
		return p.Position.Sub(center).Len() <= radius
	})
}

func (f *Forest) Clear() error {
	_, err := f.removeMatching(func(scatter.Placement) bool { return true })
	return err
}

func (f *Forest) removeMatching(match func(scatter.Placement) bool) (int, error) {
	var doomed []uuid.UUID
	if err := f.store.ForEach(func(id uuid.UUID, p scatter.Placement) bool {
		if match(p) {
			doomed = append(doomed, id)
		}
		return true
	}); err != nil {
		return 0, fmt.Errorf("scan trees: %w", err)
	}

	for i, id := range doomed {
		if err := f.store.Delete(id); err != nil {
			return i, fmt.Errorf("remove tree %s: %w", id, err)
		}
	}
	return len(doomed), nil
}

// All returns every tree ordered by X then Z for stable output.
func (f *Forest) All() ([]Tree, error) {
	var trees []Tree
	if err := f.store.ForEach(func(id uuid.UUID, p scatter.Placement) bool {
		trees = append(trees, Tree{ID: id, Placement: p})
		return true
	}); err != nil {
		return nil, err
	}
	sort.Slice(trees, func(i, j int) bool {
		a, b := trees[i].Position, trees[j].Position
		if a.X() != b.X() {
			return a.X() < b.X()
		}
		return a.Z() < b.Z()
	})
	return trees, nil
}

func (f *Forest) Len() (int, error) {
	n := 0
	err := f.store.ForEach(func(uuid.UUID, scatter.Placement) bool {
		n++
		return true
	})
	return n, err
}

func (f *Forest) Close() error {
	return f.store.Close()
}
