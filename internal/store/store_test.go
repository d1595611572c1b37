package store

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"

	"treeplacer/internal/scatter"
)

func samplePlacement(i int) scatter.Placement {
	return scatter.Placement{
		Position:  mgl64.Vec3{float64(i), float64(i) * 0.5, float64(i) * 2},
		RotationY: float64(i*37) + 0.25,
		Scale:     0.8 + float64(i)*0.01,
		Prefab:    "oak",
	}
}

func exerciseStore(t *testing.T, s Store) {
	t.Helper()

	ids := make([]uuid.UUID, 5)
	for i := range ids {
		ids[i] = uuid.New()
		if err := s.Save(ids[i], samplePlacement(i)); err != nil {
			t.Fatalf("Save %d: %v", i, err)
		}
	}

	got, ok, err := s.Load(ids[3])
	if err != nil || !ok {
		t.Fatalf("Load: ok=%v err=%v", ok, err)
	}
	if !reflect.DeepEqual(got, samplePlacement(3)) {
		t.Fatalf("Load mismatch: %+v", got)
	}

	if err := s.Delete(ids[1]); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok, _ := s.Load(ids[1]); ok {
		t.Fatalf("deleted placement still present")
	}
	if err := s.Delete(uuid.New()); err != nil {
		t.Fatalf("Delete unknown: %v", err)
	}

	seen := 0
	if err := s.ForEach(func(id uuid.UUID, p scatter.Placement) bool {
		seen++
		return true
	}); err != nil {
		t.Fatalf("ForEach: %v", err)
	}
	if seen != 4 {
		t.Fatalf("ForEach visited %d placements, want 4", seen)
	}

	visited := 0
	_ = s.ForEach(func(uuid.UUID, scatter.Placement) bool {
		visited++
		return false
	})
	if visited != 1 {
		t.Fatalf("ForEach did not stop early, visited %d", visited)
	}
}

func TestMemoryStore(t *testing.T) {
	s := NewMemory()
	defer s.Close()
	exerciseStore(t, s)
}

func TestDiskStore(t *testing.T) {
	s, err := OpenDisk(filepath.Join(t.TempDir(), "forest.log"))
	if err != nil {
		t.Fatalf("OpenDisk: %v", err)
	}
	defer s.Close()
	exerciseStore(t, s)
}

func TestDiskStorePersistsIndex(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "forest.log")

	s, err := OpenDisk(path)
	if err != nil {
		t.Fatalf("OpenDisk: %v", err)
	}
	keep, drop := uuid.New(), uuid.New()
	if err := s.Save(keep, samplePlacement(1)); err != nil {
		t.Fatalf("Save keep: %v", err)
	}
	if err := s.Save(drop, samplePlacement(2)); err != nil {
		t.Fatalf("Save drop: %v", err)
	}
	if err := s.Save(keep, samplePlacement(7)); err != nil {
		t.Fatalf("overwrite keep: %v", err)
	}
	if err := s.Delete(drop); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := OpenDisk(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()

	got, ok, err := reopened.Load(keep)
	if err != nil || !ok {
		t.Fatalf("Load keep: ok=%v err=%v", ok, err)
	}
	if !reflect.DeepEqual(got, samplePlacement(7)) {
		t.Fatalf("reloaded placement mismatch: %+v", got)
	}
	if _, ok, _ := reopened.Load(drop); ok {
		t.Fatalf("deleted placement survived reopen")
	}
}

func TestDiskStoreRejectsTruncatedLog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "forest.log")
	if err := os.WriteFile(path, []byte{diskOpSet, 1, 2, 3}, 0o600); err != nil {
		t.Fatalf("write log: %v", err)
	}
	if _, err := OpenDisk(path); err == nil {
		t.Fatalf("expected truncated log to fail")
	}
}

func TestDiskStoreRejectsTornPayload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "forest.log")

	s, err := OpenDisk(path)
	if err != nil {
		t.Fatalf("OpenDisk: %v", err)
	}
	if err := s.Save(uuid.New(), samplePlacement(1)); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat log: %v", err)
	}
	if err := os.Truncate(path, info.Size()-5); err != nil {
		t.Fatalf("truncate log: %v", err)
	}

	if _, err := OpenDisk(path); !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Fatalf("OpenDisk on torn payload = %v, want io.ErrUnexpectedEOF", err)
	}
}
