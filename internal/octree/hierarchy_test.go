package octree

import (
	"context"
	"encoding/binary"
	"errors"
	"sync"
	"testing"
)

// fakeStore serves canned counts and points, and records the last
// requested patch range.
type fakeStore struct {
	mu        sync.Mutex
	counts    func(box BoundingBox, start, count int64) int64
	points    []PointRecord
	err       error
	lastStart int64
	lastCount int64
}

func (f *fakeStore) CountPoints(_ context.Context, box BoundingBox, start, count int64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return 0, f.err
	}
	f.lastStart, f.lastCount = start, count
	if f.counts == nil {
		return 0, nil
	}
	return f.counts(box, start, count), nil
}

func (f *fakeStore) FetchPoints(_ context.Context, box BoundingBox, start, count int64) ([]PointRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.lastStart, f.lastCount = start, count
	if len(f.points) == 0 {
		return nil, ErrNoPoints
	}
	out := make([]PointRecord, len(f.points))
	copy(out, f.points)
	return out, nil
}

func (f *fakeStore) lastRange() (int64, int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastStart, f.lastCount
}

func TestHierarchyLeafNode(t *testing.T) {
	store := &fakeStore{
		counts: func(BoundingBox, int64, int64) int64 { return 5 },
	}
	builder := &HierarchyBuilder{
		Store:      store,
		Thresholds: Thresholds{Skip: -1, Single: -1},
		PatchSize:  100,
	}

	box := BoundingBox{Xmin: 0, Ymin: 0, Zmin: 0, Xmax: 8, Ymax: 8, Zmax: 8}
	buf, err := builder.Build(context.Background(), box, 0)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	// 5 patches estimated, 100 points each, nothing used by shallower
	// levels: 500 remaining, below the leaf limit, one leaf entry
	if len(buf) != 5 {
		t.Fatalf("buffer length = %d, want 5", len(buf))
	}
	if buf[0] != 0 {
		t.Errorf("leaf child mask = %08b, want 0", buf[0])
	}
	if got := binary.LittleEndian.Uint32(buf[1:5]); got != 500 {
		t.Errorf("leaf point estimate = %d, want 500", got)
	}

	start, count := store.lastRange()
	if start != 1 || count != 1 {
		t.Errorf("root probe range = (%d, %d), want (1, 1)", start, count)
	}
}

func TestHierarchySubdivision(t *testing.T) {
	root := BoundingBox{Xmin: 0, Ymin: 0, Zmin: 0, Xmax: 8, Ymax: 8, Zmax: 8}
	child0 := root.Child(0)
	child7 := root.Child(7)

	store := &fakeStore{
		counts: func(box BoundingBox, _, _ int64) int64 {
			switch box {
			case root:
				return 10000
			case child0, child7:
				return 10
			}
			return 0
		},
	}
	builder := &HierarchyBuilder{
		Store:      store,
		Thresholds: Thresholds{Skip: -1, Single: -1},
		PatchSize:  100,
	}

	buf, err := builder.Build(context.Background(), root, 0)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	// root + two leaf children, sorted "" < "0" < "7"
	if len(buf) != 15 {
		t.Fatalf("buffer length = %d, want 15", len(buf))
	}

	if buf[0] != 0x81 {
		t.Errorf("root child mask = %08b, want 10000001", buf[0])
	}
	if got := binary.LittleEndian.Uint32(buf[1:5]); got != 10000 {
		t.Errorf("root point estimate = %d, want 10000", got)
	}

	// children at lod 1: 10/8 patches, 1 point used at lod 0 each,
	// 10/8*100 - 10/8 = 123.75, truncated
	for i, offset := range []int{5, 10} {
		if buf[offset] != 0 {
			t.Errorf("child %d mask = %08b, want 0", i, buf[offset])
		}
		if got := binary.LittleEndian.Uint32(buf[offset+1 : offset+5]); got != 123 {
			t.Errorf("child %d point estimate = %d, want 123", i, got)
		}
	}
}

func TestHierarchyMaskRoundTrip(t *testing.T) {
	root := BoundingBox{Xmin: 0, Ymin: 0, Zmin: 0, Xmax: 8, Ymax: 8, Zmax: 8}
	present := map[int]bool{1: true, 3: true, 6: true}

	store := &fakeStore{
		counts: func(box BoundingBox, _, _ int64) int64 {
			if box == root {
				return 10000
			}
			for octant := range present {
				if box == root.Child(octant) {
					return 3
				}
			}
			return 0
		},
	}
	builder := &HierarchyBuilder{
		Store:      store,
		Thresholds: Thresholds{Skip: -1, Single: -1},
		PatchSize:  100,
	}

	buf, err := builder.Build(context.Background(), root, 0)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	mask := buf[0]
	for octant := 0; octant < 8; octant++ {
		got := mask&(1<<octant) != 0
		if got != present[octant] {
			t.Errorf("mask bit %d = %v, want %v", octant, got, present[octant])
		}
	}
}

func TestHierarchySkippedLevelForcesSubdivision(t *testing.T) {
	// lod 0 is skipped; the builder must still descend past it
	store := &fakeStore{
		counts: func(BoundingBox, int64, int64) int64 { return 0 },
	}
	builder := &HierarchyBuilder{
		Store:      store,
		Thresholds: Thresholds{Skip: 0, Single: 1},
		PatchSize:  100,
	}

	box := BoundingBox{Xmin: 0, Ymin: 0, Zmin: 0, Xmax: 8, Ymax: 8, Zmax: 8}
	buf, err := builder.Build(context.Background(), box, 0)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if len(buf) != 5 {
		t.Fatalf("buffer length = %d, want 5", len(buf))
	}
	if buf[0] != 0 {
		t.Errorf("root child mask = %08b, want 0 (no children found)", buf[0])
	}
	if got := binary.LittleEndian.Uint32(buf[1:5]); got != 0 {
		t.Errorf("root point estimate = %d, want 0", got)
	}
}

func TestHierarchyStoreErrorIsFatal(t *testing.T) {
	storeErr := errors.New("connection reset")
	store := &fakeStore{err: storeErr}
	builder := &HierarchyBuilder{
		Store:      store,
		Thresholds: Thresholds{Skip: -1, Single: -1},
		PatchSize:  100,
	}

	box := BoundingBox{Xmin: 0, Ymin: 0, Zmin: 0, Xmax: 8, Ymax: 8, Zmax: 8}
	if _, err := builder.Build(context.Background(), box, 0); !errors.Is(err, storeErr) {
		t.Errorf("Build error = %v, want %v", err, storeErr)
	}
}
