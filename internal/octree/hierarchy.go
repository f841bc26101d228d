package octree

import (
	"context"
	"encoding/binary"
	"sort"
	"sync"

	"github.com/sourcegraph/conc/pool"
)

// A hierarchy request descends at most this many levels below the node
// it starts from; deeper levels come from follow-up client requests as
// the viewer drills down.
const hierarchyDepthMax = 2

// HierarchyBuilder walks the octree below one node and records, for
// every visited node, which children exist and how many points the
// node is expected to hold.
type HierarchyBuilder struct {
	Store      Store
	Thresholds Thresholds
	PatchSize  int64
}

type hierarchyEntry struct {
	mask    uint8
	npoints int64
}

// entryArena accumulates the per-node entries of one request. Sibling
// subtrees insert concurrently; arrival order is irrelevant because
// serialization sorts the keys.
type entryArena struct {
	mu      sync.Mutex
	entries map[Address]hierarchyEntry
}

func newEntryArena() *entryArena {
	return &entryArena{entries: make(map[Address]hierarchyEntry)}
}

func (a *entryArena) put(addr Address, e hierarchyEntry) {
	a.mu.Lock()
	a.entries[addr] = e
	a.mu.Unlock()
}

// serialize emits, for every entry sorted by (depth, address), one
// child-mask byte (bit i set when child i exists) followed by the
// node's point-count estimate as a little-endian uint32.
func (a *entryArena) serialize() []byte {
	keys := make([]Address, 0, len(a.entries))
	for k := range a.entries {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) < len(keys[j])
		}
		return keys[i] < keys[j]
	})

	buf := make([]byte, 0, 5*len(keys))
	for _, k := range keys {
		e := a.entries[k]
		buf = append(buf, e.mask)
		buf = binary.LittleEndian.AppendUint32(buf, uint32(e.npoints))
	}
	return buf
}

// Build produces the hierarchy buffer for the node whose volume is box
// at LOD depth lod. Store failures abort the whole request; no partial
// hierarchy is ever returned.
func (b *HierarchyBuilder) Build(ctx context.Context, box BoundingBox, lod int) ([]byte, error) {
	estimator := Estimator{Store: b.Store, Thresholds: b.Thresholds, PatchSize: b.PatchSize}

	root, err := estimator.NumPoints(ctx, box, lod)
	if err != nil {
		return nil, err
	}

	arena := newEntryArena()
	if err := b.visit(ctx, 0, box, root, lod, "", arena); err != nil {
		return nil, err
	}
	return arena.serialize(), nil
}

func (b *HierarchyBuilder) visit(ctx context.Context, depth int, box BoundingBox, est Estimate, lod int, name Address, arena *entryArena) error {
	budget := b.Thresholds.PointBudget(lod)

	npoints := est.Count
	if est.Skipped {
		npoints = 0
	}

	// A skipped level reports no usable count; pinning the estimate at
	// the leaf limit forces subdivision below it.
	remaining := float64(NodePointLimit)
	if budget > 0 {
		npatches := float64(npoints) / float64(budget)
		usedByShallowerLods := npatches * float64(b.Thresholds.CumulativeBudget(lod))
		remaining = npatches*float64(b.PatchSize) - usedByShallowerLods
	}

	if remaining < NodePointLimit {
		arena.put(name, hierarchyEntry{npoints: int64(remaining)})
		return nil
	}

	estimator := Estimator{Store: b.Store, Thresholds: b.Thresholds, PatchSize: b.PatchSize}

	// The eight child probes read disjoint volumes, so they run
	// concurrently; each goroutine writes its own slot of exists.
	var exists [8]bool
	p := pool.New().WithContext(ctx).WithCancelOnError()
	for octant := 0; octant < 8; octant++ {
		octant := octant
		cbox := box.Child(octant)
		p.Go(func(ctx context.Context) error {
			cest, err := estimator.NumPoints(ctx, cbox, lod+1)
			if err != nil {
				return err
			}
			if !cest.Skipped && cest.Count == 0 {
				return nil
			}
			exists[octant] = true
			if depth < hierarchyDepthMax {
				return b.visit(ctx, depth+1, cbox, cest, lod+1, name.Child(octant), arena)
			}
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return err
	}

	var mask uint8
	for octant, ok := range exists {
		if ok {
			mask |= 1 << octant
		}
	}
	arena.put(name, hierarchyEntry{mask: mask, npoints: npoints})
	return nil
}
