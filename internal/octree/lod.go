package octree

import "math"

// Global sampling limits, in patches. When the expected patch count of
// a level exceeds SkipLODPointLimit the whole level is skipped; above
// NodePointLimit only one point per patch is sampled. NodePointLimit
// doubles as the leaf threshold of the hierarchy builder.
const (
	SkipLODPointLimit = 60000
	NodePointLimit    = 20000
)

// Thresholds are the two per-dataset LOD cutoffs derived from the
// dataset size. They are computed once per request and passed by
// value; the budget functions below are pure given a Thresholds.
type Thresholds struct {
	// Skip is the deepest level that is skipped entirely, -1 if none.
	Skip int
	// Single is the deepest level that samples a single point per
	// patch, -1 if none.
	Single int
}

// ComputeThresholds derives the LOD cutoffs from the total point count
// and the patch size of a dataset.
func ComputeThresholds(nbPoints, patchSize int64) Thresholds {
	patchCount := float64(nbPoints) / float64(patchSize)

	t := Thresholds{Skip: -1, Single: -1}
	if patchCount >= SkipLODPointLimit {
		t.Skip = int(math.Round(math.Log(patchCount/SkipLODPointLimit) / math.Log(8)))
	}
	if patchCount >= NodePointLimit {
		t.Single = int(math.Round(math.Log(patchCount/NodePointLimit) / math.Log(8)))
	}
	return t
}

// PointBudget returns how many points per patch the given LOD level
// may draw from the store: 0 in the skip regime, 1 in the
// single-sample regime, then growing by 8 per level so shallow levels
// below the cutoff don't starve.
func (t Thresholds) PointBudget(lod int) int64 {
	if lod <= t.Skip {
		return 0
	}
	if lod <= t.Single {
		return 1
	}
	power := lod
	if t.Single >= 0 {
		power = lod - (t.Single + 1)
	}
	return int64(1) << (3 * power)
}

// CumulativeBudget returns the total per-patch budget consumed by all
// levels shallower than lod.
func (t Thresholds) CumulativeBudget(lod int) int64 {
	var sum int64
	for l := 0; l < lod; l++ {
		sum += t.PointBudget(l)
	}
	return sum
}
