package octree

import "context"

// Estimate is a tagged point-count estimate. Skipped marks levels the
// planner excluded entirely; their count carries no meaning and must
// not leak into arithmetic.
type Estimate struct {
	Skipped bool
	Count   int64
}

// Estimator asks the store how many points a node would contribute at
// a given LOD, using the cumulative budgets of the shallower levels as
// the patch range offset.
type Estimator struct {
	Store      Store
	Thresholds Thresholds
	PatchSize  int64
}

// NumPoints counts the points the node at box/lod would serve.
func (e Estimator) NumPoints(ctx context.Context, box BoundingBox, lod int) (Estimate, error) {
	budget := e.Thresholds.PointBudget(lod)
	if budget == 0 {
		return Estimate{Skipped: true}, nil
	}

	start := 1 + e.Thresholds.CumulativeBudget(lod)
	count := budget
	if rest := e.PatchSize - start; rest < count {
		count = rest
	}
	if count < 1 {
		// shallower levels already consumed the whole patch
		return Estimate{}, nil
	}

	n, err := e.Store.CountPoints(ctx, box, start, count)
	if err != nil {
		return Estimate{}, err
	}
	return Estimate{Count: n}, nil
}
