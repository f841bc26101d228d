package octree

import (
	"context"
	"errors"
)

// ErrNoPoints marks a node whose patch union came back empty. The
// boundary maps it to a not-found response instead of a failure;
// edge and leaf nodes hit it routinely.
var ErrNoPoints = errors.New("no points for requested node")

// ScaleOffset holds the per-axis scale and offset the store applies
// when quantizing raw coordinates into world coordinates.
type ScaleOffset struct {
	Scale  [3]float64
	Offset [3]float64
}

// PatchSchema describes which optional point fields the stored
// patches carry.
type PatchSchema struct {
	HasColor          bool
	HasClassification bool
}

// PointRecord is one decoded point in the store's raw numeric domain:
// X/Y/Z are unscaled store-native values, colors and classification
// are present only when the schema says so.
type PointRecord struct {
	X, Y, Z          float64
	Red, Green, Blue uint16
	Classification   uint8
}

// Store is the spatial query surface the octree core consumes. Both
// methods restrict each contributing patch to the half-open point
// range [start, start+count).
type Store interface {
	// CountPoints counts the points of the range that fall inside box.
	CountPoints(ctx context.Context, box BoundingBox, start, count int64) (int64, error)

	// FetchPoints returns the decoded union of the range across all
	// patches intersecting box. An empty union yields ErrNoPoints.
	FetchPoints(ctx context.Context, box BoundingBox, start, count int64) ([]PointRecord, error)
}
