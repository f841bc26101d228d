package octree

import (
	"bytes"
	"context"
	"encoding/binary"
	"math/rand"
)

// TileAssembler builds the binary point tile for a single octree node:
// 24-byte header (local-frame min and max of the returned points, six
// float32), N quantized positions (three float32 each), N RGBA colors
// (four bytes each). Consumers infer N from the buffer length.
type TileAssembler struct {
	Store       Store
	Thresholds  Thresholds
	PatchSize   int64
	Schema      PatchSchema
	ScaleOffset ScaleOffset
}

// Build fetches, samples, colorizes and quantizes the points of the
// node whose volume is box at LOD depth lod. A leaf request takes
// every point the shallower levels left in the patch.
func (a *TileAssembler) Build(ctx context.Context, box BoundingBox, lod int, isleaf bool) ([]byte, error) {
	budget := a.Thresholds.PointBudget(lod)
	start := 1 + a.Thresholds.CumulativeBudget(lod)
	count := budget
	if rest := a.PatchSize - start; rest < count {
		count = rest
	}
	if isleaf {
		count = a.PatchSize - start
	}

	points, err := a.Store.FetchPoints(ctx, box, start, count)
	if err != nil {
		return nil, err
	}

	// Shuffling after the patches are merged lets a client render any
	// fraction of the buffer and still see a representative spatial
	// sample instead of a prefix of whole patches.
	rand.Shuffle(len(points), func(i, j int) {
		points[i], points[j] = points[j], points[i]
	})

	// The fetched patches extend past the node volume; keep only the
	// points strictly inside the box in the store's raw domain.
	raw := box.Reduced(a.ScaleOffset)
	kept := points[:0]
	for _, p := range points {
		if raw.Contains(p.X, p.Y, p.Z) {
			kept = append(kept, p)
		}
	}
	if len(kept) == 0 {
		return nil, ErrNoPoints
	}

	colors := a.colorize(kept)

	scale, offset := a.ScaleOffset.Scale, a.ScaleOffset.Offset
	positions := make([][3]float32, len(kept))
	var realMin, realMax [3]float64
	for i, p := range kept {
		local := [3]float64{
			p.X*scale[0] + offset[0] - box.Xmin,
			p.Y*scale[1] + offset[1] - box.Ymin,
			p.Z*scale[2] + offset[2] - box.Zmin,
		}
		if i == 0 {
			realMin, realMax = local, local
		} else {
			for axis := 0; axis < 3; axis++ {
				if local[axis] < realMin[axis] {
					realMin[axis] = local[axis]
				}
				if local[axis] > realMax[axis] {
					realMax[axis] = local[axis]
				}
			}
		}
		positions[i] = [3]float32{float32(local[0]), float32(local[1]), float32(local[2])}
	}

	header := [6]float32{
		float32(realMin[0]), float32(realMin[1]), float32(realMin[2]),
		float32(realMax[0]), float32(realMax[1]), float32(realMax[2]),
	}

	buf := new(bytes.Buffer)
	binary.Write(buf, binary.LittleEndian, header)
	binary.Write(buf, binary.LittleEndian, positions)
	binary.Write(buf, binary.LittleEndian, colors)
	return buf.Bytes(), nil
}

// colorize assigns one RGBA color per point. Native colors win over
// classification codes; 16-bit native colors are folded into 8 bits.
// Every branch emits four channels.
func (a *TileAssembler) colorize(points []PointRecord) [][4]uint8 {
	colors := make([][4]uint8, len(points))

	switch {
	case a.Schema.HasColor:
		var maxRed uint16
		for _, p := range points {
			if p.Red > maxRed {
				maxRed = p.Red
			}
		}
		if maxRed > 255 {
			for i, p := range points {
				colors[i] = [4]uint8{
					uint8(p.Red % 255),
					uint8(p.Green % 255),
					uint8(p.Blue % 255),
					255,
				}
			}
		} else {
			for i, p := range points {
				colors[i] = [4]uint8{uint8(p.Red), uint8(p.Green), uint8(p.Blue), 255}
			}
		}
	case a.Schema.HasClassification:
		for i, p := range points {
			colors[i] = ClassificationRGBA(p.Classification)
		}
	default:
		// no native colors, no classification: zero placeholder
		// TODO: derive a gradient from elevation instead
	}
	return colors
}
