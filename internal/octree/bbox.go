package octree

// BoundingBox is an axis-aligned volume in the dataset's spatial
// reference system. Min never exceeds max on any axis.
type BoundingBox struct {
	Xmin, Ymin, Zmin float64
	Xmax, Ymax, Zmax float64
}

// Child returns the octant of the box selected by an index 0-7.
// Bit 0 picks the upper X half, bit 1 the upper Y half, bit 2 the
// upper Z half: octant 0 is the all-low corner, octant 7 the all-high
// corner. The 8 children partition the parent with no gaps or overlap.
func (b BoundingBox) Child(octant int) BoundingBox {
	midX := b.Xmin + (b.Xmax-b.Xmin)/2
	midY := b.Ymin + (b.Ymax-b.Ymin)/2
	midZ := b.Zmin + (b.Zmax-b.Zmin)/2

	c := b
	if octant&1 == 0 {
		c.Xmax = midX
	} else {
		c.Xmin = midX
	}
	if octant&2 == 0 {
		c.Ymax = midY
	} else {
		c.Ymin = midY
	}
	if octant&4 == 0 {
		c.Zmax = midZ
	} else {
		c.Zmin = midZ
	}
	return c
}

// Contains reports whether the point lies strictly inside the box on
// all three axes. Points on a face are not contained.
func (b BoundingBox) Contains(x, y, z float64) bool {
	return x > b.Xmin && x < b.Xmax &&
		y > b.Ymin && y < b.Ymax &&
		z > b.Zmin && z < b.Zmax
}

// Reduced transforms the box edges into the store's raw numeric
// domain, where point coordinates live before scale and offset are
// applied.
func (b BoundingBox) Reduced(so ScaleOffset) BoundingBox {
	return BoundingBox{
		Xmin: (b.Xmin - so.Offset[0]) / so.Scale[0],
		Ymin: (b.Ymin - so.Offset[1]) / so.Scale[1],
		Zmin: (b.Zmin - so.Offset[2]) / so.Scale[2],
		Xmax: (b.Xmax - so.Offset[0]) / so.Scale[0],
		Ymax: (b.Ymax - so.Offset[1]) / so.Scale[1],
		Zmax: (b.Zmax - so.Offset[2]) / so.Scale[2],
	}
}

// DecodeAddress walks down from the root box following the address
// digits and returns the addressed node's volume.
func DecodeAddress(root BoundingBox, addr Address) BoundingBox {
	box := root
	for _, digit := range addr {
		box = box.Child(int(digit - '0'))
	}
	return box
}
