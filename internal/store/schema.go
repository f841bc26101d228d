package store

import (
	"encoding/xml"
	"errors"
	"fmt"
	"sort"
)

// Dimension is one field of a stored point, as declared by the
// pgPointcloud schema document.
type Dimension struct {
	Position       int     `xml:"position"`
	Size           int     `xml:"size"`
	Name           string  `xml:"name"`
	Interpretation string  `xml:"interpretation"`
	Scale          float64 `xml:"scale"`
	Offset         float64 `xml:"offset"`
}

// Schema is a parsed pgPointcloud point schema: the ordered dimension
// layout of uncompressed patch data plus the X/Y/Z scale and offset
// triples.
type Schema struct {
	Dimensions []Dimension
	Scales     [3]float64
	Offsets    [3]float64
}

// ParseSchema parses a pointcloud_formats XML document. Dimensions are
// ordered by their declared position; a missing scale defaults to 1.
func ParseSchema(doc string) (*Schema, error) {
	var parsed struct {
		Dimensions []Dimension `xml:"dimension"`
	}
	if err := xml.Unmarshal([]byte(doc), &parsed); err != nil {
		return nil, fmt.Errorf("parse point schema: %w", err)
	}
	if len(parsed.Dimensions) == 0 {
		return nil, errors.New("point schema has no dimensions")
	}

	dims := parsed.Dimensions
	sort.Slice(dims, func(i, j int) bool {
		return dims[i].Position < dims[j].Position
	})

	s := &Schema{
		Dimensions: dims,
		Scales:     [3]float64{1, 1, 1},
	}
	for _, d := range dims {
		axis := axisIndex(d.Name)
		if axis < 0 {
			continue
		}
		if d.Scale != 0 {
			s.Scales[axis] = d.Scale
		}
		s.Offsets[axis] = d.Offset
	}
	return s, nil
}

func axisIndex(name string) int {
	switch name {
	case "X":
		return 0
	case "Y":
		return 1
	case "Z":
		return 2
	}
	return -1
}

// HasDimension reports whether the schema declares the named field.
func (s *Schema) HasDimension(name string) bool {
	for _, d := range s.Dimensions {
		if d.Name == name {
			return true
		}
	}
	return false
}

// PointSize returns the byte stride of one packed point record.
func (s *Schema) PointSize() int {
	size := 0
	for _, d := range s.Dimensions {
		size += d.Size
	}
	return size
}
