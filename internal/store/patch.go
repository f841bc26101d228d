package store

import (
	"encoding/binary"
	"fmt"
	"math"

	"pointserv/internal/octree"
)

// Uncompressed pcPatch WKB layout: 1 byte endianness flag, uint32
// pcid, uint32 compression, uint32 point count, then the packed point
// records in schema dimension order.
const patchHeaderSize = 13

const compressionNone = 0

// DecodePatch decodes an uncompressed patch blob into point records
// laid out per schema. X/Y/Z stay in the store's raw numeric domain;
// color and classification fields are copied when the schema declares
// them.
func DecodePatch(blob []byte, schema *Schema) ([]octree.PointRecord, error) {
	if len(blob) < patchHeaderSize {
		return nil, fmt.Errorf("patch blob too short: %d bytes", len(blob))
	}

	var order binary.ByteOrder = binary.LittleEndian
	if blob[0] == 0 {
		order = binary.BigEndian
	}

	if compression := order.Uint32(blob[5:9]); compression != compressionNone {
		return nil, fmt.Errorf("unsupported patch compression %d", compression)
	}

	npoints := int(order.Uint32(blob[9:13]))
	stride := schema.PointSize()
	data := blob[patchHeaderSize:]
	if len(data) < npoints*stride {
		return nil, fmt.Errorf("patch blob truncated: %d points of %d bytes in %d bytes",
			npoints, stride, len(data))
	}

	points := make([]octree.PointRecord, npoints)
	for i := range points {
		record := data[i*stride:]
		offset := 0
		for _, d := range schema.Dimensions {
			v := readDimension(record[offset:offset+d.Size], d.Interpretation, order)
			offset += d.Size

			switch d.Name {
			case "X":
				points[i].X = v
			case "Y":
				points[i].Y = v
			case "Z":
				points[i].Z = v
			case "Red":
				points[i].Red = uint16(v)
			case "Green":
				points[i].Green = uint16(v)
			case "Blue":
				points[i].Blue = uint16(v)
			case "Classification":
				points[i].Classification = uint8(v)
			}
		}
	}
	return points, nil
}

func readDimension(b []byte, interpretation string, order binary.ByteOrder) float64 {
	switch interpretation {
	case "int8_t":
		return float64(int8(b[0]))
	case "uint8_t":
		return float64(b[0])
	case "int16_t":
		return float64(int16(order.Uint16(b)))
	case "uint16_t":
		return float64(order.Uint16(b))
	case "int32_t":
		return float64(int32(order.Uint32(b)))
	case "uint32_t":
		return float64(order.Uint32(b))
	case "int64_t":
		return float64(int64(order.Uint64(b)))
	case "uint64_t":
		return float64(order.Uint64(b))
	case "float":
		return float64(math.Float32frombits(order.Uint32(b)))
	case "double":
		return math.Float64frombits(order.Uint64(b))
	}
	return 0
}
