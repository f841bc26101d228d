package octree

// LAS classification palette (ASPRS LAS 1.1 codes).
var classificationPalette = map[uint8][3]uint8{
	1: {176, 185, 182}, // unclassified, grey
	2: {226, 230, 229}, // ground, light brown
	3: {192, 213, 160}, // low vegetation
	4: {171, 200, 116}, // medium vegetation
	5: {140, 156, 8},   // high vegetation, green
	6: {186, 79, 63},   // building, brown
	9: {141, 179, 198}, // water, blue
}

// ClassificationRGBA maps a LAS classification code to a display
// color. Unmapped codes yield black; the alpha channel is always 1.
func ClassificationRGBA(code uint8) [4]uint8 {
	rgb := classificationPalette[code]
	return [4]uint8{rgb[0], rgb[1], rgb[2], 1}
}
