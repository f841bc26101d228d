package octree

import "testing"

func TestClassificationRGBA(t *testing.T) {
	testCases := []struct {
		code uint8
		want [4]uint8
	}{
		{1, [4]uint8{176, 185, 182, 1}},
		{2, [4]uint8{226, 230, 229, 1}},
		{3, [4]uint8{192, 213, 160, 1}},
		{4, [4]uint8{171, 200, 116, 1}},
		{5, [4]uint8{140, 156, 8, 1}},
		{6, [4]uint8{186, 79, 63, 1}},
		{9, [4]uint8{141, 179, 198, 1}},
		// unmapped codes yield black
		{0, [4]uint8{0, 0, 0, 1}},
		{7, [4]uint8{0, 0, 0, 1}},
		{42, [4]uint8{0, 0, 0, 1}},
	}
	for _, tc := range testCases {
		if got := ClassificationRGBA(tc.code); got != tc.want {
			t.Errorf("ClassificationRGBA(%d) = %v, want %v", tc.code, got, tc.want)
		}
	}
}
