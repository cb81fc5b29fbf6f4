package index

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildEytzinger(t *testing.T) {
	t.Run("in-order fill preserves the sort", func(t *testing.T) {
		sorted := []int64{10, 20, 30, 40, 50, 60, 70}
		ids := []FileID{0, 1, 2, 3, 4, 5, 6}

		layout, ordered := buildEytzinger(sorted, ids)

		// A 7-node complete tree in eytzinger order puts the median first.
		assert.Equal(t, []int64{40, 20, 60, 10, 30, 50, 70}, layout)
		assert.Equal(t, []FileID{3, 1, 5, 0, 2, 4, 6}, ordered)
	})

	t.Run("handles empty and single-element input", func(t *testing.T) {
		layout, ordered := buildEytzinger(nil, nil)
		assert.Empty(t, layout)
		assert.Empty(t, ordered)

		layout, ordered = buildEytzinger([]int64{5}, []FileID{9})
		assert.Equal(t, []int64{5}, layout)
		assert.Equal(t, []FileID{9}, ordered)
	})
}

func TestRangeIDs(t *testing.T) {
	sorted := []int64{10, 20, 20, 30, 40, 50}
	ids := []FileID{0, 1, 2, 3, 4, 5}
	layout, ordered := buildEytzinger(sorted, ids)

	tests := []struct {
		name     string
		min, max int64
		want     []FileID
	}{
		{"inclusive bounds", 20, 40, []FileID{1, 2, 3, 4}},
		{"exact single value", 30, 30, []FileID{3}},
		{"duplicate sizes all match", 20, 20, []FileID{1, 2}},
		{"whole range", 0, 100, []FileID{0, 1, 2, 3, 4, 5}},
		{"below everything", 0, 5, nil},
		{"above everything", 99, 200, nil},
		{"empty window", 31, 39, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, rangeIDs(layout, ordered, tt.min, tt.max))
		})
	}
}
