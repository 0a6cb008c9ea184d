package onnx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/camlab-ai/go-campipe/common"
)

var testLabels = []string{"person", "car"}

// anchorsTensor packs per-anchor attribute rows [cx cy w h score...] into
// the requested tensor layout.
func anchorsTensor(rows [][]float32, attrFirst bool) []float32 {
	anchors := len(rows)
	attrs := len(rows[0])
	data := make([]float32, anchors*attrs)
	for a, row := range rows {
		for i, v := range row {
			if attrFirst {
				data[i*anchors+a] = v
			} else {
				data[a*attrs+i] = v
			}
		}
	}
	return data
}

func TestDecodeOutput_BothLayouts(t *testing.T) {
	rows := [][]float32{
		{320, 320, 100, 50, 0.9, 0.1}, // person
		{100, 400, 40, 80, 0.1, 0.6},  // car
		{500, 100, 60, 60, 0.2, 0.1},  // below confidence
	}

	tests := []struct {
		name      string
		shape     []int64
		attrFirst bool
	}{
		{"attributes first", []int64{1, 6, 3}, true},
		{"anchors first", []int64{1, 3, 6}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := anchorsTensor(rows, tt.attrFirst)
			dets := DecodeOutput(data, tt.shape, testLabels, 0.25, nil, 2, 1)
			require.Len(t, dets, 2)

			assert.Equal(t, "person", dets[0].Label)
			assert.InDelta(t, 0.9, dets[0].Confidence, 1e-6)
			// Center box 320,320 100x50 scaled by 2 in x only.
			assert.InDelta(t, 540, dets[0].Box.X1, 1e-3)
			assert.InDelta(t, 295, dets[0].Box.Y1, 1e-3)
			assert.InDelta(t, 200, dets[0].Box.W(), 1e-3)
			assert.InDelta(t, 50, dets[0].Box.H(), 1e-3)

			assert.Equal(t, "car", dets[1].Label)
		})
	}
}

func TestDecodeOutput_ActiveClassFilter(t *testing.T) {
	rows := [][]float32{
		{320, 320, 100, 50, 0.9, 0.1},
		{100, 400, 40, 80, 0.1, 0.6},
	}
	data := anchorsTensor(rows, true)

	dets := DecodeOutput(data, []int64{1, 6, 2}, testLabels, 0.25, map[int]bool{1: true}, 1, 1)
	require.Len(t, dets, 1)
	assert.Equal(t, "car", dets[0].Label)
}

func TestDecodeOutput_MalformedShapes(t *testing.T) {
	rows := [][]float32{{320, 320, 100, 50, 0.9, 0.1}}
	data := anchorsTensor(rows, true)

	tests := []struct {
		name  string
		shape []int64
	}{
		{"not rank 3", []int64{6, 1}},
		{"batch not 1", []int64{2, 6, 1}},
		{"no attribute axis", []int64{1, 5, 5}},
		{"data shorter than shape", []int64{1, 6, 100}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Empty(t, DecodeOutput(data, tt.shape, testLabels, 0.25, nil, 1, 1))
		})
	}
}

func TestNonMaxSuppression(t *testing.T) {
	dets := []common.Detection{
		{Label: "person", Confidence: 0.8, Box: common.BoundingBox{X1: 10, Y1: 10, X2: 110, Y2: 110}},
		{Label: "person", Confidence: 0.9, Box: common.BoundingBox{X1: 0, Y1: 0, X2: 100, Y2: 100}},
		{Label: "person", Confidence: 0.7, Box: common.BoundingBox{X1: 300, Y1: 300, X2: 400, Y2: 400}},
	}

	kept := NonMaxSuppression(dets, 0.45)
	require.Len(t, kept, 2)
	assert.InDelta(t, 0.9, kept[0].Confidence, 1e-6, "highest confidence wins the overlap")
	assert.InDelta(t, 0.7, kept[1].Confidence, 1e-6)
}

func TestNonMaxSuppression_ClassAware(t *testing.T) {
	// Same spot, different classes: both survive.
	dets := []common.Detection{
		{Label: "person", Confidence: 0.9, Box: common.BoundingBox{X1: 0, Y1: 0, X2: 100, Y2: 100}},
		{Label: "car", Confidence: 0.8, Box: common.BoundingBox{X1: 0, Y1: 0, X2: 100, Y2: 100}},
	}
	assert.Len(t, NonMaxSuppression(dets, 0.45), 2)
}

func TestNonMaxSuppression_Empty(t *testing.T) {
	assert.Empty(t, NonMaxSuppression(nil, 0.45))
}

func TestClassIndices(t *testing.T) {
	idx := ClassIndices([]string{"person", "car", "dog"}, []string{"dog", "person", "bicycle"})
	assert.Equal(t, []int{2, 0}, idx)
}
