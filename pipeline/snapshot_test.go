package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDetections(t *testing.T) {
	payload := []byte(`[
		{"label":"person","confidence":0.91,"box":[10,20,100,200]},
		{"label":"car","confidence":0.6,"box":[300,40,80,60]}
	]`)

	dets := parseDetections(payload)
	require.Len(t, dets, 2)

	assert.Equal(t, "person", dets[0].Label)
	assert.InDelta(t, 0.91, dets[0].Confidence, 1e-6)
	assert.InDelta(t, 10, dets[0].Box.X1, 1e-6)
	assert.InDelta(t, 20, dets[0].Box.Y1, 1e-6)
	assert.InDelta(t, 110, dets[0].Box.X2, 1e-6, "box is x,y,w,h")
	assert.InDelta(t, 220, dets[0].Box.Y2, 1e-6)
}

func TestParseDetections_Malformed(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"empty", ""},
		{"not json", "{{{"},
		{"not an array", `{"label":"person"}`},
		{"null", "null"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Empty(t, parseDetections([]byte(tt.payload)))
		})
	}
}

func TestParseDetections_SkipsBadRecords(t *testing.T) {
	payload := []byte(`[
		{"label":"person","confidence":0.9,"box":[1,2,3,4]},
		{"confidence":0.9,"box":[1,2,3,4]},
		{"label":"car","box":[1,2,3,4]},
		{"label":"dog","confidence":0.5},
		{"label":"cat","confidence":0.5,"box":[1,2,3]}
	]`)

	dets := parseDetections(payload)
	require.Len(t, dets, 1, "records with missing or short fields are skipped")
	assert.Equal(t, "person", dets[0].Label)
}
