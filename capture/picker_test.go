package capture

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/camlab-ai/go-campipe/images"
)

var testLadder = []images.Label{"1920x1080", "1280x720", "640x480"}

func TestPickerStartPosition(t *testing.T) {
	tests := []struct {
		name  string
		start images.Label
		want  images.Label
	}{
		{"exact ladder label", "1280x720", "1280x720"},
		{"between rungs picks the one below", "1600x900", "1280x720"},
		{"above the ladder picks the top", "3840x2160", "1920x1080"},
		{"below the ladder picks the bottom", "320x240", "640x480"},
		{"unparseable starts at the top", "auto", "1920x1080"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPicker(testLadder, tt.start, 15, 28, 3)
			assert.Equal(t, tt.want, p.Current())
		})
	}
}

func TestPickerStepsDownUnderSustainedPressure(t *testing.T) {
	p := NewPicker(testLadder, "1920x1080", 15, 28, 3)

	// Two slow readings are not enough.
	for i := 0; i < 2; i++ {
		_, changed := p.Observe(10)
		assert.False(t, changed)
	}

	label, changed := p.Observe(10)
	require.True(t, changed, "third consecutive slow reading trips the step")
	assert.Equal(t, images.Label("1280x720"), label)
}

func TestPickerRecoveryResetsTheCount(t *testing.T) {
	p := NewPicker(testLadder, "1920x1080", 15, 28, 3)

	p.Observe(10)
	p.Observe(10)
	p.Observe(20) // back in band
	_, changed := p.Observe(10)
	assert.False(t, changed, "the streak restarts after a reading in band")
}

func TestPickerStepsBackUpWithHeadroom(t *testing.T) {
	p := NewPicker(testLadder, "640x480", 15, 28, 2)

	_, changed := p.Observe(40)
	assert.False(t, changed)
	label, changed := p.Observe(40)
	require.True(t, changed)
	assert.Equal(t, images.Label("1280x720"), label)
}

func TestPickerClampsAtLadderEnds(t *testing.T) {
	p := NewPicker(testLadder, "640x480", 15, 28, 1)
	_, changed := p.Observe(5)
	assert.False(t, changed, "already at the bottom")

	top := NewPicker(testLadder, "1920x1080", 15, 28, 1)
	_, changed = top.Observe(60)
	assert.False(t, changed, "already at the top")
}

func TestPickerIgnoresWarmup(t *testing.T) {
	p := NewPicker(testLadder, "1920x1080", 15, 28, 1)
	_, changed := p.Observe(0)
	assert.False(t, changed)
	assert.Equal(t, images.Label("1920x1080"), p.Current())
}
