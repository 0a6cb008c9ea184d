package capture

import "github.com/camlab-ai/go-campipe/images"

// Picker recommends a capture resolution from a ladder of candidate labels
// based on the observed frame rate: step down when the pipeline cannot keep
// up, step back up when there is headroom. A recommendation only fires
// after the same pressure has been seen for hysteresisFrames consecutive
// observations, so a single slow frame never triggers a rebind.
type Picker struct {
	ladder []images.Label // largest first
	idx    int

	lowFPS, highFPS float32
	hysteresis      int

	belowCount, aboveCount int
}

// NewPicker builds a picker positioned at start within the ladder. When
// start is not on the ladder the picker begins at the largest label that
// fits under it, or the smallest overall.
func NewPicker(ladder []images.Label, start images.Label, lowFPS, highFPS float32, hysteresis int) *Picker {
	if len(ladder) == 0 {
		ladder = images.CommonCaptureLabels
	}
	p := &Picker{
		ladder:     ladder,
		idx:        len(ladder) - 1,
		lowFPS:     lowFPS,
		highFPS:    highFPS,
		hysteresis: hysteresis,
	}
	startW, startH, err := start.Parse()
	if err != nil {
		p.idx = 0
		return p
	}
	for i, l := range ladder {
		if w, h, err := l.Parse(); err == nil && w*h <= startW*startH {
			p.idx = i
			break
		}
	}
	return p
}

// Current returns the label the picker currently recommends.
func (p *Picker) Current() images.Label {
	return p.ladder[p.idx]
}

// Observe feeds one frame-rate reading and reports whether the
// recommendation changed. Zero readings are warm-up and ignored.
func (p *Picker) Observe(fps float32) (images.Label, bool) {
	if fps <= 0 {
		return p.Current(), false
	}

	switch {
	case fps < p.lowFPS:
		p.belowCount++
		p.aboveCount = 0
	case fps > p.highFPS:
		p.aboveCount++
		p.belowCount = 0
	default:
		p.belowCount, p.aboveCount = 0, 0
	}

	if p.belowCount >= p.hysteresis && p.idx < len(p.ladder)-1 {
		p.idx++
		p.belowCount = 0
		return p.Current(), true
	}
	if p.aboveCount >= p.hysteresis && p.idx > 0 {
		p.idx--
		p.aboveCount = 0
		return p.Current(), true
	}
	return p.Current(), false
}
