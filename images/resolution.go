// Package images provides the pixel-level building blocks of the frame
// pipeline: resolution labels, lightweight rectangles, packed RGBA frames,
// the per-stage buffer pool, color conversion and orientation handling.
package images

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Label is a "WxH" resolution label. It doubles as a user-facing string and
// as the parsed source dimensions for coordinate mapping, so it must always
// round-trip through Parse before being used for scaling.
type Label string

// FormatLabel builds a Label from pixel dimensions.
func FormatLabel(width, height int) Label {
	return Label(fmt.Sprintf("%dx%d", width, height))
}

// Parse splits the label into its two dimensions.
//
// Returns:
//   - width, height: The parsed dimensions. Both are positive.
//   - error: If the label is not two positive integers joined by "x".
func (l Label) Parse() (width, height int, err error) {
	parts := strings.Split(string(l), "x")
	if len(parts) != 2 {
		return 0, 0, errors.Errorf("resolution label %q is not of the form WxH", l)
	}
	width, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, errors.Wrapf(err, "resolution label %q has a bad width", l)
	}
	height, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, errors.Wrapf(err, "resolution label %q has a bad height", l)
	}
	if width <= 0 || height <= 0 {
		return 0, 0, errors.Errorf("resolution label %q must have positive dimensions", l)
	}
	return width, height, nil
}

// Valid reports whether the label parses to two positive integers.
func (l Label) Valid() bool {
	_, _, err := l.Parse()
	return err == nil
}

// Common capture resolutions offered to resolution pickers, largest first.
// A camera negotiates its own size; these are only candidate labels.
var CommonCaptureLabels = []Label{
	"3840x2160",
	"2560x1440",
	"1920x1080",
	"1600x1200",
	"1280x720",
	"960x540",
	"640x480",
}
