package overlay

import (
	"fmt"
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"github.com/camlab-ai/go-campipe/common"
)

var (
	boxColor  = color.RGBA{0, 255, 0, 0}
	faceColor = color.RGBA{255, 255, 0, 0}
)

// Annotate draws mapped detection boxes and labels onto a display Mat.
// Detections whose label is "face" get the face styling and their tracking
// ID in the caption.
func Annotate(img *gocv.Mat, dets []common.Detection, t Transform, mirror bool) {
	for _, d := range dets {
		mapped := t.MapBox(d.Box, mirror)
		rect := mapped.ToRect()

		c := boxColor
		caption := fmt.Sprintf("%s %d%%", d.Label, int(d.Confidence*100))
		if d.Label == "face" {
			c = faceColor
			caption = "face"
			if d.TrackingID != common.NoTrackingID {
				caption = fmt.Sprintf("face #%d", d.TrackingID)
			}
		}

		gocv.Rectangle(img, rect, c, 2)
		gocv.PutText(img, caption, image.Pt(rect.Min.X, rect.Min.Y-6),
			gocv.FontHersheyPlain, 1.2, c, 2)
	}
}
