package filters

import (
	"image"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"

	"github.com/camlab-ai/go-campipe/images"
)

// OpenCV applies the filter catalog with gocv. Each Apply wraps the frame's
// RGBA pixels in a Mat, runs the transform in BGR space, and writes the
// result back into the same frame buffer.
type OpenCV struct {
	kernel gocv.Mat
}

// NewOpenCV creates the applier and its reusable morphology kernel.
func NewOpenCV() *OpenCV {
	return &OpenCV{
		kernel: gocv.GetStructuringElement(gocv.MorphRect, image.Pt(3, 3)),
	}
}

// Close releases the applier's native resources.
func (o *OpenCV) Close() error {
	return o.kernel.Close()
}

// Apply runs the transform in place on the frame.
func (o *OpenCV) Apply(k Kind, frame *images.Frame) error {
	if k == Normal {
		return nil
	}

	rgba, err := gocv.NewMatFromBytes(frame.Height, frame.Width, gocv.MatTypeCV8UC4, frame.Pix)
	if err != nil {
		return errors.Wrap(err, "wrapping frame pixels")
	}
	defer rgba.Close()

	bgr := gocv.NewMat()
	defer bgr.Close()
	gocv.CvtColor(rgba, &bgr, gocv.ColorRGBAToBGR)

	if err := o.transform(k, &bgr); err != nil {
		return err
	}

	gocv.CvtColor(bgr, &rgba, gocv.ColorBGRToRGBA)
	data, err := rgba.DataPtrUint8()
	if err != nil {
		return errors.Wrap(err, "reading transformed pixels")
	}
	if len(data) != len(frame.Pix) {
		return errors.Errorf("transform changed pixel count: %d != %d", len(data), len(frame.Pix))
	}
	copy(frame.Pix, data)
	return nil
}

func (o *OpenCV) transform(k Kind, bgr *gocv.Mat) error {
	switch k {
	case Beauty:
		// Edge-preserving smoothing plus a mild lift.
		smooth := gocv.NewMat()
		defer smooth.Close()
		gocv.BilateralFilter(*bgr, &smooth, 9, 75, 75)
		smooth.ConvertToWithParams(bgr, gocv.MatTypeCV8UC3, 1.0, 8)

	case Dehaze:
		// Local contrast recovery on the lightness channel.
		lab := gocv.NewMat()
		defer lab.Close()
		gocv.CvtColor(*bgr, &lab, gocv.ColorBGRToLab)
		channels := gocv.Split(lab)
		defer closeAll(channels)
		clahe := gocv.NewCLAHEWithParams(2.0, image.Pt(8, 8))
		defer clahe.Close()
		clahe.Apply(channels[0], &channels[0])
		gocv.Merge(channels, &lab)
		gocv.CvtColor(lab, bgr, gocv.ColorLabToBGR)

	case Underwater:
		// Compensate the blue-green cast: boost red, pull blue.
		channels := gocv.Split(*bgr)
		defer closeAll(channels)
		channels[2].MultiplyFloat(1.2)
		channels[0].MultiplyFloat(0.85)
		gocv.Merge(channels, bgr)

	case Stage:
		// Punchy contrast with crushed shadows.
		bgr.ConvertToWithParams(bgr, gocv.MatTypeCV8UC3, 1.3, -40)

	case Gray:
		gray := gocv.NewMat()
		defer gray.Close()
		gocv.CvtColor(*bgr, &gray, gocv.ColorBGRToGray)
		gocv.CvtColor(gray, bgr, gocv.ColorGrayToBGR)

	case Histogram:
		ycrcb := gocv.NewMat()
		defer ycrcb.Close()
		gocv.CvtColor(*bgr, &ycrcb, gocv.ColorBGRToYCrCb)
		channels := gocv.Split(ycrcb)
		defer closeAll(channels)
		gocv.EqualizeHist(channels[0], &channels[0])
		gocv.Merge(channels, &ycrcb)
		gocv.CvtColor(ycrcb, bgr, gocv.ColorYCrCbToBGR)

	case Binary:
		gray := gocv.NewMat()
		defer gray.Close()
		gocv.CvtColor(*bgr, &gray, gocv.ColorBGRToGray)
		gocv.Threshold(gray, &gray, 0, 255, gocv.ThresholdBinary+gocv.ThresholdOtsu)
		gocv.CvtColor(gray, bgr, gocv.ColorGrayToBGR)

	case MorphOpen:
		gocv.MorphologyEx(*bgr, bgr, gocv.MorphOpen, o.kernel)

	case MorphClose:
		gocv.MorphologyEx(*bgr, bgr, gocv.MorphClose, o.kernel)

	case Blur:
		gocv.GaussianBlur(*bgr, bgr, image.Pt(9, 9), 0, 0, gocv.BorderDefault)

	default:
		return errors.Errorf("filter %v has no transform", k)
	}
	return nil
}

func closeAll(mats []gocv.Mat) {
	for i := range mats {
		mats[i].Close()
	}
}
