package capture

import (
	"context"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"

	"github.com/camlab-ai/go-campipe/images"
)

// Webcam adapts a local video capture device to the Source interface. The
// device delivers packed BGR frames; the adapter converts them to the
// planar I420 layout the pipeline's normalizer expects, so the same
// conversion path is exercised as with a real planar sensor.
type Webcam struct {
	deviceID int
	mirror   bool
	cam      *gocv.VideoCapture
	width    int
	height   int
}

// OpenWebcam opens the capture device and negotiates towards the requested
// resolution label. The device is free to pick something else; Resolution
// reports what it actually negotiated.
func OpenWebcam(deviceID int, requested images.Label, mirror bool) (*Webcam, error) {
	cam, err := gocv.OpenVideoCapture(deviceID)
	if err != nil {
		return nil, errors.Wrapf(err, "opening video capture device %d", deviceID)
	}

	if w, h, err := requested.Parse(); err == nil {
		cam.Set(gocv.VideoCaptureFrameWidth, float64(w))
		cam.Set(gocv.VideoCaptureFrameHeight, float64(h))
	}

	wc := &Webcam{
		deviceID: deviceID,
		mirror:   mirror,
		cam:      cam,
		width:    int(cam.Get(gocv.VideoCaptureFrameWidth)),
		height:   int(cam.Get(gocv.VideoCaptureFrameHeight)),
	}
	if wc.width <= 0 || wc.height <= 0 {
		cam.Close()
		return nil, errors.Errorf("device %d reported invalid resolution %dx%d",
			deviceID, wc.width, wc.height)
	}
	return wc, nil
}

// Resolution reports the negotiated capture resolution.
func (w *Webcam) Resolution() images.Label {
	return images.FormatLabel(w.width, w.height)
}

// Run reads frames from the device and publishes them until ctx is done or
// the device closes. Each frame is converted to I420 and copied out of the
// reused capture Mat before publishing, since the mailbox may hold it past
// this read.
func (w *Webcam) Run(ctx context.Context, box *Mailbox) error {
	img := gocv.NewMat()
	defer img.Close()
	yuv := gocv.NewMat()
	defer yuv.Close()

	var seq uint64
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if ok := w.cam.Read(&img); !ok {
			return errors.Errorf("video capture device %d closed", w.deviceID)
		}
		if img.Empty() {
			continue
		}

		gocv.CvtColor(img, &yuv, gocv.ColorBGRToYUVI420)
		data, err := yuv.DataPtrUint8()
		if err != nil {
			// Recoverable: abandon this frame, keep the stream alive.
			continue
		}

		width := img.Cols()
		height := img.Rows()
		ySize := width * height
		cSize := ySize / 4
		if len(data) < ySize+2*cSize {
			continue
		}

		planes := make([]byte, ySize+2*cSize)
		copy(planes, data[:ySize+2*cSize])

		seq++
		box.Publish(&RawFrame{
			Y:             planes[:ySize],
			U:             planes[ySize : ySize+cSize],
			V:             planes[ySize+cSize:],
			YStride:       width,
			UStride:       width / 2,
			VStride:       width / 2,
			UVPixelStride: 1,
			Width:         width,
			Height:        height,
			Rotation:      0, // webcams deliver upright frames
			Mirror:        w.mirror,
			Seq:           seq,
		})
	}
}

// Close releases the capture device.
func (w *Webcam) Close() error {
	return w.cam.Close()
}
