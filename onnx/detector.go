package onnx

import (
	"image"
	"os"
	"sync"

	"github.com/nfnt/resize"
	"github.com/pkg/errors"
	ort "github.com/yalue/onnxruntime_go"
	"gorgonia.org/tensor"

	"github.com/camlab-ai/go-campipe/images"
)

var (
	ortInitOnce sync.Once
	ortInitErr  error
)

func initRuntime(libraryPath string) error {
	ortInitOnce.Do(func() {
		if libraryPath != "" {
			ort.SetSharedLibraryPath(libraryPath)
		}
		ortInitErr = ort.InitializeEnvironment()
	})
	return ortInitErr
}

// Detector holds one ONNX Runtime session and the scratch pixel buffer it
// reuses across frames. A Detector is confined to the pipeline worker; the
// mutex only guards Close racing a late Infer.
type Detector struct {
	cfg     Config
	session *ort.DynamicAdvancedSession
	pixels  []float32 // interleaved HWC scratch, retensorized per frame
	mu      sync.Mutex
	closed  bool
}

// NewDetector loads the model and prepares a session.
func NewDetector(cfg Config) (*Detector, error) {
	if err := cfg.applyDefaults(); err != nil {
		return nil, err
	}
	if _, err := os.Stat(cfg.ModelPath); err != nil {
		return nil, errors.Wrapf(err, "model file %s", cfg.ModelPath)
	}
	if err := initRuntime(cfg.LibraryPath); err != nil {
		return nil, errors.Wrap(err, "initializing onnxruntime")
	}

	session, err := ort.NewDynamicAdvancedSession(
		cfg.ModelPath,
		[]string{cfg.InputName},
		[]string{cfg.OutputName},
		nil,
	)
	if err != nil {
		return nil, errors.Wrapf(err, "creating session for %s", cfg.ModelPath)
	}

	return &Detector{
		cfg:     cfg,
		session: session,
		pixels:  make([]float32, 3*cfg.InputShape.X*cfg.InputShape.Y),
	}, nil
}

// Infer runs the model on the working frame and returns the detections
// that pass the confidence threshold, survive suppression at the IoU
// threshold, and belong to the active class set, serialized as a JSON
// array of records. Boxes are in the working frame's pixel space.
func (d *Detector) Infer(frame *images.Frame, confidence, iou float32, activeClasses []int) ([]byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil, errors.New("detector is closed")
	}

	chw, err := d.preprocess(frame)
	if err != nil {
		return nil, errors.Wrap(err, "preparing model input")
	}

	in, err := ort.NewTensor(ort.NewShape(1, 3, int64(d.cfg.InputShape.Y), int64(d.cfg.InputShape.X)), chw)
	if err != nil {
		return nil, errors.Wrap(err, "building input tensor")
	}
	defer in.Destroy()

	outputs := []ort.Value{nil}
	if err := d.session.Run([]ort.Value{in}, outputs); err != nil {
		return nil, errors.Wrap(err, "running inference")
	}
	out, ok := outputs[0].(*ort.Tensor[float32])
	if !ok {
		return MarshalRecords(nil)
	}
	defer out.Destroy()

	var active map[int]bool
	if activeClasses != nil {
		active = make(map[int]bool, len(activeClasses))
		for _, c := range activeClasses {
			active[c] = true
		}
	}

	dets := DecodeOutput(
		out.GetData(),
		out.GetShape(),
		d.cfg.Labels,
		confidence,
		active,
		float32(frame.Width)/float32(d.cfg.InputShape.X),
		float32(frame.Height)/float32(d.cfg.InputShape.Y),
	)
	dets = NonMaxSuppression(dets, iou)
	return MarshalRecords(dets)
}

// preprocess resizes the frame to the model input resolution and hands the
// pixels to packCHW for layout and normalization.
func (d *Detector) preprocess(frame *images.Frame) ([]float32, error) {
	w, h := d.cfg.InputShape.X, d.cfg.InputShape.Y
	img := resize.Resize(uint(w), uint(h), frame.RGBA(), resize.Lanczos3)
	return packCHW(img, w, h, d.pixels)
}

// packCHW flattens the image into the HWC scratch, then transposes it into
// planar CHW float32 channels normalized to [0,1]. The returned slice aliases
// the scratch and is valid until the next call with the same scratch.
func packCHW(img image.Image, w, h int, pixels []float32) ([]float32, error) {
	i := 0
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			pixels[i] = float32(r >> 8)
			pixels[i+1] = float32(g >> 8)
			pixels[i+2] = float32(b >> 8)
			i += 3
		}
	}

	hwc := tensor.New(tensor.WithShape(h, w, 3), tensor.WithBacking(pixels))
	if err := hwc.T(2, 0, 1); err != nil {
		return nil, errors.Wrap(err, "transposing input to CHW")
	}
	if err := hwc.Transpose(); err != nil {
		return nil, errors.Wrap(err, "materializing CHW input")
	}
	scaled, err := hwc.DivScalar(float32(255), true, tensor.UseUnsafe())
	if err != nil {
		return nil, errors.Wrap(err, "normalizing input")
	}
	return scaled.Data().([]float32), nil
}

// Labels returns the detector's class catalog.
func (d *Detector) Labels() []string {
	return d.cfg.Labels
}

// Close destroys the session. Best effort, safe to call twice.
func (d *Detector) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil
	}
	d.closed = true
	return d.session.Destroy()
}
