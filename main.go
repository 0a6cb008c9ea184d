package main

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/sirupsen/logrus"
	"gocv.io/x/gocv"

	"github.com/camlab-ai/go-campipe/capture"
	"github.com/camlab-ai/go-campipe/config"
	"github.com/camlab-ai/go-campipe/face"
	"github.com/camlab-ai/go-campipe/filters"
	"github.com/camlab-ai/go-campipe/images"
	"github.com/camlab-ai/go-campipe/onnx"
	"github.com/camlab-ai/go-campipe/overlay"
	"github.com/camlab-ai/go-campipe/pipeline"
)

func main() {
	var (
		configPath string
		mode       string
		filter     string
		device     string
		resolution string
		mirror     bool
		modelPath  string
		cascade    string
		showWindow bool
		adaptive   bool
	)
	flag.StringVar(&configPath, "config", "", "Path to YAML config file (flags override it)")
	flag.StringVar(&mode, "mode", "", "Processing mode: camera, objects, faces")
	flag.StringVar(&filter, "filter", "", "Display filter: "+strings.Join(filters.Names(), ", "))
	flag.StringVar(&device, "device", "", "Capture device index")
	flag.StringVar(&resolution, "resolution", "", "Requested capture resolution, e.g. 1280x720")
	flag.BoolVar(&mirror, "mirror", false, "Mirror the display horizontally (user-facing lens)")
	flag.StringVar(&modelPath, "model", "", "Path to object-detection ONNX model")
	flag.StringVar(&cascade, "cascade", "", "Path to face cascade file")
	flag.BoolVar(&showWindow, "show-window", false, "Show the annotated video window")
	flag.BoolVar(&adaptive, "adaptive", false, "Step the capture resolution down or up with pipeline load")
	flag.Parse()

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg := config.Defaults()
	if configPath != "" {
		var err error
		if cfg, err = config.Load(configPath); err != nil {
			log.WithError(err).Fatal("loading configuration")
		}
	}
	applyFlagOverrides(&cfg, mode, filter, device, resolution, mirror, modelPath, cascade)
	if err := cfg.Validate(); err != nil {
		log.WithError(err).Fatal("invalid configuration")
	}

	if level, err := logrus.ParseLevel(cfg.Log.Level); err == nil {
		log.SetLevel(level)
	}

	runMode, _ := pipeline.ParseMode(cfg.Pipeline.Mode)
	runFilter, _ := filters.Parse(cfg.Pipeline.Filter)

	applier := filters.NewOpenCV()
	defer applier.Close()

	caps := pipeline.Capabilities{Filters: applier}
	if cfg.Detection.ModelPath != "" {
		det, err := onnx.NewDetector(onnx.Config{
			ModelPath:   cfg.Detection.ModelPath,
			LibraryPath: cfg.Detection.LibraryPath,
		})
		if err != nil {
			log.WithError(err).Fatal("initializing object detector")
		}
		defer det.Close()
		caps.Objects = det
		log.WithField("model", cfg.Detection.ModelPath).Info("object detector ready")
	} else if runMode == pipeline.ModeObjects {
		log.Fatal("objects mode requires -model or detection.model_path")
	}

	driver := pipeline.New(pipeline.Options{
		Mode:                runMode,
		Filter:              runFilter,
		DownsampleInference: cfg.Pipeline.DownsampleInference,
		WorkingWidth:        cfg.Pipeline.WorkingWidth,
		Confidence:          cfg.Detection.Confidence,
		IoU:                 cfg.Detection.IoU,
		ActiveClasses:       activeClasses(caps.Objects, cfg.Detection.Classes),
		Logger:              log,
	}, caps)

	if cfg.Face.CascadePath != "" {
		faceDet, err := face.NewPigo(cfg.Face.CascadePath, driver.OnFaceResult)
		if err != nil {
			log.WithError(err).Fatal("initializing face detector")
		}
		driver.AttachFaceDetector(faceDet)
		log.WithField("cascade", cfg.Face.CascadePath).Info("face detector ready")
	} else if runMode == pipeline.ModeFaces {
		log.Fatal("faces mode requires -cascade or face.cascade_path")
	}

	deviceID, err := strconv.Atoi(cfg.Capture.Device)
	if err != nil {
		log.WithField("device", cfg.Capture.Device).Fatal("capture device must be a numeric index")
	}
	cam, err := capture.OpenWebcam(deviceID, images.Label(cfg.Capture.Resolution), cfg.Capture.Mirror)
	if err != nil {
		log.WithError(err).Fatal("opening capture device")
	}
	defer func() { cam.Close() }()

	if err := driver.Bind(cam); err != nil {
		log.WithError(err).Fatal("binding capture source")
	}
	if err := driver.Start(); err != nil {
		log.WithError(err).Fatal("starting pipeline")
	}
	defer driver.Unbind()

	log.WithFields(logrus.Fields{
		"mode":       runMode.String(),
		"filter":     runFilter.String(),
		"resolution": string(cam.Resolution()),
		"mirror":     cfg.Capture.Mirror,
	}).Info("pipeline running")

	var picker *capture.Picker
	if adaptive {
		picker = capture.NewPicker(images.CommonCaptureLabels, cam.Resolution(), 15, 28, 30)
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	var window *gocv.Window
	if showWindow {
		window = gocv.NewWindow("campipe")
		defer window.Close()
	}

	for {
		select {
		case <-sig:
			log.Info("shutting down")
			return
		case snap := <-driver.Snapshots():
			printStatus(snap)
			if picker != nil {
				if label, changed := picker.Observe(snap.Stats.FramesPerSecond); changed {
					cam = rebindAt(log, driver, cam, deviceID, label, cfg.Capture.Mirror)
				}
			}
			if window != nil {
				show(window, snap)
				if window.WaitKey(1) == 27 { // Esc
					log.Info("window closed")
					return
				}
			}
		}
	}
}

var overlayTextColor = color.RGBA{255, 255, 255, 0}

// rebindAt renegotiates the capture binding at a new resolution. The
// pipeline is suspended first so no goroutine is still reading the device
// when its handle is released; the device itself is closed before reopening,
// since most backends refuse a second handle. When the new resolution cannot
// be negotiated the previous one is restored.
func rebindAt(log *logrus.Logger, driver *pipeline.Driver, cam *capture.Webcam, deviceID int, label images.Label, mirror bool) *capture.Webcam {
	previous := cam.Resolution()
	if err := driver.Suspend(); err != nil {
		log.WithError(err).Warn("suspending pipeline, keeping current resolution")
		return cam
	}
	cam.Close()

	next, err := capture.OpenWebcam(deviceID, label, mirror)
	if err != nil {
		log.WithError(err).Warn("reopening capture device, restoring previous resolution")
		if next, err = capture.OpenWebcam(deviceID, previous, mirror); err != nil {
			log.WithError(err).Fatal("capture device lost")
		}
	}
	if err := driver.Rebind(next); err != nil {
		log.WithError(err).Fatal("rebinding capture source")
	}
	log.WithField("resolution", string(next.Resolution())).Info("capture resolution adapted")
	return next
}

func applyFlagOverrides(cfg *config.Config, mode, filter, device, resolution string, mirror bool, modelPath, cascade string) {
	if mode != "" {
		cfg.Pipeline.Mode = mode
	}
	if filter != "" {
		cfg.Pipeline.Filter = filter
	}
	if device != "" {
		cfg.Capture.Device = device
	}
	if resolution != "" {
		cfg.Capture.Resolution = resolution
	}
	if mirror {
		cfg.Capture.Mirror = true
	}
	if modelPath != "" {
		cfg.Detection.ModelPath = modelPath
	}
	if cascade != "" {
		cfg.Face.CascadePath = cascade
	}
}

// activeClasses resolves configured class names against the detector's label
// set. Nil means all classes.
func activeClasses(det pipeline.ObjectDetector, names []string) []int {
	if det == nil || len(names) == 0 {
		return nil
	}
	d, ok := det.(*onnx.Detector)
	if !ok {
		return nil
	}
	return onnx.ClassIndices(d.Labels(), names)
}

func printStatus(snap pipeline.Snapshot) {
	line := fmt.Sprintf("[Frame %d] FPS: %.1f | Latency: %dms | Capture: %s | Working: %s",
		snap.Seq, snap.Stats.FramesPerSecond, snap.Stats.LastLatencyMillis,
		snap.CaptureResolution, snap.WorkingResolution)
	if len(snap.Detections) > 0 {
		names := make([]string, len(snap.Detections))
		for i, d := range snap.Detections {
			names[i] = d.Label
		}
		line += " | Detections: " + strings.Join(names, ", ")
	}
	fmt.Println(line)
}

// show converts the snapshot's RGBA frame to a BGR Mat, draws mapped
// detection boxes and a stats caption, and displays it.
func show(window *gocv.Window, snap pipeline.Snapshot) {
	rgba, err := gocv.NewMatFromBytes(snap.Image.Height, snap.Image.Width,
		gocv.MatTypeCV8UC4, snap.Image.Pix)
	if err != nil {
		return
	}
	defer rgba.Close()

	bgr := gocv.NewMat()
	defer bgr.Close()
	gocv.CvtColor(rgba, &bgr, gocv.ColorRGBAToBGR)

	if t, ok := overlay.Fit(snap.WorkingResolution, snap.Image.Width, snap.Image.Height); ok {
		overlay.Annotate(&bgr, snap.Detections, t, snap.Mirror)
	}
	caption := fmt.Sprintf("FPS: %.1f | %dms", snap.Stats.FramesPerSecond, snap.Stats.LastLatencyMillis)
	gocv.PutText(&bgr, caption, image.Pt(10, 30), gocv.FontHersheyPlain, 1.2,
		overlayTextColor, 2)

	window.IMShow(bgr)
}
