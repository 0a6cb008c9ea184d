package pipeline

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/camlab-ai/go-campipe/capture"
	"github.com/camlab-ai/go-campipe/common"
	"github.com/camlab-ai/go-campipe/face"
	"github.com/camlab-ai/go-campipe/filters"
	"github.com/camlab-ai/go-campipe/images"
	"github.com/camlab-ai/go-campipe/stats"
)

// State is the driver's lifecycle position.
type State int32

const (
	StateIdle State = iota
	StateBound
	StateRunning
	StateSuspended
)

// ObjectDetector is the object-detection capability boundary: it filters by
// class and confidence itself and answers with self-describing JSON records.
type ObjectDetector interface {
	Infer(frame *images.Frame, confidence, iou float32, activeClasses []int) ([]byte, error)
}

// Options carries the tunable pipeline settings. Mode and Filter can change
// at runtime through the driver; the rest is fixed per driver.
type Options struct {
	Mode   Mode
	Filter filters.Kind

	// DownsampleInference scales inference input down to WorkingWidth,
	// keeping the display at full normalized resolution.
	DownsampleInference bool
	WorkingWidth        int

	Confidence    float32
	IoU           float32
	ActiveClasses []int

	Logger *logrus.Logger
}

// Capabilities are the opaque boundary implementations the pipeline calls.
// Faces may be nil when face mode is never used.
type Capabilities struct {
	Filters filters.Applier
	Objects ObjectDetector
	Faces   face.Detector
}

// Driver sequences the stages once per incoming frame on one background
// worker, publishes copy-on-publish snapshots, and owns the buffer pool.
//
// Lifecycle: Idle -> Bind -> Start (Running) -> [Rebind: Suspended ->
// Running] -> Unbind -> Idle. Rebinding discards in-flight frames from the
// old binding; the epoch counter identifies late asynchronous face results
// from a superseded binding or mode so they can be dropped.
type Driver struct {
	mu    sync.Mutex
	state State

	mode      Mode
	filter    filters.Kind
	opts      Options
	caps      Capabilities
	pool      *images.Pool
	tracker   *stats.Tracker
	log       *logrus.Entry
	bindingID string

	epoch atomic.Uint64

	// Shared face-detection state, written by the capability's callback
	// goroutine and read by the worker at publish time.
	faceMu    sync.Mutex
	faceDets  []common.Detection
	faceSpace images.Label

	source capture.Source
	box    *capture.Mailbox
	cancel context.CancelFunc
	wg     sync.WaitGroup

	out chan Snapshot
}

// New creates an idle driver.
func New(opts Options, caps Capabilities) *Driver {
	logger := opts.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Driver{
		mode:    opts.Mode,
		filter:  opts.Filter,
		opts:    opts,
		caps:    caps,
		pool:    images.NewPool(),
		tracker: stats.New(),
		log:     logger.WithField("component", "pipeline"),
		out:     make(chan Snapshot, 1),
	}
}

// AttachFaceDetector wires the face capability in after construction. The
// capability's completion callback usually closes over this driver's
// OnFaceResult, so it cannot exist before the driver does.
func (d *Driver) AttachFaceDetector(det face.Detector) {
	d.mu.Lock()
	d.caps.Faces = det
	d.mu.Unlock()
}

// Bind attaches the driver to a capture source.
func (d *Driver) Bind(src capture.Source) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state != StateIdle {
		return errors.Errorf("cannot bind in state %d", d.state)
	}
	d.bindSourceLocked(src)
	d.state = StateBound
	return nil
}

// Start launches the source and worker goroutines.
func (d *Driver) Start() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state != StateBound {
		return errors.Errorf("cannot start in state %d", d.state)
	}
	d.startLocked()
	d.state = StateRunning
	return nil
}

// Rebind tears the current binding down and attaches a new source, as on a
// lens or capture-resolution change. Frames in flight from the old binding
// are discarded, buffers sized for it are released, and the epoch advances
// so any face result still pending for the old binding is rejected. From
// Suspended the driver resumes running on the new source.
func (d *Driver) Rebind(src capture.Source) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	switch d.state {
	case StateRunning, StateBound:
		wasRunning := d.state == StateRunning
		d.state = StateSuspended
		d.teardownBindingLocked()
		d.bindSourceLocked(src)
		if wasRunning {
			d.startLocked()
			d.state = StateRunning
		} else {
			d.state = StateBound
		}
	case StateSuspended:
		d.bindSourceLocked(src)
		d.startLocked()
		d.state = StateRunning
	default:
		return errors.Errorf("cannot rebind in state %d", d.state)
	}
	return nil
}

// Suspend halts the worker and detaches the capture source without leaving
// the lifecycle; Rebind resumes on a fresh source. When Suspend returns,
// the source goroutine has exited, so the caller may close the underlying
// device before opening its replacement.
func (d *Driver) Suspend() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state != StateRunning {
		return errors.Errorf("cannot suspend in state %d", d.state)
	}
	d.teardownBindingLocked()
	d.state = StateSuspended
	return nil
}

// Unbind stops the worker, releases all pool buffers, and closes the
// face-detection capability. Errors on release are best effort and never
// block shutdown.
func (d *Driver) Unbind() {
	d.mu.Lock()
	if d.state == StateIdle {
		d.mu.Unlock()
		return
	}
	d.teardownBindingLocked()
	faces := d.caps.Faces
	d.state = StateIdle
	d.mu.Unlock()

	// The capability close can wait on an in-flight detection pass; it runs
	// outside the driver lock so State and SetMode stay reachable.
	if faces == nil {
		return
	}
	if err := faces.Close(); err != nil {
		d.log.WithError(err).Debug("closing face capability")
	}
}

// SetMode switches the active processing branch. The epoch advances and
// the shared detection state clears, so a face result still outstanding for
// the previous mode can never appear in the new mode's detection list.
func (d *Driver) SetMode(m Mode) {
	d.mu.Lock()
	d.mode = m
	d.mu.Unlock()

	d.epoch.Add(1)
	d.clearFaceState()
	d.log.WithField("mode", m.String()).Info("mode switched")
}

// SetFilter selects the cosmetic filter for camera mode.
func (d *Driver) SetFilter(k filters.Kind) {
	d.mu.Lock()
	d.filter = k
	d.mu.Unlock()
}

// Snapshots delivers the latest published iteration. The channel holds at
// most one snapshot; a slow consumer sees the most recent one only.
func (d *Driver) Snapshots() <-chan Snapshot {
	return d.out
}

// Stats returns the tracker's current reading.
func (d *Driver) Stats() stats.Stats {
	return d.tracker.Snapshot()
}

// State reports the current lifecycle state.
func (d *Driver) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// Epoch exposes the current binding/mode generation.
func (d *Driver) Epoch() uint64 {
	return d.epoch.Load()
}

func (d *Driver) bindSourceLocked(src capture.Source) {
	d.source = src
	d.box = capture.NewMailbox()
	d.bindingID = uuid.NewString()
	d.log = d.log.Logger.WithFields(logrus.Fields{
		"component":  "pipeline",
		"binding":    d.bindingID,
		"resolution": string(src.Resolution()),
	})
	d.log.Info("bound capture source")
}

func (d *Driver) startLocked() {
	ctx, cancel := context.WithCancel(context.Background())
	d.cancel = cancel

	src, box := d.source, d.box
	d.wg.Add(2)
	go func() {
		defer d.wg.Done()
		if err := src.Run(ctx, box); err != nil && ctx.Err() == nil {
			// Binding errors are reported once; the pipeline stays idle
			// until a rebind is retried.
			d.log.WithError(err).Warn("capture source stopped")
		}
		box.Close()
	}()
	go func() {
		defer d.wg.Done()
		d.runWorker(box)
	}()
}

func (d *Driver) teardownBindingLocked() {
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	if d.box != nil {
		d.box.Close()
	}
	d.mu.Unlock()
	d.wg.Wait()
	d.mu.Lock()

	d.epoch.Add(1)
	d.clearFaceState()
	d.pool.Release()
	d.tracker.Reset()
	d.source = nil
	d.box = nil
	d.log.Info("binding released")
}

func (d *Driver) clearFaceState() {
	d.faceMu.Lock()
	d.faceDets = nil
	d.faceSpace = ""
	d.faceMu.Unlock()
}

func (d *Driver) runWorker(box *capture.Mailbox) {
	for {
		raw := box.Next()
		if raw == nil {
			return
		}
		d.process(raw)
	}
}

// process runs the fixed stage order for one frame: normalize, branch,
// publish, stats. Any recoverable stage error abandons the frame; nothing
// escapes the worker loop, a panicking native stage included.
func (d *Driver) process(raw *capture.RawFrame) {
	defer func() {
		if r := recover(); r != nil {
			d.log.WithField("panic", r).Error("stage panicked, frame abandoned")
		}
	}()

	start := time.Now()

	d.mu.Lock()
	mode, filter, faces := d.mode, d.filter, d.caps.Faces
	d.mu.Unlock()

	converted := d.pool.Get(images.SlotConverted, raw.Width, raw.Height)
	if err := images.ConvertYUV420(
		raw.Y, raw.YStride, raw.U, raw.UStride, raw.V, raw.VStride,
		raw.UVPixelStride, raw.Width, raw.Height, converted,
	); err != nil {
		d.log.WithError(err).Warn("color conversion failed, frame abandoned")
		return
	}

	uw, uh := images.OrientedDims(raw.Width, raw.Height, raw.Rotation)
	display := d.pool.Get(images.SlotNormalized, uw, uh)
	if err := images.Orient(converted, raw.Rotation, raw.Mirror, display); err != nil {
		d.log.WithError(err).Warn("orientation failed, frame abandoned")
		return
	}

	var dets []common.Detection
	workingLabel := display.Label()
	branch := Route(mode, filter != filters.Normal)

	switch branch {
	case BranchFilter:
		if err := d.caps.Filters.Apply(filter, display); err != nil {
			// Show the unfiltered frame rather than dropping it.
			d.log.WithError(err).WithField("filter", filter.String()).Warn("filter failed")
		}

	case BranchInference:
		working := display
		if d.opts.DownsampleInference {
			if tw, th, err := images.ScaledDims(uw, uh, d.opts.WorkingWidth); err == nil {
				working = d.pool.Get(images.SlotWorking, tw, th)
				if err := images.ScaleToWidth(display, d.opts.WorkingWidth, working); err != nil {
					d.log.WithError(err).Warn("downsample failed, using full frame")
					working = display
				}
			}
		}
		workingLabel = working.Label()
		payload, err := d.caps.Objects.Infer(working, d.opts.Confidence, d.opts.IoU, d.opts.ActiveClasses)
		if err != nil {
			d.log.WithError(err).Warn("inference failed, frame published without detections")
		} else {
			dets = parseDetections(payload)
		}

	case BranchFace:
		d.dispatchFace(faces, raw)
		dets, workingLabel = d.latestFaces()
		if workingLabel == "" {
			workingLabel = display.Label()
		}
	}

	d.publish(Snapshot{
		Image:             display.Clone(),
		Detections:        dets,
		CaptureResolution: images.FormatLabel(raw.Width, raw.Height),
		WorkingResolution: workingLabel,
		// Face boxes are produced from the unmirrored luma plane while the
		// display image already has the mirror baked in, so only the face
		// branch asks the overlay to reflect x-coordinates at mapping time.
		Mirror:            raw.Mirror && branch == BranchFace,
		Stats:             d.tracker.Snapshot(),
		Seq:               raw.Seq,
	})

	d.tracker.Observe(start, time.Now())
}

// dispatchFace hands the frame's luma to the face capability without
// blocking. The plane is repacked to stride == width and copied, since raw
// frame memory is only ours for this invocation.
func (d *Driver) dispatchFace(det face.Detector, raw *capture.RawFrame) {
	if det == nil {
		return
	}
	gray := make([]uint8, raw.Width*raw.Height)
	for r := 0; r < raw.Height; r++ {
		copy(gray[r*raw.Width:(r+1)*raw.Width], raw.Y[r*raw.YStride:])
	}
	det.Dispatch(face.Request{
		Gray:     gray,
		Width:    raw.Width,
		Height:   raw.Height,
		Rotation: raw.Rotation,
		Epoch:    d.epoch.Load(),
	})
}

// OnFaceResult is the face capability's completion callback. Results from
// a superseded epoch (mode switch, rebind, unbind) are discarded rather
// than applied to the new generation's detection state.
func (d *Driver) OnFaceResult(epoch uint64, upright images.Label, faces []face.Result) {
	if epoch != d.epoch.Load() {
		d.log.WithField("epoch", epoch).Debug("discarding stale face result")
		return
	}

	dets := make([]common.Detection, len(faces))
	for i, f := range faces {
		dets[i] = common.Detection{
			Label:      "face",
			Confidence: 1,
			Box: common.BoundingBox{
				X1: float32(f.Box.X1), Y1: float32(f.Box.Y1),
				X2: float32(f.Box.X2), Y2: float32(f.Box.Y2),
			},
			TrackingID: f.TrackingID,
		}
	}

	d.faceMu.Lock()
	defer d.faceMu.Unlock()
	// Recheck under the lock: SetMode or a rebind may have advanced the
	// epoch and cleared the state since the check above.
	if epoch != d.epoch.Load() {
		d.log.WithField("epoch", epoch).Debug("discarding stale face result")
		return
	}
	d.faceDets = dets
	d.faceSpace = upright
}

func (d *Driver) latestFaces() ([]common.Detection, images.Label) {
	d.faceMu.Lock()
	defer d.faceMu.Unlock()
	return append([]common.Detection(nil), d.faceDets...), d.faceSpace
}

// publish swaps the snapshot into the single-slot output channel: the
// consumer always finds the most recent completed iteration and the worker
// never blocks on it.
func (d *Driver) publish(s Snapshot) {
	for {
		select {
		case d.out <- s:
			return
		default:
		}
		select {
		case <-d.out:
		default:
		}
	}
}
