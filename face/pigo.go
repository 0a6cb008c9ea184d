package face

import (
	"os"
	"sync"

	pigo "github.com/esimov/pigo/core"
	"github.com/pkg/errors"

	"github.com/camlab-ai/go-campipe/images"
)

const (
	minFaceSize   = 60
	shiftFactor   = 0.1
	scaleFactor   = 1.1
	clusterIoU    = 0.2
	qualityCutoff = 5.0
)

// Pigo implements the face capability with the pigo cascade classifier.
// One worker goroutine serves requests; Dispatch never blocks, and at most
// one request waits behind the one being processed.
type Pigo struct {
	classifier *pigo.Pigo
	cb         Callback
	tracker    tracker

	reqs chan Request
	quit chan struct{}
	wg   sync.WaitGroup

	closeOnce sync.Once
}

// NewPigo loads the binary cascade file and starts the worker.
func NewPigo(cascadePath string, cb Callback) (*Pigo, error) {
	cascade, err := os.ReadFile(cascadePath)
	if err != nil {
		return nil, errors.Wrapf(err, "reading cascade file %s", cascadePath)
	}
	classifier, err := pigo.NewPigo().Unpack(cascade)
	if err != nil {
		return nil, errors.Wrapf(err, "unpacking cascade file %s", cascadePath)
	}

	p := &Pigo{
		classifier: classifier,
		cb:         cb,
		reqs:       make(chan Request, 1),
		quit:       make(chan struct{}),
	}
	p.wg.Add(1)
	go p.worker()
	return p, nil
}

// Dispatch queues one frame, dropping it when the worker is saturated.
func (p *Pigo) Dispatch(req Request) bool {
	select {
	case <-p.quit:
		return false
	default:
	}
	select {
	case p.reqs <- req:
		return true
	default:
		return false
	}
}

// Close stops the worker and waits for it, so the callback cannot fire
// afterwards.
func (p *Pigo) Close() error {
	p.closeOnce.Do(func() {
		close(p.quit)
		p.wg.Wait()
	})
	return nil
}

func (p *Pigo) worker() {
	defer p.wg.Done()
	for {
		select {
		case <-p.quit:
			return
		case req := <-p.reqs:
			p.detect(req)
		}
	}
}

func (p *Pigo) detect(req Request) {
	gray, w, h, err := images.OrientGray(req.Gray, req.Width, req.Height, req.Rotation)
	if err != nil {
		// Bad rotation metadata costs this frame's faces, nothing else.
		return
	}

	maxSize := min(w, h)
	if maxSize < minFaceSize {
		p.deliver(req.Epoch, w, h, nil)
		return
	}

	dets := p.classifier.RunCascade(pigo.CascadeParams{
		MinSize:     minFaceSize,
		MaxSize:     maxSize,
		ShiftFactor: shiftFactor,
		ScaleFactor: scaleFactor,
		ImageParams: pigo.ImageParams{
			Pixels: gray,
			Rows:   h,
			Cols:   w,
			Dim:    w,
		},
	}, 0.0)
	dets = p.classifier.ClusterDetections(dets, clusterIoU)

	faces := make([]Result, 0, len(dets))
	for _, d := range dets {
		if d.Q < qualityCutoff {
			continue
		}
		half := d.Scale / 2
		faces = append(faces, Result{
			Box:     images.RectFromXYWH(d.Col-half, d.Row-half, d.Scale, d.Scale),
			Quality: d.Q,
		})
	}
	p.deliver(req.Epoch, w, h, faces)
}

func (p *Pigo) deliver(epoch uint64, w, h int, faces []Result) {
	p.tracker.assign(faces)
	select {
	case <-p.quit:
	default:
		p.cb(epoch, images.FormatLabel(w, h), faces)
	}
}
