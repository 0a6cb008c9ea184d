// Package onnx implements the object-detection capability on ONNX Runtime.
// The detector takes a working frame plus per-call thresholds and returns a
// self-describing JSON array of detection records; class and confidence
// filtering happen here, on the capability side of the boundary.
package onnx

import (
	"image"

	"github.com/pkg/errors"
)

// Config for the detector session.
type Config struct {
	// ModelPath points at a YOLO-family ONNX export.
	ModelPath string `yaml:"model"`

	// LibraryPath points at the ONNX Runtime shared library. Empty uses the
	// loader default.
	LibraryPath string `yaml:"library"`

	// InputShape is the model's input resolution.
	InputShape image.Point `yaml:"-"`

	// InputName/OutputName are the model's tensor names.
	InputName  string `yaml:"input"`
	OutputName string `yaml:"output"`

	// Labels is the class catalog; defaults to the COCO 80 classes.
	Labels []string `yaml:"-"`
}

func (c *Config) applyDefaults() error {
	if c.ModelPath == "" {
		return errors.New("model path is required")
	}
	if c.InputShape.X <= 0 || c.InputShape.Y <= 0 {
		c.InputShape = image.Point{X: 640, Y: 640}
	}
	if c.InputName == "" {
		c.InputName = "images"
	}
	if c.OutputName == "" {
		c.OutputName = "output0"
	}
	if len(c.Labels) == 0 {
		c.Labels = COCOClasses
	}
	return nil
}
