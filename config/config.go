// Package config loads and validates the YAML configuration file that
// selects the capture device, processing mode, model paths and tuning
// thresholds.
package config

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/camlab-ai/go-campipe/filters"
	"github.com/camlab-ai/go-campipe/images"
	"github.com/camlab-ai/go-campipe/pipeline"
)

// Config is the full application configuration.
type Config struct {
	Capture   CaptureConfig   `yaml:"capture"`
	Pipeline  PipelineConfig  `yaml:"pipeline"`
	Detection DetectionConfig `yaml:"detection"`
	Face      FaceConfig      `yaml:"face"`
	Log       LogConfig       `yaml:"log"`
}

// CaptureConfig selects the camera device and its negotiated resolution.
type CaptureConfig struct {
	// Device is a V4L2 index ("0") or a stream URL.
	Device     string `yaml:"device"`
	Resolution string `yaml:"resolution"`
	// Mirror marks a user-facing lens whose display is flipped.
	Mirror bool `yaml:"mirror"`
}

// PipelineConfig selects the processing branch and display filter.
type PipelineConfig struct {
	Mode   string `yaml:"mode"`   // camera, objects, faces
	Filter string `yaml:"filter"` // normal, beauty, gray, ...

	// DownsampleInference runs object detection on a scaled-down copy of
	// the frame while the display keeps the full resolution.
	DownsampleInference bool `yaml:"downsample_inference"`
	WorkingWidth        int  `yaml:"working_width"`
}

// DetectionConfig tunes the object-detection capability.
type DetectionConfig struct {
	ModelPath   string   `yaml:"model_path"`
	LibraryPath string   `yaml:"library_path"`
	Confidence  float32  `yaml:"confidence"`
	IoU         float32  `yaml:"iou"`
	Classes     []string `yaml:"classes,omitempty"` // empty = all
}

// FaceConfig tunes the face-detection capability.
type FaceConfig struct {
	CascadePath string `yaml:"cascade_path"`
}

// LogConfig controls log output.
type LogConfig struct {
	Level string `yaml:"level"`
}

// Defaults returns a configuration with every tunable at its default.
func Defaults() Config {
	return Config{
		Capture: CaptureConfig{
			Device:     "0",
			Resolution: "1280x720",
		},
		Pipeline: PipelineConfig{
			Mode:         "camera",
			Filter:       "normal",
			WorkingWidth: 640,
		},
		Detection: DetectionConfig{
			Confidence: 0.25,
			IoU:        0.45,
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load reads a YAML file over Defaults and validates the result.
func Load(path string) (Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrap(err, "reading config file")
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrap(err, "parsing config file")
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks every enumerated and numeric field. Unknown mode or
// filter names are rejected rather than degraded to a default.
func (c *Config) Validate() error {
	if _, _, err := images.Label(c.Capture.Resolution).Parse(); err != nil {
		return errors.Wrapf(err, "capture.resolution %q", c.Capture.Resolution)
	}
	if _, err := pipeline.ParseMode(c.Pipeline.Mode); err != nil {
		return errors.Wrap(err, "pipeline.mode")
	}
	if _, err := filters.Parse(c.Pipeline.Filter); err != nil {
		return errors.Wrap(err, "pipeline.filter")
	}
	if c.Pipeline.WorkingWidth <= 0 {
		return errors.Errorf("pipeline.working_width must be positive, got %d", c.Pipeline.WorkingWidth)
	}
	if c.Detection.Confidence < 0 || c.Detection.Confidence > 1 {
		return errors.Errorf("detection.confidence must be in [0,1], got %v", c.Detection.Confidence)
	}
	if c.Detection.IoU <= 0 || c.Detection.IoU > 1 {
		return errors.Errorf("detection.iou must be in (0,1], got %v", c.Detection.IoU)
	}
	return nil
}
