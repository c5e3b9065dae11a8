// Package detection finds plume contours in grayscale frames using
// threshold segmentation.
package detection

import (
	"fmt"

	"gocv.io/x/gocv"

	"github.com/plumelab/go-plume/pkg/plume"
)

// Detector is the interface for contour detection backends.
type Detector interface {
	// Detect segments the grayscale frame and returns its contours,
	// largest first. An empty set means the frame has no detectable
	// plume, not an error.
	Detect(img gocv.Mat) (plume.ContourSet, error)

	// Close releases resources.
	Close() error
}

// Config holds detector configuration.
type Config struct {
	// NumContours caps how many contours are kept, ranked by area.
	NumContours int
	// Threshold is the binarization level. Zero selects Otsu's method.
	Threshold float64
	// Smoothing simplifies each contour with Douglas-Peucker at
	// SmoothingEps before returning it.
	Smoothing    bool
	SmoothingEps float64
}

// DefaultConfig returns production defaults: the single largest contour
// from an Otsu threshold, unsimplified.
func DefaultConfig() Config {
	return Config{
		NumContours:  1,
		SmoothingEps: 50,
	}
}

// Validate reports configuration errors.
func (c Config) Validate() error {
	if c.NumContours < 1 {
		return fmt.Errorf("at least one contour required, got %d", c.NumContours)
	}
	if c.Threshold < 0 || c.Threshold > 255 {
		return fmt.Errorf("threshold must be in [0, 255], got %g", c.Threshold)
	}
	if c.Smoothing && c.SmoothingEps <= 0 {
		return fmt.Errorf("smoothing epsilon must be positive, got %g", c.SmoothingEps)
	}
	return nil
}
