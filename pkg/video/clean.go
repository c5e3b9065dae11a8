package video

import (
	"errors"
	"fmt"
	"image"
	"math"

	"gocv.io/x/gocv"

	"github.com/plumelab/go-plume/internal/log"
)

// ErrEvenKernel is returned when a Gaussian kernel size is not odd.
var ErrEvenKernel = errors.New("video: gaussian kernel size must be odd")

// CleanConfig tunes the pre-tracking cleanup pipeline.
type CleanConfig struct {
	// Subtraction removes the median-free fixed background: the mean of
	// frames [BackgroundStart, BackgroundEnd] is subtracted from every
	// frame, clipping at zero. A negative end means the whole clip.
	Subtraction     bool
	BackgroundStart int
	BackgroundEnd   int

	// Spatial Gaussian blur, applied per frame.
	GaussSpace  bool
	SpaceKernel int
	SpaceSigmaX float64
	SpaceSigmaY float64

	// Temporal Gaussian blur, applied per pixel across frames with zero
	// padding at the clip ends.
	GaussTime  bool
	TimeKernel int
	TimeSigma  float64
}

// DefaultCleanConfig returns the cleanup used for the reference burn videos.
func DefaultCleanConfig() CleanConfig {
	return CleanConfig{
		Subtraction:   true,
		BackgroundEnd: -1,

		GaussSpace:  true,
		SpaceKernel: 81,
		SpaceSigmaX: 15,
		SpaceSigmaY: 15,

		GaussTime:  true,
		TimeKernel: 5,
		TimeSigma:  1,
	}
}

// Validate reports configuration errors.
func (c CleanConfig) Validate() error {
	if c.GaussSpace && c.SpaceKernel%2 == 0 {
		return fmt.Errorf("%w: space kernel %d", ErrEvenKernel, c.SpaceKernel)
	}
	if c.GaussTime && c.TimeKernel%2 == 0 {
		return fmt.Errorf("%w: time kernel %d", ErrEvenKernel, c.TimeKernel)
	}
	if c.GaussSpace && (c.SpaceKernel < 1 || c.SpaceSigmaX <= 0) {
		return fmt.Errorf("space blur needs a positive kernel and sigma, got %d/%g", c.SpaceKernel, c.SpaceSigmaX)
	}
	if c.GaussTime && (c.TimeKernel < 1 || c.TimeSigma <= 0) {
		return fmt.Errorf("time blur needs a positive kernel and sigma, got %d/%g", c.TimeKernel, c.TimeSigma)
	}
	return nil
}

// Clean runs the configured cleanup stages over the frames in place.
func Clean(frames []gocv.Mat, cfg CleanConfig) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("clean config: %w", err)
	}
	if len(frames) == 0 {
		return errors.New("video: no frames to clean")
	}
	done := log.Stage("clean_video", "frames", len(frames))
	defer done()

	if cfg.Subtraction {
		if err := subtractBackground(frames, cfg.BackgroundStart, cfg.BackgroundEnd); err != nil {
			return err
		}
	}
	if cfg.GaussSpace {
		k := image.Pt(cfg.SpaceKernel, cfg.SpaceKernel)
		for i := range frames {
			gocv.GaussianBlur(frames[i], &frames[i], k, cfg.SpaceSigmaX, cfg.SpaceSigmaY, gocv.BorderDefault)
		}
	}
	if cfg.GaussTime {
		if err := timeBlur(frames, cfg.TimeKernel, cfg.TimeSigma); err != nil {
			return err
		}
	}
	return nil
}

// subtractBackground subtracts the pixelwise mean of the fixed range from
// every frame, clipping at zero.
func subtractBackground(frames []gocv.Mat, start, end int) error {
	if end < 0 || end >= len(frames) {
		end = len(frames) - 1
	}
	if start < 0 || start > end {
		return fmt.Errorf("video: bad background range %d:%d for %d frames", start, end, len(frames))
	}

	first, err := frames[0].DataPtrUint8()
	if err != nil {
		return fmt.Errorf("video: frame buffer: %w", err)
	}
	bg := make([]float64, len(first))
	n := float64(end - start + 1)
	for i := start; i <= end; i++ {
		pix, err := frames[i].DataPtrUint8()
		if err != nil {
			return fmt.Errorf("video: frame %d buffer: %w", i, err)
		}
		for j, v := range pix {
			bg[j] += float64(v) / n
		}
	}

	for i := range frames {
		pix, err := frames[i].DataPtrUint8()
		if err != nil {
			return fmt.Errorf("video: frame %d buffer: %w", i, err)
		}
		for j := range pix {
			d := float64(pix[j]) - bg[j]
			if d < 0 {
				d = 0
			}
			pix[j] = uint8(d + 0.5)
		}
	}
	return nil
}

// timeBlur convolves each pixel's time series with a Gaussian kernel,
// treating frames beyond the clip as black.
func timeBlur(frames []gocv.Mat, kernel int, sigma float64) error {
	radius := kernel / 2
	weights := make([]float64, kernel)
	var sum float64
	for i := range weights {
		d := float64(i - radius)
		weights[i] = math.Exp(-d * d / (2 * sigma * sigma))
		sum += weights[i]
	}
	for i := range weights {
		weights[i] /= sum
	}

	orig := make([][]uint8, len(frames))
	for i := range frames {
		pix, err := frames[i].DataPtrUint8()
		if err != nil {
			return fmt.Errorf("video: frame %d buffer: %w", i, err)
		}
		orig[i] = append([]uint8(nil), pix...)
	}

	for i := range frames {
		pix, err := frames[i].DataPtrUint8()
		if err != nil {
			return fmt.Errorf("video: frame %d buffer: %w", i, err)
		}
		for j := range pix {
			var acc float64
			for k, w := range weights {
				src := i + k - radius
				if src < 0 || src >= len(orig) {
					continue
				}
				acc += w * float64(orig[src][j])
			}
			pix[j] = uint8(acc + 0.5)
		}
	}
	return nil
}
