// Package plume defines the data types exchanged between the ring tracker,
// the regression library and the ROM session: grayscale frames, contour
// polylines and the canonical (radius, x, y) point sets.
package plume

import (
	"image"
	"math"
)

// Point is one tracked sample in the canonical (radius, x, y) form. R is the
// ring radius the sample was found on, X/Y its position in frame coordinates.
type Point struct {
	R, X, Y float64
}

// Points is an ordered set of tracked points for a single frame.
type Points []Point

// Copy returns a deep copy. Regression callers rely on fits never mutating
// their inputs, so anything that needs to modify points copies first.
func (p Points) Copy() Points {
	out := make(Points, len(p))
	copy(out, p)
	return out
}

// XY returns the x and y columns as separate slices.
func (p Points) XY() (xs, ys []float64) {
	xs = make([]float64, len(p))
	ys = make([]float64, len(p))
	for i, pt := range p {
		xs[i] = pt.X
		ys[i] = pt.Y
	}
	return xs, ys
}

// FramePoints pairs a frame index with the points extracted from that frame.
type FramePoints struct {
	Frame  int
	Points Points
}

// CoefficientSeries stacks one regressed coefficient row per frame, in frame
// order. A row is all-NaN when that frame's system was under-determined.
type CoefficientSeries [][]float64

// NaNRow reports whether row i is the all-NaN marker of a degenerate frame.
func (s CoefficientSeries) NaNRow(i int) bool {
	for _, v := range s[i] {
		if !math.IsNaN(v) {
			return false
		}
	}
	return len(s[i]) > 0
}

// Contour is a closed polyline of integer frame coordinates, as produced by
// the contour detector. The closing edge is implicit.
type Contour []image.Point

// ContourSet is the detector output for one frame, largest contour first.
type ContourSet []Contour

// Frame is a read-only grayscale intensity buffer.
type Frame struct {
	Pix    []uint8
	Width  int
	Height int
}

// NewFrame wraps a row-major pixel buffer. The buffer is borrowed, not copied.
func NewFrame(pix []uint8, width, height int) *Frame {
	return &Frame{Pix: pix, Width: width, Height: height}
}

// At returns the intensity at column x, row y.
func (f *Frame) At(x, y int) uint8 {
	return f.Pix[y*f.Width+x]
}

// TimedDistances pairs a frame index with that frame's flattened
// (radius, distance) edge deviations.
type TimedDistances struct {
	Frame int
	RD    [][2]float64
}
