// Package tracking implements the per-frame concentric-ring intensity search
// that extracts a plume's centerline and lateral edge points from a grayscale
// frame and its contours.
package tracking

import (
	"errors"
	"fmt"
	"math"

	"github.com/plumelab/go-plume/pkg/geom"
	"github.com/plumelab/go-plume/pkg/plume"
	"github.com/plumelab/go-plume/pkg/regression"
)

// ErrOriginUnset is returned by Track when no plume source has been declared.
var ErrOriginUnset = errors.New("tracking: origin not set; call SetOrigin before Track")

// Result is the output of tracking a single frame.
type Result struct {
	// MeanPath holds the origin at index 0 followed by one accepted point
	// per searched ring, radius k·Δr. A halted search yields a shorter
	// path; indices past the halt are absent, never extrapolated.
	MeanPath plume.Points

	// EdgeAbove and EdgeBelow hold one representative contour point per
	// ring and side of the fitted mean curve. Rings without an
	// intersection on a side contribute no entry.
	EdgeAbove plume.Points
	EdgeBelow plume.Points

	// MeanCoef are the descending-order coefficients of the degree-PolyDeg
	// polynomial fitted to the mean path.
	MeanCoef []float64
}

// Tracker runs the ring search for a fixed plume source.
type Tracker struct {
	cfg       Config
	origin    geom.Point
	originSet bool
}

// New creates a tracker with the given configuration.
func New(cfg Config) (*Tracker, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("tracking config: %w", err)
	}
	return &Tracker{cfg: cfg}, nil
}

// SetOrigin declares the plume source. It must be called before Track and is
// fixed for the tracking session.
func (t *Tracker) SetOrigin(p geom.Point) {
	t.origin = p
	t.originSet = true
}

// Origin returns the declared plume source.
func (t *Tracker) Origin() (geom.Point, bool) {
	return t.origin, t.originSet
}

// Track runs the concentric-ring search on one frame. The frame and contours
// are borrowed for the duration of the call only.
func (t *Tracker) Track(frame *plume.Frame, contours plume.ContourSet) (Result, error) {
	if !t.originSet {
		return Result{}, ErrOriginUnset
	}
	cfg := t.cfg

	mean := plume.Points{{R: 0, X: t.origin.X, Y: t.origin.Y}}

	// Ring 1: global intensity maximum on the boundary ring.
	prev, ok := t.maxOnRing(frame, t.origin, cfg.RingSpacing, nil, 0)
	if ok {
		mean = append(mean, plume.Point{R: cfg.RingSpacing, X: prev.X, Y: prev.Y})
	}

	// Rings 2..N: boundary test against the origin plus a locality
	// constraint against the previously accepted point. An empty candidate
	// set halts the search; later rings stay unset.
	for k := 2; ok && k <= cfg.NumRings; k++ {
		r := cfg.RingSpacing * float64(k)
		var next geom.Point
		next, ok = t.maxOnRing(frame, t.origin, r, &prev, r*cfg.InteriorScale)
		if !ok {
			break
		}
		mean = append(mean, plume.Point{R: r, X: next.X, Y: next.Y})
		prev = next
	}

	if cfg.MeanSmoothing {
		smoothMeanY(mean, cfg.MeanSmoothingSigma)
	}

	xs, ys := mean.XY()
	coef, err := regression.Polynomial(xs, ys, cfg.PolyDeg)
	if err != nil {
		return Result{}, fmt.Errorf("mean curve fit: %w", err)
	}

	above, below := t.splitEdgePoints(contours, coef)

	return Result{
		MeanPath:  mean,
		EdgeAbove: above,
		EdgeBelow: below,
		MeanCoef:  coef,
	}, nil
}

// onRing is the ring-membership test shared by the pixel search and the
// contour intersection: |dist - r| <= atol + rtol·r.
func (t *Tracker) onRing(dist, r float64) bool {
	return math.Abs(dist-r) <= t.cfg.ATol+t.cfg.RTol*r
}

// maxOnRing finds the maximum-intensity pixel on the radius-r ring around
// center. When local is non-nil, candidates are additionally required to lie
// within localDist of it. Ties resolve to the first pixel in row-major scan
// order; the strict > below is what guarantees that.
func (t *Tracker) maxOnRing(frame *plume.Frame, center geom.Point, r float64, local *geom.Point, localDist float64) (geom.Point, bool) {
	reach := r + t.cfg.ATol + t.cfg.RTol*r
	x0 := clampInt(int(math.Floor(center.X-reach)), 0, frame.Width-1)
	x1 := clampInt(int(math.Ceil(center.X+reach)), 0, frame.Width-1)
	y0 := clampInt(int(math.Floor(center.Y-reach)), 0, frame.Height-1)
	y1 := clampInt(int(math.Ceil(center.Y+reach)), 0, frame.Height-1)

	var best geom.Point
	var foundAny bool
	bestVal := -1
	localDist2 := localDist * localDist
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			dx := float64(x) - center.X
			dy := float64(y) - center.Y
			if !t.onRing(math.Sqrt(dx*dx+dy*dy), r) {
				continue
			}
			if local != nil {
				lx := float64(x) - local.X
				ly := float64(y) - local.Y
				if lx*lx+ly*ly > localDist2 {
					continue
				}
			}
			if v := int(frame.At(x, y)); v > bestVal {
				bestVal = v
				best = geom.Point{X: float64(x), Y: float64(y)}
				foundAny = true
			}
		}
	}
	return best, foundAny
}

// splitEdgePoints intersects the contour polylines with every ring and
// splits the hits into points above (y >= mean curve) and below it. Multiple
// hits on one side of a ring collapse to their centroid.
func (t *Tracker) splitEdgePoints(contours plume.ContourSet, meanCoef []float64) (above, below plume.Points) {
	for k := 1; k <= t.cfg.NumRings; k++ {
		r := t.cfg.RingSpacing * float64(k)

		var aSumX, aSumY float64
		var bSumX, bSumY float64
		var aN, bN int
		for _, contour := range contours {
			for _, p := range contour {
				px, py := float64(p.X), float64(p.Y)
				dist := math.Hypot(px-t.origin.X, py-t.origin.Y)
				if !t.onRing(dist, r) {
					continue
				}
				if py >= geom.EvalPolyDesc(meanCoef, px) {
					aSumX += px
					aSumY += py
					aN++
				} else {
					bSumX += px
					bSumY += py
					bN++
				}
			}
		}
		if aN > 0 {
			above = append(above, plume.Point{R: r, X: aSumX / float64(aN), Y: aSumY / float64(aN)})
		}
		if bN > 0 {
			below = append(below, plume.Point{R: r, X: bSumX / float64(bN), Y: bSumY / float64(bN)})
		}
	}
	return above, below
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
