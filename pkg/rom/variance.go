package rom

import (
	"math"

	"github.com/plumelab/go-plume/pkg/geom"
	"github.com/plumelab/go-plume/pkg/plume"
	"github.com/plumelab/go-plume/pkg/regression"
)

// Side distinguishes the two edge models of a plume.
type Side int

const (
	// SideUpper is the edge at or above the mean curve.
	SideUpper Side = iota
	// SideLower is the edge at or below it.
	SideLower
)

func (s Side) String() string {
	if s == SideUpper {
		return "upper"
	}
	return "lower"
}

// VarianceModel is one side's fitted edge model together with the mean
// coefficients it rides on. All coordinates are origin-translated: the plume
// source sits at (0, 0).
type VarianceModel struct {
	// Params is the sinusoid (A, w, g, B) of d = A·sin(w·r - g·t) + B·r.
	Params [4]float64
	// Side selects which circle intersection counts as the edge.
	Side Side
	// MeanCoef is the per-frame mean curve the distances are measured
	// from.
	MeanCoef plume.CoefficientSeries
	// Training records the bootstrap run that produced Params.
	Training regression.EnsembleResult
}

// EvalEdge reconstructs the edge position above or below the mean curve at
// frame t and origin-translated abscissa x. It reports ok = false when the
// frame has no usable mean fit or the two circles do not intersect; a miss
// is an expected outcome near the origin and outside the tracked span, not
// an error. The modeled distance enters only through its magnitude, so a
// sinusoid zero-crossing puts the edge on the mean curve itself.
func (m *VarianceModel) EvalEdge(t int, x float64) (geom.Point, bool) {
	if t < 0 || t >= len(m.MeanCoef) || m.MeanCoef.NaNRow(t) {
		return geom.Point{}, false
	}
	coef := m.MeanCoef[t]

	y := geom.EvalPolyDesc(coef, x)
	r := math.Hypot(x, y)
	if r == 0 {
		return geom.Point{}, false
	}

	a, w, g, b := m.Params[0], m.Params[1], m.Params[2], m.Params[3]
	d := math.Abs(a*math.Sin(w*r-g*float64(t)) + b*r)

	sols, ok := geom.IntersectCircles(geom.Point{}, r, geom.Point{X: x, Y: y}, d)
	if !ok {
		return geom.Point{}, false
	}
	for _, s := range sols {
		mean := geom.EvalPolyDesc(coef, s.X)
		if m.Side == SideUpper && s.Y >= mean {
			return s, true
		}
		if m.Side == SideLower && s.Y <= mean {
			return s, true
		}
	}
	return geom.Point{}, false
}
