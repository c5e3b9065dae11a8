// Package regression provides the curve-fitting modes used to turn tracked
// plume points into reduced-order model coefficients: linear least squares
// for the polynomial families and gradient-based minimization for the
// sinusoid and inverse-quadratic models.
package regression

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/plumelab/go-plume/pkg/plume"
)

// Method selects the functional form fitted to a frame's points.
type Method string

const (
	// MethodLinear fits y = a·x + b.
	MethodLinear Method = "linear"
	// MethodPoly fits y = p(x) of configurable degree.
	MethodPoly Method = "poly"
	// MethodPolyInv fits x = p(±y), sidestepping near-vertical point sets.
	MethodPolyInv Method = "poly_inv"
	// MethodPolyPara fits x = p1(r) and y = p2(r) parametrically in the
	// ring radius and concatenates the two coefficient rows.
	MethodPolyPara Method = "poly_para"
)

// Direction selects the branch of an inverse fit. The plume can bend up or
// down, so x = p(y) and x = p(-y) are genuinely different models.
type Direction string

const (
	// DirRight fits against +y.
	DirRight Direction = "right"
	// DirLeft fits against -y.
	DirLeft Direction = "left"
	// DirEither fits both branches and keeps the lower-residual one. The
	// winner can differ from frame to frame; pin a direction when the
	// coefficient series must stay on one branch.
	DirEither Direction = "either"
)

// CoefCount returns the width of a coefficient row produced by the method at
// the given polynomial degree.
func CoefCount(method Method, deg int) (int, error) {
	switch method {
	case MethodLinear:
		return 2, nil
	case MethodPoly, MethodPolyInv:
		return deg + 1, nil
	case MethodPolyPara:
		return 2 * (deg + 1), nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownMethod, method)
	}
}

// Polynomial fits y = p(x) of the given degree by least squares and returns
// the coefficients in descending order of power. Fewer points than
// coefficients, or a rank-deficient system, yields a DegenerateFitError.
func Polynomial(x, y []float64, deg int) ([]float64, error) {
	n := len(x)
	if n != len(y) {
		return nil, fmt.Errorf("regression: mismatched inputs (%d x, %d y)", n, len(y))
	}
	ncoef := deg + 1
	if n < ncoef {
		return nil, &DegenerateFitError{Needed: ncoef, Got: n}
	}

	a := mat.NewDense(n, ncoef, nil)
	for i := 0; i < n; i++ {
		v := 1.0
		for j := ncoef - 1; j >= 0; j-- {
			a.Set(i, j, v)
			v *= x[i]
		}
	}
	b := mat.NewVecDense(n, append([]float64(nil), y...))

	var qr mat.QR
	qr.Factorize(a)
	var c mat.VecDense
	if err := qr.SolveVecTo(&c, false, b); err != nil {
		return nil, &DegenerateFitError{Needed: ncoef, Got: n, cause: err}
	}

	out := make([]float64, ncoef)
	for j := range out {
		out[j] = c.AtVec(j)
	}
	return out, nil
}

// Linear fits y = a·x + b and returns (a, b).
func Linear(x, y []float64) ([]float64, error) {
	return Polynomial(x, y, 1)
}

// PolyInv fits the inverse model x = p(u) where u is +y (right branch) or -y
// (left branch). With DirEither both branches are fitted and the one with the
// lower sum of squared residuals wins; the left branch wins exact ties.
func PolyInv(x, y []float64, deg int, dir Direction) ([]float64, error) {
	switch dir {
	case DirRight:
		return Polynomial(y, x, deg)
	case DirLeft:
		return Polynomial(negate(y), x, deg)
	case DirEither:
		left, errL := Polynomial(negate(y), x, deg)
		right, errR := Polynomial(y, x, deg)
		if errL != nil {
			return right, errR
		}
		if errR != nil {
			return left, nil
		}
		if polyResidual(left, negate(y), x) <= polyResidual(right, y, x) {
			return left, nil
		}
		return right, nil
	default:
		return nil, fmt.Errorf("regression: unknown direction %q", dir)
	}
}

// Parametric fits x = p1(r), y = p2(r) against the ring radii and returns
// the concatenation of the two descending coefficient rows.
func Parametric(r, x, y []float64, deg int) ([]float64, error) {
	cx, err := Polynomial(r, x, deg)
	if err != nil {
		return nil, err
	}
	cy, err := Polynomial(r, y, deg)
	if err != nil {
		return nil, err
	}
	return append(cx, cy...), nil
}

// FrameMean fits one frame's mean-path points with the selected method and
// returns the coefficient row. The input points are never mutated.
func FrameMean(points plume.Points, method Method, deg int, dir Direction) ([]float64, error) {
	r := make([]float64, len(points))
	x := make([]float64, len(points))
	y := make([]float64, len(points))
	for i, p := range points {
		r[i], x[i], y[i] = p.R, p.X, p.Y
	}
	switch method {
	case MethodLinear:
		return Linear(x, y)
	case MethodPoly:
		return Polynomial(x, y, deg)
	case MethodPolyInv:
		return PolyInv(x, y, deg, dir)
	case MethodPolyPara:
		return Parametric(r, x, y, deg)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMethod, method)
	}
}

// polyResidual is the sum of squared residuals of y = p(x) for descending
// coefficients.
func polyResidual(coef, x, y []float64) float64 {
	var sse float64
	for i := range x {
		v := 0.0
		for _, c := range coef {
			v = v*x[i] + c
		}
		d := y[i] - v
		sse += d * d
	}
	return sse
}

func negate(v []float64) []float64 {
	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = -x
	}
	return out
}

// NaNRow returns an all-NaN coefficient row of width n, the marker batch
// fits use for degenerate frames.
func NaNRow(n int) []float64 {
	row := make([]float64, n)
	for i := range row {
		row[i] = math.NaN()
	}
	return row
}
