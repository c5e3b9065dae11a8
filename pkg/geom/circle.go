package geom

import "math"

// IntersectCircles finds the intersections of a circle centered at c0 with
// radius r0 and a circle centered at c1 with radius r1, via the radical-line
// construction. ok is false when the circles are concentric (no radical line)
// or do not intersect; callers must treat that as "no solution", never clamp.
func IntersectCircles(c0 Point, r0 float64, c1 Point, r1 float64) ([2]Point, bool) {
	d := c0.Dist(c1)
	if d == 0 {
		return [2]Point{}, false
	}
	l := (r0*r0 - r1*r1 + d*d) / (2 * d)
	h2 := r0*r0 - l*l
	if h2 < 0 {
		return [2]Point{}, false
	}
	h := math.Sqrt(h2)

	dx := (c1.X - c0.X) / d
	dy := (c1.Y - c0.Y) / d

	return [2]Point{
		{X: l*dx - h*dy + c0.X, Y: l*dy + h*dx + c0.Y},
		{X: l*dx + h*dy + c0.X, Y: l*dy - h*dx + c0.Y},
	}, true
}

// SquarePolyCoef returns the coefficients of P², where P has ascending-order
// coefficients coef. The k-th output is the discrete self-convolution
// c_k = Σ a_i·a_{k-i}.
func SquarePolyCoef(coef []float64) []float64 {
	n := len(coef)
	out := make([]float64, 2*n-1)
	for k := range out {
		var s float64
		for i := 0; i <= k; i++ {
			if i < n && k-i < n {
				s += coef[i] * coef[k-i]
			}
		}
		out[k] = s
	}
	return out
}

// IntersectCirclePoly finds the points (x, y(x)) where the polynomial curve
// y(x) with ascending-order coefficients coef crosses the circle of radius r
// centered at center. It forms the squared residual polynomial
//
//	F(x) = (x - x0)² + (y(x) - y0)²- r²
//
// and returns its real roots in solver order. No real roots yields an empty
// slice, not an error.
func IntersectCirclePoly(r float64, center Point, coef []float64) []Point {
	x0, y0 := center.X, center.Y

	var f []float64
	if len(coef) == 1 {
		f = []float64{x0*x0 + (y0-coef[0])*(y0-coef[0]) - r*r, -2 * x0, 1}
	} else {
		f = SquarePolyCoef(coef)
		for i, c := range coef {
			f[i] += -2 * y0 * c
		}
		f[0] += x0*x0 + y0*y0 - r*r
		f[1] += -2 * x0
		f[2] += 1
	}

	var sol []Point
	for _, root := range PolyRoots(f) {
		if math.Abs(imag(root)) > realRootTol {
			continue
		}
		x := real(root)
		sol = append(sol, Point{X: x, Y: EvalPolyAsc(coef, x)})
	}
	return sol
}

// realRootTol bounds the imaginary part a root may carry and still count as
// real; eigenvalue solvers leave O(1e-12) residuals on genuinely real roots.
const realRootTol = 1e-9
