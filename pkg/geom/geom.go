// Package geom provides the small amount of planar geometry the plume
// tracker and ROM evaluator depend on: circle-circle intersection,
// circle-polynomial intersection and polynomial helpers.
package geom

import "math"

// Point is a 2D point in frame coordinates.
type Point struct {
	X, Y float64
}

// Dist returns the Euclidean distance between p and q.
func (p Point) Dist(q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// EvalPolyAsc evaluates a polynomial with ascending-order coefficients
// [a0, a1, ..., an] at x.
func EvalPolyAsc(coef []float64, x float64) float64 {
	y := 0.0
	for i := len(coef) - 1; i >= 0; i-- {
		y = y*x + coef[i]
	}
	return y
}

// EvalPolyDesc evaluates a polynomial with descending-order coefficients
// [an, ..., a1, a0] at x. This is the order the regression routines emit.
func EvalPolyDesc(coef []float64, x float64) float64 {
	y := 0.0
	for _, c := range coef {
		y = y*x + c
	}
	return y
}

// ReverseCoef returns a copy of coef in the opposite order, converting
// between ascending and descending coefficient conventions.
func ReverseCoef(coef []float64) []float64 {
	out := make([]float64, len(coef))
	for i, c := range coef {
		out[len(coef)-1-i] = c
	}
	return out
}
