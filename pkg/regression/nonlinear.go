package regression

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize"
)

// EdgeMethod selects the model fitted to flattened (t, r) -> d edge data.
type EdgeMethod string

const (
	// EdgeLinear fits d = c0 + c1·t + c2·r.
	EdgeLinear EdgeMethod = "linear"
	// EdgeSinusoid fits d = A·sin(w·r - g·t) + B·r.
	EdgeSinusoid EdgeMethod = "sinusoid"
)

// DefaultSinusoidGuess is the starting point for the sinusoid minimization
// when the caller has no better prior.
var DefaultSinusoidGuess = [4]float64{1, 1, 1, 1}

// Sinusoid fits the traveling-wave edge model
//
//	d = A·sin(w·r - g·t) + B·r
//
// to rows of X = (t, r) against Y = d, minimizing the sum of squared
// residuals from the given starting guess (A, w, g, B). The surface is
// multimodal in w and g, so the result depends on the guess.
func Sinusoid(X [][2]float64, Y []float64, guess [4]float64) ([4]float64, error) {
	if len(X) != len(Y) {
		return guess, fmt.Errorf("regression: mismatched inputs (%d X, %d Y)", len(X), len(Y))
	}
	if len(X) < 4 {
		return guess, &DegenerateFitError{Needed: 4, Got: len(X)}
	}

	f := func(p []float64) float64 {
		a, w, g, b := p[0], p[1], p[2], p[3]
		var sse float64
		for i, xy := range X {
			t, r := xy[0], xy[1]
			e := a*math.Sin(w*r-g*t) + b*r - Y[i]
			sse += e * e
		}
		return sse
	}
	grad := func(dst, p []float64) {
		a, w, g, b := p[0], p[1], p[2], p[3]
		dst[0], dst[1], dst[2], dst[3] = 0, 0, 0, 0
		for i, xy := range X {
			t, r := xy[0], xy[1]
			phase := w*r - g*t
			s, c := math.Sin(phase), math.Cos(phase)
			e := a*s + b*r - Y[i]
			dst[0] += 2 * e * s
			dst[1] += 2 * e * a * c * r
			dst[2] += 2 * e * a * c * -t
			dst[3] += 2 * e * r
		}
	}

	sol, err := minimize(f, grad, guess[:])
	if err != nil {
		return guess, fmt.Errorf("sinusoid fit: %w", err)
	}
	return [4]float64{sol[0], sol[1], sol[2], sol[3]}, nil
}

// EdgeLinearFit fits d = c0 + c1·t + c2·r by least squares.
func EdgeLinearFit(X [][2]float64, Y []float64) ([3]float64, error) {
	if len(X) != len(Y) {
		return [3]float64{}, fmt.Errorf("regression: mismatched inputs (%d X, %d Y)", len(X), len(Y))
	}
	n := len(X)
	if n < 3 {
		return [3]float64{}, &DegenerateFitError{Needed: 3, Got: n}
	}
	a := mat.NewDense(n, 3, nil)
	for i, xy := range X {
		a.Set(i, 0, 1)
		a.Set(i, 1, xy[0])
		a.Set(i, 2, xy[1])
	}
	b := mat.NewVecDense(n, append([]float64(nil), Y...))

	var qr mat.QR
	qr.Factorize(a)
	var c mat.VecDense
	if err := qr.SolveVecTo(&c, false, b); err != nil {
		return [3]float64{}, &DegenerateFitError{Needed: 3, Got: n, cause: err}
	}
	return [3]float64{c.AtVec(0), c.AtVec(1), c.AtVec(2)}, nil
}

// EdgeRegression dispatches on the edge model. The sinusoid path uses guess
// as its starting point; the linear path ignores it.
func EdgeRegression(X [][2]float64, Y []float64, method EdgeMethod, guess [4]float64) ([]float64, error) {
	switch method {
	case EdgeLinear:
		c, err := EdgeLinearFit(X, Y)
		if err != nil {
			return nil, err
		}
		return c[:], nil
	case EdgeSinusoid:
		c, err := Sinusoid(X, Y, guess)
		if err != nil {
			return nil, err
		}
		return c[:], nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMethod, method)
	}
}

// Tildify maps descending quadratic coefficients (a, b, c) to their
// Legendre-basis counterparts (c̃2, c̃1, c̃0): the same parabola expressed in
// P2, P1, P0. The map is linear and invertible everywhere, including a = 0,
// so the minimizer never crosses a singular reparameterization on
// near-linear data.
func Tildify(coef [3]float64) [3]float64 {
	a, b, c := coef[0], coef[1], coef[2]
	return [3]float64{2 * a / 3, b, c + a/3}
}

// Untildify inverts Tildify.
func Untildify(tilde [3]float64) [3]float64 {
	t2, t1, t0 := tilde[0], tilde[1], tilde[2]
	a := 3 * t2 / 2
	return [3]float64{a, t1, t0 - a/3}
}

// InvQuadratic fits the sideways parabola x = a·y² + b·y + c to (X, Y) by
// minimizing squared residuals in the tilde parameterization. When coef0 is
// nil the starting point comes from a plain least-squares quadratic of X
// against Y; otherwise coef0 supplies descending (a, b, c).
func InvQuadratic(X, Y []float64, coef0 []float64) ([3]float64, error) {
	if len(X) != len(Y) {
		return [3]float64{}, fmt.Errorf("regression: mismatched inputs (%d X, %d Y)", len(X), len(Y))
	}
	var init [3]float64
	if coef0 == nil {
		c, err := Polynomial(Y, X, 2)
		if err != nil {
			return [3]float64{}, fmt.Errorf("inverse quadratic init: %w", err)
		}
		copy(init[:], c)
	} else {
		if len(coef0) != 3 {
			return [3]float64{}, fmt.Errorf("regression: want 3 initial coefficients, got %d", len(coef0))
		}
		copy(init[:], coef0)
	}

	f := func(p []float64) float64 {
		coef := Untildify([3]float64{p[0], p[1], p[2]})
		a, b, c := coef[0], coef[1], coef[2]
		var sse float64
		for i := range X {
			e := a*Y[i]*Y[i] + b*Y[i] + c - X[i]
			sse += e * e
		}
		return sse
	}
	grad := func(dst, p []float64) {
		coef := Untildify([3]float64{p[0], p[1], p[2]})
		a, b, c := coef[0], coef[1], coef[2]
		var da, db, dc float64
		for i := range X {
			e := a*Y[i]*Y[i] + b*Y[i] + c - X[i]
			da += 2 * e * Y[i] * Y[i]
			db += 2 * e * Y[i]
			dc += 2 * e
		}
		// Chain rule through Untildify: a = 3/2·t2, b = t1, c = t0 - t2/2.
		dst[0] = 1.5*da - 0.5*dc
		dst[1] = db
		dst[2] = dc
	}

	t0 := Tildify(init)
	sol, err := minimize(f, grad, t0[:])
	if err != nil {
		return [3]float64{}, fmt.Errorf("inverse quadratic fit: %w", err)
	}
	return Untildify([3]float64{sol[0], sol[1], sol[2]}), nil
}

// minimize runs BFGS from x0 on an analytic-gradient objective. A line
// search stalling at the optimum still yields the best point found.
func minimize(f func([]float64) float64, grad func(dst, x []float64), x0 []float64) ([]float64, error) {
	problem := optimize.Problem{Func: f, Grad: grad}
	settings := &optimize.Settings{
		GradientThreshold: 1e-12,
		Converger: &optimize.FunctionConverge{
			Absolute:   1e-15,
			Iterations: 50,
		},
	}
	start := append([]float64(nil), x0...)
	result, err := optimize.Minimize(problem, start, settings, &optimize.BFGS{})
	if result == nil {
		return nil, err
	}
	if err != nil && (math.IsNaN(result.F) || result.F > f(x0)) {
		return nil, err
	}
	return result.X, nil
}
