package geom

import (
	"math"
	"sort"
	"testing"
)

const tol = 1e-9

func TestIntersectCircles(t *testing.T) {
	tests := []struct {
		name   string
		c0     Point
		r0     float64
		c1     Point
		r1     float64
		wantOK bool
	}{
		{
			name: "unit circles offset on x",
			c0:   Point{0, 0}, r0: 1,
			c1: Point{1, 0}, r1: 1,
			wantOK: true,
		},
		{
			name: "different radii",
			c0:   Point{0, 0}, r0: 2,
			c1: Point{3, 1}, r1: 1.5,
			wantOK: true,
		},
		{
			name: "concentric",
			c0:   Point{2, 2}, r0: 1,
			c1: Point{2, 2}, r1: 2,
			wantOK: false,
		},
		{
			name: "disjoint",
			c0:   Point{0, 0}, r0: 1,
			c1: Point{10, 0}, r1: 1,
			wantOK: false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			sols, ok := IntersectCircles(tc.c0, tc.r0, tc.c1, tc.r1)
			if ok != tc.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tc.wantOK)
			}
			if !ok {
				return
			}
			for i, p := range sols {
				if d := math.Abs(p.Dist(tc.c0) - tc.r0); d > tol {
					t.Errorf("sol %d: distance to c0 off by %g", i, d)
				}
				if d := math.Abs(p.Dist(tc.c1) - tc.r1); d > tol {
					t.Errorf("sol %d: distance to c1 off by %g", i, d)
				}
			}
		})
	}
}

func TestSquarePolyCoef(t *testing.T) {
	tests := []struct {
		name string
		coef []float64
		want []float64
	}{
		{
			name: "one plus x",
			coef: []float64{1, 1},
			want: []float64{1, 2, 1},
		},
		{
			name: "quadratic",
			coef: []float64{1, 2, 3},
			want: []float64{1, 4, 10, 12, 9},
		},
		{
			name: "constant",
			coef: []float64{2},
			want: []float64{4},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := SquarePolyCoef(tc.coef)
			if len(got) != len(tc.want) {
				t.Fatalf("len = %d, want %d", len(got), len(tc.want))
			}
			for i := range got {
				if math.Abs(got[i]-tc.want[i]) > tol {
					t.Errorf("coef %d = %g, want %g", i, got[i], tc.want[i])
				}
			}
		})
	}
}

func TestPolyRoots(t *testing.T) {
	// x² - 1
	roots := PolyRoots([]float64{-1, 0, 1})
	if len(roots) != 2 {
		t.Fatalf("got %d roots, want 2", len(roots))
	}
	got := []float64{real(roots[0]), real(roots[1])}
	sort.Float64s(got)
	for i, want := range []float64{-1, 1} {
		if math.Abs(got[i]-want) > 1e-8 {
			t.Errorf("root %d = %g, want %g", i, got[i], want)
		}
		if math.Abs(imag(roots[i])) > 1e-8 {
			t.Errorf("root %d has imaginary part %g", i, imag(roots[i]))
		}
	}
}

func TestIntersectCirclePoly(t *testing.T) {
	t.Run("horizontal line through origin circle", func(t *testing.T) {
		// y = 0, circle radius 2 at origin: expect x = ±2.
		sols := IntersectCirclePoly(2, Point{0, 0}, []float64{0})
		if len(sols) != 2 {
			t.Fatalf("got %d solutions, want 2", len(sols))
		}
		xs := []float64{sols[0].X, sols[1].X}
		sort.Float64s(xs)
		for i, want := range []float64{-2, 2} {
			if math.Abs(xs[i]-want) > 1e-8 {
				t.Errorf("x %d = %g, want %g", i, xs[i], want)
			}
		}
	})

	t.Run("line on circle", func(t *testing.T) {
		// y = 1 + x against the circle of radius √2 at the origin.
		sols := IntersectCirclePoly(math.Sqrt2, Point{0, 0}, []float64{1, 1})
		if len(sols) != 2 {
			t.Fatalf("got %d solutions, want 2", len(sols))
		}
		for i, p := range sols {
			if d := math.Abs(p.Dist(Point{0, 0}) - math.Sqrt2); d > 1e-8 {
				t.Errorf("sol %d: radius off by %g", i, d)
			}
			if d := math.Abs(p.Y - (1 + p.X)); d > 1e-8 {
				t.Errorf("sol %d: not on the line, off by %g", i, d)
			}
		}
	})

	t.Run("no real intersection", func(t *testing.T) {
		// y = 10 never meets the unit circle at the origin.
		sols := IntersectCirclePoly(1, Point{0, 0}, []float64{10, 0, 0})
		if len(sols) != 0 {
			t.Fatalf("got %d solutions, want none", len(sols))
		}
	})
}
