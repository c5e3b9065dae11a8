package rom

import (
	"math"
	"testing"

	"github.com/plumelab/go-plume/pkg/plume"
	"github.com/plumelab/go-plume/pkg/regression"
)

func TestFlattenEdgePoints(t *testing.T) {
	mean := plume.Points{
		{R: 50, X: 50, Y: 0},
		{R: 100, X: 100, Y: 0},
	}
	edge := plume.Points{
		{R: 50, X: 50, Y: 30},    // matches ring 50, distance 30
		{R: 100, X: 100, Y: -40}, // matches ring 100, distance 40
		{R: 75, X: 75, Y: 10},    // no mean point on this ring
	}
	got := FlattenEdgePoints(mean, edge)
	want := [][2]float64{{50, 30}, {100, 40}}
	if len(got) != len(want) {
		t.Fatalf("rows = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("row %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestFlattenEdgePointsEmpty(t *testing.T) {
	if got := FlattenEdgePoints(nil, plume.Points{{R: 50, X: 1, Y: 1}}); got != nil {
		t.Fatalf("no mean points should flatten to nothing, got %v", got)
	}
	if got := FlattenEdgePoints(plume.Points{{R: 50}}, nil); got != nil {
		t.Fatalf("no edge points should flatten to nothing, got %v", got)
	}
}

// flatMean is a single-frame series for the mean curve y = 0.
var flatMean = plume.CoefficientSeries{{0, 0, 0}}

func TestEvalEdgeUpperLower(t *testing.T) {
	// Distance model d = r/2: at x = 4 the mean point is (4, 0), r = 4,
	// d = 2, and the ring/edge circles meet at x = 3.5, y = ±sqrt(3.75).
	m := &VarianceModel{
		Params:   [4]float64{0, 1, 0, 0.5},
		Side:     SideUpper,
		MeanCoef: flatMean,
	}
	wantY := math.Sqrt(3.75)

	p, ok := m.EvalEdge(0, 4)
	if !ok {
		t.Fatal("upper evaluation missed")
	}
	if math.Abs(p.X-3.5) > 1e-9 || math.Abs(p.Y-wantY) > 1e-9 {
		t.Fatalf("upper edge = (%g, %g), want (3.5, %g)", p.X, p.Y, wantY)
	}

	m.Side = SideLower
	p, ok = m.EvalEdge(0, 4)
	if !ok {
		t.Fatal("lower evaluation missed")
	}
	if math.Abs(p.X-3.5) > 1e-9 || math.Abs(p.Y+wantY) > 1e-9 {
		t.Fatalf("lower edge = (%g, %g), want (3.5, %g)", p.X, p.Y, -wantY)
	}
}

func TestEvalEdgeMisses(t *testing.T) {
	tests := []struct {
		name  string
		model VarianceModel
		t     int
		x     float64
	}{
		{
			"frame out of range",
			VarianceModel{Params: [4]float64{0, 1, 0, 0.5}, MeanCoef: flatMean},
			5, 4,
		},
		{
			"NaN coefficient row",
			VarianceModel{
				Params:   [4]float64{0, 1, 0, 0.5},
				MeanCoef: plume.CoefficientSeries{regression.NaNRow(3)},
			},
			0, 4,
		},
		{
			"edge circle swallows the ring",
			VarianceModel{Params: [4]float64{0, 1, 0, 10}, MeanCoef: flatMean},
			0, 4,
		},
		{
			"at the origin",
			VarianceModel{Params: [4]float64{0, 1, 0, 0.5}, MeanCoef: flatMean},
			0, 0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, ok := tt.model.EvalEdge(tt.t, tt.x); ok {
				t.Fatal("want miss")
			}
		})
	}
}

func TestEvalEdgeDistanceMagnitude(t *testing.T) {
	// The modeled distance is a radius: only its magnitude matters.
	pos := &VarianceModel{Params: [4]float64{0, 1, 0, 0.5}, Side: SideUpper, MeanCoef: flatMean}
	neg := &VarianceModel{Params: [4]float64{0, 1, 0, -0.5}, Side: SideUpper, MeanCoef: flatMean}

	pp, okP := pos.EvalEdge(0, 4)
	pn, okN := neg.EvalEdge(0, 4)
	if !okP || !okN {
		t.Fatal("evaluations missed")
	}
	if pp != pn {
		t.Fatalf("sign of the distance changed the edge: %v vs %v", pp, pn)
	}
}

func TestEvalEdgeZeroDistanceTouchesMean(t *testing.T) {
	// A zero modeled distance collapses the edge onto the mean curve.
	m := &VarianceModel{Params: [4]float64{0, 1, 0, 0}, Side: SideUpper, MeanCoef: flatMean}
	p, ok := m.EvalEdge(0, 4)
	if !ok {
		t.Fatal("evaluation missed")
	}
	if math.Abs(p.X-4) > 1e-12 || math.Abs(p.Y) > 1e-12 {
		t.Fatalf("edge = (%g, %g), want the mean point (4, 0)", p.X, p.Y)
	}
}

func TestEvalEdgeTimeDependence(t *testing.T) {
	// A nonzero g makes the reconstructed edge move between frames.
	series := plume.CoefficientSeries{{0, 0, 0}, {0, 0, 0}}
	m := &VarianceModel{
		Params:   [4]float64{0.5, 0.3, 1.0, 0.5},
		Side:     SideUpper,
		MeanCoef: series,
	}
	p0, ok0 := m.EvalEdge(0, 10)
	p1, ok1 := m.EvalEdge(1, 10)
	if !ok0 || !ok1 {
		t.Fatal("evaluations missed")
	}
	if p0 == p1 {
		t.Fatal("edge did not move over time")
	}
}
