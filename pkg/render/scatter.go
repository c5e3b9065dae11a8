package render

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"

	"github.com/plumelab/go-plume/pkg/rom"
)

// VarianceScatter plots the flattened (radius, distance) rows of one edge
// side across all tracked frames, the data the sinusoid model is trained on.
func VarianceScatter(s *rom.Session, side rom.Side) (*plot.Plot, error) {
	st := s.State()
	edges := st.EdgeAbove
	if side == rom.SideLower {
		edges = st.EdgeBelow
	}
	if len(edges) == 0 {
		return nil, fmt.Errorf("render: session has no tracked edges")
	}

	var xys plotter.XYs
	for i, e := range edges {
		for _, rd := range rom.FlattenEdgePoints(st.Mean[i].Points, e.Points) {
			xys = append(xys, plotter.XY{X: rd[0], Y: rd[1]})
		}
	}
	if len(xys) == 0 {
		return nil, fmt.Errorf("render: no %s edge distances to plot", side)
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s edge distances", side)
	p.X.Label.Text = "ring radius (px)"
	p.Y.Label.Text = "distance from mean (px)"

	sc, err := plotter.NewScatter(xys)
	if err != nil {
		return nil, fmt.Errorf("render: scatter: %w", err)
	}
	if side == rom.SideUpper {
		sc.Color = upperColor
	} else {
		sc.Color = lowerColor
	}
	p.Add(sc)
	return p, nil
}
