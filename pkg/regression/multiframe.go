package regression

import (
	"fmt"

	"github.com/plumelab/go-plume/internal/log"
	"github.com/plumelab/go-plume/pkg/geom"
	"github.com/plumelab/go-plume/pkg/plume"
)

// MultiframeMean regresses every frame's mean path with one method and
// stacks the coefficient rows in frame order. When decenter is non-nil its
// coordinates are subtracted from every x and y before fitting (ring radii
// are translation invariant and stay untouched). A frame whose system is
// degenerate contributes an all-NaN row and a warning rather than failing
// the batch; the input frames are never mutated.
func MultiframeMean(frames []plume.FramePoints, method Method, deg int, dir Direction, decenter *geom.Point) (plume.CoefficientSeries, error) {
	ncoef, err := CoefCount(method, deg)
	if err != nil {
		return nil, err
	}

	series := make(plume.CoefficientSeries, len(frames))
	for i, fr := range frames {
		pts := fr.Points
		if decenter != nil {
			pts = pts.Copy()
			for j := range pts {
				pts[j].X -= decenter.X
				pts[j].Y -= decenter.Y
			}
		}
		coef, err := FrameMean(pts, method, deg, dir)
		if err != nil {
			if !IsDegenerate(err) {
				return nil, fmt.Errorf("frame %d: %w", fr.Frame, err)
			}
			log.Warn("degenerate mean fit, recording NaN row",
				"frame", fr.Frame, "points", len(fr.Points), "method", string(method))
			series[i] = NaNRow(ncoef)
			continue
		}
		series[i] = coef
	}
	return series, nil
}

// FlattenVariDist flattens per-frame (radius, distance) edge deviations into
// the (t, r) -> d rows the edge models train on.
func FlattenVariDist(vari []plume.TimedDistances) (X [][2]float64, Y []float64) {
	for _, td := range vari {
		for _, rd := range td.RD {
			X = append(X, [2]float64{float64(td.Frame), rd[0]})
			Y = append(Y, rd[1])
		}
	}
	return X, Y
}
