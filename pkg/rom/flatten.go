package rom

import (
	"math"

	"github.com/plumelab/go-plume/pkg/geom"
	"github.com/plumelab/go-plume/pkg/plume"
)

// Radius matching tolerances for pairing edge points with mean points found
// on the same ring.
const (
	radiusMatchRTol = 1e-5
	radiusMatchATol = 1e-8
)

// FlattenEdgePoints pairs each edge point with the first mean point on the
// same ring and reduces the pair to a (radius, distance) row. Edge points
// whose ring produced no mean point are dropped; the result keeps the edge
// point order.
func FlattenEdgePoints(mean, edge plume.Points) [][2]float64 {
	var out [][2]float64
	for _, e := range edge {
		for _, m := range mean {
			if math.Abs(m.R-e.R) > radiusMatchATol+radiusMatchRTol*math.Abs(e.R) {
				continue
			}
			d := geom.Point{X: m.X, Y: m.Y}.Dist(geom.Point{X: e.X, Y: e.Y})
			out = append(out, [2]float64{e.R, d})
			break
		}
	}
	return out
}
